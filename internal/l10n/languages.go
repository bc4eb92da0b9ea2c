package l10n

import "slices"

// DefaultLanguage is used when no supported language matches.
const DefaultLanguage = "pt-BR"

// Voice is a narration voice offered for a language.
type Voice struct {
	ID   string
	Name string
}

// Language is a supported interface and narration language.
type Language struct {
	Code   string
	Name   string
	Voices []Voice
}

var languages = []Language{
	{
		Code: "pt-BR",
		Name: "Português (Brasil)",
		Voices: []Voice{
			{ID: "Kore", Name: "Kore"},
			{ID: "Puck", Name: "Puck"},
			{ID: "Charon", Name: "Charon"},
			{ID: "Zephyr", Name: "Zephyr"},
		},
	},
	{
		Code: "en-US",
		Name: "English (USA)",
		Voices: []Voice{
			{ID: "Zephyr", Name: "Zephyr"},
			{ID: "Puck", Name: "Puck"},
			{ID: "Charon", Name: "Charon"},
		},
	},
	{
		Code: "es-ES",
		Name: "Español (España)",
		Voices: []Voice{
			{ID: "Fenrir", Name: "Fenrir"},
			{ID: "Kore", Name: "Kore"},
		},
	},
	{
		Code: "ru-RU",
		Name: "Русский (Россия)",
		Voices: []Voice{
			{ID: "Fenrir", Name: "Fenrir"},
			{ID: "Kore", Name: "Kore"},
		},
	},
}

// Languages returns the supported languages in display order.
func Languages() []Language {
	return slices.Clone(languages)
}

// LookupLanguage returns the language with the given code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range languages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// NextVoice returns the voice after current in the language's list, wrapping
// around. An unknown voice yields the first one.
func (l Language) NextVoice(current string) Voice {
	if len(l.Voices) == 0 {
		return Voice{}
	}
	for i, v := range l.Voices {
		if v.ID == current {
			return l.Voices[(i+1)%len(l.Voices)]
		}
	}
	return l.Voices[0]
}

var speedPresets = []float64{0.8, 1.0, 1.2, 1.5, 2.0}

// SpeedPresets returns the selectable narration rates, slowest first.
func SpeedPresets() []float64 {
	return slices.Clone(speedPresets)
}

// StepSpeed returns the preset after rate when up is set, or before it
// otherwise. Rates between presets step to the nearest one in that
// direction; the ends are sticky.
func StepSpeed(rate float64, up bool) float64 {
	if up {
		for _, p := range speedPresets {
			if p > rate+1e-9 {
				return p
			}
		}
		return speedPresets[len(speedPresets)-1]
	}
	for i := len(speedPresets) - 1; i >= 0; i-- {
		if speedPresets[i] < rate-1e-9 {
			return speedPresets[i]
		}
	}
	return speedPresets[0]
}
