// Package l10n holds the interface translations and the language and voice
// catalog.
package l10n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var (
	cat     *catalog.Builder
	known   = map[string]bool{}
	matcher language.Matcher
)

func init() {
	cat = catalog.NewBuilder(catalog.Fallback(language.MustParse(DefaultLanguage)))
	tags := make([]language.Tag, 0, len(languages))
	for _, l := range languages {
		tags = append(tags, language.MustParse(l.Code))
	}
	matcher = language.NewMatcher(tags)

	for code, msgs := range translations {
		tag := language.MustParse(code)
		for key, msg := range msgs {
			_ = cat.SetString(tag, key, msg)
			known[key] = true
		}
	}
}

// Translator renders interface messages in one language.
type Translator struct {
	code    string
	printer *message.Printer
}

// New returns a translator for the supported language closest to code.
func New(code string) *Translator {
	code = Match(code)
	return &Translator{
		code:    code,
		printer: message.NewPrinter(language.MustParse(code), message.Catalog(cat)),
	}
}

// Code returns the translator's language code.
func (t *Translator) Code() string { return t.code }

// T renders the message for key with args. Unknown keys render as the key
// itself.
func (t *Translator) T(key string, args ...any) string {
	if !known[key] {
		return key
	}
	return t.printer.Sprintf(key, args...)
}

// Match returns the supported language code closest to code, or
// DefaultLanguage.
func Match(code string) string {
	if c, ok := MatchSupported(code); ok {
		return c
	}
	return DefaultLanguage
}

// MatchSupported returns the supported language code closest to code. It
// reports false when code is not a valid tag or no supported language is
// close to it.
func MatchSupported(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", false
	}
	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return languages[i].Code, true
}

// Detect returns the supported language matching the user's locale
// environment.
func Detect() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		// Strip the encoding and modifier: pt_BR.UTF-8@euro.
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return Match(v)
	}
	return DefaultLanguage
}
