package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	fuchsia   = lipgloss.Color("#EE6FF8")
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}

	subtleFg          = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	statusBarNoteFg   = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg       = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
	highlightFg       = lipgloss.AdaptiveColor{Light: "#1B1B1B", Dark: "#1B1B1B"}
	highlightBg       = lipgloss.AdaptiveColor{Light: "#FFE08A", Dark: "#F5C542"}
	timelineFilledFg  = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#89F0CB"}
	timelineEmptyFg   = lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#3A3A3A"}
	statusBarStateBg  = lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}
	statusBarPlayFg   = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#89F0CB"}
	statusBarHelpNote = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1F1F1")).
			Background(red).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().Foreground(subtleFg)

	emptyTitleStyle = lipgloss.NewStyle().
			Foreground(fuchsia).
			Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(highlightFg).
			Background(highlightBg)

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarStateStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarStateBg).
				Render

	statusBarPlayingStyle = lipgloss.NewStyle().
				Foreground(statusBarPlayFg).
				Background(statusBarStateBg).
				Bold(true).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F1F1F1")).
				Background(red).
				Render

	timelineFilledStyle = lipgloss.NewStyle().Foreground(timelineFilledFg).Render
	timelineEmptyStyle  = lipgloss.NewStyle().Foreground(timelineEmptyFg).Render

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarHelpNote).
			Padding(0, 2)
)

// detectDarkBackground resolves a theme setting to dark or light.
func detectDarkBackground(theme string) bool {
	switch theme {
	case "dark":
		return true
	case "light":
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
