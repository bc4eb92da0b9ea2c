package ui

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/narration"
	"github.com/dgnsrekt/readaloud/playback"
)

// Config contains TUI-specific configuration.
type Config struct {
	// Path of the document to read.
	Path string
	// Width caps the text width; 0 uses the terminal width.
	Width       int
	EnableMouse bool
	AutoPlay    bool
	// Mode is the narration mode shown in the footer.
	Mode string
	// PagesPerChapter groups PDF pages.
	PagesPerChapter   int
	KeepEmptyChapters bool
	SaveInterval      time.Duration

	// Theme is "auto", "dark" or "light".
	Theme string `env:"READALOUD_THEME" envDefault:"auto"`
	// For debugging the UI
	HighPerformancePager bool `env:"READALOUD_HIGH_PERFORMANCE_PAGER"`
}

// Options are the collaborators of the reader program.
type Options struct {
	Config   Config
	Playback playback.Config
	Driver   narration.Driver
	// History is optional.
	History    *history.Store
	Translator *l10n.Translator
	Logger     *log.Logger
}
