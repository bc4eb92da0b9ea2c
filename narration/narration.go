// Package narration provides the speech drivers behind playback: a silent
// timer, the system speech synthesizer and Piper neural voices.
package narration

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/internal/audio"
	"github.com/dgnsrekt/readaloud/internal/cache"
	"github.com/dgnsrekt/readaloud/playback"
)

// Narration modes.
const (
	ModeSilent = "silent"
	ModeNative = "native"
	ModeNeural = "neural"
)

// Modes lists the available narration modes.
func Modes() []string {
	return []string{ModeNative, ModeNeural, ModeSilent}
}

// Driver is a playback driver that holds resources.
type Driver interface {
	playback.Driver
	io.Closer
}

// Config selects and configures a driver.
type Config struct {
	Mode           string
	WordsPerMinute float64
	// Command is the system synthesizer for native mode.
	Command string
	// Voices maps voice selectors to native synthesizer voices.
	Voices map[string]string

	PiperBinary string
	Model       string
	Timeout     time.Duration
	// SampleRate of the voice model output, 22050 when zero.
	SampleRate int
	// Cache configures the neural audio cache. An empty DiskPath disables it.
	Cache cache.Config

	Logger *log.Logger
}

// New returns the driver for config.Mode.
func New(config Config) (Driver, error) {
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	switch config.Mode {
	case ModeSilent:
		return NewSilent(config.WordsPerMinute), nil

	case "", ModeNative:
		s, err := NewSpeech(config.Command, logger)
		if err != nil {
			return nil, err
		}
		s.Voices = config.Voices
		return s, nil

	case ModeNeural:
		format := audio.DefaultFormat()
		if config.SampleRate > 0 {
			format.SampleRate = config.SampleRate
		}
		if err := format.Validate(); err != nil {
			return nil, err
		}
		player, err := audio.NewOtoPlayer(format, logger)
		if err != nil {
			return nil, err
		}
		var c *cache.Manager
		if config.Cache.DiskPath != "" {
			if c, err = cache.NewManager(config.Cache, logger); err != nil {
				logger.Warn("audio cache disabled", "err", err)
				c = nil
			}
		}
		n, err := NewNeural(NeuralConfig{
			Binary:  config.PiperBinary,
			Model:   config.Model,
			Timeout: config.Timeout,
			Cache:   c,
			Player:  player,
			Format:  format,
			Logger:  logger,
		})
		if err != nil {
			if c != nil {
				_ = c.Close()
			}
			return nil, err
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown narration mode %q (available: %v)", config.Mode, Modes())
	}
}
