package narration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/playback"
)

// Synthesizers are the system speech commands tried in order.
var Synthesizers = []string{"espeak-ng", "espeak", "say", "spd-say"}

// ErrNoSynthesizer is returned when no speech command is installed.
var ErrNoSynthesizer = errors.New("no speech synthesizer found (install espeak-ng, or use --mode silent)")

// baseWordsPerMinute is the speaking rate passed to synthesizers at 1.0x.
const baseWordsPerMinute = 175

// Speech narrates with the operating system's speech synthesizer, one
// process per sentence. Cancel kills the process.
type Speech struct {
	// Command is the synthesizer binary.
	Command string
	// Voices maps voice selectors to synthesizer voice names, ignoring case.
	// Selectors without an entry are passed through unchanged.
	Voices map[string]string

	logger *log.Logger
	r      *runner
}

// FindSynthesizer returns the path of the first installed synthesizer.
func FindSynthesizer() (string, error) {
	for _, name := range Synthesizers {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNoSynthesizer
}

// NewSpeech returns a Speech driver for command, or for the first installed
// synthesizer when command is empty.
func NewSpeech(command string, logger *log.Logger) (*Speech, error) {
	if command == "" {
		var err error
		if command, err = FindSynthesizer(); err != nil {
			return nil, err
		}
	} else if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("speech synthesizer %q: %w", command, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Speech{
		Command: command,
		logger:  logger.WithPrefix("speech"),
		r:       newRunner(),
	}, nil
}

func (s *Speech) mapVoice(voice string) string {
	if mapped, ok := s.Voices[voice]; ok {
		return mapped
	}
	for k, mapped := range s.Voices {
		if strings.EqualFold(k, voice) {
			return mapped
		}
	}
	return voice
}

// Args returns the command line arguments for req. The sentence itself is
// written to the synthesizer's stdin.
func (s *Speech) Args(req playback.Request) []string {
	voice := s.mapVoice(req.Voice)
	rate := req.Rate
	if rate <= 0 {
		rate = 1
	}
	wpm := strconv.Itoa(int(math.Round(baseWordsPerMinute * rate)))

	var args []string
	switch strings.TrimSuffix(filepath.Base(s.Command), ".exe") {
	case "say":
		args = []string{"-r", wpm}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		args = append(args, "-f", "-")
	case "spd-say":
		// spd-say takes a relative rate in [-100, 100].
		rel := int(math.Round((rate - 1) * 100))
		rel = max(-100, min(100, rel))
		args = []string{"--wait", "--pipe-mode", "-r", strconv.Itoa(rel)}
		if voice != "" {
			args = append(args, "-y", voice)
		}
	default:
		// espeak and espeak-ng, and anything flag compatible.
		args = []string{"-s", wpm}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		args = append(args, "--stdin")
	}
	return args
}

// Speak implements playback.Driver.
func (s *Speech) Speak(req playback.Request) error {
	args := s.Args(req)
	s.logger.Debug("speaking", "handle", req.Handle, "index", req.Index, "command", s.Command)
	return s.r.start(req.Handle, func(ctx context.Context) error {
		_, err := runCommand(ctx, req.Text, s.Command, args...)
		return err
	})
}

// Cancel implements playback.Driver.
func (s *Speech) Cancel(h playback.Handle) { s.r.cancel(h) }

// Events implements playback.Driver.
func (s *Speech) Events() <-chan playback.Event { return s.r.events }

// Close kills any running synthesizer.
func (s *Speech) Close() error {
	s.r.close()
	return nil
}
