package narration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/internal/audio"
	"github.com/dgnsrekt/readaloud/internal/cache"
	"github.com/dgnsrekt/readaloud/playback"
)

// DefaultSynthesisTimeout bounds a single Piper run.
const DefaultSynthesisTimeout = 30 * time.Second

// maxNeuralText is the longest sentence sent to Piper in one run.
const maxNeuralText = 5000

// Neural narrates with a Piper voice model. Audio is cached by sentence,
// voice, model and rate, and played on the audio device.
type Neural struct {
	Binary  string
	Model   string
	Timeout time.Duration

	cache  *cache.Manager
	player audio.Player
	format audio.Format
	logger *log.Logger
	r      *runner
}

// NeuralConfig configures a Neural driver.
type NeuralConfig struct {
	// Binary is the piper executable, "piper" when empty.
	Binary string
	// Model is the path of the .onnx voice model.
	Model   string
	Timeout time.Duration
	// Cache is optional.
	Cache  *cache.Manager
	Player audio.Player
	Format audio.Format
	Logger *log.Logger
}

// NewNeural validates config and returns a Neural driver.
func NewNeural(config NeuralConfig) (*Neural, error) {
	if config.Model == "" {
		return nil, errors.New("neural mode needs a voice model (set narration.model)")
	}
	if _, err := os.Stat(config.Model); err != nil {
		return nil, fmt.Errorf("voice model not found: %w", err)
	}
	if config.Binary == "" {
		config.Binary = "piper"
	}
	if _, err := exec.LookPath(config.Binary); err != nil {
		return nil, fmt.Errorf("piper not found: %w", err)
	}
	if config.Player == nil {
		return nil, errors.New("neural mode needs an audio player")
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultSynthesisTimeout
	}
	if config.Format == (audio.Format{}) {
		config.Format = audio.DefaultFormat()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	return &Neural{
		Binary:  config.Binary,
		Model:   config.Model,
		Timeout: config.Timeout,
		cache:   config.Cache,
		player:  config.Player,
		format:  config.Format,
		logger:  config.Logger.WithPrefix("neural"),
		r:       newRunner(),
	}, nil
}

// Args returns the piper arguments for req. Piper's length scale is the
// inverse of the narration rate; numeric voices select a speaker of a
// multi-speaker model.
func (n *Neural) Args(req playback.Request) []string {
	rate := req.Rate
	if rate <= 0 {
		rate = 1
	}
	args := []string{
		"--model", n.Model,
		"--output-raw",
		"--length-scale", strconv.FormatFloat(1/rate, 'f', 2, 64),
	}
	if cfg := strings.TrimSuffix(n.Model, filepath.Ext(n.Model)) + ".onnx.json"; fileExists(cfg) {
		args = append(args, "--config", cfg)
	}
	if _, err := strconv.Atoi(req.Voice); err == nil {
		args = append(args, "--speaker", req.Voice)
	}
	return args
}

// Synthesize returns the PCM for req, from the cache when possible.
func (n *Neural) Synthesize(ctx context.Context, req playback.Request) ([]byte, error) {
	if req.Text == "" {
		return nil, errors.New("text cannot be empty")
	}
	if len(req.Text) > maxNeuralText {
		return nil, fmt.Errorf("sentence too long: %d characters (max %d)", len(req.Text), maxNeuralText)
	}

	key := cache.Key(req.Text, req.Voice, n.Model, req.Rate)
	if n.cache != nil {
		if pcm, ok := n.cache.Get(key); ok {
			return pcm, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()
	start := time.Now()
	pcm, err := runCommand(ctx, req.Text, n.Binary, n.Args(req)...)
	if err != nil {
		return nil, err
	}
	if err := n.format.CheckPCM(pcm); err != nil {
		return nil, fmt.Errorf("piper output: %w", err)
	}
	n.logger.Debug("synthesized", "index", req.Index, "bytes", len(pcm), "took", time.Since(start))

	if n.cache != nil {
		if err := n.cache.Put(key, pcm); err != nil {
			n.logger.Warn("failed to cache audio", "err", err)
		}
	}
	return pcm, nil
}

// Speak implements playback.Driver.
func (n *Neural) Speak(req playback.Request) error {
	return n.r.start(req.Handle, func(ctx context.Context) error {
		pcm, err := n.Synthesize(ctx, req)
		if err != nil {
			return err
		}
		return n.player.Play(ctx, pcm)
	})
}

// Cancel implements playback.Driver.
func (n *Neural) Cancel(h playback.Handle) { n.r.cancel(h) }

// Events implements playback.Driver.
func (n *Neural) Events() <-chan playback.Event { return n.r.events }

// Close stops synthesis and playback and persists the cache.
func (n *Neural) Close() error {
	n.r.close()
	var errs []error
	if err := n.player.Close(); err != nil {
		errs = append(errs, err)
	}
	if n.cache != nil {
		if err := n.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
