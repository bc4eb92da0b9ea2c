//go:build !nocgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// Player plays one PCM buffer at a time.
type Player interface {
	// Play blocks until data has been played or ctx is done.
	Play(ctx context.Context, data []byte) error
	Close() error
}

// oto allows a single context per process.
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoFormat  Format
	otoErr     error
)

const pollInterval = 20 * time.Millisecond

// OtoPlayer plays PCM on the default audio device.
type OtoPlayer struct {
	format Format
	logger *log.Logger

	mu     sync.Mutex
	closed bool
}

// NewOtoPlayer opens the audio device for format. The device stays open for
// the lifetime of the process, so every player must use the same format.
func NewOtoPlayer(format Format, logger *log.Logger) (*OtoPlayer, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audio format: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	otoOnce.Do(func() {
		otoFormat = format
		otoContext, otoErr = newContext(format, logger)
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoFormat != format {
		return nil, fmt.Errorf("audio device already opened at %d Hz with %d channels", otoFormat.SampleRate, otoFormat.Channels)
	}
	return &OtoPlayer{format: format, logger: logger.WithPrefix("audio")}, nil
}

func newContext(format Format, logger *log.Logger) (*oto.Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}
	switch runtime.GOOS {
	case "darwin":
		op.BufferSize = 100 * time.Millisecond
	case "windows":
		op.BufferSize = 80 * time.Millisecond
	default:
		op.BufferSize = 50 * time.Millisecond
	}

	logger.Debug("opening audio device", "sample_rate", op.SampleRate, "channels", op.ChannelCount, "buffer", op.BufferSize)
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	select {
	case <-ready:
		return ctx, nil
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("audio context initialization timeout")
	}
}

// Play implements Player.
func (p *OtoPlayer) Play(ctx context.Context, data []byte) error {
	if err := p.format.CheckPCM(data); err != nil {
		return err
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("player is closed")
	}
	p.mu.Unlock()

	// The reader must keep data alive until the player is closed.
	player := otoContext.NewPlayer(bytes.NewReader(data))
	defer player.Close() //nolint:errcheck
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if err := player.Err(); err != nil {
				return fmt.Errorf("playback failed: %w", err)
			}
			if !player.IsPlaying() {
				return nil
			}
		}
	}
}

// Close stops accepting new buffers. The device itself is never released.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
