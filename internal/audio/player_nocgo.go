//go:build nocgo

package audio

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// Player plays one PCM buffer at a time.
type Player interface {
	// Play blocks until data has been played or ctx is done.
	Play(ctx context.Context, data []byte) error
	Close() error
}

// ErrNoAudio is returned when the binary was built without audio support.
var ErrNoAudio = errors.New("audio playback is not available in nocgo builds")

// OtoPlayer is unavailable without cgo.
type OtoPlayer struct{}

// NewOtoPlayer always fails in nocgo builds.
func NewOtoPlayer(Format, *log.Logger) (*OtoPlayer, error) {
	return nil, ErrNoAudio
}

// Play implements Player.
func (*OtoPlayer) Play(context.Context, []byte) error { return ErrNoAudio }

// Close implements Player.
func (*OtoPlayer) Close() error { return nil }
