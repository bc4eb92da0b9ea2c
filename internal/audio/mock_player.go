package audio

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MockPlayer simulates playback without an audio device. Each buffer "plays"
// for its PCM duration multiplied by Speed.
type MockPlayer struct {
	Format Format
	// Speed scales simulated playback time; 0 returns immediately.
	Speed float64
	// Err, when set, is returned by every Play call.
	Err error

	mu        sync.Mutex
	played    [][]byte
	cancelled int
	closed    bool
}

// NewMockPlayer returns a mock that plays instantly.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{Format: DefaultFormat()}
}

// Play implements Player.
func (m *MockPlayer) Play(ctx context.Context, data []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.New("player is closed")
	}
	if m.Err != nil {
		m.mu.Unlock()
		return m.Err
	}
	m.played = append(m.played, append([]byte(nil), data...))
	d := time.Duration(float64(m.Format.Duration(len(data))) * m.Speed)
	m.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		m.mu.Lock()
		m.cancelled++
		m.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close implements Player.
func (m *MockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Played returns copies of the buffers played so far.
func (m *MockPlayer) Played() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.played...)
}

// Cancelled returns how many buffers were interrupted.
func (m *MockPlayer) Cancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}
