package audio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		expectErr bool
	}{
		{"piper default", DefaultFormat(), false},
		{"cd quality stereo", Format{SampleRate: 44100, Channels: 2, BitDepth: 16}, false},
		{"invalid sample rate", Format{SampleRate: 11025, Channels: 1, BitDepth: 16}, true},
		{"invalid channels", Format{SampleRate: 22050, Channels: 3, BitDepth: 16}, true},
		{"invalid bit depth", Format{SampleRate: 22050, Channels: 1, BitDepth: 24}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	f := DefaultFormat()
	tests := []struct {
		bytes int
		want  time.Duration
	}{
		{0, 0},
		{44100, time.Second},
		{22050, 500 * time.Millisecond},
		{44101, time.Second},
	}
	for _, tt := range tests {
		if got := f.Duration(tt.bytes); got != tt.want {
			t.Errorf("Duration(%d) = %v, want %v", tt.bytes, got, tt.want)
		}
	}
	if got := (Format{}).Duration(100); got != 0 {
		t.Errorf("zero format Duration = %v", got)
	}
}

func TestFormatSilenceAndCheck(t *testing.T) {
	f := DefaultFormat()
	s := f.Silence(time.Second)
	if len(s) != 44100 {
		t.Errorf("len(Silence(1s)) = %d, want 44100", len(s))
	}
	if err := f.CheckPCM(s); err != nil {
		t.Errorf("CheckPCM(silence) = %v", err)
	}
	if err := f.CheckPCM(nil); err == nil {
		t.Error("CheckPCM(nil) should fail")
	}
	if err := f.CheckPCM([]byte{1, 2, 3}); err == nil {
		t.Error("CheckPCM of odd length should fail")
	}
}

func TestMockPlayer(t *testing.T) {
	m := NewMockPlayer()
	if err := m.Play(context.Background(), []byte{1, 2}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if got := m.Played(); len(got) != 1 || len(got[0]) != 2 {
		t.Errorf("Played() = %v", got)
	}

	m.Speed = 1
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Play(ctx, m.Format.Silence(10*time.Second)) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("cancelled Play = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not stop after cancel")
	}
	if m.Cancelled() != 1 {
		t.Errorf("Cancelled() = %d", m.Cancelled())
	}

	m.Err = errors.New("device lost")
	if err := m.Play(context.Background(), []byte{0, 0}); !errors.Is(err, m.Err) {
		t.Errorf("Play with Err = %v", err)
	}
	_ = m.Close()
	m.Err = nil
	if err := m.Play(context.Background(), []byte{0, 0}); err == nil {
		t.Error("Play after Close should fail")
	}
}
