package audio

import (
	"errors"
	"fmt"
	"time"
)

// Format describes signed little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is what Piper voices produce: 22.05 kHz, mono, 16 bit.
func DefaultFormat() Format {
	return Format{
		SampleRate: 22050,
		Channels:   1,
		BitDepth:   16,
	}
}

// Validate reports whether oto can play the format.
func (f Format) Validate() error {
	switch f.SampleRate {
	case 16000, 22050, 24000, 44100, 48000:
	default:
		return fmt.Errorf("unsupported sample rate %d Hz", f.SampleRate)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", f.Channels)
	}
	if f.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 16, got %d", f.BitDepth)
	}
	return nil
}

// FrameSize returns the number of bytes per sample frame.
func (f Format) FrameSize() int {
	return f.BitDepth / 8 * f.Channels
}

// Duration returns how long n bytes of PCM play for.
func (f Format) Duration(n int) time.Duration {
	frame := f.FrameSize()
	if frame == 0 || f.SampleRate == 0 {
		return 0
	}
	return time.Duration(n/frame) * time.Second / time.Duration(f.SampleRate)
}

// Silence returns d worth of silent PCM.
func (f Format) Silence(d time.Duration) []byte {
	frames := int(d.Seconds() * float64(f.SampleRate))
	return make([]byte, frames*f.FrameSize())
}

// CheckPCM reports whether data is non-empty and frame aligned.
func (f Format) CheckPCM(data []byte) error {
	if len(data) == 0 {
		return errors.New("audio data is empty")
	}
	if frame := f.FrameSize(); frame > 0 && len(data)%frame != 0 {
		return fmt.Errorf("PCM length %d is not aligned to %d-byte frames", len(data), frame)
	}
	return nil
}
