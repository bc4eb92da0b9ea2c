package narration

import (
	"context"
	"time"

	"github.com/dgnsrekt/readaloud/internal/textutil"
	"github.com/dgnsrekt/readaloud/playback"
)

// minSilentDuration keeps very short sentences on screen long enough to read.
const minSilentDuration = 400 * time.Millisecond

// Silent "narrates" by waiting for the time the sentence would take to read
// aloud. It is useful without a synthesizer and in tests.
type Silent struct {
	// WordsPerMinute is the reading pace at rate 1.0.
	WordsPerMinute float64
	// Delay, when positive, replaces the estimate for every sentence.
	Delay time.Duration

	r *runner
}

// NewSilent returns a silent driver reading at wpm words per minute.
func NewSilent(wpm float64) *Silent {
	if wpm <= 0 {
		wpm = playback.DefaultWordsPerMinute
	}
	return &Silent{WordsPerMinute: wpm, r: newRunner()}
}

// Duration returns how long req is held for.
func (s *Silent) Duration(req playback.Request) time.Duration {
	if s.Delay > 0 {
		return s.Delay
	}
	rate := req.Rate
	if rate <= 0 {
		rate = 1
	}
	words := float64(textutil.CountWords(req.Text))
	d := time.Duration(words * float64(time.Minute) / (s.WordsPerMinute * rate))
	if d < minSilentDuration {
		d = minSilentDuration
	}
	return d
}

// Speak implements playback.Driver.
func (s *Silent) Speak(req playback.Request) error {
	d := s.Duration(req)
	return s.r.start(req.Handle, func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// Cancel implements playback.Driver.
func (s *Silent) Cancel(h playback.Handle) { s.r.cancel(h) }

// Events implements playback.Driver.
func (s *Silent) Events() <-chan playback.Event { return s.r.events }

// Close cancels pending requests.
func (s *Silent) Close() error {
	s.r.close()
	return nil
}
