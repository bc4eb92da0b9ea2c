package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/readaloud/segment"
)

func TestEstimators(t *testing.T) {
	// 3 + 4 + 3 words.
	doc := segment.New("One two three. Four five six seven.\n\nEight nine ten!")

	tests := []struct {
		name      string
		estimator Estimator
		n         int
		want      time.Duration
	}{
		{"sentences none", SentenceEstimator{}, 0, 0},
		{"sentences default", SentenceEstimator{}, 2, 10 * time.Second},
		{"sentences custom", SentenceEstimator{PerSentence: time.Second}, 3, 3 * time.Second},
		{"sentences clamped", SentenceEstimator{PerSentence: time.Second}, 10, 3 * time.Second},
		{"sentences negative", SentenceEstimator{}, -1, 0},
		{"words", WordEstimator{WordsPerMinute: 60}, 2, 7 * time.Second},
		{"words whole document", WordEstimator{WordsPerMinute: 120}, 3, 5 * time.Second},
		{"words default pace", WordEstimator{}, 3, time.Duration(10 * float64(time.Minute) / DefaultWordsPerMinute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.estimator.Duration(doc, tt.n); got != tt.want {
				t.Errorf("Duration(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestWordEstimatorTimeline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Estimator = WordEstimator{WordsPerMinute: 60}
	c := NewController(newFakeDriver(), cfg)
	c.LoadDocument(segment.New("One two three. Four five six seven.\n\nEight nine ten!"), LoadOptions{})
	_ = c.Seek(2)

	pos := c.CurrentPosition()
	if pos.Elapsed != 7*time.Second || pos.Total != 10*time.Second {
		t.Errorf("elapsed=%v total=%v", pos.Elapsed, pos.Total)
	}
}

func TestParseEstimator(t *testing.T) {
	if e, err := ParseEstimator("", 0); err != nil || e == nil {
		t.Errorf("ParseEstimator(\"\") = %v, %v", e, err)
	}
	e, err := ParseEstimator("words", 200)
	if err != nil {
		t.Fatalf("ParseEstimator(words): %v", err)
	}
	if w, ok := e.(WordEstimator); !ok || w.WordsPerMinute != 200 {
		t.Errorf("ParseEstimator(words) = %#v", e)
	}
	var invalid *InvalidEstimatorError
	if _, err := ParseEstimator("chars", 0); !errors.As(err, &invalid) {
		t.Errorf("ParseEstimator(chars) error = %v", err)
	}
}

func TestParseEndPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    EndPolicy
		wantErr bool
	}{
		{"", EndLoop, false},
		{"loop", EndLoop, false},
		{"stop", EndStop, false},
		{"rewind", EndLoop, true},
	}
	for _, tt := range tests {
		got, err := ParseEndPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEndPolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
	if EndStop.String() != "stop" || StateSeeking.String() != "seeking" {
		t.Error("unexpected String() output")
	}
}
