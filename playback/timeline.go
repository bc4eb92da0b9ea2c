package playback

import (
	"time"

	"github.com/dgnsrekt/readaloud/segment"
)

// DefaultSentenceDuration is the fixed per-sentence estimate used by the
// timeline when nothing better is known.
const DefaultSentenceDuration = 5 * time.Second

// DefaultWordsPerMinute is a typical narration pace.
const DefaultWordsPerMinute = 160

// Estimator approximates narration time. The timeline is a heuristic: the
// real duration of a sentence is only known once it has been spoken.
type Estimator interface {
	// Duration estimates how long the first n sentences of doc take to
	// narrate at rate 1.0.
	Duration(doc *segment.Document, n int) time.Duration
}

// SentenceEstimator charges a fixed duration per sentence.
type SentenceEstimator struct {
	PerSentence time.Duration
}

// Duration implements Estimator.
func (e SentenceEstimator) Duration(doc *segment.Document, n int) time.Duration {
	per := e.PerSentence
	if per <= 0 {
		per = DefaultSentenceDuration
	}
	n = clamp(n, 0, doc.Len())
	return time.Duration(n) * per
}

// WordEstimator charges time per word at a fixed pace.
type WordEstimator struct {
	WordsPerMinute float64
}

// Duration implements Estimator.
func (e WordEstimator) Duration(doc *segment.Document, n int) time.Duration {
	wpm := e.WordsPerMinute
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := doc.WordsBefore(clamp(n, 0, doc.Len()))
	return time.Duration(float64(words) * float64(time.Minute) / wpm)
}

// ParseEstimator returns the estimator named by "sentence" or "words".
func ParseEstimator(name string, wpm float64) (Estimator, error) {
	switch name {
	case "", "sentence":
		return SentenceEstimator{PerSentence: DefaultSentenceDuration}, nil
	case "words":
		return WordEstimator{WordsPerMinute: wpm}, nil
	default:
		return nil, &InvalidEstimatorError{Value: name}
	}
}

func scale(d time.Duration, rate float64) time.Duration {
	if rate <= 0 {
		return d
	}
	return time.Duration(float64(d) / rate)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
