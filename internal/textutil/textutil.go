// Package textutil provides word counting and duration formatting helpers
// shared by the segmenter, the playback timeline and the UI.
package textutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// CountWords returns the number of whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// FormatSeconds formats a number of seconds as MM:SS, or HH:MM:SS once the
// value reaches an hour. NaN and negative values format as 00:00.
func FormatSeconds(totalSeconds float64) string {
	if math.IsNaN(totalSeconds) || totalSeconds < 0 {
		return "00:00"
	}
	if math.IsInf(totalSeconds, 1) {
		totalSeconds = math.MaxInt32
	}

	abs := int64(math.Floor(totalSeconds))
	hours := abs / 3600
	minutes := (abs % 3600) / 60
	seconds := abs % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatClock formats d like FormatSeconds.
func FormatClock(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}

// HumanWords renders a word count for display, e.g. "12,345 words".
func HumanWords(n int) string {
	if n == 1 {
		return "1 word"
	}
	return humanize.Comma(int64(n)) + " words"
}
