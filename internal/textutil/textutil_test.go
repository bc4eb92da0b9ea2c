package textutil

import (
	"math"
	"testing"
	"time"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"  two   words ", 2},
		{"line\nbreak\ttab", 3},
	}

	for _, tt := range tests {
		if got := CountWords(tt.input); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{math.NaN(), "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.input); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(90 * time.Second); got != "01:30" {
		t.Errorf("FormatClock(90s) = %q, want 01:30", got)
	}
	if got := FormatClock(-time.Second); got != "00:00" {
		t.Errorf("FormatClock(-1s) = %q, want 00:00", got)
	}
}

func TestHumanWords(t *testing.T) {
	if got := HumanWords(1); got != "1 word" {
		t.Errorf("HumanWords(1) = %q", got)
	}
	if got := HumanWords(12345); got != "12,345 words" {
		t.Errorf("HumanWords(12345) = %q", got)
	}
}
