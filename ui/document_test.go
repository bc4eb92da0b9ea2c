package ui

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"

	"github.com/dgnsrekt/readaloud/segment"
)

func TestDocumentViewLines(t *testing.T) {
	doc := segment.New("Alpha beta gamma. Delta epsilon.\n\nZeta eta.")
	v := newDocumentView(doc, 11)

	tests := []struct {
		sentence int
		want     int
	}{
		{0, 0},
		{1, 2},
		{2, 5},
		{-1, 0},
		{9, 0},
	}
	for _, tt := range tests {
		if got := v.sentenceLine(tt.sentence); got != tt.want {
			t.Errorf("sentenceLine(%d) = %d, want %d", tt.sentence, got, tt.want)
		}
	}

	lines := strings.Split(v.content(), "\n")
	if len(lines) != 6 {
		t.Fatalf("content has %d lines, want 6:\n%s", len(lines), v.content())
	}
	if lines[4] != "" {
		t.Errorf("paragraphs should be separated by a blank line, got %q", lines[4])
	}
}

func TestDocumentViewHighlightKeepsLayout(t *testing.T) {
	doc := segment.New("Alpha beta gamma. Delta epsilon.\n\nZeta eta.")
	v := newDocumentView(doc, 11)
	plain := v.content()

	v.setActive(1)
	highlighted := v.content()
	if strings.Count(plain, "\n") != strings.Count(highlighted, "\n") {
		t.Fatalf("highlighting changed the layout:\n%s\n---\n%s", plain, highlighted)
	}
	for i, line := range strings.Split(highlighted, "\n") {
		if w := ansi.PrintableRuneWidth(line); w > 11 {
			t.Errorf("line %d is %d cells wide", i, w)
		}
	}

	v.setActive(-1)
	if v.content() != plain {
		t.Error("clearing the highlight should restore the plain rendering")
	}
}

func TestDocumentViewResize(t *testing.T) {
	doc := segment.New("Alpha beta gamma. Delta epsilon.\n\nZeta eta.")
	v := newDocumentView(doc, 11)
	v.setWidth(80)
	if got := v.sentenceLine(2); got != 2 {
		t.Errorf("sentenceLine(2) at width 80 = %d, want 2", got)
	}
}
