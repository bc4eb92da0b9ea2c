package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/playback"
	"github.com/dgnsrekt/readaloud/segment"
)

// echoDriver completes every request immediately.
type echoDriver struct {
	events chan playback.Event
	// hold keeps requests from ever completing.
	hold bool
}

func newEchoDriver(hold bool) *echoDriver {
	return &echoDriver{events: make(chan playback.Event, 1), hold: hold}
}

func (d *echoDriver) Speak(req playback.Request) error {
	if !d.hold {
		d.events <- playback.Event{Handle: req.Handle}
	}
	return nil
}

func (d *echoDriver) Cancel(playback.Handle)        {}
func (d *echoDriver) Events() <-chan playback.Event { return d.events }

func TestPrintSentences(t *testing.T) {
	doc := segment.New("The first one. The second one.\n\nThe third one.")
	var b bytes.Buffer
	if err := printSentences(&b, doc); err != nil {
		t.Fatal(err)
	}
	want := "The first one.\nThe second one.\n\nThe third one.\n"
	if b.String() != want {
		t.Errorf("printSentences() = %q, want %q", b.String(), want)
	}
}

func TestPrintStats(t *testing.T) {
	doc := segment.New("The first one. The second one.\n\nThe third one.")
	var b bytes.Buffer
	if err := printStats(&b, doc, playback.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Sentences:  3", "Paragraphs: 2", "Words:      9 words", "Chapters:   1"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("stats missing %q:\n%s", want, b.String())
		}
	}
}

func TestNarrateLoop(t *testing.T) {
	doc := segment.New("Alpha comes first. Beta comes second. Gamma comes third.")
	driver := newEchoDriver(false)
	cfg := playback.DefaultConfig()
	cfg.EndPolicy = playback.EndStop
	c := playback.NewController(driver, cfg)
	c.LoadDocument(doc, playback.LoadOptions{AutoplayReady: true})

	var b bytes.Buffer
	if err := narrateLoop(context.Background(), c, driver.Events(), &b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("printed %d lines, want 3:\n%s", len(lines), b.String())
	}
	if !strings.Contains(lines[2], "[3/3]") || !strings.HasSuffix(lines[2], "Gamma comes third.") {
		t.Errorf("last line = %q", lines[2])
	}
	if c.State() != playback.StateStopped || c.Index() != 2 {
		t.Errorf("state %v index %d, want stopped at 2", c.State(), c.Index())
	}
}

func TestNarrateLoopCancel(t *testing.T) {
	doc := segment.New("Alpha comes first. Beta comes second. Gamma comes third.")
	driver := newEchoDriver(true)
	c := playback.NewController(driver, playback.DefaultConfig())
	c.LoadDocument(doc, playback.LoadOptions{AutoplayReady: true})
	if err := c.Seek(1); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var b bytes.Buffer
	if err := narrateLoop(ctx, c, driver.Events(), &b); err != nil {
		t.Fatal(err)
	}
	if c.State() != playback.StateStopped || c.Index() != 1 {
		t.Errorf("state %v index %d, want stopped at 1", c.State(), c.Index())
	}
}

func TestStartIndex(t *testing.T) {
	doc := segment.New("Alpha comes first. Beta comes second. Gamma comes third.")
	store, err := history.Open(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put("abc", history.Entry{ChapterSentenceCounts: doc.ChapterSentenceCounts, SentenceIndex: 2}); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("stale", history.Entry{ChapterSentenceCounts: []int{7}, SentenceIndex: 2}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		store *history.Store
		hash  string
		from  int
		want  int
	}{
		{"flag wins", store, "abc", 2, 1},
		{"saved position", store, "abc", 0, 2},
		{"stale entry", store, "stale", 0, 0},
		{"unknown", store, "nope", 0, 0},
		{"no store", nil, "abc", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := startIndex(tt.store, tt.hash, doc, tt.from); got != tt.want {
				t.Errorf("startIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []history.Record{{
		Hash: "abc",
		Entry: history.Entry{
			FileName:              "book.epub",
			ChapterSentenceCounts: []int{50, 50},
			SentenceIndex:         49,
			UpdatedAt:             now.Add(-time.Hour),
		},
	}}

	var b bytes.Buffer
	if err := printHistory(&b, records, now); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"book.epub", "sentence 50/100 50%", "1 hour ago"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("history missing %q:\n%s", want, b.String())
		}
	}

	b.Reset()
	if err := printHistory(&b, nil, now); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "No saved positions.") {
		t.Errorf("empty history = %q", b.String())
	}
}

func TestListLibrary(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"book.epub", "notes.md", "paper.pdf", "image.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	var b bytes.Buffer
	if err := listLibrary(&b, dir, true); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"book.epub", "notes.md", "paper.pdf"} {
		if !strings.Contains(out, want) {
			t.Errorf("library missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "image.png") {
		t.Errorf("library should skip unsupported files:\n%s", out)
	}
}
