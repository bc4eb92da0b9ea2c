package playback

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dgnsrekt/readaloud/segment"
)

type fakeDriver struct {
	requests  []Request
	cancelled []Handle
	speakErr  error
	events    chan Event
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{events: make(chan Event, 1)}
}

func (d *fakeDriver) Speak(req Request) error {
	if d.speakErr != nil {
		return d.speakErr
	}
	d.requests = append(d.requests, req)
	return nil
}

func (d *fakeDriver) Cancel(h Handle) { d.cancelled = append(d.cancelled, h) }

func (d *fakeDriver) Events() <-chan Event { return d.events }

func (d *fakeDriver) last(t *testing.T) Request {
	t.Helper()
	if len(d.requests) == 0 {
		t.Fatal("no narration requested")
	}
	return d.requests[len(d.requests)-1]
}

const threeSentences = "The first sentence is here. The second sentence is here. The third sentence is here."

func newLoaded(t *testing.T, text string) (*Controller, *fakeDriver) {
	t.Helper()
	d := newFakeDriver()
	c := NewController(d, DefaultConfig())
	c.LoadDocument(segment.New(text), LoadOptions{})
	return c, d
}

func TestPlayThroughLoopsToStart(t *testing.T) {
	c, d := newLoaded(t, threeSentences)
	if c.State() != StateStopped || c.Index() != -1 {
		t.Fatalf("after load: state=%v index=%d", c.State(), c.Index())
	}

	if err := c.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	var indices []int
	indices = append(indices, c.Index())
	for i := 0; i < 3; i++ {
		if err := c.OnNarrationComplete(d.last(t).Handle); err != nil {
			t.Fatalf("OnNarrationComplete: %v", err)
		}
		indices = append(indices, c.Index())
	}

	if want := []int{0, 1, 2, 0}; !reflect.DeepEqual(indices, want) {
		t.Errorf("indices = %v, want %v", indices, want)
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
	if len(d.requests) != 3 {
		t.Errorf("requests = %d, want 3", len(d.requests))
	}
	for i, req := range d.requests {
		if req.Index != i {
			t.Errorf("request %d index = %d", i, req.Index)
		}
		if req.Text != c.Document().Sentence(i) {
			t.Errorf("request %d text = %q", i, req.Text)
		}
	}
}

func TestEndStopPolicy(t *testing.T) {
	d := newFakeDriver()
	cfg := DefaultConfig()
	cfg.EndPolicy = EndStop
	c := NewController(d, cfg)
	c.LoadDocument(segment.New(threeSentences), LoadOptions{})

	_ = c.Seek(2)
	_ = c.Play()
	_ = c.OnNarrationComplete(d.last(t).Handle)

	if c.State() != StateStopped || c.Index() != 2 {
		t.Errorf("state=%v index=%d, want stopped at 2", c.State(), c.Index())
	}
}

func TestSeekClamps(t *testing.T) {
	c, d := newLoaded(t, threeSentences)

	tests := []struct{ seek, want int }{
		{5, 2}, {-3, 0}, {1, 1}, {2, 2},
	}
	for _, tt := range tests {
		if err := c.Seek(tt.seek); err != nil {
			t.Fatalf("Seek(%d): %v", tt.seek, err)
		}
		if c.Index() != tt.want {
			t.Errorf("Seek(%d) index = %d, want %d", tt.seek, c.Index(), tt.want)
		}
		if c.State() != StateStopped {
			t.Errorf("Seek(%d) state = %v, want stopped", tt.seek, c.State())
		}
	}
	if len(d.requests) != 0 {
		t.Errorf("seeking while stopped narrated %d sentences", len(d.requests))
	}
}

func TestSeekWhilePlayingIgnoresStaleCompletion(t *testing.T) {
	c, d := newLoaded(t, threeSentences)
	_ = c.Play()
	stale := d.last(t)

	if err := c.Seek(1); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if !reflect.DeepEqual(d.cancelled, []Handle{stale.Handle}) {
		t.Errorf("cancelled = %v, want [%d]", d.cancelled, stale.Handle)
	}
	fresh := d.last(t)
	if fresh.Index != 1 || fresh.Handle == stale.Handle {
		t.Fatalf("seek re-issued %+v", fresh)
	}

	if err := c.HandleEvent(Event{Handle: stale.Handle}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if c.Index() != 1 {
		t.Errorf("stale completion moved index to %d", c.Index())
	}
	if c.State() != StatePlaying {
		t.Errorf("state = %v, want playing", c.State())
	}

	_ = c.HandleEvent(Event{Handle: fresh.Handle})
	if c.Index() != 2 {
		t.Errorf("index = %d, want 2", c.Index())
	}
}

func TestCompletionWhileStoppedIsIgnored(t *testing.T) {
	c, d := newLoaded(t, threeSentences)
	_ = c.Play()
	h := d.last(t).Handle
	_ = c.Pause()

	if len(d.cancelled) != 1 {
		t.Errorf("pause cancelled %d requests, want 1", len(d.cancelled))
	}
	_ = c.OnNarrationComplete(h)
	if c.Index() != 0 || c.State() != StateStopped {
		t.Errorf("state=%v index=%d, want stopped at 0", c.State(), c.Index())
	}

	_ = c.Play()
	if got := d.last(t); got.Index != 0 || got.Handle == h {
		t.Errorf("resume request = %+v", got)
	}
}

func TestNarrationError(t *testing.T) {
	c, d := newLoaded(t, threeSentences)
	_ = c.Seek(1)
	_ = c.Play()

	cause := errors.New("engine crashed")
	err := c.HandleEvent(Event{Handle: d.last(t).Handle, Err: cause})

	var nerr *NarrationError
	if !errors.As(err, &nerr) {
		t.Fatalf("HandleEvent error = %v, want *NarrationError", err)
	}
	if nerr.Index != 1 || !errors.Is(err, cause) {
		t.Errorf("NarrationError = %+v", nerr)
	}
	if c.State() != StateStopped || c.Index() != 1 {
		t.Errorf("state=%v index=%d, want stopped at 1", c.State(), c.Index())
	}

	if err := c.OnNarrationError(99, cause); err != nil {
		t.Errorf("stale error returned %v", err)
	}
}

func TestSpeakFailureStops(t *testing.T) {
	c, d := newLoaded(t, threeSentences)
	d.speakErr = errors.New("no synthesizer")

	err := c.Play()
	var nerr *NarrationError
	if !errors.As(err, &nerr) {
		t.Fatalf("Play error = %v, want *NarrationError", err)
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
}

func TestEmptyDocument(t *testing.T) {
	c, d := newLoaded(t, "...\n\n   ")

	if err := c.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := c.Seek(3); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if c.State() != StateStopped || c.Index() != -1 {
		t.Errorf("state=%v index=%d", c.State(), c.Index())
	}
	if len(d.requests) != 0 {
		t.Errorf("empty document narrated %d sentences", len(d.requests))
	}
	pos := c.CurrentPosition()
	if pos.Elapsed != 0 || pos.Total != 0 || pos.Chapter != 0 {
		t.Errorf("CurrentPosition() = %+v", pos)
	}
}

func TestIdle(t *testing.T) {
	c := NewController(newFakeDriver(), Config{})
	ops := map[string]func() error{
		"Play":            c.Play,
		"Pause":           c.Pause,
		"Toggle":          c.Toggle,
		"Next":            c.Next,
		"NextChapter":     c.NextChapter,
		"PreviousChapter": c.PreviousChapter,
		"Seek":            func() error { return c.Seek(0) },
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, ErrNoDocument) {
			t.Errorf("%s() = %v, want ErrNoDocument", name, err)
		}
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestLoadAndResetCancel(t *testing.T) {
	c, d := newLoaded(t, threeSentences)
	_ = c.Play()
	c.LoadDocument(segment.New("A brand new document."), LoadOptions{AutoplayReady: true})

	if len(d.cancelled) != 1 {
		t.Errorf("load cancelled %d requests, want 1", len(d.cancelled))
	}
	if c.State() != StateStopped || c.Index() != 0 {
		t.Errorf("state=%v index=%d, want stopped at 0", c.State(), c.Index())
	}

	_ = c.Play()
	c.Reset()
	if len(d.cancelled) != 2 {
		t.Errorf("reset cancelled %d requests, want 2", len(d.cancelled))
	}
	if c.State() != StateIdle || c.Document() != nil || c.Index() != -1 {
		t.Errorf("after reset: state=%v index=%d", c.State(), c.Index())
	}
}

func TestToggleNextPrevious(t *testing.T) {
	c, d := newLoaded(t, threeSentences)

	_ = c.Toggle()
	if c.State() != StatePlaying {
		t.Fatalf("state = %v, want playing", c.State())
	}
	_ = c.Next()
	if c.Index() != 1 || d.last(t).Index != 1 {
		t.Errorf("Next: index=%d request=%d", c.Index(), d.last(t).Index)
	}
	_ = c.Previous()
	_ = c.Previous()
	if c.Index() != 0 {
		t.Errorf("Previous clamps: index=%d", c.Index())
	}
	_ = c.Toggle()
	if c.State() != StateStopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
}

func chapters(t *testing.T) *segment.Document {
	t.Helper()
	b := segment.NewBuilder()
	b.KeepEmptyChapters = true
	b.AddChapter("One", "Chapter one has a sentence. And another one here.")
	b.AddChapter("Empty", "")
	b.AddChapter("Two", "Chapter two has a sentence. And another one here. Plus a third.")
	b.AddChapter("Three", "Chapter three is short here.")
	return b.Document()
}

func TestChapterNavigation(t *testing.T) {
	d := newFakeDriver()
	c := NewController(d, DefaultConfig())
	c.LoadDocument(chapters(t), LoadOptions{})

	steps := []struct {
		name    string
		op      func() error
		index   int
		chapter int
	}{
		{"next from start", c.NextChapter, 2, 3},
		{"next again", c.NextChapter, 5, 4},
		{"next in last chapter", c.NextChapter, 5, 4},
		{"previous at chapter start", c.PreviousChapter, 2, 3},
		{"into chapter", c.Next, 3, 3},
		{"previous mid chapter", c.PreviousChapter, 2, 3},
		{"previous skips empty", c.PreviousChapter, 0, 1},
		{"previous in first chapter", c.PreviousChapter, 0, 1},
	}
	for _, s := range steps {
		if err := s.op(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		pos := c.CurrentPosition()
		if pos.Index != s.index || pos.Chapter != s.chapter {
			t.Errorf("%s: index=%d chapter=%d, want %d/%d", s.name, pos.Index, pos.Chapter, s.index, s.chapter)
		}
		if pos.TotalChapters != 4 {
			t.Errorf("%s: TotalChapters = %d", s.name, pos.TotalChapters)
		}
	}
}

func TestObservers(t *testing.T) {
	d := newFakeDriver()
	c := NewController(d, DefaultConfig())

	var (
		positions []Position
		states    []State
	)
	c.OnSentenceChange(func(p Position) { positions = append(positions, p) })
	c.OnStateChange(func(s State) { states = append(states, s) })

	c.LoadDocument(segment.New(threeSentences), LoadOptions{})
	_ = c.Play()
	_ = c.Seek(2)
	_ = c.OnNarrationComplete(d.last(t).Handle)

	var indices []int
	for _, p := range positions {
		indices = append(indices, p.Index)
		if p.State == StateSeeking {
			t.Error("sentence observer saw the seeking state")
		}
	}
	if want := []int{-1, 0, 2, 0}; !reflect.DeepEqual(indices, want) {
		t.Errorf("sentence changes = %v, want %v", indices, want)
	}
	if positions[2].State != StatePlaying {
		t.Errorf("seek while playing reported %v", positions[2].State)
	}
	if positions[3].State != StateStopped {
		t.Errorf("loop to start reported %v", positions[3].State)
	}

	want := []State{StateStopped, StatePlaying, StateStopped}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("state changes = %v, want %v", states, want)
	}
}

func TestResetNotifiesOnlyOnChange(t *testing.T) {
	c, _ := newLoaded(t, threeSentences)
	_ = c.Seek(1)

	var indices []int
	c.OnSentenceChange(func(p Position) { indices = append(indices, p.Index) })

	c.Reset()
	c.Reset()
	if want := []int{-1}; !reflect.DeepEqual(indices, want) {
		t.Errorf("sentence changes = %v, want %v", indices, want)
	}

	c.LoadDocument(segment.New(threeSentences), LoadOptions{})
	indices = nil
	c.Reset()
	if len(indices) != 0 {
		t.Errorf("reset before the first sentence notified %v", indices)
	}
	if c.State() != StateIdle || c.Document() != nil {
		t.Errorf("after reset: state=%v", c.State())
	}
}

func TestSetVoiceAndRate(t *testing.T) {
	c, d := newLoaded(t, threeSentences)

	if err := c.SetRate(0); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("SetRate(0) = %v, want ErrInvalidRate", err)
	}
	_ = c.SetVoice("Kore")
	if len(d.requests) != 0 {
		t.Error("SetVoice while stopped narrated")
	}

	_ = c.Play()
	first := d.last(t)
	if first.Voice != "Kore" || first.Rate != 1.0 {
		t.Errorf("first request = %+v", first)
	}

	_ = c.SetRate(1.5)
	again := d.last(t)
	if again.Rate != 1.5 || again.Index != first.Index || again.Handle == first.Handle {
		t.Errorf("re-issued request = %+v", again)
	}
	if !reflect.DeepEqual(d.cancelled, []Handle{first.Handle}) {
		t.Errorf("cancelled = %v", d.cancelled)
	}
}

func TestCurrentPositionTimeline(t *testing.T) {
	c, _ := newLoaded(t, threeSentences)
	_ = c.Seek(1)

	pos := c.CurrentPosition()
	if pos.Elapsed != 5*time.Second || pos.Total != 15*time.Second {
		t.Errorf("elapsed=%v total=%v", pos.Elapsed, pos.Total)
	}

	_ = c.SetRate(2)
	pos = c.CurrentPosition()
	if pos.Elapsed != 2500*time.Millisecond || pos.Total != 7500*time.Millisecond {
		t.Errorf("at 2x: elapsed=%v total=%v", pos.Elapsed, pos.Total)
	}
}
