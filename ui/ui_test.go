package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/internal/extract"
	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/playback"
)

const sampleText = "One fish swims. Two fish swim. Red fish swim.\n\nBlue fish swims away."

type fakeDriver struct {
	requests  []playback.Request
	cancelled []playback.Handle
	speakErr  error
	events    chan playback.Event
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{events: make(chan playback.Event, 8)}
}

func (d *fakeDriver) Speak(req playback.Request) error {
	if d.speakErr != nil {
		return d.speakErr
	}
	d.requests = append(d.requests, req)
	return nil
}

func (d *fakeDriver) Cancel(h playback.Handle)        { d.cancelled = append(d.cancelled, h) }
func (d *fakeDriver) Events() <-chan playback.Event { return d.events }
func (d *fakeDriver) Close() error                  { return nil }

type testEnv struct {
	path   string
	driver *fakeDriver
	store  *history.Store
}

func newTestEnv(t *testing.T, content string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	store, err := history.Open(filepath.Join(dir, "history.json"))
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{path: path, driver: newFakeDriver(), store: store}
}

func (e *testEnv) model(t *testing.T) model {
	t.Helper()
	m := newModel(Options{
		Config: Config{
			Path:  e.path,
			Mode:  "silent",
			Theme: "dark",
		},
		Playback:   playback.DefaultConfig(),
		Driver:     e.driver,
		History:    e.store,
		Translator: l10n.New("en-US"),
		Logger:     log.New(os.Stderr),
	})
	t.Cleanup(m.reader.unwatchFile)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// loaded returns a model with the document loaded.
func (e *testEnv) loaded(t *testing.T) model {
	t.Helper()
	m := e.model(t)
	m, _ = send(t, m, loadDocument(m.common.cfg, false)())
	if m.state != stateReading {
		t.Fatalf("state = %v, want %v", m.state, stateReading)
	}
	return m
}

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadAndNavigate(t *testing.T) {
	env := newTestEnv(t, sampleText)
	m := env.loaded(t)

	c := m.reader.controller
	if c.Index() != 0 || c.State() != playback.StateStopped {
		t.Fatalf("after load: index %d state %v", c.Index(), c.State())
	}

	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, 1},
		{tea.KeyMsg{Type: tea.KeyRight}, 2},
		{keyRunes("G"), 3},
		{tea.KeyMsg{Type: tea.KeyRight}, 3},
		{tea.KeyMsg{Type: tea.KeyLeft}, 2},
		{keyRunes("g"), 0},
		{tea.KeyMsg{Type: tea.KeyLeft}, 0},
	}
	for _, tt := range tests {
		m, _ = send(t, m, tt.key)
		if got := m.reader.controller.Index(); got != tt.want {
			t.Errorf("after %q: index = %d, want %d", tt.key.String(), got, tt.want)
		}
	}

	if !strings.Contains(m.View(), "1/4") {
		t.Errorf("footer should show the sentence position:\n%s", m.View())
	}
}

func TestPlayAndAdvance(t *testing.T) {
	env := newTestEnv(t, sampleText)
	m := env.loaded(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.reader.controller.State() != playback.StatePlaying {
		t.Fatalf("state = %v, want playing", m.reader.controller.State())
	}
	if len(env.driver.requests) != 1 || env.driver.requests[0].Text != "One fish swims." {
		t.Fatalf("requests = %+v", env.driver.requests)
	}

	first := env.driver.requests[0]
	m, _ = send(t, m, narrationEventMsg{Handle: first.Handle})
	if got := m.reader.controller.Index(); got != 1 {
		t.Errorf("index after completion = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "Playing") {
		t.Error("footer should show the playing state")
	}

	// A stale completion is ignored.
	m, _ = send(t, m, narrationEventMsg{Handle: first.Handle})
	if got := m.reader.controller.Index(); got != 1 {
		t.Errorf("index after stale completion = %d, want 1", got)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.reader.controller.State() != playback.StateStopped {
		t.Errorf("state = %v, want stopped", m.reader.controller.State())
	}
}

func TestNarrationFailureShowsToast(t *testing.T) {
	env := newTestEnv(t, sampleText)
	env.driver.speakErr = errors.New("no synthesizer")
	m := env.loaded(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.reader.statusIsError {
		t.Fatal("expected an error toast")
	}
	if !strings.Contains(m.reader.statusMessage, "no synthesizer") {
		t.Errorf("toast = %q", m.reader.statusMessage)
	}
	if m.reader.controller.State() != playback.StateStopped {
		t.Errorf("state = %v, want stopped", m.reader.controller.State())
	}

	m, _ = send(t, m, statusMessageTimeoutMsg{})
	if m.reader.statusMessage != "" {
		t.Errorf("toast should clear, got %q", m.reader.statusMessage)
	}
}

func TestSpeedAndVoice(t *testing.T) {
	env := newTestEnv(t, sampleText)
	m := env.loaded(t)

	m, _ = send(t, m, keyRunes("+"))
	if got := m.reader.controller.Rate(); got != 1.2 {
		t.Errorf("rate after + = %v, want 1.2", got)
	}
	m, _ = send(t, m, keyRunes("-"))
	m, _ = send(t, m, keyRunes("-"))
	if got := m.reader.controller.Rate(); got != 0.8 {
		t.Errorf("rate after - - = %v, want 0.8", got)
	}

	m, _ = send(t, m, keyRunes("v"))
	first := m.reader.controller.Voice()
	m, _ = send(t, m, keyRunes("v"))
	if m.reader.controller.Voice() == first {
		t.Errorf("voice did not change from %q", first)
	}
}

func TestResumeFromHistory(t *testing.T) {
	env := newTestEnv(t, sampleText)
	doc, err := extract.Load(env.path)
	if err != nil {
		t.Fatal(err)
	}
	hash, err := history.ComputeHash(env.path)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.store.Put(hash, history.Entry{
		FileName:              "book.txt",
		ChapterSentenceCounts: doc.ChapterSentenceCounts,
		SentenceIndex:         2,
	}); err != nil {
		t.Fatal(err)
	}

	m := env.loaded(t)
	if got := m.reader.controller.Index(); got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
	if !strings.Contains(m.reader.statusMessage, "Resumed at sentence 3") {
		t.Errorf("toast = %q", m.reader.statusMessage)
	}
}

func TestStaleHistoryIgnored(t *testing.T) {
	env := newTestEnv(t, sampleText)
	hash, err := history.ComputeHash(env.path)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.store.Put(hash, history.Entry{
		ChapterSentenceCounts: []int{99},
		SentenceIndex:         2,
	}); err != nil {
		t.Fatal(err)
	}

	m := env.loaded(t)
	if got := m.reader.controller.Index(); got != 0 {
		t.Errorf("index = %d, want 0", got)
	}
}

func TestQuitSavesPosition(t *testing.T) {
	env := newTestEnv(t, sampleText)
	m := env.loaded(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	_, cmd := send(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}

	hash, _ := history.ComputeHash(env.path)
	e, ok := env.store.Get(hash)
	if !ok {
		t.Fatal("position was not saved")
	}
	if e.SentenceIndex != 2 || e.FileName != "book.txt" || e.Language != "en-US" {
		t.Errorf("saved entry = %+v", e)
	}
}

func TestReloadKeepsClampedIndex(t *testing.T) {
	env := newTestEnv(t, sampleText)
	m := env.loaded(t)

	m, _ = send(t, m, keyRunes("G"))
	if err := os.WriteFile(env.path, []byte("Alpha comes first. Beta comes second."), 0o600); err != nil {
		t.Fatal(err)
	}
	m, _ = send(t, m, loadDocument(m.common.cfg, true)())

	if got := m.reader.controller.Index(); got != 1 {
		t.Errorf("index after reload = %d, want 1", got)
	}
	if m.reader.statusMessage != "Document reloaded" {
		t.Errorf("toast = %q", m.reader.statusMessage)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, sampleText)
	m := env.loaded(t)

	m, _ = send(t, m, keyRunes("/"))
	if m.reader.state != readerStateSearch {
		t.Fatal("/ should open the search prompt")
	}
	m, _ = send(t, m, keyRunes("blue"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.reader.state != readerStateBrowse {
		t.Error("enter should close the search prompt")
	}
	if got := m.reader.controller.Index(); got != 3 {
		t.Errorf("index = %d, want 3", got)
	}

	m, _ = send(t, m, keyRunes("/"))
	m, _ = send(t, m, keyRunes("zzz"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.reader.statusIsError {
		t.Error("a failed search should show an error toast")
	}
}

func TestErrorAndEmptyStates(t *testing.T) {
	env := newTestEnv(t, "")
	m := env.loaded(t)
	if !strings.Contains(m.View(), "Nothing to read") {
		t.Errorf("empty document view:\n%s", m.View())
	}
	if !strings.Contains(m.View(), "-/-") {
		t.Error("empty document should show no chapter")
	}

	env.path = filepath.Join(t.TempDir(), "missing.txt")
	m = env.model(t)
	m, _ = send(t, m, loadDocument(m.common.cfg, false)())
	if m.state != stateError {
		t.Fatalf("state = %v, want %v", m.state, stateError)
	}
	if !strings.Contains(m.View(), "Could not open the document") {
		t.Errorf("error view:\n%s", m.View())
	}
	_, cmd := send(t, m, keyRunes("x"))
	if cmd == nil {
		t.Fatal("any key should exit from the error view")
	}
}

func TestFindSentence(t *testing.T) {
	env := newTestEnv(t, "The cat sat. A dog ran. The cat ran.")
	doc, err := extract.Load(env.path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query   string
		current int
		want    int
		ok      bool
	}{
		{"dog", 0, 1, true},
		{"cat sat", 2, 0, true},
		{"xyz", 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := findSentence(doc, tt.query, tt.current)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("findSentence(%q, %d) = %d, %v, want %d, %v",
				tt.query, tt.current, got, ok, tt.want, tt.ok)
		}
	}
}

func TestChapterLabel(t *testing.T) {
	tests := []struct {
		pos   playback.Position
		title string
		want  string
	}{
		{playback.Position{}, "", "-/-"},
		{playback.Position{Chapter: 1, TotalChapters: 1}, "", "-/-"},
		{playback.Position{Chapter: 1, TotalChapters: 1}, "Intro", "1/1"},
		{playback.Position{Chapter: 2, TotalChapters: 5}, "", "2/5"},
	}
	for _, tt := range tests {
		if got := chapterLabel(tt.pos, tt.title); got != tt.want {
			t.Errorf("chapterLabel(%+v, %q) = %q, want %q", tt.pos, tt.title, got, tt.want)
		}
	}
}
