// Package playback tracks the active sentence of a segmented document and
// drives narration through it.
//
// A Controller is not safe for concurrent use. It is owned by a single event
// loop which forwards driver events to HandleEvent.
package playback

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/segment"
)

// Config holds playback settings.
type Config struct {
	EndPolicy EndPolicy
	Estimator Estimator
	Voice     string
	Rate      float64
	Logger    *log.Logger
}

// DefaultConfig returns the default playback configuration.
func DefaultConfig() Config {
	return Config{
		EndPolicy: EndLoop,
		Estimator: SentenceEstimator{PerSentence: DefaultSentenceDuration},
		Rate:      1.0,
	}
}

// LoadOptions control how a document is loaded.
type LoadOptions struct {
	// AutoplayReady positions the controller on the first sentence instead
	// of before it.
	AutoplayReady bool
}

// Position is a snapshot of where playback is.
type Position struct {
	// Index is the flat sentence index, -1 before the first sentence.
	Index int
	// Chapter is the 1-based chapter ordinal, 0 without chapters.
	Chapter       int
	TotalChapters int
	Elapsed       time.Duration
	Total         time.Duration
	State         State
}

// Controller is the playback state machine.
type Controller struct {
	driver Driver
	config Config
	logger *log.Logger

	doc   *segment.Document
	state State
	index int
	// resolving is the state a seek in progress resolves to.
	resolving State

	nextHandle Handle
	inflight   Request
	pending    bool

	sentenceObservers []func(Position)
	stateObservers    []func(State)
}

// NewController returns an idle controller narrating through driver.
func NewController(driver Driver, config Config) *Controller {
	def := DefaultConfig()
	if config.Estimator == nil {
		config.Estimator = def.Estimator
	}
	if config.Rate <= 0 {
		config.Rate = def.Rate
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Controller{
		driver: driver,
		config: config,
		logger: logger.WithPrefix("playback"),
		state:  StateIdle,
		index:  -1,
	}
}

// OnSentenceChange registers an observer called synchronously whenever the
// active sentence changes.
func (c *Controller) OnSentenceChange(fn func(Position)) {
	c.sentenceObservers = append(c.sentenceObservers, fn)
}

// OnStateChange registers an observer called synchronously whenever the
// state changes. Observers never see StateSeeking.
func (c *Controller) OnStateChange(fn func(State)) {
	c.stateObservers = append(c.stateObservers, fn)
}

// Document returns the loaded document, or nil when idle.
func (c *Controller) Document() *segment.Document { return c.doc }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Index returns the current flat sentence index.
func (c *Controller) Index() int { return c.index }

// Voice returns the narration voice.
func (c *Controller) Voice() string { return c.config.Voice }

// Rate returns the narration rate.
func (c *Controller) Rate() float64 { return c.config.Rate }

// EndPolicy returns the end-of-document policy.
func (c *Controller) EndPolicy() EndPolicy { return c.config.EndPolicy }

// SetEndPolicy changes the end-of-document policy.
func (c *Controller) SetEndPolicy(p EndPolicy) { c.config.EndPolicy = p }

// LoadDocument replaces the current document. Any narration in flight is
// cancelled and the controller stops before the first sentence, or on it
// when opts.AutoplayReady is set.
func (c *Controller) LoadDocument(doc *segment.Document, opts LoadOptions) {
	c.cancel()
	c.doc = doc
	index := -1
	if opts.AutoplayReady && doc.Len() > 0 {
		index = 0
	}
	c.logger.Debug("document loaded", "sentences", doc.Len(), "chapters", doc.ChapterCount())
	prev := c.state
	c.state = StateStopped
	c.index = index
	c.notifySentence()
	if prev != StateStopped {
		c.notifyState()
	}
}

// Reset discards the document and returns to StateIdle.
func (c *Controller) Reset() {
	c.cancel()
	c.doc = nil
	prev := c.state
	c.state = StateIdle
	c.moveTo(-1)
	if prev != StateIdle {
		c.notifyState()
	}
}

// Play starts narration from the current sentence. It is a no-op on an empty
// document or when already playing.
func (c *Controller) Play() error {
	if c.state == StateIdle {
		return ErrNoDocument
	}
	if c.state == StatePlaying || c.doc.Len() == 0 {
		return nil
	}
	if c.index < 0 {
		c.moveTo(0)
	}
	c.setState(StatePlaying)
	return c.speak()
}

// Pause stops narration and keeps the current sentence.
func (c *Controller) Pause() error {
	if c.state == StateIdle {
		return ErrNoDocument
	}
	if c.state != StatePlaying {
		return nil
	}
	c.cancel()
	c.setState(StateStopped)
	return nil
}

// Toggle plays when stopped and pauses when playing.
func (c *Controller) Toggle() error {
	if c.state == StatePlaying {
		return c.Pause()
	}
	return c.Play()
}

// Seek moves to sentence i, clamped to the document. When playing,
// narration restarts at the new sentence.
func (c *Controller) Seek(i int) error {
	if c.state == StateIdle {
		return ErrNoDocument
	}
	n := c.doc.Len()
	if n == 0 {
		return nil
	}

	prev := c.state
	c.cancel()
	c.state = StateSeeking
	c.resolving = prev
	c.moveTo(clamp(i, 0, n-1))
	c.state = prev

	if prev != StatePlaying {
		return nil
	}
	return c.speak()
}

// Next moves to the following sentence.
func (c *Controller) Next() error {
	return c.Seek(c.index + 1)
}

// Previous moves to the preceding sentence.
func (c *Controller) Previous() error {
	return c.Seek(c.index - 1)
}

// NextChapter moves to the first sentence of the next chapter that has any.
// It stays put in the last chapter.
func (c *Controller) NextChapter() error {
	if c.state == StateIdle {
		return ErrNoDocument
	}
	current := c.doc.ChapterOf(c.index)
	if current == 0 {
		return nil
	}
	for ordinal := current + 1; ordinal <= c.doc.ChapterCount(); ordinal++ {
		if c.doc.ChapterSentenceCounts[ordinal-1] == 0 {
			continue
		}
		start, err := c.doc.ChapterStart(ordinal)
		if err != nil {
			return err
		}
		return c.Seek(start)
	}
	return nil
}

// PreviousChapter moves to the start of the current chapter, or to the start
// of the previous one when already there.
func (c *Controller) PreviousChapter() error {
	if c.state == StateIdle {
		return ErrNoDocument
	}
	current := c.doc.ChapterOf(c.index)
	if current == 0 {
		return nil
	}
	start, err := c.doc.ChapterStart(current)
	if err != nil {
		return err
	}
	if c.index > start {
		return c.Seek(start)
	}
	for ordinal := current - 1; ordinal >= 1; ordinal-- {
		if c.doc.ChapterSentenceCounts[ordinal-1] == 0 {
			continue
		}
		start, err := c.doc.ChapterStart(ordinal)
		if err != nil {
			return err
		}
		return c.Seek(start)
	}
	return c.Seek(0)
}

// SetVoice changes the narration voice. The current sentence is restarted
// when playing.
func (c *Controller) SetVoice(voice string) error {
	c.config.Voice = voice
	return c.restart()
}

// SetRate changes the narration rate. The current sentence is restarted when
// playing.
func (c *Controller) SetRate(rate float64) error {
	if rate <= 0 {
		return ErrInvalidRate
	}
	c.config.Rate = rate
	return c.restart()
}

func (c *Controller) restart() error {
	if c.state != StatePlaying {
		return nil
	}
	c.cancel()
	return c.speak()
}

// HandleEvent dispatches a driver event.
func (c *Controller) HandleEvent(ev Event) error {
	if ev.Err != nil {
		return c.OnNarrationError(ev.Handle, ev.Err)
	}
	return c.OnNarrationComplete(ev.Handle)
}

// OnNarrationComplete advances past the sentence narrated by request h.
// Completions for superseded requests are ignored.
func (c *Controller) OnNarrationComplete(h Handle) error {
	if !c.current(h) {
		c.logger.Debug("ignoring stale completion", "handle", h)
		return nil
	}
	c.pending = false

	if c.index < c.doc.Len()-1 {
		c.moveTo(c.index + 1)
		return c.speak()
	}

	c.logger.Debug("end of document", "policy", c.config.EndPolicy)
	c.state = StateStopped
	if c.config.EndPolicy == EndLoop {
		c.moveTo(0)
	}
	c.notifyState()
	return nil
}

// OnNarrationError stops playback after request h failed. The index is kept
// so Play retries the same sentence. Errors for superseded requests are
// ignored and nil is returned.
func (c *Controller) OnNarrationError(h Handle, err error) error {
	if !c.current(h) {
		c.logger.Debug("ignoring stale error", "handle", h, "err", err)
		return nil
	}
	c.pending = false
	c.setState(StateStopped)
	return &NarrationError{Handle: h, Index: c.index, Err: err}
}

// CurrentPosition returns where playback is.
func (c *Controller) CurrentPosition() Position {
	pos := Position{
		Index:         c.index,
		Chapter:       c.doc.ChapterOf(c.index),
		TotalChapters: c.doc.ChapterCount(),
		State:         c.state,
	}
	if c.doc.Len() > 0 {
		pos.Elapsed = scale(c.config.Estimator.Duration(c.doc, c.index), c.config.Rate)
		pos.Total = scale(c.config.Estimator.Duration(c.doc, c.doc.Len()), c.config.Rate)
	}
	return pos
}

func (c *Controller) current(h Handle) bool {
	return c.state == StatePlaying && c.pending &&
		c.inflight.Handle == h && c.inflight.Index == c.index
}

func (c *Controller) speak() error {
	c.nextHandle++
	req := Request{
		Handle: c.nextHandle,
		Index:  c.index,
		Text:   c.doc.Sentence(c.index),
		Voice:  c.config.Voice,
		Rate:   c.config.Rate,
	}
	c.inflight = req
	c.pending = true

	if err := c.driver.Speak(req); err != nil {
		c.pending = false
		c.setState(StateStopped)
		return &NarrationError{Handle: req.Handle, Index: req.Index, Err: err}
	}
	return nil
}

func (c *Controller) cancel() {
	if !c.pending {
		return
	}
	c.pending = false
	c.driver.Cancel(c.inflight.Handle)
}

func (c *Controller) moveTo(i int) {
	if i == c.index {
		return
	}
	c.index = i
	c.notifySentence()
}

func (c *Controller) notifySentence() {
	if len(c.sentenceObservers) == 0 {
		return
	}
	pos := c.CurrentPosition()
	if pos.State == StateSeeking {
		pos.State = c.resolving
	}
	for _, fn := range c.sentenceObservers {
		fn(pos)
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.notifyState()
}

func (c *Controller) notifyState() {
	for _, fn := range c.stateObservers {
		fn(c.state)
	}
}
