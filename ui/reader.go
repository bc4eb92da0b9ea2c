package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"

	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/narration"
	"github.com/dgnsrekt/readaloud/playback"
	"github.com/dgnsrekt/readaloud/segment"
)

const footerHeight = 2

type readerState int

const (
	readerStateBrowse readerState = iota
	readerStateSearch
)

// session holds what the controller observers write. Every copy of the
// reader model shares it.
type session struct {
	view     *documentView
	moved    bool
	watching atomic.Bool
}

type readerModel struct {
	common   *commonModel
	state    readerState
	keys     keyMap
	help     help.Model
	viewport viewport.Model
	search   textinput.Model
	showHelp bool

	statusMessage      string
	statusIsError      bool
	statusMessageTimer *time.Timer

	controller *playback.Controller
	driver     narration.Driver
	session    *session
	language   l10n.Language

	store *history.Store
	saver *history.Saver
	hash  string

	watcher *fsnotify.Watcher
}

func newReaderModel(common *commonModel, opts Options) readerModel {
	driver := opts.Driver
	if driver == nil {
		driver = narration.NewSilent(0)
	}
	pcfg := opts.Playback
	if pcfg.Logger == nil {
		pcfg.Logger = common.logger
	}
	controller := playback.NewController(driver, pcfg)

	sess := &session{}
	controller.OnSentenceChange(func(pos playback.Position) {
		if sess.view != nil {
			sess.view.setActive(pos.Index)
		}
		sess.moved = true
	})

	language, ok := l10n.LookupLanguage(common.tr.Code())
	if !ok {
		language, _ = l10n.LookupLanguage(l10n.DefaultLanguage)
	}

	vp := viewport.New(0, 0)
	vp.HighPerformanceRendering = common.cfg.HighPerformancePager

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = common.tr.T(l10n.KeySearch)
	ti.CharLimit = 120

	m := readerModel{
		common:     common,
		keys:       newKeyMap(),
		help:       help.New(),
		viewport:   vp,
		search:     ti,
		controller: controller,
		driver:     driver,
		session:    sess,
		language:   language,
		store:      opts.History,
	}
	m.initWatcher()
	return m
}

func (m *readerModel) events() <-chan playback.Event {
	return m.driver.Events()
}

func (m *readerModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = max(h-footerHeight, 1)
	m.help.Width = w
	if m.showHelp {
		m.viewport.Height = max(m.viewport.Height-lipgloss.Height(m.helpView()), 1)
	}
	if m.state == readerStateSearch {
		m.viewport.Height = max(m.viewport.Height-1, 1)
	}
	if m.session.view != nil && m.session.view.width != m.textWidth() {
		m.session.view.setWidth(m.textWidth())
		m.refresh(true)
	}
}

// textWidth is the wrapping width, capped by the configured width.
func (m readerModel) textWidth() int {
	w := m.viewport.Width
	if c := m.common.cfg.Width; c > 0 && (w == 0 || c < w) {
		w = c
	}
	return max(w, 1)
}

type statusMessage struct {
	message string
	isError bool
}

func (m *readerModel) showStatusMessage(msg statusMessage) tea.Cmd {
	m.statusMessage = msg.message
	m.statusIsError = msg.isError
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

func (m readerModel) update(msg tea.Msg) (readerModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case documentLoadedMsg:
		cmds = append(cmds, m.load(msg)...)

	case narrationEventMsg:
		cmds = append(cmds, waitForNarrationEvent(m.events()))
		if err := m.controller.HandleEvent(playback.Event(msg)); err != nil {
			cmds = append(cmds, m.narrationFailed(err))
		}

	case reloadMsg:
		return m, loadDocument(m.common.cfg, true)

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		m.statusIsError = false

	case tea.KeyMsg:
		if m.state == readerStateSearch {
			cmds = append(cmds, m.updateSearch(msg))
			break
		}
		cmd, quit := m.handleKey(msg)
		if quit {
			m.close()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refresh(false)
	if m.viewport.HighPerformanceRendering {
		cmds = append(cmds, viewport.Sync(m.viewport))
	}
	return m, tea.Batch(cmds...)
}

func (m *readerModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	c := m.controller
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Toggle):
		err = c.Toggle()
	case key.Matches(msg, m.keys.Next):
		err = c.Next()
	case key.Matches(msg, m.keys.Previous):
		err = c.Previous()
	case key.Matches(msg, m.keys.NextChapter):
		err = c.NextChapter()
	case key.Matches(msg, m.keys.PrevChapter):
		err = c.PreviousChapter()
	case key.Matches(msg, m.keys.Start):
		err = c.Seek(0)
	case key.Matches(msg, m.keys.End):
		err = c.Seek(c.Document().Len() - 1)
	case key.Matches(msg, m.keys.Faster):
		err = c.SetRate(l10n.StepSpeed(c.Rate(), true))
	case key.Matches(msg, m.keys.Slower):
		err = c.SetRate(l10n.StepSpeed(c.Rate(), false))
	case key.Matches(msg, m.keys.Voice):
		err = c.SetVoice(m.language.NextVoice(c.Voice()).ID)
	case key.Matches(msg, m.keys.Theme):
		dark := !lipgloss.HasDarkBackground()
		lipgloss.SetHasDarkBackground(dark)
		if v := m.session.view; v != nil {
			v.setWidth(v.width)
		}
		m.refresh(true)
		return m.showStatusMessage(statusMessage{
			message: m.common.tr.T(l10n.KeyTheme, themeName(dark)),
		}), false
	case key.Matches(msg, m.keys.Copy):
		return m.copySentence(), false
	case key.Matches(msg, m.keys.Search):
		return m.startSearch(), false
	case key.Matches(msg, m.keys.Reload):
		return loadDocument(m.common.cfg, true), false
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
		return nil, false
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, false
	}

	if err != nil {
		return m.narrationFailed(err), false
	}
	return nil, false
}

func (m *readerModel) narrationFailed(err error) tea.Cmd {
	m.common.logger.Error("narration failed", "error", err)
	var nerr *playback.NarrationError
	if errors.As(err, &nerr) {
		err = nerr.Err
	}
	return m.showStatusMessage(statusMessage{
		message: m.common.tr.T(l10n.KeyNarrationFail, err),
		isError: true,
	})
}

func (m *readerModel) copySentence() tea.Cmd {
	text := m.controller.Document().Sentence(m.controller.Index())
	if text == "" {
		return nil
	}
	// Copy using OSC 52 as well as the native clipboard.
	termenv.Copy(text)
	if err := clipboard.WriteAll(text); err != nil {
		m.common.logger.Debug("clipboard unavailable", "error", err)
		return m.showStatusMessage(statusMessage{
			message: m.common.tr.T(l10n.KeyCopyFailed, err),
			isError: true,
		})
	}
	return m.showStatusMessage(statusMessage{message: m.common.tr.T(l10n.KeyCopied)})
}

func (m *readerModel) toggleHelp() {
	m.showHelp = !m.showHelp
	m.help.ShowAll = m.showHelp
	m.setSize(m.common.width, m.common.height)
	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}
}

// load installs a freshly extracted document. On reload the previous
// position is kept, clamped to the new document.
func (m *readerModel) load(msg documentLoadedMsg) []tea.Cmd {
	prev := m.controller.Index()
	wasPlaying := m.controller.State() == playback.StatePlaying

	if m.saver != nil {
		_ = m.saver.Flush()
	}
	m.hash = msg.hash
	m.saver = nil
	if m.store != nil {
		m.saver = history.NewSaver(m.store, msg.hash, m.common.cfg.SaveInterval)
	}

	m.session.view = newDocumentView(msg.doc, m.textWidth())
	m.controller.LoadDocument(msg.doc, playback.LoadOptions{AutoplayReady: true})
	m.common.logger.Debug("document loaded",
		"path", m.common.cfg.Path,
		"sentences", msg.doc.Len(),
		"chapters", msg.doc.ChapterCount(),
		"reload", msg.reload,
	)

	cmds := []tea.Cmd{m.watch()}
	play := m.common.cfg.AutoPlay
	switch {
	case msg.reload:
		if prev >= 0 {
			_ = m.controller.Seek(prev)
		}
		play = wasPlaying
		cmds = append(cmds, m.showStatusMessage(statusMessage{message: m.common.tr.T(l10n.KeyReloaded)}))
	default:
		if i, ok := m.restore(msg.doc); ok {
			_ = m.controller.Seek(i)
			cmds = append(cmds, m.showStatusMessage(statusMessage{
				message: m.common.tr.T(l10n.KeyResumed, i+1),
			}))
		}
	}
	if play && msg.doc.Len() > 0 {
		if err := m.controller.Play(); err != nil {
			cmds = append(cmds, m.narrationFailed(err))
		}
	}
	m.refresh(true)
	return cmds
}

// restore returns the saved sentence for doc when the history entry still
// matches its chapter layout.
func (m readerModel) restore(doc *segment.Document) (int, bool) {
	if m.store == nil {
		return 0, false
	}
	e, ok := m.store.Get(m.hash)
	if !ok || !e.Matches(doc) || e.SentenceIndex <= 0 || e.SentenceIndex >= doc.Len() {
		return 0, false
	}
	return e.SentenceIndex, true
}

func (m readerModel) entry() history.Entry {
	doc := m.controller.Document()
	return history.Entry{
		FileName:              filepath.Base(m.common.cfg.Path),
		ChapterSentenceCounts: doc.ChapterSentenceCounts,
		TotalWords:            doc.WordCount(),
		SentenceIndex:         max(m.controller.Index(), 0),
		Language:              m.common.tr.Code(),
		Voice:                 m.controller.Voice(),
		Mode:                  m.common.cfg.Mode,
		Rate:                  m.controller.Rate(),
	}
}

// refresh pushes the document view into the viewport after the active
// sentence moved, scrolling it into view and saving the position.
func (m *readerModel) refresh(force bool) {
	view := m.session.view
	if view == nil || (!m.session.moved && !force) {
		return
	}
	moved := m.session.moved
	m.session.moved = false

	m.viewport.SetContent(view.content())
	if i := m.controller.Index(); i >= 0 {
		line := view.sentenceLine(i)
		top := m.viewport.YOffset
		if force || line < top || line >= top+m.viewport.Height {
			m.viewport.SetYOffset(max(line-m.viewport.Height/4, 0))
		}
	}

	if moved && m.saver != nil && m.controller.Document().Len() > 0 {
		if _, err := m.saver.Save(m.entry()); err != nil {
			m.common.logger.Error("failed to save position", "error", err)
		}
	}
}

// close stops narration and persists the position.
func (m *readerModel) close() {
	if m.controller.State() != playback.StateIdle {
		_ = m.controller.Pause()
	}
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.unwatchFile()
	if m.store == nil || m.hash == "" || m.controller.Document().Len() == 0 {
		return
	}
	if err := m.store.Put(m.hash, m.entry()); err != nil {
		m.common.logger.Error("failed to save position", "error", err)
	}
}

func (m readerModel) View() string {
	var b strings.Builder
	doc := m.controller.Document()
	if doc.Len() == 0 {
		fmt.Fprint(&b, m.emptyView())
	} else {
		fmt.Fprint(&b, m.viewport.View()+"\n")
	}
	if m.state == readerStateSearch {
		fmt.Fprint(&b, m.search.View()+"\n")
	}
	m.footerView(&b)
	if m.showHelp {
		fmt.Fprint(&b, "\n"+m.helpView())
	}
	return b.String()
}

func (m readerModel) emptyView() string {
	s := emptyTitleStyle.Render(m.common.tr.T(l10n.KeyEmptyTitle)) + "\n\n" +
		subtleStyle.Render(m.common.tr.T(l10n.KeyEmptyMessage))
	s = indent("\n"+s, 3)
	lines := strings.Count(s, "\n")
	if pad := m.viewport.Height - lines; pad > 0 {
		s += strings.Repeat("\n", pad)
	}
	return s
}

func (m readerModel) helpView() string {
	return helpViewStyle.Render(m.help.View(m.keys))
}
