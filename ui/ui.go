// Package ui provides the reader TUI: a document view with the narrated
// sentence highlighted and the playback controls around it.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readaloud/internal/extract"
	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/playback"
	"github.com/dgnsrekt/readaloud/segment"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show toasts like "copied"
	ellipsis             = "…"
)

// NewProgram returns a new Tea program reading opts.Config.Path.
func NewProgram(opts Options) *tea.Program {
	opts.Logger.Debug(
		"starting reader",
		"path", opts.Config.Path,
		"mode", opts.Config.Mode,
		"high_perf_pager", opts.Config.HighPerformancePager,
	)

	teaOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Config.EnableMouse {
		teaOpts = append(teaOpts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(opts), teaOpts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	documentLoadedMsg struct {
		doc    *segment.Document
		hash   string
		reload bool
	}
	narrationEventMsg       playback.Event
	reloadMsg               struct{}
	statusMessageTimeoutMsg struct{}
)

// state is the top-level application state.
type state int

const (
	stateLoading state = iota
	stateError
	stateReading
)

func (s state) String() string {
	return map[state]string{
		stateLoading: "loading document",
		stateError:   "showing error",
		stateReading: "reading document",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	width  int
	height int
	tr     *l10n.Translator
	logger *log.Logger
}

type model struct {
	common *commonModel
	state  state
	err    error

	spinner spinner.Model
	reader  readerModel
}

func newModel(opts Options) model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Translator == nil {
		opts.Translator = l10n.New(l10n.DefaultLanguage)
	}
	lipgloss.SetHasDarkBackground(detectDarkBackground(opts.Config.Theme))

	common := &commonModel{
		cfg:    opts.Config,
		tr:     opts.Translator,
		logger: opts.Logger.WithPrefix("ui"),
	}

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = subtleStyle

	return model{
		common:  common,
		state:   stateLoading,
		spinner: sp,
		reader:  newReaderModel(common, opts),
	}
}

func (m model) Init() tea.Cmd {
	m.common.logger.Debug("init", "state", m.state)
	return tea.Batch(
		m.spinner.Tick,
		loadDocument(m.common.cfg, false),
		waitForNarrationEvent(m.reader.events()),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.state == stateError {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.reader.setSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.reader.close()
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		m.common.logger.Error("failed to load document", "error", msg.err)
		if m.state == stateReading {
			// A failed reload keeps the document already on screen.
			cmd := m.reader.showStatusMessage(statusMessage{message: msg.Error(), isError: true})
			return m, tea.Batch(cmd, m.reader.watch())
		}
		m.err = msg.err
		m.state = stateError
		return m, nil

	case documentLoadedMsg:
		m.state = stateReading
	}

	if m.state != stateReading {
		return m, nil
	}

	var cmd tea.Cmd
	m.reader, cmd = m.reader.update(msg)
	return m, cmd
}

func (m model) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("\n  %s %s", m.spinner.View(), m.common.tr.T(l10n.KeyLoading, filepath.Base(m.common.cfg.Path)))
	case stateError:
		return errorView(m.common.tr.T(l10n.KeyErrorTitle), m.err, true)
	default:
		return m.reader.View()
	}
}

func errorView(title string, err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render(title),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// loadDocument extracts and segments the file off the event loop.
func loadDocument(cfg Config, reload bool) tea.Cmd {
	return func() tea.Msg {
		doc, err := extract.LoadWith(cfg.Path, extract.Options{
			PagesPerChapter:   cfg.PagesPerChapter,
			KeepEmptyChapters: cfg.KeepEmptyChapters,
		})
		if err != nil {
			return errMsg{err}
		}
		hash, err := history.ComputeHash(cfg.Path)
		if err != nil {
			return errMsg{err}
		}
		return documentLoadedMsg{doc: doc, hash: hash, reload: reload}
	}
}

func waitForNarrationEvent(ch <-chan playback.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return narrationEventMsg(ev)
	}
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
