package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/segment"
)

func (m *readerModel) startSearch() tea.Cmd {
	if m.controller.Document().Len() == 0 {
		return nil
	}
	m.state = readerStateSearch
	m.search.SetValue("")
	m.setSize(m.common.width, m.common.height)
	return m.search.Focus()
}

func (m *readerModel) stopSearch() {
	m.state = readerStateBrowse
	m.search.Blur()
	m.setSize(m.common.width, m.common.height)
}

func (m *readerModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.CancelSearch):
		m.stopSearch()
		return nil
	case key.Matches(msg, m.keys.AcceptSearch):
		query := m.search.Value()
		m.stopSearch()
		if query == "" {
			return nil
		}
		i, ok := findSentence(m.controller.Document(), query, m.controller.Index())
		if !ok {
			return m.showStatusMessage(statusMessage{
				message: m.common.tr.T(l10n.KeyNoMatch, query),
				isError: true,
			})
		}
		if err := m.controller.Seek(i); err != nil {
			return m.narrationFailed(err)
		}
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

// sentenceSource adapts a document to fuzzy.Source.
type sentenceSource struct{ doc *segment.Document }

func (s sentenceSource) String(i int) string { return s.doc.Sentence(i) }
func (s sentenceSource) Len() int            { return s.doc.Len() }

// findSentence returns the sentence best matching query. Among equally good
// matches the first one after the current sentence wins, wrapping around.
func findSentence(doc *segment.Document, query string, current int) (int, bool) {
	matches := fuzzy.FindFrom(query, sentenceSource{doc})
	if len(matches) == 0 {
		return 0, false
	}
	best := matches[0]
	for _, match := range matches[1:] {
		if match.Score < best.Score {
			break
		}
		if distance(current, match.Index, doc.Len()) < distance(current, best.Index, doc.Len()) {
			best = match
		}
	}
	return best.Index, true
}

// distance counts forward steps from current to i, wrapping at n.
func distance(current, i, n int) int {
	d := i - current
	if d <= 0 {
		d += n
	}
	return d
}
