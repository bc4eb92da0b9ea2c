package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/internal/textutil"
	"github.com/dgnsrekt/readaloud/narration"
	"github.com/dgnsrekt/readaloud/playback"
)

const maxTitleWidth = 32

// footerView writes the timeline and the status bar.
func (m readerModel) footerView(b *strings.Builder) {
	width := max(m.common.width, 20)
	pos := m.controller.CurrentPosition()
	fmt.Fprintln(b, timelineView(pos, width))
	fmt.Fprint(b, m.statusBarView(pos, width))
}

// timelineView renders "elapsed ━━━━──── total".
func timelineView(pos playback.Position, width int) string {
	elapsed := " " + textutil.FormatClock(pos.Elapsed) + " "
	total := " " + textutil.FormatClock(pos.Total) + " "
	bar := max(width-runewidth.StringWidth(elapsed)-runewidth.StringWidth(total), 0)

	filled := 0
	if pos.Total > 0 {
		filled = min(int(float64(bar)*float64(pos.Elapsed)/float64(pos.Total)), bar)
	}
	return elapsed +
		timelineFilledStyle(strings.Repeat("━", filled)) +
		timelineEmptyStyle(strings.Repeat("─", bar-filled)) +
		total
}

// chapterLabel returns "n/m", or "-/-" when the document has no real
// chapters.
func chapterLabel(pos playback.Position, title string) string {
	if pos.TotalChapters == 0 || (pos.TotalChapters == 1 && title == "") {
		return "-/-"
	}
	return strconv.Itoa(pos.Chapter) + "/" + strconv.Itoa(pos.TotalChapters)
}

func (m readerModel) statusBarView(pos playback.Position, width int) string {
	tr := m.common.tr
	doc := m.controller.Document()

	var stateLabel string
	switch pos.State {
	case playback.StatePlaying:
		stateLabel = statusBarPlayingStyle(" ▶ " + tr.T(l10n.KeyStatePlaying) + " ")
	case playback.StateStopped:
		stateLabel = statusBarStateStyle(" ■ " + tr.T(l10n.KeyStateStopped) + " ")
	default:
		stateLabel = statusBarStateStyle(" " + tr.T(l10n.KeyStateIdle) + " ")
	}

	settings := fmt.Sprintf(" %s · %s · %s ",
		tr.T(l10n.KeySpeed, fmt.Sprintf("%.1fx", m.controller.Rate())),
		tr.T(l10n.KeyVoice, voiceLabel(m.controller.Voice())),
		modeLabel(tr, m.common.cfg.Mode),
	)
	settings = statusBarStateStyle(settings)

	var note string
	if m.statusMessage != "" {
		note = m.statusMessage
	} else {
		title := doc.ChapterTitle(pos.Chapter)
		note = tr.T(l10n.KeyChapter, chapterLabel(pos, title))
		if title != "" {
			note += " " + runewidth.Truncate(title, maxTitleWidth, ellipsis)
		}
		if n := doc.Len(); n > 0 {
			note += fmt.Sprintf(" · %d/%d", max(pos.Index+1, 1), n)
		}
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		width-
			ansi.PrintableRuneWidth(stateLabel)-
			ansi.PrintableRuneWidth(settings),
	)), ellipsis)

	padding := max(0,
		width-
			ansi.PrintableRuneWidth(stateLabel)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(settings),
	)
	emptySpace := strings.Repeat(" ", padding)

	switch {
	case m.statusMessage != "" && m.statusIsError:
		note = statusBarErrorStyle(note)
		emptySpace = statusBarErrorStyle(emptySpace)
	case m.statusMessage != "":
		note = statusBarMessageStyle(note)
		emptySpace = statusBarMessageStyle(emptySpace)
	default:
		note = statusBarNoteStyle(note)
		emptySpace = statusBarNoteStyle(emptySpace)
	}

	return stateLabel + note + emptySpace + settings
}

func voiceLabel(voice string) string {
	if voice == "" {
		return "-"
	}
	return voice
}

func modeLabel(tr *l10n.Translator, mode string) string {
	switch mode {
	case narration.ModeNeural:
		return tr.T(l10n.KeyModeNeural)
	case narration.ModeSilent:
		return tr.T(l10n.KeyModeSilent)
	default:
		return tr.T(l10n.KeyModeNative)
	}
}
