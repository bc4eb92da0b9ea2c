package ui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/readaloud/segment"
)

// documentView renders a document as wrapped paragraphs with the active
// sentence highlighted. Paragraphs are cached and only the ones holding the
// previous and the new active sentence are re-rendered on a change.
type documentView struct {
	width      int
	paragraphs []segment.Paragraph
	rendered   []string
	paraOf     []int // sentence -> paragraph
	lineOf     []int // paragraph -> first line
	active     int
}

func newDocumentView(doc *segment.Document, width int) *documentView {
	v := &documentView{
		paragraphs: doc.Paragraphs(),
		active:     -1,
	}
	v.paraOf = make([]int, doc.Len())
	for p, para := range v.paragraphs {
		for j := range para.Sentences {
			v.paraOf[para.First+j] = p
		}
	}
	v.setWidth(width)
	return v
}

func (v *documentView) setWidth(width int) {
	v.width = max(width, 1)
	v.rendered = make([]string, len(v.paragraphs))
	v.lineOf = make([]int, len(v.paragraphs))
	line := 0
	for p := range v.paragraphs {
		v.rendered[p] = v.renderParagraph(p)
		v.lineOf[p] = line
		line += strings.Count(v.rendered[p], "\n") + 2
	}
}

// setActive moves the highlight to sentence i; -1 clears it.
func (v *documentView) setActive(i int) {
	if i == v.active {
		return
	}
	prev := v.active
	v.active = i
	for _, s := range []int{prev, i} {
		if s >= 0 && s < len(v.paraOf) {
			p := v.paraOf[s]
			v.rendered[p] = v.renderParagraph(p)
		}
	}
}

func (v *documentView) content() string {
	return strings.Join(v.rendered, "\n\n")
}

// sentenceLine returns the line on which sentence i starts.
func (v *documentView) sentenceLine(i int) int {
	if i < 0 || i >= len(v.paraOf) {
		return 0
	}
	p := v.paraOf[i]
	para := v.paragraphs[p]

	prefix := strings.Join(para.Sentences[:i-para.First], " ")
	if words := strings.Fields(para.Sentences[i-para.First]); len(words) > 0 {
		if prefix != "" {
			prefix += " "
		}
		prefix += words[0]
	}
	return v.lineOf[p] + strings.Count(wordwrap.String(prefix, v.width), "\n")
}

func (v *documentView) renderParagraph(p int) string {
	para := v.paragraphs[p]
	local := v.active - para.First
	if local < 0 || local >= len(para.Sentences) {
		return wordwrap.String(strings.Join(para.Sentences, " "), v.width)
	}

	parts := make([]string, 0, len(para.Sentences))
	for j, s := range para.Sentences {
		if j != local {
			parts = append(parts, s)
			continue
		}
		// Words are styled one by one so that wrapping never splits an
		// escape sequence across lines.
		words := strings.Fields(s)
		for k, w := range words {
			words[k] = highlightStyle.Render(w)
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return wordwrap.String(strings.Join(parts, " "), v.width)
}
