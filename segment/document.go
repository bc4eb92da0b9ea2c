package segment

import (
	"encoding/json"
	"fmt"

	"github.com/dgnsrekt/readaloud/internal/textutil"
)

// Document is a segmented document: the ordered units of all chapters plus
// the number of sentences each chapter contributed. A Document is immutable
// once built.
type Document struct {
	Units                 []Unit   `json:"units"`
	ChapterSentenceCounts []int    `json:"chapter_sentence_counts"`
	ChapterTitles         []string `json:"chapter_titles"`

	// Derived lookups, built once.
	sentences     []int // flat index -> unit index
	words         []int // flat index -> cumulative words before it
	totalWords    int
	chapterStarts []int // chapter (0-based) -> first flat index
}

// New segments raw text as a single untitled chapter.
func New(raw string) *Document {
	b := NewBuilder()
	b.AddChapter("", raw)
	return b.Document()
}

// Builder assembles a Document one chapter at a time, e.g. one call per
// EPUB spine section or PDF page group.
type Builder struct {
	// KeepEmptyChapters records chapters that produced no sentences with a
	// zero count instead of dropping them.
	KeepEmptyChapters bool

	units  []Unit
	counts []int
	titles []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddChapter segments raw and appends it as a chapter. It returns the number
// of sentences the chapter contributed.
func (b *Builder) AddChapter(title, raw string) int {
	units := Segment(raw)

	n := 0
	for _, u := range units {
		if !u.IsBreak() {
			n++
		}
	}
	if n == 0 && !b.KeepEmptyChapters {
		return 0
	}

	if n > 0 {
		if len(b.units) > 0 {
			b.units = append(b.units, ParagraphBreak)
		}
		b.units = append(b.units, units...)
	}
	b.counts = append(b.counts, n)
	b.titles = append(b.titles, title)
	return n
}

// Document returns the assembled document. The builder may keep being used;
// later chapters do not affect documents already returned.
func (b *Builder) Document() *Document {
	units := make([]Unit, len(b.units))
	copy(units, b.units)
	counts := make([]int, len(b.counts))
	copy(counts, b.counts)
	titles := make([]string, len(b.titles))
	copy(titles, b.titles)

	d := &Document{
		Units:                 units,
		ChapterSentenceCounts: counts,
		ChapterTitles:         titles,
	}
	d.index()
	return d
}

func (d *Document) index() {
	d.sentences = d.sentences[:0]
	d.words = d.words[:0]
	d.totalWords = 0
	for i, u := range d.Units {
		if u.IsBreak() {
			continue
		}
		d.sentences = append(d.sentences, i)
		d.words = append(d.words, d.totalWords)
		d.totalWords += textutil.CountWords(u.Text)
	}

	d.chapterStarts = make([]int, len(d.ChapterSentenceCounts))
	start := 0
	for i, n := range d.ChapterSentenceCounts {
		d.chapterStarts[i] = start
		start += n
	}
}

// UnmarshalJSON decodes a document and rebuilds its lookups.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Document(p)
	d.index()
	return nil
}

// Len returns the number of sentences, excluding paragraph breaks.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sentences)
}

// Sentence returns the sentence at flat index i.
func (d *Document) Sentence(i int) string {
	if i < 0 || i >= d.Len() {
		return ""
	}
	return d.Units[d.sentences[i]].Text
}

// WordCount returns the number of words across all sentences.
func (d *Document) WordCount() int {
	if d == nil {
		return 0
	}
	return d.totalWords
}

// WordsBefore returns the number of words in the sentences preceding flat
// index i. Indices past the end count every word.
func (d *Document) WordsBefore(i int) int {
	switch {
	case i <= 0 || d.Len() == 0:
		return 0
	case i >= d.Len():
		return d.totalWords
	default:
		return d.words[i]
	}
}

// ChapterCount returns the number of chapters.
func (d *Document) ChapterCount() int {
	if d == nil {
		return 0
	}
	return len(d.ChapterSentenceCounts)
}

// ChapterOf returns the 1-based ordinal of the chapter holding flat index i,
// walking the cumulative chapter sentence counts. It returns 0 when the
// document has no chapters. Negative indices map to the first chapter.
func (d *Document) ChapterOf(i int) int {
	if d.ChapterCount() == 0 {
		return 0
	}
	if i < 0 {
		i = 0
	}

	cumulative := 0
	ordinal := 0
	for k, n := range d.ChapterSentenceCounts {
		if n == 0 {
			continue
		}
		ordinal = k + 1
		cumulative += n
		if i < cumulative {
			return ordinal
		}
	}
	if ordinal == 0 {
		return 1
	}
	return ordinal
}

// ChapterStart returns the flat index of the first sentence of the chapter
// with the given 1-based ordinal.
func (d *Document) ChapterStart(ordinal int) (int, error) {
	if ordinal < 1 || ordinal > d.ChapterCount() {
		return 0, fmt.Errorf("chapter %d out of range [1, %d]", ordinal, d.ChapterCount())
	}
	return d.chapterStarts[ordinal-1], nil
}

// ChapterTitle returns the title of the chapter with the given 1-based
// ordinal, or "" when it has none.
func (d *Document) ChapterTitle(ordinal int) string {
	if ordinal < 1 || ordinal > len(d.ChapterTitles) {
		return ""
	}
	return d.ChapterTitles[ordinal-1]
}

// Paragraph is a run of consecutive sentences between two paragraph breaks.
type Paragraph struct {
	// First is the flat index of the paragraph's first sentence.
	First int
	// Sentences holds the paragraph's sentence texts in order.
	Sentences []string
}

// Paragraphs regroups the sentences into paragraphs for rendering.
func (d *Document) Paragraphs() []Paragraph {
	if d.Len() == 0 {
		return nil
	}

	var (
		out  []Paragraph
		cur  Paragraph
		flat int
	)
	for _, u := range d.Units {
		if u.IsBreak() {
			if len(cur.Sentences) > 0 {
				out = append(out, cur)
			}
			cur = Paragraph{First: flat}
			continue
		}
		cur.Sentences = append(cur.Sentences, u.Text)
		flat++
	}
	if len(cur.Sentences) > 0 {
		out = append(out, cur)
	}
	return out
}
