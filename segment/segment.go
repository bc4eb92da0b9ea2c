// Package segment splits extracted document text into sentence units and
// paragraph breaks for narration.
package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// Kind distinguishes sentence units from paragraph breaks.
type Kind int

const (
	// KindSentence is a narratable sentence.
	KindSentence Kind = iota
	// KindParagraphBreak separates the sentences of two paragraphs.
	KindParagraphBreak
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSentence:
		return "sentence"
	case KindParagraphBreak:
		return "paragraph-break"
	default:
		return "unknown"
	}
}

// Unit is one element of a segmented document: either a sentence or a
// paragraph break. A paragraph break never carries text.
type Unit struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
}

// ParagraphBreak is the marker placed between two paragraphs.
var ParagraphBreak = Unit{Kind: KindParagraphBreak}

// IsBreak reports whether u is a paragraph break.
func (u Unit) IsBreak() bool {
	return u.Kind == KindParagraphBreak
}

var (
	paragraphSplit = regexp.MustCompile(`(?:\r\n|\r|\n){2,}`)
	newlines       = regexp.MustCompile(`\r\n|\r|\n`)
	controlChars   = regexp.MustCompile(`[\x00-\x09\x0B-\x1F\x7F]`)
	whitespaceRun  = regexp.MustCompile(`[\s\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

	// A run of non-terminators followed by one terminator or the end of text.
	potentialSentence = regexp.MustCompile(`[^.!?]+(?:[.!?]|$)`)
)

// minSentenceWords is the word count below which a fragment ending in a
// period is treated as an abbreviation ("Mr.", "U.S.") and merged with the
// next fragment.
const minSentenceWords = 3

// Segment splits raw text into sentences separated by paragraph breaks.
// Paragraphs are delimited by two or more consecutive newlines. The result
// never starts or ends with a paragraph break and never holds two breaks in a
// row.
func Segment(raw string) []Unit {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var units []Unit
	for _, p := range paragraphSplit.Split(raw, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		sentences := Sentences(p)
		if len(sentences) == 0 {
			continue
		}
		for _, s := range sentences {
			units = append(units, Unit{Kind: KindSentence, Text: s})
		}
		units = append(units, ParagraphBreak)
	}

	if n := len(units); n > 0 && units[n-1].IsBreak() {
		units = units[:n-1]
	}
	return units
}

// Sentences splits a single paragraph into sentences. Newlines inside the
// paragraph are treated as spaces.
func Sentences(paragraph string) []string {
	if paragraph == "" {
		return nil
	}

	cleaned := newlines.ReplaceAllString(paragraph, " ")
	cleaned = controlChars.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")

	var (
		sentences []string
		buf       string
	)
	for _, part := range potentialSentence.FindAllString(cleaned, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if buf == "" {
			buf = part
		} else {
			buf = buf + " " + part
		}

		definitive := strings.HasSuffix(part, "!") || strings.HasSuffix(part, "?")
		short := len(strings.Fields(buf)) < minSentenceWords
		period := strings.HasSuffix(part, ".")

		if definitive || !short || !period {
			sentences = append(sentences, buf)
			buf = ""
		}
	}
	if strings.TrimSpace(buf) != "" {
		sentences = append(sentences, buf)
	}

	out := sentences[:0]
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if hasLetter(s) {
			out = append(out, s)
		}
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
