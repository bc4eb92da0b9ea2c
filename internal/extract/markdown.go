package extract

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat reads Markdown, starting a chapter at every level 1 or 2
// heading. Code blocks and raw HTML are not narrated.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown", ".mdown", ".mkd"} }

// Extract implements Format.
func (f *MarkdownFormat) Extract(path string) ([]Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return markdownChapters(trimBOM(data)), nil
}

func markdownChapters(src []byte) []Chapter {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var (
		chapters []Chapter
		title    string
		body     strings.Builder
		started  bool
	)
	flush := func() {
		if started || strings.TrimSpace(body.String()) != "" {
			chapters = append(chapters, Chapter{Title: title, Text: body.String()})
		}
		body.Reset()
	}
	paragraph := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			body.WriteString(s)
			body.WriteString("\n\n")
		}
	}

	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Heading:
			heading := inlineText(n, src)
			if n.Level <= 2 {
				flush()
				title = heading
				started = true
			}
			paragraph(heading)
		case *ast.Paragraph, *ast.TextBlock:
			paragraph(inlineText(n, src))
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
		default:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				visit(c)
			}
		}
	}
	visit(doc)
	flush()
	return chapters
}

// inlineText returns the text of n's inline content, with line breaks as
// spaces.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
