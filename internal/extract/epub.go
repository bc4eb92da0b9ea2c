package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EPUBFormat reads EPUB books, one chapter per spine item.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

// Extract implements Format. A chapter is titled by its first heading, or
// "Section N" when it has none.
func (f *EPUBFormat) Extract(path string) ([]Chapter, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close() //nolint:errcheck

	if len(rc.Rootfiles) == 0 {
		return nil, errors.New("no rootfiles found in epub")
	}
	book := rc.Rootfiles[0]

	var chapters []Chapter
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", ref.Item.HREF, err)
		}
		title, text, err := htmlText(r)
		_ = r.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ref.Item.HREF, err)
		}
		if title == "" {
			title = fmt.Sprintf("Section %d", i+1)
		}
		chapters = append(chapters, Chapter{Title: title, Text: text})
	}
	return chapters, nil
}

// htmlText returns the text of an XHTML document, with a blank line after
// every block element, and the text of its first heading.
func htmlText(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			out.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			case atom.Br:
				out.WriteString("\n")
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				if title == "" {
					title = strings.Join(strings.Fields(nodeText(n)), " ")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			out.WriteString("\n\n")
		}
	}
	walk(doc)
	return title, out.String(), nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Aside, atom.Header,
		atom.Footer, atom.Blockquote, atom.Li, atom.Ul, atom.Ol, atom.Dd, atom.Dt,
		atom.Pre, atom.Table, atom.Tr, atom.Figcaption, atom.Hr,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
