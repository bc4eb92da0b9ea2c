package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultPagesPerChapter groups PDF pages into chapters.
const DefaultPagesPerChapter = 10

// PDFFormat reads the text layer of PDF files. PDFs carry no reliable
// chapter structure, so every PagesPerChapter pages form a chapter.
type PDFFormat struct {
	PagesPerChapter int
}

func init() {
	Register(&PDFFormat{PagesPerChapter: DefaultPagesPerChapter})
}

func (f *PDFFormat) Name() string         { return "PDF" }
func (f *PDFFormat) Extensions() []string { return []string{".pdf"} }

// Extract implements Format. Pages within a chapter are joined by a newline.
func (f *PDFFormat) Extract(path string) ([]Chapter, error) {
	file, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close() //nolint:errcheck

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return groupPages(pages, f.PagesPerChapter), nil
}

func groupPages(pages []string, per int) []Chapter {
	if per <= 0 {
		per = DefaultPagesPerChapter
	}
	var chapters []Chapter
	for start := 0; start < len(pages); start += per {
		end := min(start+per, len(pages))
		title := fmt.Sprintf("Pages %d-%d", start+1, end)
		if end == start+1 {
			title = fmt.Sprintf("Page %d", end)
		}
		chapters = append(chapters, Chapter{
			Title: title,
			Text:  strings.Join(pages[start:end], "\n"),
		})
	}
	return chapters
}
