// Package extract turns document files into chapters of plain text.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/readaloud/segment"
)

// Chapter is one structural section of a document.
type Chapter struct {
	Title string
	Text  string
}

// Format extracts chapters from one kind of file.
type Format interface {
	Name() string
	Extensions() []string
	Extract(path string) ([]Chapter, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Lookup returns the format handling path, or the plain text format when no
// registered format claims its extension.
func Lookup(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return textFormat
}

// Supported reports whether path has a registered extension.
func Supported(path string) bool {
	return Lookup(path) != textFormat || isTextExt(path)
}

// Extensions returns every registered extension, dot included.
func Extensions() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Extensions()...)
	}
	return out
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// ExtractionError is returned when a file cannot be turned into text.
type ExtractionError struct {
	Path   string
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s as %s: %v", e.Path, e.Format, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtractionError) Unwrap() error { return e.Err }

// Options tune extraction and segmentation.
type Options struct {
	// PagesPerChapter groups PDF pages, DefaultPagesPerChapter when zero.
	PagesPerChapter   int
	KeepEmptyChapters bool
}

// Extract reads path with the matching format. Text is NFC normalized.
func Extract(path string) ([]Chapter, error) {
	return ExtractWith(path, Options{})
}

// ExtractWith is Extract with options.
func ExtractWith(path string, opts Options) ([]Chapter, error) {
	f := Lookup(path)
	if _, ok := f.(*PDFFormat); ok && opts.PagesPerChapter > 0 {
		f = &PDFFormat{PagesPerChapter: opts.PagesPerChapter}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &ExtractionError{Path: path, Format: f.Name(), Err: err}
	}

	chapters, err := f.Extract(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Format: f.Name(), Err: err}
	}
	for i := range chapters {
		chapters[i].Title = norm.NFC.String(strings.TrimSpace(chapters[i].Title))
		chapters[i].Text = norm.NFC.String(chapters[i].Text)
	}
	return chapters, nil
}

// Load extracts path and segments it, one chapter at a time. Nothing is
// returned on failure.
func Load(path string) (*segment.Document, error) {
	return LoadWith(path, Options{})
}

// LoadWith is Load with options.
func LoadWith(path string, opts Options) (*segment.Document, error) {
	chapters, err := ExtractWith(path, opts)
	if err != nil {
		return nil, err
	}
	b := segment.NewBuilder()
	b.KeepEmptyChapters = opts.KeepEmptyChapters
	for _, c := range chapters {
		b.AddChapter(c.Title, c.Text)
	}
	return b.Document(), nil
}
