package extract

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextFormat reads plain text files as a single chapter.
type TextFormat struct{}

var textFormat = &TextFormat{}

func init() {
	Register(textFormat)
}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt", ".text"} }

// Extract implements Format. Files that are not valid UTF-8 are decoded as
// Windows-1252.
func (f *TextFormat) Extract(path string) ([]Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []Chapter{{Text: decodeText(data)}}, nil
}

func decodeText(data []byte) string {
	data = trimBOM(data)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(decoded)
}

func trimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func isTextExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range textFormat.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}
