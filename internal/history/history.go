// Package history remembers where each document was left off.
package history

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	gap "github.com/muesli/go-app-paths"

	"github.com/dgnsrekt/readaloud/segment"
)

const (
	fileName  = "history.json"
	hashBytes = 8192
)

// Entry is the saved state of one document.
type Entry struct {
	FileName              string    `json:"file_name"`
	ChapterSentenceCounts []int     `json:"chapter_sentence_counts"`
	TotalWords            int       `json:"total_words"`
	SentenceIndex         int       `json:"sentence_index"`
	Language              string    `json:"language,omitempty"`
	Voice                 string    `json:"voice,omitempty"`
	Mode                  string    `json:"mode,omitempty"`
	Rate                  float64   `json:"rate,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Matches reports whether the entry was saved for a document with the same
// chapter layout as doc.
func (e Entry) Matches(doc *segment.Document) bool {
	return slices.Equal(e.ChapterSentenceCounts, doc.ChapterSentenceCounts)
}

// Record is an entry together with its document hash.
type Record struct {
	Hash string
	Entry
}

// Store is a JSON file of entries keyed by document hash.
type Store struct {
	path string
	data map[string]Entry
	mu   sync.RWMutex

	now func() time.Time
}

// DefaultPath returns the history file in the user data directory.
func DefaultPath() (string, error) {
	return gap.NewScope(gap.User, "readaloud").DataPath(fileName)
}

// Open loads the store at path, creating its directory. A missing or
// unreadable file starts an empty history.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	s := &Store{
		path: path,
		data: make(map[string]Entry),
		now:  time.Now,
	}
	if err := s.load(); err != nil {
		s.data = make(map[string]Entry)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// ComputeHash identifies a file by the SHA-256 of its first 8 KiB, as 32 hex
// characters.
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	sum := sha256.Sum256(buf[:n])
	return hex.EncodeToString(sum[:16]), nil
}

// Get returns the entry for hash.
func (s *Store) Get(hash string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[hash]
	return e, ok
}

// Put saves the entry for hash, stamping its update time.
func (s *Store) Put(hash string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.UpdatedAt = s.now()
	s.data[hash] = e
	return s.save()
}

// Delete removes the entry for hash.
func (s *Store) Delete(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[hash]; !ok {
		return nil
	}
	delete(s.data, hash)
	return s.save()
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]Entry)
	return s.save()
}

// List returns all entries, most recently updated first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.data))
	for hash, e := range s.data {
		records = append(records, Record{Hash: hash, Entry: e})
	}
	slices.SortFunc(records, func(a, b Record) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Hash, b.Hash)
	})
	return records
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write history: %w", err)
	}
	return os.Rename(tmp, s.path)
}
