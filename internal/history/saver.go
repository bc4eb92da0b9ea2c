package history

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSaveInterval is the minimum time between throttled writes.
const DefaultSaveInterval = 2 * time.Second

// Saver throttles writes of a single document's entry. Saves arriving too
// soon after the last write are held until the next allowed save or Flush.
type Saver struct {
	store   *Store
	hash    string
	limiter *rate.Limiter

	mu      sync.Mutex
	pending *Entry
}

// NewSaver returns a Saver writing the entry for hash at most once per
// interval.
func NewSaver(store *Store, hash string, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	return &Saver{
		store:   store,
		hash:    hash,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Save writes e now if the limiter allows it and reports whether it did.
func (s *Saver) Save(e Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.limiter.Allow() {
		s.pending = &e
		return false, nil
	}
	s.pending = nil
	return true, s.store.Put(s.hash, e)
}

// Flush writes a held entry, if any.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil
	}
	e := *s.pending
	s.pending = nil
	return s.store.Put(s.hash, e)
}
