package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity.
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache is closed")
)

// Level is a cache tier.
type Level int

const (
	// LevelMemory is the in-process tier.
	LevelMemory Level = iota
	// LevelDisk is the persistent tier.
	LevelDisk
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "memory"
	case LevelDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Stats holds cache metrics.
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int64
	Hits      int64
	Misses    int64
	Evictions int64
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config configures a Manager.
type Config struct {
	MemoryCapacity int64  // bytes
	DiskCapacity   int64  // bytes
	DiskPath       string // directory for cache files
	// CompressionLevel is the zstd level; 0 disables compression.
	CompressionLevel int
	// MaxAge drops disk entries older than this when the cache is opened.
	// Zero keeps entries forever.
	MaxAge time.Duration
}

// DefaultConfig returns the default cache configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		MemoryCapacity:   32 * 1024 * 1024,
		DiskCapacity:     512 * 1024 * 1024,
		DiskPath:         dir,
		CompressionLevel: 3,
		MaxAge:           30 * 24 * time.Hour,
	}
}

// Cache is implemented by every tier.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error
	Size() int64
	Stats() Stats
}

// Key derives the cache key of a synthesized sentence.
func Key(text, voice, model string, rate float64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s\x00%s\x00%s\x00%.2f", text, voice, model, rate))
	return hex.EncodeToString(sum[:])
}
