package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const indexFile = "cache.index"

// Values smaller than this are stored uncompressed.
const minCompressSize = 1024

// DiskCache is a persistent cache with optional zstd compression. Entries
// are evicted least recently used first once capacity is reached.
type DiskCache struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskEntry

	mu     sync.Mutex
	stats  Stats
	closed bool
}

type diskEntry struct {
	Key          string
	File         string
	Size         int64 // on disk
	OriginalSize int64
	Created      time.Time
	LastAccess   time.Time
	Compressed   bool
}

// NewDiskCache opens or creates a disk cache in basePath. A compression
// level of 0 stores values as is.
func NewDiskCache(basePath string, capacity int64, compressionLevel int) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		index:    make(map[string]*diskEntry),
		stats:    Stats{Capacity: capacity},
	}

	if compressionLevel > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
	}
	// Entries written with compression stay readable when it is turned off.
	var err error
	dc.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	if err := dc.loadIndex(); err != nil {
		dc.index = make(map[string]*diskEntry)
	}
	for _, e := range dc.index {
		dc.size += e.Size
	}
	return dc, nil
}

// Get reads a value. Missing or corrupt files are dropped from the index.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok || dc.closed {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(dc.basePath, entry.File))
	if err == nil && entry.Compressed {
		data, err = dc.decoder.DecodeAll(data, nil)
	}
	if err != nil {
		dc.remove(key)
		dc.stats.Misses++
		return nil, false
	}

	entry.LastAccess = time.Now()
	dc.stats.Hits++
	return data, true
}

// Put writes a value, evicting older entries to stay within capacity.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.closed {
		return ErrClosed
	}

	data := value
	compressed := false
	if dc.encoder != nil && len(value) > minCompressSize {
		if c := dc.encoder.EncodeAll(value, nil); len(c) < len(value) {
			data = c
			compressed = true
		}
	}

	n := int64(len(data))
	if n > dc.capacity {
		return ErrItemTooLarge
	}
	if _, ok := dc.index[key]; ok {
		dc.remove(key)
	}
	for dc.size+n > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	file := fileName(key)
	if err := writeFileAtomic(filepath.Join(dc.basePath, file), data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	dc.index[key] = &diskEntry{
		Key:          key,
		File:         file,
		Size:         n,
		OriginalSize: int64(len(value)),
		Created:      now,
		LastAccess:   now,
		Compressed:   compressed,
	}
	dc.size += n
	return nil
}

// Delete removes a key.
func (dc *DiskCache) Delete(key string) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.remove(key)
	return nil
}

// Clear removes every entry and saves the empty index.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for key := range dc.index {
		dc.remove(key)
	}
	return dc.saveIndex()
}

// Prune removes entries created before now minus maxAge and returns how many
// were removed.
func (dc *DiskCache) Prune(maxAge time.Duration) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, e := range dc.index {
		if e.Created.Before(cutoff) {
			dc.remove(key)
			removed++
		}
	}
	return removed
}

// Keys returns the cached keys, least recently used first.
func (dc *DiskCache) Keys() []string {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entries := make([]*diskEntry, 0, len(dc.index))
	for _, e := range dc.index {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastAccess.Before(entries[j].LastAccess)
	})

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Size returns the on-disk size of all entries in bytes.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.size
}

// Stats returns cache metrics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	s := dc.stats
	s.Size = dc.size
	s.Items = int64(len(dc.index))
	return s
}

// Close saves the index. The cache cannot be used afterwards.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.closed {
		return nil
	}
	dc.closed = true
	if dc.encoder != nil {
		_ = dc.encoder.Close()
	}
	err := dc.saveIndex()
	dc.decoder.Close()
	return err
}

func (dc *DiskCache) remove(key string) {
	e, ok := dc.index[key]
	if !ok {
		return
	}
	_ = os.Remove(filepath.Join(dc.basePath, e.File))
	dc.size -= e.Size
	delete(dc.index, key)
}

func (dc *DiskCache) evictOldest() {
	var oldest *diskEntry
	for _, e := range dc.index {
		if oldest == nil || e.LastAccess.Before(oldest.LastAccess) {
			oldest = e
		}
	}
	if oldest != nil {
		dc.remove(oldest.Key)
		dc.stats.Evictions++
	}
}

func (dc *DiskCache) loadIndex() error {
	f, err := os.Open(filepath.Join(dc.basePath, indexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	return gob.NewDecoder(f).Decode(&dc.index)
}

func (dc *DiskCache) saveIndex() error {
	path := filepath.Join(dc.basePath, indexFile)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = gob.NewEncoder(f).Encode(dc.index)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16]) + ".cache"
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
