package cache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Manager layers a MemoryCache over a DiskCache. Disk hits are promoted to
// memory.
type Manager struct {
	memory *MemoryCache
	disk   *DiskCache
	logger *log.Logger

	mu             sync.Mutex
	memoryHits     int64
	diskHits       int64
	misses         int64
	promotionFails int64
}

// NewManager opens the cache tiers described by config.
func NewManager(config Config, logger *log.Logger) (*Manager, error) {
	if config.DiskPath == "" {
		return nil, errors.New("cache directory is required")
	}
	if logger == nil {
		logger = log.Default()
	}

	disk, err := NewDiskCache(config.DiskPath, config.DiskCapacity, config.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open disk cache: %w", err)
	}
	m := &Manager{
		memory: NewMemoryCache(config.MemoryCapacity),
		disk:   disk,
		logger: logger.WithPrefix("cache"),
	}
	if config.MaxAge > 0 {
		if n := disk.Prune(config.MaxAge); n > 0 {
			m.logger.Debug("pruned expired audio", "entries", n)
		}
	}
	return m, nil
}

// Get looks a key up in memory, then on disk.
func (m *Manager) Get(key string) ([]byte, bool) {
	if data, ok := m.memory.Get(key); ok {
		m.count(&m.memoryHits)
		return data, true
	}
	if data, ok := m.disk.Get(key); ok {
		m.count(&m.diskHits)
		if err := m.memory.Put(key, data); err != nil {
			m.count(&m.promotionFails)
		}
		return data, true
	}
	m.count(&m.misses)
	return nil, false
}

// Put stores a value in both tiers. A value too large for memory is still
// written to disk.
func (m *Manager) Put(key string, value []byte) error {
	if err := m.memory.Put(key, value); err != nil && !errors.Is(err, ErrItemTooLarge) {
		return fmt.Errorf("memory cache: %w", err)
	}
	if err := m.disk.Put(key, value); err != nil {
		return fmt.Errorf("disk cache: %w", err)
	}
	return nil
}

// Delete removes a key from both tiers.
func (m *Manager) Delete(key string) error {
	_ = m.memory.Delete(key)
	return m.disk.Delete(key)
}

// Clear empties both tiers.
func (m *Manager) Clear() error {
	_ = m.memory.Clear()
	return m.disk.Clear()
}

// Size returns the disk footprint in bytes.
func (m *Manager) Size() int64 {
	return m.disk.Size()
}

// Stats returns combined metrics.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.disk.Stats()
	return Stats{
		Capacity:  d.Capacity,
		Size:      d.Size,
		Items:     d.Items,
		Hits:      m.memoryHits + m.diskHits,
		Misses:    m.misses,
		Evictions: d.Evictions + m.memory.Stats().Evictions,
	}
}

// LevelStats returns the metrics of a single tier.
func (m *Manager) LevelStats(level Level) Stats {
	if level == LevelMemory {
		return m.memory.Stats()
	}
	return m.disk.Stats()
}

// Close persists the disk index.
func (m *Manager) Close() error {
	return m.disk.Close()
}

func (m *Manager) count(n *int64) {
	m.mu.Lock()
	*n++
	m.mu.Unlock()
}
