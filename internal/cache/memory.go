package cache

import (
	"context"
	"sync"
	"time"

	"github.com/orgball2608/insta-downloader/internal/domain"
)

type memoryEntry struct {
	content   *domain.Content
	expiresAt time.Time
}

// Memory is an in-process Store. Entries are shared by pointer, so callers
// must treat returned content as read-only.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

var (
	_ Store   = (*Memory)(nil)
	_ Janitor = (*Memory)(nil)
)

// NewMemory creates a store holding at most maxEntries items; zero or less
// means unbounded.
func NewMemory(maxEntries int) *Memory {
	return &Memory{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (*domain.Content, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return entry.content, true, nil
}

func (m *Memory) Set(_ context.Context, key string, content *domain.Content, ttl time.Duration) error {
	if content == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists {
		m.evictLocked()
	}
	m.entries[key] = memoryEntry{content: content, expiresAt: m.now().Add(ttl)}
	return nil
}

// Cleanup drops expired entries and reports how many were removed.
func (m *Memory) Cleanup(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var removed int64
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictLocked makes room for one more entry: expired entries go first, then
// the ones closest to expiry.
func (m *Memory) evictLocked() {
	if m.maxEntries <= 0 || len(m.entries) < m.maxEntries {
		return
	}

	now := m.now()
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}

	for len(m.entries) >= m.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for key, entry := range m.entries {
			if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
				oldestKey, oldestAt = key, entry.expiresAt
			}
		}
		delete(m.entries, oldestKey)
	}
}
