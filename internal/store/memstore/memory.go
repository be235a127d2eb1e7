// Package memstore provides an in-memory implementation of the store interfaces.
// This implementation is designed for fast unit testing and does not persist data.
package memstore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yiblet/lifesaver/internal/store"
)

// MemoryStore is an in-memory implementation of store.Store.
// It uses maps for storage and is thread-safe via mutexes.
// Data is not persisted and exists only for the lifetime of the process.
type MemoryStore struct {
	history *memoryHistoryStore
	config  *memoryConfigStore
}

// NewMemoryStore creates a new in-memory store for testing.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		history: newMemoryHistoryStore(),
		config:  newMemoryConfigStore(),
	}
}

// History returns the history store.
func (m *MemoryStore) History() store.HistoryStore {
	return m.history
}

// Config returns the config store.
func (m *MemoryStore) Config() store.ConfigStore {
	return m.config
}

// Close releases resources (no-op for memory store).
func (m *MemoryStore) Close() error {
	return nil
}

// memoryHistoryStore implements store.HistoryStore using an in-memory map.
type memoryHistoryStore struct {
	mu      sync.RWMutex
	items   map[string]*historyEntry
	nextSeq uint64
}

// historyEntry keeps insertion order to break timestamp ties.
type historyEntry struct {
	item store.HistoryItem
	seq  uint64
}

func newMemoryHistoryStore() *memoryHistoryStore {
	return &memoryHistoryStore{
		items: make(map[string]*historyEntry),
	}
}

// Create stores a copy of the input.
func (m *memoryHistoryStore) Create(input *store.CreateHistoryInput) (*store.HistoryItem, error) {
	if input.ID == "" {
		return nil, fmt.Errorf("history item id is required")
	}
	if !input.Mode.Valid() {
		return nil, fmt.Errorf("invalid output mode %d", int(input.Mode))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[input.ID]; exists {
		return nil, fmt.Errorf("item %s already exists", input.ID)
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	entry := &historyEntry{
		item: store.HistoryItem{
			ID:               input.ID,
			Name:             input.Name,
			Output:           input.Output,
			Mode:             input.Mode,
			Count:            input.Count,
			CreatedAt:        createdAt,
			LifeSavedMinutes: input.LifeSavedMinutes,
		},
		seq: m.nextSeq,
	}
	m.nextSeq++
	m.items[input.ID] = entry

	item := entry.item
	return &item, nil
}

// sorted returns entries newest first. Caller holds the lock.
func (m *memoryHistoryStore) sorted() []*historyEntry {
	entries := make([]*historyEntry, 0, len(m.items))
	for _, e := range m.items {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
			return a.item.CreatedAt.After(b.item.CreatedAt)
		}
		return a.seq > b.seq
	})
	return entries
}

// List returns items sorted newest first.
func (m *memoryHistoryStore) List(limit int) ([]*store.HistoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.sorted()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]*store.HistoryItem, len(entries))
	for i, e := range entries {
		item := e.item
		items[i] = &item
	}
	return items, nil
}

// Get retrieves a single item by ID.
func (m *memoryHistoryStore) Get(id string) (*store.HistoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.items[id]
	if !exists {
		return nil, fmt.Errorf("item %s: %w", id, store.ErrNotFound)
	}

	item := entry.item
	return &item, nil
}

// Rename replaces an item's name.
func (m *memoryHistoryStore) Rename(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.items[id]
	if !exists {
		return fmt.Errorf("item %s: %w", id, store.ErrNotFound)
	}
	entry.item.Name = name
	return nil
}

// Delete removes an item by ID.
func (m *memoryHistoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[id]; !exists {
		return fmt.Errorf("item %s: %w", id, store.ErrNotFound)
	}

	delete(m.items, id)
	return nil
}

// DeleteOldest removes the N oldest items.
func (m *memoryHistoryStore) DeleteOldest(count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.sorted()
	for i := 0; i < count && i < len(entries); i++ {
		delete(m.items, entries[len(entries)-1-i].item.ID)
	}
	return nil
}

// Count returns the total number of items.
func (m *memoryHistoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

// Clear removes all items.
func (m *memoryHistoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]*historyEntry)
	return nil
}

// Search returns fuzzy matches on name or output, newest first.
func (m *memoryHistoryStore) Search(query *store.SearchQuery) ([]*store.HistoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := []*store.HistoryItem{}
	for _, e := range m.sorted() {
		item := e.item
		if !item.Matches(query.Query) {
			continue
		}
		results = append(results, &item)
		if query.Limit > 0 && len(results) >= query.Limit {
			break
		}
	}
	return results, nil
}

// Close releases resources (no-op for memory store).
func (m *memoryHistoryStore) Close() error {
	return nil
}

// memoryConfigStore implements store.ConfigStore using an in-memory map.
type memoryConfigStore struct {
	mu     sync.RWMutex
	config map[string]string
}

// newMemoryConfigStore creates a new in-memory config store.
func newMemoryConfigStore() *memoryConfigStore {
	return &memoryConfigStore{
		config: make(map[string]string),
	}
}

// Get retrieves a configuration value by key.
func (m *memoryConfigStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.config[key]
	if !exists {
		return "", fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
	}

	return value, nil
}

// Set stores a configuration value.
func (m *memoryConfigStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config[key] = value
	return nil
}

// List returns a copy of all configuration key-value pairs.
func (m *memoryConfigStore) List() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.config))
	for k, v := range m.config {
		result[k] = v
	}

	return result, nil
}

// Delete removes a configuration key.
func (m *memoryConfigStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.config[key]; !exists {
		return fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
	}

	delete(m.config, key)
	return nil
}

// Close releases resources (no-op for memory store).
func (m *memoryConfigStore) Close() error {
	return nil
}
