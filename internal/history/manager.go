// Package history keeps the list of past extraction results: newest first,
// deduplicated against the top entry and capped at a configurable size.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/lifesaved"
	"github.com/yiblet/lifesaver/internal/store"
)

const (
	DefaultLimit = 500
	MaxNameLen   = 80
)

// ErrEmptyName is returned by Rename when the new name is blank.
var ErrEmptyName = errors.New("name must not be empty")

// Manager applies history rules on top of a store.
type Manager struct {
	store store.Store
	limit int
	log   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewManager creates a manager with the default limit.
func NewManager(s store.Store) *Manager {
	return NewManagerWithLimit(s, DefaultLimit)
}

// NewManagerWithLimit creates a manager keeping at most limit items.
// A limit of 0 or less falls back to DefaultLimit.
func NewManagerWithLimit(s store.Store, limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{
		store: s,
		limit: limit,
		log:   slog.Default().With("component", "history"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Add records an output. Empty output is ignored, and so is an output
// identical (same text and mode) to the newest entry; both return a nil
// item. A blank name is replaced by a timestamped default.
func (m *Manager) Add(output string, mode format.OutputMode, count int, name string) (*store.HistoryItem, error) {
	if output == "" {
		return nil, nil
	}

	top, err := m.store.History().List(1)
	if err != nil {
		return nil, fmt.Errorf("failed to read newest item: %w", err)
	}
	if len(top) > 0 && top[0].Output == output && top[0].Mode == mode {
		m.log.Debug("skipping duplicate of newest item", "id", top[0].ID)
		return nil, nil
	}

	now := m.now()
	name = TruncateName(SanitizeName(name), MaxNameLen)
	if name == "" {
		name = DefaultName(now)
	}
	minutes := lifesaved.Minutes(count)

	item, err := m.store.History().Create(&store.CreateHistoryInput{
		ID:               m.newID(),
		Name:             name,
		Output:           output,
		Mode:             mode,
		Count:            count,
		CreatedAt:        now,
		LifeSavedMinutes: &minutes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store item: %w", err)
	}

	if err := m.cleanupOldItems(); err != nil {
		return nil, fmt.Errorf("failed to cleanup: %w", err)
	}

	m.log.Debug("added history item", "id", item.ID, "count", count, "mode", mode.String())
	return item, nil
}

// List returns all items, newest first.
func (m *Manager) List() ([]*store.HistoryItem, error) {
	return m.store.History().List(m.limit)
}

// Get returns an item by index (0 = newest).
func (m *Manager) Get(index int) (*store.HistoryItem, error) {
	items, err := m.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(items) {
		if len(items) == 0 {
			return nil, fmt.Errorf("index %d out of range (history is empty)", index)
		}
		return nil, fmt.Errorf("index %d out of range (0-%d)", index, len(items)-1)
	}

	return items[index], nil
}

// Find returns an item by ID.
func (m *Manager) Find(id string) (*store.HistoryItem, error) {
	return m.store.History().Get(id)
}

// Rename sets a new display name.
func (m *Manager) Rename(id, name string) error {
	name = TruncateName(SanitizeName(name), MaxNameLen)
	if name == "" {
		return ErrEmptyName
	}
	return m.store.History().Rename(id, name)
}

// Remove deletes an item by ID.
func (m *Manager) Remove(id string) error {
	return m.store.History().Delete(id)
}

// Clear removes all items.
func (m *Manager) Clear() error {
	return m.store.History().Clear()
}

// Size returns the number of stored items.
func (m *Manager) Size() (int, error) {
	return m.store.History().Count()
}

// Search fuzzily filters by name and output. A blank query lists everything.
func (m *Manager) Search(query string, limit int) ([]*store.HistoryItem, error) {
	return m.store.History().Search(&store.SearchQuery{Query: query, Limit: limit})
}

// Limit returns the configured maximum number of items.
func (m *Manager) Limit() int {
	return m.limit
}

// Close releases store resources.
func (m *Manager) Close() error {
	return m.store.Close()
}

// TotalLifeSavedMinutes sums the stored estimates. Items without one are
// estimated from their count.
func TotalLifeSavedMinutes(items []*store.HistoryItem) float64 {
	total := 0.0
	for _, item := range items {
		if item.LifeSavedMinutes != nil {
			total += *item.LifeSavedMinutes
			continue
		}
		total += lifesaved.Minutes(item.Count)
	}
	return total
}

// cleanupOldItems removes items exceeding the limit.
func (m *Manager) cleanupOldItems() error {
	count, err := m.store.History().Count()
	if err != nil {
		return err
	}

	if count > m.limit {
		return m.store.History().DeleteOldest(count - m.limit)
	}

	return nil
}
