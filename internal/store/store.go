// Package store defines the storage interfaces for lifesaver's persistence
// layer: extraction history and small key/value settings.
package store

import "errors"

// ErrNotFound is returned (wrapped) when an item or key does not exist.
var ErrNotFound = errors.New("not found")

// HistoryStore manages saved extraction results.
type HistoryStore interface {
	// Create stores a new history item. The ID is assigned by the caller.
	Create(input *CreateHistoryInput) (*HistoryItem, error)

	// List returns items newest first. A limit of 0 returns everything.
	List(limit int) ([]*HistoryItem, error)

	// Get retrieves a single item by ID.
	Get(id string) (*HistoryItem, error)

	// Rename replaces the name of an item.
	Rename(id, name string) error

	// Delete removes an item by ID.
	Delete(id string) error

	// DeleteOldest removes the count oldest items.
	DeleteOldest(count int) error

	// Count returns the number of stored items.
	Count() (int, error)

	// Clear removes all items.
	Clear() error

	// Search returns items whose name or output fuzzily matches the query,
	// newest first.
	Search(query *SearchQuery) ([]*HistoryItem, error)

	// Close releases any resources.
	Close() error
}

// ConfigStore manages runtime settings as key-value pairs.
type ConfigStore interface {
	// Get retrieves a value. Returns ErrNotFound if the key is missing.
	Get(key string) (string, error)

	// Set stores a value, replacing any previous one.
	Set(key, value string) error

	// List returns all pairs.
	List() (map[string]string, error)

	// Delete removes a key. Returns ErrNotFound if the key is missing.
	Delete(key string) error

	// Close releases any resources.
	Close() error
}

// Store combines both stores and manages their lifecycle as a unit.
type Store interface {
	History() HistoryStore
	Config() ConfigStore
	Close() error
}

// Runtime setting keys kept in the ConfigStore.
const (
	KeyMode      = "mode"
	KeyDBVersion = "db_version"
)
