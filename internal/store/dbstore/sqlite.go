package dbstore

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore is a SQLite-backed implementation of store.Store
type SQLiteStore struct {
	db     *gorm.DB
	dbPath string
	log    *slog.Logger
}

// NewSQLiteStore creates a new SQLite-backed store at the specified path.
// It initializes the database schema and sets up default configuration.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithLogger(dbPath, slog.Default())
}

// NewSQLiteStoreWithLogger is NewSQLiteStore with an explicit logger.
func NewSQLiteStoreWithLogger(dbPath string, log *slog.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&HistoryItemModel{}, &ConfigItemModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		log:    log.With("component", "dbstore"),
	}

	if err := s.initDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to init config: %w", err)
	}

	s.log.Debug("opened database", "path", dbPath)
	return s, nil
}

// History returns the history store
func (s *SQLiteStore) History() store.HistoryStore {
	return &sqliteHistoryStore{db: s.db, log: s.log}
}

// Config returns the config store
func (s *SQLiteStore) Config() store.ConfigStore {
	return &sqliteConfigStore{db: s.db}
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// initDefaultConfig sets up default runtime settings
func (s *SQLiteStore) initDefaultConfig() error {
	defaults := map[string]string{
		store.KeyMode:      format.Comma.String(),
		store.KeyDBVersion: "1",
	}

	configStore := s.Config()
	for key, value := range defaults {
		if _, err := configStore.Get(key); err != nil {
			if err := configStore.Set(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// sqliteHistoryStore implements store.HistoryStore using SQLite
type sqliteHistoryStore struct {
	db  *gorm.DB
	log *slog.Logger
}

// Create inserts a new history item
func (s *sqliteHistoryStore) Create(input *store.CreateHistoryInput) (*store.HistoryItem, error) {
	if input.ID == "" {
		return nil, fmt.Errorf("history item id is required")
	}
	if !input.Mode.Valid() {
		return nil, fmt.Errorf("invalid output mode %d", int(input.Mode))
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	model := &HistoryItemModel{
		ID:               input.ID,
		Name:             input.Name,
		Output:           input.Output,
		Mode:             input.Mode.String(),
		Count:            input.Count,
		CreatedAt:        createdAt,
		LifeSavedMinutes: input.LifeSavedMinutes,
	}
	if err := s.db.Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to create history item: %w", err)
	}

	return model.ToHistoryItem()
}

// List returns items ordered newest first, skipping malformed rows.
// Malformed rows do not count toward limit.
func (s *sqliteHistoryStore) List(limit int) ([]*store.HistoryItem, error) {
	if limit <= 0 {
		var models []*HistoryItemModel
		if err := s.db.Order("created_at DESC").Find(&models).Error; err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}
		return s.convert(models), nil
	}

	items := make([]*store.HistoryItem, 0, limit)
	for offset := 0; len(items) < limit; {
		var models []*HistoryItemModel
		err := s.db.Order("created_at DESC").
			Offset(offset).
			Limit(limit).
			Find(&models).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}

		for _, item := range s.convert(models) {
			if len(items) == limit {
				break
			}
			items = append(items, item)
		}

		if len(models) < limit {
			break
		}
		offset += len(models)
	}

	return items, nil
}

// Get retrieves a single item by ID
func (s *sqliteHistoryStore) Get(id string) (*store.HistoryItem, error) {
	var model HistoryItemModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return model.ToHistoryItem()
}

// Rename updates the name of an item
func (s *sqliteHistoryStore) Rename(id, name string) error {
	result := s.db.Model(&HistoryItemModel{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return fmt.Errorf("failed to rename item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// Delete removes an item by ID
func (s *sqliteHistoryStore) Delete(id string) error {
	result := s.db.Delete(&HistoryItemModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// DeleteOldest removes the N oldest items
func (s *sqliteHistoryStore) DeleteOldest(count int) error {
	if count <= 0 {
		return nil
	}

	var ids []string
	err := s.db.Model(&HistoryItemModel{}).
		Order("created_at ASC").
		Limit(count).
		Pluck("id", &ids).Error
	if err != nil {
		return fmt.Errorf("failed to find oldest items: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	if err := s.db.Delete(&HistoryItemModel{}, "id IN ?", ids).Error; err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}

	return nil
}

// Count returns the total number of items
func (s *sqliteHistoryStore) Count() (int, error) {
	var count int64
	if err := s.db.Model(&HistoryItemModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return int(count), nil
}

// Clear removes all items
func (s *sqliteHistoryStore) Clear() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&HistoryItemModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Search fuzzily matches name and output, newest first
func (s *sqliteHistoryStore) Search(query *store.SearchQuery) ([]*store.HistoryItem, error) {
	items, err := s.List(0)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for search: %w", err)
	}

	results := []*store.HistoryItem{}
	for _, item := range items {
		if !item.Matches(query.Query) {
			continue
		}
		results = append(results, item)
		if query.Limit > 0 && len(results) >= query.Limit {
			break
		}
	}

	return results, nil
}

// Close releases any resources
func (s *sqliteHistoryStore) Close() error {
	return nil // No-op, parent store handles DB closing
}

// convert turns rows into items, dropping rows that no longer decode
func (s *sqliteHistoryStore) convert(models []*HistoryItemModel) []*store.HistoryItem {
	items := make([]*store.HistoryItem, 0, len(models))
	for _, model := range models {
		item, err := model.ToHistoryItem()
		if err != nil {
			s.log.Warn("skipping history row", "id", model.ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items
}

// sqliteConfigStore implements store.ConfigStore using SQLite
type sqliteConfigStore struct {
	db *gorm.DB
}

// Get retrieves a configuration value by key
func (s *sqliteConfigStore) Get(key string) (string, error) {
	var model ConfigItemModel
	if err := s.db.First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get config: %w", err)
	}
	return model.Value, nil
}

// Set stores a configuration value (upsert)
func (s *sqliteConfigStore) Set(key, value string) error {
	model := &ConfigItemModel{
		Key:   key,
		Value: value,
	}

	result := s.db.Where("key = ?", key).
		Assign(map[string]interface{}{"value": value, "updated_at": s.db.NowFunc()}).
		FirstOrCreate(model)

	if result.Error != nil {
		return fmt.Errorf("failed to set config: %w", result.Error)
	}

	return nil
}

// List returns all configuration key-value pairs
func (s *sqliteConfigStore) List() (map[string]string, error) {
	var models []ConfigItemModel
	if err := s.db.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list config: %w", err)
	}

	result := make(map[string]string, len(models))
	for _, model := range models {
		result[model.Key] = model.Value
	}

	return result, nil
}

// Delete removes a configuration key
func (s *sqliteConfigStore) Delete(key string) error {
	result := s.db.Delete(&ConfigItemModel{}, "key = ?", key)
	if result.Error != nil {
		return fmt.Errorf("failed to delete config: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
	}
	return nil
}

// Close releases any resources
func (s *sqliteConfigStore) Close() error {
	return nil // No-op, parent store handles DB closing
}
