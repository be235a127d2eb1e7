package dbstore

import (
	"time"

	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/store"
)

// HistoryItemModel represents a history item in the database.
// Mode is stored by its wire name so the table stays readable.
type HistoryItemModel struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Name             string    `gorm:"size:80;not null;index"`
	Output           string    `gorm:"type:text;not null"`
	Mode             string    `gorm:"size:32;not null"`
	Count            int       `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null;index"`
	LifeSavedMinutes *float64
}

// TableName returns the table name for HistoryItemModel
func (HistoryItemModel) TableName() string {
	return "history_items"
}

// ToHistoryItem converts the model, failing on rows whose fields do not
// hold valid values.
func (m *HistoryItemModel) ToHistoryItem() (*store.HistoryItem, error) {
	if m.ID == "" {
		return nil, errMalformed("empty id")
	}
	mode, err := format.ParseMode(m.Mode)
	if err != nil {
		return nil, errMalformed(err.Error())
	}
	if m.Count < 0 {
		return nil, errMalformed("negative count")
	}

	return &store.HistoryItem{
		ID:               m.ID,
		Name:             m.Name,
		Output:           m.Output,
		Mode:             mode,
		Count:            m.Count,
		CreatedAt:        m.CreatedAt,
		LifeSavedMinutes: m.LifeSavedMinutes,
	}, nil
}

// ConfigItemModel represents a configuration key-value pair
type ConfigItemModel struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ConfigItemModel
func (ConfigItemModel) TableName() string {
	return "config"
}

type malformedError string

func (e malformedError) Error() string {
	return "malformed history row: " + string(e)
}

func errMalformed(reason string) error {
	return malformedError(reason)
}
