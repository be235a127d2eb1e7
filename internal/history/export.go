package history

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/store"
)

// Record is the portable JSON form of a history item. CreatedAt is in Unix
// milliseconds.
type Record struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Output           string            `json:"output"`
	Mode             format.OutputMode `json:"mode"`
	Count            int               `json:"count"`
	CreatedAt        int64             `json:"createdAt"`
	LifeSavedMinutes *float64          `json:"lifeSavedMinutes,omitempty"`
}

// ImportReport summarizes an Import.
type ImportReport struct {
	Imported int
	Skipped  int // malformed or duplicate records
}

// Export writes every item as a JSON array, newest first.
func (m *Manager) Export(w io.Writer) (int, error) {
	items, err := m.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list items: %w", err)
	}

	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = Record{
			ID:               item.ID,
			Name:             item.Name,
			Output:           item.Output,
			Mode:             item.Mode,
			Count:            item.Count,
			CreatedAt:        item.CreatedAt.UnixMilli(),
			LifeSavedMinutes: item.LifeSavedMinutes,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return 0, fmt.Errorf("failed to encode history: %w", err)
	}
	return len(records), nil
}

// Import reads a JSON array written by Export (or by older versions of the
// tool) and stores the well-formed records. Elements with a missing or
// mistyped field are skipped rather than failing the whole import. At most
// Limit() records are read; ids already present are skipped.
func (m *Manager) Import(r io.Reader) (ImportReport, error) {
	var report ImportReport

	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return report, fmt.Errorf("history import must be a JSON array: %w", err)
	}

	hs := m.store.History()
	for _, elem := range raw {
		if report.Imported >= m.limit {
			break
		}

		rec, err := decodeRecord(elem)
		if err != nil {
			m.log.Warn("skipping history record", "error", err)
			report.Skipped++
			continue
		}
		if _, err := hs.Get(rec.ID); err == nil {
			report.Skipped++
			continue
		}

		_, err = hs.Create(&store.CreateHistoryInput{
			ID:               rec.ID,
			Name:             TruncateName(SanitizeName(rec.Name), MaxNameLen),
			Output:           rec.Output,
			Mode:             rec.Mode,
			Count:            rec.Count,
			CreatedAt:        time.UnixMilli(rec.CreatedAt),
			LifeSavedMinutes: rec.LifeSavedMinutes,
		})
		if err != nil {
			return report, fmt.Errorf("failed to store record %s: %w", rec.ID, err)
		}
		report.Imported++
	}

	if err := m.cleanupOldItems(); err != nil {
		return report, fmt.Errorf("failed to cleanup: %w", err)
	}
	return report, nil
}

// Import bounds. Counts must fit any int; timestamps span years 1 to 9999
// in Unix milliseconds.
const (
	maxImportCount = math.MaxInt32
	minCreatedAt   = -62135596800000
	maxCreatedAt   = 253402300799999
)

// decodeRecord checks field types one by one so a single bad record does
// not poison the rest.
func decodeRecord(data json.RawMessage) (*Record, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("record is not an object")
	}

	var rec Record
	var ok bool
	if rec.ID, ok = fields["id"].(string); !ok || rec.ID == "" {
		return nil, fmt.Errorf("field id must be a non-empty string")
	}
	if rec.Name, ok = fields["name"].(string); !ok {
		return nil, fmt.Errorf("record %s: field name must be a string", rec.ID)
	}
	if rec.Output, ok = fields["output"].(string); !ok {
		return nil, fmt.Errorf("record %s: field output must be a string", rec.ID)
	}
	modeName, ok := fields["mode"].(string)
	if !ok {
		return nil, fmt.Errorf("record %s: field mode must be a string", rec.ID)
	}
	mode, err := format.ParseMode(modeName)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	rec.Mode = mode

	count, ok := fields["count"].(float64)
	if !ok || count < 0 || count > maxImportCount || count != math.Trunc(count) {
		return nil, fmt.Errorf("record %s: field count must be an integer in [0, %d]", rec.ID, maxImportCount)
	}
	rec.Count = int(count)

	createdAt, ok := fields["createdAt"].(float64)
	if !ok {
		return nil, fmt.Errorf("record %s: field createdAt must be a number", rec.ID)
	}
	if createdAt < minCreatedAt || createdAt > maxCreatedAt {
		return nil, fmt.Errorf("record %s: field createdAt is out of range", rec.ID)
	}
	rec.CreatedAt = int64(createdAt)

	if v, present := fields["lifeSavedMinutes"]; present && v != nil {
		minutes, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("record %s: field lifeSavedMinutes must be a number", rec.ID)
		}
		rec.LifeSavedMinutes = &minutes
	}

	return &rec, nil
}
