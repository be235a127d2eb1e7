package store

import (
	"time"

	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/fuzzy"
)

// HistoryItem is one saved extraction result.
type HistoryItem struct {
	// ID is a unique identifier (UUID).
	ID string

	// Name is user-provided or generated from the creation time.
	Name string

	// Output is the formatted string that was produced.
	Output string

	// Mode is the output mode Output was rendered with.
	Mode format.OutputMode

	// Count is the number of extracted values.
	Count int

	// CreatedAt orders the history, newest first.
	CreatedAt time.Time

	// LifeSavedMinutes is the estimate stored at creation. Records imported
	// from older exports may lack it.
	LifeSavedMinutes *float64
}

// Matches reports whether the item's name or output fuzzily matches query.
func (h *HistoryItem) Matches(query string) bool {
	return fuzzy.MatchAny(query, h.Name, h.Output)
}

// CreateHistoryInput contains the data needed to create a history item.
type CreateHistoryInput struct {
	ID               string
	Name             string
	Output           string
	Mode             format.OutputMode
	Count            int
	CreatedAt        time.Time // zero means now
	LifeSavedMinutes *float64
}

// SearchQuery contains parameters for searching history items.
type SearchQuery struct {
	// Query is matched fuzzily against name and output.
	Query string

	// Limit caps the result count. 0 means no limit.
	Limit int
}
