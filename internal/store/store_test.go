package store

import (
	"testing"

	"github.com/yiblet/lifesaver/internal/format"
)

func TestHistoryItemMatches(t *testing.T) {
	item := &HistoryItem{
		ID:     "a",
		Name:   "Invoices March",
		Output: "'1001','1002'",
		Mode:   format.QuotedComma,
		Count:  2,
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"inv mar", true},
		{"1002", true},
		{"april", false},
	}
	for _, tt := range tests {
		if got := item.Matches(tt.query); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}
