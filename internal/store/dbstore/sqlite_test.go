package dbstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/store"
)

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	cleanup := func() {
		st.Close()
	}

	return st, cleanup
}

// createItem inserts an item created at base+offset
func createItem(t *testing.T, hs store.HistoryStore, id, name, output string, offset time.Duration) *store.HistoryItem {
	t.Helper()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	minutes := 0.1
	item, err := hs.Create(&store.CreateHistoryInput{
		ID:               id,
		Name:             name,
		Output:           output,
		Mode:             format.Comma,
		Count:            1,
		CreatedAt:        base.Add(offset),
		LifeSavedMinutes: &minutes,
	})
	if err != nil {
		t.Fatalf("Create(%s) failed: %v", id, err)
	}
	return item
}

func TestNewSQLiteStore(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	mode, err := st.Config().Get(store.KeyMode)
	if err != nil {
		t.Fatalf("failed to get mode: %v", err)
	}
	if mode != "comma" {
		t.Errorf("expected mode=comma, got %s", mode)
	}

	version, err := st.Config().Get(store.KeyDBVersion)
	if err != nil {
		t.Fatalf("failed to get db_version: %v", err)
	}
	if version != "1" {
		t.Errorf("expected db_version=1, got %s", version)
	}
}

func TestNewSQLiteStore_KeepsExistingConfig(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := st.Config().Set(store.KeyMode, "comma_single_quotes"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	st.Close()

	st, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()

	mode, _ := st.Config().Get(store.KeyMode)
	if mode != "comma_single_quotes" {
		t.Errorf("mode reset on reopen: got %s", mode)
	}
}

func TestHistoryStore_CreateAndGet(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	created := createItem(t, hs, "id-1", "first", "1,2,3", 0)
	if created.ID != "id-1" || created.Output != "1,2,3" || created.Mode != format.Comma {
		t.Errorf("unexpected created item: %+v", created)
	}

	got, err := hs.Get("id-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("Name = %q, want first", got.Name)
	}
	if got.LifeSavedMinutes == nil || *got.LifeSavedMinutes != 0.1 {
		t.Errorf("LifeSavedMinutes = %v, want 0.1", got.LifeSavedMinutes)
	}
}

func TestHistoryStore_CreateValidates(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	if _, err := hs.Create(&store.CreateHistoryInput{Output: "1"}); err == nil {
		t.Error("expected error for missing id")
	}
	if _, err := hs.Create(&store.CreateHistoryInput{ID: "x", Output: "1", Mode: format.OutputMode(9)}); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestHistoryStore_CreateDefaultsTimestamp(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	before := time.Now().Add(-time.Second)
	item, err := st.History().Create(&store.CreateHistoryInput{ID: "now", Output: "1", Mode: format.Comma, Count: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if item.CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, expected about now", item.CreatedAt)
	}
}

func TestHistoryStore_GetNotFound(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := st.History().Get("missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryStore_ListNewestFirst(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	createItem(t, hs, "a", "oldest", "1", 0)
	createItem(t, hs, "b", "middle", "2", time.Minute)
	createItem(t, hs, "c", "newest", "3", 2*time.Minute)

	items, err := hs.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, id)
		}
	}

	limited, err := hs.List(2)
	if err != nil {
		t.Fatalf("List(2) failed: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "c" {
		t.Errorf("List(2) = %d items, first %v", len(limited), limited)
	}
}

func TestHistoryStore_SkipsMalformedRows(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	createItem(t, hs, "good", "ok", "1", 0)
	bad := []*HistoryItemModel{
		{ID: "bad-mode", Name: "x", Output: "1", Mode: "semicolon", Count: 1, CreatedAt: time.Now()},
		{ID: "bad-count", Name: "y", Output: "1", Mode: "comma", Count: -3, CreatedAt: time.Now()},
	}
	for _, m := range bad {
		if err := st.db.Create(m).Error; err != nil {
			t.Fatalf("raw insert failed: %v", err)
		}
	}

	items, err := hs.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != "good" {
		t.Errorf("expected only the well-formed row, got %d items", len(items))
	}

	if _, err := hs.Get("bad-mode"); err == nil {
		t.Error("expected Get on malformed row to fail")
	}
}

func TestHistoryStore_ListLimitSkipsMalformedNewest(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	createItem(t, hs, "a", "first", "1", 0)
	createItem(t, hs, "b", "second", "2", time.Minute)
	createItem(t, hs, "c", "third", "3", 2*time.Minute)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := []*HistoryItemModel{
		{ID: "bad-mode", Name: "x", Output: "4", Mode: "tab", Count: 1, CreatedAt: base.Add(3 * time.Minute)},
		{ID: "bad-count", Name: "y", Output: "5", Mode: "comma", Count: -1, CreatedAt: base.Add(4 * time.Minute)},
	}
	for _, m := range newer {
		if err := st.db.Create(m).Error; err != nil {
			t.Fatalf("raw insert failed: %v", err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{1, []string{"c"}},
		{2, []string{"c", "b"}},
		{3, []string{"c", "b", "a"}},
		{10, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit %d", tt.limit), func(t *testing.T) {
			items, err := hs.List(tt.limit)
			if err != nil {
				t.Fatalf("List(%d) failed: %v", tt.limit, err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("List(%d) returned %d items, want %d", tt.limit, len(items), len(tt.want))
			}
			for i, id := range tt.want {
				if items[i].ID != id {
					t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, id)
				}
			}
		})
	}
}

func TestHistoryStore_Rename(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	createItem(t, hs, "r", "before", "1", 0)
	if err := hs.Rename("r", "after"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	got, _ := hs.Get("r")
	if got.Name != "after" {
		t.Errorf("Name = %q, want after", got.Name)
	}

	if err := hs.Rename("missing", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryStore_Delete(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	createItem(t, hs, "d", "x", "1", 0)
	if err := hs.Delete("d"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := hs.Delete("d"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestHistoryStore_DeleteOldest(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	for i := 0; i < 5; i++ {
		createItem(t, hs, fmt.Sprintf("item-%d", i), "x", fmt.Sprint(i), time.Duration(i)*time.Minute)
	}

	if err := hs.DeleteOldest(2); err != nil {
		t.Fatalf("DeleteOldest failed: %v", err)
	}

	items, _ := hs.List(0)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[len(items)-1].ID != "item-2" {
		t.Errorf("oldest remaining = %s, want item-2", items[len(items)-1].ID)
	}

	if err := hs.DeleteOldest(10); err != nil {
		t.Fatalf("DeleteOldest(10) failed: %v", err)
	}
	count, _ := hs.Count()
	if count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}
}

func TestHistoryStore_CountAndClear(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	createItem(t, hs, "1", "x", "1", 0)
	createItem(t, hs, "2", "y", "2", time.Second)

	count, err := hs.Count()
	if err != nil || count != 2 {
		t.Fatalf("Count = %d, %v; want 2", count, err)
	}

	if err := hs.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	count, _ = hs.Count()
	if count != 0 {
		t.Errorf("Count after Clear = %d, want 0", count)
	}
}

func TestHistoryStore_Search(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	hs := st.History()

	createItem(t, hs, "1", "invoices", "1001,1002", 0)
	createItem(t, hs, "2", "orders", "77,78", time.Minute)
	createItem(t, hs, "3", "invoices again", "2001", 2*time.Minute)

	results, err := hs.Search(&store.SearchQuery{Query: "inv"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 || results[0].ID != "3" || results[1].ID != "1" {
		t.Errorf("unexpected search results: %d items", len(results))
	}

	results, _ = hs.Search(&store.SearchQuery{Query: "78"})
	if len(results) != 1 || results[0].ID != "2" {
		t.Errorf("expected output match on item 2, got %d items", len(results))
	}

	results, _ = hs.Search(&store.SearchQuery{Query: "", Limit: 1})
	if len(results) != 1 {
		t.Errorf("expected limit 1, got %d", len(results))
	}
}

func TestConfigStore(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()
	cs := st.Config()

	if err := cs.Set("k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cs.Set("k", "v2"); err != nil {
		t.Fatalf("Set (update) failed: %v", err)
	}
	v, err := cs.Get("k")
	if err != nil || v != "v2" {
		t.Errorf("Get = %q, %v; want v2", v, err)
	}

	all, err := cs.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if all["k"] != "v2" || all[store.KeyMode] != "comma" {
		t.Errorf("unexpected config list: %v", all)
	}

	if err := cs.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cs.Get("k"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := cs.Delete("k"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting missing key, got %v", err)
	}
}
