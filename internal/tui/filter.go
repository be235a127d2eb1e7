package tui

import "github.com/yiblet/lifesaver/internal/store"

// FilterMsg represents messages that the history filter handles
type FilterMsg interface {
	isFilterMsg()
}

type StartFilterMsg struct{}

func (StartFilterMsg) isFilterMsg() {}

type UpdateFilterMsg struct {
	Query string
}

func (UpdateFilterMsg) isFilterMsg() {}

// AcceptFilterMsg stops typing and keeps the query applied.
type AcceptFilterMsg struct{}

func (AcceptFilterMsg) isFilterMsg() {}

// CancelFilterMsg stops typing and drops the query.
type CancelFilterMsg struct{}

func (CancelFilterMsg) isFilterMsg() {}

// FilterModel holds the fuzzy query applied to the history pane.
type FilterModel struct {
	Query  string
	Active bool // true while the query is being typed
}

func NewFilterModel() FilterModel {
	return FilterModel{}
}

func (f *FilterModel) Update(msg FilterMsg) error {
	switch m := msg.(type) {
	case StartFilterMsg:
		f.Active = true
	case UpdateFilterMsg:
		f.Query = m.Query
	case AcceptFilterMsg:
		f.Active = false
	case CancelFilterMsg:
		f.Active = false
		f.Query = ""
	}
	return nil
}

// Applied reports whether a non-empty query restricts the list.
func (f FilterModel) Applied() bool {
	return f.Query != ""
}

// ApplyFilter returns the items whose name or output fuzzily matches query,
// keeping their order. An empty query returns items unchanged.
func ApplyFilter(items []*store.HistoryItem, query string) []*store.HistoryItem {
	if query == "" {
		return items
	}
	var matched []*store.HistoryItem
	for _, item := range items {
		if item.Matches(query) {
			matched = append(matched, item)
		}
	}
	return matched
}
