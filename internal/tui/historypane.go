package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/yiblet/lifesaver/internal/history"
	"github.com/yiblet/lifesaver/internal/store"
)

// HistoryMsg represents messages that the history pane handles
type HistoryMsg interface {
	isHistoryMsg()
}

type NavigateUpMsg struct{}

func (NavigateUpMsg) isHistoryMsg() {}

type NavigateDownMsg struct {
	MaxIndex int // Maximum valid index for bounds checking
}

func (NavigateDownMsg) isHistoryMsg() {}

type GoToTopMsg struct{}

func (GoToTopMsg) isHistoryMsg() {}

type GoToBottomMsg struct {
	MaxIndex int
}

func (GoToBottomMsg) isHistoryMsg() {}

// ClampCursorMsg keeps the cursor inside a list that shrank.
type ClampCursorMsg struct {
	Count int
}

func (ClampCursorMsg) isHistoryMsg() {}

type ResizeHistoryMsg struct {
	Width  int
	Height int
}

func (ResizeHistoryMsg) isHistoryMsg() {}

// HistoryModel holds the cursor over the (possibly filtered) history list.
type HistoryModel struct {
	Cursor int
	Width  int
	Height int
}

func NewHistoryModel(width, height int) HistoryModel {
	return HistoryModel{Width: width, Height: height}
}

func (h *HistoryModel) Update(msg HistoryMsg) error {
	switch m := msg.(type) {
	case NavigateUpMsg:
		if h.Cursor > 0 {
			h.Cursor--
		}
	case NavigateDownMsg:
		if h.Cursor < m.MaxIndex {
			h.Cursor++
		}
	case GoToTopMsg:
		h.Cursor = 0
	case GoToBottomMsg:
		if m.MaxIndex >= 0 {
			h.Cursor = m.MaxIndex
		}
	case ClampCursorMsg:
		if h.Cursor >= m.Count {
			h.Cursor = max(m.Count-1, 0)
		}
	case ResizeHistoryMsg:
		h.Width = m.Width
		h.Height = m.Height
	}
	return nil
}

// HistoryView renders the history pane as a pure function. Each entry takes
// two lines: the name, then age and value count.
func HistoryView(model HistoryModel, items []*store.HistoryItem, filter FilterModel, now time.Time, focused bool) string {
	borderColor := "62"
	if focused {
		borderColor = "205"
		if filter.Active {
			borderColor = "220"
		}
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Width(model.Width - 2).
		Height(model.Height - 2)

	title := fmt.Sprintf("History (%d)", len(items))
	if focused {
		title = "● " + title
	}

	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n")

	if filter.Active || filter.Applied() {
		line := "/" + filter.Query
		if filter.Active {
			line += "█"
		}
		content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render(line))
	}
	content.WriteString("\n")

	if len(items) == 0 {
		empty := "Nothing saved yet."
		if filter.Applied() {
			empty = "No matches."
		}
		content.WriteString(lipgloss.NewStyle().Faint(true).Render(empty))
		return style.Render(content.String())
	}

	width := max(model.Width-4, 1)
	visible := max((model.Height-4)/2, 1)
	start := 0
	if model.Cursor >= visible {
		start = model.Cursor - visible + 1
	}
	end := min(start+visible, len(items))

	faint := lipgloss.NewStyle().Faint(true)
	selected := lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		Width(width)

	for i := start; i < end; i++ {
		item := items[i]
		name := history.TruncateName(item.Name, width)
		meta := fmt.Sprintf("%s · %s values", humanize.RelTime(item.CreatedAt, now, "ago", "from now"), humanize.Comma(int64(item.Count)))
		if utf8.RuneCountInString(meta) > width {
			meta = history.TruncateName(meta, width)
		}

		if i == model.Cursor {
			content.WriteString(selected.Render(name) + "\n")
		} else {
			content.WriteString(name + "\n")
		}
		content.WriteString(faint.Render(meta))
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	return style.Render(content.String())
}
