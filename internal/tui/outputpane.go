package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/history"
)

// OutputMsg represents messages that the output pane handles
type OutputMsg interface {
	isOutputMsg()
}

type ScrollUpMsg struct{}

func (ScrollUpMsg) isOutputMsg() {}

type ScrollDownMsg struct{}

func (ScrollDownMsg) isOutputMsg() {}

type ScrollToTopMsg struct{}

func (ScrollToTopMsg) isOutputMsg() {}

type ScrollToBottomMsg struct{}

func (ScrollToBottomMsg) isOutputMsg() {}

type PageUpMsg struct{}

func (PageUpMsg) isOutputMsg() {}

type PageDownMsg struct{}

func (PageDownMsg) isOutputMsg() {}

// SetOutputMsg replaces the previewed output. The scroll position resets.
type SetOutputMsg struct {
	Output string
	Mode   format.OutputMode
}

func (SetOutputMsg) isOutputMsg() {}

type ResizeOutputMsg struct {
	Width  int
	Height int
}

func (ResizeOutputMsg) isOutputMsg() {}

// OutputModel holds the vertical preview of the formatted output.
type OutputModel struct {
	Lines   []string
	Width   int
	Height  int
	ViewPos int
}

func NewOutputModel(width, height int) OutputModel {
	return OutputModel{Width: width, Height: height}
}

func (o *OutputModel) Update(msg OutputMsg) error {
	switch m := msg.(type) {
	case ScrollUpMsg:
		if o.ViewPos > 0 {
			o.ViewPos--
		}
	case ScrollDownMsg:
		if o.ViewPos < o.maxScroll() {
			o.ViewPos++
		}
	case ScrollToTopMsg:
		o.ViewPos = 0
	case ScrollToBottomMsg:
		o.ViewPos = o.maxScroll()
	case PageUpMsg:
		o.ViewPos = max(o.ViewPos-o.pageSize(), 0)
	case PageDownMsg:
		o.ViewPos = min(o.ViewPos+o.pageSize(), o.maxScroll())
	case SetOutputMsg:
		o.Lines = nil
		if vertical := format.VerticalDisplay(m.Output, m.Mode); vertical != "" {
			o.Lines = strings.Split(vertical, "\n")
		}
		o.ViewPos = 0
	case ResizeOutputMsg:
		o.Width = m.Width
		o.Height = m.Height
		o.ViewPos = min(o.ViewPos, o.maxScroll())
	}
	return nil
}

// visibleHeight is the number of content lines between the title and the
// bottom border.
func (o OutputModel) visibleHeight() int {
	return max(o.Height-4, 1)
}

func (o OutputModel) pageSize() int {
	return max(o.visibleHeight()/2, 1)
}

func (o OutputModel) maxScroll() int {
	return max(len(o.Lines)-o.visibleHeight(), 0)
}

// OutputView renders the output pane as a pure function
func OutputView(model OutputModel, mode format.OutputMode, focused bool) string {
	borderColor := "62"
	if focused {
		borderColor = "205"
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Width(model.Width - 2).
		Height(model.Height - 2)

	title := "Output"
	if focused {
		title = "● " + title
	}

	available := model.visibleHeight()
	if total := len(model.Lines); total > available {
		top := model.ViewPos + 1
		bottom := min(model.ViewPos+available, total)
		title += fmt.Sprintf(" (%d-%d/%d)", top, bottom, total)
	}

	width := max(model.Width-4, 1)
	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Bold(true).Render(history.TruncateName(title, width)) + "\n")
	content.WriteString(lipgloss.NewStyle().Faint(true).Render(history.TruncateName(format.Label(mode), width)) + "\n")

	if len(model.Lines) == 0 {
		content.WriteString(lipgloss.NewStyle().Faint(true).Render("No digits found yet."))
		return style.Render(content.String())
	}

	end := min(model.ViewPos+available, len(model.Lines))
	for i := model.ViewPos; i < end; i++ {
		line := model.Lines[i]
		if width > 3 && len(line) > width {
			// Values are ASCII digits plus quotes and commas.
			line = line[:width-3] + "..."
		}
		content.WriteString(line)
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	return style.Render(content.String())
}
