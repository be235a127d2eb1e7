package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ModalMsg represents messages that the modal component handles
type ModalMsg interface {
	isModalMsg()
}

// ShowModalMsg opens a dialog. With Prompt set the dialog also shows an
// editable line initialised to Input.
type ShowModalMsg struct {
	Title   string
	Content string
	Options string
	Prompt  bool
	Input   string
}

func (ShowModalMsg) isModalMsg() {}

type HideModalMsg struct{}

func (HideModalMsg) isModalMsg() {}

type UpdateModalInputMsg struct {
	Input string
}

func (UpdateModalInputMsg) isModalMsg() {}

// ModalModel holds the state for modal dialogs
type ModalModel struct {
	Active  bool
	Title   string
	Content string
	Options string
	Prompt  bool
	Input   string
	Width   int
	Height  int
}

// NewModalModel creates a new modal model
func NewModalModel() ModalModel {
	return ModalModel{
		Active: false,
		Width:  60,
		Height: 10,
	}
}

// Update handles modal messages
func (m *ModalModel) Update(msg ModalMsg) error {
	switch msg := msg.(type) {
	case ShowModalMsg:
		m.Active = true
		m.Title = msg.Title
		m.Content = msg.Content
		m.Options = msg.Options
		m.Prompt = msg.Prompt
		m.Input = msg.Input
	case UpdateModalInputMsg:
		m.Input = msg.Input
	case HideModalMsg:
		*m = ModalModel{Width: m.Width, Height: m.Height}
	}
	return nil
}

// ModalView renders the modal as a pure function
func ModalView(model ModalModel, backgroundView string, windowWidth, windowHeight int) string {
	if !model.Active {
		return backgroundView
	}

	modalContent := model.Title
	if model.Content != "" {
		modalContent += "\n\n" + model.Content
	}
	if model.Prompt {
		modalContent += "\n\n> " + model.Input + "█"
	}
	if model.Options != "" {
		modalContent += "\n\n" + model.Options
	}

	modalWidth := min(model.Width, windowWidth-4)
	modalHeight := min(model.Height, windowHeight-4)

	borderColor := "9"
	if model.Prompt {
		borderColor = "220"
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1, 2).
		Width(modalWidth).
		Height(modalHeight).
		Align(lipgloss.Center, lipgloss.Center)

	modal := modalStyle.Render(modalContent)
	return overlayCenter(backgroundView, modal, windowWidth, windowHeight)
}

// overlayCenter draws fg over the middle of bg, keeping the background
// visible left and right of it.
func overlayCenter(bg, fg string, windowWidth, windowHeight int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	top := max((windowHeight-len(fgLines))/2, 0)
	left := max((windowWidth-lipgloss.Width(fgLines[0]))/2, 0)

	for i := range bgLines {
		row := i - top
		if row < 0 || row >= len(fgLines) {
			continue
		}
		bgLines[i] = overlayLine(bgLines[i], fgLines[row], left)
	}
	return strings.Join(bgLines, "\n")
}

func overlayLine(bgLine, fgLine string, left int) string {
	var line strings.Builder
	bgWidth := lipgloss.Width(bgLine)
	if left > 0 && bgWidth > 0 {
		line.WriteString(truncateToVisualWidth(bgLine, left))
	}
	line.WriteString(fgLine)
	if end := left + lipgloss.Width(fgLine); end < bgWidth {
		line.WriteString(truncateFromVisualWidth(bgLine, end))
	}
	return line.String()
}

// ShowDeleteConfirmation creates a delete confirmation modal
func ShowDeleteConfirmation(name string) ShowModalMsg {
	return ShowModalMsg{
		Title:   "Delete Entry?",
		Content: fmt.Sprintf("%s\n\nThis removes the entry from history.", name),
		Options: "[Y] Yes, delete    [N] No, cancel",
	}
}

// ShowClearConfirmation asks before wiping every history entry.
func ShowClearConfirmation(count int) ShowModalMsg {
	return ShowModalMsg{
		Title:   "Clear History?",
		Content: fmt.Sprintf("All %s entries will be deleted.", humanize.Comma(int64(count))),
		Options: "[Y] Yes, clear    [N] No, cancel",
	}
}

// ShowRenamePrompt asks for a new name, starting from the current one.
func ShowRenamePrompt(title, current string) ShowModalMsg {
	return ShowModalMsg{
		Title:   title,
		Prompt:  true,
		Input:   current,
		Options: "Enter to save    Esc to cancel",
	}
}

// truncateToVisualWidth truncates a styled string to the specified visual width
func truncateToVisualWidth(s string, targetWidth int) string {
	if targetWidth <= 0 {
		return ""
	}

	currentWidth := 0
	runes := []rune(s)
	inEscape := false
	var result strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Track ANSI escape sequences (they don't count toward visual width)
		if r == '\x1b' {
			inEscape = true
		}

		if inEscape {
			result.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}

		// Count visual width (normal characters count as 1)
		if currentWidth >= targetWidth {
			break
		}

		result.WriteRune(r)
		currentWidth++
	}

	return result.String()
}

// truncateFromVisualWidth returns the portion of a styled string starting from the specified visual position
func truncateFromVisualWidth(s string, startWidth int) string {
	if startWidth <= 0 {
		return s
	}

	currentWidth := 0
	runes := []rune(s)
	inEscape := false
	startIdx := -1
	var pendingEscapes strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Track ANSI escape sequences
		if r == '\x1b' {
			inEscape = true
			if startIdx < 0 {
				pendingEscapes.WriteRune(r)
			}
		} else if inEscape {
			if startIdx < 0 {
				pendingEscapes.WriteRune(r)
			}
			if r == 'm' {
				inEscape = false
			}
		} else {
			// Normal visible character
			if currentWidth >= startWidth && startIdx < 0 {
				startIdx = i
			}
			currentWidth++
		}
	}

	if startIdx < 0 {
		// Start width is beyond the string
		return ""
	}

	// Include any pending escape codes that were before the start
	return pendingEscapes.String() + string(runes[startIdx:])
}
