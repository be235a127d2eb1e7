package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// InputMsg represents messages that the input pane handles
type InputMsg interface {
	isInputMsg()
}

type InsertTextMsg struct {
	Text string
}

func (InsertTextMsg) isInputMsg() {}

type DeleteBackwardMsg struct{}

func (DeleteBackwardMsg) isInputMsg() {}

type SetTextMsg struct {
	Text string
}

func (SetTextMsg) isInputMsg() {}

type ResizeInputMsg struct {
	Width  int
	Height int
}

func (ResizeInputMsg) isInputMsg() {}

// InputModel holds the pasted or typed text. Editing happens at the end of
// the buffer, which is how the text usually arrives (paste, then fix up).
type InputModel struct {
	Text   string
	Width  int
	Height int
}

// NewInputModel creates an input model with the given text.
func NewInputModel(text string, width, height int) InputModel {
	return InputModel{Text: text, Width: width, Height: height}
}

// Update applies msg and reports whether the text changed.
func (m *InputModel) Update(msg InputMsg) bool {
	switch msg := msg.(type) {
	case InsertTextMsg:
		if msg.Text == "" {
			return false
		}
		m.Text += msg.Text
		return true
	case DeleteBackwardMsg:
		if m.Text == "" {
			return false
		}
		m.Text = dropLastRune(m.Text)
		return true
	case SetTextMsg:
		changed := m.Text != msg.Text
		m.Text = msg.Text
		return changed
	case ResizeInputMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return false
}

func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// visibleTail returns at most maxLines wrapped lines from the end of text.
// Only the tail of the buffer is wrapped so very large inputs stay cheap to
// draw.
func visibleTail(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}

	window := width * maxLines * 4
	if len(text) > window {
		text = text[len(text)-window:]
		// Do not start in the middle of a rune.
		for len(text) > 0 && !utf8.RuneStart(text[0]) {
			text = text[1:]
		}
	}

	lines := WrapText(strings.ReplaceAll(text, "\t", "    "), width)
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// InputView renders the input pane as a pure function
func InputView(model InputModel, focused, editing bool) string {
	borderColor := "62"
	if focused {
		borderColor = "205"
	}
	if editing {
		borderColor = "220"
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Width(model.Width - 2).
		Height(model.Height - 2)

	title := "Input"
	if focused {
		title = "● " + title
	}
	if n := utf8.RuneCountInString(model.Text); n > 0 {
		title += fmt.Sprintf(" (%s chars)", humanize.Comma(int64(n)))
	}

	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n")

	available := model.Height - 4
	if model.Text == "" {
		hint := "Press i to type or p to paste from the clipboard."
		if editing {
			hint = "Type or paste text. Esc to stop editing."
		}
		content.WriteString(lipgloss.NewStyle().Faint(true).Render(hint))
		return style.Render(content.String())
	}

	lines := visibleTail(model.Text, model.Width-6, available)
	if editing && len(lines) > 0 {
		lines[len(lines)-1] += "█"
	}
	content.WriteString(strings.Join(lines, "\n"))

	return style.Render(content.String())
}
