package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WrapText wraps text to fit within a given width, breaking on word boundaries when possible.
// It handles newlines in the input and returns a slice of lines that fit within maxWidth.
// Widths are counted in characters. Height truncation is handled by the caller.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{}
	}

	var result []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if utf8.RuneCountInString(line) <= maxWidth {
			result = append(result, line)
			continue
		}
		result = append(result, wrapLine(line, maxWidth)...)
	}

	return result
}

// wrapLine wraps a single line that is too long, breaking on word boundaries when possible
func wrapLine(line string, maxWidth int) []string {
	var result []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range splitWords(line) {
		runes := []rune(word)

		// Words longer than the line are cut into chunks.
		if len(runes) > maxWidth {
			if currentWidth > 0 {
				result = append(result, currentLine.String())
				currentLine.Reset()
				currentWidth = 0
			}
			for len(runes) > maxWidth {
				result = append(result, string(runes[:maxWidth]))
				runes = runes[maxWidth:]
			}
			currentLine.WriteString(string(runes))
			currentWidth = len(runes)
			continue
		}

		spaceNeeded := len(runes)
		if currentWidth > 0 {
			spaceNeeded++
		}

		if currentWidth+spaceNeeded > maxWidth {
			result = append(result, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
			currentWidth = len(runes)
			continue
		}

		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += len(runes)
	}

	if currentWidth > 0 {
		result = append(result, currentLine.String())
	}

	return result
}

// splitWords splits text on whitespace.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}
