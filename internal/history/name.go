package history

import (
	"strings"
	"time"
	"unicode"
)

// DefaultName is the name given to results saved without one.
func DefaultName(t time.Time) string {
	return "Result " + t.Format("2006-01-02 15:04:05")
}

// TruncateName ensures name is at most maxLen characters.
// If truncation is needed, appends "..." to indicate truncation.
func TruncateName(name string, maxLen int) string {
	name = strings.TrimSpace(name)

	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}

	if maxLen < 3 {
		return strings.Repeat(".", maxLen)
	}

	return string(runes[:maxLen-3]) + "..."
}

// SanitizeName removes control characters and collapses whitespace so
// names stay on one line in lists.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)

	return strings.Join(strings.Fields(name), " ")
}
