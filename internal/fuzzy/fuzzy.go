// Package fuzzy implements the loose matcher used to filter history.
package fuzzy

import "strings"

// Match reports whether every character of query appears in text in the
// same order, ignoring case. A blank query matches everything.
func Match(query, text string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	t := strings.ToLower(text)

	pos := 0
	for _, r := range q {
		idx := strings.IndexRune(t[pos:], r)
		if idx < 0 {
			return false
		}
		pos += idx + len(string(r))
	}
	return true
}

// MatchAny reports whether query matches any of the fields.
func MatchAny(query string, fields ...string) bool {
	for _, f := range fields {
		if Match(query, f) {
			return true
		}
	}
	return false
}
