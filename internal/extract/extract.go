// Package extract pulls runs of ASCII digits out of arbitrary text.
//
// Values are returned as strings in the order they appear, duplicates and
// leading zeros included. Everything that is not '0'-'9' is a separator:
// "-12" yields "12" and "12.34" yields "12" and "34".
package extract

import "unicode/utf8"

// NoLimit disables the character cap. Any negative cap behaves the same.
const NoLimit = -1

// Result is the outcome of one extraction.
type Result struct {
	// Values are the digit runs found in the processed prefix, in order.
	Values []string

	// Truncated reports whether characters past the cap were skipped.
	Truncated bool

	// ProcessedChars is min(TotalChars, cap).
	ProcessedChars int

	// TotalChars is the number of characters (runes) in the input.
	TotalChars int
}

// Count returns the number of extracted values.
func (r Result) Count() int {
	return len(r.Values)
}

// ExtractAll scans the whole text.
func ExtractAll(text string) Result {
	return Extract(text, NoLimit)
}

// Extract scans at most maxChars leading characters of text and returns
// every maximal digit run found there. A run cut by the cap is kept up to
// the cap. A negative maxChars means no cap.
func Extract(text string, maxChars int) Result {
	total := utf8.RuneCountInString(text)
	processed := total
	if maxChars >= 0 && maxChars < total {
		processed = maxChars
	}

	res := Result{
		Values:         []string{},
		Truncated:      processed < total,
		ProcessedChars: processed,
		TotalChars:     total,
	}
	if processed == 0 {
		return res
	}

	// start and end are byte offsets; n counts runes.
	start := -1
	end := len(text)
	n := 0
	for i, r := range text {
		if n == processed {
			end = i
			break
		}
		n++

		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			res.Values = append(res.Values, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		res.Values = append(res.Values, text[start:end])
	}

	return res
}
