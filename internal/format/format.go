// Package format renders extracted values as delimiter-joined output.
package format

import (
	"fmt"
	"strings"
)

// OutputMode selects how values are joined. The set is closed: every switch
// over OutputMode panics on an unknown variant, so adding a mode means
// extending each of them.
type OutputMode int

const (
	// Comma joins values with ",": 1,007,12
	Comma OutputMode = iota
	// QuotedComma wraps each value in single quotes: '1','007','12'
	QuotedComma
)

// Modes returns every output mode in display order.
func Modes() []OutputMode {
	return []OutputMode{Comma, QuotedComma}
}

// Format joins values according to mode. Values are digit strings, so the
// quote character never needs escaping.
func Format(values []string, mode OutputMode) string {
	if len(values) == 0 {
		return ""
	}

	switch mode {
	case Comma:
		return strings.Join(values, ",")
	case QuotedComma:
		var b strings.Builder
		b.Grow(len(values) * 4)
		for i, v := range values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('\'')
			b.WriteString(v)
			b.WriteByte('\'')
		}
		return b.String()
	default:
		panic(unknownMode(mode))
	}
}

// Label returns a short human-readable name for mode.
func Label(mode OutputMode) string {
	switch mode {
	case Comma:
		return "comma-separated"
	case QuotedComma:
		return "comma + single quotes"
	default:
		panic(unknownMode(mode))
	}
}

// String returns the wire name of mode.
func (m OutputMode) String() string {
	switch m {
	case Comma:
		return "comma"
	case QuotedComma:
		return "comma_single_quotes"
	default:
		panic(unknownMode(m))
	}
}

// Valid reports whether m is a known mode.
func (m OutputMode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMode converts a wire name back into a mode.
func ParseMode(s string) (OutputMode, error) {
	for _, m := range Modes() {
		if m.String() == s {
			return m, nil
		}
	}
	return Comma, fmt.Errorf("unknown output mode %q (want comma or comma_single_quotes)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m OutputMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown output mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *OutputMode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Next returns the mode after m, wrapping around.
func Next(m OutputMode) OutputMode {
	modes := Modes()
	for i, known := range modes {
		if known == m {
			return modes[(i+1)%len(modes)]
		}
	}
	panic(unknownMode(m))
}

// VerticalDisplay turns a comma-joined output into one value per line for
// previewing. Quotes from QuotedComma output are kept as they are.
func VerticalDisplay(output string, mode OutputMode) string {
	if output == "" {
		return ""
	}
	if !mode.Valid() {
		panic(unknownMode(mode))
	}
	return strings.ReplaceAll(output, ",", "\n")
}

func unknownMode(m OutputMode) string {
	return fmt.Sprintf("format: unhandled output mode %d", int(m))
}
