// Package lifesaved estimates how much manual work an extraction saved.
package lifesaved

import (
	"fmt"
	"math"
	"strconv"
)

// SecondsPerValue is the time a person needs to copy, format and paste one
// value by hand.
const SecondsPerValue = 3

// Minutes returns the minutes saved for count extracted values, rounded to
// one decimal.
func Minutes(count int) float64 {
	if count <= 0 {
		return 0
	}
	seconds := count * SecondsPerValue
	return tenths(float64(seconds*10) / 60)
}

// FormatMinutes renders a per-result figure. Zero or negative yields "".
func FormatMinutes(minutes float64) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 0.1 {
		return "saved less than 0.1 minutes of life"
	}
	return fmt.Sprintf("saved %s minutes of life", trim(minutes))
}

// FormatTotalHours renders an accumulated figure in hours.
func FormatTotalHours(totalMinutes float64) string {
	if totalMinutes <= 0 {
		return ""
	}
	hours := tenths(totalMinutes * 10 / 60)
	if hours < 0.1 {
		return "less than 0.1 hours saved in total"
	}
	return fmt.Sprintf("%s hours saved in total", trim(hours))
}

// tenths rounds a value already scaled by ten and scales it back.
func tenths(scaled float64) float64 {
	return math.Round(scaled) / 10
}

// trim prints 1.0 as "1" and 1.5 as "1.5".
func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
