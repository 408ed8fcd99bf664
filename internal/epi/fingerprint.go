package epi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Repeat is the fingerprint of an empty value set.
const Repeat = "REPEAT"

// Fingerprint builds the output folder key for a set of adjustable values,
// e.g. [0.3 0.5] -> "0i3v0i5". With withIndex the repeat index is appended
// as "x%03d".
func Fingerprint(values []float64, index int, withIndex bool) string {
	key := Repeat
	if len(values) > 0 {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = strings.ReplaceAll(formatValue(v), ".", "i")
		}
		key = strings.Join(parts, "v")
	}
	if withIndex {
		return fmt.Sprintf("%sx%03d", key, index)
	}
	return key
}

// formatValue prints whole numbers of any size as "N.0" (negative zero is
// "0.0") and everything else in the shortest form that round trips.
func formatValue(v float64) string {
	if v == 0 {
		return "0.0"
	}
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 0, 64) + ".0"
	}
	if math.Abs(v) < 1e-4 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
