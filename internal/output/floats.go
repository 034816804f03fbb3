package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoundFloat rounds to 6 decimal places.
func RoundFloat(f float64) float64 {
	const multiplier = 1e6
	return math.Round(f*multiplier) / multiplier
}

// FormatFloat formats a float with no trailing zeros
func FormatFloat(f float64) string {
	str := strconv.FormatFloat(RoundFloat(f), 'f', 6, 64)
	str = strings.TrimRight(str, "0")
	return strings.TrimRight(str, ".")
}

// Fixed1 formats with exactly one decimal place ("12.5").
func Fixed1(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// Percent formats a ratio as a whole percentage ("40%").
func Percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}
