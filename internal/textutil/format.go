package textutil

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders n with comma thousands separators.
func FormatNumber(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// RoundString rounds f to places decimals and drops trailing zeros, so whole
// numbers print without a fractional part.
func RoundString(f float64, places int) string {
	if places <= 0 {
		return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(Round(f, places), 'f', -1, 64)
}

// Round rounds f half away from zero to the given number of decimal places.
func Round(f float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(f*scale) / scale
}
