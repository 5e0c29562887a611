package calc

import (
	"math"
	"strconv"
	"strings"
)

const (
	expUpper = 1e9
	expLower = 1e-7

	expFractionDigits = 6
)

// FormatResult renders a result for the display. Magnitudes above 1e9 or below 1e-7 use
// exponential notation with six fractional digits ("1.234568e10", "5.000000e-8"); everything
// else is rounded to ten fractional digits and printed in its shortest decimal form.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == 0:
		return "0"
	}

	a := math.Abs(v)
	if a > expUpper || a < expLower {
		return formatExponential(v)
	}
	s := strconv.FormatFloat(v, 'f', 10, 64)
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func formatExponential(v float64) string {
	s := strconv.FormatFloat(v, 'e', expFractionDigits, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mant + "e" + strconv.Itoa(n)
}
