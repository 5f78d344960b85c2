package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var euroPrinter = message.NewPrinter(language.Spanish)

// FormatEuro renders v as "X,XX€" using Spanish number formatting.
func FormatEuro(v float64) string {
	return euroPrinter.Sprint(number.Decimal(RoundMoney(v), number.Scale(2))) + "€"
}

// RoundMoney rounds v half-up to cents.
func RoundMoney(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ParseNumber coerces raw form input to a number the way a browser's
// parseFloat does: the leading decimal literal counts and the rest is
// ignored, so "12abc" is 12. Empty or non-numeric input and non-finite
// values give 0. A comma decimal separator is accepted.
func ParseNumber(raw string) float64 {
	v, _, ok := parse(raw)
	if !ok {
		return 0
	}
	return v
}

// IsNumber reports whether the whole of raw is a finite decimal number.
func IsNumber(raw string) bool {
	_, whole, ok := parse(raw)
	return ok && whole
}

// ParseNumbers applies ParseNumber to every entry.
func ParseNumbers(raw []string) []float64 {
	out := make([]float64, len(raw))
	for i, s := range raw {
		out[i] = ParseNumber(s)
	}
	return out
}

// parse reads the leading decimal literal of raw. whole reports whether the
// literal is all of the trimmed input. Hex floats, underscores and "Inf"
// spellings are never a literal here.
func parse(raw string) (v float64, whole, ok bool) {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	lit := decimalPrefix(s)
	if lit == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, false
	}
	return v, len(lit) == len(s), true
}

// decimalPrefix returns the longest prefix of s shaped like
// [+-]digits[.digits][(e|E)[+-]digits] with at least one mantissa digit.
func decimalPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return s[:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// PeriodCounts returns the number of power and energy periods billed by an
// electricity access tariff.
func PeriodCounts(tariffType string) (power, energy int) {
	if tariffType == "2.0" {
		return 2, 3
	}
	return 6, 6
}
