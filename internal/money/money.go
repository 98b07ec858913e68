// Package money renders amounts for receipts and reports: currency symbol,
// thousands grouping, and decimals only when the amount has them.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders an amount like "Rs 1,089" or "Rs 4.5". Whole amounts drop
// the fraction entirely; fractional amounts keep up to two digits with
// trailing zeros trimmed.
func Format(symbol string, amount float64) string {

	negative := amount < 0
	abs := math.Abs(amount)

	// Round to cents first so 4.999 groups as 5, not 4.99.
	abs = math.Round(abs*100) / 100

	whole := math.Trunc(abs)
	fraction := abs - whole

	formatted := group(strconv.FormatFloat(whole, 'f', 0, 64))

	if fraction > 0 {
		frac := strconv.FormatFloat(fraction, 'f', 2, 64)
		frac = strings.TrimPrefix(frac, "0.")
		frac = strings.TrimRight(frac, "0")

		if frac != "" {
			formatted = formatted + "." + frac
		}
	}

	if negative && abs > 0 {
		return fmt.Sprintf("-%s %s", symbol, formatted)
	}

	return fmt.Sprintf("%s %s", symbol, formatted)
}

// group inserts a comma every three digits from the right.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
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

	return b.String()
}
