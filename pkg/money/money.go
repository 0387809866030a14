// Package money converts Brazilian-formatted amounts ("1.234,56") to decimals
// and back.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Pattern matches one amount with optional thousands dots, a decimal comma and
// exactly two decimal digits
var Pattern = regexp.MustCompile(`\b(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}\b`)

// Zero is the textual zero balance
const Zero = "0,00"

// Parse normalizes a localized balance. Blank and "-" mean zero, and anything
// that does not parse is also zero: a single odd cell must not sink a batch.
func Parse(s string) decimal.Decimal {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(s, "R$")
	if s == "" || s == "-" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Float is Parse for callers that want a float64
func Float(s string) float64 {
	return Parse(s).InexactFloat64()
}

// Format renders d as "1.234,56"
func Format(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Last returns the rightmost amount in s, the balance column being the last
// one on RFB statements
func Last(s string) (string, bool) {
	matches := Pattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1], true
}
