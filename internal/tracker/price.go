package tracker

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var priceNoiseRegex = regexp.MustCompile(`[^0-9.]`)

// NormalizePrice converts raw extracted price text into a decimal value.
// Currency symbols, thousands separators and whitespace are stripped as
// noise. When more than one dot survives stripping, the first dot is taken
// as the real decimal separator and later groups are dropped, so
// "1.234.56" degrades to 1.234 instead of failing. Anything that still
// does not parse yields absence (ok=false); this function never fails
// louder than that.
func NormalizePrice(raw string) (decimal.Decimal, bool) {
	cleaned := priceNoiseRegex.ReplaceAllString(raw, "")

	parts := strings.Split(cleaned, ".")
	if len(parts) > 2 {
		cleaned = parts[0] + "." + parts[1]
	}

	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil || value.IsNegative() {
		return decimal.Decimal{}, false
	}
	return value, true
}
