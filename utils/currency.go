package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrencyIDR formats an amount as Indonesian Rupiah with thousand
// separators. Example: 15000 -> "Rp 15.000".
func FormatCurrencyIDR(amount float64) string {
	rounded := int64(math.Round(amount))
	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	digits := fmt.Sprintf("%d", rounded)
	var groups []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{digits[start:i]}, groups...)
	}

	formatted := "Rp " + strings.Join(groups, ".")
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}
