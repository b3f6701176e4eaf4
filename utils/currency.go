package utils

import (
	"fmt"
	"strings"
)

// All internal math uses integer cents. Conversion to a decimal peso
// string happens only here, at the presentation boundary.

// FormatCents formats an amount in cents as a Philippine peso string
// with thousands separators. Example: 1250050 -> "₱12,500.50"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{digits[start:i]}, groups...)
	}

	return fmt.Sprintf("%s₱%s.%02d", sign, strings.Join(groups, ","), frac)
}

// PesosToCents converts an admin-entered decimal peso amount to cents,
// rounding to the nearest centavo.
func PesosToCents(pesos float64) int64 {
	if pesos >= 0 {
		return int64(pesos*100 + 0.5)
	}
	return int64(pesos*100 - 0.5)
}
