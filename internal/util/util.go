// Package util holds small formatting helpers shared by the mail and storage layers.
package util

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCLP formats a peso amount with Chilean thousands separators, e.g. 57970.5 -> "57.971".
func FormatCLP(amount decimal.Decimal) string {
	digits := amount.Round(0).Abs().String()

	var b strings.Builder
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return b.String()
}

// FormatBytes formats bytes into human readable format.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	const units = "KMGTPEZY"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}
