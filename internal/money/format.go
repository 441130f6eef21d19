// internal/money/format.go

// Package money formats rupee amounts the way Indian readers expect them.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders amount as whole rupees with locale grouping, e.g. ₹50,000.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "₹" + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

// FormatCount renders a plain number with locale grouping.
func FormatCount(n float64) string {
	return printer.Sprint(number.Decimal(n, number.MaxFractionDigits(1)))
}
