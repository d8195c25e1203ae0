package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for stored money values.
const MoneyPlaces = 2

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FormatCurrency renders an amount with thousands separators.
// Example: 1234.5, "USD" -> "$1,234.50"
func FormatCurrency(amount decimal.Decimal, currency string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	parts := strings.SplitN(amount.StringFixed(MoneyPlaces), ".", 2)
	integerPart := parts[0]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return sign + currencySymbol(currency) + strings.Join(groups, ",") + "." + parts[1]
}

func currencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "", "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "IDR":
		return "Rp "
	default:
		return strings.ToUpper(currency) + " "
	}
}
