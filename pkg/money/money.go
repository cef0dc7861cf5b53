package money

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velvethq/velvet-backend/pkg/enums"
)

var symbolByCurrency = map[enums.Currency]string{
	enums.CurrencyUSD: "$",
	enums.CurrencyEUR: "€",
	enums.CurrencyGBP: "£",
}

// Format renders an amount with zero decimal places for human-facing summaries,
// e.g. Format(USD, 12500.75) -> "$12,501". Currencies without a dedicated
// symbol fall back to "CODE 12,501".
func Format(code enums.Currency, amount decimal.Decimal) string {
	rendered := group(amount.Round(0).StringFixed(0))
	if symbol, ok := symbolByCurrency[code]; ok {
		return symbol + rendered
	}
	return string(code) + " " + rendered
}

func group(digits string) string {
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
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

	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// ParseLenient extracts a decimal amount from a raw spreadsheet cell. Every
// character except digits, dots and minus signs is dropped before parsing;
// empty or non-numeric leftovers yield zero rather than an error. Callers that
// need strict validation must pre-validate the cell themselves.
func ParseLenient(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}
