package payouts

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velvethq/velvet-backend/pkg/enums"
	"github.com/velvethq/velvet-backend/pkg/money"
)

// FormatBreakdown renders a breakdown as a human-readable summary, one
// segment per active component joined by " | ". It is presentation only and
// never feeds back into the numbers.
func FormatBreakdown(breakdown *Breakdown, currency enums.Currency) string {
	if breakdown == nil {
		return ""
	}

	parts := []string{}

	if breakdown.PerHeadCounted > 0 {
		rate := breakdown.PerHeadAmount.Div(decimal.NewFromInt(int64(breakdown.PerHeadCounted)))
		parts = append(parts, fmt.Sprintf("%d check-ins × %s = %s",
			breakdown.PerHeadCounted,
			money.Format(currency, rate),
			money.Format(currency, breakdown.PerHeadAmount)))
	}

	// A zero percent means the fee was forfeited below the minimum; the
	// component contributes nothing and the base fee is not recoverable from
	// the breakdown, so the segment is omitted like any inactive component.
	if breakdown.FixedFeePercent != nil && !breakdown.FixedFeePercent.IsZero() {
		parts = append(parts, fmt.Sprintf("Fixed fee: %s × %s%% = %s",
			money.Format(currency, breakdown.FixedFeeAmount.Mul(hundred).Div(*breakdown.FixedFeePercent)),
			breakdown.FixedFeePercent.String(),
			money.Format(currency, breakdown.FixedFeeAmount)))
	}

	for _, detail := range breakdown.BonusDetails {
		label := detail.Label
		if label == "" {
			label = "Bonus"
		}
		if detail.Repeatable && detail.TimesEarned > 1 {
			parts = append(parts, fmt.Sprintf("%s: %d × %s = %s",
				label, detail.TimesEarned,
				money.Format(currency, detail.Amount),
				money.Format(currency, detail.Total)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, money.Format(currency, detail.Total)))
	}

	if !breakdown.ManualAdjustment.IsZero() {
		sign := "+"
		if breakdown.ManualAdjustment.IsNegative() {
			sign = "-"
		}
		parts = append(parts, fmt.Sprintf("Adjustment: %s%s",
			sign, money.Format(currency, breakdown.ManualAdjustment.Abs())))
	}

	parts = append(parts, fmt.Sprintf("Total: %s", money.Format(currency, breakdown.FinalPayout)))

	return strings.Join(parts, " | ")
}
