package payouts

import (
	"strings"
	"testing"

	dbtypes "github.com/velvethq/velvet-backend/pkg/db/types"
	"github.com/velvethq/velvet-backend/pkg/enums"
)

func TestFormatBreakdownFullSummary(t *testing.T) {
	breakdown, err := Calculate(Contract{
		PerHeadRate:   decPtr("5"),
		FixedFee:      decPtr("200"),
		MinimumGuests: intPtr(10),
		BonusTiers: []dbtypes.BonusTier{
			{Threshold: 10, Amount: dec("20"), Repeatable: true, Label: "every 10 heads"},
		},
		ManualAdjustment: decPtr("-15"),
	}, 25)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	summary := FormatBreakdown(breakdown, enums.CurrencyUSD)

	for _, want := range []string{
		"25 check-ins × $5 = $125",
		"Fixed fee: $200 × 100% = $200",
		"every 10 heads: 2 × $20 = $40",
		"Adjustment: -$15",
		"Total: $350",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
	if strings.Count(summary, " | ") != 4 {
		t.Fatalf("expected five segments, got %q", summary)
	}
}

func TestFormatBreakdownOmitsInactiveComponents(t *testing.T) {
	breakdown, err := Calculate(Contract{FixedFee: decPtr("300")}, 0)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	summary := FormatBreakdown(breakdown, enums.CurrencyGBP)
	if strings.Contains(summary, "check-ins") {
		t.Fatalf("inactive per-head must not render: %q", summary)
	}
	if !strings.Contains(summary, "Total: £300") {
		t.Fatalf("expected total segment, got %q", summary)
	}
}

func TestFormatBreakdownForfeitedFixedFee(t *testing.T) {
	contract := Contract{
		FixedFee:            decPtr("200"),
		MinimumGuests:       intPtr(20),
		BelowMinimumPercent: decPtr("0"),
	}
	breakdown, err := Calculate(contract, 5)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.FixedFeeAmount.IsZero() {
		t.Fatalf("expected forfeited fee, got %s", breakdown.FixedFeeAmount)
	}

	summary := FormatBreakdown(breakdown, enums.CurrencyUSD)
	if strings.Contains(summary, "Fixed fee") {
		t.Fatalf("forfeited fee must not render: %q", summary)
	}
	if !strings.Contains(summary, "Total: $0") {
		t.Fatalf("expected zero total, got %q", summary)
	}
}

func TestFormatBreakdownNil(t *testing.T) {
	if got := FormatBreakdown(nil, enums.CurrencyUSD); got != "" {
		t.Fatalf("nil breakdown must render empty, got %q", got)
	}
}
