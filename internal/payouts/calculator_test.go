package payouts

import (
	"testing"

	"github.com/shopspring/decimal"

	dbtypes "github.com/velvethq/velvet-backend/pkg/db/types"
	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func intPtr(v int) *int {
	return &v
}

func TestCalculateRejectsNegativeCount(t *testing.T) {
	_, err := Calculate(Contract{PerHeadRate: decPtr("10")}, -1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidCount {
		t.Fatalf("expected invalid count error, got %v", err)
	}
}

func TestCalculateEmptyContractIsZero(t *testing.T) {
	breakdown, err := Calculate(Contract{}, 40)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.FinalPayout.IsZero() {
		t.Fatalf("no terms set must yield zero, got %s", breakdown.FinalPayout)
	}
	if breakdown.FixedFeePercent != nil {
		t.Fatalf("fixed fee percent must be absent when no fee is set")
	}
}

func TestCalculatePerHeadFloorIsAllOrNothing(t *testing.T) {
	breakdown, err := Calculate(Contract{
		PerHeadRate: decPtr("10"),
		PerHeadMin:  intPtr(5),
	}, 3)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.PerHeadAmount.IsZero() || breakdown.PerHeadCounted != 0 {
		t.Fatalf("below the floor the component is forfeited, got %+v", breakdown)
	}
}

func TestCalculatePerHeadCap(t *testing.T) {
	breakdown, err := Calculate(Contract{
		PerHeadRate: decPtr("10"),
		PerHeadMax:  intPtr(50),
	}, 60)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.PerHeadAmount.Equal(dec("500")) || breakdown.PerHeadCounted != 50 {
		t.Fatalf("expected cap at 50 heads = 500, got %+v", breakdown)
	}
}

func TestCalculateFixedFeeProration(t *testing.T) {
	breakdown, err := Calculate(Contract{
		FixedFee:            decPtr("200"),
		MinimumGuests:       intPtr(20),
		BelowMinimumPercent: decPtr("50"),
	}, 10)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.FixedFeeAmount.Equal(dec("100")) {
		t.Fatalf("expected prorated fee 100, got %s", breakdown.FixedFeeAmount)
	}
	if breakdown.FixedFeePercent == nil || !breakdown.FixedFeePercent.Equal(dec("50")) {
		t.Fatalf("expected applied percent 50, got %v", breakdown.FixedFeePercent)
	}
}

func TestCalculateFixedFeeBelowMinimumDefaultsToFull(t *testing.T) {
	breakdown, err := Calculate(Contract{
		FixedFee:      decPtr("200"),
		MinimumGuests: intPtr(20),
	}, 10)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.FixedFeeAmount.Equal(dec("200")) {
		t.Fatalf("unset percent defaults to 100, got %s", breakdown.FixedFeeAmount)
	}
	if breakdown.FixedFeePercent == nil || !breakdown.FixedFeePercent.Equal(dec("100")) {
		t.Fatalf("expected percent 100, got %v", breakdown.FixedFeePercent)
	}
}

func TestCalculateFixedFeeZeroPercentBelowMinimum(t *testing.T) {
	breakdown, err := Calculate(Contract{
		FixedFee:            decPtr("200"),
		MinimumGuests:       intPtr(20),
		BelowMinimumPercent: decPtr("0"),
	}, 5)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.FixedFeeAmount.IsZero() {
		t.Fatalf("zero percent must forfeit the fee, got %s", breakdown.FixedFeeAmount)
	}
	if breakdown.FixedFeePercent == nil || !breakdown.FixedFeePercent.IsZero() {
		t.Fatalf("expected percent 0 recorded, got %v", breakdown.FixedFeePercent)
	}
	if !breakdown.FinalPayout.IsZero() {
		t.Fatalf("expected zero payout, got %s", breakdown.FinalPayout)
	}
}

func TestCalculateRepeatableBonus(t *testing.T) {
	breakdown, err := Calculate(Contract{
		BonusTiers: []dbtypes.BonusTier{
			{Threshold: 10, Amount: dec("20"), Repeatable: true},
		},
	}, 35)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.BonusAmount.Equal(dec("60")) {
		t.Fatalf("expected 3 × 20 = 60, got %s", breakdown.BonusAmount)
	}
	if len(breakdown.BonusDetails) != 1 || breakdown.BonusDetails[0].TimesEarned != 3 {
		t.Fatalf("expected one detail earned 3 times, got %+v", breakdown.BonusDetails)
	}
}

func TestCalculateTiersFireIndependently(t *testing.T) {
	breakdown, err := Calculate(Contract{
		BonusTiers: []dbtypes.BonusTier{
			{Threshold: 20, Amount: dec("50"), Repeatable: false, Label: "20 heads"},
			{Threshold: 10, Amount: dec("15"), Repeatable: true, Label: "every 10"},
			{Threshold: 100, Amount: dec("500"), Repeatable: false, Label: "sellout"},
		},
	}, 25)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	// milestone 50 + repeatable 2×15; the 100 tier stays silent
	if !breakdown.BonusAmount.Equal(dec("80")) {
		t.Fatalf("expected 80, got %s", breakdown.BonusAmount)
	}
	if len(breakdown.BonusDetails) != 2 {
		t.Fatalf("expected two fired tiers, got %+v", breakdown.BonusDetails)
	}
}

func TestCalculateTiersShadowLegacyBonus(t *testing.T) {
	breakdown, err := Calculate(Contract{
		BonusTiers: []dbtypes.BonusTier{
			{Threshold: 100, Amount: dec("500"), Repeatable: false},
		},
		BonusThreshold: intPtr(5),
		BonusAmount:    decPtr("1000"),
	}, 50)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.BonusAmount.IsZero() {
		t.Fatalf("legacy bonus must be ignored when tiers exist, got %s", breakdown.BonusAmount)
	}
}

func TestCalculateLegacyBonus(t *testing.T) {
	breakdown, err := Calculate(Contract{
		BonusThreshold: intPtr(30),
		BonusAmount:    decPtr("250"),
	}, 30)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.BonusAmount.Equal(dec("250")) {
		t.Fatalf("expected legacy bonus 250, got %s", breakdown.BonusAmount)
	}

	breakdown, err = Calculate(Contract{
		BonusThreshold: intPtr(30),
		BonusAmount:    decPtr("250"),
	}, 29)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}
	if !breakdown.BonusAmount.IsZero() {
		t.Fatalf("below threshold nothing fires, got %s", breakdown.BonusAmount)
	}
}

func TestCalculateEndToEnd(t *testing.T) {
	breakdown, err := Calculate(Contract{
		PerHeadRate: decPtr("5"),
		PerHeadMin:  intPtr(0),
		FixedFee:    decPtr("0"),
		BonusTiers: []dbtypes.BonusTier{
			{Threshold: 20, Amount: dec("50"), Repeatable: false},
		},
		ManualAdjustment: decPtr("-10"),
	}, 25)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	if !breakdown.PerHeadAmount.Equal(dec("125")) {
		t.Fatalf("per-head: want 125, got %s", breakdown.PerHeadAmount)
	}
	if !breakdown.BonusAmount.Equal(dec("50")) {
		t.Fatalf("bonus: want 50, got %s", breakdown.BonusAmount)
	}
	if !breakdown.CalculatedPayout.Equal(dec("175")) {
		t.Fatalf("calculated: want 175, got %s", breakdown.CalculatedPayout)
	}
	if !breakdown.FinalPayout.Equal(dec("165")) {
		t.Fatalf("final: want 165, got %s", breakdown.FinalPayout)
	}
}
