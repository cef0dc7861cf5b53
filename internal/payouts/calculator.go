package payouts

import (
	"github.com/shopspring/decimal"

	dbtypes "github.com/velvethq/velvet-backend/pkg/db/types"
	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
)

// Contract carries the negotiated compensation terms for one promoter on one
// event. Every field is optional; a nil field disables that compensation mode
// entirely, which is not the same as a zero value.
type Contract struct {
	PerHeadRate         *decimal.Decimal
	PerHeadMin          *int
	PerHeadMax          *int
	FixedFee            *decimal.Decimal
	MinimumGuests       *int
	BelowMinimumPercent *decimal.Decimal
	BonusThreshold      *int
	BonusAmount         *decimal.Decimal
	BonusTiers          []dbtypes.BonusTier
	ManualAdjustment    *decimal.Decimal
}

// BonusDetail records one bonus tier (or the legacy bonus) that fired.
type BonusDetail struct {
	Label       string          `json:"label"`
	Threshold   int             `json:"threshold"`
	Amount      decimal.Decimal `json:"amount"`
	Repeatable  bool            `json:"repeatable"`
	TimesEarned int             `json:"times_earned"`
	Total       decimal.Decimal `json:"total"`
}

// Breakdown is the full accounting of one payout computation. Field names are
// persisted verbatim on the payout record, so they are part of the contract
// with downstream consumers.
type Breakdown struct {
	PerHeadAmount         decimal.Decimal  `json:"per_head_amount"`
	PerHeadCounted        int              `json:"per_head_counted"`
	FixedFeeAmount        decimal.Decimal  `json:"fixed_fee_amount"`
	FixedFeePercent       *decimal.Decimal `json:"fixed_fee_percent_applied,omitempty"`
	BonusAmount           decimal.Decimal  `json:"bonus_amount"`
	BonusDetails          []BonusDetail    `json:"bonus_details"`
	CalculatedPayout      decimal.Decimal  `json:"calculated_payout"`
	ManualAdjustment      decimal.Decimal  `json:"manual_adjustment"`
	FinalPayout           decimal.Decimal  `json:"final_payout"`
	EffectiveCheckinCount int              `json:"effective_checkin_count"`
}

var hundred = decimal.NewFromInt(100)

// Calculate computes a promoter's payout for one event from the contract
// terms and the verified check-in count. It is a pure function with no I/O,
// safe to call repeatedly for what-if previews.
func Calculate(contract Contract, checkins int) (*Breakdown, error) {
	if checkins < 0 {
		return nil, pkgerrors.
			New(pkgerrors.CodeInvalidCount, "check-in count must be non-negative").
			WithDetails(map[string]any{"checkins": checkins})
	}

	breakdown := &Breakdown{
		BonusDetails:          []BonusDetail{},
		EffectiveCheckinCount: checkins,
	}

	if contract.PerHeadRate != nil {
		counted := checkins
		switch {
		case contract.PerHeadMin != nil && counted < *contract.PerHeadMin:
			// Below the floor the whole component is forfeited, not prorated.
			counted = 0
		case contract.PerHeadMax != nil && counted > *contract.PerHeadMax:
			counted = *contract.PerHeadMax
		}
		breakdown.PerHeadCounted = counted
		breakdown.PerHeadAmount = contract.PerHeadRate.Mul(decimal.NewFromInt(int64(counted)))
	}

	if contract.FixedFee != nil {
		percent := hundred
		if contract.MinimumGuests != nil && checkins < *contract.MinimumGuests && contract.BelowMinimumPercent != nil {
			percent = *contract.BelowMinimumPercent
		}
		breakdown.FixedFeePercent = &percent
		breakdown.FixedFeeAmount = contract.FixedFee.Mul(percent).Div(hundred)
	}

	breakdown.BonusAmount, breakdown.BonusDetails = computeBonuses(contract, checkins)

	breakdown.CalculatedPayout = breakdown.PerHeadAmount.
		Add(breakdown.FixedFeeAmount).
		Add(breakdown.BonusAmount)
	if contract.ManualAdjustment != nil {
		breakdown.ManualAdjustment = *contract.ManualAdjustment
	}
	breakdown.FinalPayout = breakdown.CalculatedPayout.Add(breakdown.ManualAdjustment)

	return breakdown, nil
}

// computeBonuses evaluates the bonus component. A non-empty tier list takes
// total precedence over the legacy threshold/amount pair; they are never
// combined.
func computeBonuses(contract Contract, checkins int) (decimal.Decimal, []BonusDetail) {
	total := decimal.Zero
	details := []BonusDetail{}

	if len(contract.BonusTiers) > 0 {
		for _, tier := range contract.BonusTiers {
			if tier.Threshold <= 0 {
				continue
			}
			timesEarned := 0
			if tier.Repeatable {
				timesEarned = checkins / tier.Threshold
			} else if checkins >= tier.Threshold {
				timesEarned = 1
			}
			if timesEarned == 0 {
				continue
			}
			earned := tier.Amount.Mul(decimal.NewFromInt(int64(timesEarned)))
			total = total.Add(earned)
			details = append(details, BonusDetail{
				Label:       tier.Label,
				Threshold:   tier.Threshold,
				Amount:      tier.Amount,
				Repeatable:  tier.Repeatable,
				TimesEarned: timesEarned,
				Total:       earned,
			})
		}
		return total, details
	}

	if contract.BonusThreshold != nil && contract.BonusAmount != nil && checkins >= *contract.BonusThreshold {
		total = *contract.BonusAmount
		details = append(details, BonusDetail{
			Label:       "attendance bonus",
			Threshold:   *contract.BonusThreshold,
			Amount:      *contract.BonusAmount,
			TimesEarned: 1,
			Total:       *contract.BonusAmount,
		})
	}
	return total, details
}
