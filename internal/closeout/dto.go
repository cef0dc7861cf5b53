package closeout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velvethq/velvet-backend/internal/payouts"
	"github.com/velvethq/velvet-backend/internal/reconciliation"
	"github.com/velvethq/velvet-backend/pkg/outbox"
)

// ReconcileInput carries one matcher run's request data.
type ReconcileInput struct {
	CSVData       []reconciliation.CSVRow
	ColumnMapping *reconciliation.ColumnMapping
}

// CheckinInput attributes a verified check-in count to one promoter contract.
type CheckinInput struct {
	ContractID uuid.UUID `json:"contract_id"`
	Checkins   int       `json:"checkins"`
}

// ApplyInput is everything one apply-and-lock submission needs.
type ApplyInput struct {
	ReconcileInput
	Checkins []CheckinInput
	Actor    *outbox.ActorRef
}

// PayoutDTO is one promoter's computed settlement, with a rendered summary.
type PayoutDTO struct {
	ContractID uuid.UUID          `json:"contract_id"`
	PromoterID uuid.UUID          `json:"promoter_id"`
	Checkins   int                `json:"checkins"`
	Breakdown  *payouts.Breakdown `json:"breakdown"`
	Summary    string             `json:"summary"`
}

// ApplyResult reports what one finalized closeout committed.
type ApplyResult struct {
	EventID         uuid.UUID       `json:"event_id"`
	CloseoutAt      time.Time       `json:"closeout_at"`
	MatchedBookings int             `json:"matched_bookings"`
	TotalSpend      decimal.Decimal `json:"total_spend"`
	Payouts         []PayoutDTO     `json:"payouts"`
	TotalPayoutOwed decimal.Decimal `json:"total_payout_owed"`
}
