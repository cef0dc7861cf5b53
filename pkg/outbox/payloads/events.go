package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CloseoutFinalizedEvent signals that an event's financials are locked.
type CloseoutFinalizedEvent struct {
	EventID         uuid.UUID       `json:"event_id"`
	VenueID         uuid.UUID       `json:"venue_id"`
	CloseoutAt      time.Time       `json:"closeout_at"`
	MatchedBookings int             `json:"matched_bookings"`
	TotalSpend      decimal.Decimal `json:"total_spend"`
	PayoutCount     int             `json:"payout_count"`
	TotalPayoutOwed decimal.Decimal `json:"total_payout_owed"`
}

// BookingSpendSetEvent records one booking's reconciled spend.
type BookingSpendSetEvent struct {
	BookingID uuid.UUID       `json:"booking_id"`
	EventID   uuid.UUID       `json:"event_id"`
	Spend     decimal.Decimal `json:"spend"`
}

// PayoutRecordedEvent surfaces one promoter's settled amount.
type PayoutRecordedEvent struct {
	PayoutID    uuid.UUID       `json:"payout_id"`
	EventID     uuid.UUID       `json:"event_id"`
	PromoterID  uuid.UUID       `json:"promoter_id"`
	ContractID  uuid.UUID       `json:"contract_id"`
	Checkins    int             `json:"checkins"`
	FinalPayout decimal.Decimal `json:"final_payout"`
}
