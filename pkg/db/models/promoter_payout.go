package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromoterPayout records the computed settlement for one promoter on one
// closed-out event. The breakdown column keeps the full calculation detail
// for later display and audit.
type PromoterPayout struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID    uuid.UUID `gorm:"column:event_id;type:uuid;not null;index"`
	PromoterID uuid.UUID `gorm:"column:promoter_id;type:uuid;not null"`
	ContractID uuid.UUID `gorm:"column:contract_id;type:uuid;not null"`

	CheckinsCounted int             `gorm:"column:checkins_counted;not null"`
	FinalPayout     decimal.Decimal `gorm:"column:final_payout;type:numeric(12,2);not null"`
	Breakdown       json.RawMessage `gorm:"column:breakdown;type:jsonb;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
