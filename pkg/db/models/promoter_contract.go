package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/velvethq/velvet-backend/pkg/db/types"
)

// PromoterContract stores the negotiated compensation terms for a promoter on
// one event. Nil pointers mean the compensation mode is not part of the deal,
// which is distinct from a zero value.
type PromoterContract struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID    uuid.UUID `gorm:"column:event_id;type:uuid;not null;index"`
	PromoterID uuid.UUID `gorm:"column:promoter_id;type:uuid;not null"`

	PerHeadRate *decimal.Decimal `gorm:"column:per_head_rate;type:numeric(12,2)"`
	PerHeadMin  *int             `gorm:"column:per_head_min"`
	PerHeadMax  *int             `gorm:"column:per_head_max"`

	FixedFee            *decimal.Decimal `gorm:"column:fixed_fee;type:numeric(12,2)"`
	MinimumGuests       *int             `gorm:"column:minimum_guests"`
	BelowMinimumPercent *decimal.Decimal `gorm:"column:below_minimum_percent;type:numeric(5,2)"`

	BonusThreshold *int                  `gorm:"column:bonus_threshold"`
	BonusAmount    *decimal.Decimal      `gorm:"column:bonus_amount;type:numeric(12,2)"`
	BonusTiers     dbtypes.BonusTierList `gorm:"column:bonus_tiers;type:jsonb"`

	ManualAdjustment *decimal.Decimal `gorm:"column:manual_adjustment;type:numeric(12,2)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
