package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velvethq/velvet-backend/pkg/enums"
)

// Booking is one reserved table for an event.
type Booking struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID      uuid.UUID           `gorm:"column:event_id;type:uuid;not null;index"`
	GuestName    string              `gorm:"column:guest_name;not null"`
	TableName    string              `gorm:"column:table_name;not null"`
	Status       enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'pending'"`
	CurrentSpend decimal.Decimal     `gorm:"column:current_spend;type:numeric(12,2);not null;default:0"`
	MinimumSpend decimal.Decimal     `gorm:"column:minimum_spend;type:numeric(12,2);not null;default:0"`
	PartySize    int                 `gorm:"column:party_size;not null;default:0"`
	Notes        *string             `gorm:"column:notes"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
