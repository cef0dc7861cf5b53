package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/velvethq/velvet-backend/pkg/enums"
)

// Event captures one night at a venue, including its closeout lock.
type Event struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VenueID      uuid.UUID         `gorm:"column:venue_id;type:uuid;not null"`
	Name         string            `gorm:"column:name;not null"`
	Status       enums.EventStatus `gorm:"column:status;type:event_status;not null;default:'draft'"`
	CurrencyCode enums.Currency    `gorm:"column:currency_code;not null;default:'USD'"`
	Tags         pq.StringArray    `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	StartsAt     time.Time         `gorm:"column:starts_at;not null"`
	EndsAt       *time.Time        `gorm:"column:ends_at"`
	CloseoutAt   *time.Time        `gorm:"column:closeout_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// IsClosedOut reports whether this event's financials are locked.
func (e *Event) IsClosedOut() bool {
	return e != nil && e.CloseoutAt != nil
}
