package bookings

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velvethq/velvet-backend/pkg/db/models"
	"github.com/velvethq/velvet-backend/pkg/enums"
)

// Repository manages persistence for event bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Booking, error)
	ListReconcilable(ctx context.Context, eventID uuid.UUID) ([]models.Booking, error)
	SetSpend(ctx context.Context, id uuid.UUID, spend decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a bookings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListReconcilable returns the event's bookings in a status that participates
// in spend reconciliation.
func (r *repository) ListReconcilable(ctx context.Context, eventID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND status IN ?", eventID, enums.ReconcilableBookingStatuses).
		Order("created_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) SetSpend(ctx context.Context, id uuid.UUID, spend decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("current_spend", spend).Error
}
