package contracts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvethq/velvet-backend/pkg/db/models"
)

// Repository manages persistence for promoter contracts and their payouts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.PromoterContract, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.PromoterContract, error)
	CreatePayout(ctx context.Context, payout *models.PromoterPayout) error
	ListPayoutsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.PromoterPayout, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a contracts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PromoterContract, error) {
	var contract models.PromoterContract
	if err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.PromoterContract, error) {
	var contracts []models.PromoterContract
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *repository) CreatePayout(ctx context.Context, payout *models.PromoterPayout) error {
	return r.db.WithContext(ctx).Create(payout).Error
}

func (r *repository) ListPayoutsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.PromoterPayout, error) {
	var payouts []models.PromoterPayout
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}
