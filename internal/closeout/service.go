package closeout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velvethq/velvet-backend/internal/bookings"
	"github.com/velvethq/velvet-backend/internal/contracts"
	"github.com/velvethq/velvet-backend/internal/events"
	"github.com/velvethq/velvet-backend/internal/payouts"
	"github.com/velvethq/velvet-backend/internal/reconciliation"
	"github.com/velvethq/velvet-backend/pkg/config"
	"github.com/velvethq/velvet-backend/pkg/db/models"
	"github.com/velvethq/velvet-backend/pkg/enums"
	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
	"github.com/velvethq/velvet-backend/pkg/logger"
	"github.com/velvethq/velvet-backend/pkg/metrics"
	"github.com/velvethq/velvet-backend/pkg/outbox"
	"github.com/velvethq/velvet-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service drives event settlement: reconciliation previews, payout what-ifs
// and the final apply-and-lock commit.
type Service interface {
	PreviewReconciliation(ctx context.Context, eventID uuid.UUID, input ReconcileInput) (*reconciliation.PreviewResult, error)
	PreviewPayouts(ctx context.Context, eventID uuid.UUID, checkins []CheckinInput) ([]PayoutDTO, error)
	Apply(ctx context.Context, eventID uuid.UUID, input ApplyInput) (*ApplyResult, error)
}

type service struct {
	events    events.Repository
	bookings  bookings.Repository
	contracts contracts.Repository
	outbox    outboxEmitter
	tx        txRunner
	metrics   *metrics.CloseoutMetrics
	logg      *logger.Logger
	cfg       config.CloseoutConfig
}

// NewService wires the closeout service with its collaborators.
func NewService(
	eventsRepo events.Repository,
	bookingsRepo bookings.Repository,
	contractsRepo contracts.Repository,
	emitter outboxEmitter,
	tx txRunner,
	closeoutMetrics *metrics.CloseoutMetrics,
	logg *logger.Logger,
	cfg config.CloseoutConfig,
) (Service, error) {
	if eventsRepo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	if bookingsRepo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if contractsRepo == nil {
		return nil, fmt.Errorf("contracts repository required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		events:    eventsRepo,
		bookings:  bookingsRepo,
		contracts: contractsRepo,
		outbox:    emitter,
		tx:        tx,
		metrics:   closeoutMetrics,
		logg:      logg,
		cfg:       cfg,
	}, nil
}

func (s *service) PreviewReconciliation(ctx context.Context, eventID uuid.UUID, input ReconcileInput) (*reconciliation.PreviewResult, error) {
	started := time.Now()
	result, err := s.runMatcher(ctx, eventID, input)
	s.observe("reconcile", started, err)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveMatchedRows(result.Preview.MatchedCount)
	return result, nil
}

func (s *service) PreviewPayouts(ctx context.Context, eventID uuid.UUID, checkins []CheckinInput) ([]PayoutDTO, error) {
	started := time.Now()
	dtos, err := s.computePayouts(ctx, eventID, checkins)
	s.observe("payout_preview", started, err)
	return dtos, err
}

func (s *service) Apply(ctx context.Context, eventID uuid.UUID, input ApplyInput) (*ApplyResult, error) {
	started := time.Now()
	result, err := s.apply(ctx, eventID, input)
	s.observe("apply", started, err)
	return result, err
}

func (s *service) apply(ctx context.Context, eventID uuid.UUID, input ApplyInput) (*ApplyResult, error) {
	preview, err := s.runMatcher(ctx, eventID, input.ReconcileInput)
	if err != nil {
		return nil, err
	}

	payoutDTOs, err := s.computePayouts(ctx, eventID, input.Checkins)
	if err != nil {
		return nil, err
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	closeoutAt := time.Now().UTC()
	totalSpend := decimal.Zero
	totalOwed := decimal.Zero
	for _, match := range preview.Matches {
		if match.Matched {
			totalSpend = totalSpend.Add(match.CSVSpend)
		}
	}
	for _, dto := range payoutDTOs {
		totalOwed = totalOwed.Add(dto.Breakdown.FinalPayout)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.events.WithTx(tx).FinalizeCloseout(ctx, eventID, closeoutAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize closeout")
		}
		if !locked {
			return pkgerrors.New(pkgerrors.CodeAlreadyClosed, "event closeout already finalized")
		}

		txBookings := s.bookings.WithTx(tx)
		for _, match := range preview.Matches {
			if !match.Matched || match.BookingID == nil {
				continue
			}
			if err := txBookings.SetSpend(ctx, *match.BookingID, match.CSVSpend); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set booking spend")
			}
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventBookingSpendSet,
				AggregateType: enums.AggregateBooking,
				AggregateID:   *match.BookingID,
				Actor:         input.Actor,
				Version:       1,
				Data: payloads.BookingSpendSetEvent{
					BookingID: *match.BookingID,
					EventID:   eventID,
					Spend:     match.CSVSpend,
				},
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit booking spend event")
			}
		}

		txContracts := s.contracts.WithTx(tx)
		for i := range payoutDTOs {
			dto := &payoutDTOs[i]
			breakdownJSON, err := json.Marshal(dto.Breakdown)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode payout breakdown")
			}
			row := &models.PromoterPayout{
				ID:              uuid.New(),
				EventID:         eventID,
				PromoterID:      dto.PromoterID,
				ContractID:      dto.ContractID,
				CheckinsCounted: dto.Checkins,
				FinalPayout:     dto.Breakdown.FinalPayout,
				Breakdown:       breakdownJSON,
			}
			if err := txContracts.CreatePayout(ctx, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payout")
			}
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPayoutRecorded,
				AggregateType: enums.AggregatePromoterPayout,
				AggregateID:   row.ID,
				Actor:         input.Actor,
				Version:       1,
				Data: payloads.PayoutRecordedEvent{
					PayoutID:    row.ID,
					EventID:     eventID,
					PromoterID:  dto.PromoterID,
					ContractID:  dto.ContractID,
					Checkins:    dto.Checkins,
					FinalPayout: dto.Breakdown.FinalPayout,
				},
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit payout event")
			}
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCloseoutFinalized,
			AggregateType: enums.AggregateEvent,
			AggregateID:   eventID,
			Actor:         input.Actor,
			Version:       1,
			Data: payloads.CloseoutFinalizedEvent{
				EventID:         eventID,
				VenueID:         event.VenueID,
				CloseoutAt:      closeoutAt,
				MatchedBookings: preview.Preview.MatchedCount,
				TotalSpend:      totalSpend,
				PayoutCount:     len(payoutDTOs),
				TotalPayoutOwed: totalOwed,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithEventID(ctx, eventID.String())
		s.logg.Info(logCtx, "event closeout finalized")
	}
	s.metrics.ObserveMatchedRows(preview.Preview.MatchedCount)

	return &ApplyResult{
		EventID:         eventID,
		CloseoutAt:      closeoutAt,
		MatchedBookings: preview.Preview.MatchedCount,
		TotalSpend:      totalSpend,
		Payouts:         payoutDTOs,
		TotalPayoutOwed: totalOwed,
	}, nil
}

func (s *service) runMatcher(ctx context.Context, eventID uuid.UUID, input ReconcileInput) (*reconciliation.PreviewResult, error) {
	if s.cfg.MaxCSVRows > 0 && len(input.CSVData) > s.cfg.MaxCSVRows {
		return nil, pkgerrors.
			New(pkgerrors.CodeValidation, "csv export exceeds the allowed row count").
			WithDetails(map[string]any{"max_rows": s.cfg.MaxCSVRows, "got": len(input.CSVData)})
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.bookings.ListReconcilable(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}

	records := make([]reconciliation.BookingRecord, 0, len(eligible))
	for _, booking := range eligible {
		records = append(records, reconciliation.BookingRecord{
			ID:           booking.ID,
			GuestName:    booking.GuestName,
			TableName:    booking.TableName,
			CurrentSpend: booking.CurrentSpend,
			MinimumSpend: booking.MinimumSpend,
		})
	}

	return reconciliation.Preview(reconciliation.PreviewInput{
		CSVData:       input.CSVData,
		ColumnMapping: input.ColumnMapping,
		Bookings:      records,
		CloseoutAt:    event.CloseoutAt,
	})
}

func (s *service) computePayouts(ctx context.Context, eventID uuid.UUID, checkins []CheckinInput) ([]PayoutDTO, error) {
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	eventContracts, err := s.contracts.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contracts")
	}
	byID := make(map[uuid.UUID]*models.PromoterContract, len(eventContracts))
	for i := range eventContracts {
		byID[eventContracts[i].ID] = &eventContracts[i]
	}

	dtos := make([]PayoutDTO, 0, len(checkins))
	for _, entry := range checkins {
		contract, ok := byID[entry.ContractID]
		if !ok {
			return nil, pkgerrors.
				New(pkgerrors.CodeNotFound, "contract not found for event").
				WithDetails(map[string]any{"contract_id": entry.ContractID.String()})
		}
		breakdown, err := payouts.Calculate(contractTerms(contract), entry.Checkins)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, PayoutDTO{
			ContractID: contract.ID,
			PromoterID: contract.PromoterID,
			Checkins:   entry.Checkins,
			Breakdown:  breakdown,
			Summary:    payouts.FormatBreakdown(breakdown, event.CurrencyCode),
		})
	}
	return dtos, nil
}

func (s *service) loadEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func (s *service) observe(operation string, started time.Time, err error) {
	s.metrics.ObserveDuration(operation, time.Since(started))
	if err != nil {
		s.metrics.IncFailure(operation)
		return
	}
	s.metrics.IncSuccess(operation)
}

func contractTerms(contract *models.PromoterContract) payouts.Contract {
	return payouts.Contract{
		PerHeadRate:         contract.PerHeadRate,
		PerHeadMin:          contract.PerHeadMin,
		PerHeadMax:          contract.PerHeadMax,
		FixedFee:            contract.FixedFee,
		MinimumGuests:       contract.MinimumGuests,
		BelowMinimumPercent: contract.BelowMinimumPercent,
		BonusThreshold:      contract.BonusThreshold,
		BonusAmount:         contract.BonusAmount,
		BonusTiers:          contract.BonusTiers,
		ManualAdjustment:    contract.ManualAdjustment,
	}
}
