package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velvethq/velvet-backend/api/middleware"
	"github.com/velvethq/velvet-backend/api/responses"
	"github.com/velvethq/velvet-backend/api/validators"
	closeoutsvc "github.com/velvethq/velvet-backend/internal/closeout"
	"github.com/velvethq/velvet-backend/internal/reconciliation"
	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
	"github.com/velvethq/velvet-backend/pkg/logger"
	"github.com/velvethq/velvet-backend/pkg/outbox"
)

type reconcileRequest struct {
	CSVData       []reconciliation.CSVRow       `json:"csv_data" validate:"required,min=1"`
	ColumnMapping *reconciliation.ColumnMapping `json:"column_mapping,omitempty"`
}

type checkinRequest struct {
	ContractID uuid.UUID `json:"contract_id" validate:"required,uuid4"`
	Checkins   int       `json:"checkins"`
}

type payoutsPreviewRequest struct {
	Checkins []checkinRequest `json:"checkins" validate:"required,min=1,dive"`
}

type applyCloseoutRequest struct {
	CSVData       []reconciliation.CSVRow       `json:"csv_data" validate:"required,min=1"`
	ColumnMapping *reconciliation.ColumnMapping `json:"column_mapping,omitempty"`
	Checkins      []checkinRequest              `json:"checkins" validate:"omitempty,dive"`
}

// ReconcileCloseout previews the CSV-against-bookings match without writing
// anything.
func ReconcileCloseout(svc closeoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "closeout service unavailable"))
			return
		}

		eventID, err := eventIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reconcileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PreviewReconciliation(r.Context(), eventID, closeoutsvc.ReconcileInput{
			CSVData:       payload.CSVData,
			ColumnMapping: payload.ColumnMapping,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PreviewCloseoutPayouts computes each promoter's settlement from verified
// check-in counts without writing anything.
func PreviewCloseoutPayouts(svc closeoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "closeout service unavailable"))
			return
		}

		eventID, err := eventIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload payoutsPreviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payouts, err := svc.PreviewPayouts(r.Context(), eventID, toCheckinInputs(payload.Checkins))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"payouts": payouts})
	}
}

// ApplyCloseout runs the full settlement and locks the event.
func ApplyCloseout(svc closeoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "closeout service unavailable"))
			return
		}

		eventID, err := eventIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCloseoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Apply(r.Context(), eventID, closeoutsvc.ApplyInput{
			ReconcileInput: closeoutsvc.ReconcileInput{
				CSVData:       payload.CSVData,
				ColumnMapping: payload.ColumnMapping,
			},
			Checkins: toCheckinInputs(payload.Checkins),
			Actor:    actorFromContext(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func eventIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "eventId")
	eventID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event id").WithDetails(map[string]any{"event_id": raw})
	}
	return eventID, nil
}

func toCheckinInputs(items []checkinRequest) []closeoutsvc.CheckinInput {
	if len(items) == 0 {
		return nil
	}
	inputs := make([]closeoutsvc.CheckinInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, closeoutsvc.CheckinInput{ContractID: item.ContractID, Checkins: item.Checkins})
	}
	return inputs
}

func actorFromContext(r *http.Request) *outbox.ActorRef {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	actor := &outbox.ActorRef{UserID: userID, Role: middleware.RoleFromContext(r.Context())}
	if venueID, err := uuid.Parse(middleware.VenueIDFromContext(r.Context())); err == nil {
		actor.VenueID = &venueID
	}
	return actor
}
