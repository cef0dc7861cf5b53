package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velvethq/velvet-backend/api/middleware"
	closeoutsvc "github.com/velvethq/velvet-backend/internal/closeout"
	"github.com/velvethq/velvet-backend/internal/reconciliation"
	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
)

type stubCloseoutService struct {
	preview       *reconciliation.PreviewResult
	previewErr    error
	payouts       []closeoutsvc.PayoutDTO
	payoutsErr    error
	applied       *closeoutsvc.ApplyResult
	applyErr      error
	gotEventID    uuid.UUID
	gotApplyInput closeoutsvc.ApplyInput
}

func (s *stubCloseoutService) PreviewReconciliation(ctx context.Context, eventID uuid.UUID, input closeoutsvc.ReconcileInput) (*reconciliation.PreviewResult, error) {
	s.gotEventID = eventID
	return s.preview, s.previewErr
}

func (s *stubCloseoutService) PreviewPayouts(ctx context.Context, eventID uuid.UUID, checkins []closeoutsvc.CheckinInput) ([]closeoutsvc.PayoutDTO, error) {
	s.gotEventID = eventID
	return s.payouts, s.payoutsErr
}

func (s *stubCloseoutService) Apply(ctx context.Context, eventID uuid.UUID, input closeoutsvc.ApplyInput) (*closeoutsvc.ApplyResult, error) {
	s.gotEventID = eventID
	s.gotApplyInput = input
	return s.applied, s.applyErr
}

func closeoutRequest(t *testing.T, method, path, eventID string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("eventId", eventID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestReconcileCloseoutSuccess(t *testing.T) {
	eventID := uuid.New()
	svc := &stubCloseoutService{preview: &reconciliation.PreviewResult{
		Preview:       reconciliation.PreviewSummary{TotalCSVRows: 2, MatchedCount: 1, UnmatchedCSVRows: 1, UnmatchedBookings: 1},
		ColumnMapping: reconciliation.ColumnMapping{TableNameColumn: "table_name", SpendColumn: "spend"},
	}}
	handler := ReconcileCloseout(svc, nil)

	body := map[string]any{
		"csv_data": []map[string]string{{"table_name": "Table 1", "spend": "500"}},
	}
	req := closeoutRequest(t, http.MethodPost, "/api/v1/events/"+eventID.String()+"/closeout/reconcile", eventID.String(), body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotEventID != eventID {
		t.Fatalf("expected event id %s got %s", eventID, svc.gotEventID)
	}

	var envelope struct {
		Data struct {
			Preview map[string]int `json:"preview"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := map[string]int{
		"total_csv_rows":     2,
		"matched_count":      1,
		"unmatched_csv_rows": 1,
		"unmatched_bookings": 1,
	}
	for key, count := range want {
		got, ok := envelope.Data.Preview[key]
		if !ok {
			t.Fatalf("preview summary missing %q: %v", key, envelope.Data.Preview)
		}
		if got != count {
			t.Fatalf("preview %s: expected %d got %d", key, count, got)
		}
	}
}

func TestReconcileCloseoutInvalidEventID(t *testing.T) {
	handler := ReconcileCloseout(&stubCloseoutService{}, nil)
	body := map[string]any{"csv_data": []map[string]string{{"table_name": "Table 1"}}}
	req := closeoutRequest(t, http.MethodPost, "/api/v1/events/not-a-uuid/closeout/reconcile", "not-a-uuid", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestReconcileCloseoutRejectsEmptyBody(t *testing.T) {
	handler := ReconcileCloseout(&stubCloseoutService{}, nil)
	req := closeoutRequest(t, http.MethodPost, "/closeout/reconcile", uuid.NewString(), map[string]any{"csv_data": []map[string]string{}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestReconcileCloseoutClosedEventConflict(t *testing.T) {
	svc := &stubCloseoutService{previewErr: pkgerrors.New(pkgerrors.CodeAlreadyClosed, "event closeout already finalized")}
	handler := ReconcileCloseout(svc, nil)
	body := map[string]any{"csv_data": []map[string]string{{"table_name": "Table 1", "spend": "1"}}}
	req := closeoutRequest(t, http.MethodPost, "/closeout/reconcile", uuid.NewString(), body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestPreviewCloseoutPayoutsSuccess(t *testing.T) {
	eventID := uuid.New()
	contractID := uuid.New()
	svc := &stubCloseoutService{payouts: []closeoutsvc.PayoutDTO{{
		ContractID: contractID,
		PromoterID: uuid.New(),
		Checkins:   25,
		Summary:    "Total: $125",
	}}}
	handler := PreviewCloseoutPayouts(svc, nil)

	body := map[string]any{"checkins": []map[string]any{{"contract_id": contractID.String(), "checkins": 25}}}
	req := closeoutRequest(t, http.MethodPost, "/closeout/payouts/preview", eventID.String(), body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Payouts []closeoutsvc.PayoutDTO `json:"payouts"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Payouts) != 1 || envelope.Data.Payouts[0].ContractID != contractID {
		t.Fatalf("unexpected payouts payload: %+v", envelope.Data.Payouts)
	}
}

func TestPreviewCloseoutPayoutsRequiresCheckins(t *testing.T) {
	handler := PreviewCloseoutPayouts(&stubCloseoutService{}, nil)
	req := closeoutRequest(t, http.MethodPost, "/closeout/payouts/preview", uuid.NewString(), map[string]any{"checkins": []any{}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestApplyCloseoutSuccess(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()
	venueID := uuid.New()
	svc := &stubCloseoutService{applied: &closeoutsvc.ApplyResult{
		EventID:         eventID,
		CloseoutAt:      time.Now().UTC(),
		MatchedBookings: 2,
		TotalSpend:      decimal.NewFromInt(2000),
		TotalPayoutOwed: decimal.NewFromInt(175),
	}}
	handler := ApplyCloseout(svc, nil)

	body := map[string]any{
		"csv_data": []map[string]string{{"table_name": "Table 1", "spend": "750"}},
		"checkins": []map[string]any{{"contract_id": uuid.NewString(), "checkins": 25}},
	}
	req := closeoutRequest(t, http.MethodPost, "/closeout", eventID.String(), body)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithVenueID(ctx, venueID.String())
	req = req.WithContext(ctx)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotApplyInput.Actor == nil {
		t.Fatal("expected actor to be derived from request context")
	}
	if svc.gotApplyInput.Actor.UserID != userID {
		t.Fatalf("unexpected actor user id: %s", svc.gotApplyInput.Actor.UserID)
	}
	if svc.gotApplyInput.Actor.VenueID == nil || *svc.gotApplyInput.Actor.VenueID != venueID {
		t.Fatalf("unexpected actor venue id: %+v", svc.gotApplyInput.Actor.VenueID)
	}
	if len(svc.gotApplyInput.Checkins) != 1 {
		t.Fatalf("expected one checkin forwarded, got %d", len(svc.gotApplyInput.Checkins))
	}
}

func TestApplyCloseoutAlreadyFinalized(t *testing.T) {
	svc := &stubCloseoutService{applyErr: pkgerrors.New(pkgerrors.CodeAlreadyClosed, "event closeout already finalized")}
	handler := ApplyCloseout(svc, nil)
	body := map[string]any{"csv_data": []map[string]string{{"table_name": "Table 1", "spend": "750"}}}
	req := closeoutRequest(t, http.MethodPost, "/closeout", uuid.NewString(), body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestApplyCloseoutMissingActorStillProceeds(t *testing.T) {
	svc := &stubCloseoutService{applied: &closeoutsvc.ApplyResult{EventID: uuid.New()}}
	handler := ApplyCloseout(svc, nil)
	body := map[string]any{"csv_data": []map[string]string{{"table_name": "Table 1", "spend": "750"}}}
	req := closeoutRequest(t, http.MethodPost, "/closeout", uuid.NewString(), body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotApplyInput.Actor != nil {
		t.Fatalf("expected nil actor without auth context, got %+v", svc.gotApplyInput.Actor)
	}
}
