package reconciliation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
	"github.com/velvethq/velvet-backend/pkg/money"
)

// CSVRow is one line of a venue's POS export. There is no fixed schema; column
// names vary by venue and are resolved through DetectColumns or an explicit
// mapping.
type CSVRow map[string]string

// BookingRecord is the read-only slice of a booking the matcher needs. Callers
// supply only bookings eligible for reconciliation (confirmed or completed).
type BookingRecord struct {
	ID           uuid.UUID
	GuestName    string
	TableName    string
	CurrentSpend decimal.Decimal
	MinimumSpend decimal.Decimal
}

// MatchRow is the matcher's verdict for one CSV row, in original row order.
type MatchRow struct {
	RowIndex     int              `json:"row_index"`
	CSVTableName string           `json:"csv_table_name"`
	CSVSpend     decimal.Decimal  `json:"csv_spend"`
	Matched      bool             `json:"matched"`
	BookingID    *uuid.UUID       `json:"booking_id,omitempty"`
	CurrentSpend *decimal.Decimal `json:"current_spend,omitempty"`
}

// UnmatchedBooking identifies a booking no CSV row claimed.
type UnmatchedBooking struct {
	BookingID uuid.UUID       `json:"booking_id"`
	GuestName string          `json:"guest_name"`
	TableName string          `json:"table_name"`
	Spend     decimal.Decimal `json:"current_spend"`
}

// PreviewSummary condenses one matcher run into the four headline counts.
type PreviewSummary struct {
	TotalCSVRows      int `json:"total_csv_rows"`
	MatchedCount      int `json:"matched_count"`
	UnmatchedCSVRows  int `json:"unmatched_csv_rows"`
	UnmatchedBookings int `json:"unmatched_bookings"`
}

// PreviewResult is the full proposed mapping. Nothing is persisted; the caller
// decides whether to commit it.
type PreviewResult struct {
	Preview           PreviewSummary     `json:"preview"`
	ColumnMapping     ColumnMapping      `json:"column_mapping"`
	Matches           []MatchRow         `json:"matches"`
	UnmatchedCSVRows  []MatchRow         `json:"unmatched_csv_rows"`
	UnmatchedBookings []UnmatchedBooking `json:"unmatched_bookings"`
}

// PreviewInput carries everything one matcher run needs. CloseoutAt is the
// event's closeout timestamp as known to the caller; a non-nil value rejects
// the run before any work happens.
type PreviewInput struct {
	CSVData       []CSVRow
	ColumnMapping *ColumnMapping
	Bookings      []BookingRecord
	CloseoutAt    *time.Time
}

// Preview proposes a 1:1 correspondence between POS export rows and bookings.
// It is a pure function: identical input always yields an identical result,
// and a booking is claimed by at most one row (first occurrence in CSV order
// wins, later duplicates are reported unmatched).
func Preview(input PreviewInput) (*PreviewResult, error) {
	if input.CloseoutAt != nil {
		return nil, pkgerrors.
			New(pkgerrors.CodeAlreadyClosed, "event closeout already finalized").
			WithDetails(map[string]any{"closeout_at": input.CloseoutAt.UTC().Format(time.RFC3339)})
	}
	if len(input.CSVData) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyInput, "csv_data must contain at least one row")
	}

	mapping := ColumnMapping{}
	if input.ColumnMapping != nil {
		mapping = *input.ColumnMapping
	}
	if mapping.TableNameColumn == "" || mapping.SpendColumn == "" {
		detected, err := DetectColumns(input.CSVData[0])
		if err != nil {
			return nil, err
		}
		mapping = detected
	}

	byFull, byStripped := buildLookup(input.Bookings)

	result := &PreviewResult{
		Preview:           PreviewSummary{TotalCSVRows: len(input.CSVData)},
		ColumnMapping:     mapping,
		Matches:           make([]MatchRow, 0, len(input.CSVData)),
		UnmatchedCSVRows:  []MatchRow{},
		UnmatchedBookings: []UnmatchedBooking{},
	}

	consumed := make(map[uuid.UUID]bool, len(input.Bookings))

	for idx, row := range input.CSVData {
		rawName := strings.TrimSpace(row[mapping.TableNameColumn])
		match := MatchRow{
			RowIndex:     idx,
			CSVTableName: rawName,
			CSVSpend:     money.ParseLenient(row[mapping.SpendColumn]),
		}

		if rawName == "" {
			result.Matches = append(result.Matches, match)
			result.UnmatchedCSVRows = append(result.UnmatchedCSVRows, match)
			continue
		}

		booking := lookupBooking(normalizeTableName(rawName), byFull, byStripped)
		if booking != nil && !consumed[booking.ID] {
			consumed[booking.ID] = true
			id := booking.ID
			spend := booking.CurrentSpend
			match.Matched = true
			match.BookingID = &id
			match.CurrentSpend = &spend
			result.Matches = append(result.Matches, match)
			result.Preview.MatchedCount++
			continue
		}

		result.Matches = append(result.Matches, match)
		result.UnmatchedCSVRows = append(result.UnmatchedCSVRows, match)
	}

	for _, booking := range input.Bookings {
		if consumed[booking.ID] {
			continue
		}
		result.UnmatchedBookings = append(result.UnmatchedBookings, UnmatchedBooking{
			BookingID: booking.ID,
			GuestName: booking.GuestName,
			TableName: booking.TableName,
			Spend:     booking.CurrentSpend,
		})
	}

	result.Preview.UnmatchedCSVRows = len(result.UnmatchedCSVRows)
	result.Preview.UnmatchedBookings = len(result.UnmatchedBookings)

	return result, nil
}

// buildLookup indexes bookings by the normalized table name and by the
// prefix-stripped variant. When two bookings normalize to the same key the
// earlier booking keeps the slot; the later one will surface as unmatched.
func buildLookup(bookings []BookingRecord) (byFull, byStripped map[string]*BookingRecord) {
	byFull = make(map[string]*BookingRecord, len(bookings))
	byStripped = make(map[string]*BookingRecord, len(bookings))

	for i := range bookings {
		booking := &bookings[i]
		full := normalizeTableName(booking.TableName)
		if full == "" {
			continue
		}
		if _, ok := byFull[full]; !ok {
			byFull[full] = booking
		}
		if stripped := stripTablePrefix(full); stripped != full {
			if _, ok := byStripped[stripped]; !ok {
				byStripped[stripped] = booking
			}
		}
	}
	return byFull, byStripped
}

// lookupBooking tries the full normalized name first, then the booking-side
// stripped variant. The CSV side is never stripped.
func lookupBooking(name string, byFull, byStripped map[string]*BookingRecord) *BookingRecord {
	if booking, ok := byFull[name]; ok {
		return booking
	}
	if booking, ok := byStripped[name]; ok {
		return booking
	}
	return nil
}

func normalizeTableName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var tablePrefixes = []string{"table ", "vip "}

// stripTablePrefix removes one leading "table " or "vip " marker from an
// already-normalized name.
func stripTablePrefix(name string) string {
	for _, prefix := range tablePrefixes {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(name, prefix))
		}
	}
	return name
}
