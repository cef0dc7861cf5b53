package reconciliation

import (
	"sort"
	"strings"

	pkgerrors "github.com/velvethq/velvet-backend/pkg/errors"
)

// ColumnMapping names the two columns the matcher reads from a POS export.
type ColumnMapping struct {
	TableNameColumn string `json:"table_name_column"`
	SpendColumn     string `json:"spend_column"`
}

// Candidate column headers, checked in order. Venues export with wildly
// different headers; these cover every POS system seen so far.
var (
	tableNameCandidates = []string{"table_name", "table", "tablename", "name"}
	spendCandidates     = []string{"spend", "spend_amount", "amount", "total", "revenue"}
)

// DetectColumns resolves the column mapping from the first row's keys. The
// decision is made once from that row alone and is never re-evaluated per row.
// On failure the returned error carries the available columns and whatever was
// partially resolved so the caller can re-submit an explicit mapping.
func DetectColumns(first CSVRow) (ColumnMapping, error) {
	mapping := ColumnMapping{
		TableNameColumn: firstCandidateMatch(first, tableNameCandidates),
		SpendColumn:     firstCandidateMatch(first, spendCandidates),
	}

	if mapping.TableNameColumn != "" && mapping.SpendColumn != "" {
		return mapping, nil
	}

	available := make([]string, 0, len(first))
	for key := range first {
		available = append(available, key)
	}
	sort.Strings(available)

	return ColumnMapping{}, pkgerrors.
		New(pkgerrors.CodeColumnDetection, "could not detect table name and spend columns").
		WithDetails(map[string]any{
			"available_columns": available,
			"detected":          mapping,
		})
}

func firstCandidateMatch(row CSVRow, candidates []string) string {
	for _, candidate := range candidates {
		for key := range row {
			if strings.EqualFold(strings.TrimSpace(key), candidate) {
				return key
			}
		}
	}
	return ""
}
