package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// BonusTier mirrors one entry of the bonus_tiers jsonb column on promoter contracts.
type BonusTier struct {
	Threshold  int             `json:"threshold"`
	Amount     decimal.Decimal `json:"amount"`
	Repeatable bool            `json:"repeatable"`
	Label      string          `json:"label,omitempty"`
}

// BonusTierList stores an ordered set of bonus tiers as a jsonb array.
type BonusTierList []BonusTier

func (l *BonusTierList) Scan(src any) error {
	if src == nil {
		*l = BonusTierList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parseFromBytes([]byte(v))
	case []byte:
		return l.parseFromBytes(v)
	default:
		return fmt.Errorf("BonusTierList: unsupported Scan type %T", src)
	}
}

func (l BonusTierList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("BonusTierList: marshal: %w", err)
	}
	return string(raw), nil
}

func (l *BonusTierList) parseFromBytes(raw []byte) error {
	if len(raw) == 0 {
		*l = BonusTierList{}
		return nil
	}
	var out []BonusTier
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("BonusTierList: parse: %w", err)
	}
	*l = BonusTierList(out)
	return nil
}
