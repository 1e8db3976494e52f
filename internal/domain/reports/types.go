// Package reports provides read-only reporting over the movement ledger.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"almox/internal/core/id"
)

// Period is a closed date interval for report queries.
type Period struct {
	From time.Time
	To   time.Time
}

// MovementRow is one flattened movement line for export.
type MovementRow struct {
	MovementID  id.ID            `db:"movement_id"`
	OccurredAt  time.Time        `db:"occurred_at"`
	Type        string           `db:"type"`
	Active      bool             `db:"active"`
	Destination string           `db:"destination"`
	UserID      string           `db:"user_id"`
	ProductCode string           `db:"product_code"`
	ProductName string           `db:"product_name"`
	Quantity    int64            `db:"quantity"`
	UnitPrice   *decimal.Decimal `db:"unit_price"`
	UnitCost    *decimal.Decimal `db:"unit_cost"`
}

// TurnoverRow aggregates entry and exit quantities per product over a period.
// Only active movements count; a deactivated movement's effect is off the
// ledger and off the report.
type TurnoverRow struct {
	ProductID    id.ID  `db:"product_id"`
	ProductCode  string `db:"product_code"`
	ProductName  string `db:"product_name"`
	EntryQty     int64  `db:"entry_qty"`
	ExitQty      int64  `db:"exit_qty"`
	CurrentStock int64  `db:"current_stock"`
}

// Net is entries minus exits over the period.
func (r TurnoverRow) Net() int64 {
	return r.EntryQty - r.ExitQty
}
