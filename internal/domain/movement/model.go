// Package movement provides the stock movement ledger and the
// reconciliation engine that keeps product stock consistent with it.
package movement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
)

// Type classifies a movement as incoming or outgoing stock.
type Type string

const (
	// TypeEntry records incoming stock (purchase, return, adjustment in)
	TypeEntry Type = "entry"
	// TypeExit records outgoing stock (sale, consumption, adjustment out)
	TypeExit Type = "exit"
)

// Valid reports whether t is a known movement type.
func (t Type) Valid() bool {
	return t == TypeEntry || t == TypeExit
}

// LineItem is one product-quantity entry within a movement.
type LineItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// ProductCode optionally cross-checks the referenced product's code
	ProductCode string `db:"product_code" json:"productCode,omitempty"`

	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice is required and positive for exit lines
	UnitPrice *decimal.Decimal `db:"unit_price" json:"unitPrice,omitempty"`

	// UnitCost is required and positive for entry lines
	UnitCost *decimal.Decimal `db:"unit_cost" json:"unitCost,omitempty"`
}

// Invoice holds optional fiscal document references. Purely descriptive;
// it has no effect on stock.
type Invoice struct {
	Number    string     `json:"number,omitempty"`
	Series    string     `json:"series,omitempty"`
	AccessKey string     `json:"accessKey,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
}

// Movement is a ledger entry recording a stock entry or exit across one or
// more products. While Active, its stock effect is in force on the ledger;
// deactivating reverses the effect without deleting the record.
type Movement struct {
	ID id.ID `db:"id" json:"id"`

	Type Type `db:"type" json:"type"`

	// Destination describes the source (entries) or disposition (exits)
	Destination string `db:"destination" json:"destination"`

	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	// UserID is the registering user, always taken from the authenticated
	// caller, never from the client payload
	UserID string `db:"user_id" json:"userId"`

	Active bool `db:"active" json:"active"`

	LineItems []LineItem `db:"-" json:"lineItems"`

	Invoice *Invoice `db:"-" json:"invoice,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// minDestinationLen is the minimum length for the destination field.
const minDestinationLen = 3

// Validate checks structural invariants on the movement and its line items.
// Pure function of its input; no repository access.
func (m *Movement) Validate(ctx context.Context) error {
	if !m.Type.Valid() {
		return apperror.NewValidation("invalid movement type").
			WithDetail("field", "type").
			WithDetail("value", string(m.Type))
	}

	if len(strings.TrimSpace(m.Destination)) < minDestinationLen {
		return apperror.NewValidation(
			fmt.Sprintf("destination must have at least %d characters", minDestinationLen)).
			WithDetail("field", "destination")
	}

	if len(m.LineItems) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "lineItems")
	}

	return validateLines(m.Type, m.LineItems)
}

// validateLines enforces per-line invariants for the given movement type.
func validateLines(t Type, lines []LineItem) error {
	for i, line := range lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lineItems").
				WithDetail("lineNo", i+1)
		}

		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be a positive integer").
				WithDetail("field", "quantity").
				WithDetail("lineNo", i+1)
		}

		switch t {
		case TypeEntry:
			if line.UnitCost == nil || !line.UnitCost.IsPositive() {
				return apperror.NewValidation("unit cost is required and must be positive for entry lines").
					WithDetail("field", "unitCost").
					WithDetail("lineNo", i+1)
			}
		case TypeExit:
			if line.UnitPrice == nil || !line.UnitPrice.IsPositive() {
				return apperror.NewValidation("unit price is required and must be positive for exit lines").
					WithDetail("field", "unitPrice").
					WithDetail("lineNo", i+1)
			}
		}
	}

	return nil
}

// TotalQuantity sums line quantities.
func (m *Movement) TotalQuantity() int64 {
	var total int64
	for _, line := range m.LineItems {
		total += line.Quantity
	}
	return total
}

// TotalCost aggregates quantity * unit cost across entry lines.
func (m *Movement) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, line := range m.LineItems {
		if line.UnitCost != nil {
			total = total.Add(line.UnitCost.Mul(decimal.NewFromInt(line.Quantity)))
		}
	}
	return total
}

// TotalPrice aggregates quantity * unit price across exit lines.
func (m *Movement) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range m.LineItems {
		if line.UnitPrice != nil {
			total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
		}
	}
	return total
}
