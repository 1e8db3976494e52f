package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
	"almox/internal/domain/movement"
)

// LineItemRequest is one line of a movement payload.
type LineItemRequest struct {
	ProductID   string           `json:"productId" binding:"required"`
	ProductCode string           `json:"productCode,omitempty"`
	Quantity    int64            `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
	UnitCost    *decimal.Decimal `json:"unitCost,omitempty"`
}

func (r LineItemRequest) toEntity() (movement.LineItem, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return movement.LineItem{}, apperror.NewValidation("invalid product id").
			WithDetail("field", "productId").
			WithDetail("value", r.ProductID)
	}
	return movement.LineItem{
		ProductID:   productID,
		ProductCode: r.ProductCode,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		UnitCost:    r.UnitCost,
	}, nil
}

func toLineItems(reqs []LineItemRequest) ([]movement.LineItem, error) {
	lines := make([]movement.LineItem, len(reqs))
	for i, req := range reqs {
		line, err := req.toEntity()
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

// InvoiceRequest carries optional fiscal document references.
type InvoiceRequest struct {
	Number    string     `json:"number,omitempty"`
	Series    string     `json:"series,omitempty"`
	AccessKey string     `json:"accessKey,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
}

// RegisterMovementRequest creates a new movement.
type RegisterMovementRequest struct {
	Type        string            `json:"type" binding:"required"`
	Destination string            `json:"destination" binding:"required"`
	OccurredAt  *time.Time        `json:"occurredAt,omitempty"`
	Invoice     *InvoiceRequest   `json:"invoice,omitempty"`
	LineItems   []LineItemRequest `json:"lineItems" binding:"required"`
}

// ToEntity converts the request to a movement.
func (r RegisterMovementRequest) ToEntity() (*movement.Movement, error) {
	lines, err := toLineItems(r.LineItems)
	if err != nil {
		return nil, err
	}

	m := &movement.Movement{
		Type:        movement.Type(r.Type),
		Destination: r.Destination,
		LineItems:   lines,
	}
	if r.OccurredAt != nil {
		m.OccurredAt = *r.OccurredAt
	}
	if r.Invoice != nil {
		m.Invoice = &movement.Invoice{
			Number:    r.Invoice.Number,
			Series:    r.Invoice.Series,
			AccessKey: r.Invoice.AccessKey,
			IssuedAt:  r.Invoice.IssuedAt,
		}
	}
	return m, nil
}

// EditMovementRequest updates a movement. Submitting type or line items
// triggers stock reconciliation against them; only destination is persisted.
type EditMovementRequest struct {
	Destination *string           `json:"destination,omitempty"`
	Type        *string           `json:"type,omitempty"`
	LineItems   []LineItemRequest `json:"lineItems,omitempty"`
}

// ToInput converts the request to the engine's edit input. Type and line
// items may be submitted independently; the engine keeps the stored value
// for whichever half is omitted.
func (r EditMovementRequest) ToInput() (movement.EditInput, error) {
	in := movement.EditInput{Destination: r.Destination}

	if r.Type == nil && len(r.LineItems) == 0 {
		return in, nil
	}

	lines, err := toLineItems(r.LineItems)
	if err != nil {
		return in, err
	}

	reconcile := &movement.ReconcilePayload{LineItems: lines}
	if r.Type != nil {
		reconcile.Type = movement.Type(*r.Type)
	}
	in.Reconcile = reconcile
	return in, nil
}
