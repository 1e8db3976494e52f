// Package product provides the product catalog.
// Product stock is owned here but mutated only through the movement
// reconciliation engine (and direct product edits).
package product

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
)

// Product represents a stocked item.
type Product struct {
	ID id.ID `db:"id" json:"id"`

	// Code is the unique product code (SKU)
	Code string `db:"code" json:"code"`

	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`

	// Unit is the unit of measure (un, kg, l, ...)
	Unit string `db:"unit" json:"unit"`

	// Stock is the current quantity on hand; kept non-negative
	Stock int64 `db:"stock" json:"stock"`

	// MinStock triggers low-stock listings when Stock falls below it
	MinStock int64 `db:"min_stock" json:"minStock"`

	// Price is the sale price, Cost the last purchase cost
	Price decimal.Decimal `db:"price" json:"price"`
	Cost  decimal.Decimal `db:"cost" json:"cost"`

	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// LastEntryAt is touched whenever an entry movement adds stock
	LastEntryAt *time.Time `db:"last_entry_at" json:"lastEntryAt,omitempty"`

	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a product with required fields.
func New(code, name, unit string) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:        id.New(),
		Code:      code,
		Name:      name,
		Unit:      unit,
		Price:     decimal.Zero,
		Cost:      decimal.Zero,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks product invariants.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Code) == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if p.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}

	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative").
			WithDetail("field", "minStock")
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	if p.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}

	return nil
}

// IsLowStock reports whether stock is at or below the minimum.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// Touch refreshes the update timestamp.
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
