package product

import (
	"context"

	"almox/internal/core/id"
)

// ListFilter narrows product listings.
type ListFilter struct {
	Search     string
	SupplierID *id.ID
	OnlyActive bool
	Limit      int
	Offset     int
}

// Repository defines product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error

	// GetByID returns the product or a NOT_FOUND apperror.
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate returns the product with a row lock.
	// Must be called inside a transaction; the reconciliation engine relies
	// on this lock to serialize concurrent stock updates per product.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	GetByCode(ctx context.Context, code string) (*Product, error)

	Update(ctx context.Context, p *Product) error

	// SetStock writes an absolute stock value computed by the caller.
	// When touchLastEntry is true the last-entry timestamp is refreshed.
	SetStock(ctx context.Context, productID id.ID, stock int64, touchLastEntry bool) error

	Delete(ctx context.Context, productID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Product, error)

	// FindLowStock returns active products with stock at or below min_stock.
	FindLowStock(ctx context.Context) ([]*Product, error)
}
