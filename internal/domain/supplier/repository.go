package supplier

import (
	"context"

	"almox/internal/core/id"
)

// ListFilter narrows supplier listings.
type ListFilter struct {
	Search     string
	OnlyActive bool
	Limit      int
	Offset     int
}

// Repository defines supplier persistence.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error

	// GetByID returns the supplier or a NOT_FOUND apperror.
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)

	Update(ctx context.Context, s *Supplier) error

	Delete(ctx context.Context, supplierID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Supplier, error)

	// CountProducts returns the number of products referencing the supplier.
	CountProducts(ctx context.Context, supplierID id.ID) (int64, error)
}
