package supplier

import (
	"context"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
	"almox/pkg/logger"
)

// Service provides business operations for the supplier catalog.
type Service struct {
	repo Repository
}

// NewService creates a new supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return err
	}
	logger.Info(ctx, "supplier created", "id", sup.ID, "name", sup.Name)
	return nil
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// Update persists changes to a supplier.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	sup.Touch()
	return s.repo.Update(ctx, sup)
}

// Delete removes a supplier. Suppliers still referenced by products are kept.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	count, err := s.repo.CountProducts(ctx, supplierID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflict("cannot delete supplier referenced by products").
			WithDetail("supplier_id", supplierID.String()).
			WithDetail("products", count)
	}
	return s.repo.Delete(ctx, supplierID)
}

// List retrieves suppliers with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Supplier, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
