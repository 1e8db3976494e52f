package product

import (
	"context"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
	"almox/internal/core/tx"
	"almox/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and persists a new product. Product codes are unique.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.GetByCode(ctx, p.Code); err == nil && existing != nil {
		return apperror.NewDuplicate("product", "code", p.Code)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "code", p.Code)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update persists catalog changes to a product. Stock is not written here;
// stock changes only flow through the movement engine.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.GetByCode(ctx, p.Code); err == nil && existing != nil && existing.ID != p.ID {
		return apperror.NewDuplicate("product", "code", p.Code)
	}

	p.Touch()
	return s.repo.Update(ctx, p)
}

// Delete removes a product. Products with remaining stock are kept to
// preserve ledger consistency.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p.Stock > 0 {
			return apperror.NewConflict("cannot delete product with remaining stock").
				WithDetail("product_id", productID.String()).
				WithDetail("stock", p.Stock)
		}
		return s.repo.Delete(ctx, productID)
	})
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// FindLowStock retrieves products at or below their minimum stock.
func (s *Service) FindLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.FindLowStock(ctx)
}
