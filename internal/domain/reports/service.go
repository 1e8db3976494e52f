package reports

import (
	"context"
	"time"

	"almox/internal/core/apperror"
	"almox/internal/core/clock"
)

// Service provides reporting operations.
type Service struct {
	repo  Repository
	clock clock.Clock
}

// NewService creates a new reports service.
func NewService(repo Repository, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{repo: repo, clock: clk}
}

// normalizePeriod fills missing bounds (default: last 30 days) and validates
// ordering.
func (s *Service) normalizePeriod(p Period) (Period, error) {
	now := s.clock.Now()
	if p.To.IsZero() {
		p.To = now
	}
	if p.From.IsZero() {
		p.From = p.To.Add(-30 * 24 * time.Hour)
	}
	if p.From.After(p.To) {
		return Period{}, apperror.NewValidation("period start must not be after period end").
			WithDetail("from", p.From).
			WithDetail("to", p.To)
	}
	return p, nil
}

// MovementRows returns flattened movement lines within the period.
func (s *Service) MovementRows(ctx context.Context, period Period) ([]MovementRow, error) {
	period, err := s.normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	return s.repo.MovementRows(ctx, period)
}

// Turnover aggregates per-product entry and exit quantities over the period.
func (s *Service) Turnover(ctx context.Context, period Period) ([]TurnoverRow, error) {
	period, err := s.normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	return s.repo.Turnover(ctx, period)
}
