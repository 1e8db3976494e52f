package reports

import "context"

// Repository defines reporting queries.
type Repository interface {
	// MovementRows returns flattened movement lines within the period,
	// ordered by occurrence time.
	MovementRows(ctx context.Context, period Period) ([]MovementRow, error)

	// Turnover aggregates active movement quantities per product over the
	// period.
	Turnover(ctx context.Context, period Period) ([]TurnoverRow, error)
}
