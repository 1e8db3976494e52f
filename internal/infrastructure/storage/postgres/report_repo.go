package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"almox/internal/domain/reports"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// MovementRows returns flattened movement lines within the period.
func (r *ReportRepo) MovementRows(ctx context.Context, period reports.Period) ([]reports.MovementRow, error) {
	sql := `
		SELECT m.id          AS movement_id,
		       m.occurred_at AS occurred_at,
		       m.type        AS type,
		       m.active      AS active,
		       m.destination AS destination,
		       m.user_id     AS user_id,
		       p.code        AS product_code,
		       p.name        AS product_name,
		       i.quantity    AS quantity,
		       i.unit_price  AS unit_price,
		       i.unit_cost   AS unit_cost
		FROM movements m
		JOIN movement_items i ON i.movement_id = m.id
		JOIN products p ON p.id = i.product_id
		WHERE m.occurred_at >= $1 AND m.occurred_at <= $2
		ORDER BY m.occurred_at, m.id, i.line_no
	`

	var rows []reports.MovementRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, period.From, period.To); err != nil {
		return nil, fmt.Errorf("select movement rows: %w", err)
	}
	return rows, nil
}

// Turnover aggregates active movement quantities per product over the period.
func (r *ReportRepo) Turnover(ctx context.Context, period reports.Period) ([]reports.TurnoverRow, error) {
	sql := `
		SELECT p.id    AS product_id,
		       p.code  AS product_code,
		       p.name  AS product_name,
		       p.stock AS current_stock,
		       COALESCE(SUM(i.quantity) FILTER (WHERE m.type = 'entry'), 0) AS entry_qty,
		       COALESCE(SUM(i.quantity) FILTER (WHERE m.type = 'exit'), 0)  AS exit_qty
		FROM products p
		JOIN movement_items i ON i.product_id = p.id
		JOIN movements m ON m.id = i.movement_id
		WHERE m.active
		  AND m.occurred_at >= $1 AND m.occurred_at <= $2
		GROUP BY p.id, p.code, p.name, p.stock
		ORDER BY p.code
	`

	var rows []reports.TurnoverRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, period.From, period.To); err != nil {
		return nil, fmt.Errorf("select turnover: %w", err)
	}
	return rows, nil
}
