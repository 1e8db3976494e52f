package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
	"almox/internal/domain/movement"
)

const (
	movementsTable     = "movements"
	movementItemsTable = "movement_items"
)

var movementColumns = []string{
	"id", "type", "destination", "occurred_at", "user_id",
	"active", "invoice", "created_at", "updated_at",
}

var movementItemColumns = []string{
	"line_id", "movement_id", "line_no", "product_id", "product_code",
	"quantity", "unit_price", "unit_cost",
}

// movementRow is the scan target for movement headers; invoice is stored
// as jsonb.
type movementRow struct {
	ID          id.ID           `db:"id"`
	Type        string          `db:"type"`
	Destination string          `db:"destination"`
	OccurredAt  time.Time       `db:"occurred_at"`
	UserID      string          `db:"user_id"`
	Active      bool            `db:"active"`
	Invoice     json.RawMessage `db:"invoice"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (row movementRow) toDomain() (*movement.Movement, error) {
	m := &movement.Movement{
		ID:          row.ID,
		Type:        movement.Type(row.Type),
		Destination: row.Destination,
		OccurredAt:  row.OccurredAt,
		UserID:      row.UserID,
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Invoice) > 0 {
		var inv movement.Invoice
		if err := json.Unmarshal(row.Invoice, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		m.Invoice = &inv
	}
	return m, nil
}

// MovementRepo implements movement.Repository.
type MovementRepo struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType
}

var _ movement.Repository = (*MovementRepo)(nil)

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a movement header and its line items. Expected to run
// inside the engine's transaction.
func (r *MovementRepo) Create(ctx context.Context, m *movement.Movement) error {
	var invoiceJSON []byte
	if m.Invoice != nil {
		var err error
		invoiceJSON, err = json.Marshal(m.Invoice)
		if err != nil {
			return fmt.Errorf("encode invoice: %w", err)
		}
	}

	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(
			m.ID, string(m.Type), m.Destination, m.OccurredAt, m.UserID,
			m.Active, invoiceJSON, m.CreatedAt, m.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	iq := r.builder.Insert(movementItemsTable).Columns(movementItemColumns...)
	for i := range m.LineItems {
		line := &m.LineItems[i]
		if id.IsNil(line.LineID) {
			line.LineID = id.New()
		}
		line.LineNo = i + 1
		iq = iq.Values(
			line.LineID, m.ID, line.LineNo, line.ProductID, line.ProductCode,
			line.Quantity, line.UnitPrice, line.UnitCost,
		)
	}

	sql, args, err = iq.ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement items: %w", err)
	}

	return nil
}

// GetByID retrieves a movement with its line items.
func (r *MovementRepo) GetByID(ctx context.Context, movementID id.ID) (*movement.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"id": movementID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row movementRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID.String())
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}

	m, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, []id.ID{movementID})
	if err != nil {
		return nil, err
	}
	m.LineItems = lines[movementID]

	return m, nil
}

// GetForUpdate retrieves a movement with a pessimistic row lock on its
// header. Must run inside a transaction; the lock is held until commit.
func (r *MovementRepo) GetForUpdate(ctx context.Context, movementID id.ID) (*movement.Movement, error) {
	sql := `
		SELECT id, type, destination, occurred_at, user_id,
		       active, invoice, created_at, updated_at
		FROM movements
		WHERE id = $1
		FOR UPDATE
	`

	var row movementRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, movementID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", movementID.String())
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}

	m, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, []id.ID{movementID})
	if err != nil {
		return nil, err
	}
	m.LineItems = lines[movementID]

	return m, nil
}

// loadLines fetches line items for the given movements, keyed by movement ID.
func (r *MovementRepo) loadLines(ctx context.Context, movementIDs []id.ID) (map[id.ID][]movement.LineItem, error) {
	if len(movementIDs) == 0 {
		return map[id.ID][]movement.LineItem{}, nil
	}

	q := r.builder.Select(
		"line_id", "movement_id", "line_no", "product_id", "product_code",
		"quantity", "unit_price", "unit_cost",
	).From(movementItemsTable).
		Where(squirrel.Eq{"movement_id": movementIDs}).
		OrderBy("movement_id", "line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	type lineRow struct {
		MovementID id.ID `db:"movement_id"`
		movement.LineItem
	}

	var rows []lineRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select movement items: %w", err)
	}

	out := make(map[id.ID][]movement.LineItem, len(movementIDs))
	for _, row := range rows {
		out[row.MovementID] = append(out[row.MovementID], row.LineItem)
	}
	return out, nil
}

// UpdateHeader applies a narrow header patch.
func (r *MovementRepo) UpdateHeader(ctx context.Context, movementID id.ID, patch movement.HeaderPatch) error {
	q := r.builder.Update(movementsTable).
		Set("updated_at", patch.UpdatedAt).
		Where(squirrel.Eq{"id": movementID})

	if patch.Destination != nil {
		q = q.Set("destination", *patch.Destination)
	}
	if patch.Active != nil {
		q = q.Set("active", *patch.Active)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("movement", movementID.String())
	}
	return nil
}

// Delete hard-removes the movement; items go with it via FK cascade.
func (r *MovementRepo) Delete(ctx context.Context, movementID id.ID) error {
	q := r.builder.Delete(movementsTable).Where(squirrel.Eq{"id": movementID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("movement", movementID.String())
	}
	return nil
}

// List retrieves movements with filtering, newest first.
func (r *MovementRepo) List(ctx context.Context, filter movement.ListFilter) ([]*movement.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		OrderBy("occurred_at DESC", "created_at DESC")

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": string(*filter.Type)})
	}
	if filter.Active != nil {
		q = q.Where(squirrel.Eq{"active": *filter.Active})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM movement_items mi WHERE mi.movement_id = movements.id AND mi.product_id = ?)",
			*filter.ProductID,
		))
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []movementRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	ids := make([]id.ID, len(rows))
	movements := make([]*movement.Movement, len(rows))
	for i, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		movements[i] = m
		ids[i] = m.ID
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range movements {
		m.LineItems = lines[m.ID]
	}

	return movements, nil
}
