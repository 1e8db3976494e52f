package movement

import (
	"context"
	"fmt"
	"time"

	"almox/internal/core/apperror"
	appctx "almox/internal/core/context"
	"almox/internal/core/clock"
	"almox/internal/core/id"
	"almox/internal/core/tx"
	"almox/internal/observability/metrics"
	"almox/pkg/logger"
)

const (
	// EditWindow bounds edits that change a movement's economic content
	// (line items or type), measured from OccurredAt.
	EditWindow = 24 * time.Hour

	// DeleteWindowDays bounds permanent deletion, in whole days from
	// OccurredAt.
	DeleteWindowDays = 3
)

// ReconcilePayload carries the economic content an edit reconciles stock
// against. It is deliberately separate from the persisted patch: the stored
// movement keeps its original type and line items, while stock is moved to
// match this payload. A zero Type or empty LineItems means "keep the stored
// value" for that half.
type ReconcilePayload struct {
	Type      Type
	LineItems []LineItem
}

// EditInput is the two-part input of the Edit operation: an optional
// reconciliation payload and the narrow persisted patch.
type EditInput struct {
	Reconcile   *ReconcilePayload
	Destination *string
}

// Engine is the sole authority for translating movement lifecycle
// transitions into stock deltas. Every operation runs inside one database
// transaction with per-product row locks, so a failing line item rolls back
// all earlier mutations of the same call.
type Engine struct {
	repo      Repository
	products  ProductStore
	audit     AuditLog
	txManager tx.Manager
	clock     clock.Clock
}

// NewEngine creates the reconciliation engine. audit may be nil.
func NewEngine(repo Repository, products ProductStore, audit AuditLog, txManager tx.Manager, clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{
		repo:      repo,
		products:  products,
		audit:     audit,
		txManager: txManager,
		clock:     clk,
	}
}

// clampEvent records a reversal that was truncated at zero stock.
type clampEvent struct {
	productID id.ID
	requested int64
	available int64
}

// Register validates the movement, applies its stock effect per line item
// in order, and persists the record. UserID comes from the authenticated
// caller when the payload omits it; OccurredAt defaults to now.
func (e *Engine) Register(ctx context.Context, m *Movement) (*Movement, error) {
	if m.UserID == "" {
		m.UserID = appctx.GetUserID(ctx)
	}

	now := e.clock.Now()
	if m.OccurredAt.IsZero() {
		m.OccurredAt = now
	}

	if err := m.Validate(ctx); err != nil {
		return nil, err
	}

	if id.IsNil(m.ID) {
		m.ID = id.New()
	}
	m.Active = true
	m.CreatedAt = now
	m.UpdatedAt = now

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.applyEffect(ctx, m.Type, m.LineItems, insufficientAsStockError); err != nil {
			return err
		}
		return e.repo.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	e.logAudit(ctx, m.ID, AuditActionRegister, map[string]any{
		"type":     string(m.Type),
		"lines":    len(m.LineItems),
		"quantity": m.TotalQuantity(),
	})
	metrics.MovementOperations.WithLabelValues("register").Inc()

	logger.Info(ctx, "movement registered",
		"id", m.ID,
		"type", m.Type,
		"lines", len(m.LineItems),
	)
	return m, nil
}

// Edit updates a movement. Economic changes (line items or type) are
// time-boxed to EditWindow from OccurredAt and trigger a full
// reverse-then-reapply of the stock effect; only Destination is persisted
// from the patch regardless of what else was submitted. The movement is
// loaded under a row lock so a concurrent lifecycle transition cannot
// slip between the checks and the reconciliation.
func (e *Engine) Edit(ctx context.Context, movementID id.ID, in EditInput) (*Movement, error) {
	var clamps []clampEvent

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := e.repo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}

		now := e.clock.Now()

		if in.Reconcile != nil && now.Sub(m.OccurredAt) > EditWindow {
			return apperror.NewForbidden(
				fmt.Sprintf("line items and type can only be changed within %d hours of occurrence", int(EditWindow.Hours()))).
				WithDetail("movement_id", movementID.String()).
				WithDetail("occurred_at", m.OccurredAt)
		}

		if in.Destination != nil {
			probe := *m
			probe.Destination = *in.Destination
			if err := probe.Validate(ctx); err != nil {
				return err
			}
		}

		if in.Reconcile != nil {
			// An omitted half of the payload keeps the stored value.
			rType := in.Reconcile.Type
			if rType == "" {
				rType = m.Type
			}
			lines := in.Reconcile.LineItems
			if len(lines) == 0 {
				lines = m.LineItems
			}

			if !rType.Valid() {
				return apperror.NewValidation("invalid movement type").
					WithDetail("field", "type")
			}
			if err := validateLines(rType, lines); err != nil {
				return err
			}

			// Only reconcile stock while the movement's effect is in force.
			if m.Active {
				ev, err := e.reverseEffect(ctx, m.Type, m.LineItems)
				if err != nil {
					return err
				}
				clamps = ev

				if err := e.applyEffect(ctx, rType, lines, insufficientAsStockError); err != nil {
					return err
				}
			}
		}

		patch := HeaderPatch{Destination: in.Destination, UpdatedAt: now}
		return e.repo.UpdateHeader(ctx, movementID, patch)
	})
	if err != nil {
		return nil, err
	}

	e.reportClamps(ctx, movementID, clamps)
	e.logAudit(ctx, movementID, AuditActionEdit, map[string]any{
		"reconciled": in.Reconcile != nil,
	})
	metrics.MovementOperations.WithLabelValues("edit").Inc()

	return e.repo.GetByID(ctx, movementID)
}

// Deactivate reverses the movement's stock effect and marks it inactive.
// The active check runs on a row-locked read inside the transaction, so two
// concurrent deactivations cannot both reverse the effect.
func (e *Engine) Deactivate(ctx context.Context, movementID id.ID) (*Movement, error) {
	var (
		m      *Movement
		clamps []clampEvent
	)

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		m, err = e.repo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}

		if !m.Active {
			return apperror.NewConflict("movement is already deactivated").
				WithDetail("movement_id", movementID.String())
		}

		ev, err := e.reverseEffect(ctx, m.Type, m.LineItems)
		if err != nil {
			return err
		}
		clamps = ev

		active := false
		return e.repo.UpdateHeader(ctx, movementID, HeaderPatch{Active: &active, UpdatedAt: e.clock.Now()})
	})
	if err != nil {
		return nil, err
	}

	e.reportClamps(ctx, movementID, clamps)
	e.logAudit(ctx, movementID, AuditActionDeactivate, nil)
	metrics.MovementOperations.WithLabelValues("deactivate").Inc()

	m.Active = false
	return m, nil
}

// Reactivate reapplies the movement's stock effect and marks it active.
// Exit movements require sufficient stock; shortage is a conflict, not an
// insufficient-stock error, because the record itself is unchanged.
func (e *Engine) Reactivate(ctx context.Context, movementID id.ID) (*Movement, error) {
	var m *Movement

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		m, err = e.repo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}

		if m.Active {
			return apperror.NewConflict("movement is already active").
				WithDetail("movement_id", movementID.String())
		}

		if err := e.applyEffect(ctx, m.Type, m.LineItems, insufficientAsConflict); err != nil {
			return err
		}

		active := true
		return e.repo.UpdateHeader(ctx, movementID, HeaderPatch{Active: &active, UpdatedAt: e.clock.Now()})
	})
	if err != nil {
		return nil, err
	}

	e.logAudit(ctx, movementID, AuditActionReactivate, nil)
	metrics.MovementOperations.WithLabelValues("reactivate").Inc()

	m.Active = true
	return m, nil
}

// Delete permanently removes a movement and reverses its stock effect,
// allowed only within DeleteWindowDays of occurrence.
func (e *Engine) Delete(ctx context.Context, movementID id.ID) error {
	var (
		m      *Movement
		clamps []clampEvent
	)

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		m, err = e.repo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}

		days := int(e.clock.Now().Sub(m.OccurredAt).Hours() / 24)
		if days > DeleteWindowDays {
			return apperror.NewForbidden(
				fmt.Sprintf("movements can only be deleted within %d days of occurrence", DeleteWindowDays)).
				WithDetail("movement_id", movementID.String()).
				WithDetail("days_since_occurred", days)
		}

		// An inactive movement's effect is already off the ledger.
		if m.Active {
			ev, err := e.reverseEffect(ctx, m.Type, m.LineItems)
			if err != nil {
				return err
			}
			clamps = ev
		}
		return e.repo.Delete(ctx, movementID)
	})
	if err != nil {
		return err
	}

	e.reportClamps(ctx, movementID, clamps)
	e.logAudit(ctx, movementID, AuditActionDelete, map[string]any{
		"type": string(m.Type),
	})
	metrics.MovementOperations.WithLabelValues("delete").Inc()

	logger.Info(ctx, "movement deleted", "id", movementID)
	return nil
}

// GetByID retrieves a movement with its line items.
func (e *Engine) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	return e.repo.GetByID(ctx, movementID)
}

// List retrieves movements with filtering.
func (e *Engine) List(ctx context.Context, filter ListFilter) ([]*Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return e.repo.List(ctx, filter)
}

// --- stock effect application ---

// insufficientError builds the error used when an exit line exceeds stock.
type insufficientError func(productID id.ID, requested, available int64) error

func insufficientAsStockError(productID id.ID, requested, available int64) error {
	return apperror.NewInsufficientStock(productID.String(), requested, available)
}

func insufficientAsConflict(productID id.ID, requested, available int64) error {
	return apperror.NewConflict("insufficient stock to reactivate movement").
		WithDetail("product_id", productID.String()).
		WithDetail("requested", requested).
		WithDetail("available", available)
}

// applyEffect applies the stock effect of lines under type t, in order.
// Entries add stock and touch the last-entry timestamp; exits subtract
// after checking availability. Every product row is locked first, so two
// concurrent movements against the same product serialize here.
func (e *Engine) applyEffect(ctx context.Context, t Type, lines []LineItem, onShort insufficientError) error {
	for i, line := range lines {
		p, err := e.products.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return err
		}

		if line.ProductCode != "" && line.ProductCode != p.Code {
			return apperror.NewValidation("product code does not match referenced product").
				WithDetail("lineNo", i+1).
				WithDetail("expected", p.Code).
				WithDetail("supplied", line.ProductCode)
		}

		switch t {
		case TypeEntry:
			if err := e.products.SetStock(ctx, p.ID, p.Stock+line.Quantity, true); err != nil {
				return err
			}
		case TypeExit:
			if p.Stock < line.Quantity {
				return onShort(p.ID, line.Quantity, p.Stock)
			}
			if err := e.products.SetStock(ctx, p.ID, p.Stock-line.Quantity, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// reverseEffect undoes the stock effect of lines under type t: entry lines
// subtract their quantity (clamped at zero), exit lines add it back.
// Clamp events are returned so the caller can surface the divergence signal
// after the transaction commits.
func (e *Engine) reverseEffect(ctx context.Context, t Type, lines []LineItem) ([]clampEvent, error) {
	var clamps []clampEvent

	for _, line := range lines {
		p, err := e.products.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		switch t {
		case TypeEntry:
			newStock := p.Stock - line.Quantity
			if newStock < 0 {
				clamps = append(clamps, clampEvent{
					productID: p.ID,
					requested: line.Quantity,
					available: p.Stock,
				})
				newStock = 0
			}
			if err := e.products.SetStock(ctx, p.ID, newStock, false); err != nil {
				return nil, err
			}
		case TypeExit:
			if err := e.products.SetStock(ctx, p.ID, p.Stock+line.Quantity, false); err != nil {
				return nil, err
			}
		}
	}

	return clamps, nil
}

// reportClamps emits the audit signal for truncated reversals: the ledger
// and product stock had already diverged before this operation.
func (e *Engine) reportClamps(ctx context.Context, movementID id.ID, clamps []clampEvent) {
	for _, ev := range clamps {
		logger.Warn(ctx, "stock reversal clamped at zero; ledger and stock diverged",
			"movement_id", movementID,
			"product_id", ev.productID,
			"requested", ev.requested,
			"available", ev.available,
		)
		metrics.StockClamps.Inc()
		e.logAudit(ctx, movementID, AuditActionClamp, map[string]any{
			"product_id": ev.productID.String(),
			"requested":  ev.requested,
			"available":  ev.available,
		})
	}
}

// logAudit writes an audit entry best-effort, after the transaction.
func (e *Engine) logAudit(ctx context.Context, movementID id.ID, action AuditAction, details map[string]any) {
	if e.audit == nil {
		return
	}
	if err := e.audit.LogAction(ctx, movementID, action, details); err != nil {
		logger.Warn(ctx, "audit log write failed",
			"movement_id", movementID,
			"action", string(action),
			"error", err,
		)
	}
}
