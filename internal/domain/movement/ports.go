package movement

import (
	"context"
	"time"

	"almox/internal/core/id"
	"almox/internal/domain/product"
)

// ListFilter narrows movement listings.
type ListFilter struct {
	Type      *Type
	Active    *bool
	ProductID *id.ID
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Offset    int
}

// HeaderPatch is the narrow set of movement fields the engine persists on
// update. Line items and type are never rewritten after registration; they
// only drive reconciliation.
type HeaderPatch struct {
	Destination *string
	Active      *bool
	UpdatedAt   time.Time
}

// Repository persists movement records and their line items.
type Repository interface {
	Create(ctx context.Context, m *Movement) error

	// GetByID returns the movement with lines, or a NOT_FOUND apperror.
	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)

	// GetForUpdate returns the movement with lines and a row lock on its
	// header held for the remainder of the current transaction. Lifecycle
	// transitions load through it so concurrent operations on the same
	// movement serialize instead of double-applying stock effects.
	GetForUpdate(ctx context.Context, movementID id.ID) (*Movement, error)

	// UpdateHeader applies a narrow header patch.
	UpdateHeader(ctx context.Context, movementID id.ID, patch HeaderPatch) error

	// Delete hard-removes the movement and its lines.
	Delete(ctx context.Context, movementID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Movement, error)
}

// ProductStore is the stock mutator and product lookup boundary the engine
// consumes. The engine always computes the full new stock value itself and
// writes it absolutely; safety comes from GetForUpdate row locks inside the
// surrounding transaction.
type ProductStore interface {
	// GetForUpdate returns the product with a row lock held for the
	// remainder of the current transaction.
	GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error)

	// SetStock writes an absolute stock value; touchLastEntry refreshes the
	// product's last-entry timestamp (entry application only).
	SetStock(ctx context.Context, productID id.ID, stock int64, touchLastEntry bool) error
}

// AuditAction classifies audit log entries written by the engine.
type AuditAction string

const (
	AuditActionRegister   AuditAction = "register"
	AuditActionEdit       AuditAction = "edit"
	AuditActionDeactivate AuditAction = "deactivate"
	AuditActionReactivate AuditAction = "reactivate"
	AuditActionDelete     AuditAction = "delete"

	// AuditActionClamp records a reversal truncated at zero stock, which
	// means the ledger and product stock had already diverged.
	AuditActionClamp AuditAction = "clamp"
)

// AuditLog records movement lifecycle events. The engine calls it
// best-effort after the surrounding transaction commits.
type AuditLog interface {
	LogAction(ctx context.Context, movementID id.ID, action AuditAction, details map[string]any) error
}
