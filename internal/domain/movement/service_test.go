package movement

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almox/internal/core/apperror"
	appctx "almox/internal/core/context"
	"almox/internal/core/clock"
	"almox/internal/core/id"
	"almox/internal/domain/product"
)

// --- in-memory fakes ---

type memProducts struct {
	byID map[id.ID]*productState
}

type productState struct {
	code         string
	stock        int64
	lastEntrySet bool
}

func newMemProducts() *memProducts {
	return &memProducts{byID: make(map[id.ID]*productState)}
}

func (s *memProducts) add(productID id.ID, code string, stock int64) {
	s.byID[productID] = &productState{code: code, stock: stock}
}

func (s *memProducts) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	st, ok := s.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &product.Product{ID: productID, Code: st.code, Stock: st.stock}, nil
}

func (s *memProducts) SetStock(ctx context.Context, productID id.ID, stock int64, touchLastEntry bool) error {
	st, ok := s.byID[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	st.stock = stock
	if touchLastEntry {
		st.lastEntrySet = true
	}
	return nil
}

func (s *memProducts) stock(productID id.ID) int64 {
	return s.byID[productID].stock
}

func (s *memProducts) snapshot() map[id.ID]productState {
	snap := make(map[id.ID]productState, len(s.byID))
	for k, v := range s.byID {
		snap[k] = *v
	}
	return snap
}

func (s *memProducts) restore(snap map[id.ID]productState) {
	for k, v := range snap {
		cp := v
		s.byID[k] = &cp
	}
}

type memRepo struct {
	byID map[id.ID]*Movement
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[id.ID]*Movement)}
}

func (r *memRepo) Create(ctx context.Context, m *Movement) error {
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	m, ok := r.byID[movementID]
	if !ok {
		return nil, apperror.NewNotFound("movement", movementID.String())
	}
	cp := *m
	return &cp, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, movementID id.ID) (*Movement, error) {
	return r.GetByID(ctx, movementID)
}

func (r *memRepo) UpdateHeader(ctx context.Context, movementID id.ID, patch HeaderPatch) error {
	m, ok := r.byID[movementID]
	if !ok {
		return apperror.NewNotFound("movement", movementID.String())
	}
	if patch.Destination != nil {
		m.Destination = *patch.Destination
	}
	if patch.Active != nil {
		m.Active = *patch.Active
	}
	m.UpdatedAt = patch.UpdatedAt
	return nil
}

func (r *memRepo) Delete(ctx context.Context, movementID id.ID) error {
	if _, ok := r.byID[movementID]; !ok {
		return apperror.NewNotFound("movement", movementID.String())
	}
	delete(r.byID, movementID)
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) ([]*Movement, error) {
	out := make([]*Movement, 0, len(r.byID))
	for _, m := range r.byID {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type auditEntry struct {
	movementID id.ID
	action     AuditAction
	details    map[string]any
}

type memAudit struct {
	entries []auditEntry
}

func (a *memAudit) LogAction(ctx context.Context, movementID id.ID, action AuditAction, details map[string]any) error {
	a.entries = append(a.entries, auditEntry{movementID: movementID, action: action, details: details})
	return nil
}

func (a *memAudit) actions() []AuditAction {
	out := make([]AuditAction, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.action
	}
	return out
}

// fakeTx mimics transactional rollback by restoring the product snapshot
// when the wrapped function fails. The mutex stands in for the row locks a
// real transaction holds: concurrent transactions serialize, and each one
// observes the state the previous one committed.
type fakeTx struct {
	mu       sync.Mutex
	products *memProducts
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.products.snapshot()
	if err := fn(ctx); err != nil {
		f.products.restore(snap)
		return err
	}
	return nil
}

// --- fixtures ---

type fixture struct {
	engine   *Engine
	repo     *memRepo
	products *memProducts
	audit    *memAudit
	clock    *clock.Mock
}

var baseTime = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	products := newMemProducts()
	repo := newMemRepo()
	audit := &memAudit{}
	clk := clock.NewMock(baseTime)
	return &fixture{
		engine:   NewEngine(repo, products, audit, &fakeTx{products: products}, clk),
		repo:     repo,
		products: products,
		audit:    audit,
		clock:    clk,
	}
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func entryMovement(lines ...LineItem) *Movement {
	return &Movement{
		Type:        TypeEntry,
		Destination: "central warehouse",
		UserID:      "user-1",
		LineItems:   lines,
	}
}

func exitMovement(lines ...LineItem) *Movement {
	return &Movement{
		Type:        TypeExit,
		Destination: "maintenance dept",
		UserID:      "user-1",
		LineItems:   lines,
	}
}

func entryLine(productID id.ID, qty int64) LineItem {
	return LineItem{ProductID: productID, Quantity: qty, UnitCost: dec("10.50")}
}

func exitLine(productID id.ID, qty int64) LineItem {
	return LineItem{ProductID: productID, Quantity: qty, UnitPrice: dec("15.00")}
}

// --- Register ---

func TestRegisterEntryIncreasesStock(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	m, err := f.engine.Register(context.Background(), entryMovement(entryLine(pid, 5)))
	require.NoError(t, err)

	assert.Equal(t, int64(15), f.products.stock(pid))
	assert.True(t, f.products.byID[pid].lastEntrySet, "entry must refresh last entry timestamp")
	assert.True(t, m.Active)
	assert.Equal(t, baseTime, m.OccurredAt)
	assert.False(t, id.IsNil(m.ID))

	stored, err := f.repo.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, TypeEntry, stored.Type)
}

func TestRegisterExitDecreasesStock(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	_, err := f.engine.Register(context.Background(), exitMovement(exitLine(pid, 4)))
	require.NoError(t, err)

	assert.Equal(t, int64(6), f.products.stock(pid))
	assert.False(t, f.products.byID[pid].lastEntrySet, "exit must not touch last entry timestamp")
}

func TestRegisterExitInsufficientStock(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 3)

	_, err := f.engine.Register(context.Background(), exitMovement(exitLine(pid, 4)))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, int64(3), f.products.stock(pid), "stock unchanged on failure")
	assert.Empty(t, f.repo.byID, "movement must not be persisted on failure")
}

func TestRegisterRollsBackEarlierLinesOnFailure(t *testing.T) {
	f := newFixture()
	p1, p2 := id.New(), id.New()
	f.products.add(p1, "P-001", 10)
	f.products.add(p2, "P-002", 2)

	_, err := f.engine.Register(context.Background(), exitMovement(
		exitLine(p1, 5),
		exitLine(p2, 5), // exceeds stock
	))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, int64(10), f.products.stock(p1), "first line must be rolled back")
	assert.Equal(t, int64(2), f.products.stock(p2))
}

func TestRegisterUserIDFromContext(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "ctx-user"})
	m := entryMovement(entryLine(pid, 1))
	m.UserID = ""

	got, err := f.engine.Register(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, "ctx-user", got.UserID)
}

func TestRegisterProductCodeMismatch(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	line := entryLine(pid, 1)
	line.ProductCode = "P-999"

	_, err := f.engine.Register(context.Background(), entryMovement(line))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Equal(t, int64(10), f.products.stock(pid))
}

func TestRegisterValidationFailures(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	tests := []struct {
		name string
		m    *Movement
	}{
		{"unknown type", &Movement{Type: "transfer", Destination: "warehouse", LineItems: []LineItem{entryLine(pid, 1)}}},
		{"short destination", &Movement{Type: TypeEntry, Destination: "ab", LineItems: []LineItem{entryLine(pid, 1)}}},
		{"no lines", entryMovement()},
		{"zero quantity", entryMovement(entryLine(pid, 0))},
		{"entry without unit cost", entryMovement(LineItem{ProductID: pid, Quantity: 1})},
		{"exit without unit price", exitMovement(LineItem{ProductID: pid, Quantity: 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Register(context.Background(), tt.m)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
		})
	}
}

// --- Edit ---

func registerEntry(t *testing.T, f *fixture, pid id.ID, qty int64) *Movement {
	t.Helper()
	m, err := f.engine.Register(context.Background(), entryMovement(entryLine(pid, qty)))
	require.NoError(t, err)
	return m
}

func TestEditReconcilesStock(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10) // stock 10

	// Reconcile down to an entry of 4: reverse 10, apply 4.
	_, err := f.engine.Edit(context.Background(), m.ID, EditInput{
		Reconcile: &ReconcilePayload{Type: TypeEntry, LineItems: []LineItem{entryLine(pid, 4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.products.stock(pid))
}

func TestEditReconcileToExitChecksStock(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10) // stock 10

	// Reversing the entry leaves 0, so the exit payload cannot be applied.
	_, err := f.engine.Edit(context.Background(), m.ID, EditInput{
		Reconcile: &ReconcilePayload{Type: TypeExit, LineItems: []LineItem{exitLine(pid, 2)}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, int64(10), f.products.stock(pid), "failed edit rolls back the reversal")
}

func TestEditStoredRecordKeepsTypeAndLines(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	dest := "north warehouse"
	got, err := f.engine.Edit(context.Background(), m.ID, EditInput{
		Reconcile:   &ReconcilePayload{Type: TypeEntry, LineItems: []LineItem{entryLine(pid, 4)}},
		Destination: &dest,
	})
	require.NoError(t, err)

	// The persisted record keeps its original economic content; only the
	// destination header field follows the patch.
	assert.Equal(t, "north warehouse", got.Destination)
	assert.Equal(t, TypeEntry, got.Type)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, int64(10), got.LineItems[0].Quantity, "stored line items must not change")
	assert.Equal(t, int64(4), f.products.stock(pid), "stock follows the reconcile payload")
}

func TestEditLineItemsOnlyKeepsStoredType(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	// Submitting only line items reconciles them under the stored type.
	_, err := f.engine.Edit(context.Background(), m.ID, EditInput{
		Reconcile: &ReconcilePayload{LineItems: []LineItem{entryLine(pid, 4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.products.stock(pid))
}

func TestEditTypeOnlyKeepsStoredLines(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	line := LineItem{ProductID: pid, Quantity: 4, UnitPrice: dec("15.00"), UnitCost: dec("10.50")}
	m, err := f.engine.Register(context.Background(), exitMovement(line))
	require.NoError(t, err)
	require.Equal(t, int64(6), f.products.stock(pid))

	// Flip to entry: the exit is reversed (back to 10) and the stored line
	// reapplied as an entry (14).
	_, err = f.engine.Edit(context.Background(), m.ID, EditInput{
		Reconcile: &ReconcilePayload{Type: TypeEntry},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(14), f.products.stock(pid))
}

func TestEditEconomicChangeOutsideWindowForbidden(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	f.clock.Advance(EditWindow + time.Minute)

	_, err := f.engine.Edit(context.Background(), m.ID, EditInput{
		Reconcile: &ReconcilePayload{Type: TypeEntry, LineItems: []LineItem{entryLine(pid, 4)}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
	assert.Equal(t, int64(10), f.products.stock(pid))
}

func TestEditDestinationOnlyAllowedAnytime(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	f.clock.Advance(30 * 24 * time.Hour)

	dest := "relocated warehouse"
	got, err := f.engine.Edit(context.Background(), m.ID, EditInput{Destination: &dest})
	require.NoError(t, err)
	assert.Equal(t, "relocated warehouse", got.Destination)
	assert.Equal(t, int64(10), f.products.stock(pid), "destination edit must not touch stock")
}

func TestEditInactiveMovementSkipsReconciliation(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	_, err := f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), f.products.stock(pid))

	_, err = f.engine.Edit(context.Background(), m.ID, EditInput{
		Reconcile: &ReconcilePayload{Type: TypeEntry, LineItems: []LineItem{entryLine(pid, 4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.products.stock(pid), "inactive movement has no effect to reconcile")
}

func TestEditNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.engine.Edit(context.Background(), id.New(), EditInput{})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

// --- clamp on reversal ---

func TestEntryReversalClampsAtZero(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10) // stock 10

	// Drain part of the stock through an independent exit, then reverse the
	// entry: 10 - 10 would go below what remains (4).
	_, err := f.engine.Register(context.Background(), exitMovement(exitLine(pid, 6)))
	require.NoError(t, err)
	require.Equal(t, int64(4), f.products.stock(pid))

	_, err = f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.products.stock(pid), "reversal clamps at zero, never negative")
	assert.Contains(t, f.audit.actions(), AuditActionClamp, "clamp must leave an audit signal")
}

func TestExitReversalRestoresStock(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	m, err := f.engine.Register(context.Background(), exitMovement(exitLine(pid, 4)))
	require.NoError(t, err)
	require.Equal(t, int64(6), f.products.stock(pid))

	_, err = f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.products.stock(pid))
	assert.NotContains(t, f.audit.actions(), AuditActionClamp)
}

// --- Deactivate / Reactivate ---

func TestDeactivateTwiceConflicts(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	_, err := f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)

	_, err = f.engine.Deactivate(context.Background(), m.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.Equal(t, int64(0), f.products.stock(pid), "no double reversal")
}

func TestReactivateReappliesEffect(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	_, err := f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)

	got, err := f.engine.Reactivate(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, int64(10), f.products.stock(pid))
}

func TestReactivateActiveConflicts(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	_, err := f.engine.Reactivate(context.Background(), m.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.Equal(t, int64(10), f.products.stock(pid))
}

func TestReactivateExitWithoutStockConflicts(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	m, err := f.engine.Register(context.Background(), exitMovement(exitLine(pid, 8)))
	require.NoError(t, err)

	_, err = f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), f.products.stock(pid))

	// Drain the restored stock so the exit can no longer be reapplied.
	_, err = f.engine.Register(context.Background(), exitMovement(exitLine(pid, 7)))
	require.NoError(t, err)

	_, err = f.engine.Reactivate(context.Background(), m.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "reactivation shortage is a conflict, got %v", err)
	assert.Equal(t, int64(3), f.products.stock(pid))

	stored, err := f.repo.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active, "failed reactivation leaves the movement inactive")
}

func TestConcurrentDeactivateReversesOnce(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	m, err := f.engine.Register(context.Background(), exitMovement(exitLine(pid, 4)))
	require.NoError(t, err)
	require.Equal(t, int64(6), f.products.stock(pid))

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Deactivate(context.Background(), m.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, int64(10), f.products.stock(pid), "the reversal must apply exactly once")
}

func TestConcurrentReactivateAppliesOnce(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 10)

	m, err := f.engine.Register(context.Background(), exitMovement(exitLine(pid, 4)))
	require.NoError(t, err)
	_, err = f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), f.products.stock(pid))

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Reactivate(context.Background(), m.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, apperror.IsCode(err, apperror.CodeConflict), "got %v", err)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, int64(6), f.products.stock(pid), "the exit must apply exactly once")
}

// --- Delete ---

func TestDeleteWithinWindowReversesAndRemoves(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	f.clock.Advance(2 * 24 * time.Hour)

	err := f.engine.Delete(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.products.stock(pid))

	_, err = f.engine.GetByID(context.Background(), m.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteOutsideWindowForbidden(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	f.clock.Advance(4 * 24 * time.Hour)

	err := f.engine.Delete(context.Background(), m.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
	assert.Equal(t, int64(10), f.products.stock(pid))
}

func TestDeleteExactlyAtWindowBoundaryAllowed(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	// 3 days plus a few hours still floors to 3 whole days.
	f.clock.Advance(3*24*time.Hour + 6*time.Hour)

	err := f.engine.Delete(context.Background(), m.ID)
	require.NoError(t, err)
}

func TestDeleteInactiveMovementSkipsReversal(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	_, err := f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), f.products.stock(pid))

	err = f.engine.Delete(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.products.stock(pid), "inactive movement must not reverse again")
}

// --- audit trail ---

func TestLifecycleAuditTrail(t *testing.T) {
	f := newFixture()
	pid := id.New()
	f.products.add(pid, "P-001", 0)
	m := registerEntry(t, f, pid, 10)

	_, err := f.engine.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)
	_, err = f.engine.Reactivate(context.Background(), m.ID)
	require.NoError(t, err)
	err = f.engine.Delete(context.Background(), m.ID)
	require.NoError(t, err)

	assert.Equal(t, []AuditAction{
		AuditActionRegister,
		AuditActionDeactivate,
		AuditActionReactivate,
		AuditActionDelete,
	}, f.audit.actions())
}
