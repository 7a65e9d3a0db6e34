package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mesapos/api/internal/database"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr == nil {
		m.committed = true
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return m.rollbackErr
}
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockStore implements every service store interface with configurable
// behavior. Calling a method whose func is nil panics.
type mockStore struct {
	getActiveMembershipRoleFn   func(ctx context.Context, arg database.GetActiveMembershipRoleParams) (database.MemberRole, error)
	createInventoryItemFn       func(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
	getInventoryItemFn          func(ctx context.Context, arg database.GetInventoryItemParams) (database.InventoryItem, error)
	getInventoryItemForUpdateFn func(ctx context.Context, arg database.GetInventoryItemForUpdateParams) (database.InventoryItem, error)
	movementExistsFn            func(ctx context.Context, arg database.MovementExistsParams) (bool, error)
	orderInBusinessFn           func(ctx context.Context, arg database.OrderInBusinessParams) (bool, error)
	updateItemStockFn           func(ctx context.Context, arg database.UpdateItemStockParams) error
	createInventoryMovementFn   func(ctx context.Context, arg database.CreateInventoryMovementParams) (database.InventoryMovement, error)
	listMovementsByItemFn       func(ctx context.Context, arg database.ListMovementsByItemParams) ([]database.InventoryMovement, error)

	getBusinessLimitsFn         func(ctx context.Context, id uuid.UUID) (database.GetBusinessLimitsRow, error)
	countActiveProductsFn       func(ctx context.Context, businessID uuid.UUID) (int64, error)
	countPaidPaymentsInWindowFn func(ctx context.Context, arg database.CountPaidPaymentsInWindowParams) (int64, error)
	countMembershipsFn          func(ctx context.Context, businessID uuid.UUID) (int64, error)

	userHasMembershipFn func(ctx context.Context, userID uuid.UUID) (bool, error)
	createBusinessFn    func(ctx context.Context, arg database.CreateBusinessParams) (database.Business, error)
	createMembershipFn  func(ctx context.Context, arg database.CreateMembershipParams) (database.BusinessMembership, error)
	getBusinessFn       func(ctx context.Context, id uuid.UUID) (database.Business, error)

	createOrderFn            func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	getOrderFn               func(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	getOrderForUpdateFn      func(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	updateOrderStatusFn      func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	createOrderStatusEventFn func(ctx context.Context, arg database.CreateOrderStatusEventParams) (database.OrderStatusEvent, error)

	createProductFn     func(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	softDeleteProductFn func(ctx context.Context, arg database.SoftDeleteProductParams) (database.Product, error)

	getSubscriptionStatusFn func(ctx context.Context, businessID uuid.UUID) (database.GetSubscriptionStatusRow, error)
}

func (m *mockStore) GetActiveMembershipRole(ctx context.Context, arg database.GetActiveMembershipRoleParams) (database.MemberRole, error) {
	return m.getActiveMembershipRoleFn(ctx, arg)
}
func (m *mockStore) CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error) {
	return m.createInventoryItemFn(ctx, arg)
}
func (m *mockStore) GetInventoryItem(ctx context.Context, arg database.GetInventoryItemParams) (database.InventoryItem, error) {
	return m.getInventoryItemFn(ctx, arg)
}
func (m *mockStore) GetInventoryItemForUpdate(ctx context.Context, arg database.GetInventoryItemForUpdateParams) (database.InventoryItem, error) {
	return m.getInventoryItemForUpdateFn(ctx, arg)
}
func (m *mockStore) MovementExists(ctx context.Context, arg database.MovementExistsParams) (bool, error) {
	return m.movementExistsFn(ctx, arg)
}
func (m *mockStore) OrderInBusiness(ctx context.Context, arg database.OrderInBusinessParams) (bool, error) {
	return m.orderInBusinessFn(ctx, arg)
}
func (m *mockStore) UpdateItemStock(ctx context.Context, arg database.UpdateItemStockParams) error {
	return m.updateItemStockFn(ctx, arg)
}
func (m *mockStore) CreateInventoryMovement(ctx context.Context, arg database.CreateInventoryMovementParams) (database.InventoryMovement, error) {
	return m.createInventoryMovementFn(ctx, arg)
}
func (m *mockStore) ListMovementsByItem(ctx context.Context, arg database.ListMovementsByItemParams) ([]database.InventoryMovement, error) {
	return m.listMovementsByItemFn(ctx, arg)
}
func (m *mockStore) GetBusinessLimits(ctx context.Context, id uuid.UUID) (database.GetBusinessLimitsRow, error) {
	return m.getBusinessLimitsFn(ctx, id)
}
func (m *mockStore) CountActiveProducts(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return m.countActiveProductsFn(ctx, businessID)
}
func (m *mockStore) CountPaidPaymentsInWindow(ctx context.Context, arg database.CountPaidPaymentsInWindowParams) (int64, error) {
	return m.countPaidPaymentsInWindowFn(ctx, arg)
}
func (m *mockStore) CountMemberships(ctx context.Context, businessID uuid.UUID) (int64, error) {
	return m.countMembershipsFn(ctx, businessID)
}
func (m *mockStore) UserHasMembership(ctx context.Context, userID uuid.UUID) (bool, error) {
	return m.userHasMembershipFn(ctx, userID)
}
func (m *mockStore) CreateBusiness(ctx context.Context, arg database.CreateBusinessParams) (database.Business, error) {
	return m.createBusinessFn(ctx, arg)
}
func (m *mockStore) CreateMembership(ctx context.Context, arg database.CreateMembershipParams) (database.BusinessMembership, error) {
	return m.createMembershipFn(ctx, arg)
}
func (m *mockStore) GetBusiness(ctx context.Context, id uuid.UUID) (database.Business, error) {
	return m.getBusinessFn(ctx, id)
}
func (m *mockStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	return m.createOrderFn(ctx, arg)
}
func (m *mockStore) GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
	return m.getOrderFn(ctx, arg)
}
func (m *mockStore) GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error) {
	return m.getOrderForUpdateFn(ctx, arg)
}
func (m *mockStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	return m.updateOrderStatusFn(ctx, arg)
}
func (m *mockStore) CreateOrderStatusEvent(ctx context.Context, arg database.CreateOrderStatusEventParams) (database.OrderStatusEvent, error) {
	return m.createOrderStatusEventFn(ctx, arg)
}
func (m *mockStore) CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error) {
	return m.createProductFn(ctx, arg)
}
func (m *mockStore) SoftDeleteProduct(ctx context.Context, arg database.SoftDeleteProductParams) (database.Product, error) {
	return m.softDeleteProductFn(ctx, arg)
}
func (m *mockStore) GetSubscriptionStatus(ctx context.Context, businessID uuid.UUID) (database.GetSubscriptionStatusRow, error) {
	return m.getSubscriptionStatusFn(ctx, businessID)
}

// roleIs returns a membership lookup that always yields role.
func roleIs(role database.MemberRole) func(context.Context, database.GetActiveMembershipRoleParams) (database.MemberRole, error) {
	return func(context.Context, database.GetActiveMembershipRoleParams) (database.MemberRole, error) {
		return role, nil
	}
}

func noMembership(context.Context, database.GetActiveMembershipRoleParams) (database.MemberRole, error) {
	return "", pgx.ErrNoRows
}

// recordingNotifier captures every event.
type recordingNotifier struct {
	events []recordedEvent
}

type recordedEvent struct {
	businessID uuid.UUID
	eventType  string
	payload    any
}

func (r *recordingNotifier) Notify(_ context.Context, businessID uuid.UUID, eventType string, payload any) {
	r.events = append(r.events, recordedEvent{businessID: businessID, eventType: eventType, payload: payload})
}

// fixedEnforcer implements LimitEnforcer.
type fixedEnforcer struct {
	err   error
	calls []string
}

func (f *fixedEnforcer) Enforce(_ context.Context, _ uuid.UUID, limitType string) error {
	f.calls = append(f.calls, limitType)
	return f.err
}

// --- Helpers ---

func testLogger() *zap.Logger { return zap.NewNop() }

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// expectInfoOnly fails when anything was logged above Info, and requires msg
// to have been logged at Info.
func expectInfoOnly(t *testing.T, logs *observer.ObservedLogs, msg string) {
	t.Helper()
	for _, e := range logs.All() {
		if e.Level > zapcore.InfoLevel {
			t.Errorf("%q logged at %s", e.Message, e.Level)
		}
	}
	if logs.FilterMessage(msg).FilterLevelExact(zapcore.InfoLevel).Len() == 0 {
		t.Errorf("no info entry %q", msg)
	}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint, Message: "violates foreign key constraint"}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var fixedNow = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
