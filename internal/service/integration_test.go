//go:build integration

package service_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mesapos/api/internal/database"
	"github.com/mesapos/api/internal/enum"
	"github.com/mesapos/api/internal/service"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// TestIntegration runs the transactional core against a real PostgreSQL.
func TestIntegration(t *testing.T) {
	ctx := context.Background()

	connStr, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()
	runMigrations(t, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	env := newEnv(pool)

	t.Run("concurrent movements on one item", func(t *testing.T) { testConcurrentMovements(t, env) })
	t.Run("sale retry storm", func(t *testing.T) { testSaleRetryStorm(t, env) })
	t.Run("concurrent provisioning", func(t *testing.T) { testConcurrentProvisioning(t, env) })
	t.Run("blocked user", func(t *testing.T) { testBlockedUser(t, env) })
	t.Run("users quota", func(t *testing.T) { testUsersQuota(t, env) })
}

type env struct {
	pool      *pgxpool.Pool
	queries   *database.Queries
	business  *service.BusinessService
	inventory *service.InventoryService
	orders    *service.OrderService
	members   *service.MembershipService
	quota     *service.QuotaService
}

func newEnv(pool *pgxpool.Pool) *env {
	log := zap.NewNop()
	queries := database.New(pool)
	quota := service.NewQuotaService(queries, time.UTC, log)
	return &env{
		pool:    pool,
		queries: queries,
		business: service.NewBusinessService(pool, queries,
			func(db database.DBTX) service.BusinessStore { return database.New(db) }, queries, log),
		inventory: service.NewInventoryService(pool, queries,
			func(db database.DBTX) service.InventoryStore { return database.New(db) }, nil, nil, log),
		orders: service.NewOrderService(pool, queries,
			func(db database.DBTX) service.OrderStore { return database.New(db) }, quota, nil, log),
		members: service.NewMembershipService(queries, quota),
		quota:   quota,
	}
}

// provision creates a business owned by a fresh user.
func (e *env) provision(t *testing.T) (businessID, ownerID uuid.UUID) {
	t.Helper()
	ownerID = uuid.New()
	res, err := e.business.CreateBusinessAndOwnerMembership(context.Background(), service.CreateBusinessRequest{
		ActorUserID: ownerID,
		Name:        "Test Kitchen",
		Type:        "restaurant",
	})
	if err != nil || !res.Success {
		t.Fatalf("provision: %+v, %v", res, err)
	}
	return res.BusinessID, ownerID
}

func (e *env) stockedItem(t *testing.T, businessID, ownerID uuid.UUID, stock, min int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	item, err := e.inventory.CreateItem(ctx, service.CreateItemRequest{
		BusinessID:  businessID,
		ActorUserID: ownerID,
		Name:        "Rice",
		Unit:        "kg",
		StockMin:    decimal.NewFromInt(min),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	_, err = e.inventory.ApplyMovement(ctx, service.ApplyMovementRequest{
		ItemID:      item.ID,
		BusinessID:  businessID,
		Type:        database.MovementTypePurchase,
		Delta:       decimal.NewFromInt(stock),
		ActorUserID: ownerID,
	})
	if err != nil {
		t.Fatalf("opening stock: %v", err)
	}
	return item.ID
}

func testConcurrentMovements(t *testing.T, e *env) {
	ctx := context.Background()
	businessID, ownerID := e.provision(t)
	itemID := e.stockedItem(t, businessID, ownerID, 100, 5)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.inventory.ApplyMovement(ctx, service.ApplyMovementRequest{
				ItemID:      itemID,
				BusinessID:  businessID,
				Type:        database.MovementTypeWaste,
				Delta:       decimal.NewFromInt(-1),
				Reason:      "spill",
				ActorUserID: ownerID,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("movement: %v", err)
		}
	}

	v, err := e.inventory.VerifyStock(ctx, businessID, itemID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !v.Stored.Equal(decimal.NewFromInt(80)) || v.Movements != workers+1 || !v.Consistent {
		t.Errorf("got %+v, want stock 80 over %d movements", v, workers+1)
	}
}

func testSaleRetryStorm(t *testing.T, e *env) {
	ctx := context.Background()
	businessID, ownerID := e.provision(t)
	itemID := e.stockedItem(t, businessID, ownerID, 10, 5)

	order, err := e.orders.CreateOrder(ctx, service.CreateOrderRequest{BusinessID: businessID, ActorUserID: ownerID})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	const retries = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		applied    int
		duplicates int
		lowAfter   bool
	)
	for i := 0; i < retries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.inventory.ApplyMovement(ctx, service.ApplyMovementRequest{
				ItemID:      itemID,
				BusinessID:  businessID,
				Type:        database.MovementTypeAutoSale,
				Delta:       decimal.NewFromInt(-6),
				ActorUserID: ownerID,
				RefOrderID:  &order.ID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				applied++
				lowAfter = res.IsLow
			case errors.Is(err, service.ErrDuplicateMovement):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if applied != 1 || duplicates != retries-1 {
		t.Fatalf("applied=%d duplicates=%d", applied, duplicates)
	}
	if !lowAfter {
		t.Error("stock 4 against min 5 should be low")
	}

	movements, err := e.inventory.ListMovements(ctx, businessID, itemID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movements: got %d, want 2", len(movements))
	}

	// A reversal for the same order is a different movement.
	res, err := e.inventory.ApplyMovement(ctx, service.ApplyMovementRequest{
		ItemID:      itemID,
		BusinessID:  businessID,
		Type:        database.MovementTypeSaleReversal,
		Delta:       decimal.NewFromInt(6),
		ActorUserID: ownerID,
		RefOrderID:  &order.ID,
	})
	if err != nil {
		t.Fatalf("reversal: %v", err)
	}
	if !res.NewStock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("after reversal: got %s, want 10", res.NewStock)
	}

	otherBusiness, otherOwner := e.provision(t)
	otherOrder, err := e.orders.CreateOrder(ctx, service.CreateOrderRequest{BusinessID: otherBusiness, ActorUserID: otherOwner})
	if err != nil {
		t.Fatalf("create other order: %v", err)
	}
	_, err = e.inventory.ApplyMovement(ctx, service.ApplyMovementRequest{
		ItemID:      itemID,
		BusinessID:  businessID,
		Type:        database.MovementTypeAutoSale,
		Delta:       decimal.NewFromInt(-1),
		ActorUserID: ownerID,
		RefOrderID:  &otherOrder.ID,
	})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("order of another business: got %v, want ErrNotFound", err)
	}
}

func testConcurrentProvisioning(t *testing.T, e *env) {
	ctx := context.Background()
	userID := uuid.New()

	const attempts = 8
	results := make(chan *service.ProvisionResult, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.business.CreateBusinessAndOwnerMembership(ctx, service.CreateBusinessRequest{
				ActorUserID: userID,
				Name:        "Race Cafe",
				Type:        "cafe",
			})
			if err != nil {
				t.Errorf("provision: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for res := range results {
		switch {
		case res.Success:
			succeeded++
		case res.Code != enum.CodeAlreadyHasBusiness:
			t.Errorf("unexpected rejection: %+v", res)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded: got %d, want 1", succeeded)
	}

	var businesses int
	if err := e.pool.QueryRow(ctx, `SELECT count(*) FROM businesses WHERE created_by = $1`, userID).Scan(&businesses); err != nil {
		t.Fatalf("count businesses: %v", err)
	}
	if businesses != 1 {
		t.Errorf("businesses left behind by losing attempts: %d", businesses)
	}
}

func testBlockedUser(t *testing.T, e *env) {
	ctx := context.Background()
	userID := uuid.New()
	if _, err := e.pool.Exec(ctx, `INSERT INTO user_blocks (user_id, reason) VALUES ($1, 'fraud')`, userID); err != nil {
		t.Fatalf("block user: %v", err)
	}

	res, err := e.business.CreateBusinessAndOwnerMembership(ctx, service.CreateBusinessRequest{
		ActorUserID: userID,
		Name:        "Blocked Bistro",
		Type:        "bistro",
	})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if res.Success || res.Code != enum.CodeAccountBlocked {
		t.Fatalf("got %+v", res)
	}
}

func testUsersQuota(t *testing.T, e *env) {
	ctx := context.Background()
	businessID, ownerID := e.provision(t)

	// Owner plus two staff reach the default of 3.
	for _, role := range []database.MemberRole{database.MemberRoleCashier, database.MemberRoleKitchen} {
		if _, err := e.members.AddMember(ctx, service.AddMemberRequest{
			BusinessID:  businessID,
			ActorUserID: ownerID,
			UserID:      uuid.New(),
			Role:        role,
		}); err != nil {
			t.Fatalf("add %s: %v", role, err)
		}
	}

	check, err := e.quota.CheckLimit(ctx, businessID, enum.LimitUsers)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if check.Allowed || check.Current != 3 || check.Limit != 3 {
		t.Fatalf("got %+v", check)
	}

	_, err = e.members.AddMember(ctx, service.AddMemberRequest{
		BusinessID:  businessID,
		ActorUserID: ownerID,
		UserID:      uuid.New(),
		Role:        database.MemberRoleWaiter,
	})
	if !errors.Is(err, service.ErrLimitExceeded) {
		t.Fatalf("fourth member: got %v, want ErrLimitExceeded", err)
	}
}

func setupPostgresContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}
	return connStr, cleanup
}

func runMigrations(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open db for migrations: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		t.Fatalf("create migrate driver: %v", err)
	}

	// Relative to internal/service, the test's working directory.
	m, err := migrate.NewWithDatabaseInstance("file://../../migrations", "postgres", driver)
	if err != nil {
		t.Fatalf("create migrate instance: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("run migrations: %v", err)
	}
}
