//go:build integration

package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/cartview/internal/database"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("cartview_test"),
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
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	if err := database.Migrate(connStr); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Second run is a no-op.
	if err := database.Migrate(connStr); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func TestIntegrationOrderQueries(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	q := database.New(pool)
	outletID := uuid.New()

	order, err := q.CreateOrder(ctx, database.CreateOrderParams{OutletID: outletID, TableNumber: text("T4")})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != "OPEN" {
		t.Errorf("order status: got %q, want OPEN", order.Status)
	}

	var price pgtype.Numeric
	if err := price.Scan("25000.00"); err != nil {
		t.Fatalf("scan price: %v", err)
	}

	burger, err := q.CreateOrderItem(ctx, database.CreateOrderItemParams{
		OrderID:         order.ID,
		InventoryItemID: text("burger"),
		Name:            text("Burger"),
		UnitPrice:       price,
		Quantity:        2,
		Status:          "pending",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if burger.Toppings == nil || len(burger.Toppings) != 0 {
		t.Errorf("toppings: got %#v, want empty slice", burger.Toppings)
	}

	if _, err := q.CreateOrderItem(ctx, database.CreateOrderItemParams{
		OrderID:      order.ID,
		ItemID:       text("cheese"),
		Name:         text("Cheese"),
		Quantity:     1,
		Status:       "completed",
		Toppings:     []string{"extra"},
		IsTopping:    true,
		ParentItemID: text(burger.ID.String()),
	}); err != nil {
		t.Fatalf("create topping: %v", err)
	}

	if _, err := q.CreateOrderCombo(ctx, database.CreateOrderComboParams{
		OrderID:  order.ID,
		ComboRef: "c1",
		Name:     "Lunch",
		Price:    price,
	}); err != nil {
		t.Fatalf("create combo: %v", err)
	}

	got, err := q.GetOrder(ctx, database.GetOrderParams{ID: order.ID, OutletID: outletID})
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.TableNumber.String != "T4" {
		t.Errorf("table: got %q, want T4", got.TableNumber.String)
	}

	if _, err := q.GetOrder(ctx, database.GetOrderParams{ID: order.ID, OutletID: uuid.New()}); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("get order from other outlet: got %v, want ErrNoRows", err)
	}

	items, err := q.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items: got %d, want 2", len(items))
	}

	combos, err := q.ListOrderCombosByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("list combos: %v", err)
	}
	if len(combos) != 1 || combos[0].ComboRef != "c1" {
		t.Fatalf("combos: got %+v", combos)
	}

	ready, err := q.ListOrderItemsByOutletAndStatus(ctx, database.ListOrderItemsByOutletAndStatusParams{
		OutletID: outletID,
		Status:   "completed",
	})
	if err != nil {
		t.Fatalf("list ready: %v", err)
	}
	if len(ready) != 1 || ready[0].OrderTableNumber.String != "T4" {
		t.Fatalf("ready rows: got %+v", ready)
	}

	moved, err := q.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
		ID:         burger.ID,
		OrderID:    order.ID,
		FromStatus: "pending",
		ToStatus:   "preparing",
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if moved.Status != "preparing" {
		t.Errorf("status: got %q, want preparing", moved.Status)
	}

	// The record is no longer pending, so the guarded update matches nothing.
	_, err = q.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
		ID:         burger.ID,
		OrderID:    order.ID,
		FromStatus: "pending",
		ToStatus:   "preparing",
	})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("stale update: got %v, want ErrNoRows", err)
	}
}

func TestIntegrationUserQueries(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)
	q := database.New(pool)

	created, err := q.CreateUser(ctx, database.CreateUserParams{
		OutletID:     uuid.New(),
		Email:        "kitchen@example.com",
		PasswordHash: "hash",
		FullName:     "Kitchen",
		Role:         "KITCHEN",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	byEmail, err := q.GetUserByEmail(ctx, "kitchen@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("id: got %v, want %v", byEmail.ID, created.ID)
	}

	byID, err := q.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Role != "KITCHEN" {
		t.Errorf("role: got %q, want KITCHEN", byID.Role)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck
	if _, err := q.WithTx(tx).GetUserByID(ctx, created.ID); err != nil {
		t.Fatalf("get in tx: %v", err)
	}
}
