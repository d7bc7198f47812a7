package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/cartview/internal/config"
	"github.com/kiwari-pos/cartview/internal/database"
	"github.com/kiwari-pos/cartview/internal/enum"
	"github.com/kiwari-pos/cartview/internal/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Owner email address")
	password := flag.String("password", "", "Owner password")
	name := flag.String("name", "", "Owner full name")
	outlet := flag.String("outlet", "", "Outlet ID (random when empty)")
	demo := flag.Bool("demo", true, "Also create a demo order")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.LogLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	// Fall back to environment variables, then defaults
	*email = firstNonEmpty(*email, os.Getenv("SEED_EMAIL"), "admin@kiwari.com")
	*name = firstNonEmpty(*name, os.Getenv("SEED_NAME"), "Admin Kiwari")
	*password = firstNonEmpty(*password, os.Getenv("SEED_PASSWORD"))
	if *password == "" {
		*password = "password123"
		log.Warn("using default password 'password123', change immediately in production")
	}

	outletID := uuid.New()
	if *outlet != "" {
		if outletID, err = uuid.Parse(*outlet); err != nil {
			log.Fatal("invalid -outlet", zap.Error(err))
		}
	}

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal("unable to ping database", zap.Error(err))
	}

	// Seed in a transaction: owner + demo order or nothing
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal("begin transaction", zap.Error(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	q := database.New(tx)

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}
	owner, err := q.CreateUser(ctx, database.CreateUserParams{
		OutletID:     outletID,
		Email:        *email,
		PasswordHash: string(hashed),
		FullName:     *name,
		Role:         enum.UserRoleOwner,
	})
	if err != nil {
		log.Fatal("seed owner", zap.Error(err))
	}
	// An existing owner keeps its outlet.
	outletID = owner.OutletID

	var orderID uuid.UUID
	if *demo {
		if orderID, err = seedDemoOrder(ctx, q, outletID); err != nil {
			log.Fatal("seed demo order", zap.Error(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatal("commit", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Stringer("outlet_id", outletID),
		zap.Stringer("owner_id", owner.ID),
		zap.Stringer("demo_order_id", orderID),
	)
}

// seedDemoOrder creates an open order whose cart view shows merging, a combo
// and an attached topping.
func seedDemoOrder(ctx context.Context, q *database.Queries, outletID uuid.UUID) (uuid.UUID, error) {
	order, err := q.CreateOrder(ctx, database.CreateOrderParams{
		OutletID:    outletID,
		TableNumber: pgtype.Text{String: "A1", Valid: true},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create order: %w", err)
	}

	if _, err := q.CreateOrderCombo(ctx, database.CreateOrderComboParams{
		OrderID:  order.ID,
		ComboRef: "paket-hemat",
		Name:     "Paket Hemat",
		Price:    database.NumericFromDecimal(decimal.NewFromInt(35000)),
	}); err != nil {
		return uuid.Nil, fmt.Errorf("create combo: %w", err)
	}

	item := func(inventoryID, name string, price int64, qty int32, status string) database.CreateOrderItemParams {
		return database.CreateOrderItemParams{
			OrderID:         order.ID,
			InventoryItemID: pgtype.Text{String: inventoryID, Valid: true},
			Name:            pgtype.Text{String: name, Valid: true},
			UnitPrice:       database.NumericFromDecimal(decimal.NewFromInt(price)),
			Quantity:        qty,
			Status:          status,
		}
	}

	// Two records of the same dish merge into one cart line.
	rice, err := q.CreateOrderItem(ctx, item("nasi-bakar-ayam", "Nasi Bakar Ayam", 25000, 1, enum.OrderItemStatusPending))
	if err != nil {
		return uuid.Nil, fmt.Errorf("create item: %w", err)
	}
	if _, err := q.CreateOrderItem(ctx, item("nasi-bakar-ayam", "Nasi Bakar Ayam", 25000, 2, enum.OrderItemStatusCompleted)); err != nil {
		return uuid.Nil, fmt.Errorf("create item: %w", err)
	}

	combo := item("es-teh", "Es Teh", 5000, 1, enum.OrderItemStatusPending)
	combo.ComboRef = pgtype.Text{String: "paket-hemat", Valid: true}
	if _, err := q.CreateOrderItem(ctx, combo); err != nil {
		return uuid.Nil, fmt.Errorf("create combo item: %w", err)
	}

	topping := item("sambal-matah", "Sambal Matah", 3000, 1, enum.OrderItemStatusPending)
	topping.IsTopping = true
	topping.ParentItemID = pgtype.Text{String: rice.ID.String(), Valid: true}
	if _, err := q.CreateOrderItem(ctx, topping); err != nil {
		return uuid.Nil, fmt.Errorf("create topping: %w", err)
	}

	return order.ID, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
