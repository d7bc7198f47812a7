//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/cartview/internal/config"
	"github.com/kiwari-pos/cartview/internal/database"
	"github.com/kiwari-pos/cartview/internal/router"
	"github.com/kiwari-pos/cartview/internal/service"
	"github.com/kiwari-pos/cartview/internal/ws"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TestIntegrationFlow runs login, cart, transition and ready list against a
// real PostgreSQL database with every route wired through the router.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	pool := setupPostgres(t, ctx)
	queries := database.New(pool)

	outletID := uuid.New()
	createOwner(t, ctx, queries, outletID)
	orderID := createOrder(t, ctx, queries, outletID)

	cfg := &config.Config{
		JWTSecret:       "integration-test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub := ws.NewHub(zap.NewNop())
	go hub.Run(hubCtx)

	carts := service.NewCartService(pool, queries, func(db database.DBTX) service.CartStore {
		return database.New(db)
	}, nil, zap.NewNop())

	r := router.New(cfg, router.Deps{Users: queries, Carts: carts, Hub: hub})
	server := httptest.NewServer(r)
	defer server.Close()

	// --- 1. Login ---
	token := login(t, server, "owner@test.com", "password123")

	// --- 2. Cart merges the two burger records ---
	cart := httpJSON(t, server, http.MethodGet, fmt.Sprintf("/outlets/%s/orders/%s/cart", outletID, orderID), nil, token)
	lines := cart["lines"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("cart lines: got %d, want 1", len(lines))
	}
	line := lines[0].(map[string]interface{})
	if line["total_quantity"].(float64) != 3 {
		t.Fatalf("total_quantity: got %v, want 3", line["total_quantity"])
	}
	lineID := line["id"].(string)

	// --- 3. Move every pending record straight to completed ---
	moved := httpJSON(t, server, http.MethodPost,
		fmt.Sprintf("/outlets/%s/orders/%s/lines/%s/transition", outletID, orderID, lineID),
		map[string]interface{}{"from": "pending", "to": "completed"}, token)
	movedLine := moved["lines"].([]interface{})[0].(map[string]interface{})
	if movedLine["status"].(string) != "completed" {
		t.Fatalf("line status: got %v, want completed", movedLine["status"])
	}

	// --- 4. Ready list has one ticket per completed record ---
	ready := httpJSON(t, server, http.MethodGet, fmt.Sprintf("/outlets/%s/kitchen/ready", outletID), nil, token)
	tickets := ready["tickets"].([]interface{})
	if len(tickets) != 2 {
		t.Fatalf("tickets: got %d, want 2", len(tickets))
	}
	var completed float64
	for _, raw := range tickets {
		ticket := raw.(map[string]interface{})
		completed += ticket["completed_quantity"].(float64)
		if ticket["table"].(string) != "T7" {
			t.Fatalf("table: got %v, want T7", ticket["table"])
		}
	}
	if completed != 3 {
		t.Fatalf("completed quantity: got %v, want 3", completed)
	}

	// --- 5. Repeating the move finds nothing left in pending ---
	status, _ := doRequest(t, server, http.MethodPost,
		fmt.Sprintf("/outlets/%s/orders/%s/lines/%s/transition", outletID, orderID, lineID),
		map[string]interface{}{"from": "pending", "to": "completed"}, token)
	if status != http.StatusConflict {
		t.Fatalf("repeat transition: got %d, want %d", status, http.StatusConflict)
	}
}

// --- Setup helpers ---

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

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func createOwner(t *testing.T, ctx context.Context, q *database.Queries, outletID uuid.UUID) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := q.CreateUser(ctx, database.CreateUserParams{
		OutletID:     outletID,
		Email:        "owner@test.com",
		PasswordHash: string(hash),
		FullName:     "Test Owner",
		Role:         "OWNER",
	}); err != nil {
		t.Fatalf("create owner: %v", err)
	}
}

// createOrder stores an open order with the same burger split over two records.
func createOrder(t *testing.T, ctx context.Context, q *database.Queries, outletID uuid.UUID) uuid.UUID {
	t.Helper()
	order, err := q.CreateOrder(ctx, database.CreateOrderParams{
		OutletID:    outletID,
		TableNumber: pgtype.Text{String: "T7", Valid: true},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	for _, qty := range []int32{2, 1} {
		if _, err := q.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:         order.ID,
			InventoryItemID: pgtype.Text{String: "burger", Valid: true},
			Name:            pgtype.Text{String: "Burger", Valid: true},
			UnitPrice:       database.NumericFromDecimal(decimal.NewFromInt(25000)),
			Quantity:        qty,
			Status:          "pending",
		}); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}
	return order.ID
}

// --- HTTP helpers ---

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()
	resp := httpJSON(t, server, http.MethodPost, "/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	}, "")
	token, ok := resp["access_token"].(string)
	if !ok || token == "" {
		t.Fatalf("login failed: no access_token in response: %+v", resp)
	}
	return token
}

func doRequest(t *testing.T, server *httptest.Server, method, path string, body map[string]interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result) //nolint:errcheck
	return resp.StatusCode, result
}

func httpJSON(t *testing.T, server *httptest.Server, method, path string, body map[string]interface{}, token string) map[string]interface{} {
	t.Helper()
	status, result := doRequest(t, server, method, path, body, token)
	if status < 200 || status >= 300 {
		t.Fatalf("%s %s: status %d, body: %v", method, path, status, result)
	}
	return result
}
