package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kiwari-pos/cartview/internal/database"
	"github.com/kiwari-pos/cartview/internal/enum"
	"github.com/kiwari-pos/cartview/internal/metrics"
	"github.com/kiwari-pos/cartview/internal/orderview"
	"go.uber.org/zap"
)

// Errors returned by the cart service.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrLineNotFound        = errors.New("line not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTransition   = errors.New("status can only move forward")
	ErrStaleLine           = errors.New("line changed concurrently, reload and retry")
	ErrOrderClosed         = errors.New("order is not open")
	ErrNothingToTransition = orderview.ErrNothingToTransition
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CartStore defines the DB methods needed to build and update cart views.
// Satisfied by *database.Queries (and its WithTx variant).
type CartStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderCombosByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderCombo, error)
	ListOrderItemsByOutletAndStatus(ctx context.Context, arg database.ListOrderItemsByOutletAndStatusParams) ([]database.ListOrderItemsByOutletAndStatusRow, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
}

// NewCartStore creates a CartStore from a DBTX (pool or tx).
type NewCartStore func(db database.DBTX) CartStore

// CartResult is the consolidated view of one stored order.
type CartResult struct {
	OrderID uuid.UUID                  `json:"order_id"`
	Table   string                     `json:"table,omitempty"`
	Status  string                     `json:"status"`
	Lines   []orderview.AggregatedLine `json:"lines"`
}

// TransitionRequest moves Count records of the aggregate LineID from one
// status to the next. Count <= 0 moves every record in From.
type TransitionRequest struct {
	OutletID uuid.UUID
	OrderID  uuid.UUID
	LineID   string
	From     string
	To       string
	Count    int
}

// CartService builds cart and kitchen views from stored orders and raw
// payloads, and applies kitchen status changes.
type CartService struct {
	pool     TxBeginner
	store    CartStore
	newStore NewCartStore
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewCartService creates a new CartService. store serves reads outside a
// transaction; newStore binds a store to a transaction for updates.
func NewCartService(pool TxBeginner, store CartStore, newStore NewCartStore, m *metrics.Metrics, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{pool: pool, store: store, newStore: newStore, metrics: m, log: log}
}

// PayloadCart builds the cart view for an order payload that was never stored.
func (s *CartService) PayloadCart(order orderview.Order) []orderview.AggregatedLine {
	lines := orderview.BuildCart(order)
	s.metrics.CartBuilt(metrics.SourcePayload, len(lines))
	return lines
}

// PayloadReady projects the ready tickets of an order payload.
func (s *CartService) PayloadReady(order orderview.Order) []orderview.ReadyTicket {
	tickets := orderview.ProjectReady(order)
	s.metrics.ReadyProjected(len(tickets))
	return tickets
}

// Cart loads a stored order of the outlet and builds its cart view.
func (s *CartService) Cart(ctx context.Context, outletID, orderID uuid.UUID) (*CartResult, error) {
	result, err := loadCart(ctx, s.store, outletID, orderID)
	if err != nil {
		return nil, err
	}
	s.metrics.CartBuilt(metrics.SourceStored, len(result.Lines))
	return result, nil
}

// ReadyList returns the ready tickets of every open order in the outlet,
// oldest order first.
func (s *CartService) ReadyList(ctx context.Context, outletID uuid.UUID) ([]orderview.ReadyTicket, error) {
	rows, err := s.store.ListOrderItemsByOutletAndStatus(ctx, database.ListOrderItemsByOutletAndStatusParams{
		OutletID: outletID,
		Status:   enum.OrderItemStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("list completed items: %w", err)
	}

	tickets := make([]orderview.ReadyTicket, 0, len(rows))
	for _, order := range groupByOrder(rows) {
		tickets = append(tickets, orderview.ProjectReady(order)...)
	}
	s.metrics.ReadyProjected(len(tickets))
	return tickets, nil
}

// TransitionLine moves records of one aggregated line forward and returns
// the refreshed cart. Every record is updated in one transaction, guarded by
// its expected current status.
func (s *CartService) TransitionLine(ctx context.Context, req TransitionRequest) (*CartResult, error) {
	from := orderview.ParseStatus(req.From)
	to := orderview.ParseStatus(req.To)
	if from == "" || to == "" {
		return nil, ErrInvalidStatus
	}
	if rank(to) <= rank(from) {
		return nil, ErrInvalidTransition
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	current, err := loadCart(ctx, store, req.OutletID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if current.Status != enum.OrderStatusOpen {
		return nil, ErrOrderClosed
	}

	line, ok := orderview.FindLine(current.Lines, req.LineID)
	if !ok {
		return nil, ErrLineNotFound
	}

	ids, err := orderview.PlanTransition(line, from, req.Count)
	if err != nil {
		return nil, err
	}

	// --- Move each backing record ---
	for _, id := range ids {
		itemID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", id, ErrLineNotFound)
		}
		_, err = store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
			ID:         itemID,
			OrderID:    req.OrderID,
			FromStatus: string(from),
			ToStatus:   string(to),
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrStaleLine
			}
			return nil, fmt.Errorf("update item status: %w", err)
		}
	}

	refreshed, err := loadCart(ctx, store, req.OutletID, req.OrderID)
	if err != nil {
		return nil, err
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.metrics.LinesTransitioned(string(from), string(to), len(ids))
	s.log.Info("order line transitioned",
		zap.Stringer("order_id", req.OrderID),
		zap.String("line_id", req.LineID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int("records", len(ids)),
	)
	return refreshed, nil
}

func loadCart(ctx context.Context, store CartStore, outletID, orderID uuid.UUID) (*CartResult, error) {
	order, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	combos, err := store.ListOrderCombosByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order combos: %w", err)
	}

	return &CartResult{
		OrderID: order.ID,
		Table:   order.TableNumber.String,
		Status:  order.Status,
		Lines:   orderview.BuildCart(orderToView(order, items, combos)),
	}, nil
}

// rank is the position of s in the fulfillment sequence.
func rank(s orderview.Status) int {
	for i, st := range orderview.Statuses() {
		if st == s {
			return i
		}
	}
	return -1
}
