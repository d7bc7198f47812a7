package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/cartview/internal/enum"
	mw "github.com/kiwari-pos/cartview/internal/middleware"
	"github.com/kiwari-pos/cartview/internal/orderview"
	"github.com/kiwari-pos/cartview/internal/service"
	"go.uber.org/zap"
)

const maxPayloadBytes = 1 << 20

// CartServicer defines the service methods needed by cart handlers.
// Satisfied by *service.CartService; narrow interface for testability.
type CartServicer interface {
	PayloadCart(order orderview.Order) []orderview.AggregatedLine
	PayloadReady(order orderview.Order) []orderview.ReadyTicket
	Cart(ctx context.Context, outletID, orderID uuid.UUID) (*service.CartResult, error)
	ReadyList(ctx context.Context, outletID uuid.UUID) ([]orderview.ReadyTicket, error)
	TransitionLine(ctx context.Context, req service.TransitionRequest) (*service.CartResult, error)
}

// Publisher pushes realtime events to an outlet. Satisfied by *ws.Hub.
type Publisher interface {
	Publish(outletID uuid.UUID, eventType string, payload any) error
}

// CartHandler serves cart and kitchen views.
type CartHandler struct {
	svc    CartServicer
	events Publisher
	log    *zap.Logger
}

// NewCartHandler creates a new CartHandler. events may be nil.
func NewCartHandler(svc CartServicer, events Publisher, log *zap.Logger) *CartHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartHandler{svc: svc, events: events, log: log}
}

// RegisterRoutes registers cart endpoints.
// Expected to be mounted inside an outlet-scoped subrouter: /outlets/{oid}
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/views/cart", h.ViewCart)
	r.Post("/views/ready", h.ViewReady)
	r.Get("/orders/{id}/cart", h.GetCart)
	r.Get("/kitchen/ready", h.GetReady)
	r.With(mw.RequireRole(
		enum.UserRoleOwner,
		enum.UserRoleManager,
		enum.UserRoleCashier,
		enum.UserRoleKitchen,
	)).Post("/orders/{id}/lines/{lid}/transition", h.Transition)
}

// --- Request / Response types ---

type transitionRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

type linesResponse struct {
	Lines []orderview.AggregatedLine `json:"lines"`
}

type ticketsResponse struct {
	Tickets []orderview.ReadyTicket `json:"tickets"`
}

// CartUpdatedEvent is the payload of a cart.updated event.
type CartUpdatedEvent struct {
	OrderID uuid.UUID                  `json:"order_id"`
	Lines   []orderview.AggregatedLine `json:"lines"`
}

// KitchenReadyEvent is the payload of a kitchen.ready event.
type KitchenReadyEvent struct {
	Tickets []orderview.ReadyTicket `json:"tickets"`
}

// --- Handlers ---

// ViewCart aggregates a raw order payload without storing it.
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	order, ok := readOrderPayload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, linesResponse{Lines: h.svc.PayloadCart(order)})
}

// ViewReady projects the ready tickets of a raw order payload.
func (h *CartHandler) ViewReady(w http.ResponseWriter, r *http.Request) {
	order, ok := readOrderPayload(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ticketsResponse{Tickets: h.svc.PayloadReady(order)})
}

// GetCart returns the cart view of a stored order.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrder(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Cart(r.Context(), outletID, orderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetReady returns the ready list of the outlet's open orders.
func (h *CartHandler) GetReady(w http.ResponseWriter, r *http.Request) {
	outletID, err := uuid.Parse(chi.URLParam(r, "oid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return
	}

	tickets, err := h.svc.ReadyList(r.Context(), outletID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticketsResponse{Tickets: tickets})
}

// Transition moves records of one aggregated line to a later status and
// notifies the outlet's displays.
func (h *CartHandler) Transition(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrder(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.From == "" || req.To == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from and to are required"})
		return
	}
	if req.Count < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be >= 0"})
		return
	}

	result, err := h.svc.TransitionLine(r.Context(), service.TransitionRequest{
		OutletID: outletID,
		OrderID:  orderID,
		LineID:   chi.URLParam(r, "lid"),
		From:     req.From,
		To:       req.To,
		Count:    req.Count,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.publish(outletID, enum.EventCartUpdated, CartUpdatedEvent{OrderID: result.OrderID, Lines: result.Lines})
	if affectsReadyList(req.From, req.To) {
		h.publishReady(r.Context(), outletID)
	}

	writeJSON(w, http.StatusOK, result)
}

// --- Helpers ---

func readOrderPayload(w http.ResponseWriter, r *http.Request) (orderview.Order, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
			return orderview.Order{}, false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read request body"})
		return orderview.Order{}, false
	}
	order, err := orderview.ParseOrder(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed order payload"})
		return orderview.Order{}, false
	}
	return order, true
}

func outletAndOrder(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	outletID, err := uuid.Parse(chi.URLParam(r, "oid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return uuid.Nil, uuid.Nil, false
	}
	return outletID, orderID, true
}

// affectsReadyList reports whether a move enters or leaves completed.
func affectsReadyList(from, to string) bool {
	return orderview.ParseStatus(from) == orderview.StatusCompleted ||
		orderview.ParseStatus(to) == orderview.StatusCompleted
}

func (h *CartHandler) publishReady(ctx context.Context, outletID uuid.UUID) {
	tickets, err := h.svc.ReadyList(ctx, outletID)
	if err != nil {
		h.log.Error("load ready list for broadcast", zap.Stringer("outlet_id", outletID), zap.Error(err))
		return
	}
	h.publish(outletID, enum.EventKitchenReady, KitchenReadyEvent{Tickets: tickets})
}

func (h *CartHandler) publish(outletID uuid.UUID, eventType string, payload any) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(outletID, eventType, payload); err != nil {
		h.log.Error("publish event", zap.String("type", eventType), zap.Error(err))
	}
}

func (h *CartHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, service.ErrLineNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "line not found"})
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidTransition):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrStaleLine),
		errors.Is(err, service.ErrNothingToTransition),
		errors.Is(err, service.ErrOrderClosed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Error("cart request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
