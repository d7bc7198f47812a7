package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/kiwari-pos/cartview/internal/auth"
	"github.com/kiwari-pos/cartview/internal/config"
	"github.com/kiwari-pos/cartview/internal/enum"
	"github.com/kiwari-pos/cartview/internal/handler"
	mw "github.com/kiwari-pos/cartview/internal/middleware"
	"github.com/kiwari-pos/cartview/internal/ws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Users   handler.AuthStore
	Carts   handler.CartServicer
	Hub     *ws.Hub
	Metrics prometheus.Gatherer
	Log     *zap.Logger
}

// New creates a Chi router with all application routes wired up.
// Applies authentication, outlet scoping, and role-based middleware as needed.
func New(cfg *config.Config, deps Deps) chi.Router {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.MetricsEnabled && deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	authHandler := handler.NewAuthHandler(deps.Users, tokens, log.Named("auth"))
	authHandler.RegisterRoutes(r)

	var events handler.Publisher
	if deps.Hub != nil {
		events = deps.Hub
		// WebSocket route (handles auth internally via query param)
		r.Get("/ws/outlets/{oid}/kitchen", ws.ServeKitchen(deps.Hub, tokens, readySnapshot(deps.Carts)))
	}

	cartHandler := handler.NewCartHandler(deps.Carts, events, log)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(tokens))

		r.Route("/outlets/{oid}", func(r chi.Router) {
			r.Use(mw.RequireOutlet)
			cartHandler.RegisterRoutes(r)
		})
	})

	log.Info("router initialized", zap.Bool("metrics", cfg.MetricsEnabled && deps.Metrics != nil))
	return r
}

// readySnapshot sends new kitchen clients the current ready list.
func readySnapshot(carts handler.CartServicer) ws.SnapshotFunc {
	return func(ctx context.Context, outletID uuid.UUID) (*ws.Event, error) {
		tickets, err := carts.ReadyList(ctx, outletID)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(handler.KitchenReadyEvent{Tickets: tickets})
		if err != nil {
			return nil, err
		}
		return &ws.Event{Type: enum.EventKitchenReady, Payload: payload}, nil
	}
}
