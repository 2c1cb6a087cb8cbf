// Package api provides the HTTP surface consumed by the two UI clients.
// It exposes the ledger, scores, shop, court and a websocket feed of
// refresh events.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yomanFX/vikula2/internal/court"
	"github.com/yomanFX/vikula2/internal/ledger"
	"github.com/yomanFX/vikula2/internal/transition"
)

// Server is the vikula2 HTTP API server.
type Server struct {
	store          *ledger.Store
	transitions    *transition.Manager
	court          *court.Court
	hub            *Hub
	onMutate       func(context.Context)
	pin            string
	metricsEnabled bool
}

// NewServer creates an API server over the assembled core services.
func NewServer(store *ledger.Store, transitions *transition.Manager, c *court.Court) *Server {
	s := &Server{
		store:       store,
		transitions: transitions,
		court:       c,
		hub:         NewHub(),
	}
	// Every ledger change, written locally or discovered by a refresh,
	// reaches connected clients through this one path.
	store.OnChange(s.hub.BroadcastRefresh)
	return s
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetPIN sets the local PIN gate. Empty means the gate is open.
func (s *Server) SetPIN(pin string) { s.pin = pin }

// Hub returns the websocket hub (for broadcasting refresh events).
func (s *Server) Hub() *Hub { return s.hub }

// OnMutate registers a hook called after every successful write, in
// addition to the websocket broadcast. Used to fan local changes out to
// the cross-instance change feed.
func (s *Server) OnMutate(fn func(context.Context)) { s.onMutate = fn }

// announce fires the mutation hook. The websocket broadcast itself is
// driven by the store's change events, so each mutation produces a
// single refresh frame.
func (s *Server) announce(ctx context.Context) {
	if s.onMutate != nil {
		s.onMutate(ctx)
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/activities", s.handleListActivities)
		r.Post("/activities", s.handleCreateActivity)
		r.Post("/activities/{id}/transition", s.handleTransition)
		r.Post("/activities/{id}/arguments", s.handleSubmitArgument)
		r.Post("/activities/{id}/adjudicate", s.handleAdjudicate)
		r.Get("/scores", s.handleScores)
		r.Get("/shop", s.handleShop)
		r.Post("/shop/purchase", s.handlePurchase)
		r.Post("/auth/pin", s.handlePIN)
	})

	// Live refresh feed for connected UI clients
	r.Get("/ws", s.hub.HandleWS)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// handlePIN checks the local PIN gate.
// POST /api/auth/pin
func (s *Server) handlePIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ok := s.pin == "" ||
		subtle.ConstantTimeCompare([]byte(req.PIN), []byte(s.pin)) == 1
	if !ok {
		writeError(w, http.StatusUnauthorized, "wrong pin")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
