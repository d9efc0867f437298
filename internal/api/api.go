// Package api exposes the HTTP JSON surface: room lifecycle, ledger
// mutations, and read-side snapshots, all under /api.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/boardbank/boardbank/internal/auth"
	"github.com/boardbank/boardbank/internal/middleware"
	"github.com/boardbank/boardbank/internal/service"
)

// API wires the HTTP routes to the room and ledger services.
type API struct {
	router *mux.Router
	rooms  *service.RoomService
	ledger *service.LedgerService
	tokens *auth.JWTManager
}

// New builds the API and registers all routes.
func New(rooms *service.RoomService, ledger *service.LedgerService, tokens *auth.JWTManager) *API {
	a := &API{
		router: mux.NewRouter(),
		rooms:  rooms,
		ledger: ledger,
		tokens: tokens,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(middleware.Metrics)

	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Room lifecycle
	a.router.HandleFunc("/api/create-room", a.handleCreateRoom).Methods("POST")
	a.router.HandleFunc("/api/join-room", a.handleJoinRoom).Methods("POST")

	// Admin endpoints require an admin session token.
	requireAdmin := middleware.RequireAdmin(a.tokens, writeError)
	admin := a.router.PathPrefix("/api/admin").Subrouter()
	admin.Use(requireAdmin)
	admin.HandleFunc("/init", a.handleAdminInit).Methods("POST")

	a.router.Handle("/api/room/{code}/update-bank",
		requireAdmin(http.HandlerFunc(a.handleUpdateBank))).Methods("POST")

	// Everything else needs only the room code.
	a.router.HandleFunc("/api/room/{code}", a.handleGetRoom).Methods("GET")
	a.router.HandleFunc("/api/room/{code}/players", a.handleListPlayers).Methods("GET")
	a.router.HandleFunc("/api/room/{code}/players/{name}", a.handleUpdatePlayer).Methods("PUT")
	a.router.HandleFunc("/api/room/{code}/add-debt", a.handleAddDebt).Methods("POST")
	a.router.HandleFunc("/api/room/{code}/settle-debt", a.handleSettleDebt).Methods("POST")
	a.router.HandleFunc("/api/room/{code}/transaction", a.handleTransaction).Methods("POST")
	a.router.HandleFunc("/api/room/{code}/bank-transfer", a.handleBankTransfer).Methods("POST")
	a.router.HandleFunc("/api/room/{code}/balances", a.handleBalances).Methods("GET")
}

// Handler returns the fully wrapped handler: router with metrics, plus
// request logging and CORS for browser access.
func (a *API) Handler() http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false, // wildcard origin requires credentials off
	}
	return cors.New(corsOptions).Handler(middleware.Logging(a.router))
}
