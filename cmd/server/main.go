package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/boardbank/boardbank/internal/api"
	"github.com/boardbank/boardbank/internal/auth"
	"github.com/boardbank/boardbank/internal/config"
	"github.com/boardbank/boardbank/internal/service"
	"github.com/boardbank/boardbank/internal/storage/sqlite"
	"github.com/boardbank/boardbank/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	rooms := service.NewRoomService(store, tokens)
	ledger := service.NewLedgerService(store)

	handler := api.New(rooms, ledger, tokens).Handler()

	// h2c lets clients speak HTTP/2 without TLS, e.g. behind a proxy
	// that terminates it.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.Bind)
	if err := http.ListenAndServe(cfg.Bind, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
