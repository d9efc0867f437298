// Package storage provides abstractions for persistent room storage.
package storage

import (
	"context"
	"errors"

	"github.com/boardbank/boardbank/internal/models"
)

// Sentinel errors returned by Store implementations. The API layer maps
// these to HTTP status codes with errors.Is.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrDebtNotFound   = errors.New("debt not found")
	ErrDebtSettled    = errors.New("debt already settled")
	ErrNameTaken      = errors.New("player name already taken")
)

// Store defines the interface for room storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Mutations that touch more than one row (settling a debt, recording a
// transaction, a bank transfer, re-seeding players) must be atomic: a
// failure leaves the room unchanged.
type Store interface {
	// CreateRoom persists a new, empty room. Populates CreatedAt and
	// TotalMoney if unset.
	CreateRoom(ctx context.Context, room *models.Room) error

	// GetRoom retrieves a full room snapshot: players, debts,
	// transactions, and inventory lists.
	GetRoom(ctx context.Context, code string) (*models.Room, error)

	// UpdateInventory replaces the inventory lists named in upd.
	UpdateInventory(ctx context.Context, code string, upd *models.InventoryUpdate) error

	// ReplacePlayers drops the room's players and installs the given
	// set. Used by the admin init flow.
	ReplacePlayers(ctx context.Context, code string, players []models.Player) error

	// ListPlayers returns the room's players in slot order.
	ListPlayers(ctx context.Context, code string) ([]models.Player, error)

	// GetPlayer retrieves a player by name.
	GetPlayer(ctx context.Context, code, name string) (*models.Player, error)

	// JoinRoom claims the first open slot for name, or appends a new
	// slot when the room is full. Returns the claimed player.
	JoinRoom(ctx context.Context, code, name string) (*models.Player, error)

	// UpdatePlayer applies a partial update to a player and returns the
	// updated record.
	UpdatePlayer(ctx context.Context, code, name string, upd *models.PlayerUpdate) (*models.Player, error)

	// CreateDebt appends a debt record. Both players must exist.
	// Balances are not touched.
	CreateDebt(ctx context.Context, code string, debt *models.Debt) error

	// ListDebts returns the room's debts in insertion order.
	ListDebts(ctx context.Context, code string) ([]models.Debt, error)

	// SettleDebt marks the debt settled, moves the amount from debtor to
	// creditor, and appends a settle transaction, all atomically.
	// Returns ErrDebtSettled if the debt was already settled.
	SettleDebt(ctx context.Context, code, debtID string) (*models.Debt, error)

	// RecordTransaction adjusts both parties' balances by the
	// transaction amount and appends the log entry, atomically.
	RecordTransaction(ctx context.Context, code string, tx *models.Transaction) error

	// ListTransactions returns the room's transactions in insertion order.
	ListTransactions(ctx context.Context, code string) ([]models.Transaction, error)

	// BankTransfer moves amount between the bank's total and a player's
	// balance and appends the corresponding transaction, atomically.
	// fromBank selects the direction: bank to player when true.
	BankTransfer(ctx context.Context, code, player string, amount int64, fromBank bool, note string) (*models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
