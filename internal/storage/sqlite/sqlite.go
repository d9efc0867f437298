// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/boardbank/boardbank/internal/models"
	"github.com/boardbank/boardbank/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRoom persists a new, empty room.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.CreatedAt == 0 {
		room.CreatedAt = time.Now().Unix()
	}
	if room.TotalMoney == 0 {
		room.TotalMoney = models.DefaultBankMoney
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO rooms (code, total_money, created_at) VALUES (?, ?, ?)",
		room.Code, room.TotalMoney, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

// GetRoom retrieves a full room snapshot: players, debts, transactions,
// and the inventory lists.
func (s *SQLiteStore) GetRoom(ctx context.Context, code string) (*models.Room, error) {
	room := &models.Room{}
	var items, money, properties, cards string
	err := s.db.QueryRowContext(ctx,
		"SELECT code, total_money, items, money, properties, cards, created_at FROM rooms WHERE code = ?",
		code,
	).Scan(&room.Code, &room.TotalMoney, &items, &money, &properties, &cards, &room.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrRoomNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Items = json.RawMessage(items)
	room.Money = json.RawMessage(money)
	room.Properties = json.RawMessage(properties)
	room.Cards = json.RawMessage(cards)

	if room.Players, err = s.ListPlayers(ctx, code); err != nil {
		return nil, err
	}
	if room.Debts, err = s.ListDebts(ctx, code); err != nil {
		return nil, err
	}
	if room.Transactions, err = s.ListTransactions(ctx, code); err != nil {
		return nil, err
	}

	return room, nil
}

// UpdateInventory replaces the inventory lists named in upd.
func (s *SQLiteStore) UpdateInventory(ctx context.Context, code string, upd *models.InventoryUpdate) error {
	if err := s.roomExists(ctx, code); err != nil {
		return err
	}

	set := func(column string, value json.RawMessage) error {
		if value == nil {
			return nil
		}
		query := fmt.Sprintf("UPDATE rooms SET %s = ? WHERE code = ?", column)
		if _, err := s.db.ExecContext(ctx, query, string(value), code); err != nil {
			return fmt.Errorf("failed to update %s: %w", column, err)
		}
		return nil
	}

	if err := set("items", upd.Items); err != nil {
		return err
	}
	if err := set("money", upd.Money); err != nil {
		return err
	}
	if err := set("properties", upd.Properties); err != nil {
		return err
	}
	return set("cards", upd.Cards)
}

// roomExists reports whether the room is present, returning
// storage.ErrRoomNotFound when it is not.
func (s *SQLiteStore) roomExists(ctx context.Context, code string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM rooms WHERE code = ?", code).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", storage.ErrRoomNotFound, code)
	}
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}
	return nil
}

// roomExistsTx is roomExists within an open transaction.
func roomExistsTx(ctx context.Context, tx *sql.Tx, code string) error {
	var exists int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM rooms WHERE code = ?", code).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", storage.ErrRoomNotFound, code)
	}
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}
	return nil
}
