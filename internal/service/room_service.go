// Package service implements the application operations over a
// storage.Store: room lifecycle on RoomService, balance mutations on
// LedgerService. Handlers stay thin; everything worth testing lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/boardbank/boardbank/internal/auth"
	"github.com/boardbank/boardbank/internal/models"
	"github.com/boardbank/boardbank/internal/storage"
)

// ErrValidation marks malformed or out-of-range input. The API layer
// maps it to 400.
var ErrValidation = errors.New("validation error")

// DefaultPlayerCount is the number of seats created for a new room when
// the admin does not say otherwise.
const DefaultPlayerCount = 4

// RoomService handles room lifecycle: create, join, admin re-init, and
// the read-side snapshots.
type RoomService struct {
	store  storage.Store
	tokens *auth.JWTManager
}

// NewRoomService creates a new RoomService with the given storage backend
// and token issuer.
func NewRoomService(store storage.Store, tokens *auth.JWTManager) *RoomService {
	return &RoomService{store: store, tokens: tokens}
}

// CreateRoom generates a fresh room code, seeds the bank with the admin
// in slot 0 plus open slots, and returns the room snapshot with an admin
// session token.
func (s *RoomService) CreateRoom(ctx context.Context, adminName string, playerCount int) (*models.Room, string, error) {
	adminName = strings.TrimSpace(adminName)
	if adminName == "" {
		return nil, "", fmt.Errorf("%w: admin name required", ErrValidation)
	}
	if playerCount <= 0 {
		playerCount = DefaultPlayerCount
	}

	code := newRoomCode()
	if err := s.store.CreateRoom(ctx, &models.Room{Code: code}); err != nil {
		slog.Error("CreateRoom failed", "code", code, "error", err)
		return nil, "", err
	}
	if err := s.store.ReplacePlayers(ctx, code, seedPlayers(adminName, playerCount)); err != nil {
		slog.Error("CreateRoom failed to seed players", "code", code, "error", err)
		return nil, "", err
	}

	token, err := s.tokens.Generate(code, adminName, auth.RoleAdmin)
	if err != nil {
		return nil, "", err
	}

	room, err := s.store.GetRoom(ctx, code)
	if err != nil {
		return nil, "", err
	}

	slog.Info("Room created", "code", code, "admin", adminName, "slots", playerCount)
	return room, token, nil
}

// JoinRoom claims a seat in an existing room and returns the player with
// a player session token.
func (s *RoomService) JoinRoom(ctx context.Context, code, playerName string) (*models.Player, string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	playerName = strings.TrimSpace(playerName)
	if playerName == "" || code == "" {
		return nil, "", fmt.Errorf("%w: player name and room code required", ErrValidation)
	}

	player, err := s.store.JoinRoom(ctx, code, playerName)
	if err != nil {
		slog.Warn("JoinRoom failed", "code", code, "player", playerName, "error", err)
		return nil, "", err
	}

	token, err := s.tokens.Generate(code, playerName, auth.RolePlayer)
	if err != nil {
		return nil, "", err
	}

	slog.Info("Player joined", "code", code, "player", playerName, "slot", player.Slot)
	return player, token, nil
}

// InitBank re-seeds the room's players: the admin in slot 0 and
// playerCount-1 open slots, all at the starting balance. Existing
// players are dropped.
func (s *RoomService) InitBank(ctx context.Context, code, adminName string, playerCount int) (*models.Room, error) {
	adminName = strings.TrimSpace(adminName)
	if adminName == "" {
		return nil, fmt.Errorf("%w: admin name required", ErrValidation)
	}
	if playerCount <= 0 {
		playerCount = DefaultPlayerCount
	}

	if err := s.store.ReplacePlayers(ctx, code, seedPlayers(adminName, playerCount)); err != nil {
		slog.Error("InitBank failed", "code", code, "error", err)
		return nil, err
	}

	slog.Info("Bank initialized", "code", code, "admin", adminName, "slots", playerCount)
	return s.store.GetRoom(ctx, code)
}

// GetRoom returns the full room snapshot.
func (s *RoomService) GetRoom(ctx context.Context, code string) (*models.Room, error) {
	return s.store.GetRoom(ctx, code)
}

// ListPlayers returns the room's players in slot order.
func (s *RoomService) ListPlayers(ctx context.Context, code string) ([]models.Player, error) {
	return s.store.ListPlayers(ctx, code)
}

// UpdatePlayer applies a partial update to a player.
func (s *RoomService) UpdatePlayer(ctx context.Context, code, name string, upd *models.PlayerUpdate) (*models.Player, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: player name cannot be empty", ErrValidation)
	}
	return s.store.UpdatePlayer(ctx, code, name, upd)
}

// UpdateInventory replaces the inventory lists named in upd.
func (s *RoomService) UpdateInventory(ctx context.Context, code string, upd *models.InventoryUpdate) (*models.Room, error) {
	if err := s.store.UpdateInventory(ctx, code, upd); err != nil {
		slog.Error("UpdateInventory failed", "code", code, "error", err)
		return nil, err
	}
	return s.store.GetRoom(ctx, code)
}

// newRoomCode generates a random 6-character room code from the first
// UUID segment, uppercased.
func newRoomCode() string {
	return strings.ToUpper(uuid.New().String()[:6])
}

// seedPlayers builds the initial player set: admin in slot 0, open slots
// after, everyone at the starting balance.
func seedPlayers(adminName string, count int) []models.Player {
	players := make([]models.Player, count)
	for i := range players {
		players[i] = models.Player{Balance: models.DefaultPlayerBalance, Slot: i}
	}
	players[0].Name = adminName
	return players
}
