package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boardbank/boardbank/internal/models"
	"github.com/boardbank/boardbank/internal/storage"
)

// ListPlayers returns the room's players in slot order.
func (s *SQLiteStore) ListPlayers(ctx context.Context, code string) ([]models.Player, error) {
	if err := s.roomExists(ctx, code); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, balance, slot FROM players WHERE room_code = ? ORDER BY slot",
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.Name, &p.Balance, &p.Slot); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return players, nil
}

// GetPlayer retrieves a player by name.
func (s *SQLiteStore) GetPlayer(ctx context.Context, code, name string) (*models.Player, error) {
	if err := s.roomExists(ctx, code); err != nil {
		return nil, err
	}

	p := &models.Player{}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, balance, slot FROM players WHERE room_code = ? AND name = ?",
		code, name,
	).Scan(&p.Name, &p.Balance, &p.Slot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrPlayerNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return p, nil
}

// JoinRoom claims the first open slot for name, or appends a new slot
// when every seat is taken.
func (s *SQLiteStore) JoinRoom(ctx context.Context, code, name string) (*models.Player, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(ctx, tx, code); err != nil {
		return nil, err
	}

	// Reject duplicate names up front so the claim below can't race past
	// the unique index into a confusing constraint error.
	var taken int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM players WHERE room_code = ? AND name = ?", code, name,
	).Scan(&taken)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNameTaken, name)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check player name: %w", err)
	}

	p := &models.Player{Name: name}

	// Claim the first open slot if one exists.
	err = tx.QueryRowContext(ctx,
		"SELECT slot, balance FROM players WHERE room_code = ? AND name = '' ORDER BY slot LIMIT 1",
		code,
	).Scan(&p.Slot, &p.Balance)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			"UPDATE players SET name = ? WHERE room_code = ? AND slot = ?",
			name, code, p.Slot,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to claim slot: %w", err)
		}
	case err == sql.ErrNoRows:
		// Room is full, append a new seat.
		var maxSlot sql.NullInt64
		err = tx.QueryRowContext(ctx,
			"SELECT MAX(slot) FROM players WHERE room_code = ?", code,
		).Scan(&maxSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to find next slot: %w", err)
		}
		p.Slot = 0
		if maxSlot.Valid {
			p.Slot = int(maxSlot.Int64) + 1
		}
		p.Balance = models.DefaultPlayerBalance
		_, err = tx.ExecContext(ctx,
			"INSERT INTO players (room_code, name, balance, slot) VALUES (?, ?, ?, ?)",
			code, name, p.Balance, p.Slot,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert player: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to find open slot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return p, nil
}

// UpdatePlayer applies a partial update to a player and returns the
// updated record.
func (s *SQLiteStore) UpdatePlayer(ctx context.Context, code, name string, upd *models.PlayerUpdate) (*models.Player, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(ctx, tx, code); err != nil {
		return nil, err
	}

	p := &models.Player{}
	err = tx.QueryRowContext(ctx,
		"SELECT name, balance, slot FROM players WHERE room_code = ? AND name = ?",
		code, name,
	).Scan(&p.Name, &p.Balance, &p.Slot)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrPlayerNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if upd.Name != nil && *upd.Name != p.Name {
		var taken int
		err = tx.QueryRowContext(ctx,
			"SELECT 1 FROM players WHERE room_code = ? AND name = ?", code, *upd.Name,
		).Scan(&taken)
		if err == nil {
			return nil, fmt.Errorf("%w: %s", storage.ErrNameTaken, *upd.Name)
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to check player name: %w", err)
		}
		p.Name = *upd.Name
	}
	if upd.Balance != nil {
		p.Balance = *upd.Balance
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE players SET name = ?, balance = ? WHERE room_code = ? AND slot = ?",
		p.Name, p.Balance, code, p.Slot,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return p, nil
}

// ReplacePlayers drops the room's players and installs the given set.
func (s *SQLiteStore) ReplacePlayers(ctx context.Context, code string, players []models.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(ctx, tx, code); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM players WHERE room_code = ?", code); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	for _, p := range players {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO players (room_code, name, balance, slot) VALUES (?, ?, ?, ?)",
			code, p.Name, p.Balance, p.Slot,
		)
		if err != nil {
			return fmt.Errorf("failed to insert player: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
