package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boardbank/boardbank/internal/models"
	"github.com/boardbank/boardbank/internal/storage"
)

// CreateDebt appends a debt record. Both players must exist; balances
// are not touched until the debt is settled.
func (s *SQLiteStore) CreateDebt(ctx context.Context, code string, debt *models.Debt) error {
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	if debt.CreatedAt == 0 {
		debt.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(ctx, tx, code); err != nil {
		return err
	}
	for _, name := range []string{debt.From, debt.To} {
		if err := playerExistsTx(ctx, tx, code, name); err != nil {
			return err
		}
	}

	var note interface{}
	if debt.Note != "" {
		note = debt.Note
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO debts (id, room_code, from_player, to_player, amount, note, settled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		debt.ID, code, debt.From, debt.To, debt.Amount, note, debt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListDebts returns the room's debts in insertion order.
func (s *SQLiteStore) ListDebts(ctx context.Context, code string) ([]models.Debt, error) {
	if err := s.roomExists(ctx, code); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_player, to_player, amount, note, settled, created_at
		 FROM debts WHERE room_code = ? ORDER BY rowid`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	debts := []models.Debt{}
	for rows.Next() {
		var d models.Debt
		var note sql.NullString
		if err := rows.Scan(&d.ID, &d.From, &d.To, &d.Amount, &note, &d.Settled, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if note.Valid {
			d.Note = note.String
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	return debts, nil
}

// SettleDebt marks the debt settled, moves the amount from debtor to
// creditor, and appends a settle transaction, all in one SQL transaction.
func (s *SQLiteStore) SettleDebt(ctx context.Context, code, debtID string) (*models.Debt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(ctx, tx, code); err != nil {
		return nil, err
	}

	d := &models.Debt{}
	var note sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT id, from_player, to_player, amount, note, settled, created_at
		 FROM debts WHERE room_code = ? AND id = ?`,
		code, debtID,
	).Scan(&d.ID, &d.From, &d.To, &d.Amount, &note, &d.Settled, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrDebtNotFound, debtID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	if note.Valid {
		d.Note = note.String
	}

	// Settling twice must not double-apply the balance change.
	if d.Settled {
		return nil, fmt.Errorf("%w: %s", storage.ErrDebtSettled, debtID)
	}

	for _, name := range []string{d.From, d.To} {
		if err := playerExistsTx(ctx, tx, code, name); err != nil {
			return nil, err
		}
	}

	if err := adjustBalanceTx(ctx, tx, code, d.From, -d.Amount); err != nil {
		return nil, err
	}
	if err := adjustBalanceTx(ctx, tx, code, d.To, d.Amount); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE debts SET settled = 1 WHERE room_code = ? AND id = ?", code, d.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to mark debt settled: %w", err)
	}
	d.Settled = true

	settleNote := "settle"
	if d.Note != "" {
		settleNote = fmt.Sprintf("settle: %s", d.Note)
	}
	if err := insertTransactionTx(ctx, tx, code, &models.Transaction{
		ID:     uuid.New().String(),
		Ts:     time.Now().Unix(),
		From:   d.From,
		To:     d.To,
		Amount: d.Amount,
		Note:   settleNote,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return d, nil
}

// playerExistsTx checks for a named player within an open transaction.
func playerExistsTx(ctx context.Context, tx *sql.Tx, code, name string) error {
	var exists int
	err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM players WHERE room_code = ? AND name = ?", code, name,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", storage.ErrPlayerNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("failed to check player existence: %w", err)
	}
	return nil
}

// adjustBalanceTx adds delta to a player's balance within an open transaction.
func adjustBalanceTx(ctx context.Context, tx *sql.Tx, code, name string, delta int64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE players SET balance = balance + ? WHERE room_code = ? AND name = ?",
		delta, code, name,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for %s: %w", name, err)
	}
	return nil
}
