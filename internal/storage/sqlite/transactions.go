package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/boardbank/boardbank/internal/models"
)

// RecordTransaction adjusts both players' balances by the transaction
// amount and appends the log entry, atomically. The transfer is net-zero:
// the sender loses exactly what the receiver gains.
func (s *SQLiteStore) RecordTransaction(ctx context.Context, code string, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Ts == 0 {
		t.Ts = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(ctx, tx, code); err != nil {
		return err
	}
	for _, name := range []string{t.From, t.To} {
		if err := playerExistsTx(ctx, tx, code, name); err != nil {
			return err
		}
	}

	if err := adjustBalanceTx(ctx, tx, code, t.From, -t.Amount); err != nil {
		return err
	}
	if err := adjustBalanceTx(ctx, tx, code, t.To, t.Amount); err != nil {
		return err
	}

	if err := insertTransactionTx(ctx, tx, code, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListTransactions returns the room's transactions in insertion order.
func (s *SQLiteStore) ListTransactions(ctx context.Context, code string) ([]models.Transaction, error) {
	if err := s.roomExists(ctx, code); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, from_player, to_player, amount, note
		 FROM transactions WHERE room_code = ? ORDER BY rowid`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var note sql.NullString
		if err := rows.Scan(&t.ID, &t.Ts, &t.From, &t.To, &t.Amount, &note); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if note.Valid {
			t.Note = note.String
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// BankTransfer moves amount between the bank's total and a player's
// balance and appends the corresponding transaction, atomically.
func (s *SQLiteStore) BankTransfer(ctx context.Context, code, player string, amount int64, fromBank bool, note string) (*models.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := roomExistsTx(ctx, tx, code); err != nil {
		return nil, err
	}
	if err := playerExistsTx(ctx, tx, code, player); err != nil {
		return nil, err
	}

	bankDelta, playerDelta := amount, -amount
	if fromBank {
		bankDelta, playerDelta = -amount, amount
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE rooms SET total_money = total_money + ? WHERE code = ?",
		bankDelta, code,
	); err != nil {
		return nil, fmt.Errorf("failed to adjust bank total: %w", err)
	}
	if err := adjustBalanceTx(ctx, tx, code, player, playerDelta); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:     uuid.New().String(),
		Ts:     time.Now().Unix(),
		From:   models.BankName,
		To:     player,
		Amount: amount,
	}
	if !fromBank {
		t.From, t.To = player, models.BankName
	}
	t.Note = fmt.Sprintf("%s → %s", t.From, t.To)
	if note != "" {
		t.Note = fmt.Sprintf("%s: %s", t.Note, note)
	}

	if err := insertTransactionTx(ctx, tx, code, t); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return t, nil
}

// insertTransactionTx appends a transaction row within an open transaction.
func insertTransactionTx(ctx context.Context, tx *sql.Tx, code string, t *models.Transaction) error {
	var note interface{}
	if t.Note != "" {
		note = t.Note
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, room_code, ts, from_player, to_player, amount, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, code, t.Ts, t.From, t.To, t.Amount, note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
