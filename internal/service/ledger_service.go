package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/boardbank/boardbank/internal/ledger"
	"github.com/boardbank/boardbank/internal/models"
	"github.com/boardbank/boardbank/internal/storage"
)

// Bank transfer directions.
const (
	DirectionFromBank = "from_bank"
	DirectionToBank   = "to_bank"
)

// LedgerService handles the balance-mutating operations: debts,
// transactions, and bank transfers.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// AddDebt records a new debt. Balances are untouched until the debt is
// settled.
func (s *LedgerService) AddDebt(ctx context.Context, code, from, to string, amount int64, note string) (*models.Debt, error) {
	if err := validateTransfer(from, to, amount); err != nil {
		return nil, err
	}

	debt := &models.Debt{From: from, To: to, Amount: amount, Note: note}
	if err := s.store.CreateDebt(ctx, code, debt); err != nil {
		slog.Warn("AddDebt failed", "code", code, "from", from, "to", to, "error", err)
		return nil, err
	}

	slog.Info("Debt recorded", "code", code, "debt_id", debt.ID, "from", from, "to", to, "amount", amount)
	return debt, nil
}

// ListDebts returns the room's debts in insertion order.
func (s *LedgerService) ListDebts(ctx context.Context, code string) ([]models.Debt, error) {
	return s.store.ListDebts(ctx, code)
}

// SettleDebt settles a debt addressed either by ID or by its index in
// insertion order (idx is ignored when id is set). The two players'
// balances move by exactly ±amount and the debt's settled flag flips;
// settling an already-settled debt is rejected.
func (s *LedgerService) SettleDebt(ctx context.Context, code, id string, idx *int) (*models.Debt, error) {
	if id == "" {
		if idx == nil {
			return nil, fmt.Errorf("%w: debt id or idx required", ErrValidation)
		}
		debts, err := s.store.ListDebts(ctx, code)
		if err != nil {
			return nil, err
		}
		if *idx < 0 || *idx >= len(debts) {
			return nil, fmt.Errorf("%w: index %d", storage.ErrDebtNotFound, *idx)
		}
		id = debts[*idx].ID
	}

	debt, err := s.store.SettleDebt(ctx, code, id)
	if err != nil {
		slog.Warn("SettleDebt failed", "code", code, "debt_id", id, "error", err)
		return nil, err
	}

	slog.Info("Debt settled", "code", code, "debt_id", debt.ID, "from", debt.From, "to", debt.To, "amount", debt.Amount)
	return debt, nil
}

// RecordTransaction transfers amount from one player to the other and
// appends the log entry.
func (s *LedgerService) RecordTransaction(ctx context.Context, code, from, to string, amount int64, note string) (*models.Transaction, error) {
	if err := validateTransfer(from, to, amount); err != nil {
		return nil, err
	}

	t := &models.Transaction{From: from, To: to, Amount: amount, Note: note}
	if err := s.store.RecordTransaction(ctx, code, t); err != nil {
		slog.Warn("RecordTransaction failed", "code", code, "from", from, "to", to, "error", err)
		return nil, err
	}

	slog.Info("Transaction recorded", "code", code, "tx_id", t.ID, "from", from, "to", to, "amount", amount)
	return t, nil
}

// ListTransactions returns the room's transactions in insertion order.
func (s *LedgerService) ListTransactions(ctx context.Context, code string) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, code)
}

// BankTransfer moves money between the bank and a player. direction is
// either "from_bank" (bank pays the player) or "to_bank" (the player
// pays the bank).
func (s *LedgerService) BankTransfer(ctx context.Context, code, player string, amount int64, direction, note string) (*models.Transaction, error) {
	if strings.TrimSpace(player) == "" {
		return nil, fmt.Errorf("%w: player required", ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if direction != DirectionFromBank && direction != DirectionToBank {
		return nil, fmt.Errorf("%w: invalid direction (use %s or %s)", ErrValidation, DirectionFromBank, DirectionToBank)
	}

	t, err := s.store.BankTransfer(ctx, code, player, amount, direction == DirectionFromBank, note)
	if err != nil {
		slog.Warn("BankTransfer failed", "code", code, "player", player, "direction", direction, "error", err)
		return nil, err
	}

	slog.Info("Bank transfer", "code", code, "player", player, "direction", direction, "amount", amount)
	return t, nil
}

// Balances returns the per-player owes/owed/net summary over the room's
// unsettled debts.
func (s *LedgerService) Balances(ctx context.Context, code string) ([]ledger.PlayerSummary, error) {
	players, err := s.store.ListPlayers(ctx, code)
	if err != nil {
		return nil, err
	}
	debts, err := s.store.ListDebts(ctx, code)
	if err != nil {
		return nil, err
	}
	return ledger.Summarize(players, debts), nil
}

// validateTransfer checks the shared debt/transaction input rules.
func validateTransfer(from, to string, amount int64) error {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return fmt.Errorf("%w: from and to players required", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}
