// Package models defines the core domain models for the board-game bank.
//
// # Models
//
//   - Room: an isolated game session identified by a short code. Owns the
//     bank total and the free-form inventory lists.
//   - Player: a named seat in a room with an integer balance. A player
//     with an empty name is an open slot waiting to be claimed.
//   - Debt: a recorded obligation between two players. Debts do not touch
//     balances until they are settled, and they are never deleted.
//   - Transaction: a realized transfer between two players (or the bank),
//     logged for history. Append-only.
//
// # Design Principles
//
// 1. **Names as identity**: players are identified by name strings within
// a room; there are no user accounts.
// 2. **Integer money**: all amounts and balances are integers. Balances
// may go negative; debts are tracked separately and never enforced
// against a balance.
// 3. **Free-form inventory**: the money/properties/cards/items lists are
// carried as raw JSON so the frontend can shape them however it likes.
package models
