package models

// BankName is the counterparty name used on bank transfer transactions.
const BankName = "Bank"

// Transaction represents a realized transfer between two parties,
// logged for history. Entries are append-only and never mutated.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// Ts is the Unix timestamp when the transaction was recorded.
	Ts int64 `json:"ts"`

	// From is the paying party: a player name, or BankName.
	From string `json:"from"`

	// To is the receiving party: a player name, or BankName.
	To string `json:"to"`

	// Amount is the transferred amount. Always positive.
	Amount int64 `json:"amount"`

	// Note is an optional description for the transaction.
	Note string `json:"note"`
}
