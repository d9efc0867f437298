package models

import "encoding/json"

// DefaultBankMoney is the bank's starting total for a new room.
const DefaultBankMoney = 20580

// Room represents a single game session.
//
// The inventory lists (Items, Money, Properties, Cards) are free-form
// JSON arrays managed by the admin; the server stores and returns them
// verbatim.
type Room struct {
	// Code is the short uppercase join code that identifies the room.
	Code string `json:"code"`

	// TotalMoney is the money remaining in the bank.
	TotalMoney int64 `json:"totalMoney"`

	// CreatedAt is the Unix timestamp when the room was created.
	CreatedAt int64 `json:"created_at"`

	// Players in slot order. Empty-name entries are open slots.
	Players []Player `json:"players"`

	// Debts in insertion order, settled or not.
	Debts []Debt `json:"debts"`

	// Transactions in insertion order.
	Transactions []Transaction `json:"transactions"`

	Items      json.RawMessage `json:"items"`
	Money      json.RawMessage `json:"money"`
	Properties json.RawMessage `json:"properties"`
	Cards      json.RawMessage `json:"cards"`
}

// InventoryUpdate carries a partial update of a room's inventory lists.
// Nil fields are left untouched.
type InventoryUpdate struct {
	Items      json.RawMessage `json:"items,omitempty"`
	Money      json.RawMessage `json:"money,omitempty"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Cards      json.RawMessage `json:"cards,omitempty"`
}
