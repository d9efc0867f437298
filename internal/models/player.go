package models

// DefaultPlayerBalance is the starting balance for a new player.
const DefaultPlayerBalance = 1500

// Player represents a seat in a room.
//
// Players are identified by name, unique within their room. A player
// created with an empty name is an open slot that join-room fills.
type Player struct {
	// Name is the display name, unique per room. Empty means open slot.
	Name string `json:"name"`

	// Balance is the player's cash on hand. May go negative; debts are
	// tracked separately and never enforced against the balance.
	Balance int64 `json:"balance"`

	// Slot is the seat index, assigned in join order.
	Slot int `json:"slot"`
}

// PlayerUpdate carries a partial update of a player. Nil fields are
// left untouched.
type PlayerUpdate struct {
	Name    *string `json:"name,omitempty"`
	Balance *int64  `json:"balance,omitempty"`
}
