package models

// Debt represents a recorded obligation between two players.
//
// Recording a debt does not move money. Settling it transfers Amount
// from the debtor to the creditor exactly once and flips Settled; the
// record itself is never deleted.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string `json:"id"`

	// From is the name of the player who owes.
	From string `json:"from"`

	// To is the name of the player who is owed.
	To string `json:"to"`

	// Amount is the debt amount. Always positive.
	Amount int64 `json:"amount"`

	// Note is an optional description for the debt.
	Note string `json:"note"`

	// Settled reports whether the debt has been paid out.
	Settled bool `json:"settled"`

	// CreatedAt is the Unix timestamp when the debt was recorded.
	CreatedAt int64 `json:"created_at"`
}
