// Package ledger holds the pure balance arithmetic, kept separate from
// storage and transport so it can be table-tested in isolation.
package ledger

import "github.com/boardbank/boardbank/internal/models"

// PlayerSummary is the per-player view of a room's ledger: cash on hand
// plus what the unsettled debts say about them.
type PlayerSummary struct {
	Name    string `json:"name"`
	Balance int64  `json:"balance"`

	// Owes is the total this player owes others across unsettled debts.
	Owes int64 `json:"owes"`

	// Owed is the total others owe this player across unsettled debts.
	Owed int64 `json:"owed"`

	// Net is Owed - Owes: positive means the player comes out ahead
	// once everything settles.
	Net int64 `json:"net"`
}

// Summarize computes the owes/owed/net summary for every player over the
// unsettled debts. Settled debts have already moved money, so they are
// excluded. Debt parties that are not (or no longer) players still count
// toward the players that reference them, but get no summary row of
// their own.
func Summarize(players []models.Player, debts []models.Debt) []PlayerSummary {
	owes := make(map[string]int64)
	owed := make(map[string]int64)

	for _, d := range debts {
		if d.Settled {
			continue
		}
		owes[d.From] += d.Amount
		owed[d.To] += d.Amount
	}

	summaries := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		if p.Name == "" {
			// Open slots have no ledger presence.
			continue
		}
		s := PlayerSummary{
			Name:    p.Name,
			Balance: p.Balance,
			Owes:    owes[p.Name],
			Owed:    owed[p.Name],
		}
		s.Net = s.Owed - s.Owes
		summaries = append(summaries, s)
	}

	return summaries
}
