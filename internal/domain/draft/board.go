package draft

import (
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

// Board is the read model of a league's draft.
type Board struct {
	LeagueID    string
	Status      league.DraftStatus
	Rounds      int
	Order       []Slot
	Picks       []roster.Entry
	OnTheClock  *Slot
	PicksMade   int
	PicksNeeded int
}

func BuildBoard(l league.League, order Order, current roster.League) Board {
	picks := make([]roster.Entry, 0, order.TotalPicks())
	for _, e := range current.Entries() {
		if e.FromDraft() {
			picks = append(picks, e)
		}
	}
	roster.SortByDraftPick(picks)

	board := Board{
		LeagueID:    l.ID,
		Status:      l.DraftStatus,
		Rounds:      order.Rounds(),
		Order:       order.Slots(),
		Picks:       picks,
		PicksMade:   len(picks),
		PicksNeeded: order.TotalPicks(),
	}
	if l.DraftStatus == league.DraftInProgress {
		if slot, ok := order.At(len(picks)); ok {
			board.OnTheClock = &slot
		}
	}
	return board
}
