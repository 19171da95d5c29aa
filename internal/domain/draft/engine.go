package draft

import (
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/random"
)

// ManualPickInput is a member's choice during a live draft.
type ManualPickInput struct {
	LeagueID   string
	UserID     string
	CastawayID string
	EntryID    string
	At         time.Time
	// EnforceTurn rejects picks made out of snake order.
	EnforceTurn bool
	MaxActive   int
}

// ApplyManualPick validates a live pick against the current roster and returns the entry to
// persist plus whether it was the last pick of the draft.
func ApplyManualPick(order Order, current roster.League, in ManualPickInput) (roster.Entry, bool, error) {
	made := current.TotalDraftPicks()
	if made >= order.TotalPicks() {
		return roster.Entry{}, false, ErrDraftComplete
	}
	if _, ok := order.Position(in.UserID); !ok {
		return roster.Entry{}, false, fmt.Errorf("user %s is not in the draft order", in.UserID)
	}

	held := current.DraftCount(in.UserID)
	if held >= order.Rounds() {
		return roster.Entry{}, false, fmt.Errorf("%w: user=%s", ErrRoundsExceeded, in.UserID)
	}

	round := held + 1
	if in.EnforceTurn {
		slot, _ := order.At(made)
		if slot.UserID != in.UserID {
			return roster.Entry{}, false, fmt.Errorf("%w: pick %d belongs to %s", ErrNotYourTurn, slot.PickNumber, slot.UserID)
		}
		round = slot.Round
	}

	if err := current.CanAdd(in.UserID, in.CastawayID, in.MaxActive); err != nil {
		return roster.Entry{}, false, err
	}

	entry := roster.Entry{
		ID:          in.EntryID,
		LeagueID:    in.LeagueID,
		UserID:      in.UserID,
		CastawayID:  in.CastawayID,
		DraftRound:  round,
		DraftPick:   made + 1,
		AcquiredVia: roster.AcquiredViaDraft,
		AcquiredAt:  in.At,
	}
	return entry, made+1 == order.TotalPicks(), nil
}

// Undrafted returns the active season castaways not held in this league, ordered by seed.
func Undrafted(castaways []castaway.Castaway, current roster.League) []castaway.Castaway {
	out := make([]castaway.Castaway, 0, len(castaways))
	for _, c := range castaways {
		if !c.IsActive() {
			continue
		}
		if _, held := current.Holder(c.ID); held {
			continue
		}
		out = append(out, c)
	}
	sortBySeed(out)
	return out
}

// AutoFill assigns shuffled castaways to need slots in list order. Slots left over when
// the pool runs dry stay empty; the draft still completes.
func AutoFill(slots []Slot, pool []castaway.Castaway, rng random.Source, leagueID string, at time.Time, newID func() string) []roster.Entry {
	shuffled := append([]castaway.Castaway(nil), pool...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := min(len(slots), len(shuffled))
	out := make([]roster.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, roster.Entry{
			ID:          newID(),
			LeagueID:    leagueID,
			UserID:      slots[i].UserID,
			CastawayID:  shuffled[i].ID,
			DraftRound:  slots[i].Round,
			DraftPick:   slots[i].PickNumber,
			AcquiredVia: roster.AcquiredViaAutoDraft,
			AcquiredAt:  at,
		})
	}
	return out
}

func sortBySeed(items []castaway.Castaway) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Seed != items[j].Seed {
			return items[i].Seed < items[j].Seed
		}
		return items[i].ID < items[j].ID
	})
}
