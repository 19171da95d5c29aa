package draft

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
)

// DefaultRounds is the number of castaways each member drafts.
const DefaultRounds = 2

var (
	ErrNotYourTurn    = errors.New("not this member's turn to pick")
	ErrDraftComplete  = errors.New("draft already complete")
	ErrNoMembers      = errors.New("league has no members to draft")
	ErrRoundsExceeded = errors.New("member already made every draft pick")
	ErrNotStarted     = errors.New("draft has not started")
	// ErrStaleDraft means another pick was saved after the caller read the draft state.
	ErrStaleDraft = errors.New("draft state changed before the pick was saved")
)

// Slot is one position in the snake sequence.
type Slot struct {
	// PickNumber is the 1-based global pick number.
	PickNumber int
	// Round is 1-based.
	Round  int
	UserID string
}

// PickerIndex maps a 0-based pick k to its round and the index of the member who makes it.
// Even rounds run ascending through positions, odd rounds descending.
func PickerIndex(k, members int) (round, index int) {
	round = k / members
	pos := k % members
	if round%2 == 0 {
		return round, pos
	}
	return round, members - 1 - pos
}

// SlotPickNumber returns the 1-based global pick number held by position p in 0-based round r.
func SlotPickNumber(p, r, members int) int {
	if r%2 == 0 {
		return r*members + p + 1
	}
	return r*members + (members - 1 - p) + 1
}

// Order is the snake order for members sorted by draft position.
type Order struct {
	userIDs []string
	rounds  int
}

func NewOrder(members []league.Membership, rounds int) (Order, error) {
	if len(members) == 0 {
		return Order{}, ErrNoMembers
	}
	if rounds <= 0 {
		return Order{}, fmt.Errorf("draft rounds must be > 0")
	}
	sorted := league.SortForDraft(members)
	ids := make([]string, 0, len(sorted))
	for _, m := range sorted {
		ids = append(ids, m.UserID)
	}
	return Order{userIDs: ids, rounds: rounds}, nil
}

func (o Order) Members() int {
	return len(o.userIDs)
}

func (o Order) Rounds() int {
	return o.rounds
}

func (o Order) TotalPicks() int {
	return len(o.userIDs) * o.rounds
}

// At returns the slot for 0-based pick k.
func (o Order) At(k int) (Slot, bool) {
	if k < 0 || k >= o.TotalPicks() {
		return Slot{}, false
	}
	round, idx := PickerIndex(k, len(o.userIDs))
	return Slot{PickNumber: k + 1, Round: round + 1, UserID: o.userIDs[idx]}, true
}

// Slots lists the whole sequence.
func (o Order) Slots() []Slot {
	out := make([]Slot, 0, o.TotalPicks())
	for k := 0; k < o.TotalPicks(); k++ {
		slot, _ := o.At(k)
		out = append(out, slot)
	}
	return out
}

// Position returns the 0-based draft index of userID.
func (o Order) Position(userID string) (int, bool) {
	for i, id := range o.userIDs {
		if id == userID {
			return i, true
		}
	}
	return 0, false
}

// SlotFor returns the slot userID owns in 0-based round r.
func (o Order) SlotFor(userID string, r int) (Slot, bool) {
	p, ok := o.Position(userID)
	if !ok || r < 0 || r >= o.rounds {
		return Slot{}, false
	}
	return Slot{PickNumber: SlotPickNumber(p, r, len(o.userIDs)), Round: r + 1, UserID: userID}, true
}

// NeedSlots lists the slots still unfilled given how many draft picks each member already made.
// Round 1 needs come first in draft-position order, then round 2 needs, and so on.
func (o Order) NeedSlots(made map[string]int) []Slot {
	out := make([]Slot, 0)
	for r := 0; r < o.rounds; r++ {
		for p, userID := range o.userIDs {
			if made[userID] > r {
				continue
			}
			out = append(out, Slot{
				PickNumber: SlotPickNumber(p, r, len(o.userIDs)),
				Round:      r + 1,
				UserID:     userID,
			})
		}
	}
	return out
}

// MissingPositions assigns positions to members without one, continuing after the highest
// existing position in join order so the order NewOrder builds stays the same.
func MissingPositions(members []league.Membership) map[string]int {
	next := 0
	for _, m := range members {
		if m.DraftPosition != nil && *m.DraftPosition >= next {
			next = *m.DraftPosition + 1
		}
	}
	out := make(map[string]int)
	for _, m := range league.SortForDraft(members) {
		if m.DraftPosition != nil {
			continue
		}
		out[m.UserID] = next
		next++
	}
	return out
}
