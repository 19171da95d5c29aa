package roster

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrCastawayTaken = errors.New("castaway already rostered in league")
	ErrRosterFull    = errors.New("roster already holds the maximum active castaways")
)

// DefaultMaxActive is the number of castaways a member may hold at once.
const DefaultMaxActive = 2

type AcquiredVia string

const (
	AcquiredViaDraft     AcquiredVia = "draft"
	AcquiredViaAutoDraft AcquiredVia = "auto_draft"
	AcquiredViaWaiver    AcquiredVia = "waiver"
)

func ParseAcquiredVia(raw string) (AcquiredVia, error) {
	switch AcquiredVia(raw) {
	case AcquiredViaDraft, AcquiredViaAutoDraft, AcquiredViaWaiver:
		return AcquiredVia(raw), nil
	}
	return "", fmt.Errorf("unknown acquisition %q", raw)
}

// Entry is ownership of one castaway by one member. DroppedAt nil means still held.
type Entry struct {
	ID          string
	LeagueID    string
	UserID      string
	CastawayID  string
	DraftRound  int
	DraftPick   int
	AcquiredVia AcquiredVia
	AcquiredAt  time.Time
	DroppedAt   *time.Time
}

func (e Entry) Active() bool {
	return e.DroppedAt == nil
}

func (e Entry) FromDraft() bool {
	return e.AcquiredVia == AcquiredViaDraft || e.AcquiredVia == AcquiredViaAutoDraft
}

// League is an in-memory view of every entry in one league.
type League struct {
	entries []Entry
}

func NewLeague(entries []Entry) League {
	return League{entries: append([]Entry(nil), entries...)}
}

func (l League) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Holder returns the user actively holding castawayID.
func (l League) Holder(castawayID string) (string, bool) {
	for _, e := range l.entries {
		if e.Active() && e.CastawayID == castawayID {
			return e.UserID, true
		}
	}
	return "", false
}

// ActiveByUser returns the user's held entries ordered by draft pick.
func (l League) ActiveByUser(userID string) []Entry {
	out := make([]Entry, 0, DefaultMaxActive)
	for _, e := range l.entries {
		if e.Active() && e.UserID == userID {
			out = append(out, e)
		}
	}
	SortByDraftPick(out)
	return out
}

// DraftCount is how many draft picks a user has made, dropped or not.
func (l League) DraftCount(userID string) int {
	n := 0
	for _, e := range l.entries {
		if e.UserID == userID && e.FromDraft() {
			n++
		}
	}
	return n
}

func (l League) TotalDraftPicks() int {
	n := 0
	for _, e := range l.entries {
		if e.FromDraft() {
			n++
		}
	}
	return n
}

// CanAdd checks both ownership invariants for adding castawayID to userID.
func (l League) CanAdd(userID, castawayID string, maxActive int) error {
	if holder, ok := l.Holder(castawayID); ok {
		return fmt.Errorf("%w: castaway=%s holder=%s", ErrCastawayTaken, castawayID, holder)
	}
	if maxActive > 0 && len(l.ActiveByUser(userID)) >= maxActive {
		return fmt.Errorf("%w: user=%s max=%d", ErrRosterFull, userID, maxActive)
	}
	return nil
}

// Add appends an entry after checking invariants, returning the updated view.
func (l League) Add(entry Entry, maxActive int) (League, error) {
	if err := l.CanAdd(entry.UserID, entry.CastawayID, maxActive); err != nil {
		return l, err
	}
	next := l.Entries()
	next = append(next, entry)
	return League{entries: next}, nil
}

// Drop marks the active entry for castawayID as dropped.
func (l League) Drop(userID, castawayID string, at time.Time) (League, Entry, bool) {
	next := l.Entries()
	for i := range next {
		if next[i].Active() && next[i].UserID == userID && next[i].CastawayID == castawayID {
			dropped := at
			next[i].DroppedAt = &dropped
			return League{entries: next}, next[i], true
		}
	}
	return l, Entry{}, false
}

// Validate reports the first broken ownership invariant, if any.
func (l League) Validate(maxActive int) error {
	holders := make(map[string]string)
	counts := make(map[string]int)
	for _, e := range l.entries {
		if !e.Active() {
			continue
		}
		if holder, ok := holders[e.CastawayID]; ok {
			return fmt.Errorf("%w: castaway=%s held by %s and %s", ErrCastawayTaken, e.CastawayID, holder, e.UserID)
		}
		holders[e.CastawayID] = e.UserID
		counts[e.UserID]++
		if maxActive > 0 && counts[e.UserID] > maxActive {
			return fmt.Errorf("%w: user=%s", ErrRosterFull, e.UserID)
		}
	}
	return nil
}

func SortByDraftPick(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DraftPick != entries[j].DraftPick {
			return entries[i].DraftPick < entries[j].DraftPick
		}
		return entries[i].AcquiredAt.Before(entries[j].AcquiredAt)
	})
}
