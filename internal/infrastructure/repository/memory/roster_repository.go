package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

type RosterRepository struct {
	store *Store
}

func (r *RosterRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return cloneEntries(r.store.roster[leagueID]), nil
}

func (r *RosterRepository) ListActiveByUser(_ context.Context, leagueID, userID string) ([]roster.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return roster.NewLeague(r.store.roster[leagueID]).ActiveByUser(userID), nil
}

// DraftRepository writes draft entries together with the league's draft status.
type DraftRepository struct {
	store *Store
}

func (r *DraftRepository) CommitPick(_ context.Context, in draft.PickCommit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	leagueID := in.Entry.LeagueID
	item, ok := r.store.leagues[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	switch item.DraftStatus {
	case league.DraftPending:
		return fmt.Errorf("%w: league=%s", draft.ErrNotStarted, leagueID)
	case league.DraftCompleted:
		return fmt.Errorf("%w: league=%s", draft.ErrDraftComplete, leagueID)
	}

	current := roster.NewLeague(r.store.roster[leagueID])
	if made := current.TotalDraftPicks(); made != in.Entry.DraftPick-1 {
		return fmt.Errorf("%w: league=%s picks=%d pick=%d", draft.ErrStaleDraft, leagueID, made, in.Entry.DraftPick)
	}
	if in.MaxActive > 0 && len(current.ActiveByUser(in.Entry.UserID)) >= in.MaxActive {
		return fmt.Errorf("%w: user=%s max=%d", roster.ErrRosterFull, in.Entry.UserID, in.MaxActive)
	}

	if err := r.store.insertEntriesLocked(leagueID, []roster.Entry{in.Entry}); err != nil {
		return err
	}
	if in.Complete {
		r.store.completeDraftLocked(leagueID)
	}
	return nil
}

func (r *DraftRepository) Finalize(_ context.Context, in draft.Finalization) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.leagues[in.LeagueID]
	if !ok {
		return fmt.Errorf("league %s not found", in.LeagueID)
	}
	if !item.NeedsDraftFinalization() {
		return fmt.Errorf("%w: league=%s", draft.ErrDraftComplete, in.LeagueID)
	}

	current := roster.NewLeague(r.store.roster[in.LeagueID])
	if made := current.TotalDraftPicks(); made != in.PicksMade {
		return fmt.Errorf("%w: league=%s picks=%d expected=%d", draft.ErrStaleDraft, in.LeagueID, made, in.PicksMade)
	}
	if err := roster.NewLeague(append(current.Entries(), in.Entries...)).Validate(in.MaxActive); err != nil {
		return err
	}

	if err := r.store.insertEntriesLocked(in.LeagueID, in.Entries); err != nil {
		return err
	}
	members := r.store.members[in.LeagueID]
	for i := range members {
		if members[i].DraftPosition != nil {
			continue
		}
		if pos, ok := in.Positions[members[i].UserID]; ok {
			p := pos
			members[i].DraftPosition = &p
		}
	}
	r.store.completeDraftLocked(in.LeagueID)
	return nil
}

// insertEntriesLocked enforces the one-active-holder rule the database guards with a partial unique index.
func (s *Store) insertEntriesLocked(leagueID string, entries []roster.Entry) error {
	current := s.roster[leagueID]
	for _, e := range entries {
		if _, held := roster.NewLeague(current).Holder(e.CastawayID); held {
			return fmt.Errorf("%w: castaway=%s", roster.ErrCastawayTaken, e.CastawayID)
		}
		current = append(current, cloneEntry(e))
	}
	s.roster[leagueID] = current
	return nil
}

func (s *Store) completeDraftLocked(leagueID string) {
	item, ok := s.leagues[leagueID]
	if !ok {
		return
	}
	item.DraftStatus = league.DraftCompleted
	item.Status = league.StatusActive
	s.leagues[leagueID] = item
}
