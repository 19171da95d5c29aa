package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
)

type WaiverRepository struct {
	store *Store
}

func (r *WaiverRepository) UpsertRanking(_ context.Context, item waiver.Ranking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item.CastawayIDs = append([]string(nil), item.CastawayIDs...)
	r.store.rankings[key(item.LeagueID, item.UserID, item.EpisodeID)] = item
	return nil
}

func (r *WaiverRepository) ListRankings(_ context.Context, leagueID, episodeID string) ([]waiver.Ranking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]waiver.Ranking, 0)
	for _, item := range r.store.rankings {
		if item.LeagueID == leagueID && item.EpisodeID == episodeID {
			item.CastawayIDs = append([]string(nil), item.CastawayIDs...)
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *WaiverRepository) IsCycleCommitted(_ context.Context, leagueID, episodeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.cycles[key(leagueID, episodeID)]
	return ok, nil
}

func (r *WaiverRepository) CommitCycle(_ context.Context, cycle waiver.Cycle, drops, adds []roster.Entry, results []waiver.Result) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cycleKey := key(cycle.LeagueID, cycle.EpisodeID)
	if _, ok := r.store.cycles[cycleKey]; ok {
		return waiver.ErrCycleCommitted
	}

	entries := cloneEntries(r.store.roster[cycle.LeagueID])
	for _, d := range drops {
		found := false
		for i := range entries {
			if entries[i].Active() && entries[i].UserID == d.UserID && entries[i].CastawayID == d.CastawayID {
				entries[i].DroppedAt = d.DroppedAt
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("drop %s/%s: no active roster entry", d.UserID, d.CastawayID)
		}
	}
	for _, a := range adds {
		if _, held := roster.NewLeague(entries).Holder(a.CastawayID); held {
			return fmt.Errorf("%w: castaway=%s", roster.ErrCastawayTaken, a.CastawayID)
		}
		entries = append(entries, cloneEntry(a))
	}

	r.store.roster[cycle.LeagueID] = entries
	r.store.results[cycleKey] = append([]waiver.Result(nil), results...)
	r.store.cycles[cycleKey] = cycle
	return nil
}

func (r *WaiverRepository) ListResults(_ context.Context, leagueID, episodeID string) ([]waiver.Result, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]waiver.Result(nil), r.store.results[key(leagueID, episodeID)]...), nil
}
