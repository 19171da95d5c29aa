package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
)

type PickRepository struct {
	store *Store
}

func pickKey(leagueID, userID, episodeID string) string {
	return key(leagueID, userID, episodeID)
}

func (r *PickRepository) GetByMember(_ context.Context, leagueID, userID, episodeID string) (pick.WeeklyPick, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.picks[pickKey(leagueID, userID, episodeID)]
	return item, ok, nil
}

func (r *PickRepository) ListByEpisode(_ context.Context, leagueID, episodeID string) ([]pick.WeeklyPick, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]pick.WeeklyPick, 0)
	for _, item := range r.store.picks {
		if item.LeagueID == leagueID && item.EpisodeID == episodeID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *PickRepository) UpsertPending(_ context.Context, p pick.WeeklyPick) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := pickKey(p.LeagueID, p.UserID, p.EpisodeID)
	if current, ok := r.store.picks[k]; ok {
		if current.Locked() {
			return false, nil
		}
		p.ID = current.ID
	}
	p.Status = pick.StatusPending
	p.LockedAt = nil
	r.store.picks[k] = p
	return true, nil
}

func (r *PickRepository) LockPending(_ context.Context, episodeID string, at time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	changed := 0
	for k, item := range r.store.picks {
		if item.EpisodeID != episodeID || item.Status != pick.StatusPending {
			continue
		}
		lockedAt := at
		item.Status = pick.StatusLocked
		item.LockedAt = &lockedAt
		r.store.picks[k] = item
		changed++
	}
	return changed, nil
}

func (r *PickRepository) InsertLockedIfAbsent(_ context.Context, p pick.WeeklyPick) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	k := pickKey(p.LeagueID, p.UserID, p.EpisodeID)
	if _, ok := r.store.picks[k]; ok {
		return false, nil
	}
	r.store.picks[k] = p
	return true, nil
}
