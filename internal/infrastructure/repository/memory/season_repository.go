package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
)

type SeasonRepository struct {
	store *Store
}

func (r *SeasonRepository) GetActive(_ context.Context) (season.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.seasons {
		if item.IsActive {
			return item, true, nil
		}
	}
	return season.Season{}, false, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.seasons[seasonID]
	return item, ok, nil
}

func (r *SeasonRepository) UpdateSeasonPhase(_ context.Context, s season.Season) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.seasons[s.ID]
	if !ok {
		return season.ErrNoActiveSeason
	}
	current.Phase = s.Phase
	current.DraftFinalizedAt = s.DraftFinalizedAt
	current.UpdatedAt = s.UpdatedAt
	r.store.seasons[s.ID] = current
	return nil
}

func (r *SeasonRepository) GetEpisode(_ context.Context, episodeID string) (season.Episode, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.episodes[episodeID]
	return item, ok, nil
}

func (r *SeasonRepository) ListEpisodes(_ context.Context, seasonID string) ([]season.Episode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]season.Episode, 0)
	for _, item := range r.store.episodes {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *SeasonRepository) GetEpisodeByNumber(_ context.Context, seasonID string, number int) (season.Episode, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.episodes {
		if item.SeasonID == seasonID && item.Number == number {
			return item, true, nil
		}
	}
	return season.Episode{}, false, nil
}

func (r *SeasonRepository) UpdateEpisodeLifecycle(_ context.Context, e season.Episode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.episodes[e.ID]
	if !ok {
		return nil
	}
	current.Phase = e.Phase
	current.IsScored = e.IsScored
	current.PicksLockedAt = e.PicksLockedAt
	current.ScoringFinalizedAt = e.ScoringFinalizedAt
	current.ResultsLockedAt = e.ResultsLockedAt
	current.ResultsReleasedAt = e.ResultsReleasedAt
	current.WaiversProcessedAt = e.WaiversProcessedAt
	current.UpdatedAt = e.UpdatedAt
	r.store.episodes[e.ID] = current
	return nil
}
