package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
)

type CastawayRepository struct {
	store *Store
}

func (r *CastawayRepository) ListBySeason(_ context.Context, seasonID string) ([]castaway.Castaway, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]castaway.Castaway, 0)
	for _, item := range r.store.castaways {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seed != out[j].Seed {
			return out[i].Seed < out[j].Seed
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CastawayRepository) GetByID(_ context.Context, castawayID string) (castaway.Castaway, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.castaways[castawayID]
	return item, ok, nil
}

func (r *CastawayRepository) MarkEliminated(_ context.Context, castawayID string, episodeNumber int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.castaways[castawayID]
	if !ok {
		return fmt.Errorf("castaway %s not found", castawayID)
	}
	next, err := item.Eliminate(episodeNumber)
	if err != nil {
		return err
	}
	r.store.castaways[castawayID] = next
	return nil
}
