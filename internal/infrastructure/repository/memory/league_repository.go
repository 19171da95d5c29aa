package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.leagues[leagueID]
	return item, ok, nil
}

func (r *LeagueRepository) ListBySeason(_ context.Context, seasonID string) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.store.leagueOrder {
		item := r.store.leagues[id]
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Membership, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.Membership, 0, len(r.store.members[leagueID]))
	for _, m := range r.store.members[leagueID] {
		out = append(out, cloneMembership(m))
	}
	sortMembers(out)
	return out, nil
}

func (r *LeagueRepository) GetMembership(_ context.Context, leagueID, userID string) (league.Membership, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, m := range r.store.members[leagueID] {
		if m.UserID == userID {
			return cloneMembership(m), true, nil
		}
	}
	return league.Membership{}, false, nil
}

func (r *LeagueRepository) ListMembershipsByUser(_ context.Context, seasonID, userID string) ([]league.Membership, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]league.Membership, 0)
	for _, id := range r.store.leagueOrder {
		if r.store.leagues[id].SeasonID != seasonID {
			continue
		}
		for _, m := range r.store.members[id] {
			if m.UserID == userID {
				out = append(out, cloneMembership(m))
			}
		}
	}
	return out, nil
}

func (r *LeagueRepository) StartDraft(_ context.Context, leagueID string, positions map[string]int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.leagues[leagueID]
	if !ok {
		return fmt.Errorf("league %s not found", leagueID)
	}
	members := r.store.members[leagueID]
	for i := range members {
		if pos, ok := positions[members[i].UserID]; ok {
			p := pos
			members[i].DraftPosition = &p
		}
	}
	item.DraftStatus = league.DraftInProgress
	r.store.leagues[leagueID] = item
	return nil
}

func (r *LeagueRepository) UpdateStandings(_ context.Context, leagueID string, updated []league.Membership) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byUser := make(map[string]league.Membership, len(updated))
	for _, m := range updated {
		byUser[m.UserID] = m
	}
	members := r.store.members[leagueID]
	for i := range members {
		if m, ok := byUser[members[i].UserID]; ok {
			members[i].TotalPoints = m.TotalPoints
			members[i].Rank = m.Rank
		}
	}
	return nil
}
