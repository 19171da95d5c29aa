package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
)

type ScoringRepository struct {
	store *Store
}

func (r *ScoringRepository) ListRules(_ context.Context, seasonID string) ([]scoring.Rule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]scoring.Rule, 0)
	for _, item := range r.store.rules {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *ScoringRepository) GetRule(_ context.Context, ruleID string) (scoring.Rule, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.rules[ruleID]
	return item, ok, nil
}

func (r *ScoringRepository) UpsertRule(_ context.Context, rule scoring.Rule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if current, ok := r.store.rules[rule.ID]; ok {
		rule.CreatedAt = current.CreatedAt
	}
	r.store.rules[rule.ID] = rule
	return nil
}

func (r *ScoringRepository) IsRuleUsed(_ context.Context, ruleID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.episodeScores {
		if item.RuleID != ruleID {
			continue
		}
		if ep, ok := r.store.episodes[item.EpisodeID]; ok && ep.IsFinalized() {
			return true, nil
		}
	}
	return false, nil
}

func (r *ScoringRepository) UpsertEpisodeScores(_ context.Context, items []scoring.EpisodeScore) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range items {
		r.store.episodeScores[key(item.EpisodeID, item.CastawayID, item.RuleID)] = item
	}
	return nil
}

func (r *ScoringRepository) ListEpisodeScores(_ context.Context, episodeID string) ([]scoring.EpisodeScore, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]scoring.EpisodeScore, 0)
	for _, item := range r.store.episodeScores {
		if item.EpisodeID == episodeID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CastawayID != out[j].CastawayID {
			return out[i].CastawayID < out[j].CastawayID
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out, nil
}

func (r *ScoringRepository) ReplaceLeagueScores(_ context.Context, leagueID, episodeID string, scores []scoring.Score) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for k, item := range r.store.scores {
		if item.LeagueID == leagueID && item.EpisodeID == episodeID {
			delete(r.store.scores, k)
		}
	}
	for _, item := range scores {
		r.store.scores[key(item.UserID, item.LeagueID, item.EpisodeID)] = item
	}
	return nil
}

func (r *ScoringRepository) ListScoresByLeague(_ context.Context, leagueID string) ([]scoring.Score, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]scoring.Score, 0)
	for _, item := range r.store.scores {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeekNumber != out[j].WeekNumber {
			return out[i].WeekNumber < out[j].WeekNumber
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
