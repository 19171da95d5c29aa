package scoring

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
)

var (
	ErrRuleFrozen   = errors.New("scoring rule already used by a scored episode")
	ErrRuleInactive = errors.New("scoring rule is inactive")
	ErrUnknownRule  = errors.New("unknown scoring rule")
)

// Rule is a season-scoped point value for one in-episode event category.
type Rule struct {
	ID        string
	SeasonID  string
	Category  string
	Points    int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EpisodeScore is the event count of one rule for one castaway in one episode.
// Points are fixed at write time.
type EpisodeScore struct {
	EpisodeID  string
	CastawayID string
	RuleID     string
	Quantity   int
	Points     int
	UpdatedAt  time.Time
}

// Entry is one tuple from the scoring workflow.
type Entry struct {
	CastawayID string
	RuleID     string
	Quantity   int
}

// Score is a member's derived points for one episode in one league.
type Score struct {
	UserID       string
	LeagueID     string
	EpisodeID    string
	WeekNumber   int
	CastawayID   string
	Points       int
	CalculatedAt time.Time
}

// BuildEpisodeScores prices entries against the season's rule set.
// Entries repeating a (castaway, rule) key collapse to the last one.
func BuildEpisodeScores(episodeID string, entries []Entry, rules []Rule, at time.Time) ([]EpisodeScore, error) {
	byID := make(map[string]Rule, len(rules))
	for _, r := range rules {
		byID[r.ID] = r
	}

	type key struct{ castawayID, ruleID string }
	index := make(map[key]int, len(entries))
	out := make([]EpisodeScore, 0, len(entries))
	for _, e := range entries {
		if e.CastawayID == "" || e.RuleID == "" {
			return nil, fmt.Errorf("castaway id and rule id are required")
		}
		if e.Quantity < 0 {
			return nil, fmt.Errorf("quantity must be >= 0 for castaway=%s rule=%s", e.CastawayID, e.RuleID)
		}
		rule, ok := byID[e.RuleID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, e.RuleID)
		}
		if !rule.Active {
			return nil, fmt.Errorf("%w: %s", ErrRuleInactive, e.RuleID)
		}

		item := EpisodeScore{
			EpisodeID:  episodeID,
			CastawayID: e.CastawayID,
			RuleID:     e.RuleID,
			Quantity:   e.Quantity,
			Points:     e.Quantity * rule.Points,
			UpdatedAt:  at,
		}
		k := key{e.CastawayID, e.RuleID}
		if i, seen := index[k]; seen {
			out[i] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out, nil
}

// CastawayTotals sums episode points per castaway.
func CastawayTotals(items []EpisodeScore) map[string]int {
	out := make(map[string]int)
	for _, item := range items {
		out[item.CastawayID] += item.Points
	}
	return out
}

// AttributeScores turns locked picks into Score rows. The result depends only on its
// inputs, so recomputing never drifts from prior state.
func AttributeScores(picks []pick.WeeklyPick, totals map[string]int, weekNumber int, at time.Time) []Score {
	out := make([]Score, 0, len(picks))
	for _, p := range picks {
		if !p.Locked() {
			continue
		}
		out = append(out, Score{
			UserID:       p.UserID,
			LeagueID:     p.LeagueID,
			EpisodeID:    p.EpisodeID,
			WeekNumber:   weekNumber,
			CastawayID:   p.CastawayID,
			Points:       totals[p.CastawayID],
			CalculatedAt: at,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// TotalsByUser sums a league's scores across all episodes.
func TotalsByUser(scores []Score) map[string]int {
	out := make(map[string]int)
	for _, s := range scores {
		out[s.UserID] += s.Points
	}
	return out
}

// CheckRuleChange rejects a point change on a rule some scored episode already used.
func CheckRuleChange(existing Rule, next Rule, usedByScoredEpisode bool) error {
	if !usedByScoredEpisode {
		return nil
	}
	if existing.Points != next.Points {
		return fmt.Errorf("%w: rule=%s", ErrRuleFrozen, existing.ID)
	}
	return nil
}
