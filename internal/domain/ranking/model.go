// Package ranking turns per-league totals into one confidence-weighted global leaderboard.
package ranking

import (
	"math"
	"sort"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

var anchorWeights = map[int]float64{1: 0.33, 2: 0.55, 3: 0.70}

// Weight is the shrinkage weight for a user sampled in leagueCount leagues.
// Past three leagues the remaining gap to 1.0 shrinks by 30% per extra league.
func Weight(leagueCount int) float64 {
	if leagueCount <= 0 {
		return 0
	}
	if w, ok := anchorWeights[leagueCount]; ok {
		return w
	}
	return 1 - 0.30*math.Pow(0.7, float64(leagueCount-3))
}

func ConfidenceFor(leagueCount int) Confidence {
	switch {
	case leagueCount >= 4:
		return ConfidenceHigh
	case leagueCount >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// LeagueTotal is one user's summed Score in one league.
type LeagueTotal struct {
	UserID   string
	LeagueID string
	Points   int
}

type GlobalRank struct {
	UserID        string
	LeagueCount   int
	RawAverage    float64
	Weight        float64
	WeightedScore float64
	Rank          int
	Confidence    Confidence
}

// Compute ranks every user appearing in totals. globalMean is the mean raw average
// across those users. Ties on weighted score fall back to league count, then user id.
func Compute(totals []LeagueTotal) ([]GlobalRank, float64) {
	type acc struct {
		sum     int
		leagues map[string]struct{}
	}
	byUser := make(map[string]*acc)
	for _, t := range totals {
		a, ok := byUser[t.UserID]
		if !ok {
			a = &acc{leagues: make(map[string]struct{})}
			byUser[t.UserID] = a
		}
		if _, dup := a.leagues[t.LeagueID]; dup {
			continue
		}
		a.leagues[t.LeagueID] = struct{}{}
		a.sum += t.Points
	}
	if len(byUser) == 0 {
		return []GlobalRank{}, 0
	}

	userIDs := make([]string, 0, len(byUser))
	for userID := range byUser {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	// Summed in user order so float rounding is identical on every run.
	out := make([]GlobalRank, 0, len(byUser))
	var meanSum float64
	for _, userID := range userIDs {
		a := byUser[userID]
		n := len(a.leagues)
		raw := float64(a.sum) / float64(n)
		meanSum += raw
		out = append(out, GlobalRank{
			UserID:      userID,
			LeagueCount: n,
			RawAverage:  raw,
			Weight:      Weight(n),
			Confidence:  ConfidenceFor(n),
		})
	}
	globalMean := meanSum / float64(len(out))

	for i := range out {
		out[i].WeightedScore = WeightedScore(out[i].RawAverage, out[i].LeagueCount, globalMean)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeightedScore != out[j].WeightedScore {
			return out[i].WeightedScore > out[j].WeightedScore
		}
		if out[i].LeagueCount != out[j].LeagueCount {
			return out[i].LeagueCount > out[j].LeagueCount
		}
		return out[i].UserID < out[j].UserID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, globalMean
}

// WeightedScore regresses rawAverage toward globalMean by the league-count weight.
func WeightedScore(rawAverage float64, leagueCount int, globalMean float64) float64 {
	w := Weight(leagueCount)
	return w*rawAverage + (1-w)*globalMean
}
