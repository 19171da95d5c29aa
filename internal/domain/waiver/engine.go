package waiver

import (
	"sort"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

// PriorityOrder puts the worst record first. Equal totals go to the earlier membership,
// then the lower user id.
func PriorityOrder(members []league.Membership, totals map[string]int) []league.Membership {
	out := append([]league.Membership(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := totals[out[i].UserID], totals[out[j].UserID]
		if ti != tj {
			return ti < tj
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// CycleInput is the snapshot one (league, episode) waiver run reads.
type CycleInput struct {
	LeagueID  string
	EpisodeID string
	Members   []league.Membership
	Totals    map[string]int
	Roster    roster.League
	Rankings  map[string]Ranking
	Castaways map[string]castaway.Castaway
	MaxActive int
	At        time.Time
	NewID     func() string
}

// Outcome is everything a cycle writes.
type Outcome struct {
	Drops   []roster.Entry
	Adds    []roster.Entry
	Results []Result
	Roster  roster.League
}

// Resolve runs the priority loop. Each member's pool depends on the claims before it, so
// members are handled strictly in order.
func Resolve(in CycleInput) Outcome {
	current := in.Roster
	claimed := make(map[string]struct{})
	out := Outcome{}

	for i, member := range PriorityOrder(in.Members, in.Totals) {
		drop, ok := eliminatedEntry(current.ActiveByUser(member.UserID), in.Castaways)
		if !ok {
			continue
		}
		ranking, ok := in.Rankings[member.UserID]
		if !ok || len(ranking.CastawayIDs) == 0 {
			continue
		}

		result := Result{
			LeagueID:          in.LeagueID,
			UserID:            member.UserID,
			EpisodeID:         in.EpisodeID,
			DroppedCastawayID: drop.CastawayID,
			WaiverPosition:    i + 1,
			ProcessedAt:       in.At,
		}

		for _, candidateID := range ranking.CastawayIDs {
			if !claimable(candidateID, claimed, current, in.Castaways) {
				continue
			}

			next, dropped, _ := current.Drop(member.UserID, drop.CastawayID, in.At)
			add := roster.Entry{
				ID:          in.NewID(),
				LeagueID:    in.LeagueID,
				UserID:      member.UserID,
				CastawayID:  candidateID,
				DraftPick:   drop.DraftPick,
				AcquiredVia: roster.AcquiredViaWaiver,
				AcquiredAt:  in.At,
			}
			next, err := next.Add(add, in.MaxActive)
			if err != nil {
				continue
			}

			current = next
			claimed[candidateID] = struct{}{}
			acquired := candidateID
			result.AcquiredCastawayID = &acquired
			out.Drops = append(out.Drops, dropped)
			out.Adds = append(out.Adds, add)
			break
		}
		out.Results = append(out.Results, result)
	}

	out.Roster = current
	return out
}

// eliminatedEntry picks the entry a claim replaces: earliest elimination, then lowest draft pick.
func eliminatedEntry(active []roster.Entry, castaways map[string]castaway.Castaway) (roster.Entry, bool) {
	var (
		best   roster.Entry
		bestEp int
		found  bool
	)
	for _, e := range active {
		c, ok := castaways[e.CastawayID]
		if !ok || c.IsActive() {
			continue
		}
		ep := 0
		if c.EliminatedEpisodeNumber != nil {
			ep = *c.EliminatedEpisodeNumber
		}
		if !found || ep < bestEp || (ep == bestEp && e.DraftPick < best.DraftPick) {
			best, bestEp, found = e, ep, true
		}
	}
	return best, found
}

func claimable(castawayID string, claimed map[string]struct{}, current roster.League, castaways map[string]castaway.Castaway) bool {
	if _, taken := claimed[castawayID]; taken {
		return false
	}
	if _, held := current.Holder(castawayID); held {
		return false
	}
	c, ok := castaways[castawayID]
	return ok && c.IsActive()
}
