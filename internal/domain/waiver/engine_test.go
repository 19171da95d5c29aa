package waiver

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

var base = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

func eliminated(id string, ep int) castaway.Castaway {
	return castaway.Castaway{ID: id, Status: castaway.StatusEliminated, EliminatedEpisodeNumber: &ep}
}

func active(id string) castaway.Castaway {
	return castaway.Castaway{ID: id, Status: castaway.StatusActive}
}

func newIDs() func() string {
	n := 0
	return func() string { n++; return fmt.Sprintf("w%d", n) }
}

func TestPriorityOrder_WorstRecordFirstWithDeterministicTies(t *testing.T) {
	t.Parallel()

	members := []league.Membership{
		{UserID: "leader", CreatedAt: base},
		{UserID: "b-late", CreatedAt: base.Add(time.Hour)},
		{UserID: "a-late", CreatedAt: base.Add(time.Hour)},
		{UserID: "early", CreatedAt: base.Add(-time.Hour)},
	}
	totals := map[string]int{"leader": 90, "b-late": 10, "a-late": 10, "early": 10}

	got := PriorityOrder(members, totals)
	want := []string{"early", "a-late", "b-late", "leader"}
	for i := range want {
		require.Equal(t, want[i], got[i].UserID)
	}
}

func TestResolve_SingleAvailableCastawayGoesToWorstRecord(t *testing.T) {
	t.Parallel()

	members := []league.Membership{
		{UserID: "u-high", CreatedAt: base},
		{UserID: "u-low", CreatedAt: base},
		{UserID: "u-mid", CreatedAt: base},
	}
	totals := map[string]int{"u-high": 50, "u-low": 5, "u-mid": 20}
	castaways := castaway.ByID([]castaway.Castaway{
		eliminated("out-1", 3), eliminated("out-2", 3), eliminated("out-3", 3),
		active("free"), active("backup"),
	})
	current := roster.NewLeague([]roster.Entry{
		{UserID: "u-high", CastawayID: "out-1", DraftPick: 1},
		{UserID: "u-low", CastawayID: "out-2", DraftPick: 2},
		{UserID: "u-mid", CastawayID: "out-3", DraftPick: 3},
	})
	rankings := map[string]Ranking{
		"u-high": {CastawayIDs: []string{"free", "backup"}},
		"u-low":  {CastawayIDs: []string{"free"}},
		"u-mid":  {CastawayIDs: []string{"free"}},
	}

	out := Resolve(CycleInput{
		LeagueID: "l1", EpisodeID: "ep3", Members: members, Totals: totals, Roster: current,
		Rankings: rankings, Castaways: castaways, MaxActive: 2, At: base, NewID: newIDs(),
	})

	require.Len(t, out.Results, 3)
	require.Equal(t, "u-low", out.Results[0].UserID)
	require.Equal(t, 1, out.Results[0].WaiverPosition)
	require.Equal(t, "free", *out.Results[0].AcquiredCastawayID)

	require.Equal(t, "u-mid", out.Results[1].UserID)
	require.Nil(t, out.Results[1].AcquiredCastawayID)

	require.Equal(t, "u-high", out.Results[2].UserID)
	require.Equal(t, "backup", *out.Results[2].AcquiredCastawayID)

	holder, _ := out.Roster.Holder("free")
	require.Equal(t, "u-low", holder)
	_, stillHeld := out.Roster.Holder("out-3")
	require.True(t, stillHeld, "unsuccessful claim must not drop the eliminated castaway")
	require.NoError(t, out.Roster.Validate(2))
	require.Len(t, out.Drops, 2)
	require.Len(t, out.Adds, 2)
	require.Equal(t, roster.AcquiredViaWaiver, out.Adds[0].AcquiredVia)
}

func TestResolve_SkipsIneligibleMembers(t *testing.T) {
	t.Parallel()

	castaways := castaway.ByID([]castaway.Castaway{
		active("kept"), eliminated("gone", 2), active("held-by-other"), active("free"),
	})
	current := roster.NewLeague([]roster.Entry{
		{UserID: "healthy", CastawayID: "kept"},
		{UserID: "no-ranking", CastawayID: "gone"},
		{UserID: "other", CastawayID: "held-by-other"},
	})
	out := Resolve(CycleInput{
		Members: []league.Membership{{UserID: "healthy"}, {UserID: "no-ranking"}, {UserID: "other"}},
		Roster:  current,
		Rankings: map[string]Ranking{
			"healthy": {CastawayIDs: []string{"free"}},
		},
		Castaways: castaways,
		MaxActive: 2,
		NewID:     newIDs(),
	})
	require.Empty(t, out.Results)
	require.Empty(t, out.Adds)
}

func TestResolve_NeverClaimsRosteredOrEliminatedCandidates(t *testing.T) {
	t.Parallel()

	castaways := castaway.ByID([]castaway.Castaway{
		eliminated("out", 4), eliminated("also-out", 2), active("held"), active("free"),
	})
	current := roster.NewLeague([]roster.Entry{
		{UserID: "u1", CastawayID: "out", DraftPick: 1},
		{UserID: "u2", CastawayID: "held", DraftPick: 2},
	})
	out := Resolve(CycleInput{
		Members:   []league.Membership{{UserID: "u1"}, {UserID: "u2"}},
		Totals:    map[string]int{"u1": 0, "u2": 100},
		Roster:    current,
		Rankings:  map[string]Ranking{"u1": {CastawayIDs: []string{"held", "also-out", "free"}}},
		Castaways: castaways,
		MaxActive: 2,
		NewID:     newIDs(),
	})
	require.Len(t, out.Results, 1)
	require.Equal(t, "free", *out.Results[0].AcquiredCastawayID)
	require.Equal(t, 1, out.Adds[0].DraftPick)
}

func TestResolve_DropsEarliestEliminatedFirst(t *testing.T) {
	t.Parallel()

	castaways := castaway.ByID([]castaway.Castaway{
		eliminated("recent", 5), eliminated("older", 2), active("a"), active("b"),
	})
	current := roster.NewLeague([]roster.Entry{
		{UserID: "u1", CastawayID: "recent", DraftPick: 1},
		{UserID: "u1", CastawayID: "older", DraftPick: 8},
	})
	out := Resolve(CycleInput{
		Members:   []league.Membership{{UserID: "u1"}},
		Roster:    current,
		Rankings:  map[string]Ranking{"u1": {CastawayIDs: []string{"a", "b"}}},
		Castaways: castaways,
		MaxActive: 2,
		NewID:     newIDs(),
	})
	require.Len(t, out.Adds, 1)
	require.Equal(t, "older", out.Results[0].DroppedCastawayID)
}

func TestRanking_Validate(t *testing.T) {
	t.Parallel()

	require.Error(t, Ranking{}.Validate())
	require.Error(t, Ranking{CastawayIDs: []string{"a", "a"}}.Validate())
	require.NoError(t, Ranking{CastawayIDs: []string{"a", "b"}}.Validate())
}
