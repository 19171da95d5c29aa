package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
)

func TestRankingService_GlobalRankingsInvalidatedByScoring(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := scoredFixture(t)

	before, err := f.rankings.GetGlobalRankings(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "s1", before.SeasonID)
	require.Len(t, before.Items, 3)
	require.Zero(t, before.GlobalMean)

	_, err = f.scoringService().SaveScores(ctx, SaveScoresInput{
		EpisodeID: "ep1",
		Entries:   []scoring.Entry{{CastawayID: "c02", RuleID: "r-idol", Quantity: 1}},
	})
	require.NoError(t, err)

	after, err := f.rankings.GetGlobalRankings(ctx, "s1")
	require.NoError(t, err)
	require.NotEqual(t, before.GlobalMean, after.GlobalMean, "scoring drops the cached leaderboard")
	require.Equal(t, "u2", after.Items[0].UserID)
	require.Equal(t, 1, after.Items[0].Rank)

	cached, err := f.rankings.GetGlobalRankings(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, after.ComputedAt, cached.ComputedAt)

	_, err = f.rankings.GetGlobalRankings(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRankingService_GetLeagueStandings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := scoredFixture(t)
	f.now = fixtureBase.Add(101 * time.Hour)
	_, err := f.scoringService().SaveScores(ctx, SaveScoresInput{
		EpisodeID: "ep1",
		Entries:   []scoring.Entry{{CastawayID: "c03", RuleID: "r-immunity", Quantity: 1}},
	})
	require.NoError(t, err)

	standings, err := f.rankings.GetLeagueStandings(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, standings, 3)
	require.Equal(t, "u3", standings[0].UserID)
	require.Equal(t, 5, standings[0].TotalPoints)
	require.Equal(t, "u1", standings[1].UserID, "ties go to the earlier member")

	_, err = f.rankings.GetLeagueStandings(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}
