package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeight_AnchorsAndMonotonic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.33, Weight(1))
	assert.Equal(t, 0.55, Weight(2))
	assert.Equal(t, 0.70, Weight(3))
	assert.InDelta(t, 0.79, Weight(4), 1e-9)

	prev := 0.0
	for n := 1; n <= 40; n++ {
		w := Weight(n)
		require.Greaterf(t, w, prev, "weight must increase at n=%d", n)
		require.Less(t, w, 1.0)
		prev = w
	}
	assert.InDelta(t, 1.0, Weight(60), 1e-6)
}

func TestWeightedScore_SingleLeagueScenario(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 73.2, WeightedScore(100, 1, 60), 1e-9)
}

func TestCompute_RanksByWeightedScore(t *testing.T) {
	t.Parallel()

	ranks, mean := Compute([]LeagueTotal{
		{UserID: "steady", LeagueID: "l1", Points: 80},
		{UserID: "steady", LeagueID: "l2", Points: 80},
		{UserID: "steady", LeagueID: "l3", Points: 80},
		{UserID: "steady", LeagueID: "l4", Points: 80},
		{UserID: "lucky", LeagueID: "l1", Points: 100},
		{UserID: "weak", LeagueID: "l2", Points: 0},
	})
	assert.InDelta(t, 60.0, mean, 1e-9)
	require.Len(t, ranks, 3)

	assert.Equal(t, "steady", ranks[0].UserID)
	assert.Equal(t, ConfidenceHigh, ranks[0].Confidence)
	assert.Equal(t, 1, ranks[0].Rank)

	assert.Equal(t, "lucky", ranks[1].UserID)
	assert.InDelta(t, 73.2, ranks[1].WeightedScore, 1e-9)
	assert.Equal(t, ConfidenceLow, ranks[1].Confidence)

	assert.Equal(t, "weak", ranks[2].UserID)
	assert.Equal(t, 3, ranks[2].Rank)
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	ranks, mean := Compute(nil)
	assert.Empty(t, ranks)
	assert.Zero(t, mean)
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ConfidenceLow, ConfidenceFor(1))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(2))
	assert.Equal(t, ConfidenceMedium, ConfidenceFor(3))
	assert.Equal(t, ConfidenceHigh, ConfidenceFor(4))
}

func TestCompute_RepeatableAcrossRuns(t *testing.T) {
	totals := make([]LeagueTotal, 0, 120)
	for u := 0; u < 40; u++ {
		for l := 0; l <= u%3; l++ {
			totals = append(totals, LeagueTotal{
				UserID:   fmt.Sprintf("user-%02d", u),
				LeagueID: fmt.Sprintf("league-%d", l),
				Points:   (u*7 + l*3) % 11,
			})
		}
	}

	first, firstMean := Compute(totals)
	for run := 0; run < 50; run++ {
		got, mean := Compute(totals)
		require.Equal(t, firstMean, mean, "run %d", run)
		require.Equal(t, first, got, "run %d", run)
	}
}
