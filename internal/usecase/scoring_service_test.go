package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
)

func scoredFixture(t *testing.T) *gameFixture {
	t.Helper()

	seed := testSeed(3, 6)
	hold(&seed, "u1", "c01", 1)
	hold(&seed, "u2", "c02", 2)
	hold(&seed, "u3", "c03", 3)
	setEpisode(&seed, "ep1", func(e *season.Episode) { e.Phase = season.PhasePicksLocked })
	f := newGameFixture(t, seed)
	f.lockedPick(t, "u1", "ep1", "c01")
	f.lockedPick(t, "u2", "ep1", "c02")
	f.lockedPick(t, "u3", "ep1", "c03")
	f.now = fixtureBase.Add(100 * time.Hour)
	return f
}

func TestScoringService_SaveScores_ComputesScoresAndStandings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := scoredFixture(t)
	svc := f.scoringService()

	result, err := svc.SaveScores(ctx, SaveScoresInput{
		EpisodeID: "ep1",
		Entries: []scoring.Entry{
			{CastawayID: "c01", RuleID: "r-immunity", Quantity: 1},
			{CastawayID: "c01", RuleID: "r-vote", Quantity: 2},
			{CastawayID: "c02", RuleID: "r-idol", Quantity: 1},
			{CastawayID: "c04", RuleID: "r-idol", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 4, result.SavedCount)
	require.Equal(t, 1, result.LeaguesUpdated)
	require.Equal(t, 3, result.ScoresRewritten)

	scores, err := f.repos.Scoring.ListScoresByLeague(ctx, "l1")
	require.NoError(t, err)
	totals := scoring.TotalsByUser(scores)
	require.Equal(t, 3, totals["u1"])
	require.Equal(t, 8, totals["u2"])
	require.Equal(t, 0, totals["u3"])

	members, err := f.repos.League.ListMembers(ctx, "l1")
	require.NoError(t, err)
	ranks := make(map[string]int, len(members))
	for _, m := range members {
		ranks[m.UserID] = m.Rank
	}
	require.Equal(t, map[string]int{"u1": 2, "u2": 1, "u3": 3}, ranks)

	again, err := svc.RecomputeEpisode(ctx, "ep1")
	require.NoError(t, err)
	require.Equal(t, 3, again.ScoresRewritten)
	rescored, err := f.repos.Scoring.ListScoresByLeague(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, totals, scoring.TotalsByUser(rescored), "recompute is idempotent")

	_, err = svc.SaveScores(ctx, SaveScoresInput{
		EpisodeID: "ep1",
		Entries:   []scoring.Entry{{CastawayID: "c01", RuleID: "r-immunity", Quantity: 0}},
	})
	require.NoError(t, err)
	rescored, _ = f.repos.Scoring.ListScoresByLeague(ctx, "l1")
	require.Equal(t, -2, scoring.TotalsByUser(rescored)["u1"], "an upsert replaces the earlier quantity")
}

func TestScoringService_SaveScores_Rejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newGameFixture(t, testSeed(1, 2))
	svc := f.scoringService()

	entry := []scoring.Entry{{CastawayID: "c01", RuleID: "r-immunity", Quantity: 1}}
	_, err := svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1", Entries: entry})
	require.ErrorIs(t, err, ErrNotYetOpen)

	f = scoredFixture(t)
	svc = f.scoringService()
	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1", Entries: []scoring.Entry{{CastawayID: "ghost", RuleID: "r-idol", Quantity: 1}}})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1", Entries: []scoring.Entry{{CastawayID: "c01", RuleID: "r-missing", Quantity: 1}}})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "missing", Entries: entry})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScoringService_FinalizeAndRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := scoredFixture(t)
	svc := f.scoringService()

	_, err := svc.ReleaseResults(ctx, "ep1")
	require.ErrorIs(t, err, ErrPrecondition)

	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1", Entries: []scoring.Entry{{CastawayID: "c02", RuleID: "r-idol", Quantity: 1}}})
	require.NoError(t, err)

	ep, err := svc.FinalizeScoring(ctx, "ep1")
	require.NoError(t, err)
	require.Equal(t, season.PhaseResultsPosted, ep.Phase)
	require.True(t, ep.IsScored)
	require.NotNil(t, ep.ScoringFinalizedAt)
	require.Len(t, f.publisher.byKind(signal.KindEpisodeScored), 1)

	_, err = svc.FinalizeScoring(ctx, "ep1")
	require.ErrorIs(t, err, ErrPrecondition)

	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1", Entries: []scoring.Entry{{CastawayID: "c02", RuleID: "r-idol", Quantity: 2}}})
	require.ErrorIs(t, err, ErrClosed)

	released, err := svc.ReleaseResults(ctx, "ep1")
	require.NoError(t, err)
	require.Equal(t, season.PhaseWaiverOpen, released.Phase)
	require.NotNil(t, released.ResultsReleasedAt)

	again, err := svc.ReleaseResults(ctx, "ep1")
	require.NoError(t, err)
	require.Equal(t, released.ResultsReleasedAt, again.ResultsReleasedAt)
}

func TestScoringService_CorrectionsAfterFinalize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := scoredFixture(t)
	f.cfg.AllowScoreCorrections = true
	svc := f.scoringService()

	_, err := svc.FinalizeScoring(ctx, "ep1")
	require.NoError(t, err)
	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1", Entries: []scoring.Entry{{CastawayID: "c03", RuleID: "r-immunity", Quantity: 1}}})
	require.NoError(t, err)

	members, _ := f.repos.League.ListMembers(ctx, "l1")
	for _, m := range members {
		if m.UserID == "u3" {
			require.Equal(t, 5, m.TotalPoints)
			require.Equal(t, 1, m.Rank)
		}
	}
}

func TestScoringService_UpsertRule_FreezesUsedRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := scoredFixture(t)
	svc := f.scoringService()

	created, err := svc.UpsertRule(ctx, RuleInput{SeasonID: "s1", Category: "reward_win", Points: 2, Active: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = svc.UpsertRule(ctx, RuleInput{ID: "r-idol", SeasonID: "s1", Category: "idol_found", Points: 10, Active: true})
	require.NoError(t, err, "unused rules stay editable")

	_, err = svc.SaveScores(ctx, SaveScoresInput{EpisodeID: "ep1", Entries: []scoring.Entry{{CastawayID: "c01", RuleID: "r-idol", Quantity: 1}}})
	require.NoError(t, err)
	_, err = svc.FinalizeScoring(ctx, "ep1")
	require.NoError(t, err)

	_, err = svc.UpsertRule(ctx, RuleInput{ID: "r-idol", SeasonID: "s1", Category: "idol_found", Points: 12, Active: true})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, scoring.ErrRuleFrozen)

	_, err = svc.UpsertRule(ctx, RuleInput{ID: "r-idol", SeasonID: "s1", Category: "idol_found", Points: 10, Active: false})
	require.NoError(t, err, "deactivating keeps points and is allowed")

	rules, err := svc.ListRules(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, rules, 4)

	_, err = svc.UpsertRule(ctx, RuleInput{SeasonID: "nope", Category: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScoringService_EliminateCastaway(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newGameFixture(t, testSeed(1, 2))
	svc := f.scoringService()

	c, err := svc.EliminateCastaway(ctx, "c01", 3)
	require.NoError(t, err)
	require.Equal(t, castaway.StatusEliminated, c.Status)

	_, err = svc.EliminateCastaway(ctx, "c01", 3)
	require.NoError(t, err)

	_, err = svc.EliminateCastaway(ctx, "c01", 4)
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.EliminateCastaway(ctx, "c02", 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.EliminateCastaway(ctx, "ghost", 1)
	require.ErrorIs(t, err, ErrNotFound)

	stored, _, _ := f.repos.Castaway.GetByID(ctx, "c01")
	require.False(t, stored.IsActive())
}
