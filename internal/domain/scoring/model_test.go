package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
)

func TestBuildEpisodeScores_PricesAtWriteTime(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{ID: "immunity", Points: 5, Active: true},
		{ID: "idol", Points: 8, Active: true},
		{ID: "retired", Points: 3, Active: false},
	}

	got, err := BuildEpisodeScores("ep1", []Entry{
		{CastawayID: "c1", RuleID: "immunity", Quantity: 1},
		{CastawayID: "c1", RuleID: "idol", Quantity: 2},
		{CastawayID: "c1", RuleID: "immunity", Quantity: 2},
	}, rules, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 10, got[0].Points)
	require.Equal(t, 16, got[1].Points)

	_, err = BuildEpisodeScores("ep1", []Entry{{CastawayID: "c1", RuleID: "retired", Quantity: 1}}, rules, time.Time{})
	require.ErrorIs(t, err, ErrRuleInactive)

	_, err = BuildEpisodeScores("ep1", []Entry{{CastawayID: "c1", RuleID: "nope", Quantity: 1}}, rules, time.Time{})
	require.ErrorIs(t, err, ErrUnknownRule)

	_, err = BuildEpisodeScores("ep1", []Entry{{CastawayID: "c1", RuleID: "idol", Quantity: -1}}, rules, time.Time{})
	require.Error(t, err)
}

func TestAttributeScores_IsPureFunctionOfInputs(t *testing.T) {
	t.Parallel()

	picks := []pick.WeeklyPick{
		{UserID: "u2", LeagueID: "l1", EpisodeID: "ep1", CastawayID: "c2", Status: pick.StatusLocked},
		{UserID: "u1", LeagueID: "l1", EpisodeID: "ep1", CastawayID: "c1", Status: pick.StatusLocked},
		{UserID: "u3", LeagueID: "l1", EpisodeID: "ep1", CastawayID: "c1", Status: pick.StatusPending},
	}
	totals := CastawayTotals([]EpisodeScore{
		{CastawayID: "c1", Points: 5},
		{CastawayID: "c1", Points: 16},
		{CastawayID: "c2", Points: -2},
	})
	at := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	first := AttributeScores(picks, totals, 2, at)
	second := AttributeScores(picks, totals, 2, at)
	require.Equal(t, first, second)
	require.Len(t, first, 2)
	require.Equal(t, "u1", first[0].UserID)
	require.Equal(t, 21, first[0].Points)
	require.Equal(t, -2, first[1].Points)
	require.Equal(t, 2, first[1].WeekNumber)
}

func TestCheckRuleChange(t *testing.T) {
	t.Parallel()

	old := Rule{ID: "r1", Points: 5, Active: true}
	if err := CheckRuleChange(old, Rule{ID: "r1", Points: 6}, false); err != nil {
		t.Fatalf("unused rule should change freely: %v", err)
	}
	if err := CheckRuleChange(old, Rule{ID: "r1", Points: 6}, true); !errors.Is(err, ErrRuleFrozen) {
		t.Fatalf("expected frozen rule, got %v", err)
	}
	if err := CheckRuleChange(old, Rule{ID: "r1", Points: 5, Category: "renamed"}, true); err != nil {
		t.Fatalf("category rename keeps points, got %v", err)
	}
}
