package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/memory"
)

func newTestLeagueService(f *gameFixture) *LeagueService {
	return NewLeagueService(season.NewProvider(f.repos.Season), f.repos.League, f.repos.Roster, f.repos.Castaway)
}

func TestLeagueService_ReadsDefaultToActiveSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seed := testSeed(3, 6)
	hold(&seed, "u1", "c01", 1)
	f := newGameFixture(t, seed)
	svc := newTestLeagueService(f)

	leagues, err := svc.ListLeagues(ctx, "")
	require.NoError(t, err)
	require.Len(t, leagues, 1)
	require.Equal(t, "l1", leagues[0].ID)

	castaways, err := svc.ListCastaways(ctx, "")
	require.NoError(t, err)
	require.Len(t, castaways, 6)

	mine, err := svc.ListMyLeagues(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	entries, err := svc.ListRoster(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "c01", entries[0].CastawayID)
}

func TestLeagueService_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newGameFixture(t, testSeed(2, 2))
	svc := newTestLeagueService(f)

	_, err := svc.GetLeague(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetLeague(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListRoster(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListMyLeagues(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)

	empty := newGameFixture(t, memory.Seed{})
	_, err = newTestLeagueService(empty).ListLeagues(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}
