package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/survivor-fantasy/internal/platform/cache"
	"github.com/stretchr/testify/require"
)

func TestSeasonRepository_InvalidatesOnLifecycleWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	repos := memory.NewStore(memory.SeedDemo(now)).Repositories()
	store := basecache.NewStore(time.Minute)
	repo := NewSeasonRepository(repos.Season, store)

	episodeID := memory.SeasonIDDemo + "-ep-01"
	ep, ok, err := repo.GetEpisode(ctx, episodeID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, season.PhaseMakePick, ep.Phase)

	// A write behind the decorator's back stays invisible until the TTL or an invalidation.
	direct := ep
	direct.Phase = season.PhasePicksLocked
	require.NoError(t, repos.Season.UpdateEpisodeLifecycle(ctx, direct))
	cached, _, err := repo.GetEpisode(ctx, episodeID)
	require.NoError(t, err)
	require.Equal(t, season.PhaseMakePick, cached.Phase)

	direct.Phase = season.PhaseAwaitingResults
	require.NoError(t, repo.UpdateEpisodeLifecycle(ctx, direct))
	fresh, _, err := repo.GetEpisode(ctx, episodeID)
	require.NoError(t, err)
	require.Equal(t, season.PhaseAwaitingResults, fresh.Phase)
}

func TestSeasonRepository_CachesMissingActiveSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := memory.NewStore(memory.Seed{}).Repositories()
	repo := NewSeasonRepository(repos.Season, basecache.NewStore(time.Minute))

	_, ok, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = season.NewProvider(repo).ActiveSeason(ctx)
	require.ErrorIs(t, err, season.ErrNoActiveSeason)
}

func TestCastawayRepository_InvalidatesOnElimination(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	repos := memory.NewStore(memory.SeedDemo(now)).Repositories()
	repo := NewCastawayRepository(repos.Castaway, basecache.NewStore(time.Minute))

	items, err := repo.ListBySeason(ctx, memory.SeasonIDDemo)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	require.Equal(t, castaway.StatusActive, items[0].Status)

	require.NoError(t, repo.MarkEliminated(ctx, items[0].ID, 1))

	items, err = repo.ListBySeason(ctx, memory.SeasonIDDemo)
	require.NoError(t, err)
	require.Equal(t, castaway.StatusEliminated, items[0].Status)

	got, ok, err := repo.GetByID(ctx, items[0].ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.EliminatedEpisodeNumber)
	require.Equal(t, 1, *got.EliminatedEpisodeNumber)
}
