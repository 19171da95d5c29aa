package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	basecache "github.com/riskibarqy/survivor-fantasy/internal/platform/cache"
)

const (
	seasonKeyPrefix   = "season:"
	castawayKeyPrefix = "castaway:"
)

// SeasonRepository caches season and episode reads. Any phase or lifecycle write
// drops every season key, so readers never see a phase older than the last write here.
type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) GetActive(ctx context.Context) (season.Season, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, seasonKeyPrefix+"active", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, seasonKeyPrefix+"id:"+seasonID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) UpdateSeasonPhase(ctx context.Context, s season.Season) error {
	defer r.cache.DeletePrefix(ctx, seasonKeyPrefix)
	return r.next.UpdateSeasonPhase(ctx, s)
}

func (r *SeasonRepository) GetEpisode(ctx context.Context, episodeID string) (season.Episode, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, seasonKeyPrefix+"episode:"+episodeID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetEpisode(ctx, episodeID)
		if err != nil {
			return nil, err
		}
		return cachedEpisode{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Episode{}, false, err
	}

	cached, _ := v.(cachedEpisode)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) ListEpisodes(ctx context.Context, seasonID string) ([]season.Episode, error) {
	v, err := r.cache.GetOrLoad(ctx, seasonKeyPrefix+"episodes:"+seasonID, func(ctx context.Context) (any, error) {
		items, err := r.next.ListEpisodes(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]season.Episode(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Episode)
	return append([]season.Episode(nil), items...), nil
}

func (r *SeasonRepository) GetEpisodeByNumber(ctx context.Context, seasonID string, number int) (season.Episode, bool, error) {
	key := seasonKeyPrefix + "episode-number:" + seasonID + ":" + strconv.Itoa(number)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetEpisodeByNumber(ctx, seasonID, number)
		if err != nil {
			return nil, err
		}
		return cachedEpisode{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Episode{}, false, err
	}

	cached, _ := v.(cachedEpisode)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) UpdateEpisodeLifecycle(ctx context.Context, e season.Episode) error {
	defer r.cache.DeletePrefix(ctx, seasonKeyPrefix)
	return r.next.UpdateEpisodeLifecycle(ctx, e)
}

type cachedSeason struct {
	value  season.Season
	exists bool
}

type cachedEpisode struct {
	value  season.Episode
	exists bool
}

type CastawayRepository struct {
	next  castaway.Repository
	cache *basecache.Store
}

func NewCastawayRepository(next castaway.Repository, cache *basecache.Store) *CastawayRepository {
	return &CastawayRepository{next: next, cache: cache}
}

func (r *CastawayRepository) ListBySeason(ctx context.Context, seasonID string) ([]castaway.Castaway, error) {
	v, err := r.cache.GetOrLoad(ctx, castawayKeyPrefix+"season:"+seasonID, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return cloneCastaways(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]castaway.Castaway)
	return cloneCastaways(items), nil
}

func (r *CastawayRepository) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, castawayKeyPrefix+"id:"+castawayID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, castawayID)
		if err != nil {
			return nil, err
		}
		return cachedCastaway{value: item, exists: exists}, nil
	})
	if err != nil {
		return castaway.Castaway{}, false, err
	}

	cached, _ := v.(cachedCastaway)
	return cloneCastaway(cached.value), cached.exists, nil
}

func (r *CastawayRepository) MarkEliminated(ctx context.Context, castawayID string, episodeNumber int) error {
	defer r.cache.DeletePrefix(ctx, castawayKeyPrefix)
	return r.next.MarkEliminated(ctx, castawayID, episodeNumber)
}

type cachedCastaway struct {
	value  castaway.Castaway
	exists bool
}

func cloneCastaways(items []castaway.Castaway) []castaway.Castaway {
	out := make([]castaway.Castaway, 0, len(items))
	for _, item := range items {
		out = append(out, cloneCastaway(item))
	}
	return out
}

func cloneCastaway(item castaway.Castaway) castaway.Castaway {
	if item.EliminatedEpisodeNumber != nil {
		n := *item.EliminatedEpisodeNumber
		item.EliminatedEpisodeNumber = &n
	}
	return item
}
