package season

import "context"

type Repository interface {
	GetActive(ctx context.Context) (Season, bool, error)
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
	UpdateSeasonPhase(ctx context.Context, s Season) error

	GetEpisode(ctx context.Context, episodeID string) (Episode, bool, error)
	ListEpisodes(ctx context.Context, seasonID string) ([]Episode, error)
	GetEpisodeByNumber(ctx context.Context, seasonID string, number int) (Episode, bool, error)
	UpdateEpisodeLifecycle(ctx context.Context, e Episode) error
}

// Provider resolves the active season. Callers receive it by injection instead of reading shared state.
type Provider interface {
	ActiveSeason(ctx context.Context) (Season, error)
}

type repositoryProvider struct {
	repo Repository
}

// NewProvider adapts a Repository (typically the cached one) into a Provider.
func NewProvider(repo Repository) Provider {
	return repositoryProvider{repo: repo}
}

func (p repositoryProvider) ActiveSeason(ctx context.Context) (Season, error) {
	item, ok, err := p.repo.GetActive(ctx)
	if err != nil {
		return Season{}, err
	}
	if !ok {
		return Season{}, ErrNoActiveSeason
	}
	return item, nil
}
