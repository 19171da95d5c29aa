package castaway

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Castaway, error)
	GetByID(ctx context.Context, castawayID string) (Castaway, bool, error)
	MarkEliminated(ctx context.Context, castawayID string, episodeNumber int) error
}
