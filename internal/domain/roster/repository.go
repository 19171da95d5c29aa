package roster

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Entry, error)
	ListActiveByUser(ctx context.Context, leagueID, userID string) ([]Entry, error)
}
