package waiver

import (
	"context"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

type Repository interface {
	UpsertRanking(ctx context.Context, r Ranking) error
	ListRankings(ctx context.Context, leagueID, episodeID string) ([]Ranking, error)

	IsCycleCommitted(ctx context.Context, leagueID, episodeID string) (bool, error)
	// CommitCycle applies drops, adds and results and writes the ledger row in one
	// transaction. It returns ErrCycleCommitted when the ledger row already exists.
	CommitCycle(ctx context.Context, cycle Cycle, drops, adds []roster.Entry, results []Result) error
	ListResults(ctx context.Context, leagueID, episodeID string) ([]Result, error)
}
