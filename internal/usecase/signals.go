package usecase

import (
	"context"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

// emitSignal publishes s and only logs failures; notifications never fail the job that produced them.
func emitSignal(ctx context.Context, publisher signal.Publisher, logger *logging.Logger, s signal.Signal) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, s); err != nil {
		logger.WarnContext(ctx, "publish signal failed",
			"kind", s.Kind,
			"league_id", s.LeagueID,
			"episode_id", s.EpisodeID,
			"user_id", s.UserID,
			"error", err,
		)
	}
}

// RankingInvalidator drops cached rankings after scores change.
type RankingInvalidator interface {
	InvalidateSeason(ctx context.Context, seasonID string)
}

type noopRankingInvalidator struct{}

func (noopRankingInvalidator) InvalidateSeason(context.Context, string) {}
