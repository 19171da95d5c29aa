package scoring

import "context"

type Repository interface {
	ListRules(ctx context.Context, seasonID string) ([]Rule, error)
	GetRule(ctx context.Context, ruleID string) (Rule, bool, error)
	UpsertRule(ctx context.Context, rule Rule) error
	// IsRuleUsed reports whether any finalized episode has a score row for the rule.
	IsRuleUsed(ctx context.Context, ruleID string) (bool, error)

	UpsertEpisodeScores(ctx context.Context, items []EpisodeScore) error
	ListEpisodeScores(ctx context.Context, episodeID string) ([]EpisodeScore, error)

	// ReplaceLeagueScores swaps every Score row of (league, episode) for scores in one transaction.
	ReplaceLeagueScores(ctx context.Context, leagueID, episodeID string, scores []Score) error
	ListScoresByLeague(ctx context.Context, leagueID string) ([]Score, error)
}
