package pick

import (
	"context"
	"time"
)

type Repository interface {
	GetByMember(ctx context.Context, leagueID, userID, episodeID string) (WeeklyPick, bool, error)
	ListByEpisode(ctx context.Context, leagueID, episodeID string) ([]WeeklyPick, error)
	// UpsertPending replaces the member's pick for the episode unless it is already locked.
	// The bool is false when a locked pick blocked the write.
	UpsertPending(ctx context.Context, p WeeklyPick) (bool, error)
	// LockPending flips every PENDING pick of the episode to LOCKED and returns how many changed.
	LockPending(ctx context.Context, episodeID string, at time.Time) (int, error)
	// InsertLockedIfAbsent stores an auto pick only when the member still has no row.
	InsertLockedIfAbsent(ctx context.Context, p WeeklyPick) (bool, error)
}
