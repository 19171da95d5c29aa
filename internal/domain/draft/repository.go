package draft

import (
	"context"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

// PickCommit is one live pick together with the limits the store re-checks while writing it.
type PickCommit struct {
	Entry roster.Entry
	// Complete marks the last pick of the draft.
	Complete  bool
	MaxActive int
}

// Finalization completes one league's draft with auto-assigned entries.
type Finalization struct {
	LeagueID string
	// PicksMade is the draft pick count the entries were computed from.
	PicksMade int
	Entries   []roster.Entry
	// Positions holds draft positions for members that never received one.
	Positions map[string]int
	MaxActive int
}

type Repository interface {
	// CommitPick inserts a live draft entry after re-checking, under the league lock, that
	// the draft is in progress, that Entry.DraftPick is the next pick and that the member has
	// room. When Complete is true the same transaction sets draftStatus COMPLETED and league
	// status ACTIVE.
	CommitPick(ctx context.Context, in PickCommit) error
	// Finalize inserts auto-draft entries, persists missing positions and completes the draft
	// atomically. It fails with ErrStaleDraft when picks landed after PicksMade was read.
	Finalize(ctx context.Context, in Finalization) error
}
