package league

import "context"

type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]League, error)
	ListMembers(ctx context.Context, leagueID string) ([]Membership, error)
	GetMembership(ctx context.Context, leagueID, userID string) (Membership, bool, error)
	ListMembershipsByUser(ctx context.Context, seasonID, userID string) ([]Membership, error)
	// StartDraft stores draft positions and flips draftStatus to IN_PROGRESS atomically.
	StartDraft(ctx context.Context, leagueID string, positions map[string]int) error
	// UpdateStandings writes totalPoints and rank for every member in one transaction.
	UpdateStandings(ctx context.Context, leagueID string, members []Membership) error
}
