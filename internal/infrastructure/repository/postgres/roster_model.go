package postgres

import "time"

const (
	activeCastawayIndex = "uq_roster_entries_active_castaway"
	draftPickIndex      = "uq_roster_entries_draft_pick"
)

type rosterEntryTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	LeaguePublicID   string     `db:"league_public_id"`
	UserID           string     `db:"user_id"`
	CastawayPublicID string     `db:"castaway_public_id"`
	DraftRound       int        `db:"draft_round"`
	DraftPick        int        `db:"draft_pick"`
	AcquiredVia      string     `db:"acquired_via"`
	AcquiredAt       time.Time  `db:"acquired_at"`
	DroppedAt        *time.Time `db:"dropped_at"`
	CreatedAt        time.Time  `db:"created_at"`
}

type rosterEntryInsertModel struct {
	PublicID         string    `db:"public_id"`
	LeaguePublicID   string    `db:"league_public_id"`
	UserID           string    `db:"user_id"`
	CastawayPublicID string    `db:"castaway_public_id"`
	DraftRound       int       `db:"draft_round"`
	DraftPick        int       `db:"draft_pick"`
	AcquiredVia      string    `db:"acquired_via"`
	AcquiredAt       time.Time `db:"acquired_at"`
}
