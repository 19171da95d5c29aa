package postgres

import (
	"time"

	"github.com/lib/pq"
)

type waiverRankingTableModel struct {
	ID                int64          `db:"id"`
	LeaguePublicID    string         `db:"league_public_id"`
	UserID            string         `db:"user_id"`
	EpisodePublicID   string         `db:"episode_public_id"`
	CastawayPublicIDs pq.StringArray `db:"castaway_public_ids"`
	SubmittedAt       time.Time      `db:"submitted_at"`
}

type waiverRankingInsertModel struct {
	LeaguePublicID    string         `db:"league_public_id"`
	UserID            string         `db:"user_id"`
	EpisodePublicID   string         `db:"episode_public_id"`
	CastawayPublicIDs pq.StringArray `db:"castaway_public_ids"`
	SubmittedAt       time.Time      `db:"submitted_at"`
}

type waiverCycleInsertModel struct {
	LeaguePublicID  string    `db:"league_public_id"`
	EpisodePublicID string    `db:"episode_public_id"`
	Claims          int       `db:"claims"`
	ProcessedAt     time.Time `db:"processed_at"`
}

type waiverResultTableModel struct {
	ID                       int64     `db:"id"`
	LeaguePublicID           string    `db:"league_public_id"`
	UserID                   string    `db:"user_id"`
	EpisodePublicID          string    `db:"episode_public_id"`
	DroppedCastawayPublicID  string    `db:"dropped_castaway_public_id"`
	AcquiredCastawayPublicID *string   `db:"acquired_castaway_public_id"`
	WaiverPosition           int       `db:"waiver_position"`
	ProcessedAt              time.Time `db:"processed_at"`
}

type waiverResultInsertModel struct {
	LeaguePublicID           string    `db:"league_public_id"`
	UserID                   string    `db:"user_id"`
	EpisodePublicID          string    `db:"episode_public_id"`
	DroppedCastawayPublicID  string    `db:"dropped_castaway_public_id"`
	AcquiredCastawayPublicID *string   `db:"acquired_castaway_public_id"`
	WaiverPosition           int       `db:"waiver_position"`
	ProcessedAt              time.Time `db:"processed_at"`
}
