package postgres

import "time"

type weeklyPickTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	LeaguePublicID   string     `db:"league_public_id"`
	UserID           string     `db:"user_id"`
	EpisodePublicID  string     `db:"episode_public_id"`
	CastawayPublicID string     `db:"castaway_public_id"`
	Status           string     `db:"status"`
	IsAutoSelected   bool       `db:"is_auto_selected"`
	SubmittedAt      time.Time  `db:"submitted_at"`
	LockedAt         *time.Time `db:"locked_at"`
}

type weeklyPickInsertModel struct {
	PublicID         string     `db:"public_id"`
	LeaguePublicID   string     `db:"league_public_id"`
	UserID           string     `db:"user_id"`
	EpisodePublicID  string     `db:"episode_public_id"`
	CastawayPublicID string     `db:"castaway_public_id"`
	Status           string     `db:"status"`
	IsAutoSelected   bool       `db:"is_auto_selected"`
	SubmittedAt      time.Time  `db:"submitted_at"`
	LockedAt         *time.Time `db:"locked_at"`
}
