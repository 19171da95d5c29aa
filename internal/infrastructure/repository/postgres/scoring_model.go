package postgres

import "time"

type scoringRuleTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	SeasonPublicID string     `db:"season_public_id"`
	Category       string     `db:"category"`
	Points         int        `db:"points"`
	IsActive       bool       `db:"is_active"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type scoringRuleInsertModel struct {
	PublicID       string    `db:"public_id"`
	SeasonPublicID string    `db:"season_public_id"`
	Category       string    `db:"category"`
	Points         int       `db:"points"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type episodeScoreTableModel struct {
	ID               int64     `db:"id"`
	EpisodePublicID  string    `db:"episode_public_id"`
	CastawayPublicID string    `db:"castaway_public_id"`
	RulePublicID     string    `db:"rule_public_id"`
	Quantity         int       `db:"quantity"`
	Points           int       `db:"points"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type episodeScoreInsertModel struct {
	EpisodePublicID  string    `db:"episode_public_id"`
	CastawayPublicID string    `db:"castaway_public_id"`
	RulePublicID     string    `db:"rule_public_id"`
	Quantity         int       `db:"quantity"`
	Points           int       `db:"points"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type scoreTableModel struct {
	ID               int64     `db:"id"`
	LeaguePublicID   string    `db:"league_public_id"`
	UserID           string    `db:"user_id"`
	EpisodePublicID  string    `db:"episode_public_id"`
	WeekNumber       int       `db:"week_number"`
	CastawayPublicID string    `db:"castaway_public_id"`
	Points           int       `db:"points"`
	CalculatedAt     time.Time `db:"calculated_at"`
}

type scoreInsertModel struct {
	LeaguePublicID   string    `db:"league_public_id"`
	UserID           string    `db:"user_id"`
	EpisodePublicID  string    `db:"episode_public_id"`
	WeekNumber       int       `db:"week_number"`
	CastawayPublicID string    `db:"castaway_public_id"`
	Points           int       `db:"points"`
	CalculatedAt     time.Time `db:"calculated_at"`
}
