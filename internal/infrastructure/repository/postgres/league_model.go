package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	SeasonPublicID string     `db:"season_public_id"`
	Name           string     `db:"name"`
	LeagueType     string     `db:"league_type"`
	CurrentPlayers int        `db:"current_players"`
	MaxPlayers     int        `db:"max_players"`
	Status         string     `db:"status"`
	DraftStatus    string     `db:"draft_status"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID       string `db:"public_id"`
	SeasonPublicID string `db:"season_public_id"`
	Name           string `db:"name"`
	LeagueType     string `db:"league_type"`
	CurrentPlayers int    `db:"current_players"`
	MaxPlayers     int    `db:"max_players"`
	Status         string `db:"status"`
	DraftStatus    string `db:"draft_status"`
}

type leagueMemberTableModel struct {
	ID             int64         `db:"id"`
	LeaguePublicID string        `db:"league_public_id"`
	UserID         string        `db:"user_id"`
	Role           string        `db:"role"`
	DraftPosition  sql.NullInt64 `db:"draft_position"`
	TotalPoints    int           `db:"total_points"`
	Rank           int           `db:"rank"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
	DeletedAt      *time.Time    `db:"deleted_at"`
}

type leagueMemberInsertModel struct {
	LeaguePublicID string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	Role           string    `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
}
