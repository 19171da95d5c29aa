package postgres

import (
	"database/sql"
	"time"
)

type castawayTableModel struct {
	ID                      int64         `db:"id"`
	PublicID                string        `db:"public_id"`
	SeasonPublicID          string        `db:"season_public_id"`
	Name                    string        `db:"name"`
	Status                  string        `db:"status"`
	EliminatedEpisodeNumber sql.NullInt64 `db:"eliminated_episode_number"`
	Seed                    int           `db:"seed"`
	CreatedAt               time.Time     `db:"created_at"`
	UpdatedAt               time.Time     `db:"updated_at"`
	DeletedAt               *time.Time    `db:"deleted_at"`
}

type castawayInsertModel struct {
	PublicID       string `db:"public_id"`
	SeasonPublicID string `db:"season_public_id"`
	Name           string `db:"name"`
	Status         string `db:"status"`
	Seed           int    `db:"seed"`
}
