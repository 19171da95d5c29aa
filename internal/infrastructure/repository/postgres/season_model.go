package postgres

import "time"

type seasonTableModel struct {
	ID                  int64      `db:"id"`
	PublicID            string     `db:"public_id"`
	Number              int        `db:"number"`
	IsActive            bool       `db:"is_active"`
	Phase               string     `db:"phase"`
	RegistrationOpensAt *time.Time `db:"registration_opens_at"`
	DraftOpensAt        *time.Time `db:"draft_opens_at"`
	DraftDeadline       time.Time  `db:"draft_deadline"`
	PremiereAt          *time.Time `db:"premiere_at"`
	FinaleAt            *time.Time `db:"finale_at"`
	DraftFinalizedAt    *time.Time `db:"draft_finalized_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

type seasonInsertModel struct {
	PublicID            string     `db:"public_id"`
	Number              int        `db:"number"`
	IsActive            bool       `db:"is_active"`
	Phase               string     `db:"phase"`
	RegistrationOpensAt *time.Time `db:"registration_opens_at"`
	DraftOpensAt        *time.Time `db:"draft_opens_at"`
	DraftDeadline       time.Time  `db:"draft_deadline"`
	PremiereAt          *time.Time `db:"premiere_at"`
	FinaleAt            *time.Time `db:"finale_at"`
}

type episodeTableModel struct {
	ID                 int64      `db:"id"`
	PublicID           string     `db:"public_id"`
	SeasonPublicID     string     `db:"season_public_id"`
	Number             int        `db:"number"`
	WeekNumber         int        `db:"week_number"`
	AirDate            time.Time  `db:"air_date"`
	PicksOpenAt        time.Time  `db:"picks_open_at"`
	PicksLockAt        time.Time  `db:"picks_lock_at"`
	WaiverOpensAt      time.Time  `db:"waiver_opens_at"`
	WaiverClosesAt     time.Time  `db:"waiver_closes_at"`
	Phase              string     `db:"phase"`
	IsScored           bool       `db:"is_scored"`
	PicksLockedAt      *time.Time `db:"picks_locked_at"`
	ScoringFinalizedAt *time.Time `db:"scoring_finalized_at"`
	ResultsLockedAt    *time.Time `db:"results_locked_at"`
	ResultsReleasedAt  *time.Time `db:"results_released_at"`
	WaiversProcessedAt *time.Time `db:"waivers_processed_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at"`
}

type episodeInsertModel struct {
	PublicID       string    `db:"public_id"`
	SeasonPublicID string    `db:"season_public_id"`
	Number         int       `db:"number"`
	WeekNumber     int       `db:"week_number"`
	AirDate        time.Time `db:"air_date"`
	PicksOpenAt    time.Time `db:"picks_open_at"`
	PicksLockAt    time.Time `db:"picks_lock_at"`
	WaiverOpensAt  time.Time `db:"waiver_opens_at"`
	WaiverClosesAt time.Time `db:"waiver_closes_at"`
	Phase          string    `db:"phase"`
}
