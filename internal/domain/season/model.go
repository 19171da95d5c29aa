package season

import (
	"errors"
	"time"
)

var ErrNoActiveSeason = errors.New("no active season")

// Season is one run of the show. Exactly one season is active at a time.
type Season struct {
	ID                  string
	Number              int
	IsActive            bool
	Phase               Phase
	RegistrationOpensAt time.Time
	DraftOpensAt        time.Time
	DraftDeadline       time.Time
	PremiereAt          time.Time
	FinaleAt            time.Time
	DraftFinalizedAt    *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Episode carries the timestamps the scheduler works from plus the phase the engine has reached.
type Episode struct {
	ID                 string
	SeasonID           string
	Number             int
	WeekNumber         int
	AirDate            time.Time
	PicksOpenAt        time.Time
	PicksLockAt        time.Time
	WaiverOpensAt      time.Time
	WaiverClosesAt     time.Time
	Phase              Phase
	IsScored           bool
	PicksLockedAt      *time.Time
	ScoringFinalizedAt *time.Time
	ResultsLockedAt    *time.Time
	ResultsReleasedAt  *time.Time
	WaiversProcessedAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PickWindow reports where now falls relative to the pick window.
func (e Episode) PickWindow(now time.Time) Window {
	return windowAt(now, e.PicksOpenAt, e.PicksLockAt)
}

func (e Episode) WaiverWindow(now time.Time) Window {
	return windowAt(now, e.WaiverOpensAt, e.WaiverClosesAt)
}

func (e Episode) IsFinalized() bool {
	return e.ScoringFinalizedAt != nil
}

type Window int

const (
	WindowNotYetOpen Window = iota
	WindowOpen
	WindowClosed
)

func windowAt(now, opensAt, closesAt time.Time) Window {
	if !opensAt.IsZero() && now.Before(opensAt) {
		return WindowNotYetOpen
	}
	if !closesAt.IsZero() && !now.Before(closesAt) {
		return WindowClosed
	}
	return WindowOpen
}
