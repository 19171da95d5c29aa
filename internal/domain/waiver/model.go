package waiver

import (
	"errors"
	"fmt"
	"time"
)

var ErrCycleCommitted = errors.New("waiver cycle already committed")

// Ranking is a member's ordered wish list for one waiver cycle, most preferred first.
type Ranking struct {
	LeagueID    string
	UserID      string
	EpisodeID   string
	CastawayIDs []string
	SubmittedAt time.Time
}

// Validate rejects empty and duplicated candidate lists.
func (r Ranking) Validate() error {
	if len(r.CastawayIDs) == 0 {
		return fmt.Errorf("ranking must list at least one castaway")
	}
	seen := make(map[string]struct{}, len(r.CastawayIDs))
	for _, id := range r.CastawayIDs {
		if id == "" {
			return fmt.Errorf("ranking contains an empty castaway id")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("castaway %s ranked twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Result records one member's claim attempt. AcquiredCastawayID is nil when nothing was
// available, in which case the eliminated castaway stays on the roster.
type Result struct {
	LeagueID           string
	UserID             string
	EpisodeID          string
	DroppedCastawayID  string
	AcquiredCastawayID *string
	WaiverPosition     int
	ProcessedAt        time.Time
}

func (r Result) Claimed() bool {
	return r.AcquiredCastawayID != nil
}

// Cycle is the per-(league, episode) ledger row written with the claims.
type Cycle struct {
	LeagueID    string
	EpisodeID   string
	Claims      int
	ProcessedAt time.Time
}
