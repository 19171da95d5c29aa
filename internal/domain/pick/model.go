package pick

import (
	"fmt"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusLocked  Status = "LOCKED"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusLocked:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown pick status %q", raw)
}

// WeeklyPick is the single castaway a member plays for one episode.
type WeeklyPick struct {
	ID             string
	LeagueID       string
	UserID         string
	EpisodeID      string
	CastawayID     string
	Status         Status
	IsAutoSelected bool
	SubmittedAt    time.Time
	LockedAt       *time.Time
}

func (p WeeklyPick) Locked() bool {
	return p.Status == StatusLocked
}

// ChooseAutoPick selects the castaway to play for a member who made no pick.
// active holds the member's held, non-eliminated entries. With two options the one not
// played last episode wins; without that signal the lower draft pick wins.
// The bool is false when nothing can be played.
func ChooseAutoPick(active []roster.Entry, previousCastawayID string) (roster.Entry, bool) {
	switch len(active) {
	case 0:
		return roster.Entry{}, false
	case 1:
		return active[0], true
	}

	sorted := append([]roster.Entry(nil), active...)
	roster.SortByDraftPick(sorted)

	if previousCastawayID != "" {
		played := false
		for _, e := range sorted {
			if e.CastawayID == previousCastawayID {
				played = true
				break
			}
		}
		if played {
			for _, e := range sorted {
				if e.CastawayID != previousCastawayID {
					return e, true
				}
			}
		}
	}
	return sorted[0], true
}
