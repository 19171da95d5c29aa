package castaway

import (
	"errors"
	"fmt"
)

var ErrAlreadyEliminated = errors.New("castaway already eliminated in another episode")

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusEliminated Status = "ELIMINATED"
)

func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusActive, StatusEliminated:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("unknown castaway status %q", raw)
	}
}

type Castaway struct {
	ID                      string
	SeasonID                string
	Name                    string
	Status                  Status
	EliminatedEpisodeNumber *int
	// Seed orders castaways deterministically before any shuffle.
	Seed int
}

func (c Castaway) IsActive() bool {
	return c.Status == StatusActive
}

// Eliminate returns the castaway marked out in episodeNumber. Repeating the same
// elimination is allowed; changing the recorded episode is not.
func (c Castaway) Eliminate(episodeNumber int) (Castaway, error) {
	if episodeNumber <= 0 {
		return c, fmt.Errorf("episode number must be > 0")
	}
	if c.EliminatedEpisodeNumber != nil {
		if *c.EliminatedEpisodeNumber == episodeNumber {
			return c, nil
		}
		return c, fmt.Errorf("%w: castaway=%s episode=%d", ErrAlreadyEliminated, c.ID, *c.EliminatedEpisodeNumber)
	}
	n := episodeNumber
	c.Status = StatusEliminated
	c.EliminatedEpisodeNumber = &n
	return c, nil
}

// ByID indexes a castaway list.
func ByID(items []Castaway) map[string]Castaway {
	out := make(map[string]Castaway, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}
