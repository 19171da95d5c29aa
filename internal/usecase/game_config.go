package usecase

import (
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

// GameConfig carries the ruleset knobs shared by the engines.
type GameConfig struct {
	DraftRounds           int
	EnforceDraftTurn      bool
	MaxActiveCastaways    int
	AllowScoreCorrections bool
	MaxWorkers            int
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		DraftRounds:        draft.DefaultRounds,
		EnforceDraftTurn:   true,
		MaxActiveCastaways: roster.DefaultMaxActive,
		MaxWorkers:         8,
	}
}

func (c GameConfig) normalized() GameConfig {
	if c.DraftRounds <= 0 {
		c.DraftRounds = draft.DefaultRounds
	}
	if c.MaxActiveCastaways <= 0 {
		c.MaxActiveCastaways = roster.DefaultMaxActive
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 8
	}
	return c
}

func workerCount(maxWorkers, tasks int) int {
	if tasks < maxWorkers {
		return max(tasks, 1)
	}
	return maxWorkers
}

func timePtr(t time.Time) *time.Time {
	return &t
}
