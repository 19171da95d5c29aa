// Package signal describes the outbound events the game engine emits for the notification side.
package signal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindDraftPickMade     Kind = "draft_pick_made"
	KindAutoPickApplied   Kind = "auto_pick_applied"
	KindTorchSnuffed      Kind = "torch_snuffed"
	KindEpisodeScored     Kind = "episode_scored"
	KindWaiverResultReady Kind = "waiver_result_ready"
)

type Signal struct {
	Kind       Kind
	SeasonID   string
	LeagueID   string
	EpisodeID  string
	UserID     string
	Attributes map[string]any
	OccurredAt time.Time
}

// DedupID is stable for the same fact so a retried job does not notify twice.
func (s Signal) DedupID() string {
	parts := []string{string(s.Kind)}
	for _, v := range []string{s.SeasonID, s.LeagueID, s.EpisodeID, s.UserID} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ":")
}

func (s Signal) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.DedupID())
}

// Publisher hands signals to the notification collaborator.
type Publisher interface {
	Publish(ctx context.Context, s Signal) error
}

type noopPublisher struct{}

func NoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Signal) error {
	return nil
}
