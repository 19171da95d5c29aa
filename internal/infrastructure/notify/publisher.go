// Package notify delivers engine signals to the notification collaborator.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

const DefaultTargetPath = "/internal/notifications/signals"

// Enqueuer is the job queue surface the publisher needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type payload struct {
	Kind       string         `json:"kind"`
	SeasonID   string         `json:"season_id,omitempty"`
	LeagueID   string         `json:"league_id,omitempty"`
	EpisodeID  string         `json:"episode_id,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// QueuePublisher posts each signal to the notification endpoint through the job queue,
// keyed by the signal's dedup id so retried jobs collapse into one delivery.
type QueuePublisher struct {
	queue      Enqueuer
	targetPath string
	logger     *logging.Logger
}

func NewQueuePublisher(queue Enqueuer, targetPath string, logger *logging.Logger) *QueuePublisher {
	if logger == nil {
		logger = logging.Default()
	}
	targetPath = strings.TrimSpace(targetPath)
	if targetPath == "" {
		targetPath = DefaultTargetPath
	}
	return &QueuePublisher{queue: queue, targetPath: targetPath, logger: logger}
}

func (p *QueuePublisher) Publish(ctx context.Context, s signal.Signal) error {
	if s.Kind == "" {
		return errors.New("signal kind is required")
	}

	body := payload{
		Kind:       string(s.Kind),
		SeasonID:   s.SeasonID,
		LeagueID:   s.LeagueID,
		EpisodeID:  s.EpisodeID,
		UserID:     s.UserID,
		Attributes: s.Attributes,
		OccurredAt: s.OccurredAt.UTC(),
	}
	dedupID := dedupKey(s)
	if err := p.queue.Enqueue(ctx, p.targetPath, body, 0, dedupID); err != nil {
		return errors.Wrapf(err, "publish signal %s", s)
	}

	p.logger.DebugContext(ctx, "signal published", "kind", s.Kind, "dedup_id", dedupID)
	return nil
}

// LogPublisher only logs signals. It backs local runs without a queue.
type LogPublisher struct {
	logger *logging.Logger
}

func NewLogPublisher(logger *logging.Logger) *LogPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, s signal.Signal) error {
	p.logger.InfoContext(ctx, "signal emitted",
		"kind", s.Kind,
		"season_id", s.SeasonID,
		"league_id", s.LeagueID,
		"episode_id", s.EpisodeID,
		"user_id", s.UserID,
		"attributes", s.Attributes,
	)
	return nil
}

// dedupKey turns the signal's dedup id into characters QStash accepts in a header.
func dedupKey(s signal.Signal) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, s.DedupID())
}
