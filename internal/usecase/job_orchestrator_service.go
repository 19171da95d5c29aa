package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

const (
	JobPathDraftAutoFinalize = "/v1/internal/jobs/draft-auto-finalize"
	JobPathLockPicks         = "/v1/internal/jobs/lock-picks"
	JobPathProcessWaivers    = "/v1/internal/jobs/process-waivers"
	JobPathScheduleSeason    = "/v1/internal/jobs/schedule-season"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	// DedupBucket rounds trigger times so repeated scheduling of one trigger yields one dedup id.
	DedupBucket time.Duration
}

type ScheduleSeasonResult struct {
	SeasonID         string   `json:"season_id"`
	QueuedCount      int      `json:"queued_count"`
	QueuedOperations []string `json:"queued_operations"`
}

// JobOutcome is what an internal job endpoint reports after running a dispatched job.
type JobOutcome struct {
	DispatchID string
	JobName    string
	JobPath    string
	SeasonID   string
	LeagueID   string
	EpisodeID  string
	Payload    map[string]any
	Err        error
}

// JobOrchestratorService turns season and episode timestamps into delayed job dispatches
// and keeps the dispatch ledger.
type JobOrchestratorService struct {
	seasonRepo   season.Repository
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	seasonRepo season.Repository,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DedupBucket <= 0 {
		cfg.DedupBucket = time.Minute
	}

	return &JobOrchestratorService{
		seasonRepo:   seasonRepo,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// ScheduleSeason enqueues every scheduled job the season still needs: draft auto-finalize at
// the draft deadline, pick lock at each picksLockAt, and waiver processing at each waiverClosesAt.
// Triggers in the past are enqueued without delay.
func (s *JobOrchestratorService) ScheduleSeason(ctx context.Context, seasonID string) (ScheduleSeasonResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.ScheduleSeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return ScheduleSeasonResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	item, ok, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return ScheduleSeasonResult{}, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return ScheduleSeasonResult{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}
	episodes, err := s.seasonRepo.ListEpisodes(ctx, item.ID)
	if err != nil {
		return ScheduleSeasonResult{}, fmt.Errorf("list episodes: %w", err)
	}

	now := s.now().UTC()
	result := ScheduleSeasonResult{SeasonID: item.ID, QueuedOperations: make([]string, 0, 1+2*len(episodes))}

	if item.DraftFinalizedAt == nil && !item.DraftDeadline.IsZero() {
		if err := s.enqueue(ctx, jobscheduler.JobDraftAutoFinalize, JobPathDraftAutoFinalize, item.ID, "", item.DraftDeadline, now, map[string]any{"season_id": item.ID}); err != nil {
			return ScheduleSeasonResult{}, err
		}
		result.QueuedCount++
		result.QueuedOperations = append(result.QueuedOperations, "draft-auto-finalize:"+item.ID)
	}

	for _, ep := range episodes {
		if ep.PicksLockedAt == nil && !ep.PicksLockAt.IsZero() {
			if err := s.enqueue(ctx, jobscheduler.JobLockPicks, JobPathLockPicks, item.ID, ep.ID, ep.PicksLockAt, now, map[string]any{"episode_id": ep.ID}); err != nil {
				return ScheduleSeasonResult{}, err
			}
			result.QueuedCount++
			result.QueuedOperations = append(result.QueuedOperations, "lock-picks:"+ep.ID)
		}
		if ep.WaiversProcessedAt == nil && !ep.WaiverClosesAt.IsZero() {
			if err := s.enqueue(ctx, jobscheduler.JobProcessWaivers, JobPathProcessWaivers, item.ID, ep.ID, ep.WaiverClosesAt, now, map[string]any{"episode_id": ep.ID}); err != nil {
				return ScheduleSeasonResult{}, err
			}
			result.QueuedCount++
			result.QueuedOperations = append(result.QueuedOperations, "process-waivers:"+ep.ID)
		}
	}

	s.logger.InfoContext(ctx, "season jobs scheduled", "job", jobscheduler.JobScheduleSeason, "season_id", item.ID, "queued", result.QueuedCount)
	return result, nil
}

// RecordJobOutcome appends a completed or failed event for a dispatched job.
func (s *JobOrchestratorService) RecordJobOutcome(ctx context.Context, outcome JobOutcome) {
	event := jobscheduler.DispatchEvent{
		DispatchID: outcome.DispatchID,
		JobName:    outcome.JobName,
		JobPath:    outcome.JobPath,
		SeasonID:   outcome.SeasonID,
		LeagueID:   outcome.LeagueID,
		EpisodeID:  outcome.EpisodeID,
		Status:     jobscheduler.StatusCompleted,
		Payload:    outcome.Payload,
		OccurredAt: s.now().UTC(),
	}
	if outcome.Err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = outcome.Err.Error()
	}
	s.recordDispatchEvent(ctx, event)
}

func (s *JobOrchestratorService) ListDispatchEvents(ctx context.Context, jobName string, limit int) ([]jobscheduler.DispatchEvent, error) {
	if s.dispatchRepo == nil {
		return []jobscheduler.DispatchEvent{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	items, err := s.dispatchRepo.ListEvents(ctx, strings.TrimSpace(jobName), limit)
	if err != nil {
		return nil, fmt.Errorf("list dispatch events: %w", err)
	}
	return items, nil
}

func (s *JobOrchestratorService) enqueue(
	ctx context.Context,
	jobName, path, seasonID, episodeID string,
	at, now time.Time,
	payload map[string]any,
) error {
	subject := episodeID
	if subject == "" {
		subject = seasonID
	}
	dedupID := dedupKey(jobName, subject, at, s.cfg.DedupBucket)
	payload["dispatch_id"] = dedupID

	delay := at.Sub(now)
	if delay < 0 {
		delay = 0
	}

	event := jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    jobName,
		JobPath:    path,
		SeasonID:   seasonID,
		EpisodeID:  episodeID,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
		OccurredAt: now,
	}
	if err := s.queue.Enqueue(ctx, path, payload, delay, dedupID); err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		s.recordDispatchEvent(ctx, event)
		return fmt.Errorf("enqueue %s subject=%s: %w", jobName, subject, err)
	}
	s.recordDispatchEvent(ctx, event)
	return nil
}

func dedupKey(prefix, subjectID string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	subjectID = sanitizeDedupSegment(subjectID)
	return prefix + "-" + subjectID + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
