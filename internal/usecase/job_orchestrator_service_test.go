package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
)

type queuedJob struct {
	path    string
	delay   time.Duration
	dedupID string
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []queuedJob
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, _ any, delay time.Duration, deduplicationID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, queuedJob{path: path, delay: delay, dedupID: deduplicationID})
	return nil
}

func TestDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.February, 25, 4, 25, 42, 0, time.UTC)
	got := dedupKey("lock_picks", "s48:ep/1 late", at, 5*time.Minute)

	if strings.Contains(got, ":") {
		t.Fatalf("dedup key must not contain colon, got=%q", got)
	}

	want := "lock_picks-s48-ep-1-late-20260225T042500Z"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
}

func TestSanitizeDedupSegment_EmptyFallback(t *testing.T) {
	t.Parallel()

	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q want=%q", got, "unknown")
	}
}

func TestJobOrchestratorService_ScheduleSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seed := testSeed(1, 1)
	setEpisode(&seed, "ep1", func(e *season.Episode) {
		e.PicksLockedAt = timePtr(e.PicksLockAt)
	})
	f := newGameFixture(t, seed)
	queue := &recordingQueue{}
	svc := NewJobOrchestratorService(f.repos.Season, queue, f.repos.Dispatch, JobOrchestratorConfig{}, nil)
	svc.now = func() time.Time { return fixtureBase.Add(-time.Hour) }

	result, err := svc.ScheduleSeason(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 4, result.QueuedCount)
	require.Equal(t, []string{
		"draft-auto-finalize:s1",
		"process-waivers:ep1",
		"lock-picks:ep2",
		"process-waivers:ep2",
	}, result.QueuedOperations)

	require.Len(t, queue.jobs, 4)
	require.Equal(t, JobPathDraftAutoFinalize, queue.jobs[0].path)
	require.Equal(t, time.Hour, queue.jobs[0].delay)

	again, err := svc.ScheduleSeason(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, queue.jobs[0].dedupID, queue.jobs[4].dedupID, "rescheduling reuses dedup ids")
	require.Equal(t, result.QueuedCount, again.QueuedCount)

	events, err := svc.ListDispatchEvents(ctx, jobscheduler.JobLockPicks, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, jobscheduler.StatusSent, events[0].Status)
	require.Equal(t, "ep2", events[0].EpisodeID)

	svc.RecordJobOutcome(ctx, JobOutcome{
		DispatchID: events[0].DispatchID,
		JobName:    jobscheduler.JobLockPicks,
		JobPath:    JobPathLockPicks,
		EpisodeID:  "ep2",
		Err:        errors.New("league l1 failed"),
	})
	events, err = svc.ListDispatchEvents(ctx, jobscheduler.JobLockPicks, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, jobscheduler.StatusFailed, events[0].Status)
	require.Equal(t, jobscheduler.StatusSent, events[1].Status)
}

func TestJobOrchestratorService_ScheduleSeason_QueueFailure(t *testing.T) {
	t.Parallel()

	f := newGameFixture(t, testSeed(1, 1))
	queue := &recordingQueue{err: errors.New("qstash down")}
	svc := NewJobOrchestratorService(f.repos.Season, queue, f.repos.Dispatch, JobOrchestratorConfig{}, nil)

	_, err := svc.ScheduleSeason(context.Background(), "s1")
	require.Error(t, err)

	events, err := svc.ListDispatchEvents(context.Background(), jobscheduler.JobDraftAutoFinalize, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, jobscheduler.StatusFailed, events[0].Status)

	_, err = svc.ScheduleSeason(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
