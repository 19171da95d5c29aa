package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return fmt.Errorf("dispatch id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	jobPath := strings.TrimSpace(event.JobPath)
	if jobPath == "" {
		jobPath = "/unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payloadJSON, err := marshalPayload(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal job dispatch payload: %w", err)
	}

	model := jobDispatchInsertModel{
		DispatchID: dispatchID,
		JobName:    jobName,
		JobPath:    jobPath,
		SeasonID:   optionalString(event.SeasonID),
		LeagueID:   optionalString(event.LeagueID),
		EpisodeID:  optionalString(event.EpisodeID),
		Payload:    payloadJSON,
		Status:     string(event.Status),
		LastError:  optionalString(event.ErrorMessage),
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		model.SentAt = &occurredAt
		model.SentTraceID = optionalString(event.TraceID)
		model.SentSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusCompleted:
		model.CompletedAt = &occurredAt
		model.CompletedTraceID = optionalString(event.TraceID)
		model.CompletedSpanID = optionalString(event.SpanID)
		model.LastError = nil
	case jobscheduler.StatusFailed:
		model.FailedAt = &occurredAt
		model.FailedTraceID = optionalString(event.TraceID)
		model.FailedSpanID = optionalString(event.SpanID)
	default:
		return fmt.Errorf("unknown dispatch status %q", event.Status)
	}

	query, args, err := qb.InsertModel("job_dispatches", model, `ON CONFLICT (dispatch_id) WHERE deleted_at IS NULL
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    job_path = EXCLUDED.job_path,
    season_public_id = COALESCE(EXCLUDED.season_public_id, job_dispatches.season_public_id),
    league_public_id = COALESCE(EXCLUDED.league_public_id, job_dispatches.league_public_id),
    episode_public_id = COALESCE(EXCLUDED.episode_public_id, job_dispatches.episode_public_id),
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    sent_at = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_at
        ELSE COALESCE(job_dispatches.sent_at, EXCLUDED.sent_at)
    END,
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_dispatches.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        ELSE job_dispatches.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE job_dispatches.last_error
    END,
    sent_trace_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_trace_id
        ELSE job_dispatches.sent_trace_id
    END,
    sent_span_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN EXCLUDED.sent_span_id
        ELSE job_dispatches.sent_span_id
    END,
    completed_trace_id = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_trace_id
        ELSE job_dispatches.completed_trace_id
    END,
    completed_span_id = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_span_id
        ELSE job_dispatches.completed_span_id
    END,
    failed_trace_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_trace_id
        ELSE job_dispatches.failed_trace_id
    END,
    failed_span_id = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_span_id
        ELSE job_dispatches.failed_span_id
    END,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", dispatchID, event.Status, err)
	}

	return nil
}

// ListEvents returns one event per recorded status of each dispatch, newest first.
func (r *JobDispatchRepository) ListEvents(ctx context.Context, jobName string, limit int) ([]jobscheduler.DispatchEvent, error) {
	conditions := []qb.Condition{qb.IsNull("deleted_at")}
	if name := strings.TrimSpace(jobName); name != "" {
		conditions = append(conditions, qb.Eq("job_name", name))
	}
	builder := qb.Select("*").From("job_dispatches").
		Where(conditions...).
		OrderBy("updated_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list job dispatches query: %w", err)
	}

	var rows []jobDispatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list job dispatches job=%s: %w", jobName, err)
	}

	out := make([]jobscheduler.DispatchEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, dispatchEventsFromRow(row)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func dispatchEventsFromRow(row jobDispatchTableModel) []jobscheduler.DispatchEvent {
	base := jobscheduler.DispatchEvent{
		DispatchID: row.DispatchID,
		JobName:    row.JobName,
		JobPath:    row.JobPath,
		SeasonID:   derefString(row.SeasonID),
		LeagueID:   derefString(row.LeagueID),
		EpisodeID:  derefString(row.EpisodeID),
		Payload:    unmarshalPayload(row.Payload),
	}

	out := make([]jobscheduler.DispatchEvent, 0, 3)
	add := func(status jobscheduler.DispatchStatus, at *time.Time, traceID, spanID *string, errMsg string) {
		if at == nil {
			return
		}
		event := base
		event.Status = status
		event.OccurredAt = at.UTC()
		event.TraceID = derefString(traceID)
		event.SpanID = derefString(spanID)
		event.ErrorMessage = errMsg
		out = append(out, event)
	}
	add(jobscheduler.StatusSent, row.SentAt, row.SentTraceID, row.SentSpanID, "")
	add(jobscheduler.StatusCompleted, row.CompletedAt, row.CompletedTraceID, row.CompletedSpanID, "")
	add(jobscheduler.StatusFailed, row.FailedAt, row.FailedTraceID, row.FailedSpanID, derefString(row.LastError))
	return out
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalPayload(raw string) map[string]any {
	out := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
