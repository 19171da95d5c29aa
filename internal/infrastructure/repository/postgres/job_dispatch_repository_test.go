package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
)

func TestDispatchEventsFromRow(t *testing.T) {
	sent := time.Date(2026, 2, 25, 4, 0, 0, 0, time.UTC)
	failed := sent.Add(5 * time.Minute)
	row := jobDispatchTableModel{
		jobDispatchInsertModel: jobDispatchInsertModel{
			DispatchID:    "lock-picks-ep-02",
			JobName:       jobscheduler.JobLockPicks,
			JobPath:       "/internal/jobs/lock-picks",
			EpisodeID:     optionalString("season-48-ep-02"),
			Payload:       `{"episode_id":"season-48-ep-02"}`,
			Status:        string(jobscheduler.StatusFailed),
			SentAt:        &sent,
			FailedAt:      &failed,
			LastError:     optionalString("league league-official-48: boom"),
			FailedTraceID: optionalString("trace-1"),
		},
	}

	events := dispatchEventsFromRow(row)
	if len(events) != 2 {
		t.Fatalf("expected sent and failed events, got %d", len(events))
	}
	if events[0].Status != jobscheduler.StatusSent || !events[0].OccurredAt.Equal(sent) || events[0].ErrorMessage != "" {
		t.Fatalf("unexpected sent event: %+v", events[0])
	}
	if events[1].Status != jobscheduler.StatusFailed || events[1].ErrorMessage == "" || events[1].TraceID != "trace-1" {
		t.Fatalf("unexpected failed event: %+v", events[1])
	}
	if events[1].EpisodeID != "season-48-ep-02" || events[1].Payload["episode_id"] != "season-48-ep-02" {
		t.Fatalf("expected episode and payload to be carried, got %+v", events[1])
	}
}

func TestMarshalPayload(t *testing.T) {
	raw, err := marshalPayload(nil)
	if err != nil || raw != "{}" {
		t.Fatalf("expected empty object, got %q err=%v", raw, err)
	}

	raw, err = marshalPayload(map[string]any{"season_id": "season-48"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	decoded := unmarshalPayload(raw)
	if decoded["season_id"] != "season-48" {
		t.Fatalf("unexpected decoded payload: %#v", decoded)
	}
	if got := unmarshalPayload("not json"); len(got) != 0 {
		t.Fatalf("expected empty payload for invalid json, got %#v", got)
	}
}
