package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// Job names the scheduler knows how to dispatch.
const (
	JobDraftAutoFinalize = "draft_auto_finalize"
	JobLockPicks         = "lock_picks"
	JobProcessWaivers    = "process_waivers"
	JobScheduleSeason    = "schedule_season"
	JobNotifySignal      = "notify_signal"
)

type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	SeasonID     string
	LeagueID     string
	EpisodeID    string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
