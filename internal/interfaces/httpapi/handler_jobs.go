package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type internalJobRequest struct {
	DispatchID string `json:"dispatch_id" validate:"omitempty,max=200"`
	SeasonID   string `json:"season_id" validate:"omitempty,max=100"`
	EpisodeID  string `json:"episode_id" validate:"omitempty,max=100"`
}

type internalJob struct {
	name string
	path string
	run  func(ctx context.Context, req internalJobRequest) (any, error)
}

func (h *Handler) RunDraftAutoFinalizeJob(w http.ResponseWriter, r *http.Request) {
	h.runInternalJob(w, r, "httpapi.Handler.RunDraftAutoFinalizeJob", internalJob{
		name: jobscheduler.JobDraftAutoFinalize,
		path: usecase.JobPathDraftAutoFinalize,
		run: func(ctx context.Context, req internalJobRequest) (any, error) {
			if req.SeasonID == "" {
				return nil, fmt.Errorf("%w: season_id is required", usecase.ErrInvalidInput)
			}
			return h.draftService.RunAutoFinalizeDraft(ctx, req.SeasonID)
		},
	})
}

func (h *Handler) RunLockPicksJob(w http.ResponseWriter, r *http.Request) {
	h.runInternalJob(w, r, "httpapi.Handler.RunLockPicksJob", internalJob{
		name: jobscheduler.JobLockPicks,
		path: usecase.JobPathLockPicks,
		run: func(ctx context.Context, req internalJobRequest) (any, error) {
			if req.EpisodeID == "" {
				return nil, fmt.Errorf("%w: episode_id is required", usecase.ErrInvalidInput)
			}
			return h.pickService.LockAndAutoPick(ctx, req.EpisodeID)
		},
	})
}

func (h *Handler) RunProcessWaiversJob(w http.ResponseWriter, r *http.Request) {
	h.runInternalJob(w, r, "httpapi.Handler.RunProcessWaiversJob", internalJob{
		name: jobscheduler.JobProcessWaivers,
		path: usecase.JobPathProcessWaivers,
		run: func(ctx context.Context, req internalJobRequest) (any, error) {
			if req.EpisodeID == "" {
				return nil, fmt.Errorf("%w: episode_id is required", usecase.ErrInvalidInput)
			}
			return h.waiverService.ProcessWaivers(ctx, req.EpisodeID)
		},
	})
}

func (h *Handler) RunScheduleSeasonJob(w http.ResponseWriter, r *http.Request) {
	h.runInternalJob(w, r, "httpapi.Handler.RunScheduleSeasonJob", internalJob{
		name: jobscheduler.JobScheduleSeason,
		path: usecase.JobPathScheduleSeason,
		run: func(ctx context.Context, req internalJobRequest) (any, error) {
			if req.SeasonID == "" {
				return nil, fmt.Errorf("%w: season_id is required", usecase.ErrInvalidInput)
			}
			return h.jobOrchestrator.ScheduleSeason(ctx, req.SeasonID)
		},
	})
}

func (h *Handler) ListJobDispatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobDispatches")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"), 50)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.jobOrchestrator.ListDispatchEvents(ctx, r.URL.Query().Get("job_name"), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]dispatchEventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, dispatchEventToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// runInternalJob decodes the dispatch payload, runs the job and appends its outcome to the
// dispatch ledger. A non-2xx response makes the queue retry, which every job tolerates.
func (h *Handler) runInternalJob(w http.ResponseWriter, r *http.Request, spanName string, job internalJob) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRequest
	if err := h.decodeAndValidate(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	req.DispatchID = strings.TrimSpace(req.DispatchID)
	req.SeasonID = strings.TrimSpace(req.SeasonID)
	req.EpisodeID = strings.TrimSpace(req.EpisodeID)
	if req.DispatchID == "" {
		req.DispatchID = strings.TrimSpace(r.Header.Get("Upstash-Message-Id"))
	}
	if req.DispatchID == "" {
		subject := req.EpisodeID
		if subject == "" {
			subject = req.SeasonID
		}
		req.DispatchID = buildManualDispatchID(job.name, subject, time.Now())
	}

	h.logger.InfoContext(ctx, "internal job started", "job", job.name, "dispatch_id", req.DispatchID, "season_id", req.SeasonID, "episode_id", req.EpisodeID)
	result, err := job.run(ctx, req)
	h.jobOrchestrator.RecordJobOutcome(ctx, usecase.JobOutcome{
		DispatchID: req.DispatchID,
		JobName:    job.name,
		JobPath:    job.path,
		SeasonID:   req.SeasonID,
		EpisodeID:  req.EpisodeID,
		Payload:    internalJobPayload(req),
		Err:        err,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "internal job failed", "job", job.name, "dispatch_id", req.DispatchID, "season_id", req.SeasonID, "episode_id", req.EpisodeID, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.logger.InfoContext(ctx, "internal job finished", "job", job.name, "dispatch_id", req.DispatchID, "season_id", req.SeasonID, "episode_id", req.EpisodeID)

	writeSuccess(ctx, w, http.StatusOK, result)
}

func internalJobPayload(req internalJobRequest) map[string]any {
	payload := make(map[string]any, 3)
	if req.SeasonID != "" {
		payload["season_id"] = req.SeasonID
	}
	if req.EpisodeID != "" {
		payload["episode_id"] = req.EpisodeID
	}
	if req.DispatchID != "" {
		payload["dispatch_id"] = req.DispatchID
	}
	return payload
}

func buildManualDispatchID(jobName, subjectID string, now time.Time) string {
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + sanitizeDispatchPart(jobName) + "-" + sanitizeDispatchPart(subjectID) + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}
