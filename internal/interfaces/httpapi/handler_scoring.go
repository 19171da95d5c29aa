package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

// SaveEpisodeScores is the scoring workflow's write path. Each call replaces the counts of
// the listed (castaway, rule) pairs and recomputes every league's episode scores.
func (h *Handler) SaveEpisodeScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveEpisodeScores")
	defer span.End()

	var req saveScoresRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]scoring.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, scoring.Entry{CastawayID: e.CastawayID, RuleID: e.RuleID, Quantity: e.Quantity})
	}

	episodeID := r.PathValue("episodeID")
	result, err := h.scoringService.SaveScores(ctx, usecase.SaveScoresInput{EpisodeID: episodeID, Entries: entries})
	if err != nil {
		h.logger.WarnContext(ctx, "save episode scores failed", "episode_id", episodeID, "entries", len(entries), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RecomputeEpisode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeEpisode")
	defer span.End()

	episodeID := r.PathValue("episodeID")
	result, err := h.scoringService.RecomputeEpisode(ctx, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute episode failed", "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) FinalizeScoring(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeScoring")
	defer span.End()

	episodeID := r.PathValue("episodeID")
	ep, err := h.scoringService.FinalizeScoring(ctx, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize scoring failed", "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, episodeToDTO(ep))
}

func (h *Handler) ReleaseResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReleaseResults")
	defer span.End()

	episodeID := r.PathValue("episodeID")
	ep, err := h.scoringService.ReleaseResults(ctx, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "release results failed", "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, episodeToDTO(ep))
}

func (h *Handler) EliminateCastaway(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EliminateCastaway")
	defer span.End()

	var req eliminateCastawayRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	castawayID := r.PathValue("castawayID")
	item, err := h.scoringService.EliminateCastaway(ctx, castawayID, req.EpisodeNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "eliminate castaway failed", "castaway_id", castawayID, "episode_number", req.EpisodeNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, castawayToDTO(item))
}

func (h *Handler) ListScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoringRules")
	defer span.End()

	rules, err := h.scoringService.ListRules(ctx, r.PathValue("seasonID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]ruleDTO, 0, len(rules))
	for _, rule := range rules {
		items = append(items, ruleToDTO(rule))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpsertScoringRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertScoringRule")
	defer span.End()

	var req upsertRuleRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule, err := h.scoringService.UpsertRule(ctx, usecase.RuleInput{
		ID:       req.ID,
		SeasonID: req.SeasonID,
		Category: req.Category,
		Points:   req.Points,
		Active:   active,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert scoring rule failed", "rule_id", req.ID, "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ruleToDTO(rule))
}

// SignalEpisode applies a phase event that no job owns, such as start_airing.
func (h *Handler) SignalEpisode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SignalEpisode")
	defer span.End()

	var req signalEpisodeRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	event, err := season.ParseEvent(req.Event)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	episodeID := r.PathValue("episodeID")
	ep, err := h.episodeService.Signal(ctx, episodeID, event)
	if err != nil {
		h.logger.WarnContext(ctx, "episode signal rejected", "episode_id", episodeID, "event", event, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, episodeToDTO(ep))
}

func (h *Handler) SignalSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SignalSeason")
	defer span.End()

	var req signalEpisodeRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	event, err := season.ParseEvent(req.Event)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	seasonID := r.PathValue("seasonID")
	item, err := h.episodeService.SignalSeason(ctx, seasonID, event)
	if err != nil {
		h.logger.WarnContext(ctx, "season signal rejected", "season_id", seasonID, "event", event, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonToDTO(item))
}
