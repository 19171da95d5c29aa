package httpapi

import (
	"net/http"

	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	userID, err := currentUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req submitPickRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	item, err := h.pickService.SubmitPick(ctx, usecase.SubmitPickInput{
		LeagueID:   leagueID,
		UserID:     userID,
		EpisodeID:  req.EpisodeID,
		CastawayID: req.CastawayID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick rejected",
			"league_id", leagueID,
			"user_id", userID,
			"episode_id", req.EpisodeID,
			"castaway_id", req.CastawayID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyPickToDTO(item))
}

func (h *Handler) GetMyPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPick")
	defer span.End()

	userID, err := currentUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	episodeID := r.PathValue("episodeID")
	item, err := h.pickService.GetPick(ctx, leagueID, userID, episodeID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyPickToDTO(item))
}
