package httpapi

import (
	"net/http"

	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

func (h *Handler) SubmitWaiverRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitWaiverRanking")
	defer span.End()

	userID, err := currentUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req submitWaiverRankingRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	item, err := h.waiverService.SubmitRanking(ctx, usecase.SubmitRankingInput{
		LeagueID:    leagueID,
		UserID:      userID,
		EpisodeID:   req.EpisodeID,
		CastawayIDs: req.CastawayIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit waiver ranking rejected", "league_id", leagueID, "user_id", userID, "episode_id", req.EpisodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, waiverRankingToDTO(item))
}

func (h *Handler) ListWaiverResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWaiverResults")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	episodeID := r.PathValue("episodeID")
	results, err := h.waiverService.ListResults(ctx, leagueID, episodeID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]waiverResultDTO, 0, len(results))
	for _, item := range results {
		items = append(items, waiverResultToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
