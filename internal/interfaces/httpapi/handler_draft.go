package httpapi

import (
	"net/http"

	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

func (h *Handler) GetDraftBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftBoard")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	board, err := h.draftService.GetDraftBoard(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft board failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftBoardToDTO(board))
}

func (h *Handler) MakeDraftPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MakeDraftPick")
	defer span.End()

	userID, err := currentUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req makeDraftPickRequest
	if err := h.decodeAndValidate(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	entry, err := h.draftService.MakePick(ctx, usecase.DraftPickInput{
		LeagueID:   leagueID,
		UserID:     userID,
		CastawayID: req.CastawayID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft pick rejected", "league_id", leagueID, "user_id", userID, "castaway_id", req.CastawayID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterEntryToDTO(entry))
}

// StartDraft is an operator action: it fixes draft positions and opens the live draft.
func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	board, err := h.draftService.StartDraft(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "start draft failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftBoardToDTO(board))
}
