package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	seasonID := strings.TrimSpace(r.URL.Query().Get("season_id"))
	leagues, err := h.leagueService.ListLeagues(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	item, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) ListMyLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyLeagues")
	defer span.End()

	userID, err := currentUserID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items, err := h.leagueService.ListMyLeagues(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my leagues failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, membershipsToDTO(items))
}

func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoster")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	entries, err := h.leagueService.ListRoster(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("active"), "true") {
		active := entries[:0]
		for _, e := range entries {
			if e.Active() {
				active = append(active, e)
			}
		}
		entries = active
	}

	writeSuccess(ctx, w, http.StatusOK, rosterEntriesToDTO(entries))
}

func (h *Handler) ListCastaways(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCastaways")
	defer span.End()

	seasonID := strings.TrimSpace(r.URL.Query().Get("season_id"))
	castaways, err := h.leagueService.ListCastaways(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list castaways failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]castawayDTO, 0, len(castaways))
	for _, c := range castaways {
		items = append(items, castawayToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueStandings")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	members, err := h.rankingService.GetLeagueStandings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, membershipsToDTO(members))
}

func (h *Handler) GetGlobalRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGlobalRankings")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	result, err := h.rankingService.GetGlobalRankings(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get global rankings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"), len(result.Items))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items := make([]globalRankDTO, 0, min(limit, len(result.Items)))
	for i, item := range result.Items {
		if i >= limit {
			break
		}
		items = append(items, globalRankToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, globalRankingsDTO{
		SeasonID:   result.SeasonID,
		GlobalMean: result.GlobalMean,
		Items:      items,
		ComputedAt: formatTime(result.ComputedAt),
	})
}

func (h *Handler) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEpisodes")
	defer span.End()

	seasonID := r.PathValue("seasonID")
	episodes, err := h.episodeService.ListEpisodes(ctx, seasonID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]episodeDTO, 0, len(episodes))
	for _, ep := range episodes {
		items = append(items, episodeToDTO(ep))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEpisode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEpisode")
	defer span.End()

	ep, err := h.episodeService.GetEpisode(ctx, r.PathValue("episodeID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, episodeToDTO(ep))
}
