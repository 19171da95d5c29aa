package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/roster", handler.ListRoster)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.GetLeagueStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/draft", handler.GetDraftBoard)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/episodes/{episodeID}/waivers", handler.ListWaiverResults)
	mux.HandleFunc("GET /v1/castaways", handler.ListCastaways)
	mux.HandleFunc("GET /v1/rankings", handler.GetGlobalRankings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/rankings", handler.GetGlobalRankings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/episodes", handler.ListEpisodes)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/scoring-rules", handler.ListScoringRules)
	mux.HandleFunc("GET /v1/episodes/{episodeID}", handler.GetEpisode)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /v1/me/leagues", RequireUser(http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("POST /v1/leagues/{leagueID}/draft/picks", RequireUser(http.HandlerFunc(handler.MakeDraftPick)))
	mux.Handle("PUT /v1/leagues/{leagueID}/picks", RequireUser(http.HandlerFunc(handler.SubmitPick)))
	mux.Handle("GET /v1/leagues/{leagueID}/picks/{episodeID}", RequireUser(http.HandlerFunc(handler.GetMyPick)))
	mux.Handle("PUT /v1/leagues/{leagueID}/waivers/ranking", RequireUser(http.HandlerFunc(handler.SubmitWaiverRanking)))
}

// registerInternalJobRoutes exposes the scheduler entrypoints QStash calls back into.
func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/draft-auto-finalize", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDraftAutoFinalizeJob)))
	mux.Handle("POST /v1/internal/jobs/lock-picks", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLockPicksJob)))
	mux.Handle("POST /v1/internal/jobs/process-waivers", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunProcessWaiversJob)))
	mux.Handle("POST /v1/internal/jobs/schedule-season", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScheduleSeasonJob)))
	mux.Handle("GET /v1/internal/jobs/dispatches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListJobDispatches)))
}

// registerInternalOperatorRoutes carries the scoring workflow and season operations.
func registerInternalOperatorRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/leagues/{leagueID}/draft/start", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.StartDraft)))
	mux.Handle("PUT /v1/internal/episodes/{episodeID}/scores", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SaveEpisodeScores)))
	mux.Handle("POST /v1/internal/episodes/{episodeID}/recompute", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecomputeEpisode)))
	mux.Handle("POST /v1/internal/episodes/{episodeID}/finalize", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.FinalizeScoring)))
	mux.Handle("POST /v1/internal/episodes/{episodeID}/release", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ReleaseResults)))
	mux.Handle("POST /v1/internal/episodes/{episodeID}/signal", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SignalEpisode)))
	mux.Handle("POST /v1/internal/seasons/{seasonID}/signal", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SignalSeason)))
	mux.Handle("POST /v1/internal/castaways/{castawayID}/eliminate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.EliminateCastaway)))
	mux.Handle("PUT /v1/internal/scoring-rules", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpsertScoringRule)))
}
