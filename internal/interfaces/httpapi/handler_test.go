package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/cache"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/id"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/random"
	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
)

const testJobToken = "job-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repos := memory.NewStore(memory.SeedDemo(time.Now())).Repositories()
	cfg := usecase.DefaultGameConfig()
	publisher := signal.NoopPublisher()
	logger := logging.NewNop()
	provider := season.NewProvider(repos.Season)
	rankings := usecase.NewRankingService(provider, repos.Season, repos.League, repos.Scoring, cache.NewStore(time.Minute), logger)

	handler := NewHandler(Services{
		League:   usecase.NewLeagueService(provider, repos.League, repos.Roster, repos.Castaway),
		Draft:    usecase.NewDraftService(repos.Season, repos.League, repos.Castaway, repos.Roster, repos.Draft, publisher, id.NewSequence("roster"), random.Fixed(42), cfg, logger),
		Pick:     usecase.NewPickService(repos.Season, repos.League, repos.Castaway, repos.Roster, repos.Pick, publisher, id.NewSequence("pick"), cfg, logger),
		Scoring:  usecase.NewScoringService(repos.Season, repos.League, repos.Castaway, repos.Pick, repos.Scoring, publisher, rankings, id.NewSequence("rule"), cfg, logger),
		Waiver:   usecase.NewWaiverService(repos.Season, repos.League, repos.Castaway, repos.Roster, repos.Scoring, repos.Waiver, publisher, id.NewSequence("waiver"), cfg, logger),
		Ranking:  rankings,
		Episode:  usecase.NewEpisodeService(repos.Season, logger),
		JobQueue: usecase.NewJobOrchestratorService(repos.Season, nil, repos.Dispatch, usecase.JobOrchestratorConfig{}, logger),
	}, logger)

	return NewRouter(handler, logger, false, []string{"*"}, testJobToken)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if err := sonic.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func errorStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Status string `json:"status"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return envelope.Error.Status
}

func TestRouter_Healthz(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_UserRoutesRequireUserHeader(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/v1/leagues/"+memory.LeagueIDOfficialDemo+"/picks",
		`{"episode_id":"season-48-ep-01","castaway_id":"castaway-01"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_InternalRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/lock-picks", `{"episode_id":"season-48-ep-01"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/jobs/lock-picks", `{"episode_id":"season-48-ep-01"}`,
		map[string]string{InternalJobTokenHeader: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}
}

func TestRouter_DraftFlow(t *testing.T) {
	router := newTestRouter(t)
	token := map[string]string{InternalJobTokenHeader: testJobToken}
	leaguePath := "/v1/leagues/" + memory.LeagueIDOfficialDemo

	rec := doRequest(t, router, http.MethodPost, leaguePath+"/draft/picks", `{"castaway_id":"castaway-01"}`,
		map[string]string{UserIDHeader: "user-01"})
	if rec.Code != http.StatusTooEarly {
		t.Fatalf("expected 425 before the draft starts, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/internal/leagues/"+memory.LeagueIDOfficialDemo+"/draft/start", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("start draft: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var board draftBoardDTO
	decodeData(t, rec, &board)
	if board.OnTheClock == nil {
		t.Fatalf("expected a member on the clock after start")
	}
	first := board.OnTheClock.UserID

	rec = doRequest(t, router, http.MethodPost, leaguePath+"/draft/picks", `{"castaway_id":"castaway-01"}`,
		map[string]string{UserIDHeader: first})
	if rec.Code != http.StatusCreated {
		t.Fatalf("draft pick: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var entry rosterEntryDTO
	decodeData(t, rec, &entry)
	if entry.UserID != first || entry.CastawayID != "castaway-01" {
		t.Fatalf("unexpected roster entry: %+v", entry)
	}

	rec = doRequest(t, router, http.MethodGet, leaguePath+"/draft", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get board: expected 200, got %d", rec.Code)
	}
	decodeData(t, rec, &board)
	if board.PicksMade != 1 {
		t.Fatalf("expected 1 pick made, got %d", board.PicksMade)
	}
	if board.OnTheClock == nil || board.OnTheClock.UserID == first {
		t.Fatalf("expected the clock to move past %s, got %+v", first, board.OnTheClock)
	}

	rec = doRequest(t, router, http.MethodPost, leaguePath+"/draft/picks", `{"castaway_id":"castaway-01"}`,
		map[string]string{UserIDHeader: board.OnTheClock.UserID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("taken castaway: expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_PickWindowNotYetOpen(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/v1/leagues/"+memory.LeagueIDOfficialDemo+"/picks",
		`{"episode_id":"season-48-ep-02","castaway_id":"castaway-01"}`,
		map[string]string{UserIDHeader: "user-01"})
	if rec.Code != http.StatusTooEarly {
		t.Fatalf("expected 425, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := errorStatus(t, rec); got != "NOT_YET_OPEN" {
		t.Fatalf("expected NOT_YET_OPEN, got %q", got)
	}
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/v1/leagues/"+memory.LeagueIDOfficialDemo+"/picks",
		`{"episode_id":"season-48-ep-01","castaway_id":"castaway-01","points":99}`,
		map[string]string{UserIDHeader: "user-01"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_InternalJobRecordsDispatchOutcome(t *testing.T) {
	router := newTestRouter(t)
	token := map[string]string{InternalJobTokenHeader: testJobToken}

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/draft-auto-finalize",
		`{"dispatch_id":"msg-1","season_id":"`+memory.SeasonIDDemo+`"}`, token)
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 before the draft deadline, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/internal/jobs/dispatches?job_name=draft_auto_finalize", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list dispatches: expected 200, got %d", rec.Code)
	}
	var events []dispatchEventDTO
	decodeData(t, rec, &events)
	if len(events) != 1 {
		t.Fatalf("expected 1 dispatch event, got %d", len(events))
	}
	if events[0].DispatchID != "msg-1" || events[0].Status != "failed" {
		t.Fatalf("unexpected dispatch event: %+v", events[0])
	}
}

func TestRouter_InternalJobRequiresSubject(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/lock-picks", "",
		map[string]string{InternalJobTokenHeader: testJobToken})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without episode_id, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ListLeaguesDefaultsToActiveSeason(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/leagues", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items []leagueDTO
	decodeData(t, rec, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 demo leagues, got %d", len(items))
	}
}
