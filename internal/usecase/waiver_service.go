package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/id"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

type SubmitRankingInput struct {
	LeagueID    string
	UserID      string
	EpisodeID   string
	CastawayIDs []string
}

type WaiverLeagueResult struct {
	LeagueID string `json:"league_id"`
	Claims   int    `json:"claims"`
	Attempts int    `json:"attempts"`
	Skipped  bool   `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type WaiverRunResult struct {
	EpisodeID        string               `json:"episode_id"`
	AlreadyProcessed bool                 `json:"already_processed"`
	LeagueCount      int                  `json:"league_count"`
	FailedCount      int                  `json:"failed_count"`
	Leagues          []WaiverLeagueResult `json:"leagues"`
}

type WaiverService struct {
	seasonRepo   season.Repository
	leagueRepo   league.Repository
	castawayRepo castaway.Repository
	rosterRepo   roster.Repository
	scoringRepo  scoring.Repository
	waiverRepo   waiver.Repository
	publisher    signal.Publisher
	ids          id.Generator
	cfg          GameConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewWaiverService(
	seasonRepo season.Repository,
	leagueRepo league.Repository,
	castawayRepo castaway.Repository,
	rosterRepo roster.Repository,
	scoringRepo scoring.Repository,
	waiverRepo waiver.Repository,
	publisher signal.Publisher,
	ids id.Generator,
	cfg GameConfig,
	logger *logging.Logger,
) *WaiverService {
	if publisher == nil {
		publisher = signal.NoopPublisher()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WaiverService{
		seasonRepo:   seasonRepo,
		leagueRepo:   leagueRepo,
		castawayRepo: castawayRepo,
		rosterRepo:   rosterRepo,
		scoringRepo:  scoringRepo,
		waiverRepo:   waiverRepo,
		publisher:    publisher,
		ids:          ids,
		cfg:          cfg.normalized(),
		logger:       logger,
		now:          time.Now,
	}
}

// SubmitRanking stores a member's wish list while the waiver window is open.
func (s *WaiverService) SubmitRanking(ctx context.Context, input SubmitRankingInput) (waiver.Ranking, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WaiverService.SubmitRanking")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.UserID = strings.TrimSpace(input.UserID)
	if input.LeagueID == "" || input.UserID == "" {
		return waiver.Ranking{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}
	ep, err := getEpisode(ctx, s.seasonRepo, input.EpisodeID)
	if err != nil {
		return waiver.Ranking{}, err
	}

	now := s.now().UTC()
	switch {
	case ep.WaiversProcessedAt != nil || ep.Phase == season.PhaseClosed:
		return waiver.Ranking{}, fmt.Errorf("%w: waivers processed for episode=%s", ErrClosed, ep.ID)
	case !season.Reached(ep.Phase, season.PhaseWaiverOpen):
		return waiver.Ranking{}, fmt.Errorf("%w: results for episode=%s not released", ErrNotYetOpen, ep.ID)
	}
	switch ep.WaiverWindow(now) {
	case season.WindowNotYetOpen:
		return waiver.Ranking{}, fmt.Errorf("%w: waivers open at %s", ErrNotYetOpen, ep.WaiverOpensAt.Format(time.RFC3339))
	case season.WindowClosed:
		return waiver.Ranking{}, fmt.Errorf("%w: waivers closed at %s", ErrClosed, ep.WaiverClosesAt.Format(time.RFC3339))
	}

	l, ok, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return waiver.Ranking{}, fmt.Errorf("get league: %w", err)
	}
	if !ok || l.SeasonID != ep.SeasonID {
		return waiver.Ranking{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if _, ok, err := s.leagueRepo.GetMembership(ctx, l.ID, input.UserID); err != nil {
		return waiver.Ranking{}, fmt.Errorf("get membership: %w", err)
	} else if !ok {
		return waiver.Ranking{}, fmt.Errorf("%w: user=%s is not a member of league=%s", ErrNotFound, input.UserID, l.ID)
	}

	ranking := waiver.Ranking{
		LeagueID:    l.ID,
		UserID:      input.UserID,
		EpisodeID:   ep.ID,
		CastawayIDs: make([]string, 0, len(input.CastawayIDs)),
		SubmittedAt: now,
	}
	for _, castawayID := range input.CastawayIDs {
		ranking.CastawayIDs = append(ranking.CastawayIDs, strings.TrimSpace(castawayID))
	}
	if err := ranking.Validate(); err != nil {
		return waiver.Ranking{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	castaways, err := s.castawayRepo.ListBySeason(ctx, ep.SeasonID)
	if err != nil {
		return waiver.Ranking{}, fmt.Errorf("list castaways: %w", err)
	}
	known := castaway.ByID(castaways)
	for _, castawayID := range ranking.CastawayIDs {
		if _, ok := known[castawayID]; !ok {
			return waiver.Ranking{}, fmt.Errorf("%w: castaway=%s is not in this season", ErrInvalidInput, castawayID)
		}
	}

	if err := s.waiverRepo.UpsertRanking(ctx, ranking); err != nil {
		return waiver.Ranking{}, fmt.Errorf("upsert waiver ranking: %w", err)
	}
	return ranking, nil
}

func (s *WaiverService) ListResults(ctx context.Context, leagueID, episodeID string) ([]waiver.Result, error) {
	leagueID = strings.TrimSpace(leagueID)
	episodeID = strings.TrimSpace(episodeID)
	if leagueID == "" || episodeID == "" {
		return nil, fmt.Errorf("%w: league id and episode id are required", ErrInvalidInput)
	}
	items, err := s.waiverRepo.ListResults(ctx, leagueID, episodeID)
	if err != nil {
		return nil, fmt.Errorf("list waiver results: %w", err)
	}
	return items, nil
}

// ProcessWaivers resolves claims for every league once the waiver window closed.
// Leagues run concurrently and each commits on its own; the episode is marked processed only
// after every league has a committed cycle, so a partial run is finished by the next one.
func (s *WaiverService) ProcessWaivers(ctx context.Context, episodeID string) (WaiverRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WaiverService.ProcessWaivers")
	defer span.End()

	ep, err := getEpisode(ctx, s.seasonRepo, episodeID)
	if err != nil {
		return WaiverRunResult{}, err
	}
	result := WaiverRunResult{EpisodeID: ep.ID, Leagues: []WaiverLeagueResult{}}
	if ep.WaiversProcessedAt != nil {
		result.AlreadyProcessed = true
		return result, nil
	}

	now := s.now().UTC()
	if !ep.IsFinalized() {
		return WaiverRunResult{}, fmt.Errorf("%w: scoring not finalized for episode=%s", ErrPrecondition, ep.ID)
	}
	if now.Before(ep.WaiverClosesAt) {
		return WaiverRunResult{}, fmt.Errorf("%w: waivers close at %s", ErrPrecondition, ep.WaiverClosesAt.Format(time.RFC3339))
	}

	leagues, err := s.leagueRepo.ListBySeason(ctx, ep.SeasonID)
	if err != nil {
		return WaiverRunResult{}, fmt.Errorf("list leagues: %w", err)
	}
	castaways, err := s.castawayRepo.ListBySeason(ctx, ep.SeasonID)
	if err != nil {
		return WaiverRunResult{}, fmt.Errorf("list castaways: %w", err)
	}
	result.LeagueCount = len(leagues)

	rows, err := s.processLeagues(ctx, ep, leagues, castaway.ByID(castaways), now)
	if err != nil {
		return WaiverRunResult{}, err
	}
	result.Leagues = rows
	for _, row := range rows {
		if row.Error != "" {
			result.FailedCount++
		}
	}
	if result.FailedCount > 0 {
		return result, fmt.Errorf("waiver processing failed for %d league(s)", result.FailedCount)
	}

	next, _, err := season.AdvanceIfBehind(ep.Phase, season.EventCloseWaivers, season.PhaseClosed)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	ep.Phase = next
	ep.WaiversProcessedAt = timePtr(now)
	ep.UpdatedAt = now
	if err := s.seasonRepo.UpdateEpisodeLifecycle(ctx, ep); err != nil {
		return result, fmt.Errorf("update episode lifecycle: %w", err)
	}

	s.logger.InfoContext(ctx, "waivers processed",
		"job", "process_waivers",
		"season_id", ep.SeasonID,
		"episode_id", ep.ID,
		"leagues", len(rows),
	)
	return result, nil
}

func (s *WaiverService) processLeagues(
	ctx context.Context,
	ep season.Episode,
	leagues []league.League,
	castaways map[string]castaway.Castaway,
	now time.Time,
) ([]WaiverLeagueResult, error) {
	if len(leagues) == 0 {
		return []WaiverLeagueResult{}, nil
	}

	pool, err := ants.NewPool(workerCount(s.cfg.MaxWorkers, len(leagues)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu   sync.Mutex
		rows = make([]WaiverLeagueResult, 0, len(leagues))
		wg   sync.WaitGroup
	)
	for _, l := range leagues {
		l := l
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			row, err := s.processLeague(ctx, ep, l, castaways, now)
			if err != nil {
				row.Error = err.Error()
				s.logger.WarnContext(ctx, "waiver league failed",
					"job", "process_waivers",
					"season_id", ep.SeasonID,
					"league_id", l.ID,
					"episode_id", ep.ID,
					"error", err,
				)
			}
			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	sort.Slice(rows, func(i, j int) bool { return rows[i].LeagueID < rows[j].LeagueID })
	return rows, nil
}

// processLeague runs one (league, episode) cycle. The priority loop inside waiver.Resolve is
// sequential; the snapshot it reads and the writes it produces commit together.
func (s *WaiverService) processLeague(
	ctx context.Context,
	ep season.Episode,
	l league.League,
	castaways map[string]castaway.Castaway,
	now time.Time,
) (WaiverLeagueResult, error) {
	row := WaiverLeagueResult{LeagueID: l.ID}

	committed, err := s.waiverRepo.IsCycleCommitted(ctx, l.ID, ep.ID)
	if err != nil {
		return row, fmt.Errorf("check waiver cycle: %w", err)
	}
	if committed {
		row.Skipped = true
		return row, nil
	}

	members, err := s.leagueRepo.ListMembers(ctx, l.ID)
	if err != nil {
		return row, fmt.Errorf("list members: %w", err)
	}
	scores, err := s.scoringRepo.ListScoresByLeague(ctx, l.ID)
	if err != nil {
		return row, fmt.Errorf("list scores: %w", err)
	}
	totals := make(map[string]int, len(members))
	for _, sc := range scores {
		if sc.WeekNumber <= ep.WeekNumber {
			totals[sc.UserID] += sc.Points
		}
	}
	entries, err := s.rosterRepo.ListByLeague(ctx, l.ID)
	if err != nil {
		return row, fmt.Errorf("list roster: %w", err)
	}
	rankings, err := s.waiverRepo.ListRankings(ctx, l.ID, ep.ID)
	if err != nil {
		return row, fmt.Errorf("list rankings: %w", err)
	}
	byUser := make(map[string]waiver.Ranking, len(rankings))
	for _, r := range rankings {
		byUser[r.UserID] = r
	}

	candidates := 0
	for _, r := range rankings {
		candidates += len(r.CastawayIDs)
	}
	ids := make([]string, 0, candidates)
	for range candidates {
		v, err := s.ids.NewID()
		if err != nil {
			return row, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		ids = append(ids, v)
	}
	next := 0
	outcome := waiver.Resolve(waiver.CycleInput{
		LeagueID:  l.ID,
		EpisodeID: ep.ID,
		Members:   members,
		Totals:    totals,
		Roster:    roster.NewLeague(entries),
		Rankings:  byUser,
		Castaways: castaways,
		MaxActive: s.cfg.MaxActiveCastaways,
		At:        now,
		NewID: func() string {
			v := ids[next]
			next++
			return v
		},
	})

	cycle := waiver.Cycle{LeagueID: l.ID, EpisodeID: ep.ID, Claims: len(outcome.Adds), ProcessedAt: now}
	if err := s.waiverRepo.CommitCycle(ctx, cycle, outcome.Drops, outcome.Adds, outcome.Results); err != nil {
		if errors.Is(err, waiver.ErrCycleCommitted) {
			row.Skipped = true
			return row, nil
		}
		return row, fmt.Errorf("commit waiver cycle: %w", err)
	}

	row.Claims = len(outcome.Adds)
	row.Attempts = len(outcome.Results)
	for _, r := range outcome.Results {
		attrs := map[string]any{
			"dropped_castaway_id": r.DroppedCastawayID,
			"waiver_position":     r.WaiverPosition,
		}
		if r.AcquiredCastawayID != nil {
			attrs["acquired_castaway_id"] = *r.AcquiredCastawayID
		}
		emitSignal(ctx, s.publisher, s.logger, signal.Signal{
			Kind:       signal.KindWaiverResultReady,
			SeasonID:   l.SeasonID,
			LeagueID:   l.ID,
			EpisodeID:  ep.ID,
			UserID:     r.UserID,
			Attributes: attrs,
			OccurredAt: now,
		})
	}
	return row, nil
}
