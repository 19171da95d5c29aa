package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/id"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

type SubmitPickInput struct {
	LeagueID   string
	UserID     string
	EpisodeID  string
	CastawayID string
}

type LockLeagueResult struct {
	LeagueID     string `json:"league_id"`
	AutoPicks    int    `json:"auto_picks"`
	TorchSnuffed int    `json:"torch_snuffed"`
	Error        string `json:"error,omitempty"`
}

type LockResult struct {
	EpisodeID   string             `json:"episode_id"`
	LockedCount int                `json:"locked_count"`
	AutoPicks   int                `json:"auto_picks"`
	Snuffed     int                `json:"torch_snuffed"`
	FailedCount int                `json:"failed_count"`
	Leagues     []LockLeagueResult `json:"leagues"`
}

type PickService struct {
	seasonRepo   season.Repository
	leagueRepo   league.Repository
	castawayRepo castaway.Repository
	rosterRepo   roster.Repository
	pickRepo     pick.Repository
	publisher    signal.Publisher
	ids          id.Generator
	cfg          GameConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewPickService(
	seasonRepo season.Repository,
	leagueRepo league.Repository,
	castawayRepo castaway.Repository,
	rosterRepo roster.Repository,
	pickRepo pick.Repository,
	publisher signal.Publisher,
	ids id.Generator,
	cfg GameConfig,
	logger *logging.Logger,
) *PickService {
	if publisher == nil {
		publisher = signal.NoopPublisher()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PickService{
		seasonRepo:   seasonRepo,
		leagueRepo:   leagueRepo,
		castawayRepo: castawayRepo,
		rosterRepo:   rosterRepo,
		pickRepo:     pickRepo,
		publisher:    publisher,
		ids:          ids,
		cfg:          cfg.normalized(),
		logger:       logger,
		now:          time.Now,
	}
}

// SubmitPick stores or replaces a member's PENDING pick while the window is open.
func (s *PickService) SubmitPick(ctx context.Context, input SubmitPickInput) (pick.WeeklyPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SubmitPick")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.CastawayID = strings.TrimSpace(input.CastawayID)
	if input.LeagueID == "" || input.UserID == "" || input.CastawayID == "" {
		return pick.WeeklyPick{}, fmt.Errorf("%w: league id, user id and castaway id are required", ErrInvalidInput)
	}

	ep, err := s.getEpisode(ctx, input.EpisodeID)
	if err != nil {
		return pick.WeeklyPick{}, err
	}
	now := s.now().UTC()
	if season.Reached(ep.Phase, season.PhasePicksLocked) {
		return pick.WeeklyPick{}, fmt.Errorf("%w: picks locked for episode=%s", ErrClosed, ep.ID)
	}
	switch ep.PickWindow(now) {
	case season.WindowNotYetOpen:
		return pick.WeeklyPick{}, fmt.Errorf("%w: picks open at %s", ErrNotYetOpen, ep.PicksOpenAt.Format(time.RFC3339))
	case season.WindowClosed:
		return pick.WeeklyPick{}, fmt.Errorf("%w: picks locked at %s", ErrClosed, ep.PicksLockAt.Format(time.RFC3339))
	}

	l, ok, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get league: %w", err)
	}
	if !ok || l.SeasonID != ep.SeasonID {
		return pick.WeeklyPick{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if _, ok, err := s.leagueRepo.GetMembership(ctx, l.ID, input.UserID); err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get membership: %w", err)
	} else if !ok {
		return pick.WeeklyPick{}, fmt.Errorf("%w: user=%s is not a member of league=%s", ErrNotFound, input.UserID, l.ID)
	}

	held, err := s.rosterRepo.ListActiveByUser(ctx, l.ID, input.UserID)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("list active roster: %w", err)
	}
	owned := false
	for _, e := range held {
		if e.CastawayID == input.CastawayID {
			owned = true
			break
		}
	}
	if !owned {
		return pick.WeeklyPick{}, fmt.Errorf("%w: castaway=%s is not on the member's roster", ErrInvalidInput, input.CastawayID)
	}
	c, ok, err := s.castawayRepo.GetByID(ctx, input.CastawayID)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get castaway: %w", err)
	}
	if !ok || !c.IsActive() {
		return pick.WeeklyPick{}, fmt.Errorf("%w: castaway=%s is eliminated", ErrInvalidInput, input.CastawayID)
	}

	pickID, err := s.ids.NewID()
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	item := pick.WeeklyPick{
		ID:          pickID,
		LeagueID:    l.ID,
		UserID:      input.UserID,
		EpisodeID:   ep.ID,
		CastawayID:  input.CastawayID,
		Status:      pick.StatusPending,
		SubmittedAt: now,
	}
	stored, err := s.pickRepo.UpsertPending(ctx, item)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("upsert pick: %w", err)
	}
	if !stored {
		return pick.WeeklyPick{}, fmt.Errorf("%w: pick already locked", ErrClosed)
	}

	saved, _, err := s.pickRepo.GetByMember(ctx, l.ID, input.UserID, ep.ID)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("reload pick: %w", err)
	}
	return saved, nil
}

func (s *PickService) GetPick(ctx context.Context, leagueID, userID, episodeID string) (pick.WeeklyPick, error) {
	item, ok, err := s.pickRepo.GetByMember(ctx, strings.TrimSpace(leagueID), strings.TrimSpace(userID), strings.TrimSpace(episodeID))
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get pick: %w", err)
	}
	if !ok {
		return pick.WeeklyPick{}, fmt.Errorf("%w: no pick for user=%s episode=%s", ErrNotFound, userID, episodeID)
	}
	return item, nil
}

// LockAndAutoPick locks every pending pick of the episode and fills missing picks.
// Safe to rerun: locking only touches PENDING rows and auto picks never overwrite a row.
func (s *PickService) LockAndAutoPick(ctx context.Context, episodeID string) (LockResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.LockAndAutoPick")
	defer span.End()

	ep, err := s.getEpisode(ctx, episodeID)
	if err != nil {
		return LockResult{}, err
	}
	now := s.now().UTC()
	if now.Before(ep.PicksLockAt) && ep.PicksLockedAt == nil {
		return LockResult{}, fmt.Errorf("%w: picks lock at %s", ErrPrecondition, ep.PicksLockAt.Format(time.RFC3339))
	}

	locked, err := s.pickRepo.LockPending(ctx, ep.ID, now)
	if err != nil {
		return LockResult{}, fmt.Errorf("lock pending picks: %w", err)
	}

	leagues, err := s.leagueRepo.ListBySeason(ctx, ep.SeasonID)
	if err != nil {
		return LockResult{}, fmt.Errorf("list leagues: %w", err)
	}
	castaways, err := s.castawayRepo.ListBySeason(ctx, ep.SeasonID)
	if err != nil {
		return LockResult{}, fmt.Errorf("list castaways: %w", err)
	}
	var previous *season.Episode
	if ep.Number > 1 {
		prev, ok, err := s.seasonRepo.GetEpisodeByNumber(ctx, ep.SeasonID, ep.Number-1)
		if err != nil {
			return LockResult{}, fmt.Errorf("get previous episode: %w", err)
		}
		if ok {
			previous = &prev
		}
	}

	rows, err := s.autoPickLeagues(ctx, ep, previous, leagues, castaway.ByID(castaways), now)
	if err != nil {
		return LockResult{}, err
	}

	result := LockResult{EpisodeID: ep.ID, LockedCount: locked, Leagues: rows}
	for _, row := range rows {
		result.AutoPicks += row.AutoPicks
		result.Snuffed += row.TorchSnuffed
		if row.Error != "" {
			result.FailedCount++
		}
	}
	if result.FailedCount > 0 {
		return result, fmt.Errorf("auto pick failed for %d league(s)", result.FailedCount)
	}

	if err := s.markLocked(ctx, ep, now); err != nil {
		return result, err
	}
	s.logger.InfoContext(ctx, "picks locked",
		"job", "lock_picks",
		"season_id", ep.SeasonID,
		"episode_id", ep.ID,
		"locked", result.LockedCount,
		"auto_picks", result.AutoPicks,
		"torch_snuffed", result.Snuffed,
	)
	return result, nil
}

func (s *PickService) autoPickLeagues(
	ctx context.Context,
	ep season.Episode,
	previous *season.Episode,
	leagues []league.League,
	castaways map[string]castaway.Castaway,
	now time.Time,
) ([]LockLeagueResult, error) {
	if len(leagues) == 0 {
		return []LockLeagueResult{}, nil
	}

	pool, err := ants.NewPool(workerCount(s.cfg.MaxWorkers, len(leagues)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu   sync.Mutex
		rows = make([]LockLeagueResult, 0, len(leagues))
		wg   sync.WaitGroup
	)
	for _, l := range leagues {
		l := l
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			row, err := s.autoPickLeague(ctx, ep, previous, l, castaways, now)
			if err != nil {
				row.Error = err.Error()
				s.logger.WarnContext(ctx, "auto pick league failed",
					"job", "lock_picks",
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

func (s *PickService) autoPickLeague(
	ctx context.Context,
	ep season.Episode,
	previous *season.Episode,
	l league.League,
	castaways map[string]castaway.Castaway,
	now time.Time,
) (LockLeagueResult, error) {
	row := LockLeagueResult{LeagueID: l.ID}

	members, err := s.leagueRepo.ListMembers(ctx, l.ID)
	if err != nil {
		return row, fmt.Errorf("list members: %w", err)
	}
	existing, err := s.pickRepo.ListByEpisode(ctx, l.ID, ep.ID)
	if err != nil {
		return row, fmt.Errorf("list picks: %w", err)
	}
	picked := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		picked[p.UserID] = struct{}{}
	}

	lastWeek := make(map[string]string)
	if previous != nil {
		prevPicks, err := s.pickRepo.ListByEpisode(ctx, l.ID, previous.ID)
		if err != nil {
			return row, fmt.Errorf("list previous picks: %w", err)
		}
		for _, p := range prevPicks {
			lastWeek[p.UserID] = p.CastawayID
		}
	}

	entries, err := s.rosterRepo.ListByLeague(ctx, l.ID)
	if err != nil {
		return row, fmt.Errorf("list roster: %w", err)
	}
	current := roster.NewLeague(entries)

	for _, m := range members {
		if _, ok := picked[m.UserID]; ok {
			continue
		}

		active := make([]roster.Entry, 0, s.cfg.MaxActiveCastaways)
		for _, e := range current.ActiveByUser(m.UserID) {
			if c, ok := castaways[e.CastawayID]; ok && c.IsActive() {
				active = append(active, e)
			}
		}

		choice, ok := pick.ChooseAutoPick(active, lastWeek[m.UserID])
		if !ok {
			row.TorchSnuffed++
			emitSignal(ctx, s.publisher, s.logger, signal.Signal{
				Kind:       signal.KindTorchSnuffed,
				SeasonID:   l.SeasonID,
				LeagueID:   l.ID,
				EpisodeID:  ep.ID,
				UserID:     m.UserID,
				OccurredAt: now,
			})
			continue
		}

		pickID, err := s.ids.NewID()
		if err != nil {
			return row, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		inserted, err := s.pickRepo.InsertLockedIfAbsent(ctx, pick.WeeklyPick{
			ID:             pickID,
			LeagueID:       l.ID,
			UserID:         m.UserID,
			EpisodeID:      ep.ID,
			CastawayID:     choice.CastawayID,
			Status:         pick.StatusLocked,
			IsAutoSelected: true,
			SubmittedAt:    now,
			LockedAt:       timePtr(now),
		})
		if err != nil {
			return row, fmt.Errorf("insert auto pick user=%s: %w", m.UserID, err)
		}
		if !inserted {
			continue
		}
		row.AutoPicks++
		emitSignal(ctx, s.publisher, s.logger, signal.Signal{
			Kind:       signal.KindAutoPickApplied,
			SeasonID:   l.SeasonID,
			LeagueID:   l.ID,
			EpisodeID:  ep.ID,
			UserID:     m.UserID,
			Attributes: map[string]any{"castaway_id": choice.CastawayID},
			OccurredAt: now,
		})
	}
	return row, nil
}

func (s *PickService) markLocked(ctx context.Context, ep season.Episode, now time.Time) error {
	next, changed, err := season.AdvanceIfBehind(ep.Phase, season.EventLockPicks, season.PhasePicksLocked)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if !changed && ep.PicksLockedAt != nil {
		return nil
	}
	ep.Phase = next
	if ep.PicksLockedAt == nil {
		ep.PicksLockedAt = timePtr(now)
	}
	ep.UpdatedAt = now
	if err := s.seasonRepo.UpdateEpisodeLifecycle(ctx, ep); err != nil {
		return fmt.Errorf("update episode lifecycle: %w", err)
	}
	return nil
}

func (s *PickService) getEpisode(ctx context.Context, episodeID string) (season.Episode, error) {
	return getEpisode(ctx, s.seasonRepo, episodeID)
}

func getEpisode(ctx context.Context, repo season.Repository, episodeID string) (season.Episode, error) {
	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return season.Episode{}, fmt.Errorf("%w: episode id is required", ErrInvalidInput)
	}
	ep, ok, err := repo.GetEpisode(ctx, episodeID)
	if err != nil {
		return season.Episode{}, fmt.Errorf("get episode: %w", err)
	}
	if !ok {
		return season.Episode{}, fmt.Errorf("%w: episode=%s", ErrNotFound, episodeID)
	}
	return ep, nil
}
