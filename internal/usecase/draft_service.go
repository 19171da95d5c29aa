package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/id"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/random"
)

type DraftPickInput struct {
	LeagueID   string
	UserID     string
	CastawayID string
}

type AutoFinalizeLeagueResult struct {
	LeagueID      string `json:"league_id"`
	Assigned      int    `json:"assigned"`
	UnfilledSlots int    `json:"unfilled_slots"`
	Error         string `json:"error,omitempty"`
}

type AutoFinalizeResult struct {
	SeasonID       string                     `json:"season_id"`
	LeagueCount    int                        `json:"league_count"`
	FinalizedCount int                        `json:"finalized_count"`
	FailedCount    int                        `json:"failed_count"`
	Leagues        []AutoFinalizeLeagueResult `json:"leagues"`
}

type DraftService struct {
	seasonRepo   season.Repository
	leagueRepo   league.Repository
	castawayRepo castaway.Repository
	rosterRepo   roster.Repository
	draftRepo    draft.Repository
	publisher    signal.Publisher
	ids          id.Generator
	rng          random.Factory
	cfg          GameConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewDraftService(
	seasonRepo season.Repository,
	leagueRepo league.Repository,
	castawayRepo castaway.Repository,
	rosterRepo roster.Repository,
	draftRepo draft.Repository,
	publisher signal.Publisher,
	ids id.Generator,
	rng random.Factory,
	cfg GameConfig,
	logger *logging.Logger,
) *DraftService {
	if publisher == nil {
		publisher = signal.NoopPublisher()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if rng == nil {
		rng = random.CryptoSeeded
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DraftService{
		seasonRepo:   seasonRepo,
		leagueRepo:   leagueRepo,
		castawayRepo: castawayRepo,
		rosterRepo:   rosterRepo,
		draftRepo:    draftRepo,
		publisher:    publisher,
		ids:          ids,
		rng:          rng,
		cfg:          cfg.normalized(),
		logger:       logger,
		now:          time.Now,
	}
}

// StartDraft assigns draft positions once and opens the draft.
// Calling it again on a running draft returns the current board.
func (s *DraftService) StartDraft(ctx context.Context, leagueID string) (draft.Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.StartDraft")
	defer span.End()

	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return draft.Board{}, err
	}
	switch item.DraftStatus {
	case league.DraftInProgress:
		return s.GetDraftBoard(ctx, item.ID)
	case league.DraftCompleted:
		return draft.Board{}, fmt.Errorf("%w: draft already completed league=%s", ErrClosed, item.ID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, item.ID)
	if err != nil {
		return draft.Board{}, fmt.Errorf("list league members: %w", err)
	}
	if len(members) == 0 {
		return draft.Board{}, fmt.Errorf("%w: league=%s has no members", ErrPrecondition, item.ID)
	}

	positions, err := s.assignPositions(members)
	if err != nil {
		return draft.Board{}, err
	}
	if err := s.leagueRepo.StartDraft(ctx, item.ID, positions); err != nil {
		return draft.Board{}, fmt.Errorf("start draft: %w", err)
	}

	s.logger.InfoContext(ctx, "draft started", "league_id", item.ID, "members", len(members))
	return s.GetDraftBoard(ctx, item.ID)
}

// assignPositions keeps positions that already exist and shuffles the rest into the open slots.
func (s *DraftService) assignPositions(members []league.Membership) (map[string]int, error) {
	out := make(map[string]int, len(members))
	taken := make(map[int]struct{}, len(members))
	unassigned := make([]string, 0, len(members))
	for _, m := range members {
		if m.DraftPosition != nil {
			out[m.UserID] = *m.DraftPosition
			taken[*m.DraftPosition] = struct{}{}
			continue
		}
		unassigned = append(unassigned, m.UserID)
	}
	if len(unassigned) == 0 {
		return out, nil
	}

	rng, err := s.rng()
	if err != nil {
		return nil, fmt.Errorf("%w: seed draft order: %v", ErrDependencyUnavailable, err)
	}
	rng.Shuffle(len(unassigned), func(i, j int) {
		unassigned[i], unassigned[j] = unassigned[j], unassigned[i]
	})

	next := 0
	for _, userID := range unassigned {
		for {
			if _, used := taken[next]; !used {
				break
			}
			next++
		}
		out[userID] = next
		taken[next] = struct{}{}
	}
	return out, nil
}

func (s *DraftService) GetDraftBoard(ctx context.Context, leagueID string) (draft.Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetDraftBoard")
	defer span.End()

	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return draft.Board{}, err
	}
	order, current, err := s.loadDraftState(ctx, item.ID)
	if err != nil {
		return draft.Board{}, err
	}
	return draft.BuildBoard(item, order, current), nil
}

// MakePick records a live draft pick.
func (s *DraftService) MakePick(ctx context.Context, input DraftPickInput) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.MakePick")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.CastawayID = strings.TrimSpace(input.CastawayID)
	if input.UserID == "" || input.CastawayID == "" {
		return roster.Entry{}, fmt.Errorf("%w: user id and castaway id are required", ErrInvalidInput)
	}

	item, err := s.getLeague(ctx, input.LeagueID)
	if err != nil {
		return roster.Entry{}, err
	}
	switch item.DraftStatus {
	case league.DraftPending:
		return roster.Entry{}, fmt.Errorf("%w: draft has not started league=%s", ErrNotYetOpen, item.ID)
	case league.DraftCompleted:
		return roster.Entry{}, fmt.Errorf("%w: draft completed league=%s", ErrClosed, item.ID)
	}

	if _, ok, err := s.leagueRepo.GetMembership(ctx, item.ID, input.UserID); err != nil {
		return roster.Entry{}, fmt.Errorf("get membership: %w", err)
	} else if !ok {
		return roster.Entry{}, fmt.Errorf("%w: user=%s is not a member of league=%s", ErrNotFound, input.UserID, item.ID)
	}

	c, ok, err := s.castawayRepo.GetByID(ctx, input.CastawayID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get castaway: %w", err)
	}
	if !ok || c.SeasonID != item.SeasonID {
		return roster.Entry{}, fmt.Errorf("%w: castaway=%s is not in this season", ErrInvalidInput, input.CastawayID)
	}
	if !c.IsActive() {
		return roster.Entry{}, fmt.Errorf("%w: castaway=%s is eliminated", ErrInvalidInput, input.CastawayID)
	}

	order, current, err := s.loadDraftState(ctx, item.ID)
	if err != nil {
		return roster.Entry{}, err
	}
	entryID, err := s.ids.NewID()
	if err != nil {
		return roster.Entry{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	entry, complete, err := draft.ApplyManualPick(order, current, draft.ManualPickInput{
		LeagueID:    item.ID,
		UserID:      input.UserID,
		CastawayID:  input.CastawayID,
		EntryID:     entryID,
		At:          s.now().UTC(),
		EnforceTurn: s.cfg.EnforceDraftTurn,
		MaxActive:   s.cfg.MaxActiveCastaways,
	})
	if err != nil {
		return roster.Entry{}, mapDraftError(err)
	}
	err = s.draftRepo.CommitPick(ctx, draft.PickCommit{
		Entry:     entry,
		Complete:  complete,
		MaxActive: s.cfg.MaxActiveCastaways,
	})
	if err != nil {
		if isDraftRuleError(err) {
			return roster.Entry{}, mapDraftError(err)
		}
		return roster.Entry{}, fmt.Errorf("commit draft pick: %w", err)
	}

	s.logger.InfoContext(ctx, "draft pick made",
		"league_id", item.ID,
		"user_id", entry.UserID,
		"castaway_id", entry.CastawayID,
		"draft_pick", entry.DraftPick,
		"draft_complete", complete,
	)
	emitSignal(ctx, s.publisher, s.logger, signal.Signal{
		Kind:     signal.KindDraftPickMade,
		SeasonID: item.SeasonID,
		LeagueID: item.ID,
		UserID:   entry.UserID,
		Attributes: map[string]any{
			"castaway_id":    entry.CastawayID,
			"draft_pick":     entry.DraftPick,
			"draft_round":    entry.DraftRound,
			"draft_complete": complete,
		},
		OccurredAt: entry.AcquiredAt,
	})
	return entry, nil
}

func mapDraftError(err error) error {
	switch {
	case errors.Is(err, roster.ErrCastawayTaken), errors.Is(err, roster.ErrRosterFull), errors.Is(err, draft.ErrStaleDraft):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, draft.ErrDraftComplete):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	case errors.Is(err, draft.ErrNotStarted):
		return fmt.Errorf("%w: %w", ErrNotYetOpen, err)
	case errors.Is(err, draft.ErrNotYourTurn), errors.Is(err, draft.ErrRoundsExceeded):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}

func isDraftRuleError(err error) bool {
	return errors.Is(err, roster.ErrCastawayTaken) ||
		errors.Is(err, roster.ErrRosterFull) ||
		errors.Is(err, draft.ErrStaleDraft) ||
		errors.Is(err, draft.ErrDraftComplete) ||
		errors.Is(err, draft.ErrNotStarted)
}

// RunAutoFinalizeDraft completes every unfinished draft in the season. One random source is
// drawn per invocation and shared by all leagues. A failing league is logged and left for
// the next run; the others still complete.
func (s *DraftService) RunAutoFinalizeDraft(ctx context.Context, seasonID string) (AutoFinalizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.RunAutoFinalizeDraft")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return AutoFinalizeResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	item, ok, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return AutoFinalizeResult{}, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return AutoFinalizeResult{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	now := s.now().UTC()
	if now.Before(item.DraftDeadline) {
		return AutoFinalizeResult{}, fmt.Errorf("%w: draft deadline %s not reached", ErrPrecondition, item.DraftDeadline.Format(time.RFC3339))
	}

	leagues, err := s.leagueRepo.ListBySeason(ctx, item.ID)
	if err != nil {
		return AutoFinalizeResult{}, fmt.Errorf("list leagues: %w", err)
	}
	castaways, err := s.castawayRepo.ListBySeason(ctx, item.ID)
	if err != nil {
		return AutoFinalizeResult{}, fmt.Errorf("list castaways: %w", err)
	}
	rng, err := s.rng()
	if err != nil {
		return AutoFinalizeResult{}, fmt.Errorf("%w: seed auto draft: %v", ErrDependencyUnavailable, err)
	}

	result := AutoFinalizeResult{
		SeasonID:    item.ID,
		LeagueCount: len(leagues),
		Leagues:     make([]AutoFinalizeLeagueResult, 0, len(leagues)),
	}
	for _, l := range leagues {
		if !l.NeedsDraftFinalization() {
			continue
		}
		row, err := s.finalizeLeague(ctx, l, castaways, rng, now)
		if err != nil {
			result.FailedCount++
			row.Error = err.Error()
			s.logger.WarnContext(ctx, "auto finalize draft failed",
				"job", "draft_auto_finalize",
				"season_id", item.ID,
				"league_id", l.ID,
				"error", err,
			)
		} else {
			result.FinalizedCount++
		}
		result.Leagues = append(result.Leagues, row)
	}

	if result.FailedCount > 0 {
		return result, fmt.Errorf("auto finalize draft failed for %d league(s)", result.FailedCount)
	}

	if err := s.closeSeasonDraft(ctx, item, now); err != nil {
		return result, err
	}
	s.logger.InfoContext(ctx, "auto finalize draft completed",
		"job", "draft_auto_finalize",
		"season_id", item.ID,
		"finalized", result.FinalizedCount,
	)
	return result, nil
}

func (s *DraftService) finalizeLeague(ctx context.Context, l league.League, castaways []castaway.Castaway, rng random.Source, now time.Time) (AutoFinalizeLeagueResult, error) {
	row := AutoFinalizeLeagueResult{LeagueID: l.ID}

	members, err := s.leagueRepo.ListMembers(ctx, l.ID)
	if err != nil {
		return row, fmt.Errorf("list league members: %w", err)
	}
	if len(members) == 0 {
		return row, s.draftRepo.Finalize(ctx, draft.Finalization{LeagueID: l.ID, MaxActive: s.cfg.MaxActiveCastaways})
	}
	order, current, err := s.draftStateFor(ctx, l.ID, members)
	if err != nil {
		return row, err
	}

	made := make(map[string]int, order.Members())
	for _, e := range current.Entries() {
		if e.FromDraft() {
			made[e.UserID]++
		}
	}
	slots := order.NeedSlots(made)
	pool := draft.Undrafted(castaways, current)

	ids := make([]string, 0, min(len(slots), len(pool)))
	for range min(len(slots), len(pool)) {
		v, err := s.ids.NewID()
		if err != nil {
			return row, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		ids = append(ids, v)
	}
	next := 0
	entries := draft.AutoFill(slots, pool, rng, l.ID, now, func() string {
		v := ids[next]
		next++
		return v
	})

	if err := roster.NewLeague(append(current.Entries(), entries...)).Validate(s.cfg.MaxActiveCastaways); err != nil {
		return row, fmt.Errorf("auto draft would break roster invariants: %w", err)
	}
	err = s.draftRepo.Finalize(ctx, draft.Finalization{
		LeagueID:  l.ID,
		PicksMade: current.TotalDraftPicks(),
		Entries:   entries,
		Positions: draft.MissingPositions(members),
		MaxActive: s.cfg.MaxActiveCastaways,
	})
	if err != nil {
		return row, fmt.Errorf("finalize draft: %w", err)
	}

	row.Assigned = len(entries)
	row.UnfilledSlots = len(slots) - len(entries)
	if row.UnfilledSlots > 0 {
		s.logger.WarnContext(ctx, "auto draft ran out of castaways",
			"league_id", l.ID,
			"unfilled_slots", row.UnfilledSlots,
		)
	}
	return row, nil
}

func (s *DraftService) closeSeasonDraft(ctx context.Context, item season.Season, now time.Time) error {
	phase := item.Phase
	if phase == season.PhasePreSeason {
		next, err := season.Advance(phase, season.EventOpenDraft)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPrecondition, err)
		}
		phase = next
	}
	next, changed, err := season.AdvanceIfBehind(phase, season.EventCloseDraft, season.PhaseMakePick)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if !changed && item.DraftFinalizedAt != nil {
		return nil
	}

	item.Phase = next
	if item.DraftFinalizedAt == nil {
		item.DraftFinalizedAt = timePtr(now)
	}
	item.UpdatedAt = now
	if err := s.seasonRepo.UpdateSeasonPhase(ctx, item); err != nil {
		return fmt.Errorf("update season phase: %w", err)
	}
	return nil
}

func (s *DraftService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	item, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !ok {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}

func (s *DraftService) loadDraftState(ctx context.Context, leagueID string) (draft.Order, roster.League, error) {
	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return draft.Order{}, roster.League{}, fmt.Errorf("list league members: %w", err)
	}
	return s.draftStateFor(ctx, leagueID, members)
}

func (s *DraftService) draftStateFor(ctx context.Context, leagueID string, members []league.Membership) (draft.Order, roster.League, error) {
	order, err := draft.NewOrder(members, s.cfg.DraftRounds)
	if err != nil {
		return draft.Order{}, roster.League{}, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	entries, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return draft.Order{}, roster.League{}, fmt.Errorf("list roster: %w", err)
	}
	return order, roster.NewLeague(entries), nil
}
