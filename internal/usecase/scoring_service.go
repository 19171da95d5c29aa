package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/id"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

type SaveScoresInput struct {
	EpisodeID string
	Entries   []scoring.Entry
}

type SaveScoresResult struct {
	EpisodeID       string `json:"episode_id"`
	SavedCount      int    `json:"saved_count"`
	LeaguesUpdated  int    `json:"leagues_updated"`
	ScoresRewritten int    `json:"scores_rewritten"`
}

type RuleInput struct {
	ID       string
	SeasonID string
	Category string
	Points   int
	Active   bool
}

type ScoringService struct {
	seasonRepo   season.Repository
	leagueRepo   league.Repository
	castawayRepo castaway.Repository
	pickRepo     pick.Repository
	scoringRepo  scoring.Repository
	publisher    signal.Publisher
	rankings     RankingInvalidator
	ids          id.Generator
	cfg          GameConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewScoringService(
	seasonRepo season.Repository,
	leagueRepo league.Repository,
	castawayRepo castaway.Repository,
	pickRepo pick.Repository,
	scoringRepo scoring.Repository,
	publisher signal.Publisher,
	rankings RankingInvalidator,
	ids id.Generator,
	cfg GameConfig,
	logger *logging.Logger,
) *ScoringService {
	if publisher == nil {
		publisher = signal.NoopPublisher()
	}
	if rankings == nil {
		rankings = noopRankingInvalidator{}
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		seasonRepo:   seasonRepo,
		leagueRepo:   leagueRepo,
		castawayRepo: castawayRepo,
		pickRepo:     pickRepo,
		scoringRepo:  scoringRepo,
		publisher:    publisher,
		rankings:     rankings,
		ids:          ids,
		cfg:          cfg.normalized(),
		logger:       logger,
		now:          time.Now,
	}
}

// SaveScores upserts a batch of event counts for one episode and then recomputes every
// affected Score from scratch.
func (s *ScoringService) SaveScores(ctx context.Context, input SaveScoresInput) (SaveScoresResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.SaveScores")
	defer span.End()

	ep, err := getEpisode(ctx, s.seasonRepo, input.EpisodeID)
	if err != nil {
		return SaveScoresResult{}, err
	}
	if len(input.Entries) == 0 {
		return SaveScoresResult{}, fmt.Errorf("%w: at least one score entry is required", ErrInvalidInput)
	}
	if !season.AcceptsScores(ep.Phase, s.cfg.AllowScoreCorrections) {
		if season.Reached(ep.Phase, season.PhaseResultsPosted) {
			return SaveScoresResult{}, fmt.Errorf("%w: scoring finalized for episode=%s", ErrClosed, ep.ID)
		}
		return SaveScoresResult{}, fmt.Errorf("%w: picks for episode=%s are not locked yet", ErrNotYetOpen, ep.ID)
	}

	castaways, err := s.castawayRepo.ListBySeason(ctx, ep.SeasonID)
	if err != nil {
		return SaveScoresResult{}, fmt.Errorf("list castaways: %w", err)
	}
	known := castaway.ByID(castaways)
	for _, e := range input.Entries {
		if _, ok := known[strings.TrimSpace(e.CastawayID)]; !ok {
			return SaveScoresResult{}, fmt.Errorf("%w: castaway=%s is not in this season", ErrInvalidInput, e.CastawayID)
		}
	}

	rules, err := s.scoringRepo.ListRules(ctx, ep.SeasonID)
	if err != nil {
		return SaveScoresResult{}, fmt.Errorf("list scoring rules: %w", err)
	}
	now := s.now().UTC()
	items, err := scoring.BuildEpisodeScores(ep.ID, input.Entries, rules, now)
	if err != nil {
		return SaveScoresResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.scoringRepo.UpsertEpisodeScores(ctx, items); err != nil {
		return SaveScoresResult{}, fmt.Errorf("upsert episode scores: %w", err)
	}

	leagues, rewritten, err := s.recompute(ctx, ep, now)
	if err != nil {
		return SaveScoresResult{}, err
	}

	s.logger.InfoContext(ctx, "episode scores saved",
		"season_id", ep.SeasonID,
		"episode_id", ep.ID,
		"entries", len(items),
		"leagues", leagues,
	)
	return SaveScoresResult{
		EpisodeID:       ep.ID,
		SavedCount:      len(items),
		LeaguesUpdated:  leagues,
		ScoresRewritten: rewritten,
	}, nil
}

// RecomputeEpisode rebuilds Score rows and standings for every league from current data.
func (s *ScoringService) RecomputeEpisode(ctx context.Context, episodeID string) (SaveScoresResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecomputeEpisode")
	defer span.End()

	ep, err := getEpisode(ctx, s.seasonRepo, episodeID)
	if err != nil {
		return SaveScoresResult{}, err
	}
	leagues, rewritten, err := s.recompute(ctx, ep, s.now().UTC())
	if err != nil {
		return SaveScoresResult{}, err
	}
	return SaveScoresResult{EpisodeID: ep.ID, LeaguesUpdated: leagues, ScoresRewritten: rewritten}, nil
}

func (s *ScoringService) recompute(ctx context.Context, ep season.Episode, now time.Time) (int, int, error) {
	episodeScores, err := s.scoringRepo.ListEpisodeScores(ctx, ep.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list episode scores: %w", err)
	}
	totals := scoring.CastawayTotals(episodeScores)

	leagues, err := s.leagueRepo.ListBySeason(ctx, ep.SeasonID)
	if err != nil {
		return 0, 0, fmt.Errorf("list leagues: %w", err)
	}
	if len(leagues) == 0 {
		return 0, 0, nil
	}

	counts := make([]int, len(leagues))
	p := pool.New().WithMaxGoroutines(workerCount(s.cfg.MaxWorkers, len(leagues))).WithContext(ctx)
	for i, l := range leagues {
		i, l := i, l
		p.Go(func(ctx context.Context) error {
			n, err := s.recomputeLeague(ctx, l, ep, totals, now)
			if err != nil {
				return fmt.Errorf("recompute league=%s: %w", l.ID, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return 0, 0, err
	}

	rewritten := 0
	for _, n := range counts {
		rewritten += n
	}
	s.rankings.InvalidateSeason(ctx, ep.SeasonID)
	return len(leagues), rewritten, nil
}

func (s *ScoringService) recomputeLeague(ctx context.Context, l league.League, ep season.Episode, totals map[string]int, now time.Time) (int, error) {
	picks, err := s.pickRepo.ListByEpisode(ctx, l.ID, ep.ID)
	if err != nil {
		return 0, fmt.Errorf("list picks: %w", err)
	}
	scores := scoring.AttributeScores(picks, totals, ep.WeekNumber, now)
	if err := s.scoringRepo.ReplaceLeagueScores(ctx, l.ID, ep.ID, scores); err != nil {
		return 0, fmt.Errorf("replace scores: %w", err)
	}
	if err := s.refreshStandings(ctx, l.ID); err != nil {
		return 0, err
	}
	return len(scores), nil
}

// refreshStandings rewrites totalPoints and rank for every member of the league.
func (s *ScoringService) refreshStandings(ctx context.Context, leagueID string) error {
	all, err := s.scoringRepo.ListScoresByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list league scores: %w", err)
	}
	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	byUser := scoring.TotalsByUser(all)
	for i := range members {
		members[i].TotalPoints = byUser[members[i].UserID]
	}
	if err := s.leagueRepo.UpdateStandings(ctx, leagueID, league.RankByPoints(members)); err != nil {
		return fmt.Errorf("update standings: %w", err)
	}
	return nil
}

// FinalizeScoring is the one-way gate after which waivers and results release may run.
func (s *ScoringService) FinalizeScoring(ctx context.Context, episodeID string) (season.Episode, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.FinalizeScoring")
	defer span.End()

	ep, err := getEpisode(ctx, s.seasonRepo, episodeID)
	if err != nil {
		return season.Episode{}, err
	}
	if ep.IsFinalized() {
		return season.Episode{}, fmt.Errorf("%w: scoring already finalized for episode=%s", ErrPrecondition, ep.ID)
	}
	next, err := season.Advance(ep.Phase, season.EventFinalizeScoring)
	if err != nil {
		return season.Episode{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}

	now := s.now().UTC()
	if _, _, err := s.recompute(ctx, ep, now); err != nil {
		return season.Episode{}, err
	}

	ep.Phase = next
	ep.IsScored = true
	ep.ScoringFinalizedAt = timePtr(now)
	ep.ResultsLockedAt = timePtr(now)
	ep.UpdatedAt = now
	if err := s.seasonRepo.UpdateEpisodeLifecycle(ctx, ep); err != nil {
		return season.Episode{}, fmt.Errorf("update episode lifecycle: %w", err)
	}
	s.rankings.InvalidateSeason(ctx, ep.SeasonID)

	s.logger.InfoContext(ctx, "episode scoring finalized", "season_id", ep.SeasonID, "episode_id", ep.ID)
	emitSignal(ctx, s.publisher, s.logger, signal.Signal{
		Kind:       signal.KindEpisodeScored,
		SeasonID:   ep.SeasonID,
		EpisodeID:  ep.ID,
		Attributes: map[string]any{"episode_number": ep.Number, "week_number": ep.WeekNumber},
		OccurredAt: now,
	})
	return ep, nil
}

// ReleaseResults publishes a finalized episode and opens its waiver window. Releasing twice is a no-op.
func (s *ScoringService) ReleaseResults(ctx context.Context, episodeID string) (season.Episode, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ReleaseResults")
	defer span.End()

	ep, err := getEpisode(ctx, s.seasonRepo, episodeID)
	if err != nil {
		return season.Episode{}, err
	}
	if !ep.IsFinalized() {
		return season.Episode{}, fmt.Errorf("%w: scoring not finalized for episode=%s", ErrPrecondition, ep.ID)
	}
	if ep.ResultsReleasedAt != nil {
		return ep, nil
	}

	next, _, err := season.AdvanceIfBehind(ep.Phase, season.EventReleaseResults, season.PhaseWaiverOpen)
	if err != nil {
		return season.Episode{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	now := s.now().UTC()
	ep.Phase = next
	ep.ResultsReleasedAt = timePtr(now)
	ep.UpdatedAt = now
	if err := s.seasonRepo.UpdateEpisodeLifecycle(ctx, ep); err != nil {
		return season.Episode{}, fmt.Errorf("update episode lifecycle: %w", err)
	}
	s.rankings.InvalidateSeason(ctx, ep.SeasonID)
	s.logger.InfoContext(ctx, "episode results released", "season_id", ep.SeasonID, "episode_id", ep.ID)
	return ep, nil
}

// EliminateCastaway records the episode a castaway left the game in.
func (s *ScoringService) EliminateCastaway(ctx context.Context, castawayID string, episodeNumber int) (castaway.Castaway, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EliminateCastaway")
	defer span.End()

	castawayID = strings.TrimSpace(castawayID)
	if castawayID == "" {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway id is required", ErrInvalidInput)
	}
	c, ok, err := s.castawayRepo.GetByID(ctx, castawayID)
	if err != nil {
		return castaway.Castaway{}, fmt.Errorf("get castaway: %w", err)
	}
	if !ok {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway=%s", ErrNotFound, castawayID)
	}

	next, err := c.Eliminate(episodeNumber)
	if errors.Is(err, castaway.ErrAlreadyEliminated) {
		return castaway.Castaway{}, fmt.Errorf("%w: %w", ErrConflict, err)
	}
	if err != nil {
		return castaway.Castaway{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if c.EliminatedEpisodeNumber != nil {
		return next, nil
	}
	if err := s.castawayRepo.MarkEliminated(ctx, c.ID, episodeNumber); err != nil {
		return castaway.Castaway{}, fmt.Errorf("mark castaway eliminated: %w", err)
	}
	s.logger.InfoContext(ctx, "castaway eliminated", "season_id", c.SeasonID, "castaway_id", c.ID, "episode_number", episodeNumber)
	return next, nil
}

func (s *ScoringService) ListRules(ctx context.Context, seasonID string) ([]scoring.Rule, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	items, err := s.scoringRepo.ListRules(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list scoring rules: %w", err)
	}
	return items, nil
}

// UpsertRule creates or edits a rule. Point values freeze once a finalized episode used the rule.
func (s *ScoringService) UpsertRule(ctx context.Context, input RuleInput) (scoring.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.UpsertRule")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.Category = strings.TrimSpace(input.Category)
	if input.SeasonID == "" || input.Category == "" {
		return scoring.Rule{}, fmt.Errorf("%w: season id and category are required", ErrInvalidInput)
	}
	if _, ok, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return scoring.Rule{}, fmt.Errorf("get season: %w", err)
	} else if !ok {
		return scoring.Rule{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	now := s.now().UTC()
	rule := scoring.Rule{
		ID:        strings.TrimSpace(input.ID),
		SeasonID:  input.SeasonID,
		Category:  input.Category,
		Points:    input.Points,
		Active:    input.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if rule.ID != "" {
		existing, ok, err := s.scoringRepo.GetRule(ctx, rule.ID)
		if err != nil {
			return scoring.Rule{}, fmt.Errorf("get scoring rule: %w", err)
		}
		if ok {
			if existing.SeasonID != rule.SeasonID {
				return scoring.Rule{}, fmt.Errorf("%w: rule=%s belongs to another season", ErrInvalidInput, rule.ID)
			}
			used, err := s.scoringRepo.IsRuleUsed(ctx, rule.ID)
			if err != nil {
				return scoring.Rule{}, fmt.Errorf("check scoring rule usage: %w", err)
			}
			if err := scoring.CheckRuleChange(existing, rule, used); err != nil {
				return scoring.Rule{}, fmt.Errorf("%w: %w", ErrConflict, err)
			}
			rule.CreatedAt = existing.CreatedAt
		}
	} else {
		newID, err := s.ids.NewID()
		if err != nil {
			return scoring.Rule{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		rule.ID = newID
	}

	if err := s.scoringRepo.UpsertRule(ctx, rule); err != nil {
		return scoring.Rule{}, fmt.Errorf("upsert scoring rule: %w", err)
	}
	return rule, nil
}
