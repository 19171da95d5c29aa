package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/ranking"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/cache"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

const rankingCachePrefix = "ranking:season:"

type GlobalRankings struct {
	SeasonID   string               `json:"season_id"`
	GlobalMean float64              `json:"global_mean"`
	Items      []ranking.GlobalRank `json:"items"`
	ComputedAt time.Time            `json:"computed_at"`
}

// RankingService serves read paths: per-league standings and the cross-league leaderboard.
type RankingService struct {
	seasons     season.Provider
	seasonRepo  season.Repository
	leagueRepo  league.Repository
	scoringRepo scoring.Repository
	cache       *cache.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewRankingService(
	seasons season.Provider,
	seasonRepo season.Repository,
	leagueRepo league.Repository,
	scoringRepo scoring.Repository,
	store *cache.Store,
	logger *logging.Logger,
) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RankingService{
		seasons:     seasons,
		seasonRepo:  seasonRepo,
		leagueRepo:  leagueRepo,
		scoringRepo: scoringRepo,
		cache:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// GetGlobalRankings ranks every member of the season's leagues. An empty season id means
// the active season.
func (s *RankingService) GetGlobalRankings(ctx context.Context, seasonID string) (GlobalRankings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.GetGlobalRankings")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		if s.seasons == nil {
			return GlobalRankings{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
		}
		active, err := s.seasons.ActiveSeason(ctx)
		if err != nil {
			return GlobalRankings{}, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		seasonID = active.ID
	} else if _, ok, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return GlobalRankings{}, fmt.Errorf("get season: %w", err)
	} else if !ok {
		return GlobalRankings{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	if s.cache == nil {
		return s.computeGlobalRankings(ctx, seasonID)
	}
	value, err := s.cache.GetOrLoad(ctx, rankingCachePrefix+seasonID+":global", func(ctx context.Context) (any, error) {
		return s.computeGlobalRankings(ctx, seasonID)
	})
	if err != nil {
		return GlobalRankings{}, err
	}
	out, ok := value.(GlobalRankings)
	if !ok {
		return GlobalRankings{}, fmt.Errorf("unexpected cached rankings type %T", value)
	}
	return out, nil
}

func (s *RankingService) computeGlobalRankings(ctx context.Context, seasonID string) (GlobalRankings, error) {
	leagues, err := s.leagueRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return GlobalRankings{}, fmt.Errorf("list leagues: %w", err)
	}

	totals := make([]ranking.LeagueTotal, 0)
	for _, l := range leagues {
		members, err := s.leagueRepo.ListMembers(ctx, l.ID)
		if err != nil {
			return GlobalRankings{}, fmt.Errorf("list members league=%s: %w", l.ID, err)
		}
		scores, err := s.scoringRepo.ListScoresByLeague(ctx, l.ID)
		if err != nil {
			return GlobalRankings{}, fmt.Errorf("list scores league=%s: %w", l.ID, err)
		}
		byUser := scoring.TotalsByUser(scores)
		for _, m := range members {
			totals = append(totals, ranking.LeagueTotal{UserID: m.UserID, LeagueID: l.ID, Points: byUser[m.UserID]})
		}
	}

	items, mean := ranking.Compute(totals)
	return GlobalRankings{
		SeasonID:   seasonID,
		GlobalMean: mean,
		Items:      items,
		ComputedAt: s.now().UTC(),
	}, nil
}

// GetLeagueStandings returns members ordered by the ranks the scoring engine last wrote.
func (s *RankingService) GetLeagueStandings(ctx context.Context, leagueID string) ([]league.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.GetLeagueStandings")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, ok, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return league.RankByPoints(members), nil
}

func (s *RankingService) InvalidateSeason(ctx context.Context, seasonID string) {
	if s.cache == nil {
		return
	}
	removed := s.cache.DeletePrefix(ctx, rankingCachePrefix+seasonID+":")
	if removed > 0 {
		s.logger.DebugContext(ctx, "global rankings cache invalidated", "season_id", seasonID)
	}
}
