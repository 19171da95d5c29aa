package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
)

// LeagueService serves league, roster and castaway reads. Writes go through the draft,
// pick, scoring and waiver services.
type LeagueService struct {
	seasons      season.Provider
	leagueRepo   league.Repository
	rosterRepo   roster.Repository
	castawayRepo castaway.Repository
}

func NewLeagueService(
	seasons season.Provider,
	leagueRepo league.Repository,
	rosterRepo roster.Repository,
	castawayRepo castaway.Repository,
) *LeagueService {
	return &LeagueService{
		seasons:      seasons,
		leagueRepo:   leagueRepo,
		rosterRepo:   rosterRepo,
		castawayRepo: castawayRepo,
	}
}

// ListLeagues lists the leagues of seasonID, or of the active season when it is empty.
func (s *LeagueService) ListLeagues(ctx context.Context, seasonID string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues")
	defer span.End()

	seasonID, err := s.resolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	leagues, err := s.leagueRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

// ListMyLeagues returns userID's memberships in the active season.
func (s *LeagueService) ListMyLeagues(ctx context.Context, userID string) ([]league.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMyLeagues")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	seasonID, err := s.resolveSeason(ctx, "")
	if err != nil {
		return nil, err
	}
	items, err := s.leagueRepo.ListMembershipsByUser(ctx, seasonID, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	return items, nil
}

// ListRoster returns every roster entry of the league, dropped ones included, so a client
// can render draft and waiver history.
func (s *LeagueService) ListRoster(ctx context.Context, leagueID string) ([]roster.Entry, error) {
	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	entries, err := s.rosterRepo.ListByLeague(ctx, strings.TrimSpace(leagueID))
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	return entries, nil
}

func (s *LeagueService) ListCastaways(ctx context.Context, seasonID string) ([]castaway.Castaway, error) {
	seasonID, err := s.resolveSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	items, err := s.castawayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list castaways: %w", err)
	}

	return items, nil
}

func (s *LeagueService) resolveSeason(ctx context.Context, seasonID string) (string, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID != "" {
		return seasonID, nil
	}
	active, err := s.seasons.ActiveSeason(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return active.ID, nil
}
