package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
)

// EpisodeService receives phase signals from the external scheduler for the transitions
// no engine job owns. Engine-owned transitions must go through their jobs.
type EpisodeService struct {
	seasonRepo season.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewEpisodeService(seasonRepo season.Repository, logger *logging.Logger) *EpisodeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EpisodeService{seasonRepo: seasonRepo, logger: logger, now: time.Now}
}

var jobOwnedEvents = map[season.Event]string{
	season.EventCloseDraft:      "draft auto-finalize",
	season.EventLockPicks:       "lock picks",
	season.EventFinalizeScoring: "finalize scoring",
	season.EventReleaseResults:  "release results",
	season.EventCloseWaivers:    "process waivers",
}

var eventTargets = map[season.Event]season.Phase{
	season.EventOpenDraft:   season.PhaseDraft,
	season.EventStartAiring: season.PhaseAwaitingResults,
}

func (s *EpisodeService) GetEpisode(ctx context.Context, episodeID string) (season.Episode, error) {
	return getEpisode(ctx, s.seasonRepo, episodeID)
}

func (s *EpisodeService) ListEpisodes(ctx context.Context, seasonID string) ([]season.Episode, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	items, err := s.seasonRepo.ListEpisodes(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	return items, nil
}

// Signal applies an episode event. Repeating a signal the episode already passed is a no-op.
func (s *EpisodeService) Signal(ctx context.Context, episodeID string, event season.Event) (season.Episode, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EpisodeService.Signal")
	defer span.End()

	if owner, ok := jobOwnedEvents[event]; ok {
		return season.Episode{}, fmt.Errorf("%w: %s is applied by the %s job", ErrInvalidInput, event, owner)
	}
	target, ok := eventTargets[event]
	if !ok || event == season.EventOpenDraft {
		return season.Episode{}, fmt.Errorf("%w: %s is not an episode event", ErrInvalidInput, event)
	}

	ep, err := getEpisode(ctx, s.seasonRepo, episodeID)
	if err != nil {
		return season.Episode{}, err
	}
	next, changed, err := season.AdvanceIfBehind(ep.Phase, event, target)
	if err != nil {
		return season.Episode{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if !changed {
		return ep, nil
	}

	ep.Phase = next
	ep.UpdatedAt = s.now().UTC()
	if err := s.seasonRepo.UpdateEpisodeLifecycle(ctx, ep); err != nil {
		return season.Episode{}, fmt.Errorf("update episode lifecycle: %w", err)
	}
	s.logger.InfoContext(ctx, "episode phase advanced", "season_id", ep.SeasonID, "episode_id", ep.ID, "event", event, "phase", next)
	return ep, nil
}

// SignalSeason applies a season event; open_draft is the only one the scheduler sends.
func (s *EpisodeService) SignalSeason(ctx context.Context, seasonID string, event season.Event) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EpisodeService.SignalSeason")
	defer span.End()

	if event != season.EventOpenDraft {
		return season.Season{}, fmt.Errorf("%w: %s is not a season event", ErrInvalidInput, event)
	}
	seasonID = strings.TrimSpace(seasonID)
	item, ok, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !ok {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	next, changed, err := season.AdvanceIfBehind(item.Phase, event, eventTargets[event])
	if err != nil {
		return season.Season{}, fmt.Errorf("%w: %v", ErrPrecondition, err)
	}
	if !changed {
		return item, nil
	}
	item.Phase = next
	item.UpdatedAt = s.now().UTC()
	if err := s.seasonRepo.UpdateSeasonPhase(ctx, item); err != nil {
		return season.Season{}, fmt.Errorf("update season phase: %w", err)
	}
	s.logger.InfoContext(ctx, "season phase advanced", "season_id", item.ID, "event", event, "phase", next)
	return item, nil
}
