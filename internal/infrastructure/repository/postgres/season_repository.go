package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetActive(ctx context.Context) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get active season query: %w", err)
	}

	return r.getSeason(ctx, query, args, "get active season")
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get season by id query: %w", err)
	}

	return r.getSeason(ctx, query, args, "get season by id")
}

func (r *SeasonRepository) getSeason(ctx context.Context, query string, args []any, op string) (season.Season, bool, error) {
	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("%s: %w", op, err)
	}

	item, err := mapSeasonRow(row)
	if err != nil {
		return season.Season{}, false, err
	}
	return item, true, nil
}

func (r *SeasonRepository) UpdateSeasonPhase(ctx context.Context, s season.Season) error {
	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query, args, err := qb.Update("seasons").
		Set("phase", string(s.Phase)).
		Set("draft_finalized_at", s.DraftFinalizedAt).
		Set("updated_at", updatedAt).
		Where(
			qb.Eq("public_id", s.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update season phase query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update season phase season=%s: %w", s.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: season=%s", season.ErrNoActiveSeason, s.ID)
	}
	return nil
}

func (r *SeasonRepository) GetEpisode(ctx context.Context, episodeID string) (season.Episode, bool, error) {
	query, args, err := qb.Select("*").From("episodes").
		Where(
			qb.Eq("public_id", episodeID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return season.Episode{}, false, fmt.Errorf("build get episode query: %w", err)
	}

	return r.getEpisode(ctx, query, args, "get episode")
}

func (r *SeasonRepository) GetEpisodeByNumber(ctx context.Context, seasonID string, number int) (season.Episode, bool, error) {
	query, args, err := qb.Select("*").From("episodes").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.Eq("number", number),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return season.Episode{}, false, fmt.Errorf("build get episode by number query: %w", err)
	}

	return r.getEpisode(ctx, query, args, "get episode by number")
}

func (r *SeasonRepository) getEpisode(ctx context.Context, query string, args []any, op string) (season.Episode, bool, error) {
	var row episodeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Episode{}, false, nil
		}
		return season.Episode{}, false, fmt.Errorf("%s: %w", op, err)
	}

	item, err := mapEpisodeRow(row)
	if err != nil {
		return season.Episode{}, false, err
	}
	return item, true, nil
}

func (r *SeasonRepository) ListEpisodes(ctx context.Context, seasonID string) ([]season.Episode, error) {
	query, args, err := qb.Select("*").From("episodes").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list episodes query: %w", err)
	}

	var rows []episodeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list episodes season=%s: %w", seasonID, err)
	}

	out := make([]season.Episode, 0, len(rows))
	for _, row := range rows {
		item, err := mapEpisodeRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *SeasonRepository) UpdateEpisodeLifecycle(ctx context.Context, e season.Episode) error {
	updatedAt := e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query, args, err := qb.Update("episodes").
		Set("phase", string(e.Phase)).
		Set("is_scored", e.IsScored).
		Set("picks_locked_at", e.PicksLockedAt).
		Set("scoring_finalized_at", e.ScoringFinalizedAt).
		Set("results_locked_at", e.ResultsLockedAt).
		Set("results_released_at", e.ResultsReleasedAt).
		Set("waivers_processed_at", e.WaiversProcessedAt).
		Set("updated_at", updatedAt).
		Where(
			qb.Eq("public_id", e.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update episode lifecycle query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update episode lifecycle episode=%s: %w", e.ID, err)
	}
	return nil
}

func mapSeasonRow(row seasonTableModel) (season.Season, error) {
	phase, err := season.ParsePhase(row.Phase)
	if err != nil {
		return season.Season{}, fmt.Errorf("season %s: %w", row.PublicID, err)
	}
	return season.Season{
		ID:                  row.PublicID,
		Number:              row.Number,
		IsActive:            row.IsActive,
		Phase:               phase,
		RegistrationOpensAt: timeOrZero(row.RegistrationOpensAt),
		DraftOpensAt:        timeOrZero(row.DraftOpensAt),
		DraftDeadline:       row.DraftDeadline.UTC(),
		PremiereAt:          timeOrZero(row.PremiereAt),
		FinaleAt:            timeOrZero(row.FinaleAt),
		DraftFinalizedAt:    utcPtr(row.DraftFinalizedAt),
		CreatedAt:           row.CreatedAt.UTC(),
		UpdatedAt:           row.UpdatedAt.UTC(),
	}, nil
}

func mapEpisodeRow(row episodeTableModel) (season.Episode, error) {
	phase, err := season.ParsePhase(row.Phase)
	if err != nil {
		return season.Episode{}, fmt.Errorf("episode %s: %w", row.PublicID, err)
	}
	return season.Episode{
		ID:                 row.PublicID,
		SeasonID:           row.SeasonPublicID,
		Number:             row.Number,
		WeekNumber:         row.WeekNumber,
		AirDate:            row.AirDate.UTC(),
		PicksOpenAt:        row.PicksOpenAt.UTC(),
		PicksLockAt:        row.PicksLockAt.UTC(),
		WaiverOpensAt:      row.WaiverOpensAt.UTC(),
		WaiverClosesAt:     row.WaiverClosesAt.UTC(),
		Phase:              phase,
		IsScored:           row.IsScored,
		PicksLockedAt:      utcPtr(row.PicksLockedAt),
		ScoringFinalizedAt: utcPtr(row.ScoringFinalizedAt),
		ResultsLockedAt:    utcPtr(row.ResultsLockedAt),
		ResultsReleasedAt:  utcPtr(row.ResultsReleasedAt),
		WaiversProcessedAt: utcPtr(row.WaiversProcessedAt),
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}, nil
}

func timeOrZero(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return value.UTC()
}

func timeOrNil(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	v := value.UTC()
	return &v
}

func utcPtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := value.UTC()
	return &v
}
