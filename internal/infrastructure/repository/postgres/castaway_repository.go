package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type CastawayRepository struct {
	db *sqlx.DB
}

func NewCastawayRepository(db *sqlx.DB) *CastawayRepository {
	return &CastawayRepository{db: db}
}

func (r *CastawayRepository) ListBySeason(ctx context.Context, seasonID string) ([]castaway.Castaway, error) {
	query, args, err := qb.Select("*").From("castaways").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("seed", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list castaways query: %w", err)
	}

	var rows []castawayTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list castaways season=%s: %w", seasonID, err)
	}

	out := make([]castaway.Castaway, 0, len(rows))
	for _, row := range rows {
		item, err := castawayFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *CastawayRepository) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, bool, error) {
	query, args, err := qb.Select("*").From("castaways").
		Where(
			qb.Eq("public_id", castawayID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return castaway.Castaway{}, false, fmt.Errorf("build get castaway query: %w", err)
	}

	var row castawayTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return castaway.Castaway{}, false, nil
		}
		return castaway.Castaway{}, false, fmt.Errorf("get castaway: %w", err)
	}

	item, err := castawayFromRow(row)
	if err != nil {
		return castaway.Castaway{}, false, err
	}
	return item, true, nil
}

// MarkEliminated only writes when the castaway is active or already out in the same episode,
// so a concurrent conflicting elimination cannot overwrite the first one.
func (r *CastawayRepository) MarkEliminated(ctx context.Context, castawayID string, episodeNumber int) error {
	query, args, err := qb.Update("castaways").
		Set("status", string(castaway.StatusEliminated)).
		Set("eliminated_episode_number", episodeNumber).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", castawayID),
			qb.Expr("(eliminated_episode_number IS NULL OR eliminated_episode_number = ?)", episodeNumber),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark castaway eliminated query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark castaway eliminated castaway=%s: %w", castawayID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: castaway=%s", castaway.ErrAlreadyEliminated, castawayID)
	}
	return nil
}

func castawayFromRow(row castawayTableModel) (castaway.Castaway, error) {
	status, err := castaway.ParseStatus(row.Status)
	if err != nil {
		return castaway.Castaway{}, fmt.Errorf("castaway %s: %w", row.PublicID, err)
	}
	return castaway.Castaway{
		ID:                      row.PublicID,
		SeasonID:                row.SeasonPublicID,
		Name:                    row.Name,
		Status:                  status,
		EliminatedEpisodeNumber: nullInt64ToIntPtr(row.EliminatedEpisodeNumber),
		Seed:                    row.Seed,
	}, nil
}
