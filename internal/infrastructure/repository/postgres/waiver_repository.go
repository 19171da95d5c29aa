package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type WaiverRepository struct {
	db *sqlx.DB
}

func NewWaiverRepository(db *sqlx.DB) *WaiverRepository {
	return &WaiverRepository{db: db}
}

func (r *WaiverRepository) UpsertRanking(ctx context.Context, item waiver.Ranking) error {
	model := waiverRankingInsertModel{
		LeaguePublicID:    item.LeagueID,
		UserID:            item.UserID,
		EpisodePublicID:   item.EpisodeID,
		CastawayPublicIDs: pq.StringArray(item.CastawayIDs),
		SubmittedAt:       item.SubmittedAt.UTC(),
	}
	query, args, err := qb.InsertModel("waiver_rankings", model, `ON CONFLICT (league_public_id, user_id, episode_public_id)
DO UPDATE SET
    castaway_public_ids = EXCLUDED.castaway_public_ids,
    submitted_at = EXCLUDED.submitted_at`)
	if err != nil {
		return fmt.Errorf("build upsert waiver ranking query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert waiver ranking league=%s user=%s episode=%s: %w", item.LeagueID, item.UserID, item.EpisodeID, err)
	}
	return nil
}

func (r *WaiverRepository) ListRankings(ctx context.Context, leagueID, episodeID string) ([]waiver.Ranking, error) {
	query, args, err := qb.Select("*").From("waiver_rankings").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("episode_public_id", episodeID),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list waiver rankings query: %w", err)
	}

	var rows []waiverRankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list waiver rankings league=%s episode=%s: %w", leagueID, episodeID, err)
	}

	out := make([]waiver.Ranking, 0, len(rows))
	for _, row := range rows {
		out = append(out, waiver.Ranking{
			LeagueID:    row.LeaguePublicID,
			UserID:      row.UserID,
			EpisodeID:   row.EpisodePublicID,
			CastawayIDs: append([]string(nil), row.CastawayPublicIDs...),
			SubmittedAt: row.SubmittedAt.UTC(),
		})
	}
	return out, nil
}

func (r *WaiverRepository) IsCycleCommitted(ctx context.Context, leagueID, episodeID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("waiver_cycles").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("episode_public_id", episodeID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build waiver cycle query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check waiver cycle league=%s episode=%s: %w", leagueID, episodeID, err)
	}
	return count > 0, nil
}

func (r *WaiverRepository) CommitCycle(ctx context.Context, cycle waiver.Cycle, drops, adds []roster.Entry, results []waiver.Result) error {
	return inTx(ctx, r.db, "commit waiver cycle", func(tx *sqlx.Tx) error {
		cycleQuery, cycleArgs, err := qb.InsertModel("waiver_cycles", waiverCycleInsertModel{
			LeaguePublicID:  cycle.LeagueID,
			EpisodePublicID: cycle.EpisodeID,
			Claims:          cycle.Claims,
			ProcessedAt:     cycle.ProcessedAt.UTC(),
		}, `ON CONFLICT (league_public_id, episode_public_id) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("build insert waiver cycle query: %w", err)
		}
		res, err := tx.ExecContext(ctx, cycleQuery, cycleArgs...)
		if err != nil {
			return fmt.Errorf("insert waiver cycle league=%s episode=%s: %w", cycle.LeagueID, cycle.EpisodeID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return waiver.ErrCycleCommitted
		}

		for _, d := range drops {
			query, args, err := qb.Update("roster_entries").
				Set("dropped_at", utcPtr(d.DroppedAt)).
				Where(
					qb.Eq("league_public_id", cycle.LeagueID),
					qb.Eq("user_id", d.UserID),
					qb.Eq("castaway_public_id", d.CastawayID),
					qb.IsNull("dropped_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build drop roster entry query: %w", err)
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("drop roster entry %s/%s: %w", d.UserID, d.CastawayID, err)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return fmt.Errorf("drop %s/%s: no active roster entry", d.UserID, d.CastawayID)
			}
		}

		if len(adds) > 0 {
			if err := insertRosterEntries(ctx, tx, adds); err != nil {
				return err
			}
		}

		if len(results) > 0 {
			models := make([]waiverResultInsertModel, 0, len(results))
			for _, item := range results {
				models = append(models, waiverResultInsertModel{
					LeaguePublicID:           item.LeagueID,
					UserID:                   item.UserID,
					EpisodePublicID:          item.EpisodeID,
					DroppedCastawayPublicID:  item.DroppedCastawayID,
					AcquiredCastawayPublicID: item.AcquiredCastawayID,
					WaiverPosition:           item.WaiverPosition,
					ProcessedAt:              item.ProcessedAt.UTC(),
				})
			}
			query, args, err := qb.InsertModels("waiver_results", models, "")
			if err != nil {
				return fmt.Errorf("build insert waiver results query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert waiver results league=%s episode=%s: %w", cycle.LeagueID, cycle.EpisodeID, err)
			}
		}
		return nil
	})
}

func (r *WaiverRepository) ListResults(ctx context.Context, leagueID, episodeID string) ([]waiver.Result, error) {
	query, args, err := qb.Select("*").From("waiver_results").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("episode_public_id", episodeID),
		).
		OrderBy("waiver_position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list waiver results query: %w", err)
	}

	var rows []waiverResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list waiver results league=%s episode=%s: %w", leagueID, episodeID, err)
	}

	out := make([]waiver.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, waiver.Result{
			LeagueID:           row.LeaguePublicID,
			UserID:             row.UserID,
			EpisodeID:          row.EpisodePublicID,
			DroppedCastawayID:  row.DroppedCastawayPublicID,
			AcquiredCastawayID: row.AcquiredCastawayPublicID,
			WaiverPosition:     row.WaiverPosition,
			ProcessedAt:        row.ProcessedAt.UTC(),
		})
	}
	return out, nil
}
