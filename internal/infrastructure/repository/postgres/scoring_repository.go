package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) ListRules(ctx context.Context, seasonID string) ([]scoring.Rule, error) {
	query, args, err := qb.Select("*").From("scoring_rules").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("category").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scoring rules query: %w", err)
	}

	var rows []scoringRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scoring rules season=%s: %w", seasonID, err)
	}

	out := make([]scoring.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoringRuleFromRow(row))
	}
	return out, nil
}

func (r *ScoringRepository) GetRule(ctx context.Context, ruleID string) (scoring.Rule, bool, error) {
	query, args, err := qb.Select("*").From("scoring_rules").
		Where(
			qb.Eq("public_id", ruleID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return scoring.Rule{}, false, fmt.Errorf("build get scoring rule query: %w", err)
	}

	var row scoringRuleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.Rule{}, false, nil
		}
		return scoring.Rule{}, false, fmt.Errorf("get scoring rule: %w", err)
	}
	return scoringRuleFromRow(row), true, nil
}

func (r *ScoringRepository) UpsertRule(ctx context.Context, rule scoring.Rule) error {
	now := time.Now().UTC()
	model := scoringRuleInsertModel{
		PublicID:       rule.ID,
		SeasonPublicID: rule.SeasonID,
		Category:       rule.Category,
		Points:         rule.Points,
		IsActive:       rule.Active,
		CreatedAt:      valueOrNow(rule.CreatedAt, now),
		UpdatedAt:      valueOrNow(rule.UpdatedAt, now),
	}
	query, args, err := qb.InsertModel("scoring_rules", model, `ON CONFLICT (public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    category = EXCLUDED.category,
    points = EXCLUDED.points,
    is_active = EXCLUDED.is_active,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert scoring rule query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert scoring rule rule=%s: %w", rule.ID, err)
	}
	return nil
}

func (r *ScoringRepository) IsRuleUsed(ctx context.Context, ruleID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("episode_scores s JOIN episodes e ON e.public_id = s.episode_public_id AND e.deleted_at IS NULL").
		Where(
			qb.Eq("s.rule_public_id", ruleID),
			qb.IsNotNull("e.scoring_finalized_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build rule used query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check rule used rule=%s: %w", ruleID, err)
	}
	return count > 0, nil
}

func (r *ScoringRepository) UpsertEpisodeScores(ctx context.Context, items []scoring.EpisodeScore) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]episodeScoreInsertModel, 0, len(items))
	for _, item := range items {
		models = append(models, episodeScoreInsertModel{
			EpisodePublicID:  item.EpisodeID,
			CastawayPublicID: item.CastawayID,
			RulePublicID:     item.RuleID,
			Quantity:         item.Quantity,
			Points:           item.Points,
			UpdatedAt:        valueOrNow(item.UpdatedAt, time.Now().UTC()),
		})
	}
	query, args, err := qb.InsertModels("episode_scores", models, `ON CONFLICT (episode_public_id, castaway_public_id, rule_public_id)
DO UPDATE SET
    quantity = EXCLUDED.quantity,
    points = EXCLUDED.points,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert episode scores query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert episode scores episode=%s: %w", items[0].EpisodeID, err)
	}
	return nil
}

func (r *ScoringRepository) ListEpisodeScores(ctx context.Context, episodeID string) ([]scoring.EpisodeScore, error) {
	query, args, err := qb.Select("*").From("episode_scores").
		Where(qb.Eq("episode_public_id", episodeID)).
		OrderBy("castaway_public_id", "rule_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list episode scores query: %w", err)
	}

	var rows []episodeScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list episode scores episode=%s: %w", episodeID, err)
	}

	out := make([]scoring.EpisodeScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.EpisodeScore{
			EpisodeID:  row.EpisodePublicID,
			CastawayID: row.CastawayPublicID,
			RuleID:     row.RulePublicID,
			Quantity:   row.Quantity,
			Points:     row.Points,
			UpdatedAt:  row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *ScoringRepository) ReplaceLeagueScores(ctx context.Context, leagueID, episodeID string, scores []scoring.Score) error {
	return inTx(ctx, r.db, "replace league scores", func(tx *sqlx.Tx) error {
		clearQuery, clearArgs, err := qb.DeleteFrom("scores").
			Where(
				qb.Eq("league_public_id", leagueID),
				qb.Eq("episode_public_id", episodeID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear league scores query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear league scores league=%s episode=%s: %w", leagueID, episodeID, err)
		}

		if len(scores) == 0 {
			return nil
		}
		models := make([]scoreInsertModel, 0, len(scores))
		for _, s := range scores {
			models = append(models, scoreInsertModel{
				LeaguePublicID:   leagueID,
				UserID:           s.UserID,
				EpisodePublicID:  episodeID,
				WeekNumber:       s.WeekNumber,
				CastawayPublicID: s.CastawayID,
				Points:           s.Points,
				CalculatedAt:     s.CalculatedAt.UTC(),
			})
		}
		query, args, err := qb.InsertModels("scores", models, "")
		if err != nil {
			return fmt.Errorf("build insert league scores query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert league scores league=%s episode=%s: %w", leagueID, episodeID, err)
		}
		return nil
	})
}

func (r *ScoringRepository) ListScoresByLeague(ctx context.Context, leagueID string) ([]scoring.Score, error) {
	query, args, err := qb.Select("*").From("scores").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("week_number", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league scores query: %w", err)
	}

	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league scores league=%s: %w", leagueID, err)
	}

	out := make([]scoring.Score, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.Score{
			UserID:       row.UserID,
			LeagueID:     row.LeaguePublicID,
			EpisodeID:    row.EpisodePublicID,
			WeekNumber:   row.WeekNumber,
			CastawayID:   row.CastawayPublicID,
			Points:       row.Points,
			CalculatedAt: row.CalculatedAt.UTC(),
		})
	}
	return out, nil
}

func scoringRuleFromRow(row scoringRuleTableModel) scoring.Rule {
	return scoring.Rule{
		ID:        row.PublicID,
		SeasonID:  row.SeasonPublicID,
		Category:  row.Category,
		Points:    row.Points,
		Active:    row.IsActive,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func valueOrNow(value, now time.Time) time.Time {
	if value.IsZero() {
		return now
	}
	return value.UTC()
}
