package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByMember(ctx context.Context, leagueID, userID, episodeID string) (pick.WeeklyPick, bool, error) {
	query, args, err := qb.Select("*").From("weekly_picks").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("episode_public_id", episodeID),
		).
		ToSQL()
	if err != nil {
		return pick.WeeklyPick{}, false, fmt.Errorf("build get weekly pick query: %w", err)
	}

	var row weeklyPickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.WeeklyPick{}, false, nil
		}
		return pick.WeeklyPick{}, false, fmt.Errorf("get weekly pick: %w", err)
	}

	item, err := weeklyPickFromRow(row)
	if err != nil {
		return pick.WeeklyPick{}, false, err
	}
	return item, true, nil
}

func (r *PickRepository) ListByEpisode(ctx context.Context, leagueID, episodeID string) ([]pick.WeeklyPick, error) {
	query, args, err := qb.Select("*").From("weekly_picks").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("episode_public_id", episodeID),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weekly picks query: %w", err)
	}

	var rows []weeklyPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weekly picks league=%s episode=%s: %w", leagueID, episodeID, err)
	}

	out := make([]pick.WeeklyPick, 0, len(rows))
	for _, row := range rows {
		item, err := weeklyPickFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// UpsertPending keeps the original public id on replace. A locked row makes the
// conditional update match nothing, so RETURNING yields no row.
func (r *PickRepository) UpsertPending(ctx context.Context, p pick.WeeklyPick) (bool, error) {
	model := weeklyPickInsertModel{
		PublicID:         p.ID,
		LeaguePublicID:   p.LeagueID,
		UserID:           p.UserID,
		EpisodePublicID:  p.EpisodeID,
		CastawayPublicID: p.CastawayID,
		Status:           string(pick.StatusPending),
		IsAutoSelected:   p.IsAutoSelected,
		SubmittedAt:      p.SubmittedAt.UTC(),
	}
	query, args, err := qb.InsertModel("weekly_picks", model, `ON CONFLICT (league_public_id, user_id, episode_public_id)
DO UPDATE SET
    castaway_public_id = EXCLUDED.castaway_public_id,
    is_auto_selected = EXCLUDED.is_auto_selected,
    submitted_at = EXCLUDED.submitted_at
WHERE weekly_picks.status = 'PENDING'
RETURNING id`)
	if err != nil {
		return false, fmt.Errorf("build upsert weekly pick query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("upsert weekly pick league=%s user=%s episode=%s: %w", p.LeagueID, p.UserID, p.EpisodeID, err)
	}
	return true, nil
}

func (r *PickRepository) LockPending(ctx context.Context, episodeID string, at time.Time) (int, error) {
	query, args, err := qb.Update("weekly_picks").
		Set("status", string(pick.StatusLocked)).
		Set("locked_at", at.UTC()).
		Where(
			qb.Eq("episode_public_id", episodeID),
			qb.Eq("status", string(pick.StatusPending)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build lock weekly picks query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("lock weekly picks episode=%s: %w", episodeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("lock weekly picks rows affected: %w", err)
	}
	return int(n), nil
}

func (r *PickRepository) InsertLockedIfAbsent(ctx context.Context, p pick.WeeklyPick) (bool, error) {
	model := weeklyPickInsertModel{
		PublicID:         p.ID,
		LeaguePublicID:   p.LeagueID,
		UserID:           p.UserID,
		EpisodePublicID:  p.EpisodeID,
		CastawayPublicID: p.CastawayID,
		Status:           string(pick.StatusLocked),
		IsAutoSelected:   p.IsAutoSelected,
		SubmittedAt:      p.SubmittedAt.UTC(),
		LockedAt:         utcPtr(p.LockedAt),
	}
	query, args, err := qb.InsertModel("weekly_picks", model, `ON CONFLICT (league_public_id, user_id, episode_public_id) DO NOTHING`)
	if err != nil {
		return false, fmt.Errorf("build insert auto pick query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert auto pick league=%s user=%s episode=%s: %w", p.LeagueID, p.UserID, p.EpisodeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert auto pick rows affected: %w", err)
	}
	return n > 0, nil
}

func weeklyPickFromRow(row weeklyPickTableModel) (pick.WeeklyPick, error) {
	status, err := pick.ParseStatus(row.Status)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("weekly pick %s: %w", row.PublicID, err)
	}
	return pick.WeeklyPick{
		ID:             row.PublicID,
		LeagueID:       row.LeaguePublicID,
		UserID:         row.UserID,
		EpisodeID:      row.EpisodePublicID,
		CastawayID:     row.CastawayPublicID,
		Status:         status,
		IsAutoSelected: row.IsAutoSelected,
		SubmittedAt:    row.SubmittedAt.UTC(),
		LockedAt:       utcPtr(row.LockedAt),
	}, nil
}
