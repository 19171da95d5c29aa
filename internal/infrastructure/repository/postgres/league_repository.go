package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	item, err := leagueFromRow(row)
	if err != nil {
		return league.League{}, false, err
	}
	return item, true, nil
}

func (r *LeagueRepository) ListBySeason(ctx context.Context, seasonID string) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues season=%s: %w", seasonID, err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		item, err := leagueFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Membership, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league members league=%s: %w", leagueID, err)
	}
	return membershipsFromRows(rows)
}

func (r *LeagueRepository) GetMembership(ctx context.Context, leagueID, userID string) (league.Membership, bool, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.Membership{}, false, fmt.Errorf("build get membership query: %w", err)
	}

	var row leagueMemberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Membership{}, false, nil
		}
		return league.Membership{}, false, fmt.Errorf("get membership: %w", err)
	}

	item, err := membershipFromRow(row)
	if err != nil {
		return league.Membership{}, false, err
	}
	return item, true, nil
}

func (r *LeagueRepository) ListMembershipsByUser(ctx context.Context, seasonID, userID string) ([]league.Membership, error) {
	query, args, err := qb.Select("m.*").
		From("league_members m JOIN leagues l ON l.public_id = m.league_public_id AND l.deleted_at IS NULL").
		Where(
			qb.Eq("l.season_public_id", seasonID),
			qb.Eq("m.user_id", userID),
			qb.IsNull("m.deleted_at"),
		).
		OrderBy("l.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list memberships by user query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list memberships user=%s: %w", userID, err)
	}
	return membershipsFromRows(rows)
}

func (r *LeagueRepository) StartDraft(ctx context.Context, leagueID string, positions map[string]int) error {
	return inTx(ctx, r.db, "start draft", func(tx *sqlx.Tx) error {
		lockQuery, lockArgs, err := qb.Select("draft_status").From("leagues").
			Where(
				qb.Eq("public_id", leagueID),
				qb.IsNull("deleted_at"),
			).
			ForUpdate().
			ToSQL()
		if err != nil {
			return fmt.Errorf("build lock league query: %w", err)
		}
		var draftStatus string
		if err := tx.GetContext(ctx, &draftStatus, lockQuery, lockArgs...); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("league %s not found", leagueID)
			}
			return fmt.Errorf("lock league=%s: %w", leagueID, err)
		}

		clearQuery, clearArgs, err := qb.Update("league_members").
			Set("draft_position", nil).
			Where(
				qb.Eq("league_public_id", leagueID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear draft positions query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear draft positions league=%s: %w", leagueID, err)
		}

		for userID, position := range positions {
			query, args, err := qb.Update("league_members").
				Set("draft_position", position).
				SetExpr("updated_at", "NOW()").
				Where(
					qb.Eq("league_public_id", leagueID),
					qb.Eq("user_id", userID),
					qb.IsNull("deleted_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build set draft position query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("set draft position league=%s user=%s: %w", leagueID, userID, err)
			}
		}

		statusQuery, statusArgs, err := qb.Update("leagues").
			Set("draft_status", string(league.DraftInProgress)).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", leagueID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build start draft query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, statusQuery, statusArgs...); err != nil {
			return fmt.Errorf("start draft league=%s: %w", leagueID, err)
		}
		return nil
	})
}

func (r *LeagueRepository) UpdateStandings(ctx context.Context, leagueID string, members []league.Membership) error {
	return inTx(ctx, r.db, "update standings", func(tx *sqlx.Tx) error {
		for _, m := range members {
			query, args, err := qb.Update("league_members").
				Set("total_points", m.TotalPoints).
				Set("rank", m.Rank).
				SetExpr("updated_at", "NOW()").
				Where(
					qb.Eq("league_public_id", leagueID),
					qb.Eq("user_id", m.UserID),
					qb.IsNull("deleted_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build update standing query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("update standing league=%s user=%s: %w", leagueID, m.UserID, err)
			}
		}
		return nil
	})
}

func leagueFromRow(row leagueTableModel) (league.League, error) {
	typ, err := league.ParseType(row.LeagueType)
	if err != nil {
		return league.League{}, fmt.Errorf("league %s: %w", row.PublicID, err)
	}
	status, err := league.ParseStatus(row.Status)
	if err != nil {
		return league.League{}, fmt.Errorf("league %s: %w", row.PublicID, err)
	}
	draftStatus, err := league.ParseDraftStatus(row.DraftStatus)
	if err != nil {
		return league.League{}, fmt.Errorf("league %s: %w", row.PublicID, err)
	}
	return league.League{
		ID:             row.PublicID,
		SeasonID:       row.SeasonPublicID,
		Name:           row.Name,
		Type:           typ,
		CurrentPlayers: row.CurrentPlayers,
		MaxPlayers:     row.MaxPlayers,
		Status:         status,
		DraftStatus:    draftStatus,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}, nil
}

func membershipFromRow(row leagueMemberTableModel) (league.Membership, error) {
	role, err := league.ParseRole(row.Role)
	if err != nil {
		return league.Membership{}, fmt.Errorf("membership %s/%s: %w", row.LeaguePublicID, row.UserID, err)
	}
	return league.Membership{
		LeagueID:      row.LeaguePublicID,
		UserID:        row.UserID,
		Role:          role,
		DraftPosition: nullInt64ToIntPtr(row.DraftPosition),
		TotalPoints:   row.TotalPoints,
		Rank:          row.Rank,
		CreatedAt:     row.CreatedAt.UTC(),
	}, nil
}

func membershipsFromRows(rows []leagueMemberTableModel) ([]league.Membership, error) {
	out := make([]league.Membership, 0, len(rows))
	for _, row := range rows {
		item, err := membershipFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
