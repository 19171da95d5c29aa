package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

// BootstrapSeed loads the demo season into an empty database. It is a no-op once any season exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := memory.SeedDemo(now)

	return inTx(ctx, db, "bootstrap seed", func(tx *sqlx.Tx) error {
		for _, s := range seed.Seasons {
			sqlQuery, args, err := sqlx.Named(`
INSERT INTO seasons (public_id, number, is_active, phase, registration_opens_at, draft_opens_at, draft_deadline, premiere_at, finale_at)
VALUES (:public_id, :number, :is_active, :phase, :registration_opens_at, :draft_opens_at, :draft_deadline, :premiere_at, :finale_at)
ON CONFLICT DO NOTHING`, seasonInsertModel{
				PublicID:            s.ID,
				Number:              s.Number,
				IsActive:            s.IsActive,
				Phase:               string(s.Phase),
				RegistrationOpensAt: timeOrNil(s.RegistrationOpensAt),
				DraftOpensAt:        timeOrNil(s.DraftOpensAt),
				DraftDeadline:       s.DraftDeadline.UTC(),
				PremiereAt:          timeOrNil(s.PremiereAt),
				FinaleAt:            timeOrNil(s.FinaleAt),
			})
			if err != nil {
				return fmt.Errorf("bind seed season %s query: %w", s.ID, err)
			}
			sqlQuery = tx.Rebind(sqlQuery)
			if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
				return fmt.Errorf("seed season %s: %w", s.ID, err)
			}
		}

		episodes := make([]episodeInsertModel, 0, len(seed.Episodes))
		for _, e := range seed.Episodes {
			episodes = append(episodes, episodeInsertModel{
				PublicID:       e.ID,
				SeasonPublicID: e.SeasonID,
				Number:         e.Number,
				WeekNumber:     e.WeekNumber,
				AirDate:        e.AirDate.UTC(),
				PicksOpenAt:    e.PicksOpenAt.UTC(),
				PicksLockAt:    e.PicksLockAt.UTC(),
				WaiverOpensAt:  e.WaiverOpensAt.UTC(),
				WaiverClosesAt: e.WaiverClosesAt.UTC(),
				Phase:          string(e.Phase),
			})
		}
		if err := seedRows(ctx, tx, "episodes", episodes); err != nil {
			return err
		}

		castaways := make([]castawayInsertModel, 0, len(seed.Castaways))
		for _, c := range seed.Castaways {
			castaways = append(castaways, castawayInsertModel{
				PublicID:       c.ID,
				SeasonPublicID: c.SeasonID,
				Name:           c.Name,
				Status:         string(c.Status),
				Seed:           c.Seed,
			})
		}
		if err := seedRows(ctx, tx, "castaways", castaways); err != nil {
			return err
		}

		leagues := make([]leagueInsertModel, 0, len(seed.Leagues))
		for _, l := range seed.Leagues {
			leagues = append(leagues, leagueInsertModel{
				PublicID:       l.ID,
				SeasonPublicID: l.SeasonID,
				Name:           l.Name,
				LeagueType:     string(l.Type),
				CurrentPlayers: l.CurrentPlayers,
				MaxPlayers:     l.MaxPlayers,
				Status:         string(l.Status),
				DraftStatus:    string(l.DraftStatus),
			})
		}
		if err := seedRows(ctx, tx, "leagues", leagues); err != nil {
			return err
		}

		members := make([]leagueMemberInsertModel, 0, len(seed.Memberships))
		for _, m := range seed.Memberships {
			members = append(members, leagueMemberInsertModel{
				LeaguePublicID: m.LeagueID,
				UserID:         m.UserID,
				Role:           string(m.Role),
				CreatedAt:      m.CreatedAt.UTC(),
			})
		}
		if err := seedRows(ctx, tx, "league_members", members); err != nil {
			return err
		}

		rules := make([]scoringRuleInsertModel, 0, len(seed.Rules))
		for _, rule := range seed.Rules {
			rules = append(rules, scoringRuleInsertModel{
				PublicID:       rule.ID,
				SeasonPublicID: rule.SeasonID,
				Category:       rule.Category,
				Points:         rule.Points,
				IsActive:       rule.Active,
				CreatedAt:      valueOrNow(rule.CreatedAt, now),
				UpdatedAt:      valueOrNow(rule.CreatedAt, now),
			})
		}
		return seedRows(ctx, tx, "scoring_rules", rules)
	})
}

func seedRows[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := qb.InsertModels(table, rows, "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("build seed %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed %s: %w", table, err)
	}
	return nil
}
