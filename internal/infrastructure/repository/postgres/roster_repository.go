package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	qb "github.com/riskibarqy/survivor-fantasy/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Entry, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("acquired_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster query: %w", err)
	}

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster league=%s: %w", leagueID, err)
	}
	return rosterEntriesFromRows(rows)
}

func (r *RosterRepository) ListActiveByUser(ctx context.Context, leagueID, userID string) ([]roster.Entry, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("dropped_at"),
		).
		OrderBy("draft_pick", "acquired_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active roster query: %w", err)
	}

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active roster league=%s user=%s: %w", leagueID, userID, err)
	}
	return rosterEntriesFromRows(rows)
}

// DraftRepository writes draft entries together with the league's draft status.
type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) CommitPick(ctx context.Context, in draft.PickCommit) error {
	leagueID := in.Entry.LeagueID
	return inTx(ctx, r.db, "commit draft pick", func(tx *sqlx.Tx) error {
		status, err := lockLeagueDraft(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		switch status {
		case league.DraftPending:
			return fmt.Errorf("%w: league=%s", draft.ErrNotStarted, leagueID)
		case league.DraftCompleted:
			return fmt.Errorf("%w: league=%s", draft.ErrDraftComplete, leagueID)
		}

		current, err := listRosterTx(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		if made := current.TotalDraftPicks(); made != in.Entry.DraftPick-1 {
			return fmt.Errorf("%w: league=%s picks=%d pick=%d", draft.ErrStaleDraft, leagueID, made, in.Entry.DraftPick)
		}
		if in.MaxActive > 0 && len(current.ActiveByUser(in.Entry.UserID)) >= in.MaxActive {
			return fmt.Errorf("%w: user=%s max=%d", roster.ErrRosterFull, in.Entry.UserID, in.MaxActive)
		}

		if err := insertRosterEntries(ctx, tx, []roster.Entry{in.Entry}); err != nil {
			return err
		}
		if !in.Complete {
			return nil
		}
		return completeDraft(ctx, tx, leagueID)
	})
}

func (r *DraftRepository) Finalize(ctx context.Context, in draft.Finalization) error {
	return inTx(ctx, r.db, "finalize draft", func(tx *sqlx.Tx) error {
		status, err := lockLeagueDraft(ctx, tx, in.LeagueID)
		if err != nil {
			return err
		}
		if status == league.DraftCompleted {
			return fmt.Errorf("%w: league=%s", draft.ErrDraftComplete, in.LeagueID)
		}

		current, err := listRosterTx(ctx, tx, in.LeagueID)
		if err != nil {
			return err
		}
		if made := current.TotalDraftPicks(); made != in.PicksMade {
			return fmt.Errorf("%w: league=%s picks=%d expected=%d", draft.ErrStaleDraft, in.LeagueID, made, in.PicksMade)
		}
		if err := roster.NewLeague(append(current.Entries(), in.Entries...)).Validate(in.MaxActive); err != nil {
			return err
		}

		if len(in.Entries) > 0 {
			if err := insertRosterEntries(ctx, tx, in.Entries); err != nil {
				return err
			}
		}
		for userID, position := range in.Positions {
			query, args, err := qb.Update("league_members").
				Set("draft_position", position).
				SetExpr("updated_at", "NOW()").
				Where(
					qb.Eq("league_public_id", in.LeagueID),
					qb.Eq("user_id", userID),
					qb.IsNull("draft_position"),
					qb.IsNull("deleted_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build set draft position query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("set draft position league=%s user=%s: %w", in.LeagueID, userID, err)
			}
		}
		return completeDraft(ctx, tx, in.LeagueID)
	})
}

// lockLeagueDraft serializes every draft writer of one league on its row.
func lockLeagueDraft(ctx context.Context, tx *sqlx.Tx, leagueID string) (league.DraftStatus, error) {
	query, args, err := qb.Select("draft_status").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ForUpdate().
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("build lock league query: %w", err)
	}
	var raw string
	if err := tx.GetContext(ctx, &raw, query, args...); err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("league %s not found", leagueID)
		}
		return "", fmt.Errorf("lock league=%s: %w", leagueID, err)
	}
	return league.ParseDraftStatus(raw)
}

func listRosterTx(ctx context.Context, tx *sqlx.Tx, leagueID string) (roster.League, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("acquired_at", "id").
		ToSQL()
	if err != nil {
		return roster.League{}, fmt.Errorf("build list roster query: %w", err)
	}
	var rows []rosterEntryTableModel
	if err := tx.SelectContext(ctx, &rows, query, args...); err != nil {
		return roster.League{}, fmt.Errorf("list roster league=%s: %w", leagueID, err)
	}
	entries, err := rosterEntriesFromRows(rows)
	if err != nil {
		return roster.League{}, err
	}
	return roster.NewLeague(entries), nil
}

func insertRosterEntries(ctx context.Context, tx *sqlx.Tx, entries []roster.Entry) error {
	models := make([]rosterEntryInsertModel, 0, len(entries))
	for _, e := range entries {
		acquiredAt := e.AcquiredAt.UTC()
		if acquiredAt.IsZero() {
			acquiredAt = time.Now().UTC()
		}
		models = append(models, rosterEntryInsertModel{
			PublicID:         e.ID,
			LeaguePublicID:   e.LeagueID,
			UserID:           e.UserID,
			CastawayPublicID: e.CastawayID,
			DraftRound:       e.DraftRound,
			DraftPick:        e.DraftPick,
			AcquiredVia:      string(e.AcquiredVia),
			AcquiredAt:       acquiredAt,
		})
	}

	query, args, err := qb.InsertModels("roster_entries", models, "")
	if err != nil {
		return fmt.Errorf("build insert roster entries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, activeCastawayIndex) {
			return fmt.Errorf("%w: %v", roster.ErrCastawayTaken, err)
		}
		if isUniqueViolation(err, draftPickIndex) {
			return fmt.Errorf("%w: %v", draft.ErrStaleDraft, err)
		}
		return fmt.Errorf("insert roster entries: %w", err)
	}
	return nil
}

func completeDraft(ctx context.Context, tx *sqlx.Tx, leagueID string) error {
	query, args, err := qb.Update("leagues").
		Set("draft_status", string(league.DraftCompleted)).
		Set("status", string(league.StatusActive)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build complete draft query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("complete draft league=%s: %w", leagueID, err)
	}
	return nil
}

func rosterEntriesFromRows(rows []rosterEntryTableModel) ([]roster.Entry, error) {
	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		via, err := roster.ParseAcquiredVia(row.AcquiredVia)
		if err != nil {
			return nil, fmt.Errorf("roster entry %s: %w", row.PublicID, err)
		}
		out = append(out, roster.Entry{
			ID:          row.PublicID,
			LeagueID:    row.LeaguePublicID,
			UserID:      row.UserID,
			CastawayID:  row.CastawayPublicID,
			DraftRound:  row.DraftRound,
			DraftPick:   row.DraftPick,
			AcquiredVia: via,
			AcquiredAt:  row.AcquiredAt.UTC(),
			DroppedAt:   utcPtr(row.DroppedAt),
		})
	}
	return out, nil
}
