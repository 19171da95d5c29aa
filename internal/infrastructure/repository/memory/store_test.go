package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
)

func TestPickRepository_LockPendingIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore(Seed{}).Repositories()
	at := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)

	if _, err := repos.Pick.UpsertPending(ctx, pick.WeeklyPick{ID: "p1", LeagueID: "l1", UserID: "u1", EpisodeID: "ep1", CastawayID: "c1"}); err != nil {
		t.Fatalf("upsert pending: %v", err)
	}

	changed, err := repos.Pick.LockPending(ctx, "ep1", at)
	if err != nil || changed != 1 {
		t.Fatalf("first lock: changed=%d err=%v", changed, err)
	}
	changed, err = repos.Pick.LockPending(ctx, "ep1", at.Add(time.Hour))
	if err != nil || changed != 0 {
		t.Fatalf("second lock: changed=%d err=%v", changed, err)
	}

	got, _, _ := repos.Pick.GetByMember(ctx, "l1", "u1", "ep1")
	if got.LockedAt == nil || !got.LockedAt.Equal(at) {
		t.Fatalf("lockedAt must keep the first lock time, got %v", got.LockedAt)
	}

	ok, err := repos.Pick.UpsertPending(ctx, pick.WeeklyPick{LeagueID: "l1", UserID: "u1", EpisodeID: "ep1", CastawayID: "c2"})
	if err != nil || ok {
		t.Fatalf("locked pick must not be replaced: ok=%v err=%v", ok, err)
	}
	inserted, err := repos.Pick.InsertLockedIfAbsent(ctx, pick.WeeklyPick{LeagueID: "l1", UserID: "u1", EpisodeID: "ep1", CastawayID: "c2"})
	if err != nil || inserted {
		t.Fatalf("auto pick must not overwrite: inserted=%v err=%v", inserted, err)
	}
}

func TestDraftRepository_RejectsSecondActiveHolder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(Seed{Leagues: []league.League{{ID: "l1", DraftStatus: league.DraftInProgress}}})
	repos := store.Repositories()

	first := roster.Entry{LeagueID: "l1", UserID: "u1", CastawayID: "c1", DraftPick: 1, AcquiredVia: roster.AcquiredViaDraft}
	if err := repos.Draft.CommitPick(ctx, draft.PickCommit{Entry: first, MaxActive: 2}); err != nil {
		t.Fatalf("first pick: %v", err)
	}
	err := repos.Draft.Finalize(ctx, draft.Finalization{
		LeagueID:  "l1",
		PicksMade: 1,
		MaxActive: 2,
		Entries: []roster.Entry{
			{LeagueID: "l1", UserID: "u2", CastawayID: "c2", AcquiredVia: roster.AcquiredViaAutoDraft},
			{LeagueID: "l1", UserID: "u2", CastawayID: "c1", AcquiredVia: roster.AcquiredViaAutoDraft},
		},
	})
	if !errors.Is(err, roster.ErrCastawayTaken) {
		t.Fatalf("expected castaway taken, got %v", err)
	}

	entries, _ := repos.Roster.ListByLeague(ctx, "l1")
	if len(entries) != 1 {
		t.Fatalf("failed finalize must not write partially, got %d entries", len(entries))
	}
	item, _, _ := repos.League.GetByID(ctx, "l1")
	if item.DraftStatus != league.DraftInProgress {
		t.Fatalf("failed finalize must not complete the draft")
	}
}

func TestDraftRepository_CommitPickRejectsStaleSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore(Seed{Leagues: []league.League{{ID: "l1", DraftStatus: league.DraftInProgress}}}).Repositories()

	// Both picks were computed against an empty board.
	a := roster.Entry{LeagueID: "l1", UserID: "u1", CastawayID: "c2", DraftRound: 1, DraftPick: 1, AcquiredVia: roster.AcquiredViaDraft}
	b := roster.Entry{LeagueID: "l1", UserID: "u1", CastawayID: "c1", DraftRound: 1, DraftPick: 1, AcquiredVia: roster.AcquiredViaDraft}

	if err := repos.Draft.CommitPick(ctx, draft.PickCommit{Entry: a, MaxActive: 2}); err != nil {
		t.Fatalf("first pick: %v", err)
	}
	if err := repos.Draft.CommitPick(ctx, draft.PickCommit{Entry: b, MaxActive: 2}); !errors.Is(err, draft.ErrStaleDraft) {
		t.Fatalf("expected stale draft, got %v", err)
	}

	entries, _ := repos.Roster.ListByLeague(ctx, "l1")
	if len(entries) != 1 || entries[0].CastawayID != "c2" {
		t.Fatalf("expected only the first pick, got %+v", entries)
	}
}

func TestDraftRepository_CommitPickRespectsDraftStatusAndRosterSize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore(Seed{
		Leagues: []league.League{
			{ID: "pending", DraftStatus: league.DraftPending},
			{ID: "done", DraftStatus: league.DraftCompleted},
			{ID: "live", DraftStatus: league.DraftInProgress},
		},
		Roster: []roster.Entry{
			{LeagueID: "live", UserID: "u1", CastawayID: "c1", DraftPick: 1, AcquiredVia: roster.AcquiredViaDraft},
			{LeagueID: "live", UserID: "u1", CastawayID: "c2", DraftPick: 2, AcquiredVia: roster.AcquiredViaDraft},
		},
	}).Repositories()

	entry := roster.Entry{UserID: "u1", CastawayID: "c3", DraftPick: 1, AcquiredVia: roster.AcquiredViaDraft}

	entry.LeagueID = "pending"
	if err := repos.Draft.CommitPick(ctx, draft.PickCommit{Entry: entry, MaxActive: 2}); !errors.Is(err, draft.ErrNotStarted) {
		t.Fatalf("expected not started, got %v", err)
	}
	entry.LeagueID = "done"
	if err := repos.Draft.CommitPick(ctx, draft.PickCommit{Entry: entry, MaxActive: 2}); !errors.Is(err, draft.ErrDraftComplete) {
		t.Fatalf("expected draft complete, got %v", err)
	}
	entry.LeagueID = "live"
	entry.DraftPick = 3
	if err := repos.Draft.CommitPick(ctx, draft.PickCommit{Entry: entry, MaxActive: 2}); !errors.Is(err, roster.ErrRosterFull) {
		t.Fatalf("expected roster full, got %v", err)
	}
}

func TestDraftRepository_FinalizePersistsMissingPositions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := NewStore(Seed{
		Leagues:     []league.League{{ID: "l1", DraftStatus: league.DraftPending}},
		Memberships: []league.Membership{{LeagueID: "l1", UserID: "u1"}, {LeagueID: "l1", UserID: "u2"}},
	}).Repositories()

	err := repos.Draft.Finalize(ctx, draft.Finalization{
		LeagueID:  "l1",
		Positions: map[string]int{"u1": 0, "u2": 1},
		MaxActive: 2,
		Entries: []roster.Entry{
			{LeagueID: "l1", UserID: "u1", CastawayID: "c1", DraftPick: 1, AcquiredVia: roster.AcquiredViaAutoDraft},
		},
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	members, _ := repos.League.ListMembers(ctx, "l1")
	for _, m := range members {
		if m.DraftPosition == nil {
			t.Fatalf("member %s has no draft position after finalize", m.UserID)
		}
	}
	if err := repos.Draft.Finalize(ctx, draft.Finalization{LeagueID: "l1", PicksMade: 1}); !errors.Is(err, draft.ErrDraftComplete) {
		t.Fatalf("second finalize: expected draft complete, got %v", err)
	}
}

func TestWaiverRepository_CommitCycleOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	at := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	repos := NewStore(Seed{Roster: []roster.Entry{{LeagueID: "l1", UserID: "u1", CastawayID: "out"}}}).Repositories()

	dropped := at
	cycle := waiver.Cycle{LeagueID: "l1", EpisodeID: "ep2", Claims: 1, ProcessedAt: at}
	drops := []roster.Entry{{LeagueID: "l1", UserID: "u1", CastawayID: "out", DroppedAt: &dropped}}
	adds := []roster.Entry{{LeagueID: "l1", UserID: "u1", CastawayID: "in", AcquiredVia: roster.AcquiredViaWaiver}}

	if err := repos.Waiver.CommitCycle(ctx, cycle, drops, adds, nil); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := repos.Waiver.CommitCycle(ctx, cycle, drops, adds, nil); !errors.Is(err, waiver.ErrCycleCommitted) {
		t.Fatalf("expected committed error, got %v", err)
	}

	active, _ := repos.Roster.ListActiveByUser(ctx, "l1", "u1")
	if len(active) != 1 || active[0].CastawayID != "in" {
		t.Fatalf("unexpected active roster %+v", active)
	}
}
