package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
)

var errWriteFailed = errors.New("write failed")

// failOnce fails the first write that targets leagueID and lets every later one through.
type failOnce struct {
	mu       sync.Mutex
	leagueID string
	failed   bool
}

func (f *failOnce) check(leagueID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if leagueID != f.leagueID || f.failed {
		return nil
	}
	f.failed = true
	return errWriteFailed
}

type flakyDraftRepo struct {
	draft.Repository
	fail *failOnce
}

func (r flakyDraftRepo) Finalize(ctx context.Context, in draft.Finalization) error {
	if err := r.fail.check(in.LeagueID); err != nil {
		return err
	}
	return r.Repository.Finalize(ctx, in)
}

type flakyPickRepo struct {
	pick.Repository
	fail *failOnce
}

func (r flakyPickRepo) InsertLockedIfAbsent(ctx context.Context, p pick.WeeklyPick) (bool, error) {
	if err := r.fail.check(p.LeagueID); err != nil {
		return false, err
	}
	return r.Repository.InsertLockedIfAbsent(ctx, p)
}

type flakyWaiverRepo struct {
	waiver.Repository
	fail *failOnce
}

func (r flakyWaiverRepo) CommitCycle(ctx context.Context, cycle waiver.Cycle, drops, adds []roster.Entry, results []waiver.Result) error {
	if err := r.fail.check(cycle.LeagueID); err != nil {
		return err
	}
	return r.Repository.CommitCycle(ctx, cycle, drops, adds, results)
}

// interleavedDraftRepo runs another operation right before the first write reaches the
// store, the way a concurrent request would land between read and commit.
type interleavedDraftRepo struct {
	draft.Repository
	before func()
}

func (r *interleavedDraftRepo) CommitPick(ctx context.Context, in draft.PickCommit) error {
	r.runBefore()
	return r.Repository.CommitPick(ctx, in)
}

func (r *interleavedDraftRepo) Finalize(ctx context.Context, in draft.Finalization) error {
	r.runBefore()
	return r.Repository.Finalize(ctx, in)
}

func (r *interleavedDraftRepo) runBefore() {
	if fn := r.before; fn != nil {
		r.before = nil
		fn()
	}
}
