package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/cache"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/id"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/random"
)

var fixtureBase = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu    sync.Mutex
	items []signal.Signal
}

func (p *recordingPublisher) Publish(_ context.Context, s signal.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, s)
	return nil
}

func (p *recordingPublisher) byKind(kind signal.Kind) []signal.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]signal.Signal, 0)
	for _, s := range p.items {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// testSeed builds season s1 with two weekly episodes, league l1 with members u1..uN in
// draft-position order, and castaways c01..cNN.
func testSeed(members, castaways int) memory.Seed {
	seed := memory.Seed{
		Seasons: []season.Season{{
			ID:            "s1",
			Number:        48,
			IsActive:      true,
			Phase:         season.PhaseDraft,
			DraftOpensAt:  fixtureBase.Add(-72 * time.Hour),
			DraftDeadline: fixtureBase,
			PremiereAt:    fixtureBase.Add(96 * time.Hour),
		}},
		Leagues: []league.League{{
			ID:             "l1",
			SeasonID:       "s1",
			Name:           "Tribe",
			Type:           league.TypeCustom,
			CurrentPlayers: members,
			MaxPlayers:     12,
			Status:         league.StatusOpen,
			DraftStatus:    league.DraftInProgress,
		}},
		Rules: []scoring.Rule{
			{ID: "r-immunity", SeasonID: "s1", Category: "individual_immunity", Points: 5, Active: true},
			{ID: "r-idol", SeasonID: "s1", Category: "idol_found", Points: 8, Active: true},
			{ID: "r-vote", SeasonID: "s1", Category: "vote_received", Points: -1, Active: true},
		},
	}

	for n := 1; n <= 2; n++ {
		week := time.Duration(n-1) * 7 * 24 * time.Hour
		seed.Episodes = append(seed.Episodes, season.Episode{
			ID:             fmt.Sprintf("ep%d", n),
			SeasonID:       "s1",
			Number:         n,
			WeekNumber:     n,
			AirDate:        fixtureBase.Add(week + 96*time.Hour),
			PicksOpenAt:    fixtureBase.Add(week + time.Hour),
			PicksLockAt:    fixtureBase.Add(week + 72*time.Hour),
			WaiverOpensAt:  fixtureBase.Add(week + 120*time.Hour),
			WaiverClosesAt: fixtureBase.Add(week + 144*time.Hour),
			Phase:          season.PhaseMakePick,
		})
	}
	for i := 1; i <= members; i++ {
		pos := i - 1
		seed.Memberships = append(seed.Memberships, league.Membership{
			LeagueID:      "l1",
			UserID:        fmt.Sprintf("u%d", i),
			Role:          league.RoleMember,
			DraftPosition: &pos,
			CreatedAt:     fixtureBase.Add(-time.Duration(100-i) * time.Hour),
		})
	}
	for i := 1; i <= castaways; i++ {
		seed.Castaways = append(seed.Castaways, castaway.Castaway{
			ID:       fmt.Sprintf("c%02d", i),
			SeasonID: "s1",
			Name:     fmt.Sprintf("Castaway %d", i),
			Status:   castaway.StatusActive,
			Seed:     i,
		})
	}
	return seed
}

func eliminate(seed *memory.Seed, castawayID string, episodeNumber int) {
	for i := range seed.Castaways {
		if seed.Castaways[i].ID == castawayID {
			n := episodeNumber
			seed.Castaways[i].Status = castaway.StatusEliminated
			seed.Castaways[i].EliminatedEpisodeNumber = &n
		}
	}
}

func hold(seed *memory.Seed, userID, castawayID string, draftPick int) {
	seed.Roster = append(seed.Roster, roster.Entry{
		ID:          fmt.Sprintf("seed-%s-%s", userID, castawayID),
		LeagueID:    "l1",
		UserID:      userID,
		CastawayID:  castawayID,
		DraftRound:  1,
		DraftPick:   draftPick,
		AcquiredVia: roster.AcquiredViaDraft,
		AcquiredAt:  fixtureBase,
	})
}

// addLeague adds a second league to season s1 whose members hold the given castaways,
// one per member, as round-1 draft picks.
func addLeague(seed *memory.Seed, leagueID string, holdings map[string]string) {
	seed.Leagues = append(seed.Leagues, league.League{
		ID:             leagueID,
		SeasonID:       "s1",
		Name:           "Second " + leagueID,
		Type:           league.TypeCustom,
		CurrentPlayers: len(holdings),
		MaxPlayers:     12,
		Status:         league.StatusOpen,
		DraftStatus:    league.DraftInProgress,
	})
	users := make([]string, 0, len(holdings))
	for userID := range holdings {
		users = append(users, userID)
	}
	sort.Strings(users)
	for i, userID := range users {
		pos := i
		seed.Memberships = append(seed.Memberships, league.Membership{
			LeagueID:      leagueID,
			UserID:        userID,
			Role:          league.RoleMember,
			DraftPosition: &pos,
			CreatedAt:     fixtureBase.Add(-time.Duration(50-i) * time.Hour),
		})
		if castawayID := holdings[userID]; castawayID != "" {
			seed.Roster = append(seed.Roster, roster.Entry{
				ID:          fmt.Sprintf("seed-%s-%s-%s", leagueID, userID, castawayID),
				LeagueID:    leagueID,
				UserID:      userID,
				CastawayID:  castawayID,
				DraftRound:  1,
				DraftPick:   i + 1,
				AcquiredVia: roster.AcquiredViaDraft,
				AcquiredAt:  fixtureBase,
			})
		}
	}
}

func setEpisode(seed *memory.Seed, episodeID string, mutate func(*season.Episode)) {
	for i := range seed.Episodes {
		if seed.Episodes[i].ID == episodeID {
			mutate(&seed.Episodes[i])
		}
	}
}

type gameFixture struct {
	repos     memory.Repositories
	publisher *recordingPublisher
	cfg       GameConfig
	now       time.Time
	rankings  *RankingService
}

func newGameFixture(t *testing.T, seed memory.Seed) *gameFixture {
	t.Helper()

	f := &gameFixture{
		repos:     memory.NewStore(seed).Repositories(),
		publisher: &recordingPublisher{},
		cfg:       DefaultGameConfig(),
		now:       fixtureBase,
	}
	f.rankings = NewRankingService(season.NewProvider(f.repos.Season), f.repos.Season, f.repos.League, f.repos.Scoring, cache.NewStore(time.Minute), nil)
	return f
}

func (f *gameFixture) clock() time.Time {
	return f.now
}

func (f *gameFixture) draftService() *DraftService {
	return f.draftServiceWith(f.repos.Draft)
}

func (f *gameFixture) draftServiceWith(repo draft.Repository) *DraftService {
	svc := NewDraftService(f.repos.Season, f.repos.League, f.repos.Castaway, f.repos.Roster, repo, f.publisher, id.NewSequence("roster"), random.Fixed(42), f.cfg, nil)
	svc.now = f.clock
	return svc
}

func (f *gameFixture) pickService() *PickService {
	return f.pickServiceWith(f.repos.Pick)
}

func (f *gameFixture) pickServiceWith(repo pick.Repository) *PickService {
	svc := NewPickService(f.repos.Season, f.repos.League, f.repos.Castaway, f.repos.Roster, repo, f.publisher, id.NewSequence("pick"), f.cfg, nil)
	svc.now = f.clock
	return svc
}

func (f *gameFixture) scoringService() *ScoringService {
	svc := NewScoringService(f.repos.Season, f.repos.League, f.repos.Castaway, f.repos.Pick, f.repos.Scoring, f.publisher, f.rankings, id.NewSequence("rule"), f.cfg, nil)
	svc.now = f.clock
	return svc
}

func (f *gameFixture) waiverService() *WaiverService {
	return f.waiverServiceWith(f.repos.Waiver)
}

func (f *gameFixture) waiverServiceWith(repo waiver.Repository) *WaiverService {
	svc := NewWaiverService(f.repos.Season, f.repos.League, f.repos.Castaway, f.repos.Roster, f.repos.Scoring, repo, f.publisher, id.NewSequence("waiver"), f.cfg, nil)
	svc.now = f.clock
	return svc
}

func (f *gameFixture) lockedPick(t *testing.T, userID, episodeID, castawayID string) {
	t.Helper()
	_, err := f.repos.Pick.InsertLockedIfAbsent(context.Background(), pick.WeeklyPick{
		ID:          fmt.Sprintf("p-%s-%s", userID, episodeID),
		LeagueID:    "l1",
		UserID:      userID,
		EpisodeID:   episodeID,
		CastawayID:  castawayID,
		Status:      pick.StatusLocked,
		SubmittedAt: fixtureBase,
		LockedAt:    timePtr(fixtureBase),
	})
	if err != nil {
		t.Fatalf("seed locked pick: %v", err)
	}
}
