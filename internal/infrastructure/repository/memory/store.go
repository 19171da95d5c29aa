package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
)

// Seed is the initial content of a Store.
type Seed struct {
	Seasons     []season.Season
	Episodes    []season.Episode
	Leagues     []league.League
	Memberships []league.Membership
	Castaways   []castaway.Castaway
	Roster      []roster.Entry
	Rules       []scoring.Rule
}

// Store keeps all game state behind one lock so multi-table writes are atomic the same
// way a database transaction would make them.
type Store struct {
	mu sync.RWMutex

	seasons       map[string]season.Season
	episodes      map[string]season.Episode
	leagues       map[string]league.League
	leagueOrder   []string
	members       map[string][]league.Membership
	castaways     map[string]castaway.Castaway
	roster        map[string][]roster.Entry
	picks         map[string]pick.WeeklyPick
	rules         map[string]scoring.Rule
	episodeScores map[string]scoring.EpisodeScore
	scores        map[string]scoring.Score
	rankings      map[string]waiver.Ranking
	cycles        map[string]waiver.Cycle
	results       map[string][]waiver.Result
	dispatch      map[string]jobscheduler.DispatchEvent
	dispatchOrder []string
}

func NewStore(seed Seed) *Store {
	s := &Store{
		seasons:       make(map[string]season.Season),
		episodes:      make(map[string]season.Episode),
		leagues:       make(map[string]league.League),
		members:       make(map[string][]league.Membership),
		castaways:     make(map[string]castaway.Castaway),
		roster:        make(map[string][]roster.Entry),
		picks:         make(map[string]pick.WeeklyPick),
		rules:         make(map[string]scoring.Rule),
		episodeScores: make(map[string]scoring.EpisodeScore),
		scores:        make(map[string]scoring.Score),
		rankings:      make(map[string]waiver.Ranking),
		cycles:        make(map[string]waiver.Cycle),
		results:       make(map[string][]waiver.Result),
		dispatch:      make(map[string]jobscheduler.DispatchEvent),
	}

	for _, item := range seed.Seasons {
		s.seasons[item.ID] = item
	}
	for _, item := range seed.Episodes {
		s.episodes[item.ID] = item
	}
	for _, item := range seed.Leagues {
		s.leagues[item.ID] = item
		s.leagueOrder = append(s.leagueOrder, item.ID)
	}
	for _, item := range seed.Memberships {
		s.members[item.LeagueID] = append(s.members[item.LeagueID], cloneMembership(item))
	}
	for _, item := range seed.Castaways {
		s.castaways[item.ID] = item
	}
	for _, item := range seed.Roster {
		s.roster[item.LeagueID] = append(s.roster[item.LeagueID], item)
	}
	for _, item := range seed.Rules {
		s.rules[item.ID] = item
	}

	return s
}

// Repositories bundles the per-aggregate views over one Store.
type Repositories struct {
	Season   *SeasonRepository
	League   *LeagueRepository
	Castaway *CastawayRepository
	Roster   *RosterRepository
	Draft    *DraftRepository
	Pick     *PickRepository
	Scoring  *ScoringRepository
	Waiver   *WaiverRepository
	Dispatch *JobDispatchRepository
}

func (s *Store) Repositories() Repositories {
	return Repositories{
		Season:   &SeasonRepository{store: s},
		League:   &LeagueRepository{store: s},
		Castaway: &CastawayRepository{store: s},
		Roster:   &RosterRepository{store: s},
		Draft:    &DraftRepository{store: s},
		Pick:     &PickRepository{store: s},
		Scoring:  &ScoringRepository{store: s},
		Waiver:   &WaiverRepository{store: s},
		Dispatch: &JobDispatchRepository{store: s},
	}
}

func key(parts ...string) string {
	return strings.Join(parts, "::")
}

func cloneMembership(m league.Membership) league.Membership {
	out := m
	if m.DraftPosition != nil {
		pos := *m.DraftPosition
		out.DraftPosition = &pos
	}
	return out
}

func cloneEntry(e roster.Entry) roster.Entry {
	out := e
	if e.DroppedAt != nil {
		at := *e.DroppedAt
		out.DroppedAt = &at
	}
	return out
}

func cloneEntries(items []roster.Entry) []roster.Entry {
	out := make([]roster.Entry, 0, len(items))
	for _, item := range items {
		out = append(out, cloneEntry(item))
	}
	return out
}

func sortMembers(items []league.Membership) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].UserID < items[j].UserID
	})
}
