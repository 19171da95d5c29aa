package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
)

const (
	SeasonIDDemo         = "season-48"
	LeagueIDOfficialDemo = "league-official-48"
	LeagueIDCustomDemo   = "league-custom-48"
)

var demoCastawayNames = []string{
	"Kyle", "Joe", "Eva", "Kamilla", "Shauhin", "Mitch", "Kevin", "Mary",
	"Star", "Chrissy", "Cedrek", "Sai", "David", "Thomas", "Justin", "Charity",
	"Bianca", "Stephanie",
}

// SeedDemo builds a small season for local runs with STORAGE_DRIVER=memory.
// Dates are relative to now so the draft is open and the first pick window is live.
func SeedDemo(now time.Time) Seed {
	now = now.UTC().Truncate(time.Hour)
	s := season.Season{
		ID:                  SeasonIDDemo,
		Number:              48,
		IsActive:            true,
		Phase:               season.PhaseDraft,
		RegistrationOpensAt: now.Add(-14 * 24 * time.Hour),
		DraftOpensAt:        now.Add(-24 * time.Hour),
		DraftDeadline:       now.Add(24 * time.Hour),
		PremiereAt:          now.Add(2 * 24 * time.Hour),
		FinaleAt:            now.Add(90 * 24 * time.Hour),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	episodes := make([]season.Episode, 0, 13)
	for n := 1; n <= 13; n++ {
		air := s.PremiereAt.Add(time.Duration(n-1) * 7 * 24 * time.Hour)
		episodes = append(episodes, season.Episode{
			ID:             fmt.Sprintf("%s-ep-%02d", SeasonIDDemo, n),
			SeasonID:       SeasonIDDemo,
			Number:         n,
			WeekNumber:     n,
			AirDate:        air,
			PicksOpenAt:    air.Add(-6 * 24 * time.Hour),
			PicksLockAt:    air.Add(-time.Hour),
			WaiverOpensAt:  air.Add(24 * time.Hour),
			WaiverClosesAt: air.Add(3 * 24 * time.Hour),
			Phase:          season.PhaseMakePick,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	castaways := make([]castaway.Castaway, 0, len(demoCastawayNames))
	for i, name := range demoCastawayNames {
		castaways = append(castaways, castaway.Castaway{
			ID:       fmt.Sprintf("castaway-%02d", i+1),
			SeasonID: SeasonIDDemo,
			Name:     name,
			Status:   castaway.StatusActive,
			Seed:     i + 1,
		})
	}

	leagues := []league.League{
		{ID: LeagueIDOfficialDemo, SeasonID: SeasonIDDemo, Name: "Official League", Type: league.TypeOfficial, MaxPlayers: 12, Status: league.StatusOpen, DraftStatus: league.DraftPending, CreatedAt: now},
		{ID: LeagueIDCustomDemo, SeasonID: SeasonIDDemo, Name: "Tribal Council Club", Type: league.TypeCustom, MaxPlayers: 8, Status: league.StatusOpen, DraftStatus: league.DraftPending, CreatedAt: now},
	}
	memberships := make([]league.Membership, 0, 10)
	for i := 1; i <= 6; i++ {
		memberships = append(memberships, league.Membership{
			LeagueID:  LeagueIDOfficialDemo,
			UserID:    fmt.Sprintf("user-%02d", i),
			Role:      league.RoleMember,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
	for i := 4; i <= 7; i++ {
		role := league.RoleMember
		if i == 4 {
			role = league.RoleCommissioner
		}
		memberships = append(memberships, league.Membership{
			LeagueID:  LeagueIDCustomDemo,
			UserID:    fmt.Sprintf("user-%02d", i),
			Role:      role,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
	leagues[0].CurrentPlayers = 6
	leagues[1].CurrentPlayers = 4

	rules := []scoring.Rule{
		{ID: "rule-survive", SeasonID: SeasonIDDemo, Category: "survive_episode", Points: 2, Active: true, CreatedAt: now},
		{ID: "rule-team-immunity", SeasonID: SeasonIDDemo, Category: "team_immunity", Points: 1, Active: true, CreatedAt: now},
		{ID: "rule-individual-immunity", SeasonID: SeasonIDDemo, Category: "individual_immunity", Points: 5, Active: true, CreatedAt: now},
		{ID: "rule-reward", SeasonID: SeasonIDDemo, Category: "reward", Points: 2, Active: true, CreatedAt: now},
		{ID: "rule-idol-found", SeasonID: SeasonIDDemo, Category: "idol_found", Points: 4, Active: true, CreatedAt: now},
		{ID: "rule-idol-played", SeasonID: SeasonIDDemo, Category: "idol_played", Points: 6, Active: true, CreatedAt: now},
		{ID: "rule-vote-received", SeasonID: SeasonIDDemo, Category: "vote_received", Points: -1, Active: true, CreatedAt: now},
		{ID: "rule-confessional", SeasonID: SeasonIDDemo, Category: "confessional", Points: 1, Active: true, CreatedAt: now},
	}

	return Seed{
		Seasons:     []season.Season{s},
		Episodes:    episodes,
		Leagues:     leagues,
		Memberships: memberships,
		Castaways:   castaways,
		Rules:       rules,
	}
}
