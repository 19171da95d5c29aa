package httpapi

import (
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/ranking"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
)

type makeDraftPickRequest struct {
	CastawayID string `json:"castaway_id" validate:"required"`
}

type submitPickRequest struct {
	EpisodeID  string `json:"episode_id" validate:"required"`
	CastawayID string `json:"castaway_id" validate:"required"`
}

type submitWaiverRankingRequest struct {
	EpisodeID   string   `json:"episode_id" validate:"required"`
	CastawayIDs []string `json:"castaway_ids" validate:"required,min=1,max=50,unique,dive,required"`
}

type scoreEntryRequest struct {
	CastawayID string `json:"castaway_id" validate:"required"`
	RuleID     string `json:"rule_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=0,lte=1000"`
}

type saveScoresRequest struct {
	Entries []scoreEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type eliminateCastawayRequest struct {
	EpisodeNumber int `json:"episode_number" validate:"required,gte=1"`
}

type upsertRuleRequest struct {
	ID       string `json:"id"`
	SeasonID string `json:"season_id" validate:"required"`
	Category string `json:"category" validate:"required,max=64"`
	Points   int    `json:"points" validate:"gte=-100,lte=100"`
	Active   *bool  `json:"active"`
}

type signalEpisodeRequest struct {
	Event string `json:"event" validate:"required,oneof=open_draft close_draft lock_picks start_airing finalize_scoring release_results close_waivers"`
}

type leagueDTO struct {
	ID             string `json:"id"`
	SeasonID       string `json:"season_id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	CurrentPlayers int    `json:"current_players"`
	MaxPlayers     int    `json:"max_players"`
	Status         string `json:"status"`
	DraftStatus    string `json:"draft_status"`
}

type membershipDTO struct {
	LeagueID      string `json:"league_id"`
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
	DraftPosition *int   `json:"draft_position,omitempty"`
	TotalPoints   int    `json:"total_points"`
	Rank          int    `json:"rank"`
}

type castawayDTO struct {
	ID                      string `json:"id"`
	SeasonID                string `json:"season_id"`
	Name                    string `json:"name"`
	Status                  string `json:"status"`
	EliminatedEpisodeNumber *int   `json:"eliminated_episode_number,omitempty"`
}

type rosterEntryDTO struct {
	ID          string `json:"id"`
	LeagueID    string `json:"league_id"`
	UserID      string `json:"user_id"`
	CastawayID  string `json:"castaway_id"`
	DraftRound  int    `json:"draft_round,omitempty"`
	DraftPick   int    `json:"draft_pick,omitempty"`
	AcquiredVia string `json:"acquired_via"`
	AcquiredAt  string `json:"acquired_at"`
	DroppedAt   string `json:"dropped_at,omitempty"`
}

type draftSlotDTO struct {
	PickNumber int    `json:"pick_number"`
	Round      int    `json:"round"`
	UserID     string `json:"user_id"`
}

type draftBoardDTO struct {
	LeagueID    string           `json:"league_id"`
	Status      string           `json:"status"`
	Rounds      int              `json:"rounds"`
	Order       []draftSlotDTO   `json:"order"`
	Picks       []rosterEntryDTO `json:"picks"`
	OnTheClock  *draftSlotDTO    `json:"on_the_clock,omitempty"`
	PicksMade   int              `json:"picks_made"`
	PicksNeeded int              `json:"picks_needed"`
}

type weeklyPickDTO struct {
	ID             string `json:"id"`
	LeagueID       string `json:"league_id"`
	UserID         string `json:"user_id"`
	EpisodeID      string `json:"episode_id"`
	CastawayID     string `json:"castaway_id"`
	Status         string `json:"status"`
	IsAutoSelected bool   `json:"is_auto_selected"`
	SubmittedAt    string `json:"submitted_at"`
	LockedAt       string `json:"locked_at,omitempty"`
}

type episodeDTO struct {
	ID                 string `json:"id"`
	SeasonID           string `json:"season_id"`
	Number             int    `json:"number"`
	WeekNumber         int    `json:"week_number"`
	Phase              string `json:"phase"`
	AirDate            string `json:"air_date"`
	PicksOpenAt        string `json:"picks_open_at"`
	PicksLockAt        string `json:"picks_lock_at"`
	WaiverOpensAt      string `json:"waiver_opens_at"`
	WaiverClosesAt     string `json:"waiver_closes_at"`
	IsScored           bool   `json:"is_scored"`
	PicksLockedAt      string `json:"picks_locked_at,omitempty"`
	ScoringFinalizedAt string `json:"scoring_finalized_at,omitempty"`
	ResultsReleasedAt  string `json:"results_released_at,omitempty"`
	WaiversProcessedAt string `json:"waivers_processed_at,omitempty"`
}

type seasonDTO struct {
	ID               string `json:"id"`
	Number           int    `json:"number"`
	IsActive         bool   `json:"is_active"`
	Phase            string `json:"phase"`
	DraftOpensAt     string `json:"draft_opens_at"`
	DraftDeadline    string `json:"draft_deadline"`
	DraftFinalizedAt string `json:"draft_finalized_at,omitempty"`
}

type ruleDTO struct {
	ID       string `json:"id"`
	SeasonID string `json:"season_id"`
	Category string `json:"category"`
	Points   int    `json:"points"`
	Active   bool   `json:"active"`
}

type waiverRankingDTO struct {
	LeagueID    string   `json:"league_id"`
	UserID      string   `json:"user_id"`
	EpisodeID   string   `json:"episode_id"`
	CastawayIDs []string `json:"castaway_ids"`
	SubmittedAt string   `json:"submitted_at"`
}

type waiverResultDTO struct {
	UserID             string  `json:"user_id"`
	EpisodeID          string  `json:"episode_id"`
	DroppedCastawayID  string  `json:"dropped_castaway_id"`
	AcquiredCastawayID *string `json:"acquired_castaway_id"`
	WaiverPosition     int     `json:"waiver_position"`
	ProcessedAt        string  `json:"processed_at"`
}

type globalRankDTO struct {
	UserID        string  `json:"user_id"`
	LeagueCount   int     `json:"league_count"`
	RawAverage    float64 `json:"raw_average"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
	Rank          int     `json:"rank"`
	Confidence    string  `json:"confidence"`
}

type globalRankingsDTO struct {
	SeasonID   string          `json:"season_id"`
	GlobalMean float64         `json:"global_mean"`
	Items      []globalRankDTO `json:"items"`
	ComputedAt string          `json:"computed_at"`
}

type dispatchEventDTO struct {
	DispatchID   string `json:"dispatch_id"`
	JobName      string `json:"job_name"`
	JobPath      string `json:"job_path"`
	SeasonID     string `json:"season_id,omitempty"`
	LeagueID     string `json:"league_id,omitempty"`
	EpisodeID    string `json:"episode_id,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	OccurredAt   string `json:"occurred_at"`
	TraceID      string `json:"trace_id,omitempty"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:             v.ID,
		SeasonID:       v.SeasonID,
		Name:           v.Name,
		Type:           string(v.Type),
		CurrentPlayers: v.CurrentPlayers,
		MaxPlayers:     v.MaxPlayers,
		Status:         string(v.Status),
		DraftStatus:    string(v.DraftStatus),
	}
}

func membershipToDTO(v league.Membership) membershipDTO {
	return membershipDTO{
		LeagueID:      v.LeagueID,
		UserID:        v.UserID,
		Role:          string(v.Role),
		DraftPosition: v.DraftPosition,
		TotalPoints:   v.TotalPoints,
		Rank:          v.Rank,
	}
}

func membershipsToDTO(items []league.Membership) []membershipDTO {
	out := make([]membershipDTO, 0, len(items))
	for _, item := range items {
		out = append(out, membershipToDTO(item))
	}
	return out
}

func castawayToDTO(v castaway.Castaway) castawayDTO {
	return castawayDTO{
		ID:                      v.ID,
		SeasonID:                v.SeasonID,
		Name:                    v.Name,
		Status:                  string(v.Status),
		EliminatedEpisodeNumber: v.EliminatedEpisodeNumber,
	}
}

func rosterEntryToDTO(v roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		ID:          v.ID,
		LeagueID:    v.LeagueID,
		UserID:      v.UserID,
		CastawayID:  v.CastawayID,
		DraftRound:  v.DraftRound,
		DraftPick:   v.DraftPick,
		AcquiredVia: string(v.AcquiredVia),
		AcquiredAt:  formatTime(v.AcquiredAt),
		DroppedAt:   formatOptionalTime(v.DroppedAt),
	}
}

func rosterEntriesToDTO(items []roster.Entry) []rosterEntryDTO {
	out := make([]rosterEntryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, rosterEntryToDTO(item))
	}
	return out
}

func draftSlotToDTO(v draft.Slot) draftSlotDTO {
	return draftSlotDTO{PickNumber: v.PickNumber, Round: v.Round, UserID: v.UserID}
}

func draftBoardToDTO(v draft.Board) draftBoardDTO {
	order := make([]draftSlotDTO, 0, len(v.Order))
	for _, slot := range v.Order {
		order = append(order, draftSlotToDTO(slot))
	}
	out := draftBoardDTO{
		LeagueID:    v.LeagueID,
		Status:      string(v.Status),
		Rounds:      v.Rounds,
		Order:       order,
		Picks:       rosterEntriesToDTO(v.Picks),
		PicksMade:   v.PicksMade,
		PicksNeeded: v.PicksNeeded,
	}
	if v.OnTheClock != nil {
		slot := draftSlotToDTO(*v.OnTheClock)
		out.OnTheClock = &slot
	}
	return out
}

func weeklyPickToDTO(v pick.WeeklyPick) weeklyPickDTO {
	return weeklyPickDTO{
		ID:             v.ID,
		LeagueID:       v.LeagueID,
		UserID:         v.UserID,
		EpisodeID:      v.EpisodeID,
		CastawayID:     v.CastawayID,
		Status:         string(v.Status),
		IsAutoSelected: v.IsAutoSelected,
		SubmittedAt:    formatTime(v.SubmittedAt),
		LockedAt:       formatOptionalTime(v.LockedAt),
	}
}

func episodeToDTO(v season.Episode) episodeDTO {
	return episodeDTO{
		ID:                 v.ID,
		SeasonID:           v.SeasonID,
		Number:             v.Number,
		WeekNumber:         v.WeekNumber,
		Phase:              string(v.Phase),
		AirDate:            formatTime(v.AirDate),
		PicksOpenAt:        formatTime(v.PicksOpenAt),
		PicksLockAt:        formatTime(v.PicksLockAt),
		WaiverOpensAt:      formatTime(v.WaiverOpensAt),
		WaiverClosesAt:     formatTime(v.WaiverClosesAt),
		IsScored:           v.IsScored,
		PicksLockedAt:      formatOptionalTime(v.PicksLockedAt),
		ScoringFinalizedAt: formatOptionalTime(v.ScoringFinalizedAt),
		ResultsReleasedAt:  formatOptionalTime(v.ResultsReleasedAt),
		WaiversProcessedAt: formatOptionalTime(v.WaiversProcessedAt),
	}
}

func seasonToDTO(v season.Season) seasonDTO {
	return seasonDTO{
		ID:               v.ID,
		Number:           v.Number,
		IsActive:         v.IsActive,
		Phase:            string(v.Phase),
		DraftOpensAt:     formatTime(v.DraftOpensAt),
		DraftDeadline:    formatTime(v.DraftDeadline),
		DraftFinalizedAt: formatOptionalTime(v.DraftFinalizedAt),
	}
}

func ruleToDTO(v scoring.Rule) ruleDTO {
	return ruleDTO{
		ID:       v.ID,
		SeasonID: v.SeasonID,
		Category: v.Category,
		Points:   v.Points,
		Active:   v.Active,
	}
}

func waiverRankingToDTO(v waiver.Ranking) waiverRankingDTO {
	return waiverRankingDTO{
		LeagueID:    v.LeagueID,
		UserID:      v.UserID,
		EpisodeID:   v.EpisodeID,
		CastawayIDs: append([]string(nil), v.CastawayIDs...),
		SubmittedAt: formatTime(v.SubmittedAt),
	}
}

func waiverResultToDTO(v waiver.Result) waiverResultDTO {
	return waiverResultDTO{
		UserID:             v.UserID,
		EpisodeID:          v.EpisodeID,
		DroppedCastawayID:  v.DroppedCastawayID,
		AcquiredCastawayID: v.AcquiredCastawayID,
		WaiverPosition:     v.WaiverPosition,
		ProcessedAt:        formatTime(v.ProcessedAt),
	}
}

func globalRankToDTO(v ranking.GlobalRank) globalRankDTO {
	return globalRankDTO{
		UserID:        v.UserID,
		LeagueCount:   v.LeagueCount,
		RawAverage:    v.RawAverage,
		Weight:        v.Weight,
		WeightedScore: v.WeightedScore,
		Rank:          v.Rank,
		Confidence:    string(v.Confidence),
	}
}

func dispatchEventToDTO(v jobscheduler.DispatchEvent) dispatchEventDTO {
	return dispatchEventDTO{
		DispatchID:   v.DispatchID,
		JobName:      v.JobName,
		JobPath:      v.JobPath,
		SeasonID:     v.SeasonID,
		LeagueID:     v.LeagueID,
		EpisodeID:    v.EpisodeID,
		Status:       string(v.Status),
		ErrorMessage: v.ErrorMessage,
		OccurredAt:   formatTime(v.OccurredAt),
		TraceID:      v.TraceID,
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func formatOptionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return formatTime(*v)
}
