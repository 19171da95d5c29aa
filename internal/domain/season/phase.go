package season

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid phase transition")

// Phase is the game-state position of a season (pre_season, draft) or of an episode (make_pick onward).
type Phase string

const (
	PhasePreSeason       Phase = "pre_season"
	PhaseDraft           Phase = "draft"
	PhaseMakePick        Phase = "make_pick"
	PhasePicksLocked     Phase = "picks_locked"
	PhaseAwaitingResults Phase = "awaiting_results"
	PhaseResultsPosted   Phase = "results_posted"
	PhaseWaiverOpen      Phase = "waiver_open"
	PhaseClosed          Phase = "closed"
)

var phaseOrder = map[Phase]int{
	PhasePreSeason:       0,
	PhaseDraft:           1,
	PhaseMakePick:        2,
	PhasePicksLocked:     3,
	PhaseAwaitingResults: 4,
	PhaseResultsPosted:   5,
	PhaseWaiverOpen:      6,
	PhaseClosed:          7,
}

func (p Phase) Valid() bool {
	_, ok := phaseOrder[p]
	return ok
}

func ParsePhase(raw string) (Phase, error) {
	p := Phase(raw)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase %q", raw)
	}
	return p, nil
}

// Event is a signal that moves a season or an episode forward.
type Event string

const (
	EventOpenDraft       Event = "open_draft"
	EventCloseDraft      Event = "close_draft"
	EventLockPicks       Event = "lock_picks"
	EventStartAiring     Event = "start_airing"
	EventFinalizeScoring Event = "finalize_scoring"
	EventReleaseResults  Event = "release_results"
	EventCloseWaivers    Event = "close_waivers"
)

func ParseEvent(raw string) (Event, error) {
	e := Event(raw)
	for from := range transitions {
		if _, ok := transitions[from][e]; ok {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown phase event %q", raw)
}

var transitions = map[Phase]map[Event]Phase{
	PhasePreSeason: {
		EventOpenDraft: PhaseDraft,
	},
	PhaseDraft: {
		EventCloseDraft: PhaseMakePick,
	},
	PhaseMakePick: {
		EventLockPicks: PhasePicksLocked,
	},
	PhasePicksLocked: {
		EventStartAiring:     PhaseAwaitingResults,
		EventFinalizeScoring: PhaseResultsPosted,
	},
	PhaseAwaitingResults: {
		EventFinalizeScoring: PhaseResultsPosted,
	},
	PhaseResultsPosted: {
		EventReleaseResults: PhaseWaiverOpen,
		EventCloseWaivers:   PhaseClosed,
	},
	PhaseWaiverOpen: {
		EventCloseWaivers: PhaseClosed,
	},
}

// Advance is the single transition function for seasons and episodes.
func Advance(from Phase, event Event) (Phase, error) {
	next, ok := transitions[from][event]
	if !ok {
		return from, fmt.Errorf("%w: %s --%s-->", ErrInvalidTransition, from, event)
	}
	return next, nil
}

// Reached reports whether current is at or beyond target in the forward-only lifecycle.
func Reached(current, target Phase) bool {
	return phaseOrder[current] >= phaseOrder[target]
}

// AdvanceIfBehind applies event unless current already sits at or past the phase event leads to.
// The bool is false when nothing changed, which lets retried jobs stay no-ops.
func AdvanceIfBehind(current Phase, event Event, target Phase) (Phase, bool, error) {
	if Reached(current, target) {
		return current, false, nil
	}
	next, err := Advance(current, event)
	if err != nil {
		return current, false, err
	}
	return next, true, nil
}

// AcceptsScores reports whether episode scores may be written in phase p.
func AcceptsScores(p Phase, allowCorrections bool) bool {
	switch p {
	case PhasePicksLocked, PhaseAwaitingResults:
		return true
	case PhaseResultsPosted, PhaseWaiverOpen:
		return allowCorrections
	default:
		return false
	}
}
