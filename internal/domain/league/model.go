package league

import (
	"fmt"
	"sort"
	"time"
)

type Type string

const (
	TypeOfficial Type = "OFFICIAL"
	TypeCustom   Type = "CUSTOM"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusOpen      Status = "OPEN"
	StatusActive    Status = "ACTIVE"
	StatusFull      Status = "FULL"
	StatusCompleted Status = "COMPLETED"
)

type DraftStatus string

const (
	DraftPending    DraftStatus = "PENDING"
	DraftInProgress DraftStatus = "IN_PROGRESS"
	DraftCompleted  DraftStatus = "COMPLETED"
)

type Role string

const (
	RoleMember       Role = "MEMBER"
	RoleCommissioner Role = "COMMISSIONER"
	RoleAdmin        Role = "ADMIN"
)

func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeOfficial, TypeCustom:
		return Type(raw), nil
	}
	return "", fmt.Errorf("unknown league type %q", raw)
}

func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusOpen, StatusActive, StatusFull, StatusCompleted:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown league status %q", raw)
}

func ParseDraftStatus(raw string) (DraftStatus, error) {
	switch DraftStatus(raw) {
	case DraftPending, DraftInProgress, DraftCompleted:
		return DraftStatus(raw), nil
	}
	return "", fmt.Errorf("unknown draft status %q", raw)
}

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleMember, RoleCommissioner, RoleAdmin:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown membership role %q", raw)
}

type League struct {
	ID             string
	SeasonID       string
	Name           string
	Type           Type
	CurrentPlayers int
	MaxPlayers     int
	Status         Status
	DraftStatus    DraftStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NeedsDraftFinalization reports whether the auto-finalize job still has work in this league.
func (l League) NeedsDraftFinalization() bool {
	return l.DraftStatus == DraftPending || l.DraftStatus == DraftInProgress
}

type Membership struct {
	LeagueID      string
	UserID        string
	Role          Role
	DraftPosition *int
	TotalPoints   int
	Rank          int
	CreatedAt     time.Time
}

// SortForDraft orders members by draft position. Members without a position go last,
// in join order, so a league whose draft never started still has a stable order.
func SortForDraft(members []Membership) []Membership {
	out := append([]Membership(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].DraftPosition, out[j].DraftPosition
		switch {
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return joinedBefore(out[i], out[j])
	})
	return out
}

// RankByPoints orders by points descending with earliest membership first on ties,
// then assigns sequential ranks starting at 1.
func RankByPoints(members []Membership) []Membership {
	out := append([]Membership(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return joinedBefore(out[i], out[j])
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func joinedBefore(a, b Membership) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.UserID < b.UserID
}
