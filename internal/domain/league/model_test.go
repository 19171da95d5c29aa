package league

import (
	"testing"
	"time"
)

func TestRankByPoints_TieBreaksOnEarliestMembership(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	members := []Membership{
		{UserID: "late", TotalPoints: 40, CreatedAt: base.Add(2 * time.Hour)},
		{UserID: "top", TotalPoints: 55, CreatedAt: base.Add(3 * time.Hour)},
		{UserID: "early", TotalPoints: 40, CreatedAt: base},
	}

	got := RankByPoints(members)
	want := []string{"top", "early", "late"}
	for i, userID := range want {
		if got[i].UserID != userID || got[i].Rank != i+1 {
			t.Fatalf("rank %d: got %s/%d want %s", i+1, got[i].UserID, got[i].Rank, userID)
		}
	}
	if members[0].Rank != 0 {
		t.Fatalf("input slice must not be mutated")
	}
}

func TestSortForDraft(t *testing.T) {
	t.Parallel()

	pos := func(v int) *int { return &v }
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	members := []Membership{
		{UserID: "u-none-late", CreatedAt: base.Add(time.Hour)},
		{UserID: "u2", DraftPosition: pos(2)},
		{UserID: "u-none-early", CreatedAt: base},
		{UserID: "u0", DraftPosition: pos(0)},
	}

	got := SortForDraft(members)
	want := []string{"u0", "u2", "u-none-early", "u-none-late"}
	for i := range want {
		if got[i].UserID != want[i] {
			t.Fatalf("position %d: got %s want %s", i, got[i].UserID, want[i])
		}
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	if _, err := ParseStatus("FULL"); err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if _, err := ParseStatus("full"); err == nil {
		t.Fatalf("expected case-sensitive status parsing")
	}
	if _, err := ParseDraftStatus("IN_PROGRESS"); err != nil {
		t.Fatalf("parse draft status: %v", err)
	}
	if _, err := ParseRole("OWNER"); err == nil {
		t.Fatalf("expected unknown role error")
	}
	if _, err := ParseType("CUSTOM"); err != nil {
		t.Fatalf("parse type: %v", err)
	}
}
