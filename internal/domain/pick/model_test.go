package pick

import (
	"testing"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
)

func TestChooseAutoPick(t *testing.T) {
	t.Parallel()

	a := roster.Entry{CastawayID: "castaway-a", DraftPick: 3}
	b := roster.Entry{CastawayID: "castaway-b", DraftPick: 10}

	cases := []struct {
		name     string
		active   []roster.Entry
		previous string
		want     string
		wantOK   bool
	}{
		{name: "torch snuffed", active: nil, wantOK: false},
		{name: "single castaway", active: []roster.Entry{b}, previous: "castaway-b", want: "castaway-b", wantOK: true},
		{name: "alternates from last week", active: []roster.Entry{a, b}, previous: "castaway-a", want: "castaway-b", wantOK: true},
		{name: "alternates regardless of input order", active: []roster.Entry{b, a}, previous: "castaway-b", want: "castaway-a", wantOK: true},
		{name: "no previous pick takes lower draft pick", active: []roster.Entry{b, a}, want: "castaway-a", wantOK: true},
		{name: "previous castaway since dropped", active: []roster.Entry{b, a}, previous: "castaway-z", want: "castaway-a", wantOK: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ChooseAutoPick(tc.active, tc.previous)
			if ok != tc.wantOK {
				t.Fatalf("ok: got %v want %v", ok, tc.wantOK)
			}
			if ok && got.CastawayID != tc.want {
				t.Fatalf("castaway: got %s want %s", got.CastawayID, tc.want)
			}
		})
	}
}
