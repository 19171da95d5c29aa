package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewUUIDGenerator()
	first, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := g.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid format, got %q: %v", first, err)
	}
}

func TestSequence_NewID(t *testing.T) {
	t.Parallel()

	s := NewSequence("pick")
	a, _ := s.NewID()
	b, _ := s.NewID()
	if a != "pick-1" || b != "pick-2" {
		t.Fatalf("unexpected sequence ids: %q %q", a, b)
	}
}
