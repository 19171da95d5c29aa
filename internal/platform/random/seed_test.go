package random

import (
	"slices"
	"testing"
)

func TestFixed_IsDeterministic(t *testing.T) {
	t.Parallel()

	shuffle := func() []int {
		src, err := Fixed(42)()
		if err != nil {
			t.Fatalf("build source: %v", err)
		}
		items := []int{1, 2, 3, 4, 5, 6, 7, 8}
		src.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		return items
	}

	first := shuffle()
	second := shuffle()
	if !slices.Equal(first, second) {
		t.Fatalf("expected identical permutations, got %v and %v", first, second)
	}
}

func TestCryptoSeeded_ProducesPermutation(t *testing.T) {
	t.Parallel()

	src, err := CryptoSeeded()
	if err != nil {
		t.Fatalf("crypto seeded: %v", err)
	}
	items := []int{1, 2, 3, 4, 5}
	src.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	sorted := slices.Clone(items)
	slices.Sort(sorted)
	if !slices.Equal(sorted, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("shuffle lost elements: %v", items)
	}
}
