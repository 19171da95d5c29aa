// Package random owns the seeded pseudo-random sources used by batch jobs.
//
// Each job invocation draws one crypto seed and builds a single generator from
// it; every league handled by that invocation shares the generator.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source is the subset of *rand.Rand the engine needs.
type Source interface {
	Shuffle(n int, swap func(i, j int))
	IntN(n int) int
}

// Factory builds the generator for one job invocation.
type Factory func() (Source, error)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

// FromSeed returns a PCG generator. The same seed always yields the same sequence.
func FromSeed(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// CryptoSeeded is the production Factory.
func CryptoSeeded() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return FromSeed(seed), nil
}

// Fixed returns a Factory that always seeds with the given value.
func Fixed(seed uint64) Factory {
	return func() (Source, error) {
		return FromSeed(seed), nil
	}
}
