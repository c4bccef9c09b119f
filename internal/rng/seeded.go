package rng

import (
	"math/rand"
)

// Seeded is a Generator backed by math/rand with a fixed seed.
// It must only be used in tests where reproducible shuffles matter.
type Seeded struct {
	r *rand.Rand
}

// NewSeeded returns a Seeded generator
func NewSeeded(seed int64) *Seeded {
	return &Seeded{
		r: rand.New(rand.NewSource(seed)), // nolint:gosec
	}
}

// Intn returns a random number from 0 < n
func (s *Seeded) Intn(n int) int {
	return s.r.Intn(n)
}
