// Package shuffle provides Fisher–Yates permutations driven by a seedable
// source, so that a round can be replayed from its seed.
package shuffle

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Shuffler draws uniform indices from a seeded PCG source.
// A Shuffler is not safe for concurrent use.
type Shuffler struct {
	seed uint64
	rng  *rand.Rand
}

// New creates a Shuffler whose permutations are fully determined by seed.
func New(seed uint64) *Shuffler {
	return &Shuffler{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewRandom creates a Shuffler seeded from crypto/rand.
func NewRandom() (*Shuffler, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return New(seed), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Seed returns the seed the Shuffler was created with.
func (s *Shuffler) Seed() uint64 {
	return s.seed
}

// intN returns a uniform value in [0, n). A nil Shuffler falls back to
// the process-wide source.
func (s *Shuffler) intN(n int) int {
	if s == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

// Shuffle permutes items in place. It walks i from the last index down
// to 1, draws j uniformly from [0, i] and swaps positions i and j, so
// each of the n! orderings is equally likely. Inputs of length 0 or 1
// are left untouched.
func Shuffle[T any](s *Shuffler, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// ShuffledCopy returns a shuffled copy of items, leaving items unmodified.
func ShuffledCopy[T any](s *Shuffler, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	Shuffle(s, out)
	return out
}
