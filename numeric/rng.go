// SPDX-License-Identifier: MIT
// Package: numeric
//
// rng.go: deterministic RNG factory shared by every stochastic stage.
//
// Goals:
//   - Determinism: same seed ⇒ identical streams across platforms.
//   - Encapsulation: no time-based sources anywhere in the module.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Derive one stream per worker or
//     per population instead of sharing.

package numeric

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed replaces a zero seed so that "unset" still means reproducible.
const DefaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand; seed==0 uses DefaultSeed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream identifier into a new seed with
// a SplitMix64 finaliser, so neighbouring streams are decorrelated.
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// StreamID hashes a label (population name, stage name) into a stream id.
func StreamID(label string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))

	return h.Sum64()
}

// DeriveRand is NewRand(DeriveSeed(parent, StreamID(label))).
func DeriveRand(parent int64, label string) *rand.Rand {
	return NewRand(DeriveSeed(parent, StreamID(label)))
}
