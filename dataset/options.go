// SPDX-License-Identifier: MIT
// Package: dataset
//
// options.go: functional options for Synthesize.
//
// Contract:
//   - Option constructors VALIDATE and PANIC on meaningless inputs;
//     Synthesize itself never panics.
//   - Options apply in order; later ones override earlier ones.

package dataset

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pce/numeric"
)

// Deterministic defaults.
const (
	DefaultNoise         = 0.5
	DefaultLatentFactors = 3
)

// Option customises synthetic generation.
type Option func(*synthConfig)

type synthConfig struct {
	seed    int64
	noise   float64
	factors int
}

func newSynthConfig(opts ...Option) synthConfig {
	c := synthConfig{seed: numeric.DefaultSeed, noise: DefaultNoise, factors: DefaultLatentFactors}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithSeed fixes the generator seed (0 means numeric.DefaultSeed).
func WithSeed(seed int64) Option {
	return func(c *synthConfig) { c.seed = seed }
}

// WithNoise sets the standard deviation of the per-value Gaussian noise.
// Panics on negative or non-finite sigma.
func WithNoise(sigma float64) Option {
	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		panic(fmt.Sprintf("dataset: WithNoise(%v)", sigma))
	}

	return func(c *synthConfig) { c.noise = sigma }
}

// WithLatentFactors sets the number of shared latent factors. Panics on k < 1.
func WithLatentFactors(k int) Option {
	if k < 1 {
		panic(fmt.Sprintf("dataset: WithLatentFactors(%d)", k))
	}

	return func(c *synthConfig) { c.factors = k }
}
