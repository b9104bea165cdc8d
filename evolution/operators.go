// SPDX-License-Identifier: MIT
// Package: evolution
//
// operators.go: selection, crossover and mutation.
//
// All operators draw from the population's own *rand.Rand, sequentially, so
// the draw order (and hence the outcome) is fixed for a given seed.

package evolution

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/pce/numeric"
)

// rankOrder returns indices sorted by fitness descending; ties keep index order.
func rankOrder(fitness []float64) []int {
	idx := make([]int, len(fitness))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return fitness[idx[a]] > fitness[idx[b]] })

	return idx
}

// tournament picks k random contestants and returns the fittest (lower index on ties).
func tournament(rng *rand.Rand, fitness []float64, k int) int {
	best := rng.Intn(len(fitness))
	for i := 1; i < k; i++ {
		c := rng.Intn(len(fitness))
		if fitness[c] > fitness[best] || (fitness[c] == fitness[best] && c < best) {
			best = c
		}
	}

	return best
}

// rankSelect samples with linear rank weights: best gets n, worst gets 1.
func rankSelect(rng *rand.Rand, order []int) int {
	n := len(order)
	total := n * (n + 1) / 2
	r := rng.Intn(total)
	for pos, idx := range order {
		r -= n - pos
		if r < 0 {
			return idx
		}
	}

	return order[n-1]
}

// crossover returns a uniform crossover child, or a copy of a when the
// crossover coin fails.
func crossover(rng *rand.Rand, a, b []float64, rate float64) []float64 {
	child := append([]float64(nil), a...)
	if rng.Float64() >= rate {
		return child
	}
	for i := range child {
		if rng.Intn(2) == 1 {
			child[i] = b[i]
		}
	}

	return child
}

// mutate perturbs each gene with probability rate by 𝒩(0, scale²) and clamps to ±bound.
func mutate(rng *rand.Rand, g []float64, rate, scale, bound float64) {
	for i := range g {
		if rng.Float64() < rate {
			g[i] += scale * rng.NormFloat64()
		}
		g[i] = numeric.Clamp(g[i], -bound, bound)
	}
}
