// SPDX-License-Identifier: MIT
// Package: evolution
//
// fitness.go: objective functions and parallel evaluation.

package evolution

import (
	"math"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/pce/numeric"
)

// fitnessFunc scores one genome against the unit target vectors.
type fitnessFunc func(g []float64, targets [][]float64) float64

func alignmentFitness(g []float64, targets [][]float64) float64 {
	if len(targets) == 0 {
		return 0
	}
	norm := floats.Norm(g, 2)
	if norm == 0 {
		return 0
	}
	var sum float64
	for _, t := range targets {
		sum += math.Abs(floats.Dot(g, t)) / norm
	}
	v := sum / float64(len(targets))
	if !numeric.IsFinite(v) {
		return 0
	}

	return numeric.Clamp01(v)
}

func resourceFitness(penalty float64) fitnessFunc {
	return func(g []float64, targets [][]float64) float64 {
		a := alignmentFitness(g, targets)
		cost := floats.Norm(g, 1) / float64(len(g))
		v := a / (1 + penalty*cost)
		if !numeric.IsFinite(v) {
			return 0
		}

		return numeric.Clamp01(v)
	}
}

func (e *Engine) fitnessFunc() fitnessFunc {
	if e.cfg.Objective == ObjectiveResource {
		return resourceFitness(e.cfg.ResourcePenalty)
	}

	return alignmentFitness
}

// evaluate scores every genome on a bounded pool; results are index-addressed.
func (e *Engine) evaluate(genomes, targets [][]float64) []float64 {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	f := e.fitnessFunc()
	out := make([]float64, len(genomes))

	p := pool.New().WithMaxGoroutines(workers)
	for i, g := range genomes {
		i, g := i, g
		p.Go(func() {
			out[i] = f(g, targets)
		})
	}
	p.Wait()

	return out
}

// targetsFrom tiles every non-zero embedding row to length L and normalises it.
func targetsFrom(rows [][]float64, L int) [][]float64 {
	out := make([][]float64, 0, len(rows))
	for _, r := range rows {
		t := numeric.Tile(r, L)
		n := floats.Norm(t, 2)
		if n == 0 {
			continue
		}
		floats.Scale(1/n, t)
		out = append(out, t)
	}

	return out
}
