// SPDX-License-Identifier: MIT
// Package: multiscale
//
// simulate.go: time integration and the hierarchical complexity metric.
//
// Time grid: t_k = k·h for k < K, t_K = duration, K = ⌈duration/h⌉, so the
// final step is shortened to land exactly on duration. K > MaxSteps ⇒ only
// MaxSteps steps run and the result is Capped.

package multiscale

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/numeric"
)

// gridSlack absorbs float error in duration/h before taking the ceiling.
const gridSlack = 1e-9

// Result is the outcome of Simulate.
type Result struct {
	Times           []float64   `yaml:"times"`
	LevelMeans      [][]float64 `yaml:"level_means"` // [level][sample]
	FinalState      [][]float64 `yaml:"final_state"`
	Steps           int         `yaml:"steps"`
	Capped          bool        `yaml:"capped"`
	Partial         bool        `yaml:"partial"`
	Differentiation float64     `yaml:"differentiation"`
	Integration     float64     `yaml:"integration"`
	Complexity      float64     `yaml:"complexity"`
	Synchrony       float64     `yaml:"synchrony"`
}

// Simulate integrates sys over [0, duration]. sys is not modified.
//
// Behavior highlights:
//   - duration ≤ 0 (or NaN) yields empty trajectories and zero complexity.
//   - The step count is decided in float64, so a huge duration is Capped at
//     MaxSteps rather than overflowing int.
//   - A non-finite state after a step stops the run: the result keeps the
//     last finite state and its trajectory and is marked Partial.
//   - Cancellation between steps returns the trajectory so far together with
//     a StageError carrying the step index.
//
// Complexity: O(K·L·n²) for K steps over L levels of n entities
// (RK4 evaluates the derivative four times per step).
func (s *Simulator) Simulate(ctx context.Context, sys *System, duration float64) (*Result, error) {
	const method = "multiscale.Simulate"
	if sys == nil || len(sys.levels) == 0 {
		return nil, fmt.Errorf("%s: system was never created: %w", method, pce.ErrIncompletePipeline)
	}
	L := len(sys.levels)
	res := &Result{LevelMeans: make([][]float64, L), FinalState: sys.State()}
	if !(duration > 0) {
		return res, nil
	}

	// Stage 1: size the grid.
	h := s.cfg.StepSize
	// Compare in float64: duration/h may exceed the int range.
	want := math.Max(1, math.Ceil(duration/h-gridSlack))
	steps := s.cfg.MaxSteps
	if want > float64(steps) {
		res.Capped = true
	} else {
		steps = int(want)
	}

	// Stage 2: integrate, recording level means after every accepted step.
	x := sys.State()
	res.record(0, x)
	var err error
	for k := 0; k < steps; k++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = pce.WrapStage(Stage, k, ctxErr)

			break
		}
		t0 := float64(k) * h
		t1 := float64(k+1) * h
		if k == steps-1 && !res.Capped {
			t1 = duration
		}
		next := s.step(sys, x, t1-t0)
		if !allFinite(next) {
			res.Partial = true
			s.log.WithField("step", k).Warn("non-finite state, simulation truncated")

			break
		}
		x = next
		res.Steps = k + 1
		res.record(t1, x)
	}
	// Stage 3: summarise the recorded trajectory.
	res.FinalState = x
	res.Differentiation, res.Integration, res.Complexity = complexity(res.LevelMeans)
	res.Synchrony = synchrony(res.LevelMeans, s.cfg.SyncWindow, s.cfg.SyncSlopePenalty)

	s.log.WithFields(logrus.Fields{
		"steps":      res.Steps,
		"capped":     res.Capped,
		"partial":    res.Partial,
		"complexity": res.Complexity,
	}).Debug("simulation finished")

	return res, err
}

func (r *Result) record(t float64, x [][]float64) {
	r.Times = append(r.Times, t)
	for l, xl := range x {
		r.LevelMeans[l] = append(r.LevelMeans[l], mean(xl))
	}
}

// step advances x by dt with the configured integrator.
func (s *Simulator) step(sys *System, x [][]float64, dt float64) [][]float64 {
	if s.cfg.Integrator == IntegratorEuler {
		return axpy(x, dt, s.deriv(sys, x))
	}
	k1 := s.deriv(sys, x)
	k2 := s.deriv(sys, axpy(x, dt/2, k1))
	k3 := s.deriv(sys, axpy(x, dt/2, k2))
	k4 := s.deriv(sys, axpy(x, dt, k3))
	out := make([][]float64, len(x))
	for l := range x {
		out[l] = make([]float64, len(x[l]))
		for i := range x[l] {
			out[l][i] = x[l][i] + dt/6*(k1[l][i]+2*k2[l][i]+2*k3[l][i]+k4[l][i])
		}
	}

	return out
}

// deriv evaluates dx/dt for every level from one snapshot.
func (s *Simulator) deriv(sys *System, x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for l, lv := range sys.levels {
		n := len(x[l])
		in := mat.NewVecDense(n, nil)
		in.MulVec(lv.w, mat.NewVecDense(n, append([]float64(nil), x[l]...)))
		drive := 0.0
		if l > 0 {
			drive = s.cfg.BottomUpCoupling * mean(x[l-1])
		}
		tau := lv.info.Tau
		if l < len(x)-1 {
			tau /= 1 + s.cfg.TopDownCoupling*math.Abs(mean(x[l+1]))
		}
		out[l] = make([]float64, n)
		for i := 0; i < n; i++ {
			out[l][i] = (-x[l][i] + math.Tanh(in.AtVec(i)+lv.bias[i]+drive)) / tau
		}
	}

	return out
}

func axpy(x [][]float64, a float64, d [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for l := range x {
		out[l] = append([]float64(nil), x[l]...)
		floats.AddScaled(out[l], a, d[l])
	}

	return out
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}

	return floats.Sum(v) / float64(len(v))
}

func allFinite(x [][]float64) bool {
	for _, v := range x {
		if !numeric.AllFinite(v) {
			return false
		}
	}

	return true
}

// complexity returns (D̄, Ī, D̄·Ī) over level-mean trajectories.
func complexity(levelMeans [][]float64) (diff, integ, c float64) {
	L := len(levelMeans)
	if L == 0 || len(levelMeans[0]) < 2 {
		return 0, 0, 0
	}
	for _, m := range levelMeans {
		sd := stat.StdDev(m, nil)
		if !numeric.IsFinite(sd) {
			sd = 0
		}
		diff += sd / (1 + sd)
	}
	diff /= float64(L)

	if L == 1 {
		integ = 1
	} else {
		for l := 0; l+1 < L; l++ {
			r := stat.Correlation(levelMeans[l], levelMeans[l+1], nil)
			if numeric.IsFinite(r) {
				integ += math.Abs(r)
			}
		}
		integ = numeric.Clamp01(integ / float64(L-1))
	}

	return diff, integ, numeric.Clamp(diff*integ, 0, 1)
}
