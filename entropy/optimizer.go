// SPDX-License-Identifier: MIT
// Package: entropy
//
// optimizer.go: CreateState and MinimizeEntropy.
//
// Step k:
//  1. G = N·∇J(Z).
//  2. η = learning_rate; candidate Z' = clip(Z − ηG, ±LogitBound).
//  3. Accept if J(Z') ≤ J(Z); else halve η, up to MaxBacktracks times.
//     No acceptable candidate ⇒ converged (no descent direction left).
//  4. |ΔJ| < Tolerance for Patience consecutive steps ⇒ converged.
//
// A step is unstable when its gradient or any line-search candidate had to
// be sanitised. MaxInstability unstable steps in a row abort the run before
// the offending step is accepted.
//
// Determinism: CreateState draws jitter from stream "qlem" of Config.Seed;
// the descent itself is deterministic.

package entropy

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/embedding"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/numeric"
)

// Stage is the stage tag used in logs and StageError.
const Stage = "qlem"

// Result is the outcome of MinimizeEntropy.
type Result struct {
	Coherence        float64   `yaml:"coherence"`
	InitialEntropy   float64   `yaml:"initial_entropy"`
	FinalEntropy     float64   `yaml:"final_entropy"`
	Alignment        float64   `yaml:"alignment"`
	InitialObjective float64   `yaml:"initial_objective"`
	FinalObjective   float64   `yaml:"final_objective"`
	Objective        []float64 `yaml:"objective"`
	Steps            int       `yaml:"steps"`
	Converged        bool      `yaml:"converged"`
	Recoveries       int       `yaml:"recoveries"`
	Partial          bool      `yaml:"partial"`
	State            *State    `yaml:"-"`
}

// Optimizer runs Q-LEM.
type Optimizer struct {
	cfg Config
	log logrus.FieldLogger
}

// NewOptimizer validates cfg and returns an Optimizer.
func NewOptimizer(cfg Config, opts ...Option) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Optimizer{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	o.log = logging.Stage(o.log, Stage)

	return o, nil
}

// Config returns the optimiser configuration.
func (o *Optimizer) Config() Config { return o.cfg }

// CreateState seeds the logit field: Z = β·X + jitter·𝒩(0,1).
func (o *Optimizer) CreateState(emb *embedding.Embedding) (*State, error) {
	const method = "entropy.CreateState"
	if emb == nil || emb.Len() == 0 || emb.Dim() == 0 {
		return nil, fmt.Errorf("%s: %w", method, pce.ErrEmptyInput)
	}
	rng := numeric.DeriveRand(o.cfg.Seed, Stage)
	Z := emb.Matrix()
	Z.Scale(o.cfg.InverseTemperature, Z)
	n, d := Z.Dims()
	for i := 0; i < n; i++ {
		row := Z.RawRowView(i)
		for k := 0; k < d; k++ {
			row[k] = numeric.Clamp(row[k]+o.cfg.Jitter*rng.NormFloat64(), -LogitBound, LogitBound)
		}
	}

	return NewState(emb.IDs(), Z)
}

// MinimizeEntropy descends J from st for min(steps, MaxSteps) steps.
// st is not modified. steps ≤ 0 evaluates the state without moving.
//
// Behavior highlights:
//   - J is non-increasing along Result.Objective.
//   - A non-finite input state fails at once with ErrNumericalInstability.
//   - MaxInstability consecutive unstable steps return the last accepted
//     state, Partial = true and a *pce.StageError{Stage: "qlem"} whose
//     Iteration is the aborted step.
//   - Cancellation returns the state reached so far with the context error.
//
// Complexity: O(S·B·N·D) for S steps and B backtracks per step.
func (o *Optimizer) MinimizeEntropy(ctx context.Context, st *State, steps int) (*Result, error) {
	const method = "entropy.MinimizeEntropy"
	if st == nil || st.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", method, pce.ErrEmptyInput)
	}
	if !st.Finite() {
		return nil, pce.WrapStage(Stage, 0, fmt.Errorf("%s: non-finite input state: %w", method, pce.ErrNumericalInstability))
	}
	if steps > o.cfg.MaxSteps {
		steps = o.cfg.MaxSteps
	}

	w := o.cfg.ObjectiveWeights
	cur := st.clone()
	J := cur.Objective(w)
	res := &Result{
		InitialEntropy:   cur.Entropy(),
		InitialObjective: J,
		Objective:        []float64{J},
	}

	n, d := cur.logits.Dims()
	G := mat.NewDense(n, d, nil)
	var (
		calm     int // consecutive |ΔJ| < tol
		unstable int // consecutive recovery failures
		err      error
	)

	for step := 0; step < steps; step++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = pce.WrapStage(Stage, step, ctxErr)

			break
		}

		// Stage 1: gradient, sanitised when it overflows.
		recovered := false
		cur.gradient(w, G)
		if !numeric.MatrixFinite(G) {
			for i := 0; i < n; i++ {
				numeric.Sanitize(G.RawRowView(i), LogitBound)
			}
			res.Recoveries++
			recovered = true
		}

		// Stage 2: backtracking line search.
		next, nextJ, ok, bad := o.lineSearch(cur, G, J)
		res.Recoveries += bad

		// Stage 3: a step that needed any recovery is unstable; a clean one resets the run.
		if recovered || bad > 0 {
			unstable++
		} else {
			unstable = 0
		}
		if unstable >= o.cfg.MaxInstability {
			err = pce.WrapStage(Stage, step, fmt.Errorf("%s: %d consecutive unstable steps: %w",
				method, unstable, pce.ErrNumericalInstability))
			res.Partial = true

			break
		}
		res.Steps = step + 1
		if !ok {
			res.Objective = append(res.Objective, J)
			res.Converged = bad == 0

			break
		}

		// Stage 4: accept and test the plateau.
		delta := J - nextJ
		cur, J = next, nextJ
		res.Objective = append(res.Objective, J)
		if delta < o.cfg.Tolerance {
			calm++
		} else {
			calm = 0
		}
		if calm >= o.cfg.Patience {
			res.Converged = true

			break
		}
	}

	res.State = cur
	res.FinalObjective = J
	res.FinalEntropy = cur.Entropy()
	res.Alignment = cur.Alignment()
	res.Coherence = numeric.Clamp01(1 - res.FinalEntropy)

	o.log.WithFields(logrus.Fields{
		"steps":      res.Steps,
		"converged":  res.Converged,
		"coherence":  res.Coherence,
		"objective":  res.FinalObjective,
		"recoveries": res.Recoveries,
	}).Debug("entropy minimised")

	return res, err
}

// lineSearch returns the first candidate with J' ≤ J, halving η on failure.
// bad counts non-finite candidates that had to be discarded.
func (o *Optimizer) lineSearch(cur *State, G *mat.Dense, J float64) (next *State, nextJ float64, ok bool, bad int) {
	eta := o.cfg.LearningRate
	cand := cur.clone()
	n, _ := cur.logits.Dims()
	for try := 0; try <= o.cfg.MaxBacktracks; try++ {
		cand.logits.Scale(-eta, G)
		cand.logits.Add(cand.logits, cur.logits)
		for i := 0; i < n; i++ {
			row := cand.logits.RawRowView(i)
			if numeric.Sanitize(row, LogitBound) > 0 {
				bad++
			}
			for k := range row {
				row[k] = numeric.Clamp(row[k], -LogitBound, LogitBound)
			}
		}
		cand.refresh()
		candJ := cand.Objective(o.cfg.ObjectiveWeights)
		if numeric.IsFinite(candJ) && candJ <= J {
			return cand, candJ, true, bad
		}
		if !numeric.IsFinite(candJ) {
			bad++
		}
		eta /= 2
	}

	return nil, J, false, bad
}
