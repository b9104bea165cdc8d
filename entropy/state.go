// SPDX-License-Identifier: MIT
// Package: entropy
//
// state.go: the logit field and its measures.
//
// Purpose:
//   - Hold the N×D logit field Z and its row-wise softmax P side by side so
//     measures and the gradient never recompute probabilities.
//
// Exposed API:
//   - NewState(ids, Z)        -> *State   // validated copy; P = softmax(Z)
//   - (*State).Entropy()      -> H̄        // normalised mean entropy ∈ [0,1]
//   - (*State).Alignment()    -> A        // mean off-diagonal ⟨p_i, p_j⟩ ∈ [0,1]
//   - (*State).Objective(w)   -> J        // w_H·H̄ − w_A·A
//   - gradient(w, G)                      // N·∂J/∂Z, written into G
//
// Determinism:
//   - Fixed row order everywhere; no randomness.

package entropy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/numeric"
)

// Numerical guards.
const (
	LogitBound       = 50.0
	ProbabilityFloor = 1e-12
)

// State is a field of per-entity softmax distributions. It is never mutated
// by the optimiser; MinimizeEntropy returns a new State.
type State struct {
	ids    []string
	logits *mat.Dense // N×D
	probs  *mat.Dense // N×D, rows sum to 1
}

// NewState builds a state from explicit logits (one row per id).
// Shape is validated here; finiteness is checked by MinimizeEntropy.
func NewState(ids []string, logits *mat.Dense) (*State, error) {
	const method = "entropy.NewState"
	if len(ids) == 0 || logits == nil || logits.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", method, pce.ErrEmptyInput)
	}
	if r, _ := logits.Dims(); r != len(ids) {
		return nil, fmt.Errorf("%s: %d rows for %d ids: %w", method, r, len(ids), pce.ErrInvalidConfiguration)
	}
	s := &State{ids: append([]string(nil), ids...), logits: mat.DenseCopyOf(logits)}
	s.refresh()

	return s, nil
}

// refresh recomputes probabilities from logits.
func (s *State) refresh() {
	n, d := s.logits.Dims()
	if s.probs == nil {
		s.probs = mat.NewDense(n, d, nil)
	}
	for i := 0; i < n; i++ {
		numeric.Softmax(s.probs.RawRowView(i), s.logits.RawRowView(i))
	}
}

func (s *State) clone() *State {
	return &State{ids: s.ids, logits: mat.DenseCopyOf(s.logits), probs: mat.DenseCopyOf(s.probs)}
}

// Len returns the number of entities.
func (s *State) Len() int { return len(s.ids) }

// Dim returns the distribution support size D.
func (s *State) Dim() int {
	_, d := s.logits.Dims()

	return d
}

// IDs returns entity ids in row order.
func (s *State) IDs() []string { return append([]string(nil), s.ids...) }

// Logits returns a copy of the logits.
func (s *State) Logits() *mat.Dense { return mat.DenseCopyOf(s.logits) }

// Probabilities returns a copy of the per-entity distributions.
func (s *State) Probabilities() *mat.Dense { return mat.DenseCopyOf(s.probs) }

// Finite reports whether logits and probabilities are all finite.
func (s *State) Finite() bool {
	return numeric.MatrixFinite(s.logits) && numeric.MatrixFinite(s.probs)
}

// Entropy returns H̄ = (1/N)·Σ_i H(p_i)/log D.
//
// Behavior highlights:
//   - D = 1 yields 0 (a single outcome carries no uncertainty).
//   - The result is clamped to [0,1] to absorb rounding at the uniform
//     distribution.
//
// Complexity:
//   - Time O(N·D), Space O(1).
func (s *State) Entropy() float64 {
	n, d := s.probs.Dims()
	if d < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += stat.Entropy(s.probs.RawRowView(i))
	}

	return numeric.Clamp01(sum / (float64(n) * math.Log(float64(d))))
}

// Alignment returns the mean off-diagonal inner product ∈ [0,1]; N < 2 yields 0.
// Implementation:
//   - Stage 1: Accumulate the column total S = Σ_i p_i and Σ_i ⟨p_i, p_i⟩.
//   - Stage 2: Σ_{i≠j} ⟨p_i, p_j⟩ = ⟨S, S⟩ − Σ_i ⟨p_i, p_i⟩.
//
// Behavior highlights:
//   - Identical rows give 1 only when they are one-hot; uniform rows give 1/D.
//
// Complexity:
//   - Time O(N·D) instead of the pairwise O(N²·D), Space O(D).
func (s *State) Alignment() float64 {
	n, d := s.probs.Dims()
	if n < 2 {
		return 0
	}
	// Stage 1 (Accumulate)
	total := make([]float64, d)
	var self float64
	for i := 0; i < n; i++ {
		row := s.probs.RawRowView(i)
		floats.Add(total, row)
		self += floats.Dot(row, row)
	}
	// Stage 2 (Cross terms)
	cross := floats.Dot(total, total) - self

	return numeric.Clamp01(cross / float64(n*(n-1)))
}

// Objective returns J = w_H·H̄ − w_A·A.
func (s *State) Objective(w Weights) float64 {
	return w.Entropy*s.Entropy() - w.Alignment*s.Alignment()
}

// gradient writes ∂J/∂Z into G (N×D), scaled by N so the step size is per entity.
// Implementation:
//   - Stage 1: Precompute the term scales and, for alignment, the column total S.
//   - Stage 2: Per row, add the entropy term −p_k(log p_k + H_i)·w_H/log D.
//   - Stage 3: Per row, subtract the alignment term chained through the softmax
//     Jacobian: p_k(g_k − ⟨p, g⟩) with g = S − p_i.
//
// Behavior highlights:
//   - log p uses max(p, ProbabilityFloor), so saturated rows stay finite.
//   - A zero weight skips its term entirely.
//   - Huge weights can overflow a scale to ±Inf; MinimizeEntropy detects the
//     non-finite G and recovers.
//
// Complexity:
//   - Time O(N·D), Space O(D) scratch.
func (s *State) gradient(w Weights, G *mat.Dense) {
	n, d := s.probs.Dims()
	G.Zero()

	// Stage 1 (Scales)
	var entScale float64
	if d >= 2 {
		entScale = w.Entropy / math.Log(float64(d))
	}
	var alScale float64
	total := make([]float64, d)
	if n >= 2 {
		alScale = w.Alignment * 2 / float64(n-1)
		for i := 0; i < n; i++ {
			floats.Add(total, s.probs.RawRowView(i))
		}
	}

	g := make([]float64, d)
	logp := make([]float64, d)
	for i := 0; i < n; i++ {
		p := s.probs.RawRowView(i)
		out := G.RawRowView(i)

		// Stage 2 (Entropy term): dH_i/dz_k = −p_k (log p_k + H_i).
		if entScale != 0 {
			var h float64
			for k, pk := range p {
				logp[k] = math.Log(math.Max(pk, ProbabilityFloor))
				h -= pk * logp[k]
			}
			for k, pk := range p {
				out[k] += entScale * (-pk * (logp[k] + h))
			}
		}

		// Stage 3 (Alignment term): dA/dp_ik = 2(S_k − p_ik)/(N(N−1)), chained through softmax.
		if alScale != 0 {
			for k := range g {
				g[k] = total[k] - p[k]
			}
			mean := floats.Dot(p, g)
			for k, pk := range p {
				out[k] -= alScale * pk * (g[k] - mean)
			}
		}
	}
}
