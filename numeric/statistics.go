// SPDX-License-Identifier: MIT
// Package: numeric
//
// statistics.go: normalisation transforms over gonum dense matrices and vectors.
//
// Purpose:
//   - Provide the small statistical kernels every stage shares (standardising,
//     row normalisation, similarity, softmax) as thin compositions over
//     gonum floats/stat, with one degenerate-input policy for all of them.
//
// Exposed API:
//   - ZScore(x)             -> (z, ok)            // sample z-score; degenerate → zeros, ok=false
//   - NormalizeRowsL2(X)    -> (Y, norms)         // unit rows; zero rows unchanged
//   - ZScoreColumns(X)      -> (Y, means, stds)   // per-column z-score; std=0 → zeroed column
//   - Cosine(a, b)          -> s                  // cosine similarity; zero vector → 0
//   - Softmax(dst, z)                             // stable softmax into dst
//   - Tile(v, n)            -> out                // cyclic projection onto length n
//   - Clamp / Clamp01                             // NaN-safe clamping
//
// Determinism:
//   - Fixed i→j traversal; inputs are never mutated.
//
// Degenerate policy:
//   - Zero variance, zero norm and non-finite inputs never divide; they map
//     to zeros (or the lower clamp bound) so downstream stages stay finite.

package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ZScore returns (x-mean)/std using the unbiased sample standard deviation.
// Implementation:
//   - Stage 1: Reject short or non-finite input.
//   - Stage 2: stat.MeanStdDev in one pass.
//   - Stage 3: Scale by the reciprocal of std.
//
// Behavior highlights:
//   - len(x) < 2, zero variance or any NaN/Inf yields an all-zero vector and
//     ok=false; the output length always equals len(x).
//   - A huge spread that overflows std is treated as degenerate.
//
// Complexity:
//   - Time O(n), Space O(n).
func ZScore(x []float64) (z []float64, ok bool) {
	// Stage 1 (Validate): the result is allocated before any early return.
	z = make([]float64, len(x))
	if len(x) < 2 || !AllFinite(x) {
		return z, false
	}

	// Stage 2 (Moments): unbiased std; zero or overflowed std is degenerate.
	mean, std := stat.MeanStdDev(x, nil)
	if std == 0 || !IsFinite(std) {
		return z, false
	}

	// Stage 3 (Apply): multiply by 1/std once per element.
	inv := 1.0 / std
	for i, v := range x {
		z[i] = (v - mean) * inv
	}

	return z, true
}

// NormalizeRowsL2 returns a copy of X whose non-zero rows have unit L2 norm,
// together with the original row norms.
//
// Behavior highlights:
//   - Zero rows stay zero and report norm 0.
//   - X is not modified; rows are scaled in place on the copy's raw storage.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) (+ O(r) norms).
func NormalizeRowsL2(X *mat.Dense) (*mat.Dense, []float64) {
	Y := mat.DenseCopyOf(X)
	r, _ := Y.Dims()
	norms := make([]float64, r)
	var row []float64
	for i := 0; i < r; i++ {
		row = Y.RawRowView(i)
		norms[i] = floats.Norm(row, 2)
		if norms[i] > 0 {
			floats.Scale(1.0/norms[i], row)
		}
	}

	return Y, norms
}

// ZScoreColumns standardises every column of a copy of X.
// Implementation:
//   - Stage 1: Extract column j into a reused buffer.
//   - Stage 2: ZScore it; record mean and std only when it was well defined.
//   - Stage 3: Write the standardised column into Y.
//
// Behavior highlights:
//   - Columns with zero variance (or a single row) are zeroed and report
//     mean = std = 0, mirroring the correlation policy for degenerate profiles.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) (+ O(r) column buffer).
func ZScoreColumns(X *mat.Dense) (*mat.Dense, []float64, []float64) {
	r, c := X.Dims()
	Y := mat.NewDense(r, c, nil)
	means := make([]float64, c)
	stds := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ { // deterministic column order
		mat.Col(col, j, X)
		z, ok := ZScore(col)
		if ok {
			means[j], stds[j] = stat.MeanStdDev(col, nil)
		}
		Y.SetCol(j, z)
	}

	return Y, means, stds
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero vector.
// Lengths must match (caller contract).
//
// Behavior highlights:
//   - The result is clamped to [-1, 1], so rounding never leaks past the bounds.
//   - Identical inputs always give the same value, so equal pairs tie exactly.
//
// Complexity:
//   - Time O(n), Space O(1).
func Cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}

	return Clamp(floats.Dot(a, b)/(na*nb), -1, 1)
}

// Softmax writes the softmax of z into dst (len(dst) == len(z)) using the
// max-subtraction trick so large logits never overflow.
//
// Behavior highlights:
//   - The largest entry maps to exp(0) = 1 before normalising, so the sum is
//     at least 1 and never underflows to zero.
//   - dst may alias z.
//
// Complexity:
//   - Time O(n), Space O(1).
func Softmax(dst, z []float64) {
	if len(z) == 0 {
		return
	}
	// Stage 1 (Shift): subtract the max; every exponent is ≤ 0.
	hi := floats.Max(z)
	var sum float64
	for i, v := range z {
		dst[i] = math.Exp(v - hi)
		sum += dst[i]
	}
	// Stage 2 (Normalise): sum ≥ 1 here.
	floats.Scale(1.0/sum, dst)
}

// Tile projects v onto length n by cyclic repetition (n <= len(v) truncates).
// An empty v yields zeros.
func Tile(v []float64, n int) []float64 {
	out := make([]float64, n)
	if len(v) == 0 {
		return out
	}
	for i := range out {
		out[i] = v[i%len(v)]
	}

	return out
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }
