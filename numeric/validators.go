// SPDX-License-Identifier: MIT
// Package: numeric
//
// validators.go: single source of truth for finite-value checks.
//
// Determinism & Performance:
//   - All checks are pure, allocate nothing and scan in row-major order.

package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/pce"
)

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AllFinite reports whether every element of xs is finite.
// Complexity: O(len(xs)).
func AllFinite(xs []float64) bool {
	for _, v := range xs {
		if !IsFinite(v) {
			return false
		}
	}

	return true
}

// MatrixFinite reports whether every element of m is finite.
// A nil matrix is considered finite (nothing to reject).
// Complexity: O(r*c).
func MatrixFinite(m *mat.Dense) bool {
	if m == nil || m.IsEmpty() {
		return true
	}
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		if !AllFinite(m.RawRowView(i)) {
			return false
		}
	}

	return true
}

// ValidateFinite returns a wrapped pce.ErrNumericalInstability naming the
// first offending (row, col) when m holds NaN or ±Inf.
func ValidateFinite(tag string, m *mat.Dense) error {
	if m == nil || m.IsEmpty() {
		return nil
	}
	r, c := m.Dims()
	var row []float64
	for i := 0; i < r; i++ {
		row = m.RawRowView(i)
		for j := 0; j < c; j++ {
			if !IsFinite(row[j]) {
				return fmt.Errorf("%s: non-finite value at (%d,%d): %w", tag, i, j, pce.ErrNumericalInstability)
			}
		}
	}

	return nil
}

// Sanitize replaces NaN by 0 and ±Inf by ±bound in place and returns the
// number of replaced entries. Used for local recovery inside iterative loops.
func Sanitize(xs []float64, bound float64) int {
	var fixed int
	for i, v := range xs {
		switch {
		case math.IsNaN(v):
			xs[i] = 0
			fixed++
		case math.IsInf(v, 1):
			xs[i] = bound
			fixed++
		case math.IsInf(v, -1):
			xs[i] = -bound
			fixed++
		}
	}

	return fixed
}
