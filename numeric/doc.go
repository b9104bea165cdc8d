// Package numeric centralises the small numeric kernels every pipeline stage
// leans on: finite-value validation, row/column normalisation, softmax,
// cosine similarity, clamping and deterministic RNG derivation.
//
// Policy:
//
//   - Pure functions, no hidden state, no randomness unless an explicit
//     *rand.Rand is passed in.
//   - Inputs are never mutated, except by Sanitize (local recovery in loops).
//   - Degenerate rows/columns (zero norm, zero variance) are left as zeros
//     rather than producing NaN.
//
// Dense matrices are gonum *mat.Dense; vectors are plain []float64 so that
// gonum/floats and gonum/stat can be applied directly.
package numeric
