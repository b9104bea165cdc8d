// SPDX-License-Identifier: MIT

package entropy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/pce/numeric"
)

// TestGradientMatchesFiniteDifferences checks N·∂J/∂Z against central differences.
func TestGradientMatchesFiniteDifferences(t *testing.T) {
	rng := numeric.NewRand(5)
	const n, d = 4, 3
	z := make([]float64, n*d)
	for i := range z {
		z[i] = rng.NormFloat64()
	}
	st, err := NewState([]string{"a", "b", "c", "d"}, mat.NewDense(n, d, z))
	require.NoError(t, err)

	w := Weights{Entropy: 1, Alignment: 0.7}
	G := mat.NewDense(n, d, nil)
	st.gradient(w, G)

	const h = 1e-6
	for i := 0; i < n; i++ {
		for k := 0; k < d; k++ {
			plus, minus := st.clone(), st.clone()
			plus.logits.Set(i, k, plus.logits.At(i, k)+h)
			minus.logits.Set(i, k, minus.logits.At(i, k)-h)
			plus.refresh()
			minus.refresh()
			numericGrad := (plus.Objective(w) - minus.Objective(w)) / (2 * h)
			require.InDelta(t, numericGrad, G.At(i, k)/n, 1e-6, "(%d,%d)", i, k)
		}
	}
}
