// SPDX-License-Identifier: MIT
// Package: multiscale
//
// synchrony.go: shape agreement of adjacent levels via Dynamic Time Warping.
//
// Each level-mean trajectory is z-scored (flat trajectories become zeros),
// then adjacent pairs are aligned with DTW:
//
//	D[0][0] = 0, D[i][0] = D[0][j] = +∞
//	D[i][j] = |a_i − b_j| + min(D[i−1][j] + p, D[i][j−1] + p, D[i−1][j−1])
//
// restricted to |i − j| ≤ window when window > 0. Only two DP rows are kept.
// synchrony = mean over pairs of 1 / (1 + D[n][n]/n) ∈ (0, 1]; 1 for a single
// level, 0 without at least two samples.

package multiscale

import (
	"math"

	"github.com/katalvlaran/pce/numeric"
)

// warp returns the DTW distance of a and b. Both must be non-empty.
func warp(a, b []float64, window int, penalty float64) float64 {
	n, m := len(a), len(b)
	if window <= 0 {
		window = math.MaxInt32
	}
	inf := math.Inf(1)
	prev := make([]float64, m+1)
	curr := make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}
	for i := 1; i <= n; i++ {
		curr[0] = inf
		for j := 1; j <= m; j++ {
			if absInt(i-j) > window {
				curr[j] = inf

				continue
			}
			best := math.Min(prev[j-1], math.Min(prev[j]+penalty, curr[j-1]+penalty))
			curr[j] = math.Abs(a[i-1]-b[j-1]) + best
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

func synchrony(levelMeans [][]float64, window int, penalty float64) float64 {
	L := len(levelMeans)
	if L == 0 || len(levelMeans[0]) < 2 {
		return 0
	}
	if L == 1 {
		return 1
	}
	z := make([][]float64, L)
	for l, m := range levelMeans {
		z[l], _ = numeric.ZScore(m)
	}
	var sum float64
	for l := 0; l+1 < L; l++ {
		d := warp(z[l], z[l+1], window, penalty)
		if !numeric.IsFinite(d) {
			continue
		}
		sum += 1 / (1 + d/float64(len(z[l])))
	}

	return numeric.Clamp01(sum / float64(L-1))
}
