// Package integration implements the CIS stage: it folds the four upstream
// results into a single integration value phi, a bounded level and a category.
//
// Sub-scores (each clamped to [0,1]):
//
//	accessibility = global efficiency of the connectome
//	coherence     = Q-LEM coherence
//	fitness       = blend·best + (1−blend)·mean of the E3DE population
//	complexity    = HDTS hierarchical complexity
//
// Aggregation:
//
//	φ* = Σ_k w_k·s_k                       (weights sum to 1)
//	φ₀ = 0, φ_{k+1} = (1−r)·φ_k + r·φ*     (early exit when |Δφ| < tolerance)
//	level = clamp(φ, 0, 1); category = last table row with lower ≤ level
//
// φ_k is monotone in k and converges to φ*, so more cycles never destabilise
// the result.
package integration
