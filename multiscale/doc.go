// Package multiscale implements the HDTS stage: a hierarchy of coupled
// continuous-time rate models, one level per scale, integrated with explicit
// Euler or classical RK4.
//
// Construction (N entities, D dimensions, S scales, D ≥ S):
//
//	columns are split into S contiguous chunks (remainder to finer levels);
//	level l: τ_l = τ₀·growthˡ, x_l(0) = b_l = column means of its chunk,
//	W_l = gain·Cov_l / max|Cov_l| (zero when N < 2 or degenerate).
//
// Dynamics (all levels read one snapshot, i.e. synchronous update):
//
//	dx_l/dt = (−x_l + tanh(W_l x_l + b_l + κ_up·mean(x_{l−1}))) / τ'_l
//	τ'_l    = τ_l / (1 + κ_down·|mean(x_{l+1})|)
//
// Complexity metric:
//
//	D̄ = mean_l s_l/(1+s_l), s_l = std of the level-mean trajectory
//	Ī = mean |corr(level l, level l+1)|  (1 for a single level)
//	complexity = D̄·Ī ∈ [0,1)
//
// Synchrony (reported, not weighted): mean over adjacent level pairs of
// 1/(1 + DTW/n) on z-scored level-mean trajectories, optionally banded by
// SyncWindow.
//
// A non-finite state truncates the run at the last stable step and marks the
// result Partial; exceeding MaxSteps marks it Capped.
package multiscale
