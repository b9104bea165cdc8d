// Package entropy implements the Q-LEM stage: entropy minimisation over a
// softmax probability field derived from the embedding.
//
// Every entity i carries logits z_i ∈ ℝᴰ and a distribution p_i = softmax(z_i).
//
//	H̄ = (1/N) Σ_i H(p_i) / log D              normalised mean entropy ∈ [0,1]
//	A = 1/(N(N−1)) Σ_{i≠j} ⟨p_i, p_j⟩          cross-entity alignment ∈ [0,1]
//	J = w_H·H̄ − w_A·A                          objective (minimised)
//
// MinimizeEntropy runs gradient descent with an analytic gradient through the
// softmax and a backtracking line search, so J never increases. The result
// reports coherence = clamp(1 − H̄, 0, 1).
//
// Numerical policy:
//
//   - Logits are clipped to ±LogitBound; log p uses p ≥ ProbabilityFloor.
//   - Non-finite gradients or candidates are sanitised and the step shrunk.
//     MaxInstability consecutive steps that needed sanitising abort with a
//     *pce.StageError (stage "qlem") wrapping pce.ErrNumericalInstability.
//     The last accepted state is still returned.
//   - A non-finite input state fails immediately.
package entropy
