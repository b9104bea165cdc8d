// Package evolution implements the E3DE stage: a generational optimiser over
// named populations of real-valued genomes seeded from the embedding.
//
// Lifecycle:
//
//	e, _ := evolution.NewEngine(cfg)
//	_ = e.CreatePopulation("cortex", 20, 16, emb)   // size ≥ 2, genome length ≥ 1
//	m, _ := e.EvolvePopulation(ctx, "cortex", 10)   // generations ≤ 0 ⇒ stats only
//
// One generation:
//
//  1. Elites (best fitness, ties by insertion index) are copied unchanged.
//  2. Parents are chosen by tournament (ties → lower index) or linear rank.
//  3. Uniform crossover with CrossoverRate, per-gene Gaussian mutation with
//     MutationRate/MutationScale, genes clamped to ±GeneBound.
//  4. The new generation (same size) is re-evaluated in parallel.
//
// Fitness ∈ [0,1]:
//
//	alignment: mean_k |cos(g, t_k)| over the tiled, non-zero entity vectors t_k
//	resource:  alignment / (1 + λ·mean|g|)
//
// Determinism: each population owns a *rand.Rand seeded from
// DeriveSeed(Config.Seed, fnv64(name)); fitness evaluation runs on a bounded
// github.com/sourcegraph/conc pool but writes results by index, so worker
// count never changes the outcome.
package evolution
