// Package hypergraph implements the MOGIL stage: a thread-safe hypergraph over
// omics entities and the encoder that builds one from a dataset and turns it
// into an embedding by message passing.
//
// Structure:
//
//   - Node:       one entity (a feature "layer:feature" or a sample), with its
//     z-scored profile.
//   - Hyperedge:  a weighted set of ≥1 node ids, IDs "h1", "h2", ... assigned
//     by an atomic counter; Kind is cross-layer when members span >1 layer.
//   - Hypergraph: RWMutex-guarded; Nodes() in insertion order, Hyperedges() in
//     creation order, Neighbors() sorted by id.
//
// Encoder:
//
//	Build:  Pearson correlation of profiles; every node seeds one hyperedge
//	        {i} ∪ {j : |C_ij| ≥ threshold}; identical member sets keep the first.
//	Encode: X₀ = P·R (seeded Gaussian projection), clique-expanded transition
//	        M = D⁻¹A, X ← (1−α)X + αMX for the configured rounds, isolated
//	        nodes zeroed, rows normalised (l2 or per-column zscore).
//
// Determinism:
//
//	Same dataset + Config (incl. Seed) ⇒ bit-identical hypergraph and embedding.
//
// Errors:
//
//	pce.ErrEmptyInput          - zero samples, zero features or an empty hypergraph.
//	pce.ErrNumericalInstability - non-finite embedding after propagation.
//	ErrNodeNotFound / ErrDuplicateNode / ErrEmptyHyperedge / ErrBadWeight for
//	structure misuse.
package hypergraph
