// Package connectome builds the similarity network over embedded entities and
// measures how freely information can travel across it.
//
// What
//
//   - Build: undirected network stored as a gonum simple.WeightedDirectedGraph
//     with symmetric arcs; entities i<j are linked iff cos(x_i, x_j) ≥ threshold,
//     weighted by the cosine.
//   - Traverse: breadth-first search over neighbours sorted by id, with
//     OnVisit / FilterNeighbor hooks, WithMaxDepth and context cancellation;
//     the result reconstructs shortest hop paths via PathTo.
//   - Summarize: nodes, edges, density, mean degree, reachability, global
//     efficiency (used as the global accessibility sub-score) and the
//     maximum PageRank (gonum graph/network, damping 0.85), and the
//     component count and weight of the backbone.
//   - Backbone: maximum-similarity spanning forest (Kruskal, union-find).
//
// Determinism
//
//	Neighbours are visited in sorted id order, so traversal order and every
//	summary value are reproducible.
//
// Complexity (N entities, E edges, D dimensions)
//
//   - Build:     O(N²·D)
//   - Traverse:  O(N + E)
//   - Summarize: O(N·(N + E)) for all-pairs BFS, plus PageRank iterations.
//   - Backbone:  O(E log E)
package connectome
