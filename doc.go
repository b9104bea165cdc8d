// Package pce is a pan-omics integration engine: it turns a multi-layer
// biological dataset into a single bounded "integration" metric by pushing it
// through a deterministic five-stage pipeline.
//
// What is inside?
//
//	hypergraph/  MOGIL: hypergraph construction over omics features + message-passing embedding
//	embedding/   immutable entity → vector store shared by every downstream stage
//	entropy/     Q-LEM: entropy minimisation over a softmax field, yields coherence
//	evolution/   E3DE: generational optimiser over embedding-seeded genomes
//	multiscale/  HDTS: coupled multi-scale dynamics, yields hierarchical complexity
//	connectome/  similarity network, BFS, global efficiency, PageRank, spanning backbone
//	integration/ CIS: weighted aggregation into phi, level and category
//	pipeline/    explicit pipeline context, parallel orchestration, reports
//	dataset/     multi-layer dataset model + synthetic profiles
//	config/      per-stage configuration, YAML/env loading
//	export/      YAML persistence of metrics and reports
//	cmd/pce/     cobra CLI: analyze, config init|show, profiles
//	examples/    runnable quick and step-by-step programs
//
// Data flow:
//
//	Dataset ─► Hypergraph ─► Embedding ─┬─► Q-LEM ──────┐
//	                                    ├─► E3DE ───────┤
//	                                    ├─► HDTS ───────┼─► CIS ─► Metrics
//	                                    └─► Connectome ─┘
//
// The three middle stages have no data dependency on one another and run in
// parallel; CIS waits for all of them.
//
// Guarantees:
//
//   - No global state: every run is parameterised by an explicit config and seed.
//   - Identical dataset + config + seed ⇒ bit-identical hypergraph and embedding.
//   - Every long-running loop has a hard step cap and honours context cancellation.
//   - Failures are one of four kinds (see errors.go) and carry stage context.
//
// This root package only holds the shared error kinds; start from
// pipeline.QuickAnalysis or pipeline.NewSystem.
package pce
