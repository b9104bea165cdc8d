// SPDX-License-Identifier: MIT
// Package: pipeline
//
// report.go: the structured consciousness report.

package pipeline

import (
	"github.com/katalvlaran/pce/integration"
)

// Report is a nested name → value mapping ready for YAML or JSON encoding.
// Sections whose stage has not run are omitted and listed under "incomplete".
type Report map[string]any

// Section names, in pipeline order.
const (
	SectionRun        = "run"
	SectionDataset    = "dataset"
	SectionHypergraph = "hypergraph"
	SectionEmbedding  = "embedding"
	SectionQLEM       = "qlem"
	SectionE3DE       = "e3de"
	SectionHDTS       = "hdts"
	SectionConnectome = "connectome"
	SectionCIS        = "cis"
	SectionMetrics    = "metrics"
	SectionIncomplete = "incomplete"
	SectionPartial    = "partial"
)

// ConsciousnessReport snapshots every intermediate score and the final metrics.
func (s *System) ConsciousnessReport() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := Report{
		SectionRun: map[string]any{
			"id":   s.runID,
			"seed": s.cfg.Seed,
		},
	}
	var missing []string
	need := func(name string, ok bool) bool {
		if !ok {
			missing = append(missing, name)
		}

		return ok
	}

	if need(SectionDataset, s.ds != nil) {
		r[SectionDataset] = map[string]any{
			"samples":  s.ds.NumSamples(),
			"features": s.ds.NumFeatures(),
			"layers":   s.ds.LayerNames(),
		}
	}
	if need(SectionHypergraph, s.graph != nil) {
		st := s.graph.Stats()
		r[SectionHypergraph] = map[string]any{
			"num_nodes":         st.NumNodes,
			"num_edges":         st.NumEdges,
			"num_layers":        st.NumLayers,
			"cross_layer_edges": st.CrossLayer,
			"isolated_nodes":    st.Isolated,
			"mean_edge_size":    st.MeanEdgeSize,
			"max_edge_size":     st.MaxEdgeSize,
			"mean_weight":       st.MeanWeight,
		}
	}
	if need(SectionEmbedding, s.emb != nil) {
		r[SectionEmbedding] = map[string]any{
			"entities":  s.emb.Len(),
			"dimension": s.emb.Dim(),
		}
	}
	partial := map[string]bool{}
	if need(SectionQLEM, s.qlem != nil) {
		q := s.qlem
		r[SectionQLEM] = map[string]any{
			"coherence":         q.Coherence,
			"initial_entropy":   q.InitialEntropy,
			"final_entropy":     q.FinalEntropy,
			"alignment":         q.Alignment,
			"initial_objective": q.InitialObjective,
			"final_objective":   q.FinalObjective,
			"steps":             q.Steps,
			"converged":         q.Converged,
			"recoveries":        q.Recoveries,
		}
		partial[SectionQLEM] = q.Partial
	}
	if need(SectionE3DE, s.e3de != nil) {
		m := s.e3de
		r[SectionE3DE] = map[string]any{
			"population":        m.Population,
			"generations":       m.Generations,
			"total_generations": m.TotalGenerations,
			"capped":            m.Capped,
			"best_fitness":      m.BestFitness,
			"mean_fitness":      m.MeanFitness,
			"fitness_variance":  m.FitnessVariance,
			"diversity":         m.Diversity,
			"best_trajectory":   m.BestTrajectory,
			"mean_trajectory":   m.MeanTrajectory,
		}
	}
	if need(SectionHDTS, s.hdts != nil) {
		h := s.hdts
		levels := 0
		if s.bio != nil {
			levels = s.bio.NumLevels()
		}
		r[SectionHDTS] = map[string]any{
			"levels":          levels,
			"steps":           h.Steps,
			"capped":          h.Capped,
			"differentiation": h.Differentiation,
			"integration":     h.Integration,
			"complexity":      h.Complexity,
			"synchrony":       h.Synchrony,
		}
		partial[SectionHDTS] = h.Partial
	}
	if need(SectionConnectome, s.summary != nil) {
		c := s.summary
		r[SectionConnectome] = map[string]any{
			"nodes":                c.Nodes,
			"edges":                c.Edges,
			"density":              c.Density,
			"mean_degree":          c.MeanDegree,
			"reachability":         c.Reachability,
			"global_accessibility": c.Accessibility,
			"max_pagerank":         c.MaxPageRank,
			"hub":                  c.Hub,
			"components":           c.Components,
			"backbone_weight":      c.BackboneWeight,
		}
	}
	if need(SectionCIS, s.cis != nil) {
		c := s.cis
		r[SectionCIS] = map[string]any{
			"target":     c.Target,
			"cycles":     c.Cycles,
			"converged":  c.Converged,
			"trajectory": c.Trajectory,
			"sub_scores": subScores(c.SubScores),
		}
		r[SectionMetrics] = c.Metrics.AsMap()
	}
	if len(missing) > 0 {
		r[SectionIncomplete] = missing
	}
	if len(partial) > 0 {
		r[SectionPartial] = partial
	}

	return r
}

func subScores(s integration.SubScores) map[string]any {
	return map[string]any{
		"accessibility": s.Accessibility,
		"coherence":     s.Coherence,
		"fitness":       s.Fitness,
		"complexity":    s.Complexity,
	}
}
