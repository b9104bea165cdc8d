// SPDX-License-Identifier: MIT
// Package: connectome
//
// summary.go: global network measures.
//
//	density       = E / (N(N−1)/2)
//	mean degree   = 2E / N
//	reachability  = reachable ordered pairs / (N(N−1))
//	efficiency    = (1/(N(N−1))) Σ_{i≠j} 1/d_ij   (d_ij in hops; unreachable → 0)
//	components    = trees of the maximum-similarity spanning forest
//
// N < 2 yields zero density, reachability and efficiency.

package connectome

import (
	"context"

	"gonum.org/v1/gonum/graph/network"

	"github.com/katalvlaran/pce/numeric"
)

// PageRank parameters.
const (
	Damping           = 0.85
	PageRankTolerance = 1e-6
)

// Summary holds global measures of the network.
type Summary struct {
	Nodes          int     `yaml:"nodes"`
	Edges          int     `yaml:"edges"`
	Density        float64 `yaml:"density"`
	MeanDegree     float64 `yaml:"mean_degree"`
	Reachability   float64 `yaml:"reachability"`
	Accessibility  float64 `yaml:"global_accessibility"`
	MaxPageRank    float64 `yaml:"max_pagerank"`
	Hub            string  `yaml:"hub"`
	Components     int     `yaml:"components"`
	BackboneWeight float64 `yaml:"backbone_weight"`
}

// Summarize computes every global measure; ctx is checked per source vertex.
func (c *Connectome) Summarize(ctx context.Context) (Summary, error) {
	n := len(c.ids)
	s := Summary{Nodes: n, Edges: c.edges}
	if n == 0 {
		return s, nil
	}
	s.MeanDegree = 2 * float64(c.edges) / float64(n)

	if n >= 2 {
		pairs := float64(n * (n - 1))
		s.Density = numeric.Clamp01(float64(c.edges) / (pairs / 2))

		var inv, reach float64
		for _, src := range c.ids {
			if err := ctx.Err(); err != nil {
				return s, err
			}
			tr, err := c.Traverse(ctx, src)
			if err != nil {
				return s, err
			}
			for id, d := range tr.Depth {
				if id != src {
					inv += 1 / float64(d)
					reach++
				}
			}
		}
		s.Accessibility = numeric.Clamp01(inv / pairs)
		s.Reachability = numeric.Clamp01(reach / pairs)
	}

	s.MaxPageRank, s.Hub = c.pageRank()
	bb := c.Backbone()
	s.Components, s.BackboneWeight = bb.Components, bb.Weight

	return s, nil
}

// pageRank returns the largest PageRank score and its entity (lowest id on ties).
// An edgeless network is uniform.
func (c *Connectome) pageRank() (float64, string) {
	n := len(c.ids)
	if c.edges == 0 {
		return 1 / float64(n), c.minID()
	}
	ranks := network.PageRank(c.g, Damping, PageRankTolerance)
	best, hub := -1.0, ""
	for i, id := range c.ids {
		r := ranks[int64(i)]
		if r > best || (r == best && id < hub) {
			best, hub = r, id
		}
	}

	return best, hub
}

func (c *Connectome) minID() string {
	m := c.ids[0]
	for _, id := range c.ids[1:] {
		if id < m {
			m = id
		}
	}

	return m
}
