// SPDX-License-Identifier: MIT
// Package: connectome
//
// backbone.go: maximum-similarity spanning forest (Kruskal).
//
// Steps:
//  1. Collect every link (i<j) in row-major embedding order.
//  2. Stable-sort by descending similarity; ties keep that order.
//  3. Union-find with path compression and union by rank; keep a link when
//     its endpoints lie in different components.
//
// A connected network yields N−1 links; otherwise one tree per component.
// Complexity: O(N² + E log E + α(N)·E).

package connectome

import (
	"sort"
)

// Link is one undirected edge of the network.
type Link struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Weight float64 `yaml:"weight"`
}

// Backbone is the maximum-similarity spanning forest.
type Backbone struct {
	Links      []Link  `yaml:"links"`
	Weight     float64 `yaml:"weight"`
	Components int     `yaml:"components"`
}

type dsu struct {
	parent []int
	rank   []int
}

func newDSU(n int) *dsu {
	d := &dsu{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}

	return d
}

func (d *dsu) find(u int) int {
	for d.parent[u] != u {
		d.parent[u] = d.parent[d.parent[u]]
		u = d.parent[u]
	}

	return u
}

// union merges the sets of u and v and reports whether they were disjoint.
func (d *dsu) union(u, v int) bool {
	ru, rv := d.find(u), d.find(v)
	if ru == rv {
		return false
	}
	if d.rank[ru] < d.rank[rv] {
		ru, rv = rv, ru
	}
	d.parent[rv] = ru
	if d.rank[ru] == d.rank[rv] {
		d.rank[ru]++
	}

	return true
}

// Backbone returns the maximum-similarity spanning forest.
func (c *Connectome) Backbone() Backbone {
	n := len(c.ids)
	type arc struct {
		u, v int
		w    float64
	}
	arcs := make([]arc, 0, c.edges)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if e := c.g.WeightedEdge(int64(u), int64(v)); e != nil {
				arcs = append(arcs, arc{u: u, v: v, w: e.Weight()})
			}
		}
	}
	sort.SliceStable(arcs, func(i, j int) bool { return arcs[i].w > arcs[j].w })

	b := Backbone{Components: n}
	sets := newDSU(n)
	for _, a := range arcs {
		if !sets.union(a.u, a.v) {
			continue
		}
		b.Links = append(b.Links, Link{From: c.ids[a.u], To: c.ids[a.v], Weight: a.w})
		b.Weight += a.w
		b.Components--
		if b.Components == 1 {
			break
		}
	}

	return b
}
