// SPDX-License-Identifier: MIT
// Package: connectome
//
// connectome.go: similarity network construction and neighbour queries.

package connectome

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/embedding"
	"github.com/katalvlaran/pce/numeric"
)

// ErrStartNotFound is returned when a traversal starts at an unknown entity.
var ErrStartNotFound = errors.New("connectome: start entity not found")

// Connectome is an immutable undirected similarity network.
type Connectome struct {
	ids       []string
	index     map[string]int64
	g         *simple.WeightedDirectedGraph
	neighbors [][]string // sorted by id
	edges     int
	threshold float64
}

// Build links every pair of entities whose cosine similarity reaches threshold.
// threshold must lie in (0, 1].
func Build(emb *embedding.Embedding, threshold float64) (*Connectome, error) {
	const method = "connectome.Build"
	if emb == nil || emb.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", method, pce.ErrEmptyInput)
	}
	if !(threshold > 0 && threshold <= 1) {
		return nil, fmt.Errorf("%s: threshold %v outside (0,1]: %w", method, threshold, pce.ErrInvalidConfiguration)
	}

	n := emb.Len()
	c := &Connectome{
		ids:       emb.IDs(),
		index:     make(map[string]int64, n),
		g:         simple.NewWeightedDirectedGraph(0, 0),
		neighbors: make([][]string, n),
		threshold: threshold,
	}
	rows := make([][]float64, n)
	for i, id := range c.ids {
		c.index[id] = int64(i)
		c.g.AddNode(simple.Node(int64(i)))
		rows[i] = emb.Row(i)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := numeric.Cosine(rows[i], rows[j])
			if w < threshold {
				continue
			}
			c.g.SetWeightedEdge(c.g.NewWeightedEdge(simple.Node(int64(i)), simple.Node(int64(j)), w))
			c.g.SetWeightedEdge(c.g.NewWeightedEdge(simple.Node(int64(j)), simple.Node(int64(i)), w))
			c.neighbors[i] = append(c.neighbors[i], c.ids[j])
			c.neighbors[j] = append(c.neighbors[j], c.ids[i])
			c.edges++
		}
	}
	for i := range c.neighbors {
		sort.Strings(c.neighbors[i])
	}

	return c, nil
}

// NumNodes returns the number of entities.
func (c *Connectome) NumNodes() int { return len(c.ids) }

// NumEdges returns the number of undirected links.
func (c *Connectome) NumEdges() int { return c.edges }

// Threshold returns the similarity threshold used by Build.
func (c *Connectome) Threshold() float64 { return c.threshold }

// IDs returns entity ids in embedding order.
func (c *Connectome) IDs() []string { return append([]string(nil), c.ids...) }

// HasNode reports whether id is part of the network.
func (c *Connectome) HasNode(id string) bool {
	_, ok := c.index[id]

	return ok
}

// Neighbors returns the sorted neighbour ids of id.
func (c *Connectome) Neighbors(id string) ([]string, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("connectome.Neighbors(%q): %w", id, ErrStartNotFound)
	}

	return append([]string(nil), c.neighbors[i]...), nil
}

// Weight returns the similarity of the link u–v, or false when absent.
func (c *Connectome) Weight(u, v string) (float64, bool) {
	iu, ok1 := c.index[u]
	iv, ok2 := c.index[v]
	if !ok1 || !ok2 || iu == iv {
		return 0, false
	}
	e := c.g.WeightedEdge(iu, iv)
	if e == nil {
		return 0, false
	}

	return e.Weight(), true
}
