// SPDX-License-Identifier: MIT
// Package hypergraph_test verifies structure contracts: ordering, dedup,
// incidence and concurrency safety.

package hypergraph_test

import (
	"errors"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pce/hypergraph"
)

type StructureSuite struct {
	suite.Suite
	h *hypergraph.Hypergraph
}

func (s *StructureSuite) SetupTest() {
	s.h = hypergraph.New()
	for _, n := range []hypergraph.Node{
		{ID: "rna:a", Layer: "rna"},
		{ID: "rna:b", Layer: "rna"},
		{ID: "prot:c", Layer: "prot"},
		{ID: "prot:d", Layer: "prot"},
	} {
		s.Require().NoError(s.h.AddNode(n))
	}
}

func (s *StructureSuite) TestAddNodeErrors() {
	s.ErrorIs(s.h.AddNode(hypergraph.Node{}), hypergraph.ErrEmptyNodeID)
	s.ErrorIs(s.h.AddNode(hypergraph.Node{ID: "rna:a"}), hypergraph.ErrDuplicateNode)
}

func (s *StructureSuite) TestAddHyperedgeKindsAndIDs() {
	id1, created, err := s.h.AddHyperedge([]string{"rna:a", "rna:b"}, 0.8)
	s.Require().NoError(err)
	s.True(created)
	s.Equal("h1", id1)

	id2, _, err := s.h.AddHyperedge([]string{"rna:a", "prot:c", "rna:a"}, 0.7)
	s.Require().NoError(err)
	s.Equal("h2", id2)

	edges := s.h.Hyperedges()
	s.Require().Len(edges, 2)
	s.Equal(hypergraph.KindCoExpression, edges[0].Kind)
	s.Equal(hypergraph.KindCrossLayer, edges[1].Kind)
	s.Equal([]string{"rna:a", "prot:c"}, edges[1].Members, "duplicates collapsed, order kept")
}

func (s *StructureSuite) TestFirstWinsDedup() {
	id1, _, err := s.h.AddHyperedge([]string{"rna:a", "rna:b"}, 0.9)
	s.Require().NoError(err)
	id2, created, err := s.h.AddHyperedge([]string{"rna:b", "rna:a"}, 0.1)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(id1, id2)
	s.Equal(1, s.h.NumEdges())
	s.Equal(0.9, s.h.Hyperedges()[0].Weight)
}

func (s *StructureSuite) TestAddHyperedgeErrors() {
	_, _, err := s.h.AddHyperedge(nil, 1)
	s.ErrorIs(err, hypergraph.ErrEmptyHyperedge)
	_, _, err = s.h.AddHyperedge([]string{"rna:a", "ghost"}, 1)
	s.ErrorIs(err, hypergraph.ErrNodeNotFound)
	for _, w := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, _, err = s.h.AddHyperedge([]string{"rna:a"}, w)
		s.ErrorIs(err, hypergraph.ErrBadWeight)
	}
	s.Zero(s.h.NumEdges())
}

func (s *StructureSuite) TestQueries() {
	_, _, _ = s.h.AddHyperedge([]string{"rna:a", "prot:d"}, 0.7)
	_, _, _ = s.h.AddHyperedge([]string{"rna:a", "rna:b", "prot:c"}, 0.65)

	nb, err := s.h.Neighbors("rna:a")
	s.Require().NoError(err)
	s.Equal([]string{"prot:c", "prot:d", "rna:b"}, nb)
	s.Equal(2, s.h.Degree("rna:a"))
	s.Equal(0, s.h.Degree("ghost"))

	inc, err := s.h.Incident("rna:b")
	s.Require().NoError(err)
	s.Require().Len(inc, 1)
	s.Equal("h2", inc[0].ID)

	_, err = s.h.Neighbors("ghost")
	s.ErrorIs(err, hypergraph.ErrNodeNotFound)

	st := s.h.Stats()
	s.Equal(4, st.NumNodes)
	s.Equal(2, st.NumEdges)
	s.Equal(2, st.NumLayers)
	s.Equal(2, st.CrossLayer)
	s.Equal(0, st.Isolated)
	s.Equal(3, st.MaxEdgeSize)
	s.InDelta(2.5, st.MeanEdgeSize, 1e-12)
}

func (s *StructureSuite) TestNodesInsertionOrder() {
	s.Equal([]string{"rna:a", "rna:b", "prot:c", "prot:d"}, s.h.NodeIDs())
}

func TestStructureSuite(t *testing.T) {
	suite.Run(t, new(StructureSuite))
}

// TestConcurrentAddHyperedge hammers AddHyperedge from many goroutines; IDs
// must stay unique and every distinct member set must be stored once.
func TestConcurrentAddHyperedge(t *testing.T) {
	h := hypergraph.New()
	const n = 32
	for i := 0; i < n; i++ {
		require.NoError(t, h.AddNode(hypergraph.Node{ID: strconv.Itoa(i), Layer: "x"}))
	}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n-1; i++ {
				_, _, err := h.AddHyperedge([]string{strconv.Itoa(i), strconv.Itoa(i + 1)}, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, n-1, h.NumEdges())
	seen := map[string]bool{}
	for _, e := range h.Hyperedges() {
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}
	_, err := h.Node("0")
	assert.NoError(t, err)
	_, err = h.Node("missing")
	assert.True(t, errors.Is(err, hypergraph.ErrNodeNotFound))
}
