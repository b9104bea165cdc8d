// SPDX-License-Identifier: MIT

package connectome_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/connectome"
	"github.com/katalvlaran/pce/embedding"
)

// chain embeds A–B–C–D as a path (adjacent vectors 60° apart) plus an isolated E.
func chain(t *testing.T) *connectome.Connectome {
	t.Helper()
	// unit vectors in the plane at 0°, 60°, 120°, 180° and an orthogonal axis
	data := []float64{
		1, 0, 0,
		0.5, 0.8660254037844386, 0,
		-0.5, 0.8660254037844386, 0,
		-1, 0, 0,
		0, 0, 1,
	}
	emb, err := embedding.New([]string{"A", "B", "C", "D", "E"}, mat.NewDense(5, 3, data))
	require.NoError(t, err)
	c, err := connectome.Build(emb, 0.45)
	require.NoError(t, err)

	return c
}

func TestBuild(t *testing.T) {
	c := chain(t)
	assert.Equal(t, 5, c.NumNodes())
	assert.Equal(t, 3, c.NumEdges())
	nb, err := c.Neighbors("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, nb)
	w, ok := c.Weight("A", "B")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, w, 1e-12)
	w2, ok := c.Weight("B", "A")
	assert.True(t, ok)
	assert.Equal(t, w, w2, "links are symmetric")
	_, ok = c.Weight("A", "C")
	assert.False(t, ok)
}

func TestBuildErrors(t *testing.T) {
	empty, _ := embedding.New(nil, nil)
	_, err := connectome.Build(empty, 0.5)
	assert.True(t, errors.Is(err, pce.ErrEmptyInput))

	emb, _ := embedding.New([]string{"a"}, mat.NewDense(1, 1, []float64{1}))
	for _, th := range []float64{0, -0.2, 1.1} {
		_, err = connectome.Build(emb, th)
		assert.True(t, errors.Is(err, pce.ErrInvalidConfiguration), "threshold %v", th)
	}
}

func TestTraverse(t *testing.T) {
	c := chain(t)
	tr, err := c.Traverse(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, tr.Order)
	assert.Equal(t, 3, tr.Depth["D"])
	path, err := tr.PathTo("D")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, path)
	_, err = tr.PathTo("E")
	assert.Error(t, err)

	tr, err = c.Traverse(context.Background(), "A", connectome.WithMaxDepth(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tr.Order)

	tr, err = c.Traverse(context.Background(), "B", connectome.WithFilterNeighbor(func(_, n string) bool { return n != "A" }))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D"}, tr.Order)
}

func TestTraverseErrors(t *testing.T) {
	c := chain(t)
	_, err := c.Traverse(context.Background(), "Z")
	assert.True(t, errors.Is(err, connectome.ErrStartNotFound))
	_, err = c.Traverse(context.Background(), "A", connectome.WithMaxDepth(-1))
	assert.True(t, errors.Is(err, connectome.ErrOptionViolation))

	stop := errors.New("stop")
	_, err = c.Traverse(context.Background(), "A", connectome.WithOnVisit(func(id string, _ int) error {
		if id == "C" {
			return stop
		}

		return nil
	}))
	assert.True(t, errors.Is(err, stop))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Traverse(ctx, "A")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSummarize(t *testing.T) {
	c := chain(t)
	s, err := c.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, s.Nodes)
	assert.Equal(t, 3, s.Edges)
	assert.InDelta(t, 3.0/10, s.Density, 1e-12)
	assert.InDelta(t, 6.0/5, s.MeanDegree, 1e-12)
	// path of 4: ordered pairs at distance 1,2,3 → 6,4,2 ; 20 ordered pairs total
	assert.InDelta(t, (6+4.0/2+2.0/3)/20, s.Accessibility, 1e-12)
	assert.InDelta(t, 12.0/20, s.Reachability, 1e-12)
	assert.Greater(t, s.MaxPageRank, 0.0)
	assert.LessOrEqual(t, s.MaxPageRank, 1.0)
}

func TestSummarizeDegenerate(t *testing.T) {
	emb, _ := embedding.New([]string{"solo"}, mat.NewDense(1, 2, []float64{1, 0}))
	c, err := connectome.Build(emb, 0.5)
	require.NoError(t, err)
	s, err := c.Summarize(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.Accessibility)
	assert.Zero(t, s.Density)
	assert.Equal(t, 1.0, s.MaxPageRank)
	assert.Equal(t, "solo", s.Hub)

	// complete graph: efficiency 1
	full, _ := embedding.New([]string{"a", "b", "c"}, mat.NewDense(3, 2, []float64{1, 0, 1, 0.01, 1, -0.01}))
	c, err = connectome.Build(full, 0.9)
	require.NoError(t, err)
	s, err = c.Summarize(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1, s.Accessibility, 1e-12)
	assert.InDelta(t, 1, s.Density, 1e-12)
}

func TestBackbone(t *testing.T) {
	bb := chain(t).Backbone()
	assert.Equal(t, 2, bb.Components, "path plus isolated E")
	assert.Len(t, bb.Links, 3)
	assert.InDelta(t, 1.5, bb.Weight, 1e-12)
	for _, l := range bb.Links {
		assert.NotEqual(t, "E", l.From)
		assert.NotEqual(t, "E", l.To)
	}

	// 0°, 30°, 60°: the weakest link A–C closes a cycle and is dropped.
	s := 0.5
	c30 := 0.8660254037844386
	emb, err := embedding.New([]string{"A", "B", "C"}, mat.NewDense(3, 2, []float64{1, 0, c30, s, s, c30}))
	require.NoError(t, err)
	tri, err := connectome.Build(emb, 0.45)
	require.NoError(t, err)
	require.Equal(t, 3, tri.NumEdges())
	bb = tri.Backbone()
	assert.Equal(t, 1, bb.Components)
	require.Len(t, bb.Links, 2)
	for _, l := range bb.Links {
		assert.NotEqual(t, connectome.Link{From: "A", To: "C", Weight: l.Weight}, l)
		assert.InDelta(t, c30, l.Weight, 1e-9)
	}

	sum, err := tri.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Components)
	assert.InDelta(t, 2*c30, sum.BackboneWeight, 1e-9)
}

// Equal similarities resolve in embedding order, not id order.
func TestBackbone_TiesKeepEmbeddingOrder(t *testing.T) {
	emb, err := embedding.New([]string{"c", "b", "a"}, mat.NewDense(3, 3, []float64{
		1, 1, 0,
		1, 0, 1,
		0, 1, 1,
	}))
	require.NoError(t, err)
	c, err := connectome.Build(emb, 0.45)
	require.NoError(t, err)
	require.Equal(t, 3, c.NumEdges())

	bb := c.Backbone()
	require.Len(t, bb.Links, 2)
	assert.Equal(t, "c", bb.Links[0].From)
	assert.Equal(t, "b", bb.Links[0].To)
	assert.Equal(t, "c", bb.Links[1].From)
	assert.Equal(t, "a", bb.Links[1].To)
	assert.Equal(t, bb.Links[0].Weight, bb.Links[1].Weight)
}
