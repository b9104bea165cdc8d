// SPDX-License-Identifier: MIT

package dataset_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/dataset"
)

func twoLayer(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]string{"s1", "s2", "s3"},
		dataset.Layer{Name: "rna", Values: [][]float64{{1, 2}, {3, 4}, {5, 6}}},
		dataset.Layer{Name: "prot", Features: []string{"p"}, Values: [][]float64{{7}, {8}, {9}}},
	)
	require.NoError(t, err)

	return ds
}

func TestNew_Shape(t *testing.T) {
	ds := twoLayer(t)
	assert.Equal(t, 3, ds.NumSamples())
	assert.Equal(t, 3, ds.NumFeatures())
	assert.Equal(t, []string{"rna", "prot"}, ds.LayerNames())

	rna, err := ds.Layer("rna")
	require.NoError(t, err)
	assert.Equal(t, []string{"f0", "f1"}, rna.Features)
	assert.Equal(t, []float64{1, 2, 7}, ds.Row(0))
	assert.Equal(t, []float64{2, 4, 6}, ds.Column("rna", 1))
}

func TestNew_DeepCopy(t *testing.T) {
	vals := [][]float64{{1}, {2}}
	ds, err := dataset.New([]string{"a", "b"}, dataset.Layer{Name: "x", Values: vals})
	require.NoError(t, err)
	vals[0][0] = 99
	l, _ := ds.Layer("x")
	assert.Equal(t, 1.0, l.Values[0][0])
	l.Values[1][0] = 42
	assert.Equal(t, []float64{2}, ds.Row(1))
}

func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name     string
		samples  []string
		layers   []dataset.Layer
		sentinel error
		kind     error
	}{
		{"dup layer", []string{"a"}, []dataset.Layer{{Name: "x", Values: [][]float64{{1}}}, {Name: "x", Values: [][]float64{{1}}}}, dataset.ErrDuplicateLayer, pce.ErrInvalidConfiguration},
		{"empty layer name", []string{"a"}, []dataset.Layer{{Values: [][]float64{{1}}}}, dataset.ErrDuplicateLayer, pce.ErrInvalidConfiguration},
		{"dup sample", []string{"a", "a"}, nil, dataset.ErrDuplicateSample, pce.ErrInvalidConfiguration},
		{"row count", []string{"a", "b"}, []dataset.Layer{{Name: "x", Values: [][]float64{{1}}}}, dataset.ErrShape, pce.ErrInvalidConfiguration},
		{"ragged", []string{"a", "b"}, []dataset.Layer{{Name: "x", Values: [][]float64{{1, 2}, {1}}}}, dataset.ErrShape, pce.ErrInvalidConfiguration},
		{"feature names", []string{"a"}, []dataset.Layer{{Name: "x", Features: []string{"q", "q"}, Values: [][]float64{{1, 2}}}}, dataset.ErrShape, pce.ErrInvalidConfiguration},
		{"non-finite", []string{"a"}, []dataset.Layer{{Name: "x", Values: [][]float64{{math.NaN()}}}}, pce.ErrNumericalInstability, pce.ErrNumericalInstability},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dataset.New(tc.samples, tc.layers...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.sentinel), err.Error())
			assert.True(t, errors.Is(err, tc.kind), err.Error())
		})
	}
}

func TestNew_EmptyIsLegal(t *testing.T) {
	ds, err := dataset.New(nil)
	require.NoError(t, err)
	assert.Zero(t, ds.NumSamples())
	assert.Zero(t, ds.NumFeatures())
}

func TestWithMetadata(t *testing.T) {
	ds := twoLayer(t)
	annotated, err := ds.WithMetadata("prot", "p", "uniprot", "P12345")
	require.NoError(t, err)
	assert.Equal(t, "P12345", annotated.Metadata("prot")["p"]["uniprot"])
	assert.Nil(t, ds.Metadata("prot"), "original must stay untouched")
	assert.Equal(t, []string{"prot"}, annotated.MetadataLayers())

	_, err = ds.WithMetadata("nope", "p", "k", "v")
	assert.True(t, errors.Is(err, dataset.ErrUnknownLayer))
	_, err = ds.WithMetadata("prot", "zzz", "k", "v")
	assert.True(t, errors.Is(err, dataset.ErrShape))
}
