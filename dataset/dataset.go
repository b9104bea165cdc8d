// SPDX-License-Identifier: MIT
// Package: dataset
//
// dataset.go: the validated multi-layer dataset model.
//
// Contract:
//   - New deep-copies its inputs; accessors deep-copy their outputs.
//   - Layer order is insertion order and is preserved everywhere.
//   - A Dataset is immutable; WithMetadata returns a new value.

package dataset

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/numeric"
)

// Layer is one omics table: Values[s][f] is feature f measured on sample s.
type Layer struct {
	Name     string
	Features []string
	Values   [][]float64
}

// Width returns the number of features of the layer.
func (l Layer) Width() int { return len(l.Features) }

// clone deep-copies the layer.
func (l Layer) clone() Layer {
	out := Layer{Name: l.Name, Features: append([]string(nil), l.Features...)}
	out.Values = make([][]float64, len(l.Values))
	for i, row := range l.Values {
		out.Values[i] = append([]float64(nil), row...)
	}

	return out
}

// Dataset is a validated, read-only collection of layers over shared samples.
type Dataset struct {
	samples []string
	layers  []Layer
	index   map[string]int
	// meta[layer][feature][key] = value
	meta map[string]map[string]map[string]string
}

// New validates and deep-copies samples and layers.
//
// Rules:
//   - sample names unique and non-empty (ErrDuplicateSample);
//   - layer names unique and non-empty (ErrDuplicateLayer);
//   - every layer has len(samples) rows, all of one width (ErrShape);
//   - feature names default to f0..f{w-1}, otherwise must match the width
//     and be unique within the layer (ErrShape);
//   - values must be finite (pce.ErrNumericalInstability).
//
// Zero samples and zero-width layers are accepted.
// Complexity: O(S·F) time and space.
func New(samples []string, layers ...Layer) (*Dataset, error) {
	const method = "dataset.New"

	d := &Dataset{
		samples: append([]string(nil), samples...),
		layers:  make([]Layer, 0, len(layers)),
		index:   make(map[string]int, len(layers)),
		meta:    make(map[string]map[string]map[string]string),
	}

	seen := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		if _, dup := seen[s]; dup || s == "" {
			return nil, wrapf(method, ErrDuplicateSample, pce.ErrInvalidConfiguration, "sample %q", s)
		}
		seen[s] = struct{}{}
	}

	for _, l := range layers {
		if _, dup := d.index[l.Name]; dup || l.Name == "" {
			return nil, wrapf(method, ErrDuplicateLayer, pce.ErrInvalidConfiguration, "layer %q", l.Name)
		}
		if len(l.Values) != len(samples) {
			return nil, wrapf(method, ErrShape, pce.ErrInvalidConfiguration,
				"layer %q has %d rows, want %d", l.Name, len(l.Values), len(samples))
		}
		width := len(l.Features)
		if width == 0 && len(l.Values) > 0 {
			width = len(l.Values[0])
		}
		for s, row := range l.Values {
			if len(row) != width {
				return nil, wrapf(method, ErrShape, pce.ErrInvalidConfiguration,
					"layer %q row %d has %d values, want %d", l.Name, s, len(row), width)
			}
			if !numeric.AllFinite(row) {
				return nil, fmt.Errorf("%s: layer %q row %d: %w", method, l.Name, s, pce.ErrNumericalInstability)
			}
		}

		c := l.clone()
		if len(c.Features) == 0 {
			c.Features = make([]string, width)
			for j := range c.Features {
				c.Features[j] = fmt.Sprintf("f%d", j)
			}
		}
		names := make(map[string]struct{}, width)
		for _, f := range c.Features {
			if _, dup := names[f]; dup || f == "" {
				return nil, wrapf(method, ErrShape, pce.ErrInvalidConfiguration,
					"layer %q feature %q duplicated or empty", l.Name, f)
			}
			names[f] = struct{}{}
		}

		d.index[c.Name] = len(d.layers)
		d.layers = append(d.layers, c)
	}

	return d, nil
}

// Samples returns a copy of the sample names.
func (d *Dataset) Samples() []string { return append([]string(nil), d.samples...) }

// NumSamples returns the number of samples.
func (d *Dataset) NumSamples() int { return len(d.samples) }

// NumFeatures returns the total feature count across all layers.
func (d *Dataset) NumFeatures() int {
	var n int
	for _, l := range d.layers {
		n += l.Width()
	}

	return n
}

// NumLayers returns the number of layers.
func (d *Dataset) NumLayers() int { return len(d.layers) }

// LayerNames returns layer names in insertion order.
func (d *Dataset) LayerNames() []string {
	out := make([]string, len(d.layers))
	for i, l := range d.layers {
		out[i] = l.Name
	}

	return out
}

// Layer returns a deep copy of the named layer.
func (d *Dataset) Layer(name string) (Layer, error) {
	i, ok := d.index[name]
	if !ok {
		return Layer{}, fmt.Errorf("dataset.Layer: %q: %w", name, ErrUnknownLayer)
	}

	return d.layers[i].clone(), nil
}

// Column returns a copy of feature j of the named layer across samples.
// Callers iterate within bounds obtained from Layer/Width.
func (d *Dataset) Column(layer string, j int) []float64 {
	l := d.layers[d.index[layer]]
	out := make([]float64, len(l.Values))
	for s, row := range l.Values {
		out[s] = row[j]
	}

	return out
}

// Row returns the concatenation of every layer's row for sample s, in layer order.
func (d *Dataset) Row(s int) []float64 {
	out := make([]float64, 0, d.NumFeatures())
	for _, l := range d.layers {
		out = append(out, l.Values[s]...)
	}

	return out
}

// WithMetadata returns a copy of d annotated with key=value on layer/feature.
func (d *Dataset) WithMetadata(layer, feature, key, value string) (*Dataset, error) {
	const method = "dataset.WithMetadata"
	i, ok := d.index[layer]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", method, layer, ErrUnknownLayer)
	}
	found := false
	for _, f := range d.layers[i].Features {
		if f == feature {
			found = true

			break
		}
	}
	if !found {
		return nil, wrapf(method, ErrShape, pce.ErrInvalidConfiguration, "layer %q has no feature %q", layer, feature)
	}

	out := &Dataset{
		samples: d.samples,
		layers:  d.layers,
		index:   d.index,
		meta:    copyMeta(d.meta),
	}
	if out.meta[layer] == nil {
		out.meta[layer] = make(map[string]map[string]string)
	}
	if out.meta[layer][feature] == nil {
		out.meta[layer][feature] = make(map[string]string)
	}
	out.meta[layer][feature][key] = value

	return out, nil
}

// Metadata returns a copy of the per-feature annotations of a layer.
func (d *Dataset) Metadata(layer string) map[string]map[string]string {
	return copyMeta(d.meta)[layer]
}

// MetadataLayers returns annotated layer names, sorted.
func (d *Dataset) MetadataLayers() []string {
	out := make([]string, 0, len(d.meta))
	for k := range d.meta {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

func copyMeta(src map[string]map[string]map[string]string) map[string]map[string]map[string]string {
	dst := make(map[string]map[string]map[string]string, len(src))
	for l, feats := range src {
		dst[l] = make(map[string]map[string]string, len(feats))
		for f, kv := range feats {
			dst[l][f] = make(map[string]string, len(kv))
			for k, v := range kv {
				dst[l][f][k] = v
			}
		}
	}

	return dst
}
