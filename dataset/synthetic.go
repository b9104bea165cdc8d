// SPDX-License-Identifier: MIT
// Package: dataset
//
// synthetic.go: toy pan-omics datasets from a latent factor model.
//
// Model (per layer ℓ):
//
//	X_ℓ = Z · L_ℓᵀ · loading_ℓ + offset_ℓ + ε,   ε ~ 𝒩(0, noise²)
//
// Z (samples×k) is shared by all layers, so features correlate both within
// and across layers. Features are apportioned to layers by the profile's
// weights with largest-remainder rounding; zero-width layers are dropped.
//
// RNG draw order (fixed): Z row-major, then per layer L row-major followed by
// ε row-major. Any change here changes every golden value downstream.

package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/numeric"
)

// Profile names a synthetic dataset recipe.
type Profile string

// Known profiles.
const (
	ProfileNeuralOmics Profile = "toy_neural_omics"
	ProfileMixedOmics  Profile = "toy_mixed_omics"
	ProfileMetabolic   Profile = "toy_metabolic_omics"
)

// layerRecipe describes one generated layer.
type layerRecipe struct {
	name    string
	prefix  string
	weight  float64 // share of features
	loading float64 // factor loading scale
	offset  float64 // baseline abundance
}

type profileRecipe struct {
	description string
	layers      []layerRecipe
}

// profileTable is the single source of truth for synthetic profiles.
var profileTable = map[Profile]profileRecipe{
	ProfileNeuralOmics: {
		description: "neural tissue: transcriptome, proteome and electrophysiology features",
		layers: []layerRecipe{
			{name: "transcriptomics", prefix: "gene", weight: 0.4, loading: 1.2, offset: 5},
			{name: "proteomics", prefix: "prot", weight: 0.3, loading: 1.0, offset: 3},
			{name: "neural_activity", prefix: "unit", weight: 0.3, loading: 1.5, offset: 0},
		},
	},
	ProfileMixedOmics: {
		description: "balanced genomics, transcriptomics, proteomics and metabolomics",
		layers: []layerRecipe{
			{name: "genomics", prefix: "snp", weight: 0.25, loading: 0.6, offset: 1},
			{name: "transcriptomics", prefix: "gene", weight: 0.25, loading: 1.2, offset: 5},
			{name: "proteomics", prefix: "prot", weight: 0.25, loading: 1.0, offset: 3},
			{name: "metabolomics", prefix: "met", weight: 0.25, loading: 0.8, offset: 2},
		},
	},
	ProfileMetabolic: {
		description: "metabolite-heavy profile with a lipidomics companion layer",
		layers: []layerRecipe{
			{name: "metabolomics", prefix: "met", weight: 0.6, loading: 0.8, offset: 2},
			{name: "lipidomics", prefix: "lip", weight: 0.4, loading: 0.7, offset: 1},
		},
	},
}

// Profiles returns the known profiles sorted by name.
func Profiles() []Profile {
	out := make([]Profile, 0, len(profileTable))
	for p := range profileTable {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// ParseProfile resolves a profile name (case-insensitive).
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profileTable[p]; !ok {
		return "", fmt.Errorf("dataset.ParseProfile: %q: %w (%w)", s, ErrUnknownProfile, pce.ErrInvalidConfiguration)
	}

	return p, nil
}

// Description returns a one-line description of the profile.
func (p Profile) Description() string { return profileTable[p].description }

// LayerNames returns the layer names the profile can generate.
func (p Profile) LayerNames() []string {
	r := profileTable[p]
	out := make([]string, len(r.layers))
	for i, l := range r.layers {
		out[i] = l.name
	}

	return out
}

// Synthesize generates a dataset of nSamples × nFeatures for profile p.
// Negative sizes and unknown profiles yield pce.ErrInvalidConfiguration.
// Complexity: O(S·F·k).
func Synthesize(p Profile, nSamples, nFeatures int, opts ...Option) (*Dataset, error) {
	const method = "dataset.Synthesize"
	recipe, ok := profileTable[p]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w (%w)", method, p, ErrUnknownProfile, pce.ErrInvalidConfiguration)
	}
	if nSamples < 0 || nFeatures < 0 {
		return nil, fmt.Errorf("%s: sizes (%d,%d) must be non-negative: %w",
			method, nSamples, nFeatures, pce.ErrInvalidConfiguration)
	}
	cfg := newSynthConfig(opts...)
	rng := numeric.NewRand(cfg.seed)

	samples := make([]string, nSamples)
	for i := range samples {
		samples[i] = fmt.Sprintf("sample_%03d", i)
	}

	weights := make([]float64, len(recipe.layers))
	for i, l := range recipe.layers {
		weights[i] = l.weight
	}
	widths := apportion(nFeatures, weights)

	var Z *mat.Dense
	if nSamples > 0 {
		z := make([]float64, nSamples*cfg.factors)
		for i := range z {
			z[i] = rng.NormFloat64()
		}
		Z = mat.NewDense(nSamples, cfg.factors, z)
	}

	layers := make([]Layer, 0, len(recipe.layers))
	for li, lr := range recipe.layers {
		w := widths[li]
		if w == 0 {
			continue
		}
		l := Layer{Name: lr.name, Features: make([]string, w), Values: make([][]float64, nSamples)}
		for j := range l.Features {
			l.Features[j] = fmt.Sprintf("%s_%d", lr.prefix, j)
		}

		load := make([]float64, w*cfg.factors)
		for i := range load {
			load[i] = lr.loading * rng.NormFloat64()
		}
		if nSamples == 0 {
			layers = append(layers, l)

			continue
		}
		var X mat.Dense
		X.Mul(Z, mat.NewDense(w, cfg.factors, load).T())
		for s := 0; s < nSamples; s++ {
			row := make([]float64, w)
			for j := range row {
				row[j] = X.At(s, j) + lr.offset + cfg.noise*rng.NormFloat64()
			}
			l.Values[s] = row
		}
		layers = append(layers, l)
	}

	return New(samples, layers...)
}

// apportion splits n into len(weights) non-negative integers proportional to
// weights using largest-remainder rounding; ties go to the lower index.
func apportion(n int, weights []float64) []int {
	out := make([]int, len(weights))
	if n == 0 || len(weights) == 0 {
		return out
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, len(weights))
	assigned := 0
	for i, w := range weights {
		q := float64(n) * w / total
		fl := math.Floor(q)
		out[i] = int(fl)
		assigned += out[i]
		rems[i] = rem{idx: i, frac: q - fl}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for k := 0; assigned < n; k++ {
		out[rems[k%len(rems)].idx]++
		assigned++
	}

	return out
}
