// SPDX-License-Identifier: MIT

package integration_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/connectome"
	"github.com/katalvlaran/pce/entropy"
	"github.com/katalvlaran/pce/evolution"
	"github.com/katalvlaran/pce/integration"
	"github.com/katalvlaran/pce/multiscale"
)

func inputs(acc, coh, best, mean, cx float64) integration.Inputs {
	return integration.Inputs{
		Connectome: &connectome.Summary{Accessibility: acc},
		Optimizer:  &entropy.Result{Coherence: coh},
		Evolution:  &evolution.Metrics{BestFitness: best, MeanFitness: mean},
		Simulation: &multiscale.Result{Complexity: cx},
	}
}

func newAggregator(t *testing.T, mutate func(*integration.Config)) *integration.Aggregator {
	t.Helper()
	cfg := integration.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := integration.NewAggregator(cfg)
	require.NoError(t, err)

	return a
}

func TestIntegrate_TargetAndBounds(t *testing.T) {
	a := newAggregator(t, nil)
	res, err := a.Integrate(context.Background(), inputs(0.8, 0.6, 0.9, 0.5, 0.2), 0)
	require.NoError(t, err)

	// fitness = 0.5*0.9 + 0.5*0.5 = 0.7 ; target = mean(0.8,0.6,0.7,0.2)
	assert.InDelta(t, 0.575, res.Target, 1e-12)
	assert.Equal(t, 10, res.Cycles)
	assert.InDelta(t, 0.575*(1-math.Pow(0.5, 10)), res.Metrics.Phi, 1e-12)
	assert.Equal(t, integration.Conscious, res.Metrics.ConsciousnessCategory)
	assert.Equal(t, 0.8, res.Metrics.GlobalAccessibility)
	assert.Equal(t, 0.6, res.Metrics.QuantumCoherence)
	assert.Equal(t, 0.2, res.Metrics.HierarchicalComplexity)
	assert.GreaterOrEqual(t, res.Metrics.ConsciousnessLevel, 0.0)
	assert.LessOrEqual(t, res.Metrics.ConsciousnessLevel, 1.0)
}

func TestIntegrate_PhiStableAsCyclesGrow(t *testing.T) {
	a := newAggregator(t, func(c *integration.Config) { c.Tolerance = 0 })
	in := inputs(0.4, 0.7, 0.6, 0.3, 0.5)
	prev := 0.0
	for _, cycles := range []int{1, 2, 5, 10, 50, 200, 1000} {
		res, err := a.Integrate(context.Background(), in, cycles)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Metrics.Phi, prev-1e-15, "cycles=%d", cycles)
		assert.LessOrEqual(t, res.Metrics.Phi, res.Target+1e-15)
		prev = res.Metrics.Phi
	}
	r200, _ := a.Integrate(context.Background(), in, 200)
	r1000, _ := a.Integrate(context.Background(), in, 1000)
	assert.InDelta(t, r200.Metrics.Phi, r1000.Metrics.Phi, 1e-12)
}

func TestIntegrate_EarlyExitAndCap(t *testing.T) {
	a := newAggregator(t, func(c *integration.Config) { c.MaxCycles = 7; c.Tolerance = 0.1 })
	res, err := a.Integrate(context.Background(), inputs(1, 1, 1, 1, 1), 100)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Less(t, res.Cycles, 7)

	a = newAggregator(t, func(c *integration.Config) { c.MaxCycles = 3; c.Tolerance = 0 })
	res, err = a.Integrate(context.Background(), inputs(1, 1, 1, 1, 1), 100)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Cycles)
	assert.Len(t, res.Trajectory, 3)
}

func TestIntegrate_Incomplete(t *testing.T) {
	a := newAggregator(t, nil)
	in := inputs(1, 1, 1, 1, 1)
	in.Optimizer = nil
	in.Simulation = nil
	_, err := a.Integrate(context.Background(), in, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pce.ErrIncompletePipeline))
	assert.Contains(t, err.Error(), "qlem, hdts")
	assert.Equal(t, []string{"connectome", "qlem", "e3de", "hdts"}, integration.Inputs{}.Missing())
}

func TestIntegrate_PartialInputs(t *testing.T) {
	a := newAggregator(t, nil)
	res, err := a.Integrate(context.Background(), inputs(0.5, 0.5, 0.5, 0.5, 0.5), 5)
	require.NoError(t, err)
	assert.Nil(t, res.Metrics.Partial)
	assert.NotContains(t, res.Metrics.AsMap(), "partial")

	in := inputs(0.5, 0.5, 0.5, 0.5, 0.5)
	in.Simulation.Partial = true
	res, err = a.Integrate(context.Background(), in, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{multiscale.Stage}, res.Metrics.Partial)

	in.Optimizer.Partial = true
	res, err = a.Integrate(context.Background(), in, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{entropy.Stage, multiscale.Stage}, res.Metrics.Partial)
	assert.Equal(t, []string{"qlem", "hdts"}, res.Metrics.AsMap()["partial"])
}

func TestIntegrate_NonFinite(t *testing.T) {
	a := newAggregator(t, nil)
	_, err := a.Integrate(context.Background(), inputs(math.NaN(), 1, 1, 1, 1), 5)
	assert.True(t, errors.Is(err, pce.ErrNumericalInstability))
}

func TestIntegrate_ClampsSubScores(t *testing.T) {
	a := newAggregator(t, nil)
	res, err := a.Integrate(context.Background(), inputs(3, -1, 2, 2, 0.5), 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.SubScores.Accessibility)
	assert.Equal(t, 0.0, res.SubScores.Coherence)
	assert.Equal(t, 1.0, res.SubScores.Fitness)
}

func TestClassifyPartition(t *testing.T) {
	ts := integration.DefaultThresholds()
	require.NoError(t, integration.ValidateThresholds(ts))
	cases := map[float64]integration.Category{
		0:      integration.Unconscious,
		0.2499: integration.Unconscious,
		0.25:   integration.Subconscious,
		0.4999: integration.Subconscious,
		0.5:    integration.Conscious,
		0.75:   integration.HighlyConscious,
		1:      integration.HighlyConscious,
	}
	for level, want := range cases {
		assert.Equal(t, want, integration.Classify(level, ts), "level %v", level)
	}
	// every level in [0,1] maps to exactly one category
	for i := 0; i <= 1000; i++ {
		level := float64(i) / 1000
		hits := 0
		for j, row := range ts {
			upper := 1.0 + 1e-12
			if j+1 < len(ts) {
				upper = ts[j+1].Lower
			}
			if level >= row.Lower && level < upper {
				hits++
			}
		}
		assert.Equal(t, 1, hits, "level %v", level)
	}
}

func TestValidateThresholds_CategoryOrder(t *testing.T) {
	type th = integration.Threshold
	bad := [][]th{
		{{Lower: 0, Category: integration.HighlyConscious}, {Lower: 0.5, Category: integration.Unconscious}},
		{{Lower: 0, Category: integration.Conscious}, {Lower: 0.5, Category: integration.Conscious}},
		{{Lower: 0, Category: integration.Unconscious}, {Lower: 0.3, Category: integration.Conscious}, {Lower: 0.6, Category: integration.Subconscious}},
	}
	for i, ts := range bad {
		err := integration.ValidateThresholds(ts)
		assert.True(t, errors.Is(err, pce.ErrInvalidConfiguration), "case %d", i)
	}

	skip := []th{{Lower: 0, Category: integration.Unconscious}, {Lower: 0.6, Category: integration.HighlyConscious}}
	require.NoError(t, integration.ValidateThresholds(skip))
	assert.Equal(t, integration.Unconscious, integration.Classify(0.59, skip))
	assert.Equal(t, integration.HighlyConscious, integration.Classify(0.6, skip))
}

func TestValidate(t *testing.T) {
	require.NoError(t, integration.DefaultConfig().Validate())
	bad := []func(*integration.Config){
		func(c *integration.Config) { c.IntegrationCycles = 0 },
		func(c *integration.Config) { c.MetricWeights.Fitness = 0.3 },
		func(c *integration.Config) { c.Relaxation = 0 },
		func(c *integration.Config) { c.FitnessBlend = 1.2 },
		func(c *integration.Config) { c.ConnectomeThreshold = 0 },
		func(c *integration.Config) { c.CategoryThresholds = nil },
		func(c *integration.Config) {
			c.CategoryThresholds = []integration.Threshold{{Lower: 0.1, Category: integration.Unconscious}}
		},
		func(c *integration.Config) {
			c.CategoryThresholds = []integration.Threshold{{Lower: 0, Category: integration.Unconscious}, {Lower: 0.5, Category: integration.Conscious}, {Lower: 0.4, Category: integration.HighlyConscious}}
		},
		func(c *integration.Config) {
			c.CategoryThresholds = []integration.Threshold{{Lower: 0, Category: integration.Unconscious}, {Lower: 0.5, Category: "ENLIGHTENED"}}
		},
		func(c *integration.Config) {
			c.CategoryThresholds = []integration.Threshold{{Lower: 0, Category: integration.Unconscious}, {Lower: 1, Category: integration.Conscious}}
		},
	}
	for i, m := range bad {
		cfg := integration.DefaultConfig()
		m(&cfg)
		_, err := integration.NewAggregator(cfg)
		assert.True(t, errors.Is(err, pce.ErrInvalidConfiguration), "case %d", i)
	}
}

func TestMetricsAsMap(t *testing.T) {
	m := integration.Metrics{Phi: 0.4, ConsciousnessCategory: integration.Subconscious}
	mp := m.AsMap()
	assert.Equal(t, 0.4, mp["phi"])
	assert.Equal(t, "SUBCONSCIOUS", mp["consciousness_category"])
	assert.Len(t, mp, 6)

	m.Partial = []string{"hdts"}
	mp = m.AsMap()
	assert.Len(t, mp, 7)
	assert.Equal(t, []string{"hdts"}, mp["partial"])
}
