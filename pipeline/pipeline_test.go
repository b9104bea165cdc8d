// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/config"
	"github.com/katalvlaran/pce/dataset"
	"github.com/katalvlaran/pce/integration"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/multiscale"
	"github.com/katalvlaran/pce/pipeline"
)

func toy(t require.TestingT) *dataset.Dataset {
	ds, err := dataset.Synthesize(dataset.ProfileNeuralOmics, 10, 5, dataset.WithSeed(42))
	require.NoError(t, err)

	return ds
}

func assertMetricsValid(t *testing.T, m integration.Metrics) {
	t.Helper()
	for name, v := range map[string]float64{
		"phi":                     m.Phi,
		"global_accessibility":    m.GlobalAccessibility,
		"quantum_coherence":       m.QuantumCoherence,
		"hierarchical_complexity": m.HierarchicalComplexity,
		"consciousness_level":     m.ConsciousnessLevel,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
	assert.Equal(t, integration.Classify(m.ConsciousnessLevel, integration.DefaultThresholds()), m.ConsciousnessCategory)
}

func TestQuickAnalysis_ToyScenario(t *testing.T) {
	m, err := pipeline.QuickAnalysis(context.Background(), toy(t), config.Default(), 10)
	require.NoError(t, err)
	assertMetricsValid(t, m)
}

func TestQuickAnalysis_ToyScenario_NotPartial(t *testing.T) {
	m, err := pipeline.QuickAnalysis(context.Background(), toy(t), config.Default(), 5)
	require.NoError(t, err)
	assert.Empty(t, m.Partial)
}

// An explicit Euler step far beyond the time constant diverges, so the
// simulation stops at its last finite state.
func TestQuickAnalysis_TruncatedSimulationIsFlagged(t *testing.T) {
	cfg := config.Default()
	cfg.Simulator.Integrator = multiscale.IntegratorEuler
	cfg.Simulator.StepSize = 1
	cfg.Simulator.TimeConstant = 0.001
	cfg.Simulator.Duration = 5000

	sys, err := pipeline.NewSystem(cfg)
	require.NoError(t, err)
	m, err := sys.Run(context.Background(), toy(t), 5)
	require.NoError(t, err)
	assertMetricsValid(t, m)
	assert.Equal(t, []string{multiscale.Stage}, m.Partial)
	assert.Equal(t, []string{"hdts"}, m.AsMap()["partial"])

	r := sys.ConsciousnessReport()
	assert.Equal(t, map[string]bool{"qlem": false, "hdts": true}, r[pipeline.SectionPartial])
	assert.Equal(t, m.AsMap(), r[pipeline.SectionMetrics])

	q, err := pipeline.QuickAnalysis(context.Background(), toy(t), cfg, 5)
	require.NoError(t, err)
	assert.Equal(t, m, q)
}

func TestQuickAnalysis_Deterministic(t *testing.T) {
	cfg := config.Default()
	a, err := pipeline.QuickAnalysis(context.Background(), toy(t), cfg, 5)
	require.NoError(t, err)
	b, err := pipeline.QuickAnalysis(context.Background(), toy(t), cfg, 5)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg.Evolution.Workers = 1
	c, err := pipeline.QuickAnalysis(context.Background(), toy(t), cfg, 5)
	require.NoError(t, err)
	assert.Equal(t, a, c, "worker count must not change results")
}

func TestQuickAnalysis_Errors(t *testing.T) {
	ctx := context.Background()

	empty, err := dataset.New(nil)
	require.NoError(t, err)
	_, err = pipeline.QuickAnalysis(ctx, empty, config.Default(), 1)
	assert.True(t, errors.Is(err, pce.ErrEmptyInput), "got %v", err)

	_, err = pipeline.QuickAnalysis(ctx, nil, config.Default(), 1)
	assert.True(t, errors.Is(err, pce.ErrEmptyInput), "got %v", err)

	cfg := config.Default()
	cfg.Evolution.PopulationSize = 1
	_, err = pipeline.QuickAnalysis(ctx, toy(t), cfg, 1)
	assert.True(t, errors.Is(err, pce.ErrInvalidConfiguration), "got %v", err)

	cfg = config.Default()
	cfg.Aggregator.MetricWeights.Fitness = 0.5
	_, err = pipeline.QuickAnalysis(ctx, toy(t), cfg, 1)
	assert.True(t, errors.Is(err, pce.ErrInvalidConfiguration), "got %v", err)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.QuickAnalysis(ctx, toy(t), config.Default(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	var se *pce.StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "mogil", se.Stage)
}

func TestRun_LogsCarryRunID(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	sys, err := pipeline.NewSystem(config.Default(), pipeline.WithLogger(log), pipeline.WithRunID("run-1"))
	require.NoError(t, err)
	_, err = sys.Run(context.Background(), toy(t), 3)
	require.NoError(t, err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "pipeline finished", last.Message)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, "run-1", e.Data[logging.FieldRunID], e.Message)
	}
}

func TestOptionsPanicOnNil(t *testing.T) {
	assert.Panics(t, func() { pipeline.WithLogger(nil) })
	assert.Panics(t, func() { pipeline.WithRunID("") })
}

// FlowSuite walks the step-by-step API.
type FlowSuite struct {
	suite.Suite
	ctx context.Context
	sys *pipeline.System
}

func (s *FlowSuite) SetupTest() {
	s.ctx = context.Background()
	sys, err := pipeline.NewSystem(config.Default())
	s.Require().NoError(err)
	s.sys = sys
}

func (s *FlowSuite) requireIncomplete(err error) {
	s.Require().Error(err)
	s.True(errors.Is(err, pce.ErrIncompletePipeline), "got %v", err)
}

func (s *FlowSuite) TestStepsBeforePrerequisites() {
	_, err := s.sys.EncodeHypergraph(s.ctx)
	s.requireIncomplete(err)
	_, err = s.sys.CreateOptimizationState()
	s.requireIncomplete(err)
	_, err = s.sys.MinimizeEntropy(s.ctx, 5)
	s.requireIncomplete(err)
	s.requireIncomplete(s.sys.CreatePopulation("p", 4, 8))
	_, err = s.sys.EvolvePopulation(s.ctx, "", 1)
	s.requireIncomplete(err)
	_, err = s.sys.CreateBiologicalSystem()
	s.requireIncomplete(err)
	_, err = s.sys.SimulateEmergence(s.ctx, 0.1)
	s.requireIncomplete(err)
	_, err = s.sys.CreateConnectome(s.ctx)
	s.requireIncomplete(err)
	_, err = s.sys.IntegrateConsciousness(s.ctx, 1)
	s.requireIncomplete(err)

	r := s.sys.ConsciousnessReport()
	s.Equal([]string{"dataset", "hypergraph", "embedding", "qlem", "e3de", "hdts", "connectome", "cis"}, r[pipeline.SectionIncomplete])
	s.Contains(r, pipeline.SectionRun)
	s.NotContains(r, pipeline.SectionMetrics)
}

func (s *FlowSuite) encode() {
	h, err := s.sys.BuildHypergraph(toy(s.T()))
	s.Require().NoError(err)
	s.Equal(5, h.NumNodes())
	emb, err := s.sys.EncodeHypergraph(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, emb.Len())
	s.Equal(config.Default().Encoder.EmbeddingDim, emb.Dim())
}

func (s *FlowSuite) TestAdvancedFlow() {
	s.encode()

	_, err := s.sys.CreateOptimizationState()
	s.Require().NoError(err)
	q, err := s.sys.MinimizeEntropy(s.ctx, 20)
	s.Require().NoError(err)
	s.LessOrEqual(q.Steps, 20)

	_, err = s.sys.IntegrateConsciousness(s.ctx, 1)
	s.requireIncomplete(err)
	for _, name := range []string{"connectome", "e3de", "hdts"} {
		s.Contains(err.Error(), name)
	}
	s.NotContains(err.Error(), "qlem")

	s.Require().NoError(s.sys.CreatePopulation("", 10, 12))
	ev, err := s.sys.EvolvePopulation(s.ctx, "", 4)
	s.Require().NoError(err)
	s.Equal(config.Default().Evolution.PopulationName, ev.Population)
	s.Len(ev.BestTrajectory, 5)

	_, err = s.sys.CreateBiologicalSystem()
	s.Require().NoError(err)
	sim, err := s.sys.SimulateEmergence(s.ctx, 0.2)
	s.Require().NoError(err)
	s.InDelta(0.2, sim.Times[len(sim.Times)-1], 1e-12)

	sum, err := s.sys.CreateConnectome(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, sum.Nodes)
	s.NotNil(s.sys.Connectome())

	m, err := s.sys.IntegrateConsciousness(s.ctx, 10)
	s.Require().NoError(err)
	assertMetricsValid(s.T(), m)
	s.Equal(sum.Accessibility, m.GlobalAccessibility)

	r := s.sys.ConsciousnessReport()
	s.NotContains(r, pipeline.SectionIncomplete)
	s.Equal(m.AsMap(), r[pipeline.SectionMetrics])
	s.Equal(map[string]bool{"qlem": false, "hdts": false}, r[pipeline.SectionPartial])
	for _, sec := range []string{"dataset", "hypergraph", "embedding", "qlem", "e3de", "hdts", "connectome", "cis"} {
		s.Contains(r, sec)
	}

	_, err = yaml.Marshal(r)
	s.NoError(err)
}

func (s *FlowSuite) TestRebuildDiscardsDownstream() {
	_, err := s.sys.Run(s.ctx, toy(s.T()), 2)
	s.Require().NoError(err)
	s.Contains(s.sys.ConsciousnessReport(), pipeline.SectionMetrics)

	_, err = s.sys.BuildHypergraph(toy(s.T()))
	s.Require().NoError(err)
	_, err = s.sys.IntegrateConsciousness(s.ctx, 1)
	s.requireIncomplete(err)
	r := s.sys.ConsciousnessReport()
	s.NotContains(r, pipeline.SectionMetrics)
	s.Equal([]string{"embedding", "qlem", "e3de", "hdts", "connectome", "cis"}, r[pipeline.SectionIncomplete])
}

func (s *FlowSuite) TestUnknownPopulation() {
	s.encode()
	_, err := s.sys.EvolvePopulation(s.ctx, "nope", 1)
	s.requireIncomplete(err)
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}
