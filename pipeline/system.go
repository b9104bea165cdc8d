// SPDX-License-Identifier: MIT
// Package: pipeline
//
// system.go: System, the explicit pipeline context, and its step methods.
//
// Each step stores its output on the System; a step whose prerequisite has
// not been produced fails with pce.ErrIncompletePipeline. Re-running an
// upstream step discards every result derived from the old output.

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/config"
	"github.com/katalvlaran/pce/connectome"
	"github.com/katalvlaran/pce/dataset"
	"github.com/katalvlaran/pce/embedding"
	"github.com/katalvlaran/pce/entropy"
	"github.com/katalvlaran/pce/evolution"
	"github.com/katalvlaran/pce/hypergraph"
	"github.com/katalvlaran/pce/integration"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/multiscale"
)

// Option customises a System.
type Option func(*System)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("pipeline: WithLogger(nil)")
	}

	return func(s *System) { s.log = l }
}

// WithRunID overrides the generated run id. Panics on empty id.
func WithRunID(id string) Option {
	if id == "" {
		panic("pipeline: WithRunID(\"\")")
	}

	return func(s *System) { s.runID = id }
}

// System owns one instance of every stage plus the results produced so far.
// Methods are safe for concurrent use.
type System struct {
	cfg   config.Config
	log   logrus.FieldLogger
	runID string

	encoder    *hypergraph.Encoder
	optimizer  *entropy.Optimizer
	engine     *evolution.Engine
	simulator  *multiscale.Simulator
	aggregator *integration.Aggregator

	mu         sync.RWMutex
	ds         *dataset.Dataset
	graph      *hypergraph.Hypergraph
	emb        *embedding.Embedding
	state      *entropy.State
	qlem       *entropy.Result
	population string
	e3de       *evolution.Metrics
	bio        *multiscale.System
	hdts       *multiscale.Result
	net        *connectome.Connectome
	summary    *connectome.Summary
	cis        *integration.Result
}

// NewSystem resolves and validates cfg and builds every stage.
func NewSystem(cfg config.Config, opts ...Option) (*System, error) {
	cfg = cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &System{cfg: cfg, log: logging.Discard(), runID: uuid.NewString()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField(logging.FieldRunID, s.runID)

	var err error
	if s.encoder, err = hypergraph.NewEncoder(cfg.Encoder, hypergraph.WithLogger(s.log)); err != nil {
		return nil, err
	}
	if s.optimizer, err = entropy.NewOptimizer(cfg.Optimizer, entropy.WithLogger(s.log)); err != nil {
		return nil, err
	}
	if s.engine, err = evolution.NewEngine(cfg.Evolution, evolution.WithLogger(s.log)); err != nil {
		return nil, err
	}
	if s.simulator, err = multiscale.NewSimulator(cfg.Simulator, multiscale.WithLogger(s.log)); err != nil {
		return nil, err
	}
	if s.aggregator, err = integration.NewAggregator(cfg.Aggregator, integration.WithLogger(s.log)); err != nil {
		return nil, err
	}

	return s, nil
}

// RunID identifies the System in logs and reports.
func (s *System) RunID() string { return s.runID }

// Config returns the resolved configuration.
func (s *System) Config() config.Config { return s.cfg }

func incomplete(method, missing string) error {
	return fmt.Errorf("%s: %s not produced yet: %w", method, missing, pce.ErrIncompletePipeline)
}

// BuildHypergraph builds the hypergraph of ds and discards all later results.
func (s *System) BuildHypergraph(ds *dataset.Dataset) (*hypergraph.Hypergraph, error) {
	h, err := s.encoder.Build(ds)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ds, s.graph = ds, h
	s.resetEmbedding()
	s.mu.Unlock()

	st := h.Stats()
	s.log.WithFields(logrus.Fields{
		logging.FieldStage: hypergraph.Stage,
		"nodes":            st.NumNodes,
		"hyperedges":       st.NumEdges,
		"cross_layer":      st.CrossLayer,
	}).Info("hypergraph built")

	return h, nil
}

// EncodeHypergraph embeds the current hypergraph.
func (s *System) EncodeHypergraph(ctx context.Context) (*embedding.Embedding, error) {
	s.mu.RLock()
	h := s.graph
	s.mu.RUnlock()
	if h == nil {
		return nil, incomplete("pipeline.EncodeHypergraph", "hypergraph")
	}

	emb, err := s.encoder.Encode(ctx, h)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.resetEmbedding()
	s.emb = emb
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		logging.FieldStage: hypergraph.Stage,
		"entities":         emb.Len(),
		"dimension":        emb.Dim(),
	}).Info("hypergraph encoded")

	return emb, nil
}

// resetEmbedding drops the embedding and every result derived from it.
// Callers hold s.mu.
func (s *System) resetEmbedding() {
	s.emb = nil
	s.state, s.qlem = nil, nil
	s.population, s.e3de = "", nil
	s.bio, s.hdts = nil, nil
	s.net, s.summary = nil, nil
	s.cis = nil
}

func (s *System) currentEmbedding(method string) (*embedding.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.emb == nil {
		return nil, incomplete(method, "embedding")
	}

	return s.emb, nil
}

// CreateOptimizationState seeds the Q-LEM state from the embedding.
func (s *System) CreateOptimizationState() (*entropy.State, error) {
	emb, err := s.currentEmbedding("pipeline.CreateOptimizationState")
	if err != nil {
		return nil, err
	}
	st, err := s.optimizer.CreateState(emb)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state, s.qlem, s.cis = st, nil, nil
	s.mu.Unlock()

	return st, nil
}

// MinimizeEntropy runs Q-LEM on the current state for at most steps steps.
// A result returned together with an error is not retained.
func (s *System) MinimizeEntropy(ctx context.Context, steps int) (*entropy.Result, error) {
	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()
	if st == nil {
		return nil, incomplete("pipeline.MinimizeEntropy", "optimisation state")
	}

	res, err := s.optimizer.MinimizeEntropy(ctx, st, steps)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	s.qlem, s.cis = res, nil
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		logging.FieldStage: entropy.Stage,
		"coherence":        res.Coherence,
		"steps":            res.Steps,
		"converged":        res.Converged,
	}).Info("entropy minimised")

	return res, nil
}

// CreatePopulation seeds a named population from the embedding. An empty
// name selects the configured population name.
func (s *System) CreatePopulation(name string, size, genomeLength int) error {
	emb, err := s.currentEmbedding("pipeline.CreatePopulation")
	if err != nil {
		return err
	}
	if name == "" {
		name = s.cfg.Evolution.PopulationName
	}
	if err = s.engine.CreatePopulation(name, size, genomeLength, emb); err != nil {
		return err
	}

	s.mu.Lock()
	s.population = name
	if s.e3de != nil && s.e3de.Population == name {
		s.e3de, s.cis = nil, nil
	}
	s.mu.Unlock()

	return nil
}

// EvolvePopulation evolves a population; an empty name selects the most
// recently created one. Its metrics feed integration.
func (s *System) EvolvePopulation(ctx context.Context, name string, generations int) (*evolution.Metrics, error) {
	if name == "" {
		s.mu.RLock()
		name = s.population
		s.mu.RUnlock()
	}
	if name == "" {
		return nil, incomplete("pipeline.EvolvePopulation", "population")
	}

	m, err := s.engine.EvolvePopulation(ctx, name, generations)
	if err != nil {
		return m, err
	}

	s.mu.Lock()
	s.e3de, s.cis = m, nil
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		logging.FieldStage: evolution.Stage,
		"population":       name,
		"generations":      m.Generations,
		"best_fitness":     m.BestFitness,
		"mean_fitness":     m.MeanFitness,
	}).Info("population evolved")

	return m, nil
}

// CreateBiologicalSystem builds the multi-scale hierarchy from the embedding.
func (s *System) CreateBiologicalSystem() (*multiscale.System, error) {
	emb, err := s.currentEmbedding("pipeline.CreateBiologicalSystem")
	if err != nil {
		return nil, err
	}
	sys, err := s.simulator.CreateSystem(emb)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bio, s.hdts, s.cis = sys, nil, nil
	s.mu.Unlock()

	return sys, nil
}

// SimulateEmergence integrates the hierarchy for duration time units.
func (s *System) SimulateEmergence(ctx context.Context, duration float64) (*multiscale.Result, error) {
	s.mu.RLock()
	sys := s.bio
	s.mu.RUnlock()
	if sys == nil {
		return nil, incomplete("pipeline.SimulateEmergence", "biological system")
	}

	res, err := s.simulator.Simulate(ctx, sys, duration)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	s.hdts, s.cis = res, nil
	s.mu.Unlock()

	entry := s.log.WithFields(logrus.Fields{
		logging.FieldStage: multiscale.Stage,
		"steps":            res.Steps,
		"complexity":       res.Complexity,
	})
	if res.Partial {
		entry.Warn("simulation truncated at last stable step")
	} else {
		entry.Info("simulation finished")
	}

	return res, nil
}

// CreateConnectome builds the similarity network and summarises it.
func (s *System) CreateConnectome(ctx context.Context) (*connectome.Summary, error) {
	emb, err := s.currentEmbedding("pipeline.CreateConnectome")
	if err != nil {
		return nil, err
	}
	net, err := connectome.Build(emb, s.cfg.Aggregator.ConnectomeThreshold)
	if err != nil {
		return nil, err
	}
	sum, err := net.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.net, s.summary, s.cis = net, &sum, nil
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		logging.FieldStage:     integration.Stage,
		"edges":                sum.Edges,
		"global_accessibility": sum.Accessibility,
	}).Info("connectome built")

	return &sum, nil
}

// Connectome returns the network built by CreateConnectome, or nil.
func (s *System) Connectome() *connectome.Connectome {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.net
}

// Inputs returns the upstream results currently available to integration.
func (s *System) Inputs() integration.Inputs {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return integration.Inputs{
		Connectome: s.summary,
		Optimizer:  s.qlem,
		Evolution:  s.e3de,
		Simulation: s.hdts,
	}
}

// IntegrateConsciousness aggregates the four upstream results. Any missing
// result fails with pce.ErrIncompletePipeline naming every gap.
func (s *System) IntegrateConsciousness(ctx context.Context, cycles int) (integration.Metrics, error) {
	res, err := s.aggregator.Integrate(ctx, s.Inputs(), cycles)
	if err != nil {
		return integration.Metrics{}, err
	}

	s.mu.Lock()
	s.cis = res
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		logging.FieldStage: integration.Stage,
		"phi":              res.Metrics.Phi,
		"level":            res.Metrics.ConsciousnessLevel,
		"category":         res.Metrics.ConsciousnessCategory,
		"cycles":           res.Cycles,
	}).Info("integration finished")

	return res.Metrics, nil
}
