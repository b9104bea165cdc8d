// SPDX-License-Identifier: MIT
// Package: integration
//
// aggregator.go: Inputs, Metrics and Integrate.

package integration

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/connectome"
	"github.com/katalvlaran/pce/entropy"
	"github.com/katalvlaran/pce/evolution"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/multiscale"
	"github.com/katalvlaran/pce/numeric"
)

// Stage is the stage tag used in logs and StageError.
const Stage = "cis"

// Inputs gathers the upstream results. Every field is required.
type Inputs struct {
	Connectome *connectome.Summary
	Optimizer  *entropy.Result
	Evolution  *evolution.Metrics
	Simulation *multiscale.Result
}

// Missing lists the names of absent inputs, in pipeline order.
func (in Inputs) Missing() []string {
	var out []string
	if in.Connectome == nil {
		out = append(out, "connectome")
	}
	if in.Optimizer == nil {
		out = append(out, "qlem")
	}
	if in.Evolution == nil {
		out = append(out, "e3de")
	}
	if in.Simulation == nil {
		out = append(out, "hdts")
	}

	return out
}

// Metrics is the final value record of a run.
type Metrics struct {
	Phi                    float64  `yaml:"phi" json:"phi"`
	GlobalAccessibility    float64  `yaml:"global_accessibility" json:"global_accessibility"`
	QuantumCoherence       float64  `yaml:"quantum_coherence" json:"quantum_coherence"`
	HierarchicalComplexity float64  `yaml:"hierarchical_complexity" json:"hierarchical_complexity"`
	ConsciousnessLevel     float64  `yaml:"consciousness_level" json:"consciousness_level"`
	ConsciousnessCategory  Category `yaml:"consciousness_category" json:"consciousness_category"`
	// Partial names the stages ("qlem", "hdts") whose results were truncated
	// at their last stable step, in pipeline order. Nil for a clean run.
	Partial []string `yaml:"partial,omitempty" json:"partial,omitempty"`
}

// AsMap returns the metrics keyed by their external names. The "partial"
// key is present only when some stage was truncated.
func (m Metrics) AsMap() map[string]any {
	out := map[string]any{
		"phi":                     m.Phi,
		"global_accessibility":    m.GlobalAccessibility,
		"quantum_coherence":       m.QuantumCoherence,
		"hierarchical_complexity": m.HierarchicalComplexity,
		"consciousness_level":     m.ConsciousnessLevel,
		"consciousness_category":  string(m.ConsciousnessCategory),
	}
	if len(m.Partial) > 0 {
		out["partial"] = append([]string(nil), m.Partial...)
	}

	return out
}

// Partial lists the inputs whose stage stopped early at its last stable
// step, in pipeline order.
func (in Inputs) Partial() []string {
	var out []string
	if in.Optimizer != nil && in.Optimizer.Partial {
		out = append(out, entropy.Stage)
	}
	if in.Simulation != nil && in.Simulation.Partial {
		out = append(out, multiscale.Stage)
	}

	return out
}

// SubScores are the clamped inputs to the weighted target.
type SubScores struct {
	Accessibility float64 `yaml:"accessibility"`
	Coherence     float64 `yaml:"coherence"`
	Fitness       float64 `yaml:"fitness"`
	Complexity    float64 `yaml:"complexity"`
}

// Result is the outcome of Integrate.
type Result struct {
	Metrics    Metrics   `yaml:"metrics"`
	SubScores  SubScores `yaml:"sub_scores"`
	Target     float64   `yaml:"target"`
	Cycles     int       `yaml:"cycles"`
	Converged  bool      `yaml:"converged"`
	Trajectory []float64 `yaml:"trajectory"`
}

// Aggregator runs CIS.
type Aggregator struct {
	cfg Config
	log logrus.FieldLogger
}

// NewAggregator validates cfg and returns an Aggregator.
func NewAggregator(cfg Config, opts ...Option) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Aggregator{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logging.Stage(a.log, Stage)

	return a, nil
}

// Config returns the aggregator configuration.
func (a *Aggregator) Config() Config { return a.cfg }

// Scores derives the clamped sub-scores from in.
func (a *Aggregator) Scores(in Inputs) (SubScores, error) {
	const method = "integration.Scores"
	if missing := in.Missing(); len(missing) > 0 {
		return SubScores{}, fmt.Errorf("%s: missing %s: %w", method, strings.Join(missing, ", "), pce.ErrIncompletePipeline)
	}
	raw := []float64{
		in.Connectome.Accessibility,
		in.Optimizer.Coherence,
		a.cfg.FitnessBlend*in.Evolution.BestFitness + (1-a.cfg.FitnessBlend)*in.Evolution.MeanFitness,
		in.Simulation.Complexity,
	}
	for i, v := range raw {
		if !numeric.IsFinite(v) {
			return SubScores{}, fmt.Errorf("%s: sub-score %d is %v: %w", method, i, v, pce.ErrNumericalInstability)
		}
	}

	return SubScores{
		Accessibility: numeric.Clamp01(raw[0]),
		Coherence:     numeric.Clamp01(raw[1]),
		Fitness:       numeric.Clamp01(raw[2]),
		Complexity:    numeric.Clamp01(raw[3]),
	}, nil
}

// Integrate relaxes φ towards the weighted target for min(cycles, MaxCycles)
// cycles; cycles ≤ 0 uses IntegrationCycles.
func (a *Aggregator) Integrate(ctx context.Context, in Inputs, cycles int) (*Result, error) {
	s, err := a.Scores(in)
	if err != nil {
		return nil, err
	}
	if cycles <= 0 {
		cycles = a.cfg.IntegrationCycles
	}
	if cycles > a.cfg.MaxCycles {
		cycles = a.cfg.MaxCycles
	}

	w := a.cfg.MetricWeights
	target := w.Accessibility*s.Accessibility + w.Coherence*s.Coherence + w.Fitness*s.Fitness + w.Complexity*s.Complexity
	res := &Result{SubScores: s, Target: target, Trajectory: make([]float64, 0, cycles)}

	r := a.cfg.Relaxation
	var phi float64
	for k := 0; k < cycles; k++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, pce.WrapStage(Stage, k, ctxErr)
		}
		next := (1-r)*phi + r*target
		delta := math.Abs(next - phi)
		phi = next
		res.Trajectory = append(res.Trajectory, phi)
		res.Cycles = k + 1
		if delta < a.cfg.Tolerance {
			res.Converged = true

			break
		}
	}
	if !numeric.IsFinite(phi) {
		return nil, pce.WrapStage(Stage, res.Cycles, fmt.Errorf("integration.Integrate: phi %v: %w", phi, pce.ErrNumericalInstability))
	}

	level := numeric.Clamp01(phi)
	res.Metrics = Metrics{
		Phi:                    phi,
		GlobalAccessibility:    s.Accessibility,
		QuantumCoherence:       s.Coherence,
		HierarchicalComplexity: s.Complexity,
		ConsciousnessLevel:     level,
		ConsciousnessCategory:  Classify(level, a.cfg.CategoryThresholds),
		Partial:                in.Partial(),
	}

	a.log.WithFields(logrus.Fields{
		"cycles":    res.Cycles,
		"phi":       phi,
		"target":    target,
		"category":  res.Metrics.ConsciousnessCategory,
		"converged": res.Converged,
		"partial":   res.Metrics.Partial,
	}).Debug("integration finished")

	return res, nil
}
