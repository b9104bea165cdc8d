// SPDX-License-Identifier: MIT
// Package: integration
//
// config.go: aggregator configuration and the category threshold table.

package integration

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
)

// Category is a qualitative band of the integration level.
type Category string

// Known categories, lowest first.
const (
	Unconscious     Category = "UNCONSCIOUS"
	Subconscious    Category = "SUBCONSCIOUS"
	Conscious       Category = "CONSCIOUS"
	HighlyConscious Category = "HIGHLY_CONSCIOUS"
)

// rank orders known categories from 0 (Unconscious) up; unknown ones get -1.
func (c Category) rank() int {
	switch c {
	case Unconscious:
		return 0
	case Subconscious:
		return 1
	case Conscious:
		return 2
	case HighlyConscious:
		return 3
	}

	return -1
}

// Threshold is one row of the category table.
type Threshold struct {
	Lower    float64  `yaml:"lower" mapstructure:"lower"`
	Category Category `yaml:"category" mapstructure:"category"`
}

// Weights are the sub-score weights; they must sum to 1.
type Weights struct {
	Accessibility float64 `yaml:"accessibility" mapstructure:"accessibility"`
	Coherence     float64 `yaml:"coherence" mapstructure:"coherence"`
	Fitness       float64 `yaml:"fitness" mapstructure:"fitness"`
	Complexity    float64 `yaml:"complexity" mapstructure:"complexity"`
}

// WeightSumTolerance bounds |Σw − 1|.
const WeightSumTolerance = 1e-9

// Config tunes CIS.
type Config struct {
	IntegrationCycles   int         `yaml:"integration_cycles" mapstructure:"integration_cycles"`
	MaxCycles           int         `yaml:"max_cycles" mapstructure:"max_cycles"`
	MetricWeights       Weights     `yaml:"metric_weights" mapstructure:"metric_weights"`
	FitnessBlend        float64     `yaml:"fitness_blend" mapstructure:"fitness_blend"`
	Relaxation          float64     `yaml:"relaxation" mapstructure:"relaxation"`
	Tolerance           float64     `yaml:"tolerance" mapstructure:"tolerance"`
	ConnectomeThreshold float64     `yaml:"connectome_threshold" mapstructure:"connectome_threshold"`
	CategoryThresholds  []Threshold `yaml:"category_thresholds" mapstructure:"category_thresholds"`
}

// DefaultThresholds returns the four-band table.
func DefaultThresholds() []Threshold {
	return []Threshold{
		{Lower: 0, Category: Unconscious},
		{Lower: 0.25, Category: Subconscious},
		{Lower: 0.5, Category: Conscious},
		{Lower: 0.75, Category: HighlyConscious},
	}
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		IntegrationCycles:   10,
		MaxCycles:           10000,
		MetricWeights:       Weights{Accessibility: 0.25, Coherence: 0.25, Fitness: 0.25, Complexity: 0.25},
		FitnessBlend:        0.5,
		Relaxation:          0.5,
		Tolerance:           1e-9,
		ConnectomeThreshold: 0.5,
		CategoryThresholds:  DefaultThresholds(),
	}
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }

// Validate returns a wrapped pce.ErrInvalidConfiguration on the first bad field.
func (c Config) Validate() error {
	const method = "integration.Config"
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), pce.ErrInvalidConfiguration)
	}
	w := c.MetricWeights
	switch {
	case c.IntegrationCycles < 1:
		return bad("integration_cycles %d < 1", c.IntegrationCycles)
	case c.MaxCycles < 1:
		return bad("max_cycles %d < 1", c.MaxCycles)
	case !inUnit(w.Accessibility) || !inUnit(w.Coherence) || !inUnit(w.Fitness) || !inUnit(w.Complexity):
		return bad("metric_weights %+v outside [0,1]", w)
	case math.Abs(w.Accessibility+w.Coherence+w.Fitness+w.Complexity-1) > WeightSumTolerance:
		return bad("metric_weights sum to %v, want 1", w.Accessibility+w.Coherence+w.Fitness+w.Complexity)
	case !inUnit(c.FitnessBlend):
		return bad("fitness_blend %v outside [0,1]", c.FitnessBlend)
	case !(c.Relaxation > 0 && c.Relaxation <= 1):
		return bad("relaxation %v outside (0,1]", c.Relaxation)
	case !(c.Tolerance >= 0) || math.IsInf(c.Tolerance, 1):
		return bad("tolerance %v must be ≥ 0", c.Tolerance)
	case !(c.ConnectomeThreshold > 0 && c.ConnectomeThreshold <= 1):
		return bad("connectome_threshold %v outside (0,1]", c.ConnectomeThreshold)
	}

	return ValidateThresholds(c.CategoryThresholds)
}

// ValidateThresholds checks that the table partitions [0,1] monotonically.
//
// Behavior highlights:
//   - The first lower bound is 0; lowers strictly increase and stay below 1.
//   - Categories are known and their rank strictly increases with Lower, so a
//     higher level never maps to a lower band. Uniqueness follows.
//   - A table may skip categories (e.g. Unconscious then Conscious).
func ValidateThresholds(ts []Threshold) error {
	const method = "integration.ValidateThresholds"
	if len(ts) == 0 {
		return fmt.Errorf("%s: empty table: %w", method, pce.ErrInvalidConfiguration)
	}
	if ts[0].Lower != 0 {
		return fmt.Errorf("%s: first lower bound %v, want 0: %w", method, ts[0].Lower, pce.ErrInvalidConfiguration)
	}
	for i, t := range ts {
		if t.Category.rank() < 0 {
			return fmt.Errorf("%s: row %d category %q unknown: %w", method, i, t.Category, pce.ErrInvalidConfiguration)
		}
		if i > 0 && t.Category.rank() <= ts[i-1].Category.rank() {
			return fmt.Errorf("%s: row %d category %q does not rank above %q: %w",
				method, i, t.Category, ts[i-1].Category, pce.ErrInvalidConfiguration)
		}
		if !(t.Lower >= 0 && t.Lower < 1) {
			return fmt.Errorf("%s: row %d lower %v outside [0,1): %w", method, i, t.Lower, pce.ErrInvalidConfiguration)
		}
		if i > 0 && !(t.Lower > ts[i-1].Lower) {
			return fmt.Errorf("%s: row %d lower %v not above %v: %w", method, i, t.Lower, ts[i-1].Lower, pce.ErrInvalidConfiguration)
		}
	}

	return nil
}

// Classify maps a level in [0,1] to its category; the table must be valid.
func Classify(level float64, ts []Threshold) Category {
	cat := ts[0].Category
	for _, t := range ts {
		if t.Lower <= level {
			cat = t.Category
		}
	}

	return cat
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("integration: WithLogger(nil)")
	}

	return func(a *Aggregator) { a.log = l }
}
