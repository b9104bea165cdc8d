// SPDX-License-Identifier: MIT
// Package: entropy
//
// config.go: optimiser configuration, defaults, validation and options.

package entropy

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
)

// Weights balances the two objective terms.
type Weights struct {
	Entropy   float64 `yaml:"entropy" mapstructure:"entropy"`
	Alignment float64 `yaml:"alignment" mapstructure:"alignment"`
}

// Config tunes Q-LEM.
type Config struct {
	ObjectiveWeights   Weights `yaml:"objective_weights" mapstructure:"objective_weights"`
	MaxSteps           int     `yaml:"max_steps" mapstructure:"max_steps"`
	Tolerance          float64 `yaml:"tolerance" mapstructure:"tolerance"`
	Patience           int     `yaml:"patience" mapstructure:"patience"`
	LearningRate       float64 `yaml:"learning_rate" mapstructure:"learning_rate"`
	MaxBacktracks      int     `yaml:"max_backtracks" mapstructure:"max_backtracks"`
	MaxInstability     int     `yaml:"max_instability" mapstructure:"max_instability"`
	InverseTemperature float64 `yaml:"inverse_temperature" mapstructure:"inverse_temperature"`
	Jitter             float64 `yaml:"jitter" mapstructure:"jitter"`
	Seed               int64   `yaml:"seed" mapstructure:"seed"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ObjectiveWeights:   Weights{Entropy: 1.0, Alignment: 0.5},
		MaxSteps:           100,
		Tolerance:          1e-6,
		Patience:           3,
		LearningRate:       0.5,
		MaxBacktracks:      8,
		MaxInstability:     3,
		InverseTemperature: 4.0,
		Jitter:             1e-3,
	}
}

func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 1) }

// Validate returns a wrapped pce.ErrInvalidConfiguration on the first bad field.
func (c Config) Validate() error {
	const method = "entropy.Config"
	switch {
	case !nonNegative(c.ObjectiveWeights.Entropy) || !nonNegative(c.ObjectiveWeights.Alignment):
		return fmt.Errorf("%s: objective_weights %+v must be finite and ≥ 0: %w", method, c.ObjectiveWeights, pce.ErrInvalidConfiguration)
	case c.ObjectiveWeights.Entropy+c.ObjectiveWeights.Alignment == 0:
		return fmt.Errorf("%s: objective_weights are all zero: %w", method, pce.ErrInvalidConfiguration)
	case c.MaxSteps < 1:
		return fmt.Errorf("%s: max_steps %d < 1: %w", method, c.MaxSteps, pce.ErrInvalidConfiguration)
	case !(c.Tolerance > 0):
		return fmt.Errorf("%s: tolerance %v must be > 0: %w", method, c.Tolerance, pce.ErrInvalidConfiguration)
	case c.Patience < 1:
		return fmt.Errorf("%s: patience %d < 1: %w", method, c.Patience, pce.ErrInvalidConfiguration)
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 1):
		return fmt.Errorf("%s: learning_rate %v must be > 0: %w", method, c.LearningRate, pce.ErrInvalidConfiguration)
	case c.MaxBacktracks < 0:
		return fmt.Errorf("%s: max_backtracks %d < 0: %w", method, c.MaxBacktracks, pce.ErrInvalidConfiguration)
	case c.MaxInstability < 1:
		return fmt.Errorf("%s: max_instability %d < 1: %w", method, c.MaxInstability, pce.ErrInvalidConfiguration)
	case !(c.InverseTemperature > 0) || math.IsInf(c.InverseTemperature, 1):
		return fmt.Errorf("%s: inverse_temperature %v must be > 0: %w", method, c.InverseTemperature, pce.ErrInvalidConfiguration)
	case !nonNegative(c.Jitter):
		return fmt.Errorf("%s: jitter %v must be ≥ 0: %w", method, c.Jitter, pce.ErrInvalidConfiguration)
	}

	return nil
}

// Option customises an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("entropy: WithLogger(nil)")
	}

	return func(o *Optimizer) { o.log = l }
}
