// SPDX-License-Identifier: MIT
// Package: multiscale
//
// config.go: simulator configuration, defaults, validation and options.

package multiscale

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
)

// Integrators.
const (
	IntegratorRK4   = "rk4"
	IntegratorEuler = "euler"
)

// Config tunes HDTS.
type Config struct {
	NumScales          int     `yaml:"num_scales" mapstructure:"num_scales"`
	StepSize           float64 `yaml:"step_size" mapstructure:"step_size"`
	Duration           float64 `yaml:"duration" mapstructure:"duration"`
	MaxSteps           int     `yaml:"max_steps" mapstructure:"max_steps"`
	TimeConstant       float64 `yaml:"time_constant" mapstructure:"time_constant"`
	TimeConstantGrowth float64 `yaml:"time_constant_growth" mapstructure:"time_constant_growth"`
	BottomUpCoupling   float64 `yaml:"bottom_up_coupling" mapstructure:"bottom_up_coupling"`
	TopDownCoupling    float64 `yaml:"top_down_coupling" mapstructure:"top_down_coupling"`
	Gain               float64 `yaml:"gain" mapstructure:"gain"`
	Integrator         string  `yaml:"integrator" mapstructure:"integrator"`
	SyncWindow         int     `yaml:"sync_window" mapstructure:"sync_window"`
	SyncSlopePenalty   float64 `yaml:"sync_slope_penalty" mapstructure:"sync_slope_penalty"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		NumScales:          4,
		StepSize:           0.01,
		Duration:           0.5,
		MaxSteps:           10000,
		TimeConstant:       0.05,
		TimeConstantGrowth: 2.0,
		BottomUpCoupling:   0.5,
		TopDownCoupling:    0.2,
		Gain:               1.5,
		Integrator:         IntegratorRK4,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate returns a wrapped pce.ErrInvalidConfiguration on the first bad field.
func (c Config) Validate() error {
	const method = "multiscale.Config"
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), pce.ErrInvalidConfiguration)
	}
	switch {
	case c.NumScales < 1:
		return bad("num_scales %d < 1", c.NumScales)
	case !(c.StepSize > 0) || !finite(c.StepSize):
		return bad("step_size %v must be > 0", c.StepSize)
	case !finite(c.Duration):
		return bad("duration %v must be finite", c.Duration)
	case c.MaxSteps < 1:
		return bad("max_steps %d < 1", c.MaxSteps)
	case !(c.TimeConstant > 0) || !finite(c.TimeConstant):
		return bad("time_constant %v must be > 0", c.TimeConstant)
	case !(c.TimeConstantGrowth >= 1) || !finite(c.TimeConstantGrowth):
		return bad("time_constant_growth %v must be ≥ 1", c.TimeConstantGrowth)
	case !(c.BottomUpCoupling >= 0) || !finite(c.BottomUpCoupling):
		return bad("bottom_up_coupling %v must be ≥ 0", c.BottomUpCoupling)
	case !(c.TopDownCoupling >= 0) || !finite(c.TopDownCoupling):
		return bad("top_down_coupling %v must be ≥ 0", c.TopDownCoupling)
	case !finite(c.Gain):
		return bad("gain %v must be finite", c.Gain)
	case c.SyncWindow < 0:
		return bad("sync_window %d < 0", c.SyncWindow)
	case !(c.SyncSlopePenalty >= 0) || !finite(c.SyncSlopePenalty):
		return bad("sync_slope_penalty %v must be ≥ 0", c.SyncSlopePenalty)
	}
	switch c.Integrator {
	case IntegratorRK4, IntegratorEuler:
	default:
		return bad("integrator %q", c.Integrator)
	}

	return nil
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("multiscale: WithLogger(nil)")
	}

	return func(s *Simulator) { s.log = l }
}
