// SPDX-License-Identifier: MIT
// Package: hypergraph
//
// config.go: encoder configuration, defaults and validation.

package hypergraph

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
)

// Entity modes.
const (
	EntityFeatures = "features"
	EntitySamples  = "samples"
)

// Normalisation schemes.
const (
	NormalizeL2     = "l2"
	NormalizeZScore = "zscore"
)

// Config tunes hypergraph construction and encoding.
type Config struct {
	EmbeddingDim      int     `yaml:"embedding_dim" mapstructure:"embedding_dim"`
	PropagationRounds int     `yaml:"propagation_rounds" mapstructure:"propagation_rounds"`
	EdgeThreshold     float64 `yaml:"edge_threshold" mapstructure:"edge_threshold"`
	EntityMode        string  `yaml:"entity_mode" mapstructure:"entity_mode"`
	Mixing            float64 `yaml:"mixing" mapstructure:"mixing"`
	Normalization     string  `yaml:"normalization" mapstructure:"normalization"`
	Seed              int64   `yaml:"seed" mapstructure:"seed"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		EmbeddingDim:      32,
		PropagationRounds: 3,
		EdgeThreshold:     0.6,
		EntityMode:        EntityFeatures,
		Mixing:            0.5,
		Normalization:     NormalizeL2,
	}
}

// Validate returns a wrapped pce.ErrInvalidConfiguration on the first bad field.
func (c Config) Validate() error {
	const method = "hypergraph.Config"
	switch {
	case c.EmbeddingDim < 1:
		return fmt.Errorf("%s: embedding_dim %d < 1: %w", method, c.EmbeddingDim, pce.ErrInvalidConfiguration)
	case c.PropagationRounds < 0:
		return fmt.Errorf("%s: propagation_rounds %d < 0: %w", method, c.PropagationRounds, pce.ErrInvalidConfiguration)
	case !(c.EdgeThreshold > 0 && c.EdgeThreshold <= 1):
		return fmt.Errorf("%s: edge_threshold %v outside (0,1]: %w", method, c.EdgeThreshold, pce.ErrInvalidConfiguration)
	case !(c.Mixing >= 0 && c.Mixing <= 1):
		return fmt.Errorf("%s: mixing %v outside [0,1]: %w", method, c.Mixing, pce.ErrInvalidConfiguration)
	}
	switch c.EntityMode {
	case EntityFeatures, EntitySamples:
	default:
		return fmt.Errorf("%s: entity_mode %q: %w", method, c.EntityMode, pce.ErrInvalidConfiguration)
	}
	switch c.Normalization {
	case NormalizeL2, NormalizeZScore:
	default:
		return fmt.Errorf("%s: normalization %q: %w", method, c.Normalization, pce.ErrInvalidConfiguration)
	}

	return nil
}

// Option customises an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("hypergraph: WithLogger(nil)")
	}

	return func(e *Encoder) { e.log = l }
}
