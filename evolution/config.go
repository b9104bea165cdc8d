// SPDX-License-Identifier: MIT
// Package: evolution
//
// config.go: engine configuration, defaults, validation and options.

package evolution

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
)

// Selection schemes.
const (
	SelectTournament = "tournament"
	SelectRank       = "rank"
)

// Fitness objectives.
const (
	ObjectiveAlignment = "alignment"
	ObjectiveResource  = "resource"
)

// Config tunes E3DE.
type Config struct {
	PopulationName  string  `yaml:"population_name" mapstructure:"population_name"`
	PopulationSize  int     `yaml:"population_size" mapstructure:"population_size"`
	GenomeLength    int     `yaml:"genome_length" mapstructure:"genome_length"`
	Generations     int     `yaml:"generations" mapstructure:"generations"`
	MaxGenerations  int     `yaml:"max_generations" mapstructure:"max_generations"`
	MutationRate    float64 `yaml:"mutation_rate" mapstructure:"mutation_rate"`
	MutationScale   float64 `yaml:"mutation_scale" mapstructure:"mutation_scale"`
	CrossoverRate   float64 `yaml:"crossover_rate" mapstructure:"crossover_rate"`
	Elitism         bool    `yaml:"elitism" mapstructure:"elitism"`
	EliteCount      int     `yaml:"elite_count" mapstructure:"elite_count"`
	Selection       string  `yaml:"selection" mapstructure:"selection"`
	TournamentSize  int     `yaml:"tournament_size" mapstructure:"tournament_size"`
	Objective       string  `yaml:"objective" mapstructure:"objective"`
	ResourcePenalty float64 `yaml:"resource_penalty" mapstructure:"resource_penalty"`
	GeneBound       float64 `yaml:"gene_bound" mapstructure:"gene_bound"`
	Workers         int     `yaml:"workers" mapstructure:"workers"`
	Seed            int64   `yaml:"seed" mapstructure:"seed"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		PopulationName:  "neural_population",
		PopulationSize:  20,
		GenomeLength:    16,
		Generations:     10,
		MaxGenerations:  1000,
		MutationRate:    0.1,
		MutationScale:   0.1,
		CrossoverRate:   0.7,
		Elitism:         true,
		EliteCount:      1,
		Selection:       SelectTournament,
		TournamentSize:  3,
		Objective:       ObjectiveAlignment,
		ResourcePenalty: 1.0,
		GeneBound:       5.0,
	}
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// Validate returns a wrapped pce.ErrInvalidConfiguration on the first bad field.
func (c Config) Validate() error {
	const method = "evolution.Config"
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), pce.ErrInvalidConfiguration)
	}
	switch {
	case c.PopulationName == "":
		return bad("population_name is empty")
	case c.PopulationSize < 2:
		return bad("population_size %d < 2", c.PopulationSize)
	case c.GenomeLength < 1:
		return bad("genome_length %d < 1", c.GenomeLength)
	case c.Generations < 0:
		return bad("generations %d < 0", c.Generations)
	case c.MaxGenerations < 1:
		return bad("max_generations %d < 1", c.MaxGenerations)
	case !unit(c.MutationRate):
		return bad("mutation_rate %v outside [0,1]", c.MutationRate)
	case !(c.MutationScale >= 0):
		return bad("mutation_scale %v < 0", c.MutationScale)
	case !unit(c.CrossoverRate):
		return bad("crossover_rate %v outside [0,1]", c.CrossoverRate)
	case c.EliteCount < 0:
		return bad("elite_count %d < 0", c.EliteCount)
	case c.Elitism && c.EliteCount < 1:
		return bad("elitism needs elite_count ≥ 1, got %d", c.EliteCount)
	case c.Elitism && c.EliteCount >= c.PopulationSize:
		return bad("elite_count %d must be < population_size %d", c.EliteCount, c.PopulationSize)
	case c.TournamentSize < 1:
		return bad("tournament_size %d < 1", c.TournamentSize)
	case !(c.ResourcePenalty >= 0):
		return bad("resource_penalty %v < 0", c.ResourcePenalty)
	case !(c.GeneBound > 0):
		return bad("gene_bound %v must be > 0", c.GeneBound)
	case c.Workers < 0:
		return bad("workers %d < 0", c.Workers)
	}
	switch c.Selection {
	case SelectTournament, SelectRank:
	default:
		return bad("selection %q", c.Selection)
	}
	switch c.Objective {
	case ObjectiveAlignment, ObjectiveResource:
	default:
		return bad("objective %q", c.Objective)
	}

	return nil
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("evolution: WithLogger(nil)")
	}

	return func(e *Engine) { e.log = l }
}
