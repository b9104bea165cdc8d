// SPDX-License-Identifier: MIT
// Package config composes the per-stage configurations into one document and
// loads it from YAML files and PCE_-prefixed environment variables.
//
// Precedence (lowest first): Default() → config file → environment.
// Environment keys are the dotted YAML path upper-cased with dots replaced by
// underscores, e.g. PCE_EVOLUTION_POPULATION_SIZE=40.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/entropy"
	"github.com/katalvlaran/pce/evolution"
	"github.com/katalvlaran/pce/hypergraph"
	"github.com/katalvlaran/pce/integration"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/multiscale"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PCE"

// Config is the root configuration document.
type Config struct {
	Seed       int64              `yaml:"seed" mapstructure:"seed"`
	Log        logging.Config     `yaml:"log" mapstructure:"log"`
	Encoder    hypergraph.Config  `yaml:"encoder" mapstructure:"encoder"`
	Optimizer  entropy.Config     `yaml:"optimizer" mapstructure:"optimizer"`
	Evolution  evolution.Config   `yaml:"evolution" mapstructure:"evolution"`
	Simulator  multiscale.Config  `yaml:"simulator" mapstructure:"simulator"`
	Aggregator integration.Config `yaml:"aggregator" mapstructure:"aggregator"`
}

// Default returns the documented defaults of every stage.
func Default() Config {
	return Config{
		Seed:       42,
		Log:        logging.DefaultConfig(),
		Encoder:    hypergraph.DefaultConfig(),
		Optimizer:  entropy.DefaultConfig(),
		Evolution:  evolution.DefaultConfig(),
		Simulator:  multiscale.DefaultConfig(),
		Aggregator: integration.DefaultConfig(),
	}
}

// Validate validates every section.
func (c Config) Validate() error {
	for _, v := range []interface{ Validate() error }{
		c.Log, c.Encoder, c.Optimizer, c.Evolution, c.Simulator, c.Aggregator,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Resolve returns a copy whose zero stage seeds inherit the root Seed.
func (c Config) Resolve() Config {
	out := c
	out.Aggregator.CategoryThresholds = append([]integration.Threshold(nil), c.Aggregator.CategoryThresholds...)
	if out.Encoder.Seed == 0 {
		out.Encoder.Seed = c.Seed
	}
	if out.Optimizer.Seed == 0 {
		out.Optimizer.Seed = c.Seed
	}
	if out.Evolution.Seed == 0 {
		out.Evolution.Seed = c.Seed
	}

	return out
}

// Load reads defaults, then the optional YAML file at path, then environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	const method = "config.Load"
	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return Config{}, fmt.Errorf("%s: %w", method, err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: read %s: %v: %w", method, path, err, pce.ErrInvalidConfiguration)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: decode: %v: %w", method, err, pce.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaults registers every leaf of cfg's YAML form as a viper default, so
// AutomaticEnv can resolve each key.
func setDefaults(v *viper.Viper, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return err
	}
	flat := make(map[string]any)
	flatten("", tree, flat)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.SetDefault(k, flat[k])
	}

	return nil
}

func flatten(prefix string, node map[string]any, out map[string]any) {
	for k, val := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := val.(map[string]any); ok {
			flatten(key, child, out)

			continue
		}
		out[key] = val
	}
}

// Save writes c as YAML to path, creating parent directories.
func (c Config) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config.Save: %w", err)
		}
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
