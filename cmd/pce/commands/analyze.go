// SPDX-License-Identifier: MIT

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pce/config"
	"github.com/katalvlaran/pce/dataset"
	"github.com/katalvlaran/pce/export"
	"github.com/katalvlaran/pce/integration"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/pipeline"
)

// Output formats of analyze.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type analyzeOptions struct {
	configPath string
	profile    string
	samples    int
	features   int
	cycles     int
	seed       int64
	noise      float64
	output     string
	logLevel   string
	logFormat  string
	format     string
}

func newAnalyzeCmd() *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Synthesise a dataset and run the full pipeline",
		Example: `  # Quick analysis of the neural toy profile
  pce analyze

  # Mixed omics, 50 cycles, results written to ./results
  pce analyze --profile toy_mixed_omics --samples 100 --features 200 --cycles 50 --output results

  # Override a stage through the environment
  PCE_EVOLUTION_POPULATION_SIZE=40 pce analyze --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	f.StringVarP(&o.profile, "profile", "p", string(dataset.ProfileNeuralOmics), "synthetic profile, see 'pce profiles'")
	f.IntVar(&o.samples, "samples", 100, "number of samples")
	f.IntVar(&o.features, "features", 200, "number of features across all layers")
	f.IntVar(&o.cycles, "cycles", 0, "integration cycles (0 uses aggregator.integration_cycles)")
	f.Int64Var(&o.seed, "seed", 0, "root seed (0 keeps the configured seed)")
	f.Float64Var(&o.noise, "noise", dataset.DefaultNoise, "synthetic noise standard deviation")
	f.StringVarP(&o.output, "output", "o", "", "directory for consciousness_metrics.yaml and consciousness_analysis.yaml")
	f.StringVar(&o.logLevel, "log-level", "", "log level (overrides log.level)")
	f.StringVar(&o.logFormat, "log-format", "", "log format text|json (overrides log.format)")
	f.StringVar(&o.format, "format", FormatText, "result format text|yaml|json")

	return cmd
}

func (o *analyzeOptions) run(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.noise < 0 || math.IsNaN(o.noise) || math.IsInf(o.noise, 0) {
		return fmt.Errorf("analyze: noise %v must be a finite value ≥ 0", o.noise)
	}
	switch o.format {
	case FormatText, FormatYAML, FormatJSON:
	default:
		return fmt.Errorf("analyze: unknown format %q", o.format)
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	profile, err := dataset.ParseProfile(o.profile)
	if err != nil {
		return err
	}
	ds, err := dataset.Synthesize(profile, o.samples, o.features,
		dataset.WithSeed(cfg.Seed), dataset.WithNoise(o.noise))
	if err != nil {
		return err
	}

	sys, err := pipeline.NewSystem(cfg, pipeline.WithLogger(log))
	if err != nil {
		return err
	}
	m, err := sys.Run(cmd.Context(), ds, o.cycles)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err = printMetrics(out, o.format, m); err != nil {
		return err
	}
	if o.output != "" {
		paths, err := export.SaveResults(o.output, m, sys.ConsciousnessReport())
		if err != nil {
			return err
		}
		if o.format == FormatText {
			fmt.Fprintln(out, "\nResults saved:")
			for _, p := range paths {
				fmt.Fprintf(out, "  %s\n", p)
			}
		}
	}

	return nil
}

func printMetrics(w io.Writer, format string, m integration.Metrics) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(m)
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(m.AsMap())
	}

	fmt.Fprintf(w, "Consciousness phi:        %.6f\n", m.Phi)
	fmt.Fprintf(w, "Global accessibility:     %.6f\n", m.GlobalAccessibility)
	fmt.Fprintf(w, "Quantum coherence:        %.6f\n", m.QuantumCoherence)
	fmt.Fprintf(w, "Hierarchical complexity:  %.6f\n", m.HierarchicalComplexity)
	fmt.Fprintf(w, "Consciousness level:      %.6f (%s)\n", m.ConsciousnessLevel, m.ConsciousnessCategory)
	if len(m.Partial) > 0 {
		fmt.Fprintf(w, "Truncated stages:         %s\n", strings.Join(m.Partial, ", "))
	}
	fmt.Fprintln(w, "\nInterpretation:")
	for _, line := range Interpret(m) {
		fmt.Fprintf(w, "  %s\n", line)
	}

	return nil
}

// Interpret renders the qualitative bands of phi, accessibility and coherence.
func Interpret(m integration.Metrics) []string {
	var out []string
	switch {
	case m.Phi > 0.1:
		out = append(out, "High integration emergence")
	case m.Phi > 0.01:
		out = append(out, "Moderate integration emergence")
	default:
		out = append(out, "Low integration emergence")
	}
	if m.GlobalAccessibility > 0.5 {
		out = append(out, "High global information accessibility")
	} else {
		out = append(out, "Limited global information accessibility")
	}
	if m.QuantumCoherence > 0.3 {
		out = append(out, "Significant coherence")
	} else {
		out = append(out, "Minimal coherence")
	}

	return out
}
