// SPDX-License-Identifier: MIT
// Package export persists metrics and reports as YAML documents.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pce/integration"
	"github.com/katalvlaran/pce/pipeline"
)

// Output file names written by SaveResults.
const (
	MetricsFile  = "consciousness_metrics.yaml"
	AnalysisFile = "consciousness_analysis.yaml"
)

// WriteYAML encodes v with two-space indentation into path, creating parent
// directories as needed.
func WriteYAML(path string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export.WriteYAML: encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("export.WriteYAML: encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export.WriteYAML: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("export.WriteYAML: %w", err)
	}

	return nil
}

// ReadYAML decodes the YAML document at path into v.
func ReadYAML(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("export.ReadYAML: %w", err)
	}
	if err = yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("export.ReadYAML: decode %s: %w", path, err)
	}

	return nil
}

// SaveResults writes the metrics and the full report into dir and returns
// the two file paths. A nil report skips the analysis file.
func SaveResults(dir string, m integration.Metrics, report pipeline.Report) ([]string, error) {
	paths := []string{filepath.Join(dir, MetricsFile)}
	if err := WriteYAML(paths[0], m.AsMap()); err != nil {
		return nil, err
	}
	if report == nil {
		return paths, nil
	}
	paths = append(paths, filepath.Join(dir, AnalysisFile))
	if err := WriteYAML(paths[1], report); err != nil {
		return nil, err
	}

	return paths, nil
}
