// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/pce/config"
	"github.com/katalvlaran/pce/dataset"
	"github.com/katalvlaran/pce/pipeline"
)

// ExampleQuickAnalysis runs the whole pipeline on the neural toy profile.
func ExampleQuickAnalysis() {
	ds, err := dataset.Synthesize(dataset.ProfileNeuralOmics, 10, 5, dataset.WithSeed(42))
	if err != nil {
		fmt.Println(err)

		return
	}
	m, err := pipeline.QuickAnalysis(context.Background(), ds, config.Default(), 10)
	if err != nil {
		fmt.Println(err)

		return
	}
	fmt.Println(m.ConsciousnessLevel >= 0 && m.ConsciousnessLevel <= 1)
	// Output: true
}

// ExampleSystem_ConsciousnessReport shows which sections are still missing
// before any stage has run.
func ExampleSystem_ConsciousnessReport() {
	sys, err := pipeline.NewSystem(config.Default())
	if err != nil {
		fmt.Println(err)

		return
	}
	fmt.Println(sys.ConsciousnessReport()[pipeline.SectionIncomplete])
	// Output: [dataset hypergraph embedding qlem e3de hdts connectome cis]
}
