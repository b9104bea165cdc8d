// SPDX-License-Identifier: MIT
// Package commands provides the pce CLI commands.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "pce",
		Short: "Pan-omics integration engine",
		Long: `pce pushes a multi-layer omics dataset through five stages:

  - MOGIL  hypergraph encoding of omics features
  - Q-LEM  entropy minimisation (coherence)
  - E3DE   evolutionary optimisation (fitness)
  - HDTS   multi-scale dynamics (hierarchical complexity)
  - CIS    integration into phi, a level in [0,1] and a category`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newConfigCmd(), newProfilesCmd())

	return root
}
