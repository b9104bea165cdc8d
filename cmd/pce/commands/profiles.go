// SPDX-License-Identifier: MIT

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pce/dataset"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List synthetic dataset profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, p := range dataset.Profiles() {
				fmt.Fprintf(w, "%-22s %s\n", p, p.Description())
				fmt.Fprintf(w, "%-22s layers: %s\n", "", strings.Join(p.LayerNames(), ", "))
			}

			return nil
		},
	}
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
