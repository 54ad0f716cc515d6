// Count command: report the size of the search space.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridlock/internal/search"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the total number of candidate paths for the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, "count:", err)
			os.Exit(exitUserError)
		}

		enum, err := search.NewEnumerator(cfg, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "count:", err)
			os.Exit(exitUserError)
		}

		total, err := enum.Count(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, "count:", err)
			os.Exit(exitUserError)
		}

		fmt.Fprintln(cmd.OutOrStdout(), total)
		return nil
	},
}
