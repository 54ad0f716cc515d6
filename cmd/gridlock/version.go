// Version command for the gridlock CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the gridlock release version.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gridlock version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gridlock", Version)
	},
}
