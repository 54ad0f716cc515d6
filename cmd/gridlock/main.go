// Package main provides the gridlock CLI: a constrained path search over
// Android-style unlock grids, driving candidate patterns through a
// configurable consumer chain with a durable, resumable attempt ledger.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
