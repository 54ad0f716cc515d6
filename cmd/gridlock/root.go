// Root command for the gridlock CLI.
package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

// logger is constructed once in PersistentPreRunE and threaded through
// every component; there is no global logging state beyond this handle.
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "gridlock",
	Short: "Gridlock searches unlock-pattern candidates against a consumer chain",
	Long: `Gridlock enumerates every unlock pattern that satisfies the configured
length, prefix, suffix, and exclusion constraints, and offers each candidate
to a chain of consumers (device, test matcher, printer) until one succeeds.
Attempts against the terminal consumer are recorded in a durable ledger so
an interrupted search resumes without retrying work.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := setupLogger(flagLogLevel, flagLogFile)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "configuration file (default: $(CWD)/gridlock.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "error", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write logs to this file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(countCmd)
}
