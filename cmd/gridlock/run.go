// Run command: execute the pattern search.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gridlock/internal/consumer"
	"github.com/mesh-intelligence/gridlock/internal/grid"
	"github.com/mesh-intelligence/gridlock/internal/ledger"
	"github.com/mesh-intelligence/gridlock/internal/paths"
	"github.com/mesh-intelligence/gridlock/internal/search"
	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

var (
	runDevice bool
	runTest   bool
	runPrint  bool
	runDryRun bool
)

// sampleLimit is how many candidates a dry run shows.
const sampleLimit = 10

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search for the unlock pattern with the selected consumers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, "run:", err)
			os.Exit(exitUserError)
		}

		enum, err := search.NewEnumerator(cfg, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "run:", err)
			os.Exit(exitUserError)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if runDryRun {
			return dryRun(ctx, cmd, cfg, enum)
		}
		if !runDevice && !runTest && !runPrint {
			fmt.Fprintln(os.Stderr, "run: select at least one consumer (--device, --test, --print)")
			os.Exit(exitUserError)
		}

		out := cmd.OutOrStdout()
		g, err := grid.Lookup(cfg.GridSize)
		if err != nil {
			fmt.Fprintln(os.Stderr, "run:", err)
			os.Exit(exitUserError)
		}

		// Chain order is fixed: printer first for visibility, then the
		// matcher, then the device. The device is terminal when present;
		// otherwise the matcher is.
		chain := consumer.NewChain()
		if runPrint {
			chain.Add(consumer.NewPrinter(g, out))
		}
		if runTest {
			m := consumer.NewMatch(cfg.TestPath, out, logger)
			if runDevice {
				chain.Add(m)
			} else {
				chain.AddTerminal(m)
			}
		}
		if runDevice {
			dev, err := consumer.NewDevice(cfg, out, logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, "run:", err)
				os.Exit(exitSysError)
			}
			chain.AddTerminal(dev)
		}

		runID := search.NewRunID()
		var led pattern.Ledger
		if chain.HasTerminal() {
			storePath, err := paths.ResolveLedgerPath(cfg.Ledger.Path)
			if err != nil {
				fmt.Fprintln(os.Stderr, "run:", err)
				os.Exit(exitSysError)
			}
			led, err = ledger.Open(cfg.Ledger.Backend, storePath, runID, logger)
			if err != nil {
				fmt.Fprintln(os.Stderr, "run:", err)
				os.Exit(exitSysError)
			}
			defer led.Close()
		}

		printBanner(out, cfg)
		driver := search.NewDriver(enum, chain, led, cfg.AttemptDelay, runID, logger)
		res, err := driver.Run(ctx)
		printResult(out, res)

		switch res.State {
		case search.StateFound, search.StateExhausted:
			return nil
		case search.StateInterrupted:
			os.Exit(exitUserError)
		default:
			fmt.Fprintln(os.Stderr, "run:", err)
			os.Exit(exitSysError)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDevice, "device", false, "attempt decryption on an Android device via adb/TWRP")
	runCmd.Flags().BoolVar(&runTest, "test", false, "match candidates against test_path from the configuration")
	runCmd.Flags().BoolVar(&runPrint, "print", false, "print each candidate on the grid")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "show the candidate count and first few candidates, then exit")
}

// dryRun reports the search space without dispatching to any consumer.
func dryRun(ctx context.Context, cmd *cobra.Command, cfg pattern.Config, enum *search.Enumerator) error {
	out := cmd.OutOrStdout()

	total, err := enum.Count(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "run:", err)
		os.Exit(exitUserError)
	}

	printBanner(out, cfg)
	fmt.Fprintf(out, "dry run: %d candidate paths\n", total)
	fmt.Fprintf(out, "first %d candidates:\n", sampleLimit)

	n := 0
	err = enum.Walk(ctx, func(p pattern.Path) (bool, error) {
		n++
		fmt.Fprintf(out, "  %d. %s\n", n, p)
		return n >= sampleLimit, nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "run:", err)
		os.Exit(exitUserError)
	}
	return nil
}

func printBanner(out io.Writer, cfg pattern.Config) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "gridlock - grid %dx%d, length %d..%d\n", cfg.GridSize, cfg.GridSize, cfg.MinLength, cfg.MaxLength)
	fmt.Fprintf(out, "prefix: %s  suffix: %s  excluded: %s\n",
		orNone(cfg.Prefix), orNone(cfg.Suffix), orNone(cfg.Excluded))
	fmt.Fprintln(out, rule)
}

func printResult(out io.Writer, res search.Result) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(out, rule)
	switch res.State {
	case search.StateFound:
		fmt.Fprintf(out, "SUCCESS! pattern found: %s\n", res.Found)
	case search.StateExhausted:
		fmt.Fprintln(out, "search completed: no matching pattern")
	case search.StateInterrupted:
		fmt.Fprintf(out, "search interrupted (last candidate: %s)\n", res.LastCandidate)
	default:
		fmt.Fprintln(out, "search aborted")
	}
	fmt.Fprintf(out, "attempted %d, skipped %d of %d total in %s\n",
		res.Attempted, res.Skipped, res.Total, res.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(out, rule)
}

func orNone(p pattern.Path) string {
	if len(p) == 0 {
		return "none"
	}
	return p.Key()
}
