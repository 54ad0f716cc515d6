package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/mesh-intelligence/gridlock/pkg/pattern"
)

const adbBinary = "adb"

// Device tries candidates against an Android device in TWRP recovery via
// `adb shell twrp decrypt`. It is the terminal consumer: its outcome is
// what the ledger records.
//
// A single timed-out or garbled call is a transient failure reported as a
// non-matching outcome; the search continues. Only a missing adb binary or
// a failed server start is structural (pattern.ErrConsumerUnavailable).
type Device struct {
	timeout  time.Duration
	markers  pattern.Markers
	echo     bool
	attempt  int
	progress io.Writer
	log      *slog.Logger

	// command is the exec seam, replaced in tests.
	command func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// NewDevice starts the adb server and returns the device consumer.
// Failure to start the server, including a missing adb binary, is wrapped
// in pattern.ErrConsumerUnavailable.
func NewDevice(cfg pattern.Config, progress io.Writer, logger *slog.Logger) (*Device, error) {
	d := &Device{
		timeout:  cfg.AttemptTimeout,
		markers:  cfg.Markers,
		echo:     cfg.EchoCommands,
		progress: progress,
		log:      logger,
		command:  exec.CommandContext,
	}
	if err := d.command(context.Background(), adbBinary, "start-server").Run(); err != nil {
		return nil, fmt.Errorf("%w: start adb server: %v", pattern.ErrConsumerUnavailable, err)
	}
	logger.Info("adb server started")
	return d, nil
}

// Offer runs one decrypt attempt with the per-attempt timeout and
// classifies the device's stdout against the configured markers.
func (d *Device) Offer(ctx context.Context, p pattern.Path, total int) (pattern.Outcome, error) {
	d.attempt++
	d.log.Info("trying candidate", "attempt", d.attempt, "total", total, "path", p, "length", len(p))

	attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	args := d.commandArgs(p)
	out, err := d.command(attemptCtx, adbBinary, args...).Output()
	stdout := string(out)

	if err != nil {
		switch {
		case ctx.Err() != nil:
			// Outer cancellation: abort the candidate without an outcome.
			return pattern.Outcome{}, ctx.Err()
		case errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
			d.log.Warn("device call timed out", "path", p, "timeout", d.timeout)
			d.report(p, total, "TIMEOUT")
			return pattern.Outcome{Code: pattern.CodeTimeout, Info: fmt.Sprintf("timed out after %s", d.timeout)}, nil
		case errors.Is(err, exec.ErrNotFound):
			return pattern.Outcome{}, fmt.Errorf("%w: %v", pattern.ErrConsumerUnavailable, err)
		default:
			// A failing shell call is transient; record and move on.
			d.log.Warn("device call failed", "path", p, "err", err)
			d.report(p, total, "ERROR")
			return pattern.Outcome{Code: pattern.CodeError, Info: err.Error()}, nil
		}
	}

	return d.classify(p, total, stdout), nil
}

// classify maps the device's stdout to an outcome using the configured
// markers.
func (d *Device) classify(p pattern.Path, total int, stdout string) pattern.Outcome {
	info := flatten(stdout)
	switch {
	case d.markers.Success != "" && strings.Contains(stdout, d.markers.Success):
		d.report(p, total, "SUCCESS")
		return pattern.Outcome{Matched: true, Result: p.Clone(), Code: pattern.CodeSuccess, Info: info}
	case d.markers.Normal != "" && strings.Contains(stdout, d.markers.Normal):
		d.report(p, total, "FAILED")
		return pattern.Outcome{Code: pattern.CodeFailure, Info: info}
	default:
		d.log.Warn("unexpected device response", "path", p, "stdout", info)
		d.report(p, total, "UNEXPECTED")
		return pattern.Outcome{Code: pattern.CodeError, Info: info}
	}
}

// commandArgs builds the adb invocation for one candidate. TWRP takes the
// pattern as the node labels concatenated without separators.
func (d *Device) commandArgs(p pattern.Path) []string {
	joined := p.Joined()
	if d.echo {
		return []string{"shell", fmt.Sprintf("echo 'gridlock attempting %s' && twrp decrypt %s", joined, joined)}
	}
	return []string{"shell", "twrp", "decrypt", joined}
}

func (d *Device) report(p pattern.Path, total int, verdict string) {
	if d.progress == nil {
		return
	}
	if total > 0 {
		pct := float64(d.attempt) / float64(total) * 100
		fmt.Fprintf(d.progress, "path %d/%d (%.1f%%): %s - %s\n", d.attempt, total, pct, p, verdict)
		return
	}
	fmt.Fprintf(d.progress, "path %d: %s - %s\n", d.attempt, p, verdict)
}

// flatten keeps a multi-line device reply on one ledger line.
func flatten(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", `\n`)
}
