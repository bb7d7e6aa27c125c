// Package runner locates and invokes the wrapped collectd-nagios utility.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	units "github.com/docker/go-units"

	"github.com/lindenbaum/check-collectd/internal/check"
)

// Utility is the name of the wrapped checking utility.
const Utility = "collectd-nagios"

// Runner invokes the wrapped utility and captures its status line.
type Runner struct {
	path string
}

// New locates the utility on PATH. A missing utility is terminal: the
// caller reports UNKNOWN without ever spawning a subprocess.
func New() (*Runner, error) {
	path, err := exec.LookPath(Utility)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH", Utility)
	}
	return &Runner{path: path}, nil
}

// Run invokes the utility with the given argument vector and returns its
// captured stdout and exit status. Stderr is passed through so utility
// diagnostics stay visible without polluting the status line.
func (r *Runner) Run(ctx context.Context, args []string) (string, check.Status, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, r.path, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return "", check.Unknown, fmt.Errorf("failed to run %s: %w", r.path, err)
		}
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			exitCode = status.ExitStatus()
		} else {
			exitCode = int(check.Unknown)
		}
	}

	slog.Debug("utility finished",
		"command", r.path,
		"exit_code", exitCode,
		"duration_ms", duration.Milliseconds(),
		"runtime", units.HumanDuration(duration),
	)

	return stdout.String(), check.FromExitCode(exitCode), nil
}
