package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lindenbaum/check-collectd/internal/check"
	"github.com/lindenbaum/check-collectd/internal/relay"
	"github.com/lindenbaum/check-collectd/internal/runner"
)

func fakeUtility(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, runner.Utility)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write fake utility: %v", err)
	}
	t.Setenv("PATH", dir)
}

// execute resets command state, runs the root command with args and returns
// the captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts = relay.Options{}
	exitStatus = check.Unknown

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	// A nil slice would make cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunReformatsProblemLine(t *testing.T) {
	fakeUtility(t, `echo "CRITICAL: critical 1, warning 0, okay 0 |load=0.7;;;; load=0.5;;;; load=0.3;;;;"`+"\nexit 2\n")

	out, err := execute(t, "-F", "Load %s: %f, %f, %f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "Load CRITICAL: 0.700000, 0.500000, 0.300000 |load=0.7;;;; load=0.5;;;; load=0.3;;;;\n"
	if out != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}
	if exitStatus != check.Critical {
		t.Errorf("expected exit status %v, got %v", check.Critical, exitStatus)
	}
}

func TestRunPassesThroughWithoutFormat(t *testing.T) {
	fakeUtility(t, `echo "OKAY: 852 sum |shortterm=0.5;;;;"`+"\nexit 0\n")

	out, err := execute(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "OK: 852 sum |shortterm=0.5;;;;\n" {
		t.Errorf("unexpected output: %q", out)
	}
	if exitStatus != check.OK {
		t.Errorf("expected exit status %v, got %v", check.OK, exitStatus)
	}
}

func TestRunServerErrorForcesUnknown(t *testing.T) {
	fakeUtility(t, `echo "ERROR: Server error: No such value found"`+"\nexit 0\n")

	out, err := execute(t, "-f", "%s: total %f")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "UNKNOWN: Server error: No such value found\n" {
		t.Errorf("unexpected output: %q", out)
	}
	if exitStatus != check.Unknown {
		t.Errorf("expected exit status %v, got %v", check.Unknown, exitStatus)
	}
}

func TestRunMissingUtility(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := execute(t, "-n", "load/load")
	if err == nil {
		t.Fatal("expected error for missing utility")
	}
	if exitStatus != check.Unknown {
		t.Errorf("expected exit status %v, got %v", check.Unknown, exitStatus)
	}
}

func TestRunRejectsPositionalArguments(t *testing.T) {
	fakeUtility(t, "exit 0\n")

	if _, err := execute(t, "stray"); err == nil {
		t.Fatal("expected error for positional argument")
	}
}
