package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nickandperla.net/tapebf"
)

func writeRunsConfig(t *testing.T, dir string) string {
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`
[log]
level = "info"
file = %q

[persistence]
enabled = true
name = "runs.db"
path = %q
`, filepath.Join(dir, "runs.log"), dir)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestRunListsEmptyJournal(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeRunsConfig(t, dir)}, &stdout, &stderr)
	if code != tapebf.ExitSuccess {
		t.Fatalf("Exit [%d] is not success. %s", code, stderr.String())
	}
	if !strings.HasPrefix(stdout.String(), "Runs: 0 ") {
		t.Errorf("Output [%q] does not report an empty journal", stdout.String())
	}
}

func TestRunPruneFlushesLogFile(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", writeRunsConfig(t, dir), "-prune-keep", "0", "-dry-run"}, &stdout, &stderr)
	if code != tapebf.ExitSuccess {
		t.Fatalf("Exit [%d] is not success. %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Runs deleted:  0") {
		t.Errorf("Output [%q] does not report the prune", stdout.String())
	}

	logged, err := os.ReadFile(filepath.Join(dir, "runs.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(logged), "DRY RUN: previewing prune") {
		t.Errorf("Log file [%q] is missing the prune entry", logged)
	}
}

func TestRunFailureReturnsExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, &stdout, &stderr)
	if code != tapebf.ExitToolFailure {
		t.Errorf("Exit [%d] is not [%d]", code, tapebf.ExitToolFailure)
	}
	if !strings.Contains(stderr.String(), "Unable to load tapebf config") {
		t.Errorf("Stderr [%q] does not report the config failure", stderr.String())
	}
}
