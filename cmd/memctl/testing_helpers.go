package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetFlags restores every flag to its default between tests.
func resetFlags() {
	verbose, quiet, jsonOut, trace, usePages = false, false, false, false, false
	logDir = ""
	poolSize, poolChunk, poolAlign, poolNoZero = "4KiB", 64, 8, false
	freelistSize, freelistSplit, freelistZero = "4KiB", 24, false
	arenaSize = "4KiB"
}

// writeScript stores a script in a temp file and returns its path.
func writeScript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// decodeReport parses JSON output into a report
func decodeReport(t *testing.T, output string) report {
	t.Helper()
	var r report
	if err := json.Unmarshal([]byte(output), &r); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
	return r
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
