package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	trace    bool
	usePages bool
	logDir   string
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Exercise and inspect memkit allocators",
	Long: `memctl builds a pool, freelist or arena allocator over a fresh buffer,
replays an allocation script against it and prints the resulting layout
and statistics.

Script lines:
  alloc NAME [SIZE]          allocate (SIZE may be omitted for pools)
  aligned NAME SIZE ALIGN    allocate with an address alignment
  free NAME                  release an allocation
  realloc NAME SIZE          resize an allocation
  fill NAME BYTE             set every byte of an allocation
  expect NAME BYTE [COUNT]   fail unless every byte (or the first COUNT) equals BYTE
  save | restore             arena marks
  reset                      release everything
  check                      validate allocator structure
  # comment`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	SilenceUsage: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Log allocator splits, merges and copies to stderr")
	rootCmd.PersistentFlags().BoolVar(&usePages, "pages", false, "Back the allocator with OS pages instead of the Go heap")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write logs to a dated file in this directory")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging() error {
	if trace {
		logger.TraceAlloc = true
	}
	level := slog.LevelInfo
	if trace {
		level = slog.LevelDebug
	}
	return logger.Init(logger.Options{
		Enabled: trace || verbose || logDir != "",
		Writer:  os.Stderr,
		LogDir:  logDir,
		Level:   level,
		JSON:    jsonOut,
	})
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
