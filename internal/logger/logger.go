// Package logger holds the process-wide structured logger.
//
// Library packages never print. When allocator tracing is switched on (the
// MEMKIT_LOG_ALLOC environment variable, or memctl --trace) they emit debug
// records for splits, coalesces and copy fallbacks through L. Exhaustion is a
// normal outcome and is never logged.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It's initialized to discard all output by default.
// Call Init() to enable logging.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// TraceAlloc gates allocator debug records. Checked before building any
// record so disabled tracing costs one branch.
var TraceAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

const (
	logPrefix     = "memctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Writer  io.Writer  // Destination when LogDir is empty. Default: os.Stderr
	LogDir  string     // If set, log to a dated file in this directory instead of Writer
	Level   slog.Level // Minimum log level. Default: LevelInfo when enabled
	JSON    bool       // JSON records instead of text
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return err
		}

		// Clean up old logs (best-effort, ignore errors)
		cleanOldLogs(opts.LogDir, time.Now())

		filename := filepath.Join(opts.LogDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
		f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		w = f
	}

	level := opts.Level
	if level == 0 {
		level = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: level}

	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(w, hopts))
	} else {
		L = slog.New(slog.NewTextHandler(w, hopts))
	}
	return nil
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// Parse date from filename: memctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
