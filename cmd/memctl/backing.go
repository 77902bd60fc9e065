package main

import (
	"fmt"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/internal/pages"
)

// newBacking returns a size-byte buffer and the func that releases it.
// With --pages the buffer is an OS mapping, otherwise Go heap memory. A
// failed mapping falls back to the heap with a warning.
func newBacking(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("buffer size must be positive, got %d", size)
	}
	if usePages {
		data, release, err := pages.Map(size)
		if err == nil {
			printVerbose("Backing: %s mapped in %d-byte pages\n", byteCount(len(data)), pages.Size())
			return data[:size], release, nil
		}
		logger.Warn("page mapping failed, using the Go heap", "size", size, "err", err)
	}
	printVerbose("Backing: %s from the Go heap\n", byteCount(size))
	return make([]byte, size), func() error { return nil }, nil
}

// releaseBacking runs release and logs a failure. The run's own result stands.
func releaseBacking(release func() error) {
	if err := release(); err != nil {
		logger.Warn("release backing buffer", "err", err)
	}
}

// runTarget replays the script in args (if any) against t and prints the report.
func runTarget(t target, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	ops, err := loadScript(path)
	if err != nil {
		return err
	}

	logger.Info("replaying script", "allocator", t.name(), "ops", len(ops))
	s := newSession(t)
	if err := s.run(ops); err != nil {
		return err
	}
	logger.Info("script done", "allocator", t.name(), "live", len(s.live), "noSpace", s.noSpace)
	if err := t.check(); err != nil {
		return fmt.Errorf("allocator check failed: %w", err)
	}
	return printReport(s.report())
}
