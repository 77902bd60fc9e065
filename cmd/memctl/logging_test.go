package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/internal/logger"
)

func TestLogDirWritesRunRecords(t *testing.T) {
	resetFlags()
	t.Cleanup(func() { _ = logger.Init(logger.Options{}) })
	logDir, freelistSize = t.TempDir(), "1KiB"
	require.NoError(t, setupLogging())

	script := writeScript(t, "alloc a 10", "free a")
	_, err := captureOutput(t, func() error { return runFreelist([]string{script}) })
	require.NoError(t, err)

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	require.NoError(t, err)
	assertContains(t, string(data), []string{
		`msg="replaying script" allocator=freelist ops=2`,
		`msg="script done" allocator=freelist live=0`,
	})
}

func TestReleaseFailureIsLogged(t *testing.T) {
	t.Cleanup(func() { _ = logger.Init(logger.Options{}) })
	var out bytes.Buffer
	require.NoError(t, logger.Init(logger.Options{Enabled: true, Writer: &out}))

	releaseBacking(func() error { return errors.New("munmap: invalid argument") })
	assert.Contains(t, out.String(), `msg="release backing buffer"`)
	assert.Contains(t, out.String(), "munmap: invalid argument")

	out.Reset()
	releaseBacking(func() error { return nil })
	assert.Zero(t, out.Len())
}
