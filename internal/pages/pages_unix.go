//go:build unix

package pages

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Size returns the OS page size.
func Size() int { return unix.Getpagesize() }

// Map returns an anonymous private read-write mapping of at least n bytes,
// rounded up to whole pages, and the func that unmaps it.
func Map(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("pages: invalid size %d", n)
	}
	size := roundUp(n)
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("pages: mmap %d bytes: %w", size, err)
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		data = nil
		return err
	}
	return data, release, nil
}
