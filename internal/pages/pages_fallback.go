//go:build !unix && !windows

package pages

import (
	"fmt"
	"os"
)

// Size returns the OS page size.
func Size() int { return os.Getpagesize() }

// Map allocates from the Go heap when the platform has no page mapping.
func Map(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("pages: invalid size %d", n)
	}
	return make([]byte, roundUp(n)), func() error { return nil }, nil
}
