//go:build windows

package pages

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Size returns the OS page size.
func Size() int { return windows.Getpagesize() }

// Map commits at least n bytes of read-write virtual memory, rounded up to
// whole pages, and returns the func that releases it.
func Map(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("pages: invalid size %d", n)
	}
	size := roundUp(n)
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("pages: VirtualAlloc %d bytes: %w", size, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	release := func() error {
		if addr == 0 {
			return nil
		}
		err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		addr = 0
		return err
	}
	return data, release, nil
}
