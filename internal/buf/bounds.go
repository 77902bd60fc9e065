// Package buf contains overflow-safe bounds checks for offsets into caller
// buffers. Allocators use it to vet handles before slicing.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// CheckSpan validates that n bytes starting at off fit in a buffer of bufLen
// bytes. It returns the exclusive end offset.
//
//	end, err := buf.CheckSpan(len(window), off, size)
//	if err != nil {
//	    return fmt.Errorf("block: %w", err)
//	}
func CheckSpan(bufLen, off, n int) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset: %d", off)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative length: %d", n)
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", off, n)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
// The result's capacity is clipped to its length so appends cannot spill
// into the neighbouring bytes.
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, err := CheckSpan(len(b), off, n)
	if err != nil {
		return nil, false
	}
	return b[off:end:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, err := CheckSpan(len(b), off, n)
	return err == nil
}
