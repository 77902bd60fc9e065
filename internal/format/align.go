package format

import "unsafe"

// Alignment utilities for buffer windows and block sizes.
// All alignments must be powers of two; callers validate with IsPow2 first.

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Align returns n rounded up to the next multiple of a.
//
// Example:
//
//	Align(1, 8)  = 8
//	Align(8, 8)  = 8
//	Align(9, 8)  = 16
//	Align(17, 16) = 32
func Align(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// AlignForward rounds an address up to the next multiple of a.
func AlignForward(p, a uintptr) uintptr {
	return (p + a - 1) &^ (a - 1)
}

// Addr returns the address of b's first element, or 0 for an empty slice.
// The value is only used for alignment arithmetic, never dereferenced.
func Addr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Padding returns how many leading bytes of b must be skipped so that the
// remaining window starts at a multiple of a.
func Padding(b []byte, a int) int {
	p := Addr(b)
	return int(AlignForward(p, uintptr(a)) - p)
}

// Window returns the largest sub-slice of b that starts at a multiple of
// align and whose length is a multiple of unit, together with the number of
// leading bytes skipped. ok is false when nothing usable remains.
func Window(b []byte, align, unit int) (w []byte, pad int, ok bool) {
	pad = Padding(b, align)
	if pad >= len(b) {
		return nil, pad, false
	}
	n := len(b) - pad
	n -= n % unit
	if n == 0 {
		return nil, pad, false
	}
	return b[pad : pad+n : pad+n], pad, true
}
