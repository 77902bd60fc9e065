// Package alloc defines the interface shared by the memkit allocators.
//
// Implementations:
//   - *freelist.Freelist: variable-size blocks with coalescing
//   - *arena.Arena: bump allocation where Free does not reclaim
//   - *pool.Sized: a fixed-size chunk pool accepting sized requests
//
// Code written against Allocator can switch placement strategies without
// changing how it allocates, resizes and releases memory.
package alloc

import (
	"errors"

	"github.com/joshuapare/memkit/ilist"
)

// Ref is the byte offset of an allocation within its allocator's buffer.
type Ref = ilist.Ref

// ErrNoSpace is wrapped by every allocator's exhaustion error, so callers can
// test for running out of memory without knowing the implementation.
var ErrNoSpace = errors.New("out of space")

// Allocator hands out and takes back regions of a caller-owned buffer.
type Allocator interface {
	// Alloc returns size bytes at the allocator's default alignment.
	Alloc(size int) (Ref, []byte, error)

	// AllocAligned returns size bytes whose address is a multiple of align,
	// a power of two.
	AllocAligned(size, align int) (Ref, []byte, error)

	// Realloc resizes the allocation at ref, which currently holds oldSize
	// bytes. The first min(oldSize, size) bytes are preserved. The returned
	// ref replaces the old one; on error the old one stays valid.
	Realloc(ref Ref, oldSize, size int) (Ref, []byte, error)

	// ReallocAligned is Realloc keeping the result aligned to align.
	ReallocAligned(ref Ref, oldSize, size, align int) (Ref, []byte, error)

	// Free releases the allocation at ref. An allocator that only reclaims
	// in bulk may treat it as a no-op.
	Free(ref Ref) error

	// Reset releases every allocation at once.
	Reset()
}

// IsNoSpace reports whether err means the allocator ran out of memory.
func IsNoSpace(err error) bool {
	return errors.Is(err, ErrNoSpace)
}
