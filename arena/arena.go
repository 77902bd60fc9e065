// Package arena implements a bump allocator over a caller buffer.
//
// Allocation advances a single offset; individual blocks are never freed.
// Reset drops everything at once and Save/Restore roll back to a mark, which
// suits scratch memory scoped to one operation. The most recent allocation
// can grow or shrink in place.
package arena

import (
	"fmt"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/internal/logger"
)

// DefaultAlignment is the alignment Alloc uses: two machine words.
const DefaultAlignment = 2 * format.DefaultAlignment

// Ref is a byte offset within the arena buffer.
type Ref = alloc.Ref

// Arena hands out consecutive slices of a caller buffer.
type Arena struct {
	buf  []byte
	prev int // start of the most recent allocation
	curr int // first unallocated byte
}

// State is a mark returned by Save.
type State struct {
	prev, curr int
}

// New creates an arena over buf. Offsets are relative to buf itself; each
// allocation pads forward to its own alignment.
func New(b []byte) (*Arena, error) {
	if len(b) == 0 {
		return nil, ErrBufferTooSmall
	}
	if uint64(len(b)) > format.MaxWindow {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooLarge, len(b))
	}
	return &Arena{buf: b}, nil
}

// Alloc returns size zeroed bytes aligned to DefaultAlignment.
func (a *Arena) Alloc(size int) (Ref, []byte, error) {
	return a.AllocAligned(size, DefaultAlignment)
}

// AllocAligned returns size zeroed bytes whose address is a multiple of
// align. It returns ErrNoSpace when the rest of the buffer is too short.
func (a *Arena) AllocAligned(size, align int) (Ref, []byte, error) {
	if size < 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if !format.IsPow2(align) {
		return 0, nil, fmt.Errorf("%w: %d", ErrAlignment, align)
	}
	base := format.Addr(a.buf) + uintptr(a.curr)
	off := a.curr + int(format.AlignForward(base, uintptr(align))-base)
	if off > len(a.buf) || size > len(a.buf)-off {
		return 0, nil, ErrNoSpace
	}
	p := a.buf[off : off+size : off+size]
	clear(p)
	a.prev, a.curr = off, off+size
	return Ref(off), p, nil
}

// Realloc resizes the block at ref from oldSize to size bytes. The most
// recent allocation is resized in place; any other block is copied into a
// fresh allocation and left behind as dead space. Bytes up to the smaller
// size are preserved and grown bytes are zeroed.
//
// On success the old slice is consumed. On error nothing changes.
func (a *Arena) Realloc(ref Ref, oldSize, size int) (Ref, []byte, error) {
	return a.ReallocAligned(ref, oldSize, size, DefaultAlignment)
}

// ReallocAligned is Realloc with the result aligned to align. The most recent
// allocation stays in place only if its address already satisfies align.
func (a *Arena) ReallocAligned(ref Ref, oldSize, size, align int) (Ref, []byte, error) {
	if oldSize < 0 || size < 0 {
		return 0, nil, fmt.Errorf("%w: %d -> %d", ErrBadSize, oldSize, size)
	}
	if !format.IsPow2(align) {
		return 0, nil, fmt.Errorf("%w: %d", ErrAlignment, align)
	}
	off := int(ref)
	if off > a.curr || oldSize > a.curr-off {
		return 0, nil, fmt.Errorf("%w: 0x%X+%d", ErrBadRef, ref, oldSize)
	}

	last := off == a.prev && off+oldSize == a.curr
	if last && (format.Addr(a.buf)+uintptr(off))%uintptr(align) == 0 {
		if size > len(a.buf)-off {
			return 0, nil, ErrNoSpace
		}
		if size > oldSize {
			clear(a.buf[off+oldSize : off+size])
		}
		a.curr = off + size
		if logger.TraceAlloc {
			logger.Debug("arena resize in place", "ref", off, "from", oldSize, "to", size)
		}
		return ref, a.buf[off : off+size : off+size], nil
	}

	nref, p, err := a.AllocAligned(size, align)
	if err != nil {
		return 0, nil, err
	}
	copy(p, a.buf[off:off+min(oldSize, size)])
	if logger.TraceAlloc {
		logger.Debug("arena realloc copy", "from", off, "to", nref, "size", size)
	}
	return nref, p, nil
}

// Free checks that ref lies in the allocated prefix and reclaims nothing:
// arena memory comes back only through Reset or Restore.
func (a *Arena) Free(ref Ref) error {
	if int(ref) > a.curr {
		return fmt.Errorf("%w: 0x%X", ErrBadRef, ref)
	}
	return nil
}

// Bytes returns n bytes at ref if they lie in the allocated prefix.
func (a *Arena) Bytes(ref Ref, n int) ([]byte, bool) {
	return buf.Slice(a.buf[:a.curr], int(ref), n)
}

// Reset discards every allocation.
func (a *Arena) Reset() {
	a.prev, a.curr = 0, 0
}

// Save returns a mark for Restore.
func (a *Arena) Save() State {
	return State{prev: a.prev, curr: a.curr}
}

// Restore rolls the arena back to s, discarding everything allocated after
// Save returned it. Restoring a mark taken before a Reset or before an
// earlier Restore is a caller error; such a mark is ignored when it points
// past the current offset.
func (a *Arena) Restore(s State) {
	if s.curr > a.curr {
		return
	}
	a.prev, a.curr = s.prev, s.curr
}

// Used returns the number of bytes consumed, alignment padding included.
func (a *Arena) Used() int { return a.curr }

// Cap returns the buffer length.
func (a *Arena) Cap() int { return len(a.buf) }

// Available returns the bytes left after the current offset.
func (a *Arena) Available() int { return len(a.buf) - a.curr }

// Compile-time interface check
var _ alloc.Allocator = (*Arena)(nil)
