package freelist

import (
	"fmt"

	"github.com/joshuapare/memkit/ilist"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/internal/logger"
)

// Realloc resizes the allocated block at ref, which holds oldSize bytes of
// live data, and returns its new handle.
//
// Shrinking stays in place and frees the tail once it reaches the split
// threshold. Growing first tries to absorb a free block that directly
// follows; otherwise it allocates a new block with Alloc, copies the first
// oldSize bytes and frees the old block. The copy lands at Alignment only,
// whatever alignment the old block had: use ReallocAligned to keep a stricter
// one. The first min(oldSize, size) bytes are preserved on every path.
//
// On success the old ref and any slice obtained for it are consumed: use
// only the returned ones. On error nothing changes and ref stays valid.
func (f *Freelist) Realloc(ref Ref, oldSize, size int) (Ref, []byte, error) {
	return f.ReallocAligned(ref, oldSize, size, Alignment)
}

// ReallocAligned is Realloc for blocks obtained from AllocAligned. The block
// is resized in place only when ref already satisfies align; a moved block
// comes from AllocAligned.
func (f *Freelist) ReallocAligned(ref Ref, oldSize, size, align int) (Ref, []byte, error) {
	if oldSize < 0 || size < 0 {
		return 0, nil, fmt.Errorf("%w: %d -> %d", ErrBadSize, oldSize, size)
	}
	if !format.IsPow2(align) {
		return 0, nil, fmt.Errorf("%w: %d", ErrAlignment, align)
	}
	off, bsz, err := f.lookup(ref)
	if err != nil {
		return 0, nil, err
	}
	if usable := bsz - Overhead; oldSize > usable {
		return 0, nil, fmt.Errorf("%w: 0x%X holds %d bytes, not %d", ErrBadSize, ref, usable, oldSize)
	}
	if size > len(f.window) {
		return 0, nil, ErrNoSpace
	}

	if (format.Addr(f.window)+uintptr(ref))%uintptr(align) == 0 {
		if p, ok := f.resize(off, bsz, oldSize, size); ok {
			return ref, p, nil
		}
	}

	nref, p, err := f.AllocAligned(size, align)
	if err != nil {
		return 0, nil, err
	}
	copy(p, f.payload(off, bsz)[:min(oldSize, size)])
	f.used -= bsz
	f.allocs--
	f.release(off, bsz)
	if logger.TraceAlloc {
		logger.Debug("freelist realloc copy", "from", ref, "to", nref, "size", size)
	}
	return nref, p, nil
}

// resize changes the block at off without moving it. ok is false when the
// block must grow and the next block is allocated or too small.
func (f *Freelist) resize(off, bsz, oldSize, size int) ([]byte, bool) {
	need := blockSize(size)
	w := f.window

	if need <= bsz {
		if tail := bsz - need; tail >= f.split {
			mark(w, off, need, false)
			f.used -= tail
			f.release(off+need, tail)
			if logger.TraceAlloc {
				logger.Debug("freelist shrink", "off", off, "from", bsz, "to", need)
			}
			bsz = need
		}
		return f.payload(off, bsz)[:size], true
	}

	next := off + bsz
	if next >= len(w) {
		return nil, false
	}
	nsz, free, ok := header(w, next)
	if !ok || !free || bsz+nsz < need {
		return nil, false
	}
	got := bsz + nsz
	if rest := got - need; rest >= f.split {
		ilist.Replace(f.free, node(next), node(off+need))
		mark(w, off+need, rest, true)
		got = need
	} else {
		ilist.Remove(f.free, node(next))
	}
	retire(w, next)
	mark(w, off, got, false)
	f.used += got - bsz
	if f.zero {
		clear(w[off+HeaderSize+oldSize : off+got-FooterSize])
	}
	if logger.TraceAlloc {
		logger.Debug("freelist grow in place", "off", off, "from", bsz, "to", got)
	}
	return f.payload(off, got)[:size], true
}
