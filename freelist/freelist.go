package freelist

import (
	"fmt"
	"iter"
	"math"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/ilist"
	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/internal/logger"
)

// Ref is the byte offset of a block's payload within the allocator window.
type Ref = alloc.Ref

// Freelist manages variable-size blocks inside a caller buffer.
//
// Blocks tile the window back to back. Free blocks are chained in address
// order through links stored in their own payload, and adjacent free blocks
// are merged on every Free, so the chain never holds two neighbours.
type Freelist struct {
	window []byte
	pad    int
	free   *ilist.Mem
	split  int
	zero   bool

	used   int // bytes in allocated blocks, overhead included
	allocs int
}

// Stats is a snapshot of allocator occupancy.
type Stats struct {
	Size        int // window length
	Used        int // bytes in allocated blocks, overhead included
	Free        int // bytes in free blocks, overhead included
	Allocations int
	FreeBlocks  int
	LargestFree int // total size of the largest free block
}

// New creates an allocator over buf with one free block spanning the whole
// aligned window. The window start is aligned to Alignment and its length
// truncated to a multiple of it.
func New(b []byte, cfg *Config) (*Freelist, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	window, pad, ok := format.Window(b, Alignment, Alignment)
	if !ok || len(window) < MinBlock {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooSmall, len(b))
	}
	if len(window) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooLarge, len(window))
	}

	f := &Freelist{
		window: window,
		pad:    pad,
		free:   ilist.NewMem(window),
		split:  cfg.splitThreshold(),
		zero:   cfg.Zero,
	}
	f.Reset()
	return f, nil
}

// Reset frees every block at once, restoring the state New produced.
// References handed out earlier must not be used.
func (f *Freelist) Reset() {
	ilist.Init(f.free, ilist.Head)
	mark(f.window, 0, len(f.window), true)
	ilist.PushBack(f.free, ilist.Head, node(0))
	f.used = 0
	f.allocs = 0
}

// Alloc returns the first free block, in address order, that can hold size
// bytes. A block whose leftover would reach the split threshold is split and
// the leftover stays on the free chain in the same position.
//
// The returned slice has length size and capacity equal to the block's
// usable payload. ErrNoSpace means no single free block is large enough.
func (f *Freelist) Alloc(size int) (Ref, []byte, error) {
	if size < 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if size > len(f.window) {
		return 0, nil, ErrNoSpace
	}
	need := blockSize(size)

	for n := range ilist.All(f.free, ilist.Head) {
		off := blockOf(n)
		bsz, _, _ := header(f.window, off)
		if bsz < need {
			continue
		}
		got := f.carve(n, off, bsz, need)
		return f.handOut(off, got, size)
	}
	return 0, nil, ErrNoSpace
}

// AllocAligned is Alloc with the payload address rounded up to a multiple of
// align, a power of two. Alignments below Alignment are raised to it. A gap
// left in front of the payload becomes a free block of its own.
func (f *Freelist) AllocAligned(size, align int) (Ref, []byte, error) {
	if size < 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if !format.IsPow2(align) {
		return 0, nil, fmt.Errorf("%w: %d", ErrAlignment, align)
	}
	if align <= Alignment {
		return f.Alloc(size)
	}
	if size > len(f.window) {
		return 0, nil, ErrNoSpace
	}
	need := blockSize(size)
	base := format.Addr(f.window)

	for n := range ilist.All(f.free, ilist.Head) {
		off := blockOf(n)
		bsz, _, _ := header(f.window, off)

		payload := base + uintptr(off+HeaderSize)
		gap := int(format.AlignForward(payload, uintptr(align)) - payload)
		for gap != 0 && gap < MinBlock {
			gap += align
		}
		if gap+need > bsz {
			continue
		}
		if gap == 0 {
			got := f.carve(n, off, bsz, need)
			return f.handOut(off, got, size)
		}

		// The free block shrinks to the gap and keeps its chain position;
		// the allocation and any tail follow it.
		at := off + gap
		got := bsz - gap
		if rest := got - need; rest >= f.split {
			ilist.AddAfter(f.free, n, node(at+need))
			mark(f.window, at+need, rest, true)
			got = need
		}
		mark(f.window, off, gap, true)
		mark(f.window, at, got, false)
		if logger.TraceAlloc {
			logger.Debug("freelist aligned gap", "off", off, "gap", gap, "align", align)
		}
		return f.handOut(at, got, size)
	}
	return 0, nil, ErrNoSpace
}

// carve takes need bytes from the front of the free block at off and marks
// them allocated. It returns the size actually taken.
func (f *Freelist) carve(n Ref, off, bsz, need int) int {
	rest := bsz - need
	if rest < f.split {
		ilist.Remove(f.free, n)
		mark(f.window, off, bsz, false)
		return bsz
	}
	// Chain first: Replace clears the old link, which sits in the payload.
	ilist.Replace(f.free, n, node(off+need))
	mark(f.window, off+need, rest, true)
	mark(f.window, off, need, false)
	if logger.TraceAlloc {
		logger.Debug("freelist split", "off", off, "need", need, "rest", rest)
	}
	return need
}

// handOut accounts for a freshly allocated block and slices its payload.
func (f *Freelist) handOut(off, bsz, size int) (Ref, []byte, error) {
	f.used += bsz
	f.allocs++
	p := f.payload(off, bsz)
	if f.zero {
		clear(p)
	}
	if logger.TraceAlloc {
		logger.Debug("freelist alloc", "ref", off+HeaderSize, "size", size, "block", bsz)
	}
	return node(off), p[:size], nil
}

// Free returns the block at ref to the free chain, merging it with free
// neighbours. It reports ErrBadRef when ref does not address a block and
// ErrNotAllocated when the block is already free, including when it has
// since been merged into a free neighbour.
func (f *Freelist) Free(ref Ref) error {
	off, bsz, err := f.lookup(ref)
	if err != nil {
		return err
	}
	f.used -= bsz
	f.allocs--
	f.release(off, bsz)
	if logger.TraceAlloc {
		logger.Debug("freelist free", "ref", ref, "block", bsz)
	}
	return nil
}

// release marks the span at off free and coalesces it with its neighbours.
// The span's own header is not read.
func (f *Freelist) release(off, size int) {
	w := f.window
	cur := node(off)

	prevOff := -1
	if off > 0 {
		if psz, free, ok := footer(w, off); ok && free && psz <= off {
			prevOff = off - psz
		}
	}
	nextOff, nsz := -1, 0
	if end := off + size; end < len(w) {
		if s, free, ok := header(w, end); ok && free {
			nextOff, nsz = end, s
		}
	}

	// Every chain update happens before headers are rewritten: links of the
	// merged-away blocks lie inside the merged span.
	switch {
	case prevOff >= 0 && nextOff >= 0:
		ilist.Remove(f.free, node(nextOff))
		retire(w, off)
		retire(w, nextOff)
		mark(w, prevOff, nextOff+nsz-prevOff, true)
	case prevOff >= 0:
		retire(w, off)
		mark(w, prevOff, off+size-prevOff, true)
	case nextOff >= 0:
		ilist.Replace(f.free, node(nextOff), cur)
		retire(w, nextOff)
		mark(w, off, size+nsz, true)
	default:
		at := ilist.Head
		for n := range ilist.All(f.free, ilist.Head) {
			if n > cur {
				at = n
				break
			}
		}
		ilist.AddBefore(f.free, at, cur)
		mark(w, off, size, true)
		return
	}
	if logger.TraceAlloc {
		logger.Debug("freelist coalesce", "off", off, "prev", prevOff, "next", nextOff)
	}
}

// lookup validates ref as the payload of an allocated block.
func (f *Freelist) lookup(ref Ref) (off, size int, err error) {
	off = int(ref) - HeaderSize
	if off%Alignment != 0 || !buf.Has(f.window, off, MinBlock) {
		return 0, 0, fmt.Errorf("%w: 0x%X", ErrBadRef, ref)
	}
	if retired(f.window, off) {
		return 0, 0, fmt.Errorf("%w: 0x%X merged into a free block", ErrNotAllocated, ref)
	}
	size, free, ok := header(f.window, off)
	if !ok {
		return 0, 0, fmt.Errorf("%w: 0x%X", ErrBadRef, ref)
	}
	if size < MinBlock || !buf.Has(f.window, off, size) {
		return 0, 0, fmt.Errorf("%w: 0x%X size %d", ErrBadRef, ref, size)
	}
	if free {
		return 0, 0, fmt.Errorf("%w: 0x%X", ErrNotAllocated, ref)
	}
	if fsz, ffree, fok := footer(f.window, off+size); !fok || ffree || fsz != size {
		return 0, 0, fmt.Errorf("%w: 0x%X footer mismatch", ErrBadRef, ref)
	}
	return off, size, nil
}

func (f *Freelist) payload(off, bsz int) []byte {
	lo, hi := off+HeaderSize, off+bsz-FooterSize
	return f.window[lo:hi:hi]
}

// Bytes returns the whole usable payload of the allocated block at ref.
// Its length may exceed the size passed to Alloc.
func (f *Freelist) Bytes(ref Ref) ([]byte, bool) {
	off, bsz, err := f.lookup(ref)
	if err != nil {
		return nil, false
	}
	return f.payload(off, bsz), true
}

// Blocks yields every block in address order. Iteration stops early at a
// header that does not describe a block inside the window.
func (f *Freelist) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for off := 0; off < len(f.window); {
			size, free, ok := header(f.window, off)
			if !ok || size < MinBlock || off+size > len(f.window) {
				return
			}
			if !yield(Block{Off: off, Size: size, Free: free}) {
				return
			}
			off += size
		}
	}
}

// FreeBlocks yields the free chain in order.
func (f *Freelist) FreeBlocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for n := range ilist.All(f.free, ilist.Head) {
			off := blockOf(n)
			size, _, _ := header(f.window, off)
			if !yield(Block{Off: off, Size: size, Free: true}) {
				return
			}
		}
	}
}

// Window returns the aligned region blocks are carved from.
func (f *Freelist) Window() []byte { return f.window }

// Padding returns the number of leading buffer bytes skipped for alignment.
func (f *Freelist) Padding() int { return f.pad }

// Used returns bytes held by allocated blocks, overhead included.
func (f *Freelist) Used() int { return f.used }

// Stats walks the free chain and returns current occupancy.
func (f *Freelist) Stats() Stats {
	st := Stats{
		Size:        len(f.window),
		Used:        f.used,
		Allocations: f.allocs,
	}
	for b := range f.FreeBlocks() {
		st.FreeBlocks++
		st.Free += b.Size
		st.LargestFree = max(st.LargestFree, b.Size)
	}
	return st
}

// Compile-time interface check
var _ alloc.Allocator = (*Freelist)(nil)
