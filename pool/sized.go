package pool

import (
	"fmt"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/ilist"
	"github.com/joshuapare/memkit/internal/format"
)

// Sized adapts a Pool to alloc.Allocator. Each request takes one whole chunk
// and the returned slice is cut to the requested size, so requests above
// ChunkSize fail with ErrTooLarge and resizing never moves a chunk unless a
// stricter alignment asks for it.
type Sized struct {
	p *Pool
}

// NewSized wraps p. The adapter holds no state of its own: p stays usable
// directly and both views see the same chunks.
func NewSized(p *Pool) *Sized {
	return &Sized{p: p}
}

// Pool returns the wrapped pool.
func (s *Sized) Pool() *Pool { return s.p }

// Alloc takes a chunk for size bytes.
func (s *Sized) Alloc(size int) (Ref, []byte, error) {
	if err := s.fits(size); err != nil {
		return 0, nil, err
	}
	ref, chunk, err := s.p.Alloc()
	if err != nil {
		return 0, nil, err
	}
	return ref, chunk[:size], nil
}

// AllocAligned takes a chunk whose address is a multiple of align. Every chunk
// satisfies the pool's own alignment; a stricter one is found by walking the
// free ring.
func (s *Sized) AllocAligned(size, align int) (Ref, []byte, error) {
	if !format.IsPow2(align) {
		return 0, nil, fmt.Errorf("%w: %d", ErrAlignment, align)
	}
	if align <= s.p.cfg.alignment() {
		return s.Alloc(size)
	}
	if err := s.fits(size); err != nil {
		return 0, nil, err
	}
	for n := range ilist.All(s.p.free, ilist.Head) {
		if s.aligned(n, align) {
			ilist.Remove(s.p.free, n)
			return n, s.p.take(n)[:size], nil
		}
	}
	return 0, nil, ErrNoSpace
}

// Realloc resizes within the chunk at ref. Grown bytes are zeroed when the
// pool zeroes on Alloc.
func (s *Sized) Realloc(ref Ref, oldSize, size int) (Ref, []byte, error) {
	if !s.p.owns(ref) {
		return 0, nil, fmt.Errorf("%w: 0x%X", ErrBadRef, ref)
	}
	if oldSize < 0 || oldSize > s.p.chunkSize {
		return 0, nil, fmt.Errorf("%w: old size %d", ErrBadSize, oldSize)
	}
	if err := s.fits(size); err != nil {
		return 0, nil, err
	}
	chunk := s.p.chunk(ref)
	if s.p.cfg.Zero && size > oldSize {
		clear(chunk[oldSize:size])
	}
	return ref, chunk[:size], nil
}

// ReallocAligned resizes in place when ref satisfies align and otherwise
// moves the data to a chunk that does.
func (s *Sized) ReallocAligned(ref Ref, oldSize, size, align int) (Ref, []byte, error) {
	if !format.IsPow2(align) {
		return 0, nil, fmt.Errorf("%w: %d", ErrAlignment, align)
	}
	if !s.p.owns(ref) || s.aligned(ref, align) {
		return s.Realloc(ref, oldSize, size)
	}
	if oldSize < 0 || oldSize > s.p.chunkSize {
		return 0, nil, fmt.Errorf("%w: old size %d", ErrBadSize, oldSize)
	}
	nref, p, err := s.AllocAligned(size, align)
	if err != nil {
		return 0, nil, err
	}
	copy(p, s.p.chunk(ref)[:min(oldSize, size)])
	return nref, p, s.p.Free(ref)
}

// Free returns the chunk at ref to the pool.
func (s *Sized) Free(ref Ref) error { return s.p.Free(ref) }

// Reset returns every chunk to the pool.
func (s *Sized) Reset() { s.p.Reset() }

func (s *Sized) fits(size int) error {
	switch {
	case size < 0:
		return fmt.Errorf("%w: %d", ErrBadSize, size)
	case size > s.p.chunkSize:
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, size, s.p.chunkSize)
	}
	return nil
}

func (s *Sized) aligned(ref Ref, align int) bool {
	return (format.Addr(s.p.window)+uintptr(ref))%uintptr(align) == 0
}

// Compile-time interface check
var _ alloc.Allocator = (*Sized)(nil)
