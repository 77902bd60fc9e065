package pool

import (
	"fmt"

	"github.com/joshuapare/memkit/ilist"
	"github.com/joshuapare/memkit/internal/buf"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/verify"
)

// Ref is a chunk's byte offset within the pool window. A free chunk's list
// node sits at the same offset, so a Ref doubles as its ilist node.
type Ref = ilist.Ref

// Pool hands out fixed-size chunks of a caller buffer.
//
// Free chunks form an intrusive ring whose links are written into the first
// bytes of each free chunk, so the pool needs no memory beyond its own struct.
// Alloc and Free are O(1). Chunks are never split or merged.
type Pool struct {
	window    []byte // aligned, truncated view of the caller buffer
	pad       int    // bytes skipped at the front of the caller buffer
	total     int    // length of the caller buffer
	chunkSize int
	count     int
	free      *ilist.Mem // free ring anchored at ilist.Head
	nfree     int
	cfg       Config
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	ChunkSize int
	Chunks    int
	Free      int
	InUse     int
	Padding   int // leading bytes skipped to align the window
	Slack     int // trailing bytes too short for a chunk
}

// New partitions buf into chunks of chunkSize bytes and links them all into
// the free ring in address order.
//
// Parameters:
//   - buf: caller-owned backing memory; the pool never resizes or releases it
//   - chunkSize: bytes per chunk, at least ilist.LinkSize; rounded up to the alignment
//   - cfg: alignment and zeroing (nil for DefaultConfig)
//
// The start of buf is skipped forward to the alignment and any tail shorter
// than a chunk is left unused.
func New(b []byte, chunkSize int, cfg *Config) (*Pool, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	align := cfg.alignment()
	if !format.IsPow2(align) {
		return nil, fmt.Errorf("%w: %d", ErrAlignment, align)
	}
	if chunkSize < ilist.LinkSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrChunkSize, chunkSize, ilist.LinkSize)
	}
	if uint64(chunkSize) > format.MaxWindow {
		return nil, fmt.Errorf("%w: %d-byte chunks", ErrBufferTooSmall, chunkSize)
	}
	chunkSize = format.Align(chunkSize, align)

	window, pad, ok := format.Window(b, align, chunkSize)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes for %d-byte chunks", ErrBufferTooSmall, len(b), chunkSize)
	}
	if uint64(len(window)) > format.MaxWindow {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooLarge, len(window))
	}

	p := &Pool{
		window:    window,
		pad:       pad,
		total:     len(b),
		chunkSize: chunkSize,
		count:     len(window) / chunkSize,
		free:      ilist.NewMem(window),
		cfg:       *cfg,
	}
	p.Reset()
	return p, nil
}

// Reset returns every chunk to the free ring, in address order, discarding
// outstanding allocations. References handed out earlier must not be used.
func (p *Pool) Reset() {
	ilist.Init(p.free, ilist.Head)
	for i := range p.count {
		n := Ref(i * p.chunkSize)
		ilist.PushBack(p.free, ilist.Head, n)
	}
	p.nfree = p.count
}

// Alloc takes the first free chunk. It returns ErrNoSpace when the pool is
// exhausted. The returned slice spans the whole chunk.
func (p *Pool) Alloc() (Ref, []byte, error) {
	n, ok := ilist.PopFront(p.free, ilist.Head)
	if !ok {
		return 0, nil, ErrNoSpace
	}
	return n, p.take(n), nil
}

// take accounts for the detached chunk n and prepares it for the caller.
func (p *Pool) take(n Ref) []byte {
	p.nfree--
	chunk := p.chunk(n)
	if p.cfg.Zero {
		clear(chunk)
	}
	if logger.TraceAlloc {
		logger.Debug("pool alloc", "ref", n, "free", p.nfree)
	}
	return chunk
}

// Free pushes a chunk back onto the front of the free ring, so the next Alloc
// returns it. Freeing a chunk twice is not detected.
func (p *Pool) Free(ref Ref) error {
	if !p.owns(ref) {
		return fmt.Errorf("%w: 0x%X", ErrBadRef, ref)
	}
	ilist.Init(p.free, ref)
	ilist.PushFront(p.free, ilist.Head, ref)
	p.nfree++
	if logger.TraceAlloc {
		logger.Debug("pool free", "ref", ref, "free", p.nfree)
	}
	return nil
}

// Bytes returns the chunk at ref. ok is false for refs the pool does not own.
func (p *Pool) Bytes(ref Ref) ([]byte, bool) {
	if !p.owns(ref) {
		return nil, false
	}
	return p.chunk(ref), true
}

// ChunkSize returns the effective chunk size after alignment rounding.
func (p *Pool) ChunkSize() int { return p.chunkSize }

// Cap returns the number of chunks.
func (p *Pool) Cap() int { return p.count }

// Available returns the number of free chunks.
func (p *Pool) Available() int { return p.nfree }

// InUse returns the number of allocated chunks.
func (p *Pool) InUse() int { return p.count - p.nfree }

// Window returns the aligned region the chunks are carved from.
func (p *Pool) Window() []byte { return p.window }

// Stats returns current occupancy.
func (p *Pool) Stats() Stats {
	return Stats{
		ChunkSize: p.chunkSize,
		Chunks:    p.count,
		Free:      p.nfree,
		InUse:     p.count - p.nfree,
		Padding:   p.pad,
		Slack:     p.total - p.pad - len(p.window),
	}
}

// Check walks the free ring and verifies that it is a consistent circular
// chain of distinct, chunk-aligned, in-window nodes whose length matches the
// free count.
func (p *Pool) Check() error {
	nodes, err := verify.Ring(p.free, ilist.Head, p.count)
	if err != nil {
		return err
	}
	seen := make(map[Ref]struct{}, len(nodes))
	for _, n := range nodes {
		if !p.owns(n) {
			return &verify.ValidationError{Type: "Pool", Message: "free node is not a chunk", Offset: int(n)}
		}
		if _, dup := seen[n]; dup {
			return &verify.ValidationError{Type: "Pool", Message: "chunk linked twice", Offset: int(n)}
		}
		seen[n] = struct{}{}
	}
	if len(nodes) != p.nfree {
		return &verify.ValidationError{
			Type:    "Pool",
			Message: fmt.Sprintf("free ring holds %d chunks, counter says %d", len(nodes), p.nfree),
			Offset:  -1,
		}
	}
	return nil
}

func (p *Pool) owns(ref Ref) bool {
	off := int(ref)
	return off%p.chunkSize == 0 && buf.Has(p.window, off, p.chunkSize)
}

func (p *Pool) chunk(ref Ref) []byte {
	off := int(ref)
	return p.window[off : off+p.chunkSize : off+p.chunkSize]
}
