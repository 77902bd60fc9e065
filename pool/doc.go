// Package pool implements a fixed-size chunk allocator over a caller buffer.
//
// # Overview
//
// New divides the buffer into equal chunks and threads an intrusive free ring
// (package ilist) through their first bytes. Alloc pops the first free chunk,
// Free pushes a chunk back at the front, so reuse is LIFO. Both are O(1).
// Chunk size is uniform, so there is no splitting, no coalescing and no
// fragmentation.
//
// # Usage Example
//
//	backing := make([]byte, 64)
//	p, err := pool.New(backing, 16, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, chunk, err := p.Alloc()
//	if errors.Is(err, pool.ErrNoSpace) {
//	    // every chunk is in use
//	}
//	copy(chunk, payload)
//
//	_ = p.Free(ref)
//
// NewSized wraps a Pool as an alloc.Allocator for code written against the
// shared interface. Sized requests up to ChunkSize take one chunk each.
//
// # Buffer Layout
//
// The buffer start is skipped forward to Config.Alignment, the chunk size is
// rounded up to a multiple of it, and a trailing remainder shorter than one
// chunk is left unused (see Stats.Padding and Stats.Slack).
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access
// externally.
package pool
