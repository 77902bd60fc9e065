// Package freelist implements a variable-size block allocator over a caller
// buffer, with first-fit placement, splitting and immediate coalescing.
//
// # Overview
//
// The buffer is tiled by blocks. Each block carries an 8-byte header and an
// 8-byte footer holding its signed size (positive when free, negative when
// allocated) and a magic word. The footer is a boundary tag: Free reads the
// footer just below a block to find a free predecessor in O(1), and the
// header just above it to find a free successor.
//
// Free blocks are linked in address order through an intrusive ring (package
// ilist) whose links live in their own payload bytes. Alloc walks that ring
// and takes the first block large enough, splitting off the remainder when it
// reaches Config.SplitThreshold.
//
// # Usage Example
//
//	fl, err := freelist.New(make([]byte, 1<<20), nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, p, err := fl.Alloc(100)
//	if errors.Is(err, freelist.ErrNoSpace) {
//	    // no free block can hold 100 bytes
//	}
//	copy(p, record)
//
//	ref, p, err = fl.Realloc(ref, 100, 400) // old ref and p are consumed
//	_ = fl.Free(ref)
//
// # Handles
//
// A Ref is the payload offset inside Window. Free and Realloc read the block
// header at ref and reject refs that do not land on a block (ErrBadRef) or
// that land on a free one (ErrNotAllocated). Merging retires the absorbed
// block's header, so freeing a ref twice reports ErrNotAllocated even after
// its block was coalesced. A stale ref to a block that has since been handed
// out again is not detectable.
//
// # Thread Safety
//
// Freelist instances are not thread-safe. Callers must synchronize access
// externally.
package freelist
