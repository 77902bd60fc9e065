package freelist

import (
	"github.com/joshuapare/memkit/ilist"
	"github.com/joshuapare/memkit/internal/format"
)

// Block layout:
//
//	+0            int32   size (> 0 free, < 0 allocated)
//	+4            uint32  headMagic
//	+8            payload (a free block keeps its ilist link here)
//	+size-8       int32   size, same sign as the header
//	+size-4       uint32  tailMagic
//
// The footer lets Free find the block in front of it without a walk.
const (
	HeaderSize = 8
	FooterSize = 8
	Overhead   = HeaderSize + FooterSize

	// Alignment of every block offset and size.
	Alignment = format.DefaultAlignment

	// MinBlock holds a header, a free-list link and a footer.
	MinBlock = Overhead + ilist.LinkSize

	headMagic uint32 = 0x6B6C4246 // "FBlk"
	tailMagic uint32 = 0x646E4546 // "FEnd"
	deadMagic uint32 = 0x64616544 // "Dead", header merged into a neighbour
)

// Block describes one block of the window.
type Block struct {
	Off  int // offset of the header
	Size int // total bytes including header and footer
	Free bool
}

// Ref returns the payload offset, which is what Alloc hands out.
func (b Block) Ref() Ref { return Ref(b.Off + HeaderSize) }

// Usable returns the payload capacity.
func (b Block) Usable() int { return b.Size - Overhead }

// blockSize returns the total block size needed for a payload of n bytes.
func blockSize(n int) int {
	return max(format.Align(n+Overhead, Alignment), MinBlock)
}

// mark writes the header and footer of the block at off.
func mark(w []byte, off, size int, free bool) {
	s := int32(size)
	if !free {
		s = -s
	}
	format.PutI32(w, off, s)
	format.PutU32(w, off+4, headMagic)
	format.PutI32(w, off+size-FooterSize, s)
	format.PutU32(w, off+size-4, tailMagic)
}

// retire overwrites the header of a block that was merged into a neighbour
// and the footer in front of it. A stale ref to the block then fails lookup
// instead of passing for a live block.
func retire(w []byte, off int) {
	clear(w[off-FooterSize : off])
	format.PutI32(w, off, 0)
	format.PutU32(w, off+4, deadMagic)
}

// retired reports whether the header at off was retired.
func retired(w []byte, off int) bool {
	return format.ReadU32(w, off+4) == deadMagic
}

// header reads the block header at off. ok is false when the magic is wrong
// or the size is zero.
func header(w []byte, off int) (size int, free, ok bool) {
	if format.ReadU32(w, off+4) != headMagic {
		return 0, false, false
	}
	return decode(format.ReadI32(w, off))
}

// footer reads the footer of the block that ends at end.
func footer(w []byte, end int) (size int, free, ok bool) {
	if format.ReadU32(w, end-4) != tailMagic {
		return 0, false, false
	}
	return decode(format.ReadI32(w, end-FooterSize))
}

func decode(s int32) (size int, free, ok bool) {
	switch {
	case s > 0:
		return int(s), true, true
	case s < 0:
		return -int(s), false, true
	}
	return 0, false, false
}

// node is the free-chain node of the block at off.
func node(off int) Ref { return Ref(off + HeaderSize) }

// blockOf recovers the block offset from its free-chain node.
func blockOf(n Ref) int { return int(ilist.Entry(n, HeaderSize)) }
