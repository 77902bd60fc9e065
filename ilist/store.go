package ilist

import (
	"math"

	"github.com/joshuapare/memkit/internal/format"
)

// LinkSize is the number of bytes a Mem node occupies: Prev then Next, each a
// little-endian uint32.
const LinkSize = 2 * format.WordSize

// Head is the Ref of the sentinel that a Mem keeps outside its buffer. It is
// never a valid buffer offset.
const Head Ref = math.MaxUint32

// Mem stores links inside a byte buffer: the node at Ref r occupies
// buf[r : r+LinkSize]. The sentinel Head lives in the Mem value itself, so a
// list over a buffer needs no bytes of that buffer while it is empty.
type Mem struct {
	buf  []byte
	head Link
}

// NewMem returns a Mem over buf with an empty list anchored at Head.
func NewMem(buf []byte) *Mem {
	m := &Mem{buf: buf}
	Init(m, Head)
	return m
}

// Bytes returns the buffer the links are written into.
func (m *Mem) Bytes() []byte { return m.buf }

func (m *Mem) Prev(n Ref) Ref {
	if n == Head {
		return m.head.Prev
	}
	return Ref(format.ReadU32(m.buf, int(n)))
}

func (m *Mem) Next(n Ref) Ref {
	if n == Head {
		return m.head.Next
	}
	return Ref(format.ReadU32(m.buf, int(n)+format.WordSize))
}

func (m *Mem) SetPrev(n, p Ref) {
	if n == Head {
		m.head.Prev = p
		return
	}
	format.PutU32(m.buf, int(n), uint32(p))
}

func (m *Mem) SetNext(n, nx Ref) {
	if n == Head {
		m.head.Next = nx
		return
	}
	format.PutU32(m.buf, int(n)+format.WordSize, uint32(nx))
}

// Slab stores links in a slice indexed by Ref. Callers pick one index as the
// head and keep their records in a parallel slice at the same indexes.
type Slab []Link

// NewSlab returns a Slab of n nodes, each detached.
func NewSlab(n int) Slab {
	s := make(Slab, n)
	for i := range s {
		s[i] = Link{Prev: Ref(i), Next: Ref(i)}
	}
	return s
}

func (s Slab) Prev(n Ref) Ref    { return s[n].Prev }
func (s Slab) Next(n Ref) Ref    { return s[n].Next }
func (s Slab) SetPrev(n, p Ref)  { s[n].Prev = p }
func (s Slab) SetNext(n, nx Ref) { s[n].Next = nx }

var (
	_ Store = (*Mem)(nil)
	_ Store = Slab(nil)
)
