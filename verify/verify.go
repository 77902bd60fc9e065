package verify

import (
	"fmt"

	"github.com/joshuapare/memkit/ilist"
)

// ValidationError describes the first structural inconsistency a validator found.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func fail(typ string, off int, details map[string]any, format string, args ...any) error {
	return &ValidationError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Offset:  off,
		Details: details,
	}
}

// Span is one block of a tiled window.
type Span struct {
	Off  int
	Size int
	Free bool
}

// Tiling checks that spans, in the order given, cover [0, length) exactly.
func Tiling(spans []Span, length int) error {
	next := 0
	for i, s := range spans {
		if s.Size <= 0 {
			return fail("Tiling", s.Off, map[string]any{"index": i, "size": s.Size},
				"non-positive block size %d", s.Size)
		}
		switch {
		case s.Off > next:
			return fail("Tiling", next, map[string]any{"index": i, "gap": s.Off - next},
				"gap of %d bytes before block", s.Off-next)
		case s.Off < next:
			return fail("Tiling", s.Off, map[string]any{"index": i, "overlap": next - s.Off},
				"block overlaps its predecessor by %d bytes", next-s.Off)
		}
		next = s.Off + s.Size
	}
	if next != length {
		return fail("Tiling", next, map[string]any{"covered": next, "length": length},
			"blocks cover %d of %d bytes", next, length)
	}
	return nil
}

// Coalesced checks that no two consecutive spans are both free.
func Coalesced(spans []Span) error {
	for i := 1; i < len(spans); i++ {
		if spans[i-1].Free && spans[i].Free {
			return fail("Coalescing", spans[i].Off,
				map[string]any{"prev": spans[i-1].Off, "prevSize": spans[i-1].Size},
				"free block follows free block at 0x%X", spans[i-1].Off)
		}
	}
	return nil
}

// Ring walks the list anchored at head and returns its nodes in forward
// order. It fails when a node's neighbours do not point back at it, when the
// walk exceeds limit nodes without returning to head, or when the backward
// walk is not the exact reverse of the forward one.
func Ring(s ilist.Store, head ilist.Ref, limit int) ([]ilist.Ref, error) {
	var nodes []ilist.Ref
	prev := head
	for cur := s.Next(head); cur != head; cur = s.Next(cur) {
		if len(nodes) == limit {
			return nil, fail("Ring", int(cur), map[string]any{"limit": limit},
				"chain does not return to head within %d nodes", limit)
		}
		if s.Prev(cur) != prev {
			return nil, fail("Ring", int(cur), map[string]any{"prev": s.Prev(cur), "want": prev},
				"prev link does not point at predecessor")
		}
		nodes = append(nodes, cur)
		prev = cur
	}
	if s.Prev(head) != prev {
		return nil, fail("Ring", -1, map[string]any{"prev": s.Prev(head), "want": prev},
			"head prev link does not point at the last node")
	}
	i := len(nodes) - 1
	for cur := s.Prev(head); cur != head; cur = s.Prev(cur) {
		if i < 0 || nodes[i] != cur {
			return nil, fail("Ring", int(cur), nil, "backward walk diverges from forward walk")
		}
		i--
	}
	if i != -1 {
		return nil, fail("Ring", -1, map[string]any{"missing": i + 1},
			"backward walk is shorter than forward walk")
	}
	return nodes, nil
}

// Ascending checks that refs are strictly increasing.
func Ascending(refs []ilist.Ref) error {
	for i := 1; i < len(refs); i++ {
		if refs[i] <= refs[i-1] {
			return fail("Ordering", int(refs[i]), map[string]any{"prev": refs[i-1]},
				"node 0x%X is not above its predecessor 0x%X", refs[i], refs[i-1])
		}
	}
	return nil
}
