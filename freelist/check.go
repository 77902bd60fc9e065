package freelist

import (
	"fmt"

	"github.com/joshuapare/memkit/ilist"
	"github.com/joshuapare/memkit/verify"
)

// Check walks every block and the free chain and reports the first
// inconsistency:
//   - each header has a valid magic and a size that is aligned, at least
//     MinBlock, and inside the window
//   - each footer repeats its header
//   - blocks tile the window and no two free blocks are adjacent
//   - the free chain is a well-formed ring in ascending address order that
//     holds exactly the free blocks
//   - the used-byte and allocation counters match the blocks
func (f *Freelist) Check() error {
	w := f.window
	var spans []verify.Span
	freeAt := map[int]bool{}
	used, allocs := 0, 0

	for off := 0; off < len(w); {
		size, free, ok := header(w, off)
		if !ok {
			return &verify.ValidationError{Type: "Block", Message: "bad header", Offset: off}
		}
		if size < MinBlock || size%Alignment != 0 || off+size > len(w) {
			return &verify.ValidationError{
				Type:    "Block",
				Message: fmt.Sprintf("invalid size %d", size),
				Offset:  off,
				Details: map[string]any{"window": len(w)},
			}
		}
		fsz, ffree, fok := footer(w, off+size)
		if !fok || fsz != size || ffree != free {
			return &verify.ValidationError{
				Type:    "Block",
				Message: "footer does not match header",
				Offset:  off,
				Details: map[string]any{"header": size, "footer": fsz, "headerFree": free, "footerFree": ffree},
			}
		}
		spans = append(spans, verify.Span{Off: off, Size: size, Free: free})
		if free {
			freeAt[off] = true
		} else {
			used += size
			allocs++
		}
		off += size
	}
	if err := verify.Tiling(spans, len(w)); err != nil {
		return err
	}
	if err := verify.Coalesced(spans); err != nil {
		return err
	}

	nodes, err := verify.Ring(f.free, ilist.Head, len(w)/MinBlock)
	if err != nil {
		return err
	}
	if err := verify.Ascending(nodes); err != nil {
		return err
	}
	for _, n := range nodes {
		if !freeAt[blockOf(n)] {
			return &verify.ValidationError{Type: "FreeChain", Message: "node is not a free block", Offset: blockOf(n)}
		}
	}
	if len(nodes) != len(freeAt) {
		return &verify.ValidationError{
			Type:    "FreeChain",
			Message: fmt.Sprintf("chain holds %d blocks, window has %d free", len(nodes), len(freeAt)),
			Offset:  -1,
		}
	}

	if used != f.used || allocs != f.allocs {
		return &verify.ValidationError{
			Type:    "Accounting",
			Message: "counters disagree with blocks",
			Offset:  -1,
			Details: map[string]any{"used": f.used, "walked": used, "allocs": f.allocs, "walkedAllocs": allocs},
		}
	}
	return nil
}
