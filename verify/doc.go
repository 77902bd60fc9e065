// Package verify provides structural validators for allocator bookkeeping.
//
// # Overview
//
// The allocators in this module keep all of their state inside the caller's
// buffer: block headers and footers, and free chains threaded through unused
// memory. The checks here walk that state and report the first inconsistency.
// They are O(n) and meant for tests, debugging, and the memctl CLI, never for
// allocation hot paths.
//
// Validation categories:
//   - Tiling: block spans cover a window exactly, in order, without gaps or overlaps
//   - Coalescing: no two address-adjacent spans are both free
//   - Ring: an intrusive list is a consistent circular chain, forward and backward
//   - Ordering: a free chain is sorted by address
//
// # ValidationError
//
// All validators return *ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string         // Error category (e.g., "Tiling")
//	    Message string         // Human-readable description
//	    Offset  int            // Window offset where the error occurred (-1 if N/A)
//	    Details map[string]any // Additional context
//	}
//
// Example:
//
//	if err := f.Check(); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at 0x%X: %s\n", verr.Type, verr.Offset, verr.Message)
//	    }
//	}
package verify
