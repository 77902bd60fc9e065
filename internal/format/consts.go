// Package format holds the byte-level layout shared by the allocators: word
// encoding, alignment math, and the limits every in-buffer offset must respect.
// Nothing here allocates; all helpers operate on caller-owned slices.
package format

const (
	// WordSize is the width of every integer field written into a backing buffer.
	WordSize = 4

	// DefaultAlignment is the alignment applied to buffer windows and block sizes
	// when the caller does not ask for anything stricter: one 64-bit word.
	DefaultAlignment = 8

	// MaxWindow is the largest window (in bytes) an offset-addressed allocator
	// accepts. Offsets are uint32 and the top value is reserved for list sentinels.
	MaxWindow = 1<<32 - 2
)
