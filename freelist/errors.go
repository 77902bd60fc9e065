package freelist

import (
	"errors"
	"fmt"

	"github.com/joshuapare/memkit/alloc"
)

var (
	// ErrNoSpace indicates that no free block large enough was found.
	ErrNoSpace = fmt.Errorf("freelist: no free block large enough: %w", alloc.ErrNoSpace)

	// ErrBadRef indicates a reference that does not address a block payload.
	ErrBadRef = errors.New("freelist: bad block reference")

	// ErrNotAllocated indicates an attempt to free or resize a block that is free.
	ErrNotAllocated = errors.New("freelist: block is not allocated")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("freelist: negative size")

	// ErrAlignment indicates an alignment that is not a power of two.
	ErrAlignment = errors.New("freelist: alignment must be a power of two")

	// ErrBufferTooSmall indicates a buffer that cannot hold one minimum block.
	ErrBufferTooSmall = errors.New("freelist: buffer smaller than one block")

	// ErrBufferTooLarge indicates a buffer whose block sizes would not fit the header.
	ErrBufferTooLarge = errors.New("freelist: buffer exceeds 2GB")
)
