package pool

import (
	"errors"
	"fmt"

	"github.com/joshuapare/memkit/alloc"
)

var (
	// ErrNoSpace indicates every chunk is allocated. It is an expected outcome.
	ErrNoSpace = fmt.Errorf("pool: no free chunk: %w", alloc.ErrNoSpace)

	// ErrBadRef indicates a reference outside the pool or not on a chunk boundary.
	ErrBadRef = errors.New("pool: bad chunk reference")

	// ErrChunkSize indicates a chunk too small to hold a free-list link.
	ErrChunkSize = errors.New("pool: chunk size smaller than a list link")

	// ErrTooLarge indicates a sized request that does not fit one chunk.
	ErrTooLarge = errors.New("pool: request larger than a chunk")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("pool: negative size")

	// ErrAlignment indicates an alignment that is not a power of two.
	ErrAlignment = errors.New("pool: alignment must be a power of two")

	// ErrBufferTooSmall indicates the aligned buffer cannot hold a single chunk.
	ErrBufferTooSmall = errors.New("pool: buffer smaller than one chunk")

	// ErrBufferTooLarge indicates a buffer beyond the offset range of a Ref.
	ErrBufferTooLarge = errors.New("pool: buffer exceeds addressable window")
)
