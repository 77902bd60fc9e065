package arena

import (
	"errors"
	"fmt"

	"github.com/joshuapare/memkit/alloc"
)

var (
	// ErrNoSpace indicates the arena cannot hold the request.
	ErrNoSpace = fmt.Errorf("arena: %w", alloc.ErrNoSpace)

	// ErrBadRef indicates a reference outside the allocated prefix.
	ErrBadRef = errors.New("arena: bad reference")

	// ErrBadSize indicates a negative size.
	ErrBadSize = errors.New("arena: negative size")

	// ErrAlignment indicates an alignment that is not a power of two.
	ErrAlignment = errors.New("arena: alignment must be a power of two")

	// ErrBufferTooSmall indicates an empty backing buffer.
	ErrBufferTooSmall = errors.New("arena: empty buffer")

	// ErrBufferTooLarge indicates a buffer whose offsets do not fit a Ref.
	ErrBufferTooLarge = errors.New("arena: buffer exceeds 4GB")
)
