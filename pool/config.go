package pool

import "github.com/joshuapare/memkit/internal/format"

// Config tunes a Pool. A nil *Config means DefaultConfig.
type Config struct {
	// Alignment of the first chunk's address and of the chunk stride.
	// Must be a power of two. Zero means format.DefaultAlignment.
	Alignment int

	// Zero clears each chunk before Alloc returns it, which also wipes the
	// free-list link that lived there.
	Zero bool
}

// DefaultConfig aligns chunks to 8 bytes and hands them out zeroed.
var DefaultConfig = Config{
	Alignment: format.DefaultAlignment,
	Zero:      true,
}

func (c Config) alignment() int {
	if c.Alignment == 0 {
		return format.DefaultAlignment
	}
	return c.Alignment
}
