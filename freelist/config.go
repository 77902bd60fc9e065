package freelist

// Config tunes a Freelist. A nil *Config means DefaultConfig.
type Config struct {
	// SplitThreshold is the smallest remainder, in bytes, that is carved off
	// a free block as its own block. Smaller remainders stay attached to the
	// allocation. Zero or anything below MinBlock means MinBlock.
	SplitThreshold int

	// Zero clears payload bytes before Alloc and Realloc hand them out.
	Zero bool
}

// DefaultConfig splits whenever the remainder can hold a block and leaves
// payloads uncleared.
var DefaultConfig = Config{
	SplitThreshold: MinBlock,
}

func (c Config) splitThreshold() int {
	return max(c.SplitThreshold, MinBlock)
}
