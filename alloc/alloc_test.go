package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/freelist"
	"github.com/joshuapare/memkit/internal/format"
	"github.com/joshuapare/memkit/pool"
)

func allocators(t *testing.T) map[string]alloc.Allocator {
	t.Helper()
	fl, err := freelist.New(make([]byte, 1024), nil)
	require.NoError(t, err)
	ar, err := arena.New(make([]byte, 1024))
	require.NoError(t, err)
	pl, err := pool.New(make([]byte, 1024), 64, &pool.Config{Alignment: 64, Zero: true})
	require.NoError(t, err)

	return map[string]alloc.Allocator{
		"freelist": fl,
		"arena":    ar,
		"pool":     pool.NewSized(pl),
	}
}

func TestAllocatorContract(t *testing.T) {
	for name, a := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			ref, p, err := a.Alloc(24)
			require.NoError(t, err)
			require.Len(t, p, 24)
			for i := range p {
				p[i] = byte(i)
			}

			ref, p, err = a.Realloc(ref, 24, 48)
			require.NoError(t, err)
			require.Len(t, p, 48)
			for i := range 24 {
				require.Equal(t, byte(i), p[i], "byte %d", i)
			}

			_, q, err := a.AllocAligned(8, 32)
			require.NoError(t, err)
			assert.Zero(t, format.Addr(q)%32)

			ref, p, err = a.ReallocAligned(ref, 48, 16, 16)
			require.NoError(t, err)
			assert.Zero(t, format.Addr(p)%16)
			assert.Equal(t, byte(15), p[15])
			require.NoError(t, a.Free(ref))

			_, _, err = a.AllocAligned(8, 3)
			require.Error(t, err)
		})
	}
}

func TestAllocatorExhaustionIsNoSpace(t *testing.T) {
	for name, a := range allocators(t) {
		t.Run(name, func(t *testing.T) {
			n := 0
			for {
				_, _, err := a.Alloc(32)
				if err != nil {
					assert.True(t, alloc.IsNoSpace(err), "%v", err)
					break
				}
				n++
			}
			require.Positive(t, n)

			a.Reset()
			_, _, err := a.Alloc(32)
			require.NoError(t, err)
		})
	}
}
