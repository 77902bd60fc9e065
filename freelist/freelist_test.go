package freelist

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFreelist(t testing.TB, size int, cfg *Config) *Freelist {
	t.Helper()
	f, err := New(make([]byte, size), cfg)
	require.NoError(t, err)
	require.Zero(t, f.Padding(), "test buffers are expected to be 8-aligned")
	require.NoError(t, f.Check())
	return f
}

func mustAlloc(t testing.TB, f *Freelist, size int) (Ref, []byte) {
	t.Helper()
	ref, p, err := f.Alloc(size)
	require.NoError(t, err)
	require.Len(t, p, size)
	require.NoError(t, f.Check())
	return ref, p
}

func mustFree(t testing.TB, f *Freelist, ref Ref) {
	t.Helper()
	require.NoError(t, f.Free(ref))
	require.NoError(t, f.Check())
}

func fill(p []byte, v byte) {
	for i := range p {
		p[i] = v + byte(i)
	}
}

func assertFilled(t testing.TB, p []byte, v byte) {
	t.Helper()
	for i := range p {
		if p[i] != v+byte(i) {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, p[i], v+byte(i))
		}
	}
}

func TestNewSingleFreeBlock(t *testing.T) {
	f := newTestFreelist(t, 1024, nil)
	blocks := slices.Collect(f.Blocks())
	assert.Equal(t, []Block{{Off: 0, Size: 1024, Free: true}}, blocks)

	st := f.Stats()
	assert.Equal(t, Stats{Size: 1024, Free: 1024, FreeBlocks: 1, LargestFree: 1024}, st)
}

func TestNewValidation(t *testing.T) {
	_, err := New(make([]byte, MinBlock-1), nil)
	require.ErrorIs(t, err, ErrBufferTooSmall)

	_, err = New(nil, nil)
	require.ErrorIs(t, err, ErrBufferTooSmall)

	f, err := New(make([]byte, MinBlock), nil)
	require.NoError(t, err)
	_, p, err := f.Alloc(MinBlock - Overhead)
	require.NoError(t, err)
	assert.Equal(t, MinBlock-Overhead, cap(p))
}

func TestNewTruncatesAndAligns(t *testing.T) {
	raw := make([]byte, 1030)
	f, err := New(raw[3:], nil)
	require.NoError(t, err)
	assert.Equal(t, 5, f.Padding())
	assert.Equal(t, 1016, len(f.Window())) // (1027-5) rounded down to 8
	require.NoError(t, f.Check())
}

// TestScenarioFirstFitReuse: three 100-byte allocations, free the middle
// one, then a 50-byte request lands in the freed block and the leftover
// stays free right up to the third allocation.
func TestScenarioFirstFitReuse(t *testing.T) {
	f := newTestFreelist(t, 1024, nil)

	a, _ := mustAlloc(t, f, 100)
	b, _ := mustAlloc(t, f, 100)
	c, _ := mustAlloc(t, f, 100)
	assert.Equal(t, []Ref{8, 128, 248}, []Ref{a, b, c})

	mustFree(t, f, b)
	d, p := mustAlloc(t, f, 50)
	assert.Equal(t, b, d, "first fit reuses the freed block")
	assert.Equal(t, 72-Overhead, cap(p))

	blocks := slices.Collect(f.Blocks())
	assert.Equal(t, []Block{
		{Off: 0, Size: 120},
		{Off: 120, Size: 72},
		{Off: 192, Size: 48, Free: true},
		{Off: 240, Size: 120},
		{Off: 360, Size: 664, Free: true},
	}, blocks)

	remainder := blocks[2]
	assert.Equal(t, int(c)-HeaderSize, remainder.Off+remainder.Size,
		"remainder ends where the third allocation starts")
}

func TestCoalesceEitherOrder(t *testing.T) {
	for _, tt := range []struct {
		name  string
		first int
	}{
		{"low then high", 0},
		{"high then low", 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFreelist(t, 1024, nil)
			a, _ := mustAlloc(t, f, 100)
			b, _ := mustAlloc(t, f, 100)
			mustAlloc(t, f, 100) // keeps the pair away from the tail

			refs := []Ref{a, b}
			mustFree(t, f, refs[tt.first])
			mustFree(t, f, refs[1-tt.first])

			blocks := slices.Collect(f.Blocks())
			require.Len(t, blocks, 3)
			assert.Equal(t, Block{Off: 0, Size: 240, Free: true}, blocks[0])
			assert.False(t, blocks[1].Free)
		})
	}
}

func TestCoalesceBothNeighbours(t *testing.T) {
	f := newTestFreelist(t, 1024, nil)
	a, _ := mustAlloc(t, f, 100)
	b, _ := mustAlloc(t, f, 100)
	c, _ := mustAlloc(t, f, 100)
	mustAlloc(t, f, 100)

	mustFree(t, f, a)
	mustFree(t, f, c)
	assert.Equal(t, 3, f.Stats().FreeBlocks)

	mustFree(t, f, b)
	st := f.Stats()
	assert.Equal(t, 2, st.FreeBlocks)
	assert.Equal(t, 360, slices.Collect(f.Blocks())[0].Size)
}

func TestFreeAllRestoresSingleBlock(t *testing.T) {
	f := newTestFreelist(t, 2048, nil)
	var refs []Ref
	for _, n := range []int{10, 200, 33, 64, 500, 1} {
		ref, _ := mustAlloc(t, f, n)
		refs = append(refs, ref)
	}
	// Free in an interleaved order to hit every merge case.
	for _, i := range []int{1, 3, 0, 5, 2, 4} {
		mustFree(t, f, refs[i])
	}
	assert.Equal(t, []Block{{Off: 0, Size: 2048, Free: true}}, slices.Collect(f.Blocks()))
	assert.Zero(t, f.Used())
}

func TestFreeMisuse(t *testing.T) {
	f := newTestFreelist(t, 1024, nil)
	a, _ := mustAlloc(t, f, 100)
	mustAlloc(t, f, 100)

	for _, ref := range []Ref{0, 3, 12, 1020, 4096} {
		require.ErrorIs(t, f.Free(ref), ErrBadRef, "ref 0x%X", ref)
	}

	mustFree(t, f, a)
	require.ErrorIs(t, f.Free(a), ErrNotAllocated)
	require.NoError(t, f.Check())

	_, ok := f.Bytes(a)
	assert.False(t, ok)
}

func TestDoubleFreeAfterMerge(t *testing.T) {
	for _, tt := range []struct {
		name  string
		frees []int // indexes into a, b, c
		again []int
	}{
		{"into previous", []int{0, 1}, []int{1, 0}},
		{"absorbing next", []int{2, 1}, []int{2, 1}},
		{"both neighbours", []int{0, 2, 1}, []int{1, 2, 0}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFreelist(t, 1024, nil)
			refs := make([]Ref, 3)
			for i := range refs {
				refs[i], _ = mustAlloc(t, f, 100)
			}
			_, last := mustAlloc(t, f, 100)
			fill(last, 0x5A)

			for _, i := range tt.frees {
				mustFree(t, f, refs[i])
			}
			for _, i := range tt.again {
				require.ErrorIs(t, f.Free(refs[i]), ErrNotAllocated, "ref 0x%X", refs[i])
			}

			require.NoError(t, f.Check())
			assert.Equal(t, 120, f.Used())
			assert.Equal(t, 1, f.Stats().Allocations)
			assertFilled(t, last, 0x5A)
		})
	}
}

func TestAllocExhaustion(t *testing.T) {
	f := newTestFreelist(t, 1024, nil)
	_, _, err := f.Alloc(2000)
	require.ErrorIs(t, err, ErrNoSpace)
	_, _, err = f.Alloc(1024 - Overhead + 1)
	require.ErrorIs(t, err, ErrNoSpace)

	_, p, err := f.Alloc(1024 - Overhead)
	require.NoError(t, err)
	assert.Len(t, p, 1024-Overhead)

	_, _, err = f.Alloc(0)
	require.ErrorIs(t, err, ErrNoSpace)
	require.NoError(t, f.Check())
}

func TestAllocNegativeSize(t *testing.T) {
	f := newTestFreelist(t, 256, nil)
	_, _, err := f.Alloc(-1)
	require.ErrorIs(t, err, ErrBadSize)
	_, _, err = f.AllocAligned(-1, 64)
	require.ErrorIs(t, err, ErrBadSize)
}

func TestSplitThreshold(t *testing.T) {
	t.Run("default splits", func(t *testing.T) {
		f := newTestFreelist(t, 256, nil)
		_, p := mustAlloc(t, f, 100)
		assert.Equal(t, 120-Overhead, cap(p))
		assert.Equal(t, 2, len(slices.Collect(f.Blocks())))
	})
	t.Run("remainder below threshold is absorbed", func(t *testing.T) {
		f := newTestFreelist(t, 256, &Config{SplitThreshold: 200})
		_, p := mustAlloc(t, f, 100)
		assert.Equal(t, 256-Overhead, cap(p))
		assert.Equal(t, 256, f.Used())
	})
	t.Run("threshold below minimum is raised", func(t *testing.T) {
		f := newTestFreelist(t, 256, &Config{SplitThreshold: 1})
		// 256-120-120 = 16 bytes cannot form a block.
		mustAlloc(t, f, 100)
		_, p := mustAlloc(t, f, 100)
		assert.Equal(t, 136-Overhead, cap(p))
	})
}

func TestZeroConfig(t *testing.T) {
	f := newTestFreelist(t, 512, &Config{Zero: true})
	ref, p := mustAlloc(t, f, 64)
	fill(p, 0x40)
	mustFree(t, f, ref)

	_, p = mustAlloc(t, f, 64)
	assert.Equal(t, make([]byte, 64), p)
}

func TestReset(t *testing.T) {
	f := newTestFreelist(t, 1024, nil)
	for range 4 {
		mustAlloc(t, f, 90)
	}
	f.Reset()
	require.NoError(t, f.Check())
	assert.Equal(t, []Block{{Off: 0, Size: 1024, Free: true}}, slices.Collect(f.Blocks()))

	ref, _ := mustAlloc(t, f, 10)
	assert.Equal(t, Ref(HeaderSize), ref)
}

func TestBytesReturnsUsablePayload(t *testing.T) {
	f := newTestFreelist(t, 1024, nil)
	ref, p := mustAlloc(t, f, 10)
	fill(p, 1)

	got, ok := f.Bytes(ref)
	require.True(t, ok)
	assert.Len(t, got, 16) // 10 bytes round up to a 32-byte block
	assertFilled(t, got[:10], 1)
}

func TestCheckDetectsCorruption(t *testing.T) {
	t.Run("footer", func(t *testing.T) {
		f := newTestFreelist(t, 1024, nil)
		mustAlloc(t, f, 100)
		f.Window()[120-FooterSize] ^= 0x08
		require.Error(t, f.Check())
	})
	t.Run("header magic", func(t *testing.T) {
		f := newTestFreelist(t, 1024, nil)
		mustAlloc(t, f, 100)
		f.Window()[124] = 0
		require.Error(t, f.Check())
	})
	t.Run("free chain", func(t *testing.T) {
		f := newTestFreelist(t, 1024, nil)
		a, _ := mustAlloc(t, f, 100)
		mustAlloc(t, f, 100)
		mustFree(t, f, a)
		// Detach the first free block by pointing its next link at itself.
		f.Window()[HeaderSize+4] = byte(HeaderSize)
		f.Window()[HeaderSize+5] = 0
		require.Error(t, f.Check())
	})
}

func BenchmarkAllocFree(b *testing.B) {
	f, err := New(make([]byte, 1<<20), nil)
	require.NoError(b, err)
	sizes := []int{16, 40, 100, 256, 8}
	refs := make([]Ref, 0, 64)
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		ref, _, err := f.Alloc(sizes[i%len(sizes)])
		if err != nil {
			b.Fatal(err)
		}
		refs = append(refs, ref)
		if len(refs) == cap(refs) {
			for j := len(refs) - 1; j >= 0; j -= 2 {
				_ = f.Free(refs[j])
			}
			for j := len(refs) - 2; j >= 0; j -= 2 {
				_ = f.Free(refs[j])
			}
			refs = refs[:0]
		}
		i++
	}
}
