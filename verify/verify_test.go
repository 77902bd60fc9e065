package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/ilist"
)

func TestTiling(t *testing.T) {
	good := []Span{{0, 24, false}, {24, 40, true}, {64, 64, false}}
	require.NoError(t, Tiling(good, 128))

	tests := []struct {
		name  string
		spans []Span
		size  int
	}{
		{"gap", []Span{{0, 24, false}, {32, 96, true}}, 128},
		{"overlap", []Span{{0, 40, false}, {32, 96, true}}, 128},
		{"short", []Span{{0, 24, false}, {24, 40, true}}, 128},
		{"zero size", []Span{{0, 0, false}}, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Tiling(tt.spans, tt.size)
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "Tiling", verr.Type)
		})
	}
}

func TestCoalesced(t *testing.T) {
	require.NoError(t, Coalesced([]Span{{0, 24, true}, {24, 24, false}, {48, 24, true}}))
	err := Coalesced([]Span{{0, 24, false}, {24, 24, true}, {48, 24, true}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Coalescing at offset 0x30")
}

func TestRing(t *testing.T) {
	s := ilist.NewSlab(5)
	const head = 0
	ilist.Init(s, head)
	for i := ilist.Ref(1); i < 5; i++ {
		ilist.PushBack(s, head, i)
	}
	nodes, err := Ring(s, head, 10)
	require.NoError(t, err)
	assert.Equal(t, []ilist.Ref{1, 2, 3, 4}, nodes)

	_, err = Ring(s, head, 3)
	require.Error(t, err, "limit below the ring length must fail")

	// Corrupt a back link.
	s.SetPrev(3, 1)
	_, err = Ring(s, head, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prev link")
}

func TestRingEmpty(t *testing.T) {
	s := ilist.NewSlab(1)
	nodes, err := Ring(s, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestAscending(t *testing.T) {
	require.NoError(t, Ascending([]ilist.Ref{8, 64, 200}))
	require.NoError(t, Ascending(nil))
	require.Error(t, Ascending([]ilist.Ref{8, 8}))
	require.Error(t, Ascending([]ilist.Ref{64, 8}))
}

func TestValidationErrorFormat(t *testing.T) {
	e := &ValidationError{Type: "Ring", Message: "broken", Offset: -1}
	assert.Equal(t, "Ring: broken", e.Error())
	e.Offset = 0x40
	assert.Equal(t, "Ring at offset 0x40: broken", e.Error())
}
