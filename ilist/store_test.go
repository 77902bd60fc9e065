package ilist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/ilist"
	"github.com/joshuapare/memkit/verify"
)

func TestMemNewIsEmpty(t *testing.T) {
	m := ilist.NewMem(make([]byte, 64))
	assert.True(t, ilist.Empty(m, ilist.Head))
	assert.Equal(t, ilist.Head, m.Next(ilist.Head))
	assert.Equal(t, ilist.Head, m.Prev(ilist.Head))
}

func TestMemLinksLiveInBuffer(t *testing.T) {
	buf := make([]byte, 64)
	m := ilist.NewMem(buf)
	ilist.Init(m, 16)
	ilist.PushBack(m, ilist.Head, 16)
	ilist.Init(m, 32)
	ilist.PushBack(m, ilist.Head, 32)

	// Node 16: prev=Head, next=32, little-endian.
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 32, 0, 0, 0}, buf[16:16+ilist.LinkSize])
	// Node 32: prev=16, next=Head.
	assert.Equal(t, []byte{16, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}, buf[32:32+ilist.LinkSize])

	nodes, err := verify.Ring(m, ilist.Head, 8)
	require.NoError(t, err)
	assert.Equal(t, []ilist.Ref{16, 32}, nodes)
}

func TestMemReplaceAdjacentStorage(t *testing.T) {
	buf := make([]byte, 64)
	m := ilist.NewMem(buf)
	for _, n := range []ilist.Ref{0, 24, 48} {
		ilist.Init(m, n)
		ilist.PushBack(m, ilist.Head, n)
	}
	// The replacement's link bytes start right where the old node's end.
	ilist.Replace(m, 24, 32)
	nodes, err := verify.Ring(m, ilist.Head, 8)
	require.NoError(t, err)
	assert.Equal(t, []ilist.Ref{0, 32, 48}, nodes)
	assert.Equal(t, ilist.Ref(24), m.Next(24))
}

func TestMemEntryRecoversRecord(t *testing.T) {
	// 24-byte records: one payload byte slot, then the link at byte 8.
	const recSize, linkOff = 24, 8
	buf := make([]byte, recSize*3)
	m := ilist.NewMem(buf)
	for i := range 3 {
		rec := ilist.Ref(i * recSize)
		buf[rec] = byte('x' + i)
		node := rec + linkOff
		ilist.Init(m, node)
		ilist.PushFront(m, ilist.Head, node)
	}
	var got []byte
	for n := range ilist.All(m, ilist.Head) {
		got = append(got, buf[ilist.Entry(n, linkOff)])
	}
	assert.Equal(t, "zyx", string(got))
}
