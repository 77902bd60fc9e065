package main

import (
	"errors"
	"slices"

	"github.com/joshuapare/memkit/alloc"
	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/freelist"
	"github.com/joshuapare/memkit/pool"
)

var errUnsupported = errors.New("operation not supported by this allocator")

// target is an allocator plus the inspection hooks the script needs.
// Allocation itself always goes through alloc.Allocator.
type target interface {
	alloc.Allocator

	name() string
	// defaultSize is the size of an alloc line without one; ok is false when
	// the size is mandatory.
	defaultSize() (size int, ok bool)
	bytes(ref alloc.Ref, size int) ([]byte, bool)
	save() error
	restore() error
	check() error
	report() report
}

type poolTarget struct {
	*pool.Sized
}

func newPoolTarget(p *pool.Pool) poolTarget {
	return poolTarget{pool.NewSized(p)}
}

func (t poolTarget) name() string { return "pool" }

func (t poolTarget) defaultSize() (int, bool) { return t.Pool().ChunkSize(), true }

func (t poolTarget) bytes(ref alloc.Ref, size int) ([]byte, bool) {
	p, ok := t.Pool().Bytes(ref)
	if !ok || size > len(p) {
		return nil, false
	}
	return p[:size], true
}

func (t poolTarget) save() error    { return errUnsupported }
func (t poolTarget) restore() error { return errUnsupported }
func (t poolTarget) check() error   { return t.Pool().Check() }

func (t poolTarget) report() report {
	st := t.Pool().Stats()
	return report{
		Allocator: t.name(),
		Capacity:  st.Chunks * st.ChunkSize,
		Used:      st.InUse * st.ChunkSize,
		Available: st.Free * st.ChunkSize,
		Stats:     st,
	}
}

type freelistTarget struct {
	*freelist.Freelist
}

func (t freelistTarget) name() string { return "freelist" }

func (t freelistTarget) defaultSize() (int, bool) { return 0, false }

func (t freelistTarget) bytes(ref alloc.Ref, size int) ([]byte, bool) {
	p, ok := t.Bytes(ref)
	if !ok || size > len(p) {
		return nil, false
	}
	return p[:size], true
}

func (t freelistTarget) save() error    { return errUnsupported }
func (t freelistTarget) restore() error { return errUnsupported }
func (t freelistTarget) check() error   { return t.Check() }

func (t freelistTarget) report() report {
	st := t.Stats()
	var blocks []blockRow
	for b := range t.Blocks() {
		blocks = append(blocks, blockRow{Offset: b.Off, Size: b.Size, Free: b.Free})
	}
	return report{
		Allocator: t.name(),
		Capacity:  st.Size,
		Used:      st.Used,
		Available: st.Free,
		Blocks:    blocks,
		Stats:     st,
	}
}

// arenaTarget keeps the marks for save and restore as a stack.
type arenaTarget struct {
	*arena.Arena
	marks *[]arena.State
}

func newArenaTarget(a *arena.Arena) arenaTarget {
	return arenaTarget{Arena: a, marks: new([]arena.State)}
}

func (t arenaTarget) name() string { return "arena" }

func (t arenaTarget) defaultSize() (int, bool) { return 0, false }

func (t arenaTarget) bytes(ref alloc.Ref, size int) ([]byte, bool) {
	return t.Bytes(ref, size)
}

// Reset also drops the saved marks, which no longer point anywhere useful.
func (t arenaTarget) Reset() {
	t.Arena.Reset()
	*t.marks = (*t.marks)[:0]
}

func (t arenaTarget) save() error {
	*t.marks = append(*t.marks, t.Save())
	return nil
}

func (t arenaTarget) restore() error {
	n := len(*t.marks)
	if n == 0 {
		return errors.New("restore without save")
	}
	t.Restore((*t.marks)[n-1])
	*t.marks = slices.Delete(*t.marks, n-1, n)
	return nil
}

func (t arenaTarget) check() error { return nil }

func (t arenaTarget) report() report {
	return report{
		Allocator: t.name(),
		Capacity:  t.Cap(),
		Used:      t.Used(),
		Available: t.Available(),
		Stats:     map[string]int{"marks": len(*t.marks)},
	}
}
