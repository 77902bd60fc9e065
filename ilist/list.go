package ilist

import "iter"

// Ref addresses a node inside a Store.
type Ref uint32

// Link is one node's pair of references.
type Link struct {
	Prev Ref
	Next Ref
}

// Store reads and writes the links of the nodes it holds.
type Store interface {
	Prev(n Ref) Ref
	Next(n Ref) Ref
	SetPrev(n, p Ref)
	SetNext(n, nx Ref)
}

// Init makes n its own head: a single-node ring. This is the empty-list state
// for a head and the detached state for any other node.
func Init(s Store, n Ref) {
	s.SetPrev(n, n)
	s.SetNext(n, n)
}

// addBetween splices n between two adjacent nodes.
func addBetween(s Store, n, before, after Ref) {
	s.SetNext(before, n)
	s.SetPrev(n, before)
	s.SetPrev(after, n)
	s.SetNext(n, after)
}

// attach joins two nodes, dropping whatever sat between them.
func attach(s Store, before, after Ref) {
	s.SetNext(before, after)
	s.SetPrev(after, before)
}

// AddAfter links n immediately after anchor. Pushing and popping at the same
// end of a list gives stack semantics.
func AddAfter(s Store, anchor, n Ref) {
	addBetween(s, n, anchor, s.Next(anchor))
}

// AddBefore links n immediately before anchor. Adding before the head and
// taking from after it gives queue semantics.
func AddBefore(s Store, anchor, n Ref) {
	addBetween(s, n, s.Prev(anchor), anchor)
}

// Remove unlinks n and leaves it detached (self-linked).
func Remove(s Store, n Ref) {
	attach(s, s.Prev(n), s.Next(n))
	Init(s, n)
}

// Replace puts n where old is and leaves old detached. Both neighbours are
// read before anything is written, so the chain is never left half spliced
// even when the two nodes' storage is adjacent.
func Replace(s Store, old, n Ref) {
	prev, next := s.Prev(old), s.Next(old)
	addBetween(s, n, prev, next)
	Init(s, old)
}

// IsFirst reports whether n is the first node after head.
func IsFirst(s Store, n, head Ref) bool {
	return s.Next(head) == n
}

// IsLast reports whether n is the last node before head.
func IsLast(s Store, n, head Ref) bool {
	return s.Prev(head) == n
}

// IsHead reports whether n is head.
func IsHead(n, head Ref) bool {
	return n == head
}

// Empty reports whether the list anchored at head has no nodes.
func Empty(s Store, head Ref) bool {
	return s.Next(head) == head
}

// Entry returns the offset of the record that embeds node at byte offset
// field within it (container-of over buffer offsets).
func Entry(node Ref, field uint32) Ref {
	return node - Ref(field)
}

// Len counts the nodes linked after head. It walks the whole ring.
func Len(s Store, head Ref) int {
	n := 0
	for cur := s.Next(head); cur != head; cur = s.Next(cur) {
		n++
	}
	return n
}

// All yields the nodes from first to last. The successor is read before each
// yield, so the loop body may remove the node it was handed.
func All(s Store, head Ref) iter.Seq[Ref] {
	return func(yield func(Ref) bool) {
		for cur := s.Next(head); cur != head; {
			next := s.Next(cur)
			if !yield(cur) {
				return
			}
			cur = next
		}
	}
}

// Backward yields the nodes from last to first.
func Backward(s Store, head Ref) iter.Seq[Ref] {
	return func(yield func(Ref) bool) {
		for cur := s.Prev(head); cur != head; {
			prev := s.Prev(cur)
			if !yield(cur) {
				return
			}
			cur = prev
		}
	}
}

// PushFront links n as the first node.
func PushFront(s Store, head, n Ref) {
	AddAfter(s, head, n)
}

// PushBack links n as the last node.
func PushBack(s Store, head, n Ref) {
	AddBefore(s, head, n)
}

// PopFront unlinks and returns the first node. ok is false on an empty list.
func PopFront(s Store, head Ref) (n Ref, ok bool) {
	n = s.Next(head)
	if n == head {
		return 0, false
	}
	Remove(s, n)
	return n, true
}
