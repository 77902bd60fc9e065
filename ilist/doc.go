// Package ilist implements an intrusive circular doubly linked list.
//
// # Overview
//
// Link fields live inside the records they chain together rather than in
// separately allocated nodes. A node is identified by a Ref, and the two
// links of every node are read and written through a Store:
//
//   - Mem keeps each link pair inside a byte buffer at the node's own offset,
//     which is how the pool and freelist allocators thread their free chains
//     through memory they do not otherwise use.
//   - Slab keeps links in a []Link indexed by Ref, for standalone stacks and
//     queues over records held in a parallel slice.
//
// Every list is anchored at a sentinel head node. An empty list is a head
// whose Prev and Next both refer to itself.
//
// # Usage Example
//
//	s := ilist.NewSlab(27)      // index 0 is the head
//	const head = 0
//	ilist.Init(s, head)
//	for i := ilist.Ref(1); i <= 26; i++ {
//	    ilist.AddAfter(s, head, i) // stack: push at the front
//	}
//	for n := range ilist.All(s, head) {
//	    fmt.Println(letters[n])
//	}
//
// # Record Extraction
//
// When links are embedded at a known byte offset inside a record, Entry
// recovers the record's offset from the node's:
//
//	block := ilist.Entry(node, headerSize)
//
// # Preconditions
//
// Operations do not validate their arguments. Removing a detached node, adding
// a node that is already linked, or passing Refs a Store cannot address are
// caller errors with unspecified results. No operation allocates.
package ilist
