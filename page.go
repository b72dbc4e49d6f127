package pagetable

import (
	"sync/atomic"
)

// page is the pointer side of a node child: *P must know how to release the
// subtree it heads.
type page[P any] interface {
	*P
	release(s *tableStats, lv Level)
}

// node is an interior page of Fanout child pointers. A slot is nil until a
// child is installed and never changes afterwards until teardown.
type node[C any, PC page[C]] struct {
	children [Fanout]atomic.Pointer[C]
}

// leaf is a terminal page of Fanout element slots, zeroed on allocation.
type leaf[T Zeroable] struct {
	slots [Fanout]T
}

type (
	level3[T Zeroable] = node[leaf[T], *leaf[T]]
	level2[T Zeroable] = node[level3[T], *level3[T]]
	level1[T Zeroable] = node[level2[T], *level2[T]]
)

// punch returns the page installed at slot, installing a zeroed page first if
// the slot is empty. It is wait-free: at most one allocation and one CAS.
func punch[C any](slot *atomic.Pointer[C], s *tableStats, lv Level) *C {
	if p := slot.Load(); p != nil {
		return p
	}
	return punchSlow(slot, s, lv)
}

//go:noinline
func punchSlow[C any](slot *atomic.Pointer[C], s *tableStats, lv Level) *C {
	fresh := new(C)
	if slot.CompareAndSwap(nil, fresh) {
		s.installed(lv)
		return fresh
	}
	// Lost the install race. fresh was never published, dropping it is
	// enough for the collector to take it back.
	s.discarded(lv)
	return slot.Load()
}

// traverse descends one level through the child at seg.
func (n *node[C, PC]) traverse(seg uint16, s *tableStats, lv Level) *C {
	return punch(&n.children[seg], s, lv)
}

// lookup is traverse without installation; nil if the child is absent.
func (n *node[C, PC]) lookup(seg uint16) *C {
	return n.children[seg].Load()
}

// release tears down every installed child, then the node itself. Empty
// slots are skipped.
func (n *node[C, PC]) release(s *tableStats, lv Level) {
	for i := range n.children {
		c := n.children[i].Swap(nil)
		if c == nil {
			continue
		}
		PC(c).release(s, lv+1)
	}
	s.released(lv)
}

func (l *leaf[T]) release(s *tableStats, lv Level) {
	s.released(lv)
}
