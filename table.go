package pagetable

import (
	"sync/atomic"

	"github.com/llxisdsh/pagetable/internal/opt"
)

// table is the tree shared by every handle cloned from the same Table.
type table[T Zeroable] struct {
	// l1 is the entry point for keys that can't use a shortcut.
	l1 atomic.Pointer[level1[T]]
	// l2 is the shortcut for keys below 2^48.
	l2 atomic.Pointer[level2[T]]
	// l3 is the shortcut for keys below 2^32.
	l3 atomic.Pointer[level3[T]]
	// l4 is the shortcut for keys below 2^16, a single leaf.
	l4 atomic.Pointer[leaf[T]]

	_ [(opt.CacheLineSize_ - 4*ptrSize%opt.CacheLineSize_) % opt.CacheLineSize_]byte

	// refs counts handles beyond the first, so a zero table has one owner.
	refs    atomic.Int64
	workers int
	stats   tableStats
}

// leafFor returns the leaf holding key, installing every missing page on the
// way down.
func (t *table[T]) leafFor(key uint64) *leaf[T] {
	k1, k2, k3, _ := split(key)
	s := &t.stats
	switch route(key) {
	case LevelLeaf:
		return punch(&t.l4, s, LevelLeaf)
	case Level3:
		l3 := punch(&t.l3, s, Level3)
		return l3.traverse(k3, s, LevelLeaf)
	case Level2:
		l2 := punch(&t.l2, s, Level2)
		l3 := l2.traverse(k2, s, Level3)
		return l3.traverse(k3, s, LevelLeaf)
	default:
		l1 := punch(&t.l1, s, Level1)
		l2 := l1.traverse(k1, s, Level2)
		l3 := l2.traverse(k2, s, Level3)
		return l3.traverse(k3, s, LevelLeaf)
	}
}

// lookupLeaf walks the same path as leafFor but never installs; it returns
// nil at the first missing page.
func (t *table[T]) lookupLeaf(key uint64) *leaf[T] {
	k1, k2, k3, _ := split(key)
	var l2 *level2[T]
	var l3 *level3[T]
	switch route(key) {
	case LevelLeaf:
		return t.l4.Load()
	case Level3:
		l3 = t.l3.Load()
	case Level2:
		l2 = t.l2.Load()
	default:
		l1 := t.l1.Load()
		if l1 == nil {
			return nil
		}
		l2 = l1.lookup(k1)
	}
	if l3 == nil {
		if l2 == nil {
			return nil
		}
		if l3 = l2.lookup(k2); l3 == nil {
			return nil
		}
	}
	return l3.lookup(k3)
}

// teardown releases each of the four independently rooted subtrees. Roots
// are swapped out, so a second call finds nothing to release.
func (t *table[T]) teardown() {
	s := &t.stats
	if p := t.l1.Swap(nil); p != nil {
		p.release(s, Level1)
	}
	if p := t.l2.Swap(nil); p != nil {
		p.release(s, Level2)
	}
	if p := t.l3.Swap(nil); p != nil {
		p.release(s, Level3)
	}
	if p := t.l4.Swap(nil); p != nil {
		p.release(s, LevelLeaf)
	}
}
