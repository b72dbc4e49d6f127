// Package pagetable provides Table, a wait-free concurrent sparse array keyed
// by uint64.
//
// A Table is a four-level trie of 2^16-wide pages, the same shape as a
// hardware page table. Every key maps to one slot of a caller-chosen
// Zeroable element type. Pages are allocated zeroed the first time any
// goroutine reaches them and are never moved or freed until the Table is
// closed, so the *T returned by Get can be used without further lookups.
//
// Tables are meant for hot shared metadata (per-page pins, per-object
// counters and flags) whose keys are dense over some prefix of the key space:
//
//	var pins pagetable.Table[pagetable.Int32]
//	pins.Get(pageID).Add(1)
//	defer pins.Get(pageID).Add(-1)
//
// Keys below 2^16, 2^32 and 2^48 enter the tree through dedicated shortcut
// roots and skip the levels above them, both for traversal and allocation.
//
// Warning: do not use a Table for sparse key spaces. The first touch of a key
// materializes a whole page at every level below the root it enters through;
// a page of pointers is 512KiB on 64-bit platforms, a leaf is 2^16 elements.
package pagetable

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Close, and used as the panic value of other
// methods, when a Table handle has already been closed.
var ErrClosed = errors.New("pagetable: use of closed Table")

// Table is a handle on a wait-free four-level page table.
//
// Core properties:
//   - Get never fails and never blocks: each level costs one atomic load,
//     plus at most one allocation and one CAS on first touch
//   - Zero-value ready with lazy initialization
//   - Clone shares the tree between handles, the last Close tears it down
//
// Notes:
//   - Table must not be copied after first use; use Clone instead.
//   - The table never writes to a slot after zeroing it. Mutating slot
//     contents is up to the element type's own atomic operations.
type Table[T Zeroable] struct {
	_       noCopy
	inner   atomic.Pointer[table[T]]
	retired atomic.Pointer[table[T]]
	closed  atomic.Bool
}

// New creates a new Table instance. Direct declaration is also supported.
//
// Parameters:
//   - options: configuration options (WithReserve, WithWorkers)
func New[T Zeroable](options ...func(*TableConfig)) *Table[T] {
	var cfg TableConfig
	for _, o := range options {
		o(&cfg)
	}

	t := &Table[T]{}
	t.inner.Store(&table[T]{workers: cfg.workers})
	if cfg.reserve {
		// Reserve only fails on cancellation.
		_ = t.Reserve(context.Background(), cfg.first, cfg.last)
	}
	return t
}

func (t *Table[T]) root() *table[T] {
	if r := t.inner.Load(); r != nil {
		return r
	}
	return t.rootSlow()
}

// rootSlow materializes the shared tree of a zero Table. It may race with
// other first users; the first CAS wins as for any page.
//
//go:noinline
func (t *Table[T]) rootSlow() *table[T] {
	if t.closed.Load() {
		panic(ErrClosed)
	}
	fresh := &table[T]{}
	if t.inner.CompareAndSwap(nil, fresh) {
		return fresh
	}
	if r := t.inner.Load(); r != nil {
		return r
	}
	panic(ErrClosed)
}

// Get returns the slot for key, installing every missing page on its path.
// An untouched slot holds the zero value of T. All keys are valid.
//
// Repeated calls with the same key, from any goroutine and through any
// clone, return the same pointer.
func (t *Table[T]) Get(key uint64) *T {
	return &t.root().leafFor(key).slots[key&segmentMask]
}

// Unsigned is the set of key types accepted by At.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// At is Get for any unsigned integer key type.
func At[T Zeroable, K Unsigned](t *Table[T], key K) *T {
	return t.Get(uint64(key))
}

// Peek returns the slot for key if its leaf page is already installed, and
// nil otherwise. Unlike Get, it never allocates, which makes it suitable
// for probing keys that may never have been written.
func (t *Table[T]) Peek(key uint64) *T {
	r := t.inner.Load()
	if r == nil {
		if t.closed.Load() {
			panic(ErrClosed)
		}
		return nil
	}
	l := r.lookupLeaf(key)
	if l == nil {
		return nil
	}
	return &l.slots[key&segmentMask]
}

// Clone returns a new handle on the same tree. Nothing is copied; the tree
// lives until every handle has been closed.
func (t *Table[T]) Clone() *Table[T] {
	r := t.root()
	r.refs.Add(1)
	c := &Table[T]{}
	c.inner.Store(r)
	return c
}

// Close releases this handle. Closing the last handle on a tree frees every
// page reachable from its four roots, exactly once. Slots obtained from Get
// must not be used to share state after that: they are detached from the
// table. Closing a handle twice returns ErrClosed.
//
// Close must not run concurrently with other methods on the same handle.
func (t *Table[T]) Close() error {
	if t.closed.Swap(true) {
		return ErrClosed
	}
	r := t.inner.Load()
	if r == nil {
		return nil
	}
	t.retired.Store(r)
	t.inner.Store(nil)
	if r.refs.Add(-1) < 0 {
		r.teardown()
	}
	return nil
}

// Reserve installs every page covering keys first through last, inclusive,
// so that later Gets in that range only load pointers. Leaf pages are
// installed in parallel, up to WithWorkers goroutines.
//
// Reserve returns ctx.Err() if ctx is cancelled before it finishes. Pages
// installed up to that point stay installed.
func (t *Table[T]) Reserve(ctx context.Context, first, last uint64) error {
	if first > last {
		return nil
	}
	r := t.root()

	lo, hi := first>>SegmentBits, last>>SegmentBits
	workers := r.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunkSz, chunks := calcParallelism(hi-lo+1, minPagesPerWorker, workers)

	fill := func(ctx context.Context, start, end uint64) error {
		for p := start; p < end; p++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.leafFor(p << SegmentBits)
		}
		return nil
	}
	if chunks == 1 {
		return fill(ctx, lo, hi+1)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range chunks {
		start := lo + i*chunkSz
		end := min(start+chunkSz, hi+1)
		g.Go(func() error {
			return fill(gctx, start, end)
		})
	}
	return g.Wait()
}

// Stats returns a snapshot of the page accounting of the tree behind t. It
// remains available after t is closed.
func (t *Table[T]) Stats() Stats {
	r := t.inner.Load()
	if r == nil {
		r = t.retired.Load()
	}
	if r == nil {
		return Stats{}
	}
	s := snapshot[T](&r.stats)
	s.TornDown = r.refs.Load() < 0
	return s
}
