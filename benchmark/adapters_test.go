package benchmark

import (
	"sync"

	"github.com/Snawoot/lfmap"
	"github.com/alphadose/haxmap"
	"github.com/fufuok/cmap"
	"github.com/llxisdsh/pagetable"
	"github.com/llxisdsh/pb"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	orcaman_map "github.com/orcaman/concurrent-map/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zhangyunhao116/skipmap"
)

// ============================================================================
// Dense store adapters
// ============================================================================

// DenseStore is the common surface of a structure holding one value per key
// of a dense key range. Touch records v for k unless k already holds a
// value, Load reports it.
type DenseStore interface {
	Touch(k, v int)
	Load(k int) (int, bool)
}

// pagetable stores v+1 so that an untouched slot reads as absent.
type pagetableAdapter struct {
	m *pagetable.Table[pagetable.Uintptr]
}

func (a *pagetableAdapter) Touch(k, v int) {
	a.m.Get(uint64(k)).CompareAndSwap(0, uintptr(v)+1)
}

func (a *pagetableAdapter) Load(k int) (int, bool) {
	p := a.m.Peek(uint64(k))
	if p == nil {
		return 0, false
	}
	v := p.Load()
	return int(v) - 1, v != 0
}

// mapStore adapts a concurrent map through closures, so the adapter does not
// depend on each library's exported type names.
type mapStore struct {
	touch func(k, v int)
	load  func(k int) (int, bool)
}

func (a *mapStore) Touch(k, v int)         { a.touch(k, v) }
func (a *mapStore) Load(k int) (int, bool) { return a.load(k) }

func newPbMapStore() DenseStore {
	m := pb.NewMapOf[int, int]()
	return &mapStore{
		touch: func(k, v int) { m.LoadOrStore(k, v) },
		load:  func(k int) (int, bool) { return m.Load(k) },
	}
}

func newSyncMapStore() DenseStore {
	var m sync.Map
	return &mapStore{
		touch: func(k, v int) { m.LoadOrStore(k, v) },
		load: func(k int) (int, bool) {
			v, ok := m.Load(k)
			if ok {
				return v.(int), true
			}
			return 0, false
		},
	}
}

func newXsyncMapStore() DenseStore {
	m := xsync.NewMap[int, int]()
	return &mapStore{
		touch: func(k, v int) { m.LoadOrStore(k, v) },
		load:  func(k int) (int, bool) { return m.Load(k) },
	}
}

func newHaxmapStore() DenseStore {
	m := haxmap.New[int, int]()
	return &mapStore{
		touch: func(k, v int) { m.GetOrSet(k, v) },
		load:  func(k int) (int, bool) { return m.Get(k) },
	}
}

func newSkipmapStore() DenseStore {
	m := skipmap.New[int, int]()
	return &mapStore{
		touch: func(k, v int) { m.LoadOrStore(k, v) },
		load:  func(k int) (int, bool) { return m.Load(k) },
	}
}

func newCmapStore() DenseStore {
	m := cmap.NewOf[int, int]()
	return &mapStore{
		touch: func(k, v int) { _ = m.SetIfAbsent(k, v) },
		load:  func(k int) (int, bool) { return m.Get(k) },
	}
}

// concurrent-swiss-map has no LoadOrStore.
func newCsmapStore() DenseStore {
	m := csmap.New(csmap.WithShardCount[int, int](32))
	return &mapStore{
		touch: func(k, v int) {
			if !m.Has(k) {
				m.Store(k, v)
			}
		},
		load: func(k int) (int, bool) { return m.Load(k) },
	}
}

func newOrcamanStore() DenseStore {
	m := orcaman_map.NewWithCustomShardingFunction[int, int](
		func(key int) uint32 {
			return uint32(key)
		},
	)
	return &mapStore{
		touch: func(k, v int) { _ = m.SetIfAbsent(k, v) },
		load:  func(k int) (int, bool) { return m.Get(k) },
	}
}

func newLfmapStore() DenseStore {
	m := lfmap.New[int, int]()
	return &mapStore{
		touch: func(k, v int) {
			if _, ok := m.Get(k); !ok {
				m.Set(k, v)
			}
		},
		load: func(k int) (int, bool) { return m.Get(k) },
	}
}

type impl struct {
	name string
	make func() DenseStore
}

func impls() []impl {
	return []impl{
		{"pagetable.Table", func() DenseStore {
			return &pagetableAdapter{pagetable.New[pagetable.Uintptr]()}
		}},
		{"pb.MapOf", newPbMapStore},
		{"sync.Map", newSyncMapStore},
		{"xsync.Map", newXsyncMapStore},
		{"haxmap", newHaxmapStore},
		{"skipmap", newSkipmapStore},
		{"fufuok_cmap", newCmapStore},
		{"concurrent_swiss_map", newCsmapStore},
		{"orcaman_concurrent_map", newOrcamanStore},
		{"lfmap", newLfmapStore},
	}
}

// release frees what a DenseStore holds, when it supports it.
func release(s DenseStore) {
	if a, ok := s.(*pagetableAdapter); ok {
		_ = a.m.Close()
	}
}
