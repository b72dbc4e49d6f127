package pagetable

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/pagetable/internal/opt"
)

// tableStats counts page lifecycle events per level. Every allocated page
// ends up either installed or discarded, and every installed page is
// released exactly once at teardown, so byte totals can be derived from the
// counts and the page sizes.
type tableStats struct {
	levels [levelCount]levelStats
}

type levelStats struct {
	installs opt.CounterStripe_
	discards opt.CounterStripe_
	releases opt.CounterStripe_
}

func (s *tableStats) at(lv Level) *levelStats {
	return &s.levels[lv-1]
}

func (s *tableStats) installed(lv Level) {
	atomic.AddUintptr(&s.at(lv).installs.C, 1)
}

func (s *tableStats) discarded(lv Level) {
	atomic.AddUintptr(&s.at(lv).discards.C, 1)
}

func (s *tableStats) released(lv Level) {
	atomic.AddUintptr(&s.at(lv).releases.C, 1)
}

// LevelStats describes the pages of one tree level.
type LevelStats struct {
	// Installed is the number of pages ever published into the tree.
	Installed int
	// Discarded is the number of pages allocated by goroutines that lost
	// an install race. They were never reachable from the tree.
	Discarded int
	// Released is the number of installed pages freed by teardown.
	Released int
	// PageSize is the size in bytes of one page at this level.
	PageSize uintptr
}

// Live is the number of installed pages not yet released.
func (l LevelStats) Live() int {
	return l.Installed - l.Released
}

// Stats is a point-in-time snapshot of a Table's page accounting. Counters
// are read independently, so a snapshot taken during concurrent Gets may be
// slightly skewed between levels.
type Stats struct {
	// Levels is indexed by Level-1.
	Levels [levelCount]LevelStats
	// Allocated is the total number of bytes of pages ever allocated,
	// including discarded install-race losers.
	Allocated uint64
	// Freed is the number of bytes given back: discarded pages plus pages
	// released by teardown.
	Freed uint64
	// Resident is Allocated - Freed.
	Resident uint64
	// ApproxKeys is the number of slots held by live leaves. It is an upper
	// bound on the number of keys touched so far.
	ApproxKeys uint64
	// TornDown reports whether the last handle on the tree was closed.
	TornDown bool
}

// Level returns the stats for lv.
func (s Stats) Level(lv Level) LevelStats {
	return s.Levels[lv-1]
}

// Nodes is the number of live interior pages across levels 1 to 3.
func (s Stats) Nodes() int {
	return s.Level(Level1).Live() + s.Level(Level2).Live() + s.Level(Level3).Live()
}

// Leaves is the number of live leaf pages.
func (s Stats) Leaves() int {
	return s.Level(LevelLeaf).Live()
}

// ToString returns string representation of table stats.
func (s *Stats) ToString() string {
	var sb strings.Builder
	sb.WriteString("Stats{\n")
	for i := range s.Levels {
		l := &s.Levels[i]
		sb.WriteString(fmt.Sprintf("%-5s installed=%d discarded=%d released=%d page=%d\n",
			Level(i+1), l.Installed, l.Discarded, l.Released, l.PageSize))
	}
	sb.WriteString(fmt.Sprintf("Allocated:  %d\n", s.Allocated))
	sb.WriteString(fmt.Sprintf("Freed:      %d\n", s.Freed))
	sb.WriteString(fmt.Sprintf("Resident:   %d\n", s.Resident))
	sb.WriteString(fmt.Sprintf("ApproxKeys: %d\n", s.ApproxKeys))
	sb.WriteString(fmt.Sprintf("TornDown:   %t\n", s.TornDown))
	sb.WriteString("}\n")
	return sb.String()
}

func (s *Stats) String() string {
	return s.ToString()
}

// snapshot reads the counters of s into a Stats for element type T.
func snapshot[T Zeroable](s *tableStats) Stats {
	var (
		n   *level1[T]
		l   *leaf[T]
		out Stats
	)
	nodeSize, leafSize := unsafe.Sizeof(*n), unsafe.Sizeof(*l)
	for i := range out.Levels {
		src := &s.levels[i]
		dst := &out.Levels[i]
		dst.Installed = int(atomic.LoadUintptr(&src.installs.C))
		dst.Discarded = int(atomic.LoadUintptr(&src.discards.C))
		dst.Released = int(atomic.LoadUintptr(&src.releases.C))
		dst.PageSize = nodeSize
		if Level(i+1) == LevelLeaf {
			dst.PageSize = leafSize
		}
		size := uint64(dst.PageSize)
		out.Allocated += uint64(dst.Installed+dst.Discarded) * size
		out.Freed += uint64(dst.Discarded+dst.Released) * size
	}
	out.Resident = out.Allocated - out.Freed
	out.ApproxKeys = uint64(out.Leaves()) * Fanout
	return out
}
