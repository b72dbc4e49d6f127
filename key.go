package pagetable

const (
	// SegmentBits is the width of each of the four key segments.
	SegmentBits = 16
	// Fanout is the number of slots held by every node and leaf page.
	Fanout = 1 << SegmentBits

	segmentMask = Fanout - 1
)

// Level identifies a depth of the tree. Level1 pages are indexed by the most
// significant key segment, LevelLeaf pages hold the element slots.
type Level uint8

const (
	Level1 Level = iota + 1
	Level2
	Level3
	LevelLeaf

	levelCount = int(LevelLeaf)
)

func (l Level) String() string {
	switch l {
	case Level1:
		return "L1"
	case Level2:
		return "L2"
	case Level3:
		return "L3"
	case LevelLeaf:
		return "Leaf"
	}
	return "L?"
}

// split decomposes key big-endian into four 16-bit segments, k1 being the
// most significant.
//
//go:nosplit
func split(key uint64) (k1, k2, k3, k4 uint16) {
	return uint16(key >> 48), uint16(key >> 32), uint16(key >> 16), uint16(key)
}

// route picks the root a key enters the tree through. Keys whose high
// segments are exactly zero use the matching shortcut root and never touch
// the levels above it:
//
//	key < 2^16  -> LevelLeaf root, no traversal
//	key < 2^32  -> Level3 root, one traversal (k3)
//	key < 2^48  -> Level2 root, two traversals (k2, k3)
//	otherwise   -> Level1 root, three traversals (k1, k2, k3)
//
//go:nosplit
func route(key uint64) Level {
	switch {
	case key>>SegmentBits == 0:
		return LevelLeaf
	case key>>(2*SegmentBits) == 0:
		return Level3
	case key>>(3*SegmentBits) == 0:
		return Level2
	default:
		return Level1
	}
}
