package pagetable

// ============================================================================
// Configuration
// ============================================================================

// TableConfig defines configurable options for Table initialization.
// The element type is the only contract a Table really has; these options
// only control eager materialization.
type TableConfig struct {
	// reserve requests that pages covering [first, last] be installed
	// while the Table is constructed.
	reserve     bool
	first, last uint64

	// workers caps the number of goroutines Reserve uses.
	// If zero or negative, runtime.GOMAXPROCS(0) is used.
	workers int
}

// WithReserve installs every page covering keys first through last
// (inclusive) when the Table is created, so the first Get of those keys
// never allocates. Use it for key ranges known to be dense up front.
//
// Usage:
//
//	pins := pagetable.New[pagetable.Int32](pagetable.WithReserve(0, 1<<24-1))
func WithReserve(first, last uint64) func(*TableConfig) {
	return func(c *TableConfig) {
		c.reserve = true
		c.first, c.last = first, last
	}
}

// WithWorkers caps the parallelism of Reserve. If n is zero or negative,
// the value is ignored.
func WithWorkers(n int) func(*TableConfig) {
	return func(c *TableConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}
