//go:build pagetable_enable_padding

package opt

import (
	"unsafe"
)

// CounterStripe_ is a page counter padded to a full cache line.
// Padding is force-enabled via the pagetable_enable_padding build tag.
// Use: go build -tags=pagetable_enable_padding
type CounterStripe_ struct {
	C uintptr // Counter value, accessed atomically
	_ [(CacheLineSize_ - unsafe.Sizeof(struct {
		C uintptr
	}{})%CacheLineSize_) % CacheLineSize_]byte
}
