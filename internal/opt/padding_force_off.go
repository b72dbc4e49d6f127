//go:build pagetable_disable_padding

package opt

// CounterStripe_ is a page counter on its own word.
// Padding is force-disabled via the pagetable_disable_padding build tag.
// Use: go build -tags=pagetable_disable_padding
type CounterStripe_ struct {
	C uintptr // Counter value, accessed atomically
}
