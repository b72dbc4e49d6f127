//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !pagetable_disable_padding && !pagetable_enable_padding

package opt

// CounterStripe_ is a page counter.
// Padding is disabled by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
type CounterStripe_ struct {
	C uintptr // Counter value, accessed atomically
}
