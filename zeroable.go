package pagetable

import "sync/atomic"

// Zeroable is the capability required of a Table element type: its all-zero
// bit pattern must be a legal value. Pages are zero-filled on allocation and
// that zero fill is the only initialization a slot ever receives.
//
// The capability is opt-in. A type satisfies Zeroable only by embedding
// ZeroValid, so zero-validity is always a deliberate claim by the author of
// the type rather than something inferred from its shape.
//
// A Table cannot tell a slot that was never touched from a slot that was
// explicitly set to zero.
type Zeroable interface {
	zeroValid()
}

// ZeroValid marks a type as Zeroable when embedded. Embed it only in types
// whose zero value is meaningful, typically structs of atomics:
//
//	type pageMeta struct {
//		pagetable.ZeroValid
//		pins  atomic.Int32
//		flags [4]atomic.Uint32
//	}
type ZeroValid struct{}

func (ZeroValid) zeroValid() {}

// Bool is a Zeroable atomic.Bool. The zero value is false.
type Bool struct {
	ZeroValid
	atomic.Bool
}

// Int32 is a Zeroable atomic.Int32.
type Int32 struct {
	ZeroValid
	atomic.Int32
}

// Int64 is a Zeroable atomic.Int64.
type Int64 struct {
	ZeroValid
	atomic.Int64
}

// Uint32 is a Zeroable atomic.Uint32.
type Uint32 struct {
	ZeroValid
	atomic.Uint32
}

// Uint64 is a Zeroable atomic.Uint64.
type Uint64 struct {
	ZeroValid
	atomic.Uint64
}

// Uintptr is a Zeroable atomic.Uintptr.
type Uintptr struct {
	ZeroValid
	atomic.Uintptr
}

// Pointer is a Zeroable atomic.Pointer. The zero value is nil.
type Pointer[E any] struct {
	ZeroValid
	atomic.Pointer[E]
}

// Value is a Zeroable atomic.Value. The zero value loads nil.
type Value struct {
	ZeroValid
	atomic.Value
}

// Pair groups two Zeroable values in one slot.
type Pair[A, B Zeroable] struct {
	ZeroValid
	First  A
	Second B
}

// Triple groups three Zeroable values in one slot.
type Triple[A, B, C Zeroable] struct {
	ZeroValid
	First  A
	Second B
	Third  C
}

// Quad groups four Zeroable values in one slot.
type Quad[A, B, C, D Zeroable] struct {
	ZeroValid
	First  A
	Second B
	Third  C
	Fourth D
}
