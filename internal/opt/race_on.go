//go:build race

package opt

// Race_ reports whether the binary was built with the race detector.
// Tests use it to shrink workloads that touch millions of keys.
const Race_ = true
