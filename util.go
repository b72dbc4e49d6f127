package pagetable

import (
	"unsafe"
)

const ptrSize = unsafe.Sizeof(unsafe.Pointer(nil))

// minPagesPerWorker is the number of leaf pages a Reserve worker should get
// before another goroutine is worth starting.
const minPagesPerWorker = 4

// calcParallelism calculates the number of goroutines for parallel processing.
//
// Parameters:
//   - items: Number of items to process.
//   - threshold: Minimum threshold to enable parallel processing.
//   - cpus: number of available workers
//
// Returns:
//   - chunkSz: Number of items processed per goroutine
//   - chunks: Suggested degree of parallelism (number of goroutines).
//
//go:nosplit
func calcParallelism(items, threshold uint64, cpus int) (chunkSz, chunks uint64) {
	if items <= threshold || cpus <= 1 {
		return items, 1
	}

	chunks = min(items/threshold, uint64(cpus))

	chunkSz = (items + chunks - 1) / chunks

	return chunkSz, chunks
}

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
