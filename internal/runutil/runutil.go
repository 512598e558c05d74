// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"runtime"
)

// DefaultChunkReads is the in-process chunk size in records. Small enough
// that worker batches stay cache-friendly, large enough that per-chunk
// bookkeeping stays in the noise.
const DefaultChunkReads = 100000

// MinChunkReads guards against degenerate chunking where per-chunk overhead
// dominates and the sample reservoir of each chunk is nearly empty.
const MinChunkReads = 100

// EffectiveThreads maps the CLI convention (0 = all CPUs) to a worker count.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// ValidateChunkReads decides the records-per-chunk value, returning
// (chunkReads, warnings). Rules:
//   - n == 0 → DefaultChunkReads
//   - 0 < n < MinChunkReads → clamp up with a warning
func ValidateChunkReads(n int) (int, []string) {
	if n == 0 {
		return DefaultChunkReads, nil
	}
	if n < MinChunkReads {
		return MinChunkReads, []string{
			fmt.Sprintf("warning: --chunk-reads %d below minimum; using %d", n, MinChunkReads),
		}
	}
	return n, nil
}

// ValidateSampling warns when the stride/cap combination cannot fill the
// reservoir from a single default-size chunk. Values pass through; the
// warning only flags that the sample will under-represent each chunk.
func ValidateSampling(stride, sampleCap, chunkReads int) []string {
	if stride <= 0 || sampleCap <= 0 || chunkReads <= 0 {
		return nil
	}
	if chunkReads/stride < sampleCap/10 {
		return []string{
			fmt.Sprintf("warning: --stride %d samples at most %d reads per %d-read chunk (cap %d)",
				stride, chunkReads/stride, chunkReads, sampleCap),
		}
	}
	return nil
}
