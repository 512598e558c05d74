// Package pipeline streams FASTQ files through a bounded worker pool of
// chunk processors and hands completed ChunkResults to a visit callback.
//
// The producer owns all file I/O and parsing; workers only fold in-memory
// record batches, so no two goroutines ever share an accumulator. The visit
// callback runs on a single collector goroutine.
package pipeline
