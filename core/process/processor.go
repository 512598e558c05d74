// core/process/processor.go
package process

import (
	"context"
	"errors"
	"fmt"
	"io"

	"seqqc-core/fastq"
	"seqqc-core/quality"
	"seqqc-core/stats"
)

// ChunkIOError reports a stream read failure mid-chunk. The chunk's partial
// accumulator state is discarded: a chunk either fully succeeds or
// contributes nothing, which keeps the reducer's merge algebra simple.
type ChunkIOError struct {
	Source string
	Err    error
}

func (e *ChunkIOError) Error() string {
	return fmt.Sprintf("chunk %s: %v", e.Source, e.Err)
}

func (e *ChunkIOError) Unwrap() error { return e.Err }

// FoldGroup validates and decodes one raw group into acc. Rejections are
// counted, never raised; a bad quality byte counts as RejectQuality.
func FoldGroup(acc *stats.Accumulator, g fastq.RawGroup) {
	rec, why := fastq.Validate(g)
	if why != fastq.RejectNone {
		acc.Reject(why)
		return
	}
	scores, err := quality.Decode(rec.Quality)
	if err != nil {
		acc.Reject(fastq.RejectQuality)
		return
	}
	acc.Fold(stats.Observation{
		Sequence:  rec.Sequence,
		Length:    len(rec.Sequence),
		GCPercent: fastq.GCPercent(rec.Sequence),
		Scores:    scores,
	})
}

// Process drives parser → validator → decoder → accumulator over one chunk
// stream and returns its ChunkResult. On a read failure the partial state is
// abandoned and a ChunkIOError returned; cancellation propagates unwrapped.
func Process(ctx context.Context, source string, r io.Reader, cfg stats.Config) (stats.ChunkResult, error) {
	acc := stats.New(source, cfg)
	err := fastq.ScanGroups(ctx, r, func(g fastq.RawGroup) error {
		FoldGroup(acc, g)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return stats.ChunkResult{}, err
		}
		return stats.ChunkResult{}, &ChunkIOError{Source: source, Err: err}
	}
	return acc.Snapshot(), nil
}

// ProcessGroups folds an already-parsed batch of raw groups. The worker
// pipeline parses at the producer and hands workers bounded batches.
func ProcessGroups(source string, groups []fastq.RawGroup, cfg stats.Config) stats.ChunkResult {
	acc := stats.New(source, cfg)
	for _, g := range groups {
		FoldGroup(acc, g)
	}
	return acc.Snapshot()
}
