// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"seqqc-core/reduce"
	"seqqc-core/stats"
	"seqqc/internal/cmdutil"
	"seqqc/internal/common"
	"seqqc/internal/metrics"
	"seqqc/internal/output"
	"seqqc/internal/pipeline"
	"seqqc/internal/progress"
	"seqqc/internal/runutil"
	"seqqc/internal/writers"
)

// Options carries everything a QC run needs beyond flag plumbing.
type Options struct {
	Files []string

	Stats       stats.Config
	Threads     int
	ChunkReads  int
	MaxFailures int

	Output string
	Header bool
	Quiet  bool

	Progress bool
	Metrics  *metrics.Metrics

	// NoReadsExitCode is returned when the run finishes cleanly but not a
	// single record passed validation.
	NoReadsExitCode int
}

// Run streams every input through the chunk pipeline, merges the per-chunk
// results and writes one combined report to stdout. The returned value is a
// process exit code: 0 ok, 2 usage, 3 runtime failure, 130 canceled, and
// o.NoReadsExitCode when nothing validated.
func Run(parent context.Context, stdout, stderr io.Writer, o Options) int {
	chunkReads, warns := runutil.ValidateChunkReads(o.ChunkReads)
	warns = append(warns, runutil.ValidateSampling(o.Stats.Stride, o.Stats.SampleCap, chunkReads)...)
	for _, w := range warns {
		cmdutil.Warnf(stderr, o.Quiet, "%s", w)
	}

	thr := runutil.EffectiveThreads(o.Threads)

	bar := progress.Start(len(o.Files), stderr, o.Progress)
	defer bar.Finish()
	seenFiles := make(map[string]bool, len(o.Files))

	var (
		mu      sync.Mutex
		results []stats.ChunkResult
	)
	perr := pipeline.ForEachResult(parent, pipeline.Config{
		Threads:     thr,
		ChunkReads:  chunkReads,
		MaxFailures: o.MaxFailures,
		Stats:       o.Stats,
		OnResult:    o.Metrics.ObserveChunk,
		OnFailure: func(err error) {
			cmdutil.Warnf(stderr, o.Quiet, "chunk failed: %v", err)
			o.Metrics.ObserveFailure()
		},
	}, o.Files, func(r stats.ChunkResult) error {
		mu.Lock()
		results = append(results, r)
		file, _, _ := common.SplitChunkSource(r.Source)
		first := !seenFiles[file]
		seenFiles[file] = true
		mu.Unlock()
		if first {
			bar.Increment()
		}
		return nil
	})
	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return 130
		}
		cmdutil.Errorf(stderr, "%v", perr)
		return 3
	}

	combined, err := reduce.Merge(results)
	if err != nil && !errors.Is(err, reduce.ErrEmptyInput) {
		cmdutil.Errorf(stderr, "%v", err)
		return 3
	}

	rep := output.ToAPI(combined)
	if werr := writers.WriteReport(o.Output, stdout, rep, o.Header); writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		cmdutil.Errorf(stderr, "%v", werr)
		return 3
	}

	if combined.Stats.Reads == 0 {
		cmdutil.Warnf(stderr, o.Quiet, "no valid reads in %s",
			strings.Join(o.Files, ", "))
		return o.NoReadsExitCode
	}
	return 0
}

// WriteMerged renders an already-combined result; the merge tool shares the
// report path with the main binary through this.
func WriteMerged(stdout io.Writer, c reduce.CombinedResult, format string, header bool) error {
	rep := output.ToAPI(c)
	if err := writers.WriteReport(format, stdout, rep, header); err != nil && !writers.IsBrokenPipe(err) {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
