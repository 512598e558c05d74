// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"seqqc-core/fastq"
	"seqqc-core/process"
	"seqqc-core/stats"
	"seqqc/internal/common"
)

// Config controls the analysis pipeline.
type Config struct {
	Threads     int          // number of worker goroutines (>=1)
	ChunkReads  int          // records per in-process chunk (>=1)
	MaxFailures int          // abandoned chunks tolerated before canceling the run
	Stats       stats.Config // accumulator bounds, shared by every chunk

	// OnResult/OnFailure observe chunk completion from the collector
	// goroutine (metrics, progress). Optional.
	OnResult  func(stats.ChunkResult)
	OnFailure func(error)
}

// CountChunks returns how many chunks the pipeline will cut n records into.
// Used to size progress reporting; 0 when n is unknown.
func CountChunks(n, chunkReads int) int {
	if n <= 0 || chunkReads <= 0 {
		return 0
	}
	return (n + chunkReads - 1) / chunkReads
}

// ForEachResult reads records from files, cuts them into chunks of
// cfg.ChunkReads records, processes each chunk on a worker, and calls visit
// with every completed ChunkResult in completion order. The reducer's merge
// is order-independent, so no ordering is imposed here.
//
// A scan failure mid-chunk abandons that chunk's records entirely (whole
// chunk commit); the file's remaining chunks are skipped and the failure
// counted. Failures within cfg.MaxFailures are reported through OnFailure
// only; one more aborts the run and returns the tipping error. Visit errors
// and context cancellation abort immediately.
func ForEachResult(
	ctx context.Context,
	cfg Config,
	files []string,
	visit func(stats.ChunkResult) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.ChunkReads < 1 {
		cfg.ChunkReads = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		source string
		groups []fastq.RawGroup
	}
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan stats.ChunkResult, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					r := process.ProcessGroups(j.source, j.groups, cfg.Stats)
					select {
					case results <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector
	var (
		mu   sync.Mutex
		cerr error
		cwg  sync.WaitGroup
	)
	firstErr := func() error {
		mu.Lock()
		defer mu.Unlock()
		return cerr
	}
	setErr := func(err error) {
		mu.Lock()
		if cerr == nil {
			cerr = err
		}
		mu.Unlock()
	}
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		// dead is local: visit errors only ever happen here.
		dead := false
		for r := range results {
			if dead {
				continue
			}
			if cfg.OnResult != nil {
				cfg.OnResult(r)
			}
			if err := visit(r); err != nil {
				setErr(err)
				dead = true
				cancel()
			}
		}
	}()

	// Feed work: parse at the producer, batch by record count.
	failures := 0
feed:
	for _, path := range files {
		chunkIdx := 0
		var batch []fastq.RawGroup
		send := func() bool {
			if len(batch) == 0 {
				return true
			}
			j := job{
				source: common.ChunkSource(path, chunkIdx),
				groups: batch,
			}
			chunkIdx++
			batch = nil
			select {
			case jobs <- j:
				return true
			case <-ctx.Done():
				return false
			}
		}

		rc, err := fastq.Open(path)
		if err != nil {
			failures++
			if cfg.OnFailure != nil {
				cfg.OnFailure(err)
			}
			// Tolerated failures surface through OnFailure only; one
			// past MaxFailures aborts the run.
			if failures > cfg.MaxFailures {
				setErr(err)
				break feed
			}
			continue
		}
		scanErr := fastq.ScanGroups(ctx, rc, func(g fastq.RawGroup) error {
			batch = append(batch, g)
			if len(batch) >= cfg.ChunkReads {
				if !send() {
					return ctx.Err()
				}
			}
			return nil
		})
		_ = rc.Close()
		if scanErr != nil {
			if ctx.Err() != nil {
				break feed
			}
			// Whole-chunk commit: the partial batch is dropped, not folded.
			batch = nil
			failures++
			cioe := &process.ChunkIOError{Source: path, Err: scanErr}
			if cfg.OnFailure != nil {
				cfg.OnFailure(cioe)
			}
			if failures > cfg.MaxFailures {
				setErr(cioe)
				break feed
			}
			continue
		}
		if !send() {
			break feed
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if err := firstErr(); err != nil {
		return err
	}
	return ctx.Err()
}
