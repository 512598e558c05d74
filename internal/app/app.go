// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"seqqc-core/stats"
	"seqqc/internal/appcore"
	"seqqc/internal/cli"
	"seqqc/internal/cmdutil"
	"seqqc/internal/common"
	"seqqc/internal/metrics"
	"seqqc/internal/qcconfig"
	"seqqc/internal/version"
	"seqqc/internal/writers"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("seqqc")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			if e := outw.Flush(); writers.IsBrokenPipe(e) {
				return 0
			} else if e != nil {
				_, _ = fmt.Fprintln(stderr, e)
				return 3
			}
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqqc version %s\n", version.Version)
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return 0
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return 3
		}
		return 0
	}

	var cfg qcconfig.File
	if opts.ConfigFile != "" {
		if err := qcconfig.Load(opts.ConfigFile, &cfg); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	}
	// Flags override the config file; zero keeps file or built-in values.
	merged := mergeOptions(opts, cfg)

	var m *metrics.Metrics
	if opts.MetricsListen != "" {
		m = metrics.New()
		errc := m.Serve(opts.MetricsListen)
		go func() {
			if serr := <-errc; serr != nil {
				cmdutil.Warnf(stderr, opts.Quiet, "metrics listener: %v", serr)
			}
		}()
	}

	code := appcore.Run(parent, outw, stderr, appcore.Options{
		Files:           common.UniquePaths(opts.Reads),
		Stats:           merged.stats,
		Threads:         merged.threads,
		ChunkReads:      merged.chunkReads,
		MaxFailures:     merged.maxFailures,
		Output:          opts.Output,
		Header:          opts.Header,
		Quiet:           opts.Quiet,
		Progress:        opts.Progress,
		Metrics:         m,
		NoReadsExitCode: 1,
	})

	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return code
}

type mergedOptions struct {
	stats       stats.Config
	threads     int
	chunkReads  int
	maxFailures int
}

// mergeOptions resolves precedence flag > config file > built-in default.
// Zero means unset at both levels; the defaults live further down, in
// stats.Config and runutil.
func mergeOptions(opts cli.Options, cfg qcconfig.File) mergedOptions {
	pick := func(flagVal, fileVal int) int {
		if flagVal != 0 {
			return flagVal
		}
		return fileVal
	}
	sc := cfg.StatsConfig()
	sc.Stride = pick(opts.Stride, sc.Stride)
	sc.SampleCap = pick(opts.SampleCap, sc.SampleCap)
	sc.SampleScores = pick(opts.SampleScores, sc.SampleScores)
	sc.Positions = pick(opts.Positions, sc.Positions)
	return mergedOptions{
		stats:       sc,
		threads:     pick(opts.Threads, cfg.Threads),
		chunkReads:  pick(opts.ChunkReads, cfg.ChunkReads),
		maxFailures: pick(opts.MaxFailures, cfg.MaxFailures),
	}
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
