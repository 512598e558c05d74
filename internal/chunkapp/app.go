// internal/chunkapp/app.go
package chunkapp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"seqqc/internal/chunker"
	"seqqc/internal/cli"
	"seqqc/internal/jsonlutil"
	"seqqc/internal/runutil"
	"seqqc/internal/version"
	"seqqc/internal/writers"
)

// Options holds the chunk tool's flags.
type Options struct {
	Input      string
	OutDir     string
	Prefix     string
	Manifest   string
	ChunkReads int
	Gzip       bool
	Quiet      bool
	Version    bool
}

// ParseArgs parses the chunk tool's flag surface. The input file is
// positional or '-' for stdin.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.OutDir, "out-dir", ".", "directory chunk files are written into [.]")
	fs.StringVar(&opt.Prefix, "prefix", "", "chunk file name prefix (default: input base name) []")
	fs.StringVar(&opt.Manifest, "manifest", "", "write a JSONL manifest of chunk files to this path []")
	fs.IntVar(&opt.ChunkReads, "chunk-reads", 0, "reads per chunk file (0 = default 100000) [0]")
	fs.BoolVar(&opt.Gzip, "gzip", false, "gzip-compress chunk files [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress per-chunk lines on stderr [false]")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	args := fs.Args()
	if len(args) != 1 {
		return opt, errors.New("exactly one input FASTQ file (or '-') is required")
	}
	opt.Input = args[0]
	if opt.ChunkReads < 0 {
		return opt, errors.New("--chunk-reads must be ≥ 0")
	}
	if opt.ChunkReads == 0 {
		opt.ChunkReads = runutil.DefaultChunkReads
	}
	return opt, nil
}

// RunContext splits the input into chunk files and prints one line per
// written chunk on stdout, so shells can drive per-chunk jobs from it.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("seqqc-chunk")
	fs.SetOutput(io.Discard)

	opts, err := ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqqc-chunk version %s\n", version.Version)
		return 0
	}

	var manifestIn chan<- chunker.Chunk
	var manifestDone <-chan error
	if opts.Manifest != "" {
		mf, err := os.Create(opts.Manifest)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		defer mf.Close()
		manifestIn, manifestDone = jsonlutil.Start(mf, 16,
			func(enc *json.Encoder, c chunker.Chunk) error { return enc.Encode(c) },
			writers.IsBrokenPipe)
	}

	chunks, err := chunker.Split(parent, opts.Input, chunker.Config{
		ChunkReads: opts.ChunkReads,
		OutDir:     opts.OutDir,
		Prefix:     opts.Prefix,
		Gzip:       opts.Gzip,
		OnChunk: func(path string, reads int) {
			if !opts.Quiet {
				_, _ = fmt.Fprintf(stderr, "wrote %s (%d reads)\n", path, reads)
			}
			if manifestIn != nil {
				manifestIn <- chunker.Chunk{Path: path, Reads: reads}
			}
		},
	})
	if manifestIn != nil {
		close(manifestIn)
		if merr := <-manifestDone; merr != nil {
			_, _ = fmt.Fprintln(stderr, merr)
			return 3
		}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	var total int
	for _, c := range chunks {
		total += c.Reads
		_, _ = fmt.Fprintln(outw, c.Path)
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	if total == 0 {
		_, _ = fmt.Fprintln(stderr, "warning: input held no complete records")
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
