// internal/mergeapp/app.go
package mergeapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"seqqc-core/reduce"
	"seqqc-core/stats"
	"seqqc/internal/appcore"
	"seqqc/internal/cli"
	"seqqc/internal/jsonutil"
	"seqqc/internal/output"
	"seqqc/internal/version"
	"seqqc/internal/writers"
	"seqqc/pkg/api"
)

// Options holds the merge tool's flags.
type Options struct {
	Reports []string
	Output  string
	Header  bool
	Version bool
}

// ParseArgs parses the merge tool's flag surface. Report files are
// positional.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	noHeader := false

	fs.StringVar(&opt.Output, "output", "text", "output format: text | json [text]")
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")
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
	opt.Reports = fs.Args()
	opt.Header = !noHeader

	if len(opt.Reports) == 0 {
		return opt, errors.New("at least one report file is required")
	}
	if opt.Output != "text" && opt.Output != "json" {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

// RunContext merges previously written JSON reports into one combined
// report. Each input report is treated as a single chunk, so merging a
// merged report with fresh ones stays exact.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("seqqc-merge")
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
		_, _ = fmt.Fprintf(outw, "seqqc-merge version %s\n", version.Version)
		return 0
	}

	chunks := make([]stats.ChunkResult, 0, len(opts.Reports))
	for _, path := range opts.Reports {
		if parent.Err() != nil {
			return 130
		}
		var rep api.CombinedReportV1
		if err := jsonutil.DecodeFile(path, &rep); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: read report %s: %v\n", path, err)
			return 2
		}
		if rep.SchemaVersion != api.SchemaVersion {
			_, _ = fmt.Fprintf(stderr, "error: %s: unsupported schema %q\n", path, rep.SchemaVersion)
			return 2
		}
		chunks = append(chunks, output.FromAPI(&rep, path))
	}

	combined, err := reduce.Merge(chunks)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if err := appcore.WriteMerged(outw, combined, opts.Output, opts.Header); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
