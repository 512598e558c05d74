// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"seqqc/internal/cliutil"
	"seqqc/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Reads      []string
	ConfigFile string

	// Sampling / accumulation
	Stride       int
	SampleCap    int
	SampleScores int
	Positions    int

	// Performance
	Threads     int
	ChunkReads  int
	MaxFailures int

	// Output
	Output string
	Header bool // true unless --no-header
	Quiet  bool

	// Observability
	MetricsListen string
	Progress      bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: streaming FASTQ quality control

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Input
	var reads stringSlice
	fs.Var(&reads, "reads", "FASTQ file(s), gzipped or plain (repeatable or '-') [*]")
	fs.StringVar(&opt.ConfigFile, "config", "", "YAML or JSON config file with run defaults []")

	// Sampling / accumulation
	fs.IntVar(&opt.Stride, "stride", 0, "sample every Nth valid read into the reservoir (0 = default 100) [0]")
	fs.IntVar(&opt.SampleCap, "sample-cap", 0, "max sampled reads kept per chunk (0 = default 1000) [0]")
	fs.IntVar(&opt.SampleScores, "sample-scores", 0, "quality scores kept per sampled read (0 = default 10) [0]")
	fs.IntVar(&opt.Positions, "positions", 0, "leading read positions profiled (0 = default 100) [0]")

	// Performance
	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")
	fs.IntVar(&opt.ChunkReads, "chunk-reads", 0, "reads per processing chunk (0 = default 100000) [0]")
	fs.IntVar(&opt.MaxFailures, "max-failures", 0, "chunk failures tolerated before aborting the run [0]")

	// Output
	fs.StringVar(&opt.Output, "output", "text", "output format: text | json [text]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings on stderr [false]")

	// Observability
	fs.StringVar(&opt.MetricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9090) []")
	fs.BoolVar(&opt.Progress, "progress", false, "show a progress bar on stderr [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	pos, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return opt, err
	}
	opt.Reads = append([]string(nil), reads...)
	opt.Reads = append(opt.Reads, pos...)
	opt.Header = !noHeader

	// Validation
	if len(opt.Reads) == 0 {
		return opt, errors.New("at least one --reads file is required")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.ChunkReads < 0 {
		return opt, errors.New("--chunk-reads must be ≥ 0")
	}
	if opt.Stride < 0 {
		return opt, errors.New("--stride must be ≥ 0")
	}
	if opt.SampleCap < 0 {
		return opt, errors.New("--sample-cap must be ≥ 0")
	}
	if opt.SampleScores < 0 {
		return opt, errors.New("--sample-scores must be ≥ 0")
	}
	if opt.Positions < 0 {
		return opt, errors.New("--positions must be ≥ 0")
	}
	if opt.MaxFailures < 0 {
		return opt, errors.New("--max-failures must be ≥ 0")
	}
	if opt.Output != "text" && opt.Output != "json" {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
