// core/stats/accumulator.go
package stats

import (
	"seqqc-core/fastq"
	"seqqc-core/quality"
)

// Config bounds the Accumulator's memory. Zero values select defaults.
type Config struct {
	Stride       int // sample every Nth validated record [100]
	SampleCap    int // hard cap on reservoir entries [1000]
	SampleScores int // quality scores retained per sampled read [10]
	Positions    int // K: positions profiled from the 5' end [100]
}

// Defaults mirror the batch sizes the QC scripts settled on.
const (
	DefaultStride       = 100
	DefaultSampleCap    = 1000
	DefaultSampleScores = 10
	DefaultPositions    = 100
)

func (c Config) withDefaults() Config {
	if c.Stride <= 0 {
		c.Stride = DefaultStride
	}
	if c.SampleCap <= 0 {
		c.SampleCap = DefaultSampleCap
	}
	if c.SampleScores <= 0 {
		c.SampleScores = DefaultSampleScores
	}
	if c.Positions <= 0 {
		c.Positions = DefaultPositions
	}
	return c
}

// Observation is one validated record converted to numbers. It is folded
// into exactly one Accumulator and then discarded; nothing here is retained.
type Observation struct {
	Sequence  string
	Length    int
	GCPercent float64 // in [0,100]
	Scores    []int   // one per base, each in [0,93]
}

// RunningStats is the bounded-memory aggregate over one record stream.
type RunningStats struct {
	Reads   uint64  `json:"reads"`   // validated records folded
	Bases   uint64  `json:"bases"`   // total bases across validated records
	Length  Running `json:"length"`  // per-read length
	GC      Running `json:"gc"`      // per-read GC percent
	Quality Running `json:"quality"` // per-base Phred score

	Q20            uint64  `json:"q20_bases"` // bases with score >= 20
	Q30            uint64  `json:"q30_bases"` // bases with score >= 30
	ExpectedErrors float64 `json:"expected_errors"`
}

// PositionCounts aggregates one read position across a stream.
type PositionCounts struct {
	Quality Running `json:"quality"`
	A       uint64  `json:"a"`
	C       uint64  `json:"c"`
	G       uint64  `json:"g"`
	T       uint64  `json:"t"`
	N       uint64  `json:"n"`
}

// PositionProfile is a fixed-size table indexed by read position, bounded by
// K so memory stays flat no matter how long reads get. A bounded table, not
// a map keyed by arbitrary integers.
type PositionProfile struct {
	K         int              `json:"k"`
	Positions []PositionCounts `json:"positions"`
}

// SampleReservoir retains a bounded subset of observations via fixed-stride
// sampling: every Stride-th validated record, up to Cap entries, after which
// sampling stops. Deterministic, not a uniform random reservoir; downstream
// consumers treat it as an approximation of the distribution, nothing more.
type SampleReservoir struct {
	Stride  int       `json:"stride"`
	Cap     int       `json:"cap"`
	GC      []float64 `json:"gc"`      // sampled per-read GC percentages
	Quality []int     `json:"quality"` // sampled leading-position scores
}

// Discards counts structurally rejected records by reason. Rejections are
// silent statistics, never errors.
type Discards struct {
	Header         uint64 `json:"invalid_header,omitempty"`
	Separator      uint64 `json:"invalid_separator,omitempty"`
	Bases          uint64 `json:"invalid_bases,omitempty"`
	LengthMismatch uint64 `json:"length_mismatch,omitempty"`
	Quality        uint64 `json:"invalid_quality,omitempty"`
}

// Add counts one rejection.
func (d *Discards) Add(r fastq.RejectReason) {
	switch r {
	case fastq.RejectHeader:
		d.Header++
	case fastq.RejectSeparator:
		d.Separator++
	case fastq.RejectBases:
		d.Bases++
	case fastq.RejectLengthMismatch:
		d.LengthMismatch++
	case fastq.RejectQuality:
		d.Quality++
	}
}

// Merge sums another Discards into d.
func (d *Discards) Merge(o Discards) {
	d.Header += o.Header
	d.Separator += o.Separator
	d.Bases += o.Bases
	d.LengthMismatch += o.LengthMismatch
	d.Quality += o.Quality
}

// Total is the overall discard count.
func (d Discards) Total() uint64 {
	return d.Header + d.Separator + d.Bases + d.LengthMismatch + d.Quality
}

// ChunkResult is the immutable readout of one Accumulator. Once produced it
// is owned by the reducer; the Accumulator keeps no reference into it.
type ChunkResult struct {
	Source    string          `json:"source"`
	Stats     RunningStats    `json:"stats"`
	Positions PositionProfile `json:"positions"`
	Sample    SampleReservoir `json:"sample"`
	Discards  Discards        `json:"discards"`
}

// Accumulator maintains bounded-memory running statistics for one chunk.
// Not safe for concurrent use; each worker owns exactly one.
type Accumulator struct {
	cfg      Config
	source   string
	stats    RunningStats
	profile  []PositionCounts
	maxPos   int // highest position index observed (exclusive), <= K
	sample   SampleReservoir
	discards Discards
}

// New returns an Accumulator for one chunk of input identified by source.
func New(source string, cfg Config) *Accumulator {
	cfg = cfg.withDefaults()
	return &Accumulator{
		cfg:     cfg,
		source:  source,
		profile: make([]PositionCounts, cfg.Positions),
		sample:  SampleReservoir{Stride: cfg.Stride, Cap: cfg.SampleCap},
	}
}

// Fold updates every statistic with one observation. O(1) for the scalar
// stats, O(min(length, K)) for the position profile, amortized O(1) for the
// reservoir. GC percent arrives precomputed per record; the Accumulator
// never recomputes it from retained sequence data.
func (a *Accumulator) Fold(obs Observation) {
	// Stride check uses the pre-increment count so the first record of every
	// chunk is sampled, matching the merge policy in reduce.
	sampled := a.stats.Reads%uint64(a.cfg.Stride) == 0 && len(a.sample.GC) < a.cfg.SampleCap

	a.stats.Reads++
	a.stats.Bases += uint64(obs.Length)
	a.stats.Length.Fold(float64(obs.Length))
	a.stats.GC.Fold(obs.GCPercent)

	for i, q := range obs.Scores {
		a.stats.Quality.Fold(float64(q))
		if q >= 20 {
			a.stats.Q20++
		}
		if q >= 30 {
			a.stats.Q30++
		}
		a.stats.ExpectedErrors += quality.ScoreErrorProb(q)

		if i < a.cfg.Positions {
			pc := &a.profile[i]
			pc.Quality.Fold(float64(q))
			switch obs.Sequence[i] {
			case 'A', 'a':
				pc.A++
			case 'C', 'c':
				pc.C++
			case 'G', 'g':
				pc.G++
			case 'T', 't':
				pc.T++
			default:
				pc.N++
			}
			if i >= a.maxPos {
				a.maxPos = i + 1
			}
		}
	}

	if sampled {
		a.sample.GC = append(a.sample.GC, obs.GCPercent)
		n := a.cfg.SampleScores
		if n > len(obs.Scores) {
			n = len(obs.Scores)
		}
		a.sample.Quality = append(a.sample.Quality, obs.Scores[:n]...)
	}
}

// Reject counts one structural rejection without folding anything.
func (a *Accumulator) Reject(r fastq.RejectReason) { a.discards.Add(r) }

// Snapshot returns an immutable ChunkResult reflecting all folds so far.
// It does not reset state; callers take it exactly once, at chunk end.
func (a *Accumulator) Snapshot() ChunkResult {
	positions := make([]PositionCounts, a.maxPos)
	copy(positions, a.profile[:a.maxPos])
	return ChunkResult{
		Source: a.source,
		Stats:  a.stats,
		Positions: PositionProfile{
			K:         a.cfg.Positions,
			Positions: positions,
		},
		Sample: SampleReservoir{
			Stride:  a.sample.Stride,
			Cap:     a.sample.Cap,
			GC:      append([]float64(nil), a.sample.GC...),
			Quality: append([]int(nil), a.sample.Quality...),
		},
		Discards: a.discards,
	}
}
