// core/reduce/reduce.go
package reduce

import (
	"errors"

	"seqqc-core/stats"
)

// ErrEmptyInput means the reducer was handed zero chunk results. No
// meaningful statistics exist over zero chunks; this signals upstream
// misconfiguration.
var ErrEmptyInput = errors.New("reduce: no chunk results to merge")

// ChunkSummary is the per-chunk trend line retained in a CombinedResult.
type ChunkSummary struct {
	Source      string  `json:"source"`
	Reads       uint64  `json:"reads"`
	Discards    uint64  `json:"discards,omitempty"`
	MeanLength  float64 `json:"mean_length"`
	MeanGC      float64 `json:"mean_gc"`
	MeanQuality float64 `json:"mean_quality"`
}

// CombinedResult is the readout of one reduction. Immutable after Merge
// returns; the sole artifact handed to reporting.
type CombinedResult struct {
	ChunkCount int                   `json:"chunk_count"`
	Stats      stats.RunningStats    `json:"stats"`
	Positions  stats.PositionProfile `json:"positions"`
	Sample     stats.SampleReservoir `json:"sample"`
	Discards   stats.Discards        `json:"discards"`
	Chunks     []ChunkSummary        `json:"chunks"`
}

// Merge folds an unordered collection of ChunkResults into one
// CombinedResult. The merge is commutative and associative for the exact
// fields (counts, sums, sums of squares, min, max), so the outcome does not
// depend on worker scheduling or chunk granularity. The merged sample
// reservoir is only an approximation of a run-wide stride sample; it is
// re-capped by uniform thinning, not truncation, so every chunk stays
// represented.
func Merge(results []stats.ChunkResult) (CombinedResult, error) {
	if len(results) == 0 {
		return CombinedResult{}, ErrEmptyInput
	}

	var c CombinedResult
	c.ChunkCount = len(results)
	c.Chunks = make([]ChunkSummary, 0, len(results))

	for _, r := range results {
		c.Stats.Reads += r.Stats.Reads
		c.Stats.Bases += r.Stats.Bases
		c.Stats.Q20 += r.Stats.Q20
		c.Stats.Q30 += r.Stats.Q30
		c.Stats.ExpectedErrors += r.Stats.ExpectedErrors
		c.Stats.Length.Merge(r.Stats.Length)
		c.Stats.GC.Merge(r.Stats.GC)
		c.Stats.Quality.Merge(r.Stats.Quality)

		mergeProfile(&c.Positions, r.Positions)

		c.Sample.GC = append(c.Sample.GC, r.Sample.GC...)
		c.Sample.Quality = append(c.Sample.Quality, r.Sample.Quality...)
		if c.Sample.Stride == 0 || (r.Sample.Stride != 0 && r.Sample.Stride < c.Sample.Stride) {
			c.Sample.Stride = r.Sample.Stride
		}
		if r.Sample.Cap > c.Sample.Cap {
			c.Sample.Cap = r.Sample.Cap
		}

		c.Discards.Merge(r.Discards)

		c.Chunks = append(c.Chunks, ChunkSummary{
			Source:      r.Source,
			Reads:       r.Stats.Reads,
			Discards:    r.Discards.Total(),
			MeanLength:  r.Stats.Length.Mean(),
			MeanGC:      r.Stats.GC.Mean(),
			MeanQuality: r.Stats.Quality.Mean(),
		})
	}

	c.Sample.GC = thinFloats(c.Sample.GC, c.Sample.Cap)
	c.Sample.Quality = thinInts(c.Sample.Quality, c.Sample.Cap)
	return c, nil
}

// mergeProfile combines per-position stats index-wise, up to the shared
// bound K. K disagreements collapse to the smaller bound.
func mergeProfile(dst *stats.PositionProfile, src stats.PositionProfile) {
	if src.K == 0 && len(src.Positions) == 0 {
		return
	}
	if dst.K == 0 {
		dst.K = src.K
	} else if src.K != 0 && src.K < dst.K {
		dst.K = src.K
	}
	for len(dst.Positions) < len(src.Positions) && len(dst.Positions) < dst.K {
		dst.Positions = append(dst.Positions, stats.PositionCounts{})
	}
	if len(dst.Positions) > dst.K {
		dst.Positions = dst.Positions[:dst.K]
	}
	n := len(src.Positions)
	if n > len(dst.Positions) {
		n = len(dst.Positions)
	}
	for i := 0; i < n; i++ {
		d := &dst.Positions[i]
		s := src.Positions[i]
		d.Quality.Merge(s.Quality)
		d.A += s.A
		d.C += s.C
		d.G += s.G
		d.T += s.T
		d.N += s.N
	}
}

// thinFloats re-caps a concatenated sample by keeping cap evenly spaced
// entries. Preserves order; every input region contributes.
func thinFloats(in []float64, limit int) []float64 {
	if limit <= 0 || len(in) <= limit {
		return in
	}
	out := make([]float64, limit)
	for i := 0; i < limit; i++ {
		out[i] = in[i*len(in)/limit]
	}
	return out
}

func thinInts(in []int, limit int) []int {
	if limit <= 0 || len(in) <= limit {
		return in
	}
	out := make([]int, limit)
	for i := 0; i < limit; i++ {
		out[i] = in[i*len(in)/limit]
	}
	return out
}

// AsChunk converts a CombinedResult back into a ChunkResult-shaped input so
// reductions compose: file-level results merge into run-level results with
// the same Merge. Counts and sums of squares are preserved exactly;
// per-chunk summaries are not carried through the conversion.
func (c CombinedResult) AsChunk(source string) stats.ChunkResult {
	return stats.ChunkResult{
		Source:    source,
		Stats:     c.Stats,
		Positions: c.Positions,
		Sample:    c.Sample,
		Discards:  c.Discards,
	}
}
