// internal/output/api_conv.go
package output

import (
	"time"

	"github.com/google/uuid"

	"seqqc-core/reduce"
	"seqqc-core/stats"
	"seqqc/internal/common"
	"seqqc/internal/version"
	"seqqc/pkg/api"
)

func toScalar(r stats.Running) api.ScalarStatsV1 {
	return api.ScalarStatsV1{
		Count: r.Count,
		Mean:  r.Mean(),
		Std:   r.Std(),
		Min:   r.Min,
		Max:   r.Max,
		Sum:   r.Sum,
		SumSq: r.SumSq,
	}
}

func fromScalar(s api.ScalarStatsV1) stats.Running {
	return stats.Running{Count: s.Count, Sum: s.Sum, SumSq: s.SumSq, Min: s.Min, Max: s.Max}
}

// ToAPI converts a domain CombinedResult to the stable wire schema (v1),
// stamping it with a fresh run ID and generation time.
func ToAPI(c reduce.CombinedResult) *api.CombinedReportV1 {
	rep := &api.CombinedReportV1{
		SchemaVersion: api.SchemaVersion,
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Tool:          "seqqc",
		ToolVersion:   version.Version,

		ChunkCount: c.ChunkCount,
		TotalReads: c.Stats.Reads,
		TotalBases: c.Stats.Bases,

		Length:  toScalar(c.Stats.Length),
		GC:      toScalar(c.Stats.GC),
		Quality: toScalar(c.Stats.Quality),

		Q20Bases:       c.Stats.Q20,
		Q30Bases:       c.Stats.Q30,
		ExpectedErrors: c.Stats.ExpectedErrors,

		PositionsK: c.Positions.K,
		Sample: api.ReservoirV1{
			Stride:  c.Sample.Stride,
			Cap:     c.Sample.Cap,
			GC:      c.Sample.GC,
			Quality: c.Sample.Quality,
		},
		Discards: api.DiscardsV1{
			InvalidHeader:    c.Discards.Header,
			InvalidSeparator: c.Discards.Separator,
			InvalidBases:     c.Discards.Bases,
			LengthMismatch:   c.Discards.LengthMismatch,
			InvalidQuality:   c.Discards.Quality,
			Total:            c.Discards.Total(),
		},
	}
	for i, p := range c.Positions.Positions {
		rep.Positions = append(rep.Positions, api.PositionV1{
			Index:        i,
			Count:        p.Quality.Count,
			MeanQuality:  p.Quality.Mean(),
			QualitySum:   p.Quality.Sum,
			QualitySqSum: p.Quality.SumSq,
			MinQuality:   p.Quality.Min,
			MaxQuality:   p.Quality.Max,
			A:            p.A,
			C:            p.C,
			G:            p.G,
			T:            p.T,
			N:            p.N,
		})
	}
	chunks := append([]reduce.ChunkSummary(nil), c.Chunks...)
	common.SortChunks(chunks)
	for _, ch := range chunks {
		rep.Chunks = append(rep.Chunks, api.ChunkSummaryV1{
			Source:      ch.Source,
			Reads:       ch.Reads,
			Discards:    ch.Discards,
			MeanLength:  ch.MeanLength,
			MeanGC:      ch.MeanGC,
			MeanQuality: ch.MeanQuality,
		})
	}
	return rep
}

// FromAPI converts a saved v1 report back into a ChunkResult-shaped input so
// reports compose: seqqc-merge feeds these into the same reducer that built
// them. Counts and sums of squares round-trip exactly.
func FromAPI(rep *api.CombinedReportV1, source string) stats.ChunkResult {
	cr := stats.ChunkResult{
		Source: source,
		Stats: stats.RunningStats{
			Reads:          rep.TotalReads,
			Bases:          rep.TotalBases,
			Length:         fromScalar(rep.Length),
			GC:             fromScalar(rep.GC),
			Quality:        fromScalar(rep.Quality),
			Q20:            rep.Q20Bases,
			Q30:            rep.Q30Bases,
			ExpectedErrors: rep.ExpectedErrors,
		},
		Positions: stats.PositionProfile{K: rep.PositionsK},
		Sample: stats.SampleReservoir{
			Stride:  rep.Sample.Stride,
			Cap:     rep.Sample.Cap,
			GC:      rep.Sample.GC,
			Quality: rep.Sample.Quality,
		},
		Discards: stats.Discards{
			Header:         rep.Discards.InvalidHeader,
			Separator:      rep.Discards.InvalidSeparator,
			Bases:          rep.Discards.InvalidBases,
			LengthMismatch: rep.Discards.LengthMismatch,
			Quality:        rep.Discards.InvalidQuality,
		},
	}
	for _, p := range rep.Positions {
		cr.Positions.Positions = append(cr.Positions.Positions, stats.PositionCounts{
			Quality: stats.Running{
				Count: p.Count,
				Sum:   p.QualitySum,
				SumSq: p.QualitySqSum,
				Min:   p.MinQuality,
				Max:   p.MaxQuality,
			},
			A: p.A, C: p.C, G: p.G, T: p.T, N: p.N,
		})
	}
	return cr
}
