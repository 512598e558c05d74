// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"seqqc/internal/writers"
	"seqqc/pkg/api"
)

func init() {
	writers.RegisterReport("text", WriteText)
}

// WriteText prints a human-readable QC summary: totals, the three stat
// blocks, the discard breakdown, the head of the per-position table, and a
// per-chunk trend section.
func WriteText(w io.Writer, rep *api.CombinedReportV1, header bool) error {
	if header {
		if _, err := fmt.Fprintf(w, "# seqqc %s report %s (%s)\n", rep.ToolVersion, rep.RunID, rep.GeneratedAt); err != nil {
			return err
		}
	}
	pct := func(n uint64) float64 {
		if rep.TotalBases == 0 {
			return 0
		}
		return float64(n) / float64(rep.TotalBases) * 100
	}
	_, err := fmt.Fprintf(w,
		"chunks\t%d\nreads\t%d\nbases\t%d\ndiscarded\t%d\n"+
			"length\tmin=%.0f max=%.0f mean=%.2f std=%.2f\n"+
			"gc%%\tmin=%.2f max=%.2f mean=%.2f std=%.2f\n"+
			"quality\tmin=%.0f max=%.0f mean=%.2f std=%.2f\n"+
			"q20\t%.2f%%\nq30\t%.2f%%\nexpected_errors\t%.4f\n",
		rep.ChunkCount, rep.TotalReads, rep.TotalBases, rep.Discards.Total,
		rep.Length.Min, rep.Length.Max, rep.Length.Mean, rep.Length.Std,
		rep.GC.Min, rep.GC.Max, rep.GC.Mean, rep.GC.Std,
		rep.Quality.Min, rep.Quality.Max, rep.Quality.Mean, rep.Quality.Std,
		pct(rep.Q20Bases), pct(rep.Q30Bases), rep.ExpectedErrors,
	)
	if err != nil {
		return err
	}

	if d := rep.Discards; d.Total > 0 {
		_, err = fmt.Fprintf(w,
			"discards\theader=%d separator=%d bases=%d length_mismatch=%d quality=%d\n",
			d.InvalidHeader, d.InvalidSeparator, d.InvalidBases, d.LengthMismatch, d.InvalidQuality)
		if err != nil {
			return err
		}
	}

	if len(rep.Positions) > 0 {
		if _, err = fmt.Fprintln(w, "pos\tmean_q\tA\tC\tG\tT\tN"); err != nil {
			return err
		}
		// First positions carry the adapter/primer signal; the full table
		// lives in the JSON report.
		n := len(rep.Positions)
		if n > 25 {
			n = 25
		}
		for _, p := range rep.Positions[:n] {
			_, err = fmt.Fprintf(w, "%d\t%.2f\t%d\t%d\t%d\t%d\t%d\n",
				p.Index, p.MeanQuality, p.A, p.C, p.G, p.T, p.N)
			if err != nil {
				return err
			}
		}
	}

	if len(rep.Chunks) > 1 {
		if _, err = fmt.Fprintln(w, "chunk\treads\tdiscards\tmean_len\tmean_gc\tmean_q"); err != nil {
			return err
		}
		for _, c := range rep.Chunks {
			_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
				c.Source, c.Reads, c.Discards, c.MeanLength, c.MeanGC, c.MeanQuality)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
