package reduce

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"seqqc-core/process"
	"seqqc-core/stats"
)

func TestMergeEmptyInput(t *testing.T) {
	if _, err := Merge(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestMergeSingleChunkIdentity(t *testing.T) {
	in := "@r1\nACGT\n+\nIIII\n@r2\nGG\n+\n55\n"
	cr, err := process.Process(context.Background(), "c1", strings.NewReader(in), stats.Config{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	c, err := Merge([]stats.ChunkResult{cr})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if c.ChunkCount != 1 {
		t.Fatalf("chunk count = %d", c.ChunkCount)
	}
	if c.Stats != cr.Stats {
		t.Fatalf("single-chunk reduction must be identity:\n%+v\n%+v", c.Stats, cr.Stats)
	}
	if len(c.Chunks) != 1 || c.Chunks[0].Source != "c1" {
		t.Fatalf("chunk summaries: %+v", c.Chunks)
	}
}

func TestMergeWeightedMeans(t *testing.T) {
	// (count=2, meanGC=40) + (count=3, meanGC=60) → count=5, meanGC=52.
	a := stats.ChunkResult{Source: "a"}
	a.Stats.Reads = 2
	a.Stats.GC = stats.Running{Count: 2, Sum: 80, SumSq: 3200, Min: 40, Max: 40}
	b := stats.ChunkResult{Source: "b"}
	b.Stats.Reads = 3
	b.Stats.GC = stats.Running{Count: 3, Sum: 180, SumSq: 10800, Min: 60, Max: 60}

	c, err := Merge([]stats.ChunkResult{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if c.Stats.Reads != 5 {
		t.Fatalf("reads = %d, want 5", c.Stats.Reads)
	}
	if got := c.Stats.GC.Mean(); math.Abs(got-52) > 1e-9 {
		t.Fatalf("combined meanGC = %v, want 52", got)
	}
	if c.Stats.GC.Min != 40 || c.Stats.GC.Max != 60 {
		t.Fatalf("GC min/max = %v/%v", c.Stats.GC.Min, c.Stats.GC.Max)
	}
}

// chunkAt processes a slice of the record stream as its own chunk.
func chunkAt(t *testing.T, source, in string) stats.ChunkResult {
	t.Helper()
	cr, err := process.Process(context.Background(), source, strings.NewReader(in), stats.Config{Stride: 1, SampleCap: 100})
	if err != nil {
		t.Fatalf("process %s: %v", source, err)
	}
	return cr
}

func TestMergeOrderAndPartitionInvariant(t *testing.T) {
	recs := []string{
		"@a\nACGT\n+\nIIII\n",
		"@b\nGGGGG\n+\n#####\n",
		"@c\nATAT\n+\n5555\n",
		"@d\nCCG\n+\nJJJ\n",
		"@e\nNNNN\n+\n!!!!\n",
	}
	whole := chunkAt(t, "w", strings.Join(recs, ""))

	partitions := [][]string{
		{recs[0] + recs[1], recs[2] + recs[3] + recs[4]},
		{recs[0], recs[1], recs[2], recs[3], recs[4]},
		{recs[0] + recs[1] + recs[2] + recs[3], recs[4]},
	}
	for pi, parts := range partitions {
		var chunks []stats.ChunkResult
		for _, p := range parts {
			chunks = append(chunks, chunkAt(t, "p", p))
		}
		// forward order
		fwd, err := Merge(chunks)
		if err != nil {
			t.Fatalf("merge fwd: %v", err)
		}
		// reversed order
		rev := make([]stats.ChunkResult, len(chunks))
		for i := range chunks {
			rev[i] = chunks[len(chunks)-1-i]
		}
		bwd, err := Merge(rev)
		if err != nil {
			t.Fatalf("merge bwd: %v", err)
		}

		for name, got := range map[string]stats.RunningStats{"fwd": fwd.Stats, "bwd": bwd.Stats} {
			if got.Reads != whole.Stats.Reads || got.Bases != whole.Stats.Bases {
				t.Fatalf("partition %d %s: counts diverged", pi, name)
			}
			if got.Length.Min != whole.Stats.Length.Min || got.Length.Max != whole.Stats.Length.Max ||
				got.Quality.Min != whole.Stats.Quality.Min || got.Quality.Max != whole.Stats.Quality.Max {
				t.Fatalf("partition %d %s: min/max diverged", pi, name)
			}
			for _, d := range []float64{
				got.Length.Mean() - whole.Stats.Length.Mean(),
				got.GC.Mean() - whole.Stats.GC.Mean(),
				got.Quality.Mean() - whole.Stats.Quality.Mean(),
				got.GC.Std() - whole.Stats.GC.Std(),
			} {
				if math.Abs(d) > 1e-9 {
					t.Fatalf("partition %d %s: mean/std diverged by %v", pi, name, d)
				}
			}
		}
	}
}

func TestMergeProfilePerPosition(t *testing.T) {
	a := chunkAt(t, "a", "@a\nAA\n+\nII\n")
	b := chunkAt(t, "b", "@b\nCCC\n+\n555\n")
	c, err := Merge([]stats.ChunkResult{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(c.Positions.Positions) != 3 {
		t.Fatalf("profiled %d positions", len(c.Positions.Positions))
	}
	p0 := c.Positions.Positions[0]
	if p0.A != 1 || p0.C != 1 || p0.Quality.Count != 2 {
		t.Fatalf("position 0: %+v", p0)
	}
	// weighted per-position mean: (40+20)/2
	if got := p0.Quality.Mean(); math.Abs(got-30) > 1e-9 {
		t.Fatalf("position 0 mean = %v", got)
	}
	p2 := c.Positions.Positions[2]
	if p2.C != 1 || p2.Quality.Count != 1 {
		t.Fatalf("position 2: %+v", p2)
	}
}

func TestMergeReservoirThinning(t *testing.T) {
	mk := func(n int, v float64) stats.ChunkResult {
		var r stats.ChunkResult
		r.Sample.Stride = 1
		r.Sample.Cap = 10
		for i := 0; i < n; i++ {
			r.Sample.GC = append(r.Sample.GC, v)
		}
		return r
	}
	c, err := Merge([]stats.ChunkResult{mk(10, 1), mk(10, 2)})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(c.Sample.GC) != 10 {
		t.Fatalf("re-capped to %d, want 10", len(c.Sample.GC))
	}
	// Thinning, not truncation: both chunks must survive the re-cap.
	var ones, twos int
	for _, v := range c.Sample.GC {
		switch v {
		case 1:
			ones++
		case 2:
			twos++
		}
	}
	if ones == 0 || twos == 0 {
		t.Fatalf("thinning lost a chunk: ones=%d twos=%d", ones, twos)
	}
}

func TestCombinedResultRemerges(t *testing.T) {
	a := chunkAt(t, "a", "@a\nACGT\n+\nIIII\n")
	b := chunkAt(t, "b", "@b\nGG\n+\n55\n")
	c := chunkAt(t, "c", "@c\nAT\n+\n##\n")

	flat, err := Merge([]stats.ChunkResult{a, b, c})
	if err != nil {
		t.Fatalf("flat merge: %v", err)
	}

	inner, err := Merge([]stats.ChunkResult{a, b})
	if err != nil {
		t.Fatalf("inner merge: %v", err)
	}
	nested, err := Merge([]stats.ChunkResult{inner.AsChunk("ab"), c})
	if err != nil {
		t.Fatalf("nested merge: %v", err)
	}

	if flat.Stats != nested.Stats {
		t.Fatalf("two-level reduction diverged:\n%+v\n%+v", flat.Stats, nested.Stats)
	}
}
