package stats

import (
	"math"
	"testing"
)

func TestRunningFold(t *testing.T) {
	var r Running
	for _, x := range []float64{4, 2, 6} {
		r.Fold(x)
	}
	if r.Count != 3 || r.Min != 2 || r.Max != 6 {
		t.Fatalf("count/min/max = %d/%v/%v", r.Count, r.Min, r.Max)
	}
	if r.Mean() != 4 {
		t.Fatalf("mean = %v, want 4", r.Mean())
	}
	// population std of {4,2,6} = sqrt(8/3)
	if math.Abs(r.Std()-math.Sqrt(8.0/3.0)) > 1e-9 {
		t.Fatalf("std = %v", r.Std())
	}
}

func TestRunningZeroCountSentinel(t *testing.T) {
	var r Running
	if r.Mean() != 0 || r.Std() != 0 {
		t.Fatal("empty Running must not divide")
	}
}

func TestRunningMergeMatchesSingleStream(t *testing.T) {
	xs := []float64{1, 5, 2, 9, 3, 3, 7, 0.5}
	var whole Running
	for _, x := range xs {
		whole.Fold(x)
	}
	var a, b Running
	for _, x := range xs[:3] {
		a.Fold(x)
	}
	for _, x := range xs[3:] {
		b.Fold(x)
	}
	a.Merge(b)
	if a.Count != whole.Count || a.Min != whole.Min || a.Max != whole.Max {
		t.Fatalf("merge count/min/max diverged: %+v vs %+v", a, whole)
	}
	if math.Abs(a.Mean()-whole.Mean()) > 1e-12 || math.Abs(a.Std()-whole.Std()) > 1e-12 {
		t.Fatalf("merge mean/std diverged: %v/%v vs %v/%v", a.Mean(), a.Std(), whole.Mean(), whole.Std())
	}
}

func TestRunningMergeEmptySides(t *testing.T) {
	var a, b Running
	b.Fold(3)
	a.Merge(b)
	if a.Count != 1 || a.Min != 3 || a.Max != 3 {
		t.Fatalf("merge into empty: %+v", a)
	}
	b.Merge(Running{})
	if b.Count != 1 {
		t.Fatalf("merge of empty must be identity: %+v", b)
	}
}
