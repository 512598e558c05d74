// core/stats/running.go
package stats

import "math"

// Running is a bounded-memory scalar statistic: count, sum, sum of squares,
// min and max. Sum of squares is carried so standard deviation survives
// chunk merges exactly; means are never stored pre-divided.
type Running struct {
	Count uint64  `json:"count"`
	Sum   float64 `json:"sum"`
	SumSq float64 `json:"sum_sq"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Fold adds one observation in O(1).
func (r *Running) Fold(x float64) {
	if r.Count == 0 {
		r.Min, r.Max = x, x
	} else {
		if x < r.Min {
			r.Min = x
		}
		if x > r.Max {
			r.Max = x
		}
	}
	r.Count++
	r.Sum += x
	r.SumSq += x * x
}

// Mean returns Sum/Count, or 0 when no observations were folded.
// Count == 0 is a sentinel: the statistic is undefined, never divided.
func (r Running) Mean() float64 {
	if r.Count == 0 {
		return 0
	}
	return r.Sum / float64(r.Count)
}

// Std returns the population standard deviation derived from the carried
// sum of squares. Exact under merging, unlike a reservoir-based estimate.
func (r Running) Std() float64 {
	if r.Count == 0 {
		return 0
	}
	n := float64(r.Count)
	v := r.SumSq/n - (r.Sum/n)*(r.Sum/n)
	if v < 0 { // floating-point cancellation near zero variance
		v = 0
	}
	return math.Sqrt(v)
}

// Merge folds another Running into r. Commutative and associative: every
// field is a sum, min or max.
func (r *Running) Merge(o Running) {
	if o.Count == 0 {
		return
	}
	if r.Count == 0 {
		*r = o
		return
	}
	if o.Min < r.Min {
		r.Min = o.Min
	}
	if o.Max > r.Max {
		r.Max = o.Max
	}
	r.Count += o.Count
	r.Sum += o.Sum
	r.SumSq += o.SumSq
}
