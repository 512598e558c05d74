// pkg/api/report_v1.go
package api

// Stable JSON schemas for QC results. Keep fields, names, and types stable;
// add new fields only with ",omitempty". Raw sums and sums of squares are
// part of the contract: they are what makes a saved report a valid input to
// a higher-level reduction.

// ScalarStatsV1 carries one running statistic in mergeable form.
type ScalarStatsV1 struct {
	Count uint64  `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
	SumSq float64 `json:"sum_sq"`
}

// PositionV1 is one read position of the per-position profile.
type PositionV1 struct {
	Index        int     `json:"index"`
	Count        uint64  `json:"count"`
	MeanQuality  float64 `json:"mean_quality"`
	QualitySum   float64 `json:"quality_sum"`
	QualitySqSum float64 `json:"quality_sq_sum"`
	MinQuality   float64 `json:"min_quality"`
	MaxQuality   float64 `json:"max_quality"`
	A            uint64  `json:"a"`
	C            uint64  `json:"c"`
	G            uint64  `json:"g"`
	T            uint64  `json:"t"`
	N            uint64  `json:"n"`
}

// ReservoirV1 is the retained stride sample. Documented approximation: the
// sample is deterministic stride sampling re-capped by thinning, not a
// uniform random reservoir.
type ReservoirV1 struct {
	Stride  int       `json:"stride"`
	Cap     int       `json:"cap"`
	GC      []float64 `json:"gc,omitempty"`
	Quality []int     `json:"quality,omitempty"`
}

// DiscardsV1 counts structurally rejected records by reason.
type DiscardsV1 struct {
	InvalidHeader    uint64 `json:"invalid_header,omitempty"`
	InvalidSeparator uint64 `json:"invalid_separator,omitempty"`
	InvalidBases     uint64 `json:"invalid_bases,omitempty"`
	LengthMismatch   uint64 `json:"length_mismatch,omitempty"`
	InvalidQuality   uint64 `json:"invalid_quality,omitempty"`
	Total            uint64 `json:"total"`
}

// ChunkSummaryV1 is one per-chunk trend row.
type ChunkSummaryV1 struct {
	Source      string  `json:"source"`
	Reads       uint64  `json:"reads"`
	Discards    uint64  `json:"discards,omitempty"`
	MeanLength  float64 `json:"mean_length"`
	MeanGC      float64 `json:"mean_gc"`
	MeanQuality float64 `json:"mean_quality"`
}

// CombinedReportV1 is the versioned QC report. It is both the artifact
// handed to reporting/plotting and a valid input to seqqc-merge.
type CombinedReportV1 struct {
	SchemaVersion string `json:"schema_version"`
	RunID         string `json:"run_id"`
	GeneratedAt   string `json:"generated_at"`
	Tool          string `json:"tool"`
	ToolVersion   string `json:"tool_version"`

	ChunkCount int    `json:"chunk_count"`
	TotalReads uint64 `json:"total_reads"`
	TotalBases uint64 `json:"total_bases"`

	Length  ScalarStatsV1 `json:"length"`
	GC      ScalarStatsV1 `json:"gc"`
	Quality ScalarStatsV1 `json:"quality"`

	Q20Bases       uint64  `json:"q20_bases"`
	Q30Bases       uint64  `json:"q30_bases"`
	ExpectedErrors float64 `json:"expected_errors"`

	PositionsK int          `json:"positions_k"`
	Positions  []PositionV1 `json:"positions,omitempty"`

	Sample   ReservoirV1      `json:"sample"`
	Discards DiscardsV1       `json:"discards"`
	Chunks   []ChunkSummaryV1 `json:"chunks,omitempty"`
}

// SchemaVersion is the current CombinedReportV1 schema tag.
const SchemaVersion = "seqqc/v1"
