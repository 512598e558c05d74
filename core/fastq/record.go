// core/fastq/record.go
package fastq

// RawGroup is one position-mod-4 group of lines taken from a FASTQ stream,
// before any validation.
type RawGroup struct {
	Header    string
	Sequence  string
	Separator string
	Quality   string
}

// Record is a structurally valid FASTQ read. Invariant:
// len(Sequence) == len(Quality).
type Record struct {
	Header   string
	Sequence string
	Quality  string
}

// RejectReason classifies why a RawGroup failed validation. Rejections are
// counted by callers; they are never surfaced as errors.
type RejectReason int

const (
	RejectNone           RejectReason = iota
	RejectHeader                      // header line does not start with '@'
	RejectSeparator                   // separator line is not a bare '+'
	RejectBases                       // sequence byte outside {A,C,G,T,N}
	RejectLengthMismatch              // sequence and quality lengths differ
	RejectQuality                     // quality byte outside the Phred+33 range
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectHeader:
		return "invalid_header"
	case RejectSeparator:
		return "invalid_separator"
	case RejectBases:
		return "invalid_bases"
	case RejectLengthMismatch:
		return "length_mismatch"
	case RejectQuality:
		return "invalid_quality"
	}
	return "unknown"
}

// RejectReasons lists every countable rejection in report order.
var RejectReasons = []RejectReason{
	RejectHeader, RejectSeparator, RejectBases, RejectLengthMismatch, RejectQuality,
}

// validBase covers upper- and lowercase A, C, G, T, N.
var validBase [256]bool

func init() {
	for _, b := range []byte("ACGTNacgtn") {
		validBase[b] = true
	}
}

// Validate checks g against the FASTQ structural contract. Rules apply in
// order and short-circuit on the first failure:
//  1. header starts with '@'
//  2. separator is exactly "+" (the relaxed '+'+id form is rejected)
//  3. every sequence byte is one of {A,C,G,T,N}, case-insensitively
//  4. sequence and quality strings have equal length
//
// Pure function: no side effects, no allocation beyond the returned Record.
func Validate(g RawGroup) (Record, RejectReason) {
	if len(g.Header) == 0 || g.Header[0] != '@' {
		return Record{}, RejectHeader
	}
	if g.Separator != "+" {
		return Record{}, RejectSeparator
	}
	for i := 0; i < len(g.Sequence); i++ {
		if !validBase[g.Sequence[i]] {
			return Record{}, RejectBases
		}
	}
	if len(g.Sequence) != len(g.Quality) {
		return Record{}, RejectLengthMismatch
	}
	return Record{Header: g.Header, Sequence: g.Sequence, Quality: g.Quality}, RejectNone
}

// GCPercent returns the fraction of G/C bases in seq as a percentage in
// [0,100]. Empty sequences count as 0.
func GCPercent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(seq)) * 100
}
