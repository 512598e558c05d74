// core/quality/quality.go
package quality

import (
	"fmt"
	"math"
)

// Offset is the Phred+33 ("Sanger") ASCII offset, the only encoding
// supported. Phred+64 and other legacy encodings are deliberately not
// auto-detected.
const Offset = 33

// MaxScore is the highest decodable score: '~' (126) - 33.
const MaxScore = 126 - Offset

// DecodeError reports a quality byte outside the Phred+33 range. Callers
// treat it like a structural rejection, not a fatal error.
type DecodeError struct {
	Byte byte
	Pos  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("quality decode: byte %d at position %d outside Phred+33 range [33,126]", e.Byte, e.Pos)
}

// errorProbs maps a raw quality byte to its error probability,
// 10^((offset-byte)/10). Precomputed once; index by byte, not score.
var errorProbs [256]float64

func init() {
	for i := range errorProbs {
		errorProbs[i] = math.Pow(10, float64(Offset-i)/10)
	}
}

// Decode converts a Phred+33 quality string into integer scores, one per
// base. The first byte outside [33,126] aborts with a DecodeError.
func Decode(qual string) ([]int, error) {
	scores := make([]int, len(qual))
	for i := 0; i < len(qual); i++ {
		b := qual[i]
		if b < Offset || b > 126 {
			return nil, &DecodeError{Byte: b, Pos: i}
		}
		scores[i] = int(b) - Offset
	}
	return scores, nil
}

// Encode is the inverse of Decode. It panics on out-of-range scores; callers
// only encode values previously produced by Decode.
func Encode(scores []int) string {
	out := make([]byte, len(scores))
	for i, s := range scores {
		if s < 0 || s > MaxScore {
			panic(fmt.Sprintf("quality encode: score %d outside [0,%d]", s, MaxScore))
		}
		out[i] = byte(s + Offset)
	}
	return string(out)
}

// Summary condenses one read's quality string into per-read figures.
type Summary struct {
	Mean           float64
	Min            int
	Max            int
	Q20            int // bases with score >= 20
	Q30            int // bases with score >= 30
	ExpectedErrors float64
}

// Summarize computes a Summary straight from the quality string, without
// materializing the score slice. Same range check as Decode.
func Summarize(qual string) (Summary, error) {
	if len(qual) == 0 {
		return Summary{}, nil
	}
	s := Summary{Min: MaxScore}
	sum := 0
	for i := 0; i < len(qual); i++ {
		b := qual[i]
		if b < Offset || b > 126 {
			return Summary{}, &DecodeError{Byte: b, Pos: i}
		}
		q := int(b) - Offset
		sum += q
		if q < s.Min {
			s.Min = q
		}
		if q > s.Max {
			s.Max = q
		}
		if q >= 20 {
			s.Q20++
		}
		if q >= 30 {
			s.Q30++
		}
		s.ExpectedErrors += errorProbs[b]
	}
	s.Mean = float64(sum) / float64(len(qual))
	return s, nil
}

// ScoreErrorProb returns the error probability of an already-decoded score.
func ScoreErrorProb(score int) float64 {
	if score < 0 || score > MaxScore {
		return 0
	}
	return errorProbs[score+Offset]
}

// AvgPhred converts a mean error probability back to the Phred scale.
// This is the error-rate-faithful average, distinct from the arithmetic
// mean of scores.
func AvgPhred(qual string) float64 {
	if len(qual) == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < len(qual); i++ {
		sum += errorProbs[qual[i]]
	}
	return -10 * math.Log10(sum/float64(len(qual)))
}
