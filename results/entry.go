// Package results holds benchmark timings for a single analysis run.
package results

// Target and warning thresholds for the candidate A ratio.
const (
	PassRatio = 1.10
	WarnRatio = 1.50
)

// Entry holds the raw timings of one benchmark, in seconds. A nil field
// means the measurement is absent.
type Entry struct {
	Reference  *float64
	CandidateA *float64
	CandidateB *float64
}

// Seconds returns a pointer to v for use in Entry literals.
func Seconds(v float64) *float64 {
	return &v
}

// RatioA returns CandidateA / Reference. ok is false when the reference is
// absent or not positive, or candidate A is absent.
func (e Entry) RatioA() (ratio float64, ok bool) {
	return divide(e.CandidateA, e.Reference, false)
}

// RatioB returns CandidateB / Reference. ok is false when either operand is
// absent or not positive.
func (e Entry) RatioB() (ratio float64, ok bool) {
	return divide(e.CandidateB, e.Reference, true)
}

func divide(num, den *float64, positiveNum bool) (float64, bool) {
	if num == nil || den == nil || *den <= 0 {
		return 0, false
	}
	if positiveNum && *num <= 0 {
		return 0, false
	}

	return *num / *den, true
}

// Verdict classifies a candidate A ratio against the fixed thresholds.
type Verdict int

const (
	// VerdictNone means the ratio is undefined.
	VerdictNone Verdict = iota
	VerdictPass
	VerdictWarn
	VerdictFail
)

// Classify returns the verdict for ratio; ok reports whether it is defined.
func Classify(ratio float64, ok bool) Verdict {
	switch {
	case !ok:
		return VerdictNone
	case ratio <= PassRatio:
		return VerdictPass
	case ratio <= WarnRatio:
		return VerdictWarn
	default:
		return VerdictFail
	}
}

// Verdict returns the classification of the entry's candidate A ratio.
func (e Entry) Verdict() Verdict {
	return Classify(e.RatioA())
}

func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "pass"
	case VerdictWarn:
		return "warn"
	case VerdictFail:
		return "fail"
	default:
		return "none"
	}
}
