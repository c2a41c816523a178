package valueobjects

import "fmt"

// Confidence is a relationship edge's evidential strength, always in [0,1].
// Construction is the only place the invariant is enforced; once built, a
// Confidence value is always valid.
type Confidence struct {
	value float64
}

// NewConfidence validates v and returns a Confidence, rejecting the edge
// per spec.md §3's "confidence ∈ [0,1]; violations reject the edge."
func NewConfidence(v float64) (Confidence, error) {
	if v < 0 || v > 1 {
		return Confidence{}, fmt.Errorf("confidence %f out of range [0,1]", v)
	}
	return Confidence{value: v}, nil
}

// MustConfidence panics on an invalid value; reserved for built-in seed
// data where the value is a compile-time constant.
func MustConfidence(v float64) Confidence {
	c, err := NewConfidence(v)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Confidence) Value() float64 { return c.value }

func (c Confidence) Equals(o Confidence) bool { return c.value == o.value }
