package game

import (
	"math"
	"sync"
)

// Proximity weights subtracted from the base entropy.
const (
	BullWeight = 1.0
	CowWeight  = 0.5
)

// Entropy is the proximity-adjusted entropy of a candidate set.
//
// With n candidates each at probability 1/n the base entropy is
// −Σ (1/n)·log2(1/n) = log2(n). The result is base − (BullWeight·bulls +
// CowWeight·cows), floored at 0. An empty set has entropy 0.
func Entropy(possible []Code, fb Feedback) float64 {
	n := len(possible)
	if n == 0 {
		return 0
	}
	base := math.Log2(float64(n))
	proximity := BullWeight*float64(fb.Bulls) + CowWeight*float64(fb.Cows)
	return math.Max(0, base-proximity)
}

var (
	baselineOnce sync.Once
	baseline     float64
)

// BaselineEntropy is the entropy of the full initial set with no feedback,
// log2(5040) ≈ 12.30 bits.
func BaselineEntropy() float64 {
	baselineOnce.Do(func() {
		baseline = Entropy(AllCodes(), Feedback{})
	})
	return baseline
}

// InformationGain is initial − current. Sessions always pass BaselineEntropy
// as initial, so gain is measured from the start of the game and not from the
// previous turn.
func InformationGain(initial, current float64) float64 {
	return initial - current
}
