// Package probability maps the gap between a candidate's rank and a
// projected cutoff into a bounded admission probability.
package probability

import (
	"math"
)

// Estimator constants.
const (
	certainProbability = 0.98 // rank at or better than the projected cutoff
	ceilProbability    = 0.90 // upper bound of the decay branch
	floorProbability   = 0.01
	minDecayScale      = 500.0 // characteristic rank distance never shrinks below this
	decayScaleFactor   = 0.25  // fraction of the projected rank used as decay scale
)

// Estimate converts (candidateRank, projectedRank) into a probability.
//
// A rank at or better than the projection is treated as near-certain (0.98,
// not scaled further). Past the projection the probability decays
// exponentially in the rank gap, with a scale that grows with the projected
// rank so selective programs decay faster in absolute terms. The decay
// branch is clamped to [0.01, 0.90] and rounded to 3 decimals. Degenerate
// inputs yield the floor.
func Estimate(candidateRank, projectedRank int) float64 {
	if candidateRank <= 0 || projectedRank <= 0 {
		return floorProbability
	}
	if candidateRank <= projectedRank {
		return certainProbability
	}
	diff := float64(candidateRank - projectedRank)
	k := math.Max(minDecayScale, float64(projectedRank)*decayScaleFactor)
	p := ceilProbability * math.Exp(-diff/k)
	p = math.Min(ceilProbability, math.Max(floorProbability, p))
	return math.Round(p*1000) / 1000
}
