// Package confidence rates the reliability of a projection from sample size
// and historical dispersion.
package confidence

import (
	"math"

	"github.com/svyas/admitcast/internal/domain/types"
)

// Relative standard deviation thresholds of the confidence table.
const (
	dispersionTight    = 0.10
	dispersionModerate = 0.15
	dispersionLoose    = 0.20
	dispersionWide     = 0.25
)

// Score maps the closing ranks used in a projection and the projected rank
// to a confidence label. More points and lower dispersion relative to the
// projection mean higher confidence.
func Score(points []int, projectedRank int) types.Confidence {
	n := len(points)
	switch {
	case n == 0:
		return types.ConfidenceNone
	case n == 1:
		return types.ConfidenceVeryLow
	}

	rel := 0.0
	if projectedRank > 0 {
		rel = stdDev(points) / float64(projectedRank)
	}

	switch {
	case n >= 4:
		switch {
		case rel < dispersionTight:
			return types.ConfidenceVeryHigh
		case rel < dispersionModerate:
			return types.ConfidenceHigh
		case rel < dispersionWide:
			return types.ConfidenceMedium
		default:
			return types.ConfidenceLow
		}
	case n == 3:
		switch {
		case rel < dispersionModerate:
			return types.ConfidenceHigh
		case rel < dispersionLoose:
			return types.ConfidenceMedium
		default:
			return types.ConfidenceLow
		}
	default: // n == 2
		if rel < dispersionLoose {
			return types.ConfidenceMedium
		}
		return types.ConfidenceLow
	}
}

// stdDev computes the population standard deviation of points.
func stdDev(points []int) float64 {
	n := float64(len(points))
	var sum float64
	for _, p := range points {
		sum += float64(p)
	}
	mean := sum / n
	var sq float64
	for _, p := range points {
		d := float64(p) - mean
		sq += d * d
	}
	return math.Sqrt(sq / n)
}
