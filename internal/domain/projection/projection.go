// Package projection turns a per-year cutoff series into a projected cutoff
// rank for the next cycle.
package projection

import (
	"math"

	"github.com/svyas/admitcast/internal/domain/types"
)

// Default projection configuration constants.
const (
	defaultMaxYears          = 5
	overflowWeight           = 0.3  // weight for a 6th-or-later entry
	defaultMomentumThreshold = 0.03 // minimum |relative change| that triggers momentum
	momentumDamping          = 0.5  // fraction of the relative change applied
	momentumCap              = 0.10 // momentum bounded to ±10% of the base projection
)

// defaultWeights are the recency weights for the most recent entries, most
// recent first.
var defaultWeights = []float64{1.0, 0.85, 0.7, 0.55, 0.4}

// Option applies a configuration option to the Projector.
type Option func(*Projector)

// WithWeights sets custom recency weights, most recent first.
func WithWeights(weights []float64) Option {
	return func(p *Projector) {
		if len(weights) > 0 {
			p.weights = append([]float64(nil), weights...)
		}
	}
}

// WithMaxYears bounds how many recent entries are used.
func WithMaxYears(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.maxYears = n
		}
	}
}

// WithMomentumThreshold sets the minimum relative year-over-year change that
// triggers the momentum adjustment.
func WithMomentumThreshold(t float64) Option {
	return func(p *Projector) {
		if t > 0 {
			p.momentumThreshold = t
		}
	}
}

// Result is a computed projection together with the closing ranks that
// produced it. Points feed the confidence scorer.
type Result struct {
	Rank   int
	Points []int
}

// Projector computes recency-weighted cutoff projections.
type Projector struct {
	weights           []float64
	maxYears          int
	momentumThreshold float64
}

// New constructs a Projector with default configuration.
func New(opts ...Option) *Projector {
	p := &Projector{
		weights:           defaultWeights,
		maxYears:          defaultMaxYears,
		momentumThreshold: defaultMomentumThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project computes the projected cutoff rank from a series ordered most
// recent year first, as produced by the aggregator. It returns false when
// the series has no usable points ("insufficient data").
//
// The projection is a recency-weighted mean nudged by a bounded momentum
// term: a sharp shift between the two most recent years moves the result by
// at most ±10%.
func (p *Projector) Project(series []types.CutoffRecord) (Result, bool) {
	points := make([]int, 0, p.maxYears)
	for _, rec := range series {
		if rec.ClosingRank == nil {
			continue
		}
		points = append(points, *rec.ClosingRank)
		if len(points) == p.maxYears {
			break
		}
	}
	if len(points) == 0 {
		return Result{}, false
	}

	var weightedSum, totalWeight float64
	for i, rank := range points {
		w := overflowWeight
		if i < len(p.weights) {
			w = p.weights[i]
		}
		weightedSum += float64(rank) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return Result{}, false
	}
	base := weightedSum / totalWeight

	base += p.momentum(points, base)

	projected := int(math.Round(math.Max(1, base)))
	return Result{Rank: projected, Points: points}, true
}

// momentum returns the bounded adjustment driven by the change between the
// two most recent years. The sign convention: latest < previous means the
// cutoff tightened, so the projection moves down.
func (p *Projector) momentum(points []int, base float64) float64 {
	if len(points) < 2 {
		return 0
	}
	latest, previous := points[0], points[1]
	if previous <= 0 {
		return 0
	}
	relativeChange := float64(latest-previous) / float64(previous)
	if math.Abs(relativeChange) <= p.momentumThreshold {
		return 0
	}
	factor := relativeChange * momentumDamping
	if relativeChange < 0 {
		factor = math.Max(-momentumCap, factor)
	} else {
		factor = math.Min(momentumCap, factor)
	}
	return base * factor
}
