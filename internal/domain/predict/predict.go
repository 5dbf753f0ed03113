// Package predict composes the aggregation, projection, probability,
// confidence and category components into the prediction-and-ranking
// engine.
package predict

import (
	"fmt"

	"github.com/svyas/admitcast/internal/domain/aggregate"
	"github.com/svyas/admitcast/internal/domain/category"
	"github.com/svyas/admitcast/internal/domain/confidence"
	"github.com/svyas/admitcast/internal/domain/probability"
	"github.com/svyas/admitcast/internal/domain/projection"
	"github.com/svyas/admitcast/internal/domain/rank"
	"github.com/svyas/admitcast/internal/domain/types"
)

// Messages attached to prediction results.
const (
	msgNoHistory = "no historical cutoff data for this program"
	msgNoRank    = "candidate rank not provided; projection shown without probability"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithProjector replaces the default projector.
func WithProjector(p *projection.Projector) Option {
	return func(e *Engine) {
		if p != nil {
			e.projector = p
		}
	}
}

// WithProjectionYears bounds the history window of the default projector.
func WithProjectionYears(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.projector = projection.New(projection.WithMaxYears(n))
		}
	}
}

// Engine runs the full prediction-and-ranking pipeline. It is stateless
// across invocations; every call is a pure function of its inputs.
type Engine struct {
	projector *projection.Projector
}

// New constructs an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		projector: projection.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PredictAndRank joins each current-cycle cutoff row with its prediction
// and institute category, then imposes the canonical display order.
// candidateRank may be nil; ordering then falls back to names and no
// probabilities are estimated. The rank, when present, has already been
// validated positive by the calling layer.
func (e *Engine) PredictAndRank(
	candidates []types.CutoffRecord,
	history map[types.ProgramKey][]types.CutoffRecord,
	candidateRank *int,
) []types.Candidate {
	out := make([]types.Candidate, 0, len(candidates))
	for _, rec := range candidates {
		c := types.Candidate{
			Institute:   rec.Key.Institute,
			Program:     rec.Key.Program,
			Quota:       rec.Key.Quota,
			SeatType:    rec.Key.SeatType,
			Gender:      rec.Key.Gender,
			Category:    classify(rec),
			Year:        rec.Year,
			Round:       rec.Round,
			OpeningRank: rec.OpeningRank,
			ClosingRank: rec.ClosingRank,
		}
		e.fillPrediction(&c, history[rec.Key], candidateRank)
		out = append(out, c)
	}
	rank.Order(out, candidateRank)
	return out
}

// Predict computes the prediction for a single program's history. Exposed
// for callers that want an estimate without the ranking step.
func (e *Engine) Predict(history []types.CutoffRecord, candidateRank *int) types.PredictionResult {
	c := types.Candidate{}
	e.fillPrediction(&c, history, candidateRank)
	return types.PredictionResult{
		ProjectedRank: c.ProjectedRank,
		Probability:   c.Probability,
		Confidence:    c.Confidence,
		Message:       c.Message,
	}
}

func (e *Engine) fillPrediction(c *types.Candidate, history []types.CutoffRecord, candidateRank *int) {
	series := aggregate.LatestPerYear(history)
	proj, ok := e.projector.Project(series)
	if !ok {
		// Insufficient data is a defined output, not an error.
		c.Probability = 0
		c.Confidence = types.ConfidenceNone
		c.Message = msgNoHistory
		return
	}

	c.ProjectedRank = types.IntPtr(proj.Rank)
	c.Confidence = confidence.Score(proj.Points, proj.Rank)
	if candidateRank == nil {
		c.Probability = 0
		c.Message = msgNoRank
		return
	}
	c.Probability = probability.Estimate(*candidateRank, proj.Rank)
	c.Message = fmt.Sprintf("projected closing rank %d from %d year(s) of data", proj.Rank, len(proj.Points))
}

// classify prefers the stored institute-type label and falls back to the
// institute name when the label is absent.
func classify(rec types.CutoffRecord) types.Category {
	label := rec.InstituteType
	if label == "" {
		label = rec.Key.Institute
	}
	return category.Classify(label)
}
