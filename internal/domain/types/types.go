// Package types contains common types used across the application.
package types

// Category is the coarse institute tier used only for display ordering.
type Category string

// Known institute categories, in display precedence order.
const (
	CategoryIIT     Category = "IIT"
	CategoryNIT     Category = "NIT"
	CategoryIIIT    Category = "IIIT"
	CategoryGFTI    Category = "GFTI"
	CategoryUnknown Category = "UNKNOWN"
)

// Precedence returns the sort precedence of a category; lower sorts first.
func (c Category) Precedence() int {
	switch c {
	case CategoryIIT:
		return 1
	case CategoryNIT:
		return 2
	case CategoryIIIT:
		return 3
	case CategoryGFTI:
		return 4
	default:
		return 5
	}
}

// Confidence is the qualitative reliability label for a probability estimate.
type Confidence string

// Confidence labels from no data to a stable multi-year history.
const (
	ConfidenceNone     Confidence = "none"
	ConfidenceVeryLow  Confidence = "very low"
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very high"
)

// ProgramKey identifies a specific seat offering. Equality is exact string
// match on all five fields, so the zero-cost struct comparison is the
// canonical identity check and the type is usable as a map key.
type ProgramKey struct {
	Institute string `json:"institute"`
	Program   string `json:"program"`
	Quota     string `json:"quota"`
	SeatType  string `json:"seat_type"`
	Gender    string `json:"gender"`
}

// CutoffRecord is one observed cutoff row for a (program, year, round).
// Ranks are nullable: source data sometimes carries empty rank cells, and
// such rows are excluded from projection input.
type CutoffRecord struct {
	Key           ProgramKey
	InstituteType string
	Year          int
	Round         int
	OpeningRank   *int
	ClosingRank   *int
}

// PredictionResult is the derived admission estimate for one candidate row.
type PredictionResult struct {
	ProjectedRank *int       `json:"projected_rank"`
	Probability   float64    `json:"probability"`
	Confidence    Confidence `json:"confidence"`
	Message       string     `json:"message"`
}

// Candidate joins a current-cycle cutoff row with its prediction and
// institute category. This is the unit the ranker sorts and the wire shape
// returned to clients.
type Candidate struct {
	Institute     string     `json:"institute"`
	Program       string     `json:"program"`
	Quota         string     `json:"quota"`
	SeatType      string     `json:"seat_type"`
	Gender        string     `json:"gender"`
	Category      Category   `json:"category"`
	Year          int        `json:"year"`
	Round         int        `json:"round"`
	OpeningRank   *int       `json:"opening_rank"`
	ClosingRank   *int       `json:"closing_rank"`
	ProjectedRank *int       `json:"projected_rank"`
	Probability   float64    `json:"probability"`
	Confidence    Confidence `json:"confidence"`
	Message       string     `json:"message"`
}

// ProgramKey returns the identity tuple of the candidate's offering.
func (c Candidate) ProgramKey() ProgramKey {
	return ProgramKey{
		Institute: c.Institute,
		Program:   c.Program,
		Quota:     c.Quota,
		SeatType:  c.SeatType,
		Gender:    c.Gender,
	}
}

// PredictRequest is the normalized filter set for one prediction call.
// Zero Year/Round mean "latest available"; a zero Limit means the service
// default. Rank is nil when the caller did not supply one and is always
// positive otherwise (validated at the HTTP boundary).
type PredictRequest struct {
	Institute string
	Program   string
	Quota     string
	SeatType  string
	Gender    string
	Category  Category
	Year      int
	Round     int
	Rank      *int
	Limit     int
}

// PredictResponse is the ranked shortlist returned to the caller.
type PredictResponse struct {
	Year    int         `json:"year"`
	Round   int         `json:"round"`
	Rank    *int        `json:"rank"`
	Count   int         `json:"count"`
	Results []Candidate `json:"results"`
}

// IntPtr returns a pointer to v. Convenience for nullable rank fields.
func IntPtr(v int) *int { return &v }
