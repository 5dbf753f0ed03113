// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/svyas/admitcast/internal/domain/types"
)

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// HandlePredict handles GET /predict requests.
//
// Query parameters: rank (positive int), institute, program, quota,
// seat_type, gender, category (filters), year, round (default latest),
// limit (capped). A malformed rank is rejected here; the core never sees
// an invalid one.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	req, err := parsePredictRequest(r.URL.Query(), h.deps.MaxCandidateLimit())
	if err != nil {
		code := "bad_request"
		if errors.Is(err, errLimitExceeded) {
			code = "limit_exceeded"
		}
		writeError(w, http.StatusBadRequest, code, NewKind(op, err))
		return
	}

	resp, err := h.deps.Predict(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

var errLimitExceeded = errors.New("limit exceeds maximum")

// parsePredictRequest validates and normalizes the query string.
func parsePredictRequest(values url.Values, maxLimit int) (types.PredictRequest, error) {
	req := types.PredictRequest{
		Institute: strings.TrimSpace(values.Get("institute")),
		Program:   strings.TrimSpace(values.Get("program")),
		Quota:     strings.TrimSpace(values.Get("quota")),
		SeatType:  strings.TrimSpace(values.Get("seat_type")),
		Gender:    strings.TrimSpace(values.Get("gender")),
	}

	if v := strings.TrimSpace(values.Get("category")); v != "" {
		req.Category = types.Category(strings.ToUpper(v))
	}

	if v := values.Get("rank"); v != "" {
		rank, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || rank < 1 {
			return req, errors.New("rank must be a positive integer")
		}
		req.Rank = types.IntPtr(rank)
	}

	if v := values.Get("year"); v != "" {
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || year < 1 {
			return req, errors.New("year must be a positive integer")
		}
		req.Year = year
	}

	if v := values.Get("round"); v != "" {
		round, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || round < 1 {
			return req, errors.New("round must be a positive integer")
		}
		req.Round = round
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || limit < 1 {
			return req, errors.New("limit must be a positive integer")
		}
		if limit > maxLimit {
			return req, errLimitExceeded
		}
		req.Limit = limit
	}

	return req, nil
}
