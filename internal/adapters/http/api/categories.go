// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CategoriesHandler serves the known institute categories.
type CategoriesHandler struct {
	deps Dependencies
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(deps Dependencies) *CategoriesHandler {
	return &CategoriesHandler{deps: deps}
}

// HandleCategories handles GET /categories requests.
func (h *CategoriesHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Categories(r.Context()))
}
