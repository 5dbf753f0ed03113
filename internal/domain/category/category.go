// Package category tags institutes with a coarse tier used for ordering.
package category

import (
	"strings"

	"github.com/svyas/admitcast/internal/domain/types"
)

// Canonical long names matched as lowercase substrings.
const (
	longIIIT = "indian institute of information technology"
	longIIT  = "indian institute of technology"
	longNIT  = "national institute of technology"
)

// Classify maps a free-text institute-type label or institute name to a
// category. Short codes match exactly (case-insensitive); otherwise the
// canonical long names and name prefixes decide. Anything unrecognized
// defaults to GFTI; empty input is UNKNOWN.
//
// IIIT is matched before IIT so the near-identical long names cannot be
// confused.
func Classify(label string) types.Category {
	label = strings.TrimSpace(label)
	if label == "" {
		return types.CategoryUnknown
	}

	switch strings.ToUpper(label) {
	case "IIT":
		return types.CategoryIIT
	case "NIT":
		return types.CategoryNIT
	case "IIIT":
		return types.CategoryIIIT
	case "GFTI":
		return types.CategoryGFTI
	}

	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, longIIIT), strings.HasPrefix(lower, "iiit"):
		return types.CategoryIIIT
	case strings.Contains(lower, longIIT), strings.HasPrefix(lower, "iit"):
		return types.CategoryIIT
	case strings.Contains(lower, longNIT), strings.HasPrefix(lower, "nit"):
		return types.CategoryNIT
	default:
		return types.CategoryGFTI
	}
}
