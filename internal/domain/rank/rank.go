// Package rank imposes a total, deterministic display order over candidate
// programs.
package rank

import (
	"math"
	"sort"

	"github.com/svyas/admitcast/internal/domain/types"
)

// anchorOffsets is the monotone step table mapping a candidate rank to the
// anchor offset. Wider offsets for numerically larger ranks.
var anchorOffsets = []struct {
	maxRank int
	offset  int
}{
	{10_000, 1_000},
	{20_000, 1_500},
	{30_000, 2_200},
	{40_000, 2_900},
	{50_000, 3_500},
	{65_000, 4_000},
	{80_000, 5_500},
	{100_000, 6_000},
	{125_000, 8_500},
	{150_000, 10_500},
	{180_000, 12_500},
	{210_000, 20_000},
}

// offsetBeyondTable applies past the last threshold.
const offsetBeyondTable = 30_000

// Offset returns the dynamic anchor offset for a candidate rank.
func Offset(candidateRank int) int {
	for _, step := range anchorOffsets {
		if candidateRank <= step.maxRank {
			return step.offset
		}
	}
	return offsetBeyondTable
}

// AnchorRank returns the threshold that splits achievable from aspirational
// programs for a candidate rank.
func AnchorRank(candidateRank int) int {
	anchor := candidateRank - Offset(candidateRank)
	if anchor < 1 {
		anchor = 1
	}
	return anchor
}

// Order sorts candidates in place into the canonical display order.
//
// With a candidate rank: achievable programs (closing rank at or past the
// anchor) before aspirational ones, then institute category precedence,
// then closing rank ascending (unknown ranks last), then institute name,
// then the remaining identity fields so the order is total.
//
// Without a rank: category precedence, institute name, program name, then
// the remaining identity fields. Probability and projection are ignored.
func Order(candidates []types.Candidate, candidateRank *int) {
	if candidateRank == nil {
		sort.Slice(candidates, func(i, j int) bool {
			return lessByName(candidates[i], candidates[j])
		})
		return
	}
	anchor := AnchorRank(*candidateRank)
	sort.Slice(candidates, func(i, j int) bool {
		return lessByFit(candidates[i], candidates[j], anchor)
	})
}

func lessByFit(a, b types.Candidate, anchor int) bool {
	ga, gb := group(a, anchor), group(b, anchor)
	if ga != gb {
		return ga < gb
	}
	if pa, pb := a.Category.Precedence(), b.Category.Precedence(); pa != pb {
		return pa < pb
	}
	if ca, cb := closingOrInf(a), closingOrInf(b); ca != cb {
		return ca < cb
	}
	if a.Institute != b.Institute {
		return a.Institute < b.Institute
	}
	return lessByIdentity(a, b)
}

func lessByName(a, b types.Candidate) bool {
	if pa, pb := a.Category.Precedence(), b.Category.Precedence(); pa != pb {
		return pa < pb
	}
	if a.Institute != b.Institute {
		return a.Institute < b.Institute
	}
	if a.Program != b.Program {
		return a.Program < b.Program
	}
	return lessByIdentity(a, b)
}

// group partitions into achievable (1) vs aspirational (2).
func group(c types.Candidate, anchor int) int {
	if c.ClosingRank != nil && *c.ClosingRank >= anchor {
		return 1
	}
	return 2
}

// closingOrInf treats missing closing ranks as +inf so they sort last.
func closingOrInf(c types.Candidate) float64 {
	if c.ClosingRank == nil {
		return math.Inf(1)
	}
	return float64(*c.ClosingRank)
}

// lessByIdentity is the final tie-break over the remaining key fields.
func lessByIdentity(a, b types.Candidate) bool {
	if a.Program != b.Program {
		return a.Program < b.Program
	}
	if a.Quota != b.Quota {
		return a.Quota < b.Quota
	}
	if a.SeatType != b.SeatType {
		return a.SeatType < b.SeatType
	}
	return a.Gender < b.Gender
}
