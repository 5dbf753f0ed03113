package rank_test

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/svyas/admitcast/internal/domain/rank"
	"github.com/svyas/admitcast/internal/domain/types"
)

func candidate(institute string, cat types.Category, closing *int) types.Candidate {
	return types.Candidate{
		Institute:   institute,
		Program:     "Computer Science and Engineering",
		Quota:       "AI",
		SeatType:    "OPEN",
		Gender:      "Gender-Neutral",
		Category:    cat,
		ClosingRank: closing,
	}
}

func TestOffset(t *testing.T) {
	Convey("Given the anchor offset step table", t, func() {
		Convey("Then offsets widen monotonically with rank", func() {
			So(rank.Offset(1), ShouldEqual, 1_000)
			So(rank.Offset(10_000), ShouldEqual, 1_000)
			So(rank.Offset(10_001), ShouldEqual, 1_500)
			So(rank.Offset(20_001), ShouldEqual, 2_200)
			So(rank.Offset(210_000), ShouldEqual, 20_000)
			So(rank.Offset(210_001), ShouldEqual, 30_000)
			So(rank.Offset(1_000_000), ShouldEqual, 30_000)
		})

		Convey("And the offset never shrinks as rank grows", func() {
			prev := 0
			for r := 1; r <= 300_000; r += 997 {
				off := rank.Offset(r)
				So(off, ShouldBeGreaterThanOrEqualTo, prev)
				prev = off
			}
		})
	})
}

func TestAnchorRank(t *testing.T) {
	Convey("Given a candidate rank", t, func() {
		Convey("Then the anchor sits one offset below it", func() {
			So(rank.AnchorRank(4_000), ShouldEqual, 3_000)
			So(rank.AnchorRank(15_000), ShouldEqual, 13_500)
		})

		Convey("And it never goes below 1", func() {
			So(rank.AnchorRank(500), ShouldEqual, 1)
		})
	})
}

func TestOrder(t *testing.T) {
	Convey("Given candidates and a candidate rank", t, func() {
		Convey("When two same-category programs are both achievable", func() {
			// rank 4000 -> offset 1000 -> anchor 3000; both closing ranks
			// are at or past the anchor.
			cs := []types.Candidate{
				candidate("B Institute", types.CategoryNIT, types.IntPtr(3500)),
				candidate("A Institute", types.CategoryNIT, types.IntPtr(3000)),
			}
			rank.Order(cs, types.IntPtr(4000))

			Convey("Then the lower closing rank comes first", func() {
				So(*cs[0].ClosingRank, ShouldEqual, 3000)
				So(*cs[1].ClosingRank, ShouldEqual, 3500)
			})
		})

		Convey("When one program is aspirational", func() {
			cs := []types.Candidate{
				candidate("Dream IIT", types.CategoryIIT, types.IntPtr(200)),
				candidate("Safe GFTI", types.CategoryGFTI, types.IntPtr(25_000)),
			}
			rank.Order(cs, types.IntPtr(4000))

			Convey("Then the achievable program sorts first despite its category", func() {
				So(cs[0].Institute, ShouldEqual, "Safe GFTI")
				So(cs[1].Institute, ShouldEqual, "Dream IIT")
			})
		})

		Convey("When categories differ inside a group", func() {
			cs := []types.Candidate{
				candidate("Some GFTI", types.CategoryGFTI, types.IntPtr(5_000)),
				candidate("Some IIIT", types.CategoryIIIT, types.IntPtr(6_000)),
				candidate("Some NIT", types.CategoryNIT, types.IntPtr(7_000)),
				candidate("Some IIT", types.CategoryIIT, types.IntPtr(8_000)),
			}
			rank.Order(cs, types.IntPtr(4000))

			Convey("Then the fixed precedence IIT<NIT<IIIT<GFTI applies", func() {
				So(cs[0].Category, ShouldEqual, types.CategoryIIT)
				So(cs[1].Category, ShouldEqual, types.CategoryNIT)
				So(cs[2].Category, ShouldEqual, types.CategoryIIIT)
				So(cs[3].Category, ShouldEqual, types.CategoryGFTI)
			})
		})

		Convey("When a closing rank is missing", func() {
			cs := []types.Candidate{
				candidate("No Data Institute", types.CategoryNIT, nil),
				candidate("Known Institute", types.CategoryNIT, types.IntPtr(999_999)),
			}
			rank.Order(cs, types.IntPtr(4000))

			Convey("Then the missing rank sorts last within its tier", func() {
				So(cs[0].Institute, ShouldEqual, "Known Institute")
				So(cs[1].Institute, ShouldEqual, "No Data Institute")
			})
		})

		Convey("When closing ranks tie", func() {
			cs := []types.Candidate{
				candidate("Zeta Institute", types.CategoryNIT, types.IntPtr(3000)),
				candidate("Alpha Institute", types.CategoryNIT, types.IntPtr(3000)),
			}
			rank.Order(cs, types.IntPtr(4000))

			Convey("Then institute name breaks the tie", func() {
				So(cs[0].Institute, ShouldEqual, "Alpha Institute")
			})
		})
	})

	Convey("Given no candidate rank", t, func() {
		cs := []types.Candidate{
			candidate("B Institute", types.CategoryNIT, types.IntPtr(100)),
			candidate("A Institute", types.CategoryNIT, types.IntPtr(999)),
			candidate("Any IIT", types.CategoryIIT, nil),
		}
		rank.Order(cs, nil)

		Convey("Then category then institute name decide, ignoring ranks", func() {
			So(cs[0].Institute, ShouldEqual, "Any IIT")
			So(cs[1].Institute, ShouldEqual, "A Institute")
			So(cs[2].Institute, ShouldEqual, "B Institute")
		})
	})

	Convey("Given any shuffled permutation of one input", t, func() {
		base := []types.Candidate{
			candidate("A Institute", types.CategoryIIT, types.IntPtr(3000)),
			candidate("B Institute", types.CategoryNIT, types.IntPtr(3000)),
			candidate("C Institute", types.CategoryNIT, nil),
			candidate("D Institute", types.CategoryGFTI, types.IntPtr(12_000)),
			candidate("E Institute", types.CategoryIIIT, types.IntPtr(900)),
			candidate("F Institute", types.CategoryUnknown, types.IntPtr(44_000)),
		}

		reference := make([]types.Candidate, len(base))
		copy(reference, base)
		rank.Order(reference, types.IntPtr(5000))

		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 20; i++ {
			shuffled := make([]types.Candidate, len(base))
			copy(shuffled, base)
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			rank.Order(shuffled, types.IntPtr(5000))

			So(shuffled, ShouldResemble, reference)
		}
	})
}
