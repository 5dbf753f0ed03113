package projection_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/svyas/admitcast/internal/domain/projection"
	"github.com/svyas/admitcast/internal/domain/types"
)

func series(closings ...int) []types.CutoffRecord {
	year := 2023
	out := make([]types.CutoffRecord, 0, len(closings))
	for i, c := range closings {
		out = append(out, types.CutoffRecord{
			Year:        year - i,
			Round:       6,
			ClosingRank: types.IntPtr(c),
		})
	}
	return out
}

func TestProjector_Project(t *testing.T) {
	Convey("Given a projector with default configuration", t, func() {
		p := projection.New()

		Convey("When projecting a three-year tightening series", func() {
			// 4000 < 4500: the cutoff tightened year over year.
			res, ok := p.Project(series(4000, 4500, 5200))

			Convey("Then the weighted mean is nudged down by momentum", func() {
				So(ok, ShouldBeTrue)
				// base = (4000 + 0.85*4500 + 0.7*5200) / 2.55 = 4496.08,
				// momentum factor = max(-0.10, -0.1111*0.5) = -0.0556
				So(res.Rank, ShouldEqual, 4246)
				So(res.Points, ShouldResemble, []int{4000, 4500, 5200})
			})
		})

		Convey("When the year-over-year change is inside the threshold", func() {
			res, ok := p.Project(series(5000, 5050))

			Convey("Then no momentum is applied", func() {
				So(ok, ShouldBeTrue)
				So(res.Rank, ShouldEqual, 5023)
			})
		})

		Convey("When the cutoff tightened sharply", func() {
			res, ok := p.Project(series(3000, 5000))

			Convey("Then the adjustment is clamped to -10%", func() {
				So(ok, ShouldBeTrue)
				// base = (3000 + 0.85*5000) / 1.85 = 3918.92, clamped * 0.9
				So(res.Rank, ShouldEqual, 3527)
			})
		})

		Convey("When the cutoff loosened sharply", func() {
			res, ok := p.Project(series(5000, 3000))

			Convey("Then the adjustment is clamped to +10%", func() {
				So(ok, ShouldBeTrue)
				// base = (5000 + 0.85*3000) / 1.85 = 4081.08, clamped * 1.1
				So(res.Rank, ShouldEqual, 4489)
			})
		})

		Convey("When only one year of history exists", func() {
			res, ok := p.Project(series(20000))

			Convey("Then the projection is that closing rank", func() {
				So(ok, ShouldBeTrue)
				So(res.Rank, ShouldEqual, 20000)
				So(res.Points, ShouldHaveLength, 1)
			})
		})

		Convey("When more than five years exist", func() {
			res, ok := p.Project(series(4000, 4100, 4200, 4300, 4400, 9999))

			Convey("Then only the five most recent feed the projection", func() {
				So(ok, ShouldBeTrue)
				So(res.Points, ShouldResemble, []int{4000, 4100, 4200, 4300, 4400})
			})
		})

		Convey("When the series is empty", func() {
			_, ok := p.Project(nil)

			Convey("Then the projection is undefined", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the series holds only null closing ranks", func() {
			_, ok := p.Project([]types.CutoffRecord{{Year: 2023, Round: 6}})

			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a projector with a custom window", t, func() {
		p := projection.New(projection.WithMaxYears(2))

		Convey("Then only that many entries are used", func() {
			res, ok := p.Project(series(4000, 4100, 9000))
			So(ok, ShouldBeTrue)
			So(res.Points, ShouldResemble, []int{4000, 4100})
		})
	})

	Convey("Given a projection that would land below rank 1", t, func() {
		p := projection.New()
		res, ok := p.Project(series(1, 1))

		Convey("Then the result is floored at 1", func() {
			So(ok, ShouldBeTrue)
			So(res.Rank, ShouldEqual, 1)
		})
	})
}
