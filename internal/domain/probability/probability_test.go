package probability_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/svyas/admitcast/internal/domain/probability"
)

func TestEstimate(t *testing.T) {
	Convey("Given a projected cutoff rank", t, func() {
		Convey("When the candidate rank is at or better than the projection", func() {
			Convey("Then the probability is exactly 0.98", func() {
				So(probability.Estimate(4000, 4000), ShouldEqual, 0.98)
				So(probability.Estimate(1, 4000), ShouldEqual, 0.98)
				So(probability.Estimate(3999, 4000), ShouldEqual, 0.98)
			})
		})

		Convey("When the candidate rank is past the projection", func() {
			Convey("Then the probability decays but never exceeds 0.90", func() {
				So(probability.Estimate(4001, 4000), ShouldBeLessThanOrEqualTo, 0.90)
				So(probability.Estimate(4001, 4000), ShouldBeGreaterThan, 0.85)
			})

			Convey("And it is non-increasing in the rank gap", func() {
				prev := 1.0
				for diff := 0; diff <= 50_000; diff += 500 {
					p := probability.Estimate(10_000+diff, 10_000)
					So(p, ShouldBeLessThanOrEqualTo, prev)
					So(p, ShouldBeBetweenOrEqual, 0.01, 0.99)
					prev = p
				}
			})

			Convey("And a huge gap hits the floor", func() {
				// diff=80000, k=max(500, 20000*0.25)=5000: 0.90*e^-16 clamps to 0.01
				So(probability.Estimate(100_000, 20_000), ShouldEqual, 0.01)
			})

			Convey("And the decay scale never shrinks below 500", func() {
				// projected 100: k = 500, diff 500 -> 0.90*e^-1 = 0.331
				So(probability.Estimate(600, 100), ShouldAlmostEqual, 0.331, 0.0011)
			})
		})

		Convey("When inputs are degenerate", func() {
			Convey("Then the floor probability is returned", func() {
				So(probability.Estimate(0, 4000), ShouldEqual, 0.01)
				So(probability.Estimate(-5, 4000), ShouldEqual, 0.01)
				So(probability.Estimate(4000, 0), ShouldEqual, 0.01)
				So(probability.Estimate(4000, -1), ShouldEqual, 0.01)
			})
		})
	})
}
