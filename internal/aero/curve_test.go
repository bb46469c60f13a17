package aero_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightsim/internal/aero"
)

var _ = Describe("Curve", func() {
	Context("construction", func() {
		It("rejects fewer than two samples", func() {
			_, err := aero.NewCurve(nil)
			Expect(err).To(MatchError(aero.ErrTooFewSamples))

			_, err = aero.NewCurve([]aero.Point{{0, 1}})
			Expect(err).To(MatchError(aero.ErrTooFewSamples))
		})

		DescribeTable("rejects samples that are not strictly increasing",
			func(points []aero.Point) {
				c, err := aero.NewCurve(points)
				Expect(err).To(MatchError(aero.ErrNotMonotonic))
				Expect(c).To(BeNil())
			},
			Entry("duplicate x", []aero.Point{{0, 0}, {1, 1}, {1, 2}}),
			Entry("decreasing x", []aero.Point{{2, 0}, {1, 1}}),
			Entry("NaN x", []aero.Point{{0, 0}, {math.NaN(), 1}}),
			Entry("infinite y", []aero.Point{{0, 0}, {1, math.Inf(1)}}),
		)

		It("panics from MustCurve on bad input", func() {
			Expect(func() { aero.MustCurve(aero.Point{1, 0}, aero.Point{0, 0}) }).To(Panic())
		})

		It("does not alias the caller's slice", func() {
			points := []aero.Point{{0, 0}, {10, 1}}
			c, err := aero.NewCurve(points)
			Expect(err).NotTo(HaveOccurred())

			points[1].Y = 99
			Expect(c.Sample(10)).To(Equal(1.0))

			out := c.Points()
			out[0].Y = 42
			Expect(c.Sample(0)).To(Equal(0.0))
		})
	})

	Context("sampling", func() {
		var c *aero.Curve

		BeforeEach(func() {
			c = aero.MustCurve(aero.Point{0, 0}, aero.Point{10, 1})
		})

		It("interpolates linearly", func() {
			Expect(c.Sample(5)).To(BeNumerically("~", 0.5, 1e-12))
			Expect(c.Sample(2.5)).To(BeNumerically("~", 0.25, 1e-12))
		})

		It("hits the samples exactly", func() {
			Expect(c.Sample(0)).To(Equal(0.0))
			Expect(c.Sample(10)).To(Equal(1.0))
		})

		It("clamps outside the domain", func() {
			Expect(c.Sample(-100)).To(Equal(0.0))
			Expect(c.Sample(1e9)).To(Equal(1.0))
			lo, hi := c.Domain()
			Expect(lo).To(Equal(0.0))
			Expect(hi).To(Equal(10.0))
		})

		It("picks the bracketing segment in a multi-segment table", func() {
			m := aero.MustCurve(aero.Point{-2, 4}, aero.Point{0, 0}, aero.Point{1, 1}, aero.Point{3, -3})
			Expect(m.Sample(-1)).To(BeNumerically("~", 2, 1e-12))
			Expect(m.Sample(0.5)).To(BeNumerically("~", 0.5, 1e-12))
			Expect(m.Sample(2)).To(BeNumerically("~", -1, 1e-12))
			Expect(m.Sample(1)).To(BeNumerically("~", 1, 1e-12))
		})

		It("propagates NaN queries", func() {
			Expect(math.IsNaN(c.Sample(math.NaN()))).To(BeTrue())
		})
	})
})
