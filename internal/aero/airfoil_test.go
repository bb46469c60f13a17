package aero_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightsim/internal/aero"
)

var _ = Describe("Airfoil", func() {
	It("lists the registered tables", func() {
		Expect(aero.AirfoilNames()).To(Equal([]string{"flat_plate", "naca0015", "zero"}))
	})

	It("rejects unknown names", func() {
		_, _, err := aero.Airfoil("clark_y")
		Expect(err).To(MatchError(aero.ErrUnknownAirfoil))
	})

	It("serves the NACA 0015 polar in degrees", func() {
		lift, drag, err := aero.Airfoil("naca0015")
		Expect(err).NotTo(HaveOccurred())

		Expect(lift.Sample(0)).To(Equal(0.0))
		Expect(lift.Sample(10)).To(BeNumerically("~", 0.9434, 1e-9))
		Expect(lift.Sample(-10)).To(BeNumerically("~", -0.9434, 1e-9))
		Expect(drag.Sample(0)).To(BeNumerically("~", 0.03036, 1e-9))

		lo, hi := lift.Domain()
		Expect(lo).To(Equal(-11.0))
		Expect(hi).To(Equal(11.0))
	})

	DescribeTable("symmetric tables",
		func(name string) {
			lift, drag, err := aero.Airfoil(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(lift.Sample(0)).To(Equal(0.0))
			for _, a := range []float64{3, 12, 30, 60} {
				Expect(lift.Sample(-a)).To(BeNumerically("~", -lift.Sample(a), 1e-12))
				Expect(drag.Sample(-a)).To(BeNumerically("~", drag.Sample(a), 1e-12))
			}
		},
		Entry("flat plate", "flat_plate"),
		Entry("zero", "zero"),
	)
})
