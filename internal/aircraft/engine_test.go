package aircraft_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightsim/internal/aircraft"
)

var _ = Describe("Engine", func() {
	DescribeTable("SetThrottle clamps",
		func(in, want float64) {
			e := aircraft.Engine{MaxThrust: 200}
			e.SetThrottle(in)
			Expect(e.Throttle).To(Equal(want))
			Expect(e.Thrust()).To(Equal(200 * want))
		},
		Entry("inside", 0.5, 0.5),
		Entry("below", -1.0, 0.0),
		Entry("above", 1.5, 1.0),
		Entry("nan", math.NaN(), 0.0),
	)
})
