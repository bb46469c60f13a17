package aircraft_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/dynamo"
)

func naca() (*aero.Curve, *aero.Curve) {
	lift, drag, err := aero.Airfoil("naca0015")
	Expect(err).NotTo(HaveOccurred())
	return lift, drag
}

var _ = Describe("Airplane", func() {
	Describe("New", func() {
		It("uses the default three-surface layout", func() {
			a, err := aircraft.New(aircraft.Params{Mass: 10})
			Expect(err).NotTo(HaveOccurred())

			names := []string{}
			for _, w := range a.Wings() {
				names = append(names, w.Name())
			}
			Expect(names).To(Equal([]string{"wing", "elevator", "rudder"}))

			rudder, ok := a.Wing("rudder")
			Expect(ok).To(BeTrue())
			Expect(rudder.Normal()).To(Equal(dynamo.Right))
			Expect(rudder.Offset()).To(Equal(mgl64.Vec3{-1, 0.1, 0}))

			_, ok = a.Wing("canard")
			Expect(ok).To(BeFalse())
		})

		It("rejects an invalid mass", func() {
			_, err := aircraft.New(aircraft.Params{Mass: 0})
			Expect(errors.Is(err, dynamo.ErrNonPositiveMass)).To(BeTrue())
		})

		It("rejects duplicate surface names", func() {
			wings := aircraft.DefaultWings(nil, nil)
			wings[1].Name = "wing"
			_, err := aircraft.New(aircraft.Params{Mass: 10, Wings: wings})
			Expect(errors.Is(err, aircraft.ErrDuplicateWing)).To(BeTrue())
		})

		It("rejects an invalid surface", func() {
			wings := aircraft.DefaultWings(nil, nil)
			wings[0].Area = -1
			_, err := aircraft.New(aircraft.Params{Mass: 10, Wings: wings})
			Expect(errors.Is(err, aero.ErrNonPositiveArea)).To(BeTrue())
		})

		It("clamps the initial throttle", func() {
			a, err := aircraft.New(aircraft.Params{Mass: 10, Engine: aircraft.Engine{MaxThrust: 100, Throttle: 3}})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Engine().Throttle).To(Equal(1.0))
		})
	})

	Describe("Update", func() {
		It("falls freely with zero coefficients", func() {
			a, err := aircraft.New(aircraft.Params{Mass: 10})
			Expect(err).NotTo(HaveOccurred())

			const dt = 0.01
			const n = 100
			for i := 0; i < n; i++ {
				a.Update(dt)
			}

			body := a.Body()
			Expect(body.Velocity[1]).To(BeNumerically("~", -dynamo.Gravity*n*dt, 1e-9))
			Expect(body.Velocity[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(body.Velocity[2]).To(BeNumerically("~", 0, 1e-12))
			Expect(body.Position[1]).To(BeNumerically("~", -dynamo.Gravity*dt*dt*n*(n+1)/2, 1e-9))
			Expect(body.Orientation.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-12)).To(BeTrue())
		})

		It("clears the accumulators after each frame", func() {
			lift, drag := naca()
			a, err := aircraft.New(aircraft.Params{
				Mass:     10,
				Velocity: mgl64.Vec3{30, 0, 0},
				Wings:    aircraft.DefaultWings(lift, drag),
			})
			Expect(err).NotTo(HaveOccurred())

			a.Update(0.01)
			Expect(a.Body().Force()).To(Equal(mgl64.Vec3{}))
			Expect(a.Body().Torque()).To(Equal(mgl64.Vec3{}))
		})

		It("slows down from drag in level flight", func() {
			lift, drag := naca()
			a, err := aircraft.New(aircraft.Params{
				Mass:           100,
				Velocity:       mgl64.Vec3{50, 0, 0},
				DisableGravity: true,
				Wings:          aircraft.DefaultWings(lift, drag),
			})
			Expect(err).NotTo(HaveOccurred())

			a.Update(0.01)
			Expect(a.Body().Velocity[0]).To(BeNumerically("<", 50))
			for _, load := range a.Loads() {
				Expect(load.Airspeed).To(BeNumerically("~", 50, 1e-9))
				Expect(load.AngleOfAttack).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("climbs when pitched nose up", func() {
			lift, drag := naca()
			a, err := aircraft.New(aircraft.Params{
				Mass:           100,
				Velocity:       mgl64.Vec3{50, 0, 0},
				Orientation:    mgl64.QuatRotate(mgl64.DegToRad(5), dynamo.Right),
				DisableGravity: true,
				Wings:          aircraft.DefaultWings(lift, drag),
			})
			Expect(err).NotTo(HaveOccurred())

			a.Update(0.01)
			Expect(a.Body().Velocity[1]).To(BeNumerically(">", 0))
			Expect(a.Loads()[0].AngleOfAttack).To(BeNumerically("~", 5, 1e-6))
		})

		It("accelerates under thrust", func() {
			a, err := aircraft.New(aircraft.Params{
				Mass:           10,
				DisableGravity: true,
				Engine:         aircraft.Engine{MaxThrust: 50, Throttle: 0.5},
			})
			Expect(err).NotTo(HaveOccurred())

			const dt = 0.1
			for i := 0; i < 10; i++ {
				a.Update(dt)
			}
			Expect(a.Body().Velocity[0]).To(BeNumerically("~", 25.0/10*10*dt, 1e-9))
			Expect(a.Body().AngularVelocity).To(Equal(mgl64.Vec3{}))
		})

		It("stays finite through a long glide", func() {
			lift, drag := naca()
			a, err := aircraft.New(aircraft.Params{
				Mass:     1000,
				Position: mgl64.Vec3{0, 1000, 0},
				Velocity: mgl64.Vec3{60, 0, 0},
				Wings:    aircraft.DefaultWings(lift, drag),
			})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 5000; i++ {
				a.Update(1.0 / 120)
			}
			Expect(a.Body().IsValid()).To(BeTrue())
			Expect(a.Body().Orientation.Len()).To(BeNumerically("~", 1, 1e-9))
		})
	})

	Describe("Telemetry", func() {
		It("reports airspeed relative to the wind", func() {
			a, err := aircraft.New(aircraft.Params{
				Mass:     10,
				Position: mgl64.Vec3{0, 250, 0},
				Velocity: mgl64.Vec3{30, -2, 0},
				Wind:     mgl64.Vec3{-10, 0, 0},
				Engine:   aircraft.Engine{MaxThrust: 100, Throttle: 0.25},
			})
			Expect(err).NotTo(HaveOccurred())

			t := a.Telemetry()
			Expect(t.Altitude).To(Equal(250.0))
			Expect(t.Airspeed).To(BeNumerically("~", math.Hypot(40, 2), 1e-12))
			Expect(t.VerticalSpeed).To(Equal(-2.0))
			Expect(t.Throttle).To(Equal(0.25))
			Expect(t.Heading).To(BeNumerically("~", 0, 1e-9))
		})

		It("reports angle of attack before the first update", func() {
			a, err := aircraft.New(aircraft.Params{
				Mass:        10,
				Orientation: mgl64.QuatRotate(mgl64.DegToRad(5), dynamo.Right),
				Velocity:    mgl64.Vec3{50, 0, 0},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Telemetry().AngleOfAttack).To(BeNumerically("~", 5, 1e-9))
		})

		It("measures angle of attack against the wind", func() {
			a, err := aircraft.New(aircraft.Params{
				Mass:     10,
				Velocity: mgl64.Vec3{40, 0, 0},
				Wind:     mgl64.Vec3{0, 40, 0},
			})
			Expect(err).NotTo(HaveOccurred())
			// an updraft reads as air arriving from below
			Expect(a.Telemetry().AngleOfAttack).To(BeNumerically("~", 45, 1e-9))
		})

		It("reports attitude in degrees", func() {
			a, err := aircraft.New(aircraft.Params{
				Mass:        10,
				Orientation: mgl64.QuatRotate(mgl64.DegToRad(90), dynamo.Up),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(a.Telemetry().Heading)).To(BeNumerically("~", 90, 1e-6))
		})
	})
})
