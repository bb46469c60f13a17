package aero_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// recordingBody is a body with identity orientation and a fixed point
// velocity that records every applied force.
type recordingBody struct {
	velocity mgl64.Vec3
	forces   []mgl64.Vec3
	points   []mgl64.Vec3
}

func (b *recordingBody) PointVelocity(mgl64.Vec3) mgl64.Vec3               { return b.velocity }
func (b *recordingBody) InverseTransformDirection(d mgl64.Vec3) mgl64.Vec3 { return d }
func (b *recordingBody) AddForceAtPoint(force, point mgl64.Vec3) {
	b.forces = append(b.forces, force)
	b.points = append(b.points, point)
}

func (b *recordingBody) total() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, f := range b.forces {
		sum = sum.Add(f)
	}
	return sum
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

var _ = Describe("Wing", func() {
	var (
		lift, drag *aero.Curve
		offset     mgl64.Vec3
		wing       *aero.Wing
	)

	BeforeEach(func() {
		var err error
		lift, drag, err = aero.Airfoil("flat_plate")
		Expect(err).NotTo(HaveOccurred())
		offset = mgl64.Vec3{0.5, 0, 0}
		wing, err = aero.NewWing(aero.WingParams{
			Name: "wing", Offset: offset, Area: 10, Lift: lift, Drag: drag,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Context("construction", func() {
		DescribeTable("rejects bad area",
			func(area float64) {
				_, err := aero.NewWing(aero.WingParams{Area: area})
				Expect(err).To(MatchError(aero.ErrNonPositiveArea))
			},
			Entry("zero", 0.0),
			Entry("negative", -1.0),
			Entry("NaN", math.NaN()),
			Entry("Inf", math.Inf(1)),
		)

		It("rejects a normal along the chord", func() {
			_, err := aero.NewWing(aero.WingParams{Area: 1, Normal: dynamo.Forward})
			Expect(err).To(HaveOccurred())
		})

		It("defaults to an upward normal and a rightward span", func() {
			Expect(wing.Normal()).To(Equal(dynamo.Up))
			Expect(wing.Span()).To(Equal(dynamo.Right))
			Expect(wing.Offset()).To(Equal(offset))
			Expect(wing.Area()).To(Equal(10.0))
			Expect(wing.Name()).To(Equal("wing"))
		})

		It("uses zero coefficients without curves", func() {
			w, err := aero.NewWing(aero.WingParams{Area: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.LiftCoefficient(7)).To(Equal(0.0))
			Expect(w.DragCoefficient(7)).To(Equal(0.0))
		})
	})

	Context("force magnitudes", func() {
		It("scales with v² * C * A", func() {
			Expect(wing.Lift(12, 20)).To(BeNumerically("~", 400*1.3*10, 1e-9))
			Expect(wing.Drag(12, 20)).To(BeNumerically("~", 400*0.06*10, 1e-9))
		})

		It("applies a configured pressure factor", func() {
			w, err := aero.NewWing(aero.WingParams{Area: 10, Lift: lift, Drag: drag, PressureFactor: 0.5 * 1.225})
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Lift(12, 20)).To(BeNumerically("~", 0.6125*400*1.3*10, 1e-9))
		})

		It("gives zero lift and positive drag at zero angle of attack on a symmetric airfoil", func() {
			Expect(wing.Lift(0, 50)).To(Equal(0.0))
			Expect(wing.Drag(0, 50)).To(BeNumerically(">", 0))
		})
	})

	Context("angle of attack", func() {
		DescribeTable("is measured in degrees in the chord/normal plane",
			func(v mgl64.Vec3, want float64) {
				Expect(wing.AngleOfAttack(v)).To(BeNumerically("~", want, 1e-9))
			},
			Entry("level", mgl64.Vec3{10, 0, 0}, 0.0),
			Entry("descending", mgl64.Vec3{10, -10, 0}, 45.0),
			Entry("climbing", mgl64.Vec3{10, 10, 0}, -45.0),
			Entry("sideslip ignored", mgl64.Vec3{10, 0, 5}, 0.0),
			Entry("zero", mgl64.Vec3{}, 0.0),
		)
	})

	Context("applying forces", func() {
		It("applies nothing at zero airspeed", func() {
			body := &recordingBody{}
			load := wing.ApplyForces(body)
			Expect(body.forces).To(BeEmpty())
			Expect(load).To(Equal(aero.Airload{}))
		})

		It("applies nothing when moving with the wind", func() {
			body := &recordingBody{velocity: mgl64.Vec3{5, 0, 0}}
			wing.ApplyForcesInWind(body, mgl64.Vec3{5, 0, 0})
			Expect(body.forces).To(BeEmpty())
		})

		It("produces only backward drag in level flight", func() {
			body := &recordingBody{velocity: mgl64.Vec3{30, 0, 0}}
			load := wing.ApplyForces(body)

			Expect(load.AngleOfAttack).To(BeNumerically("~", 0, 1e-12))
			Expect(load.Lift.Len()).To(BeNumerically("~", 0, 1e-12))
			Expect(load.Drag[0]).To(BeNumerically("<", 0))
			Expect(body.points).To(HaveEach(offset))
			Expect(body.total().ApproxEqualThreshold(load.Total(), 1e-12)).To(BeTrue())
		})

		It("lifts upward when the air arrives from below", func() {
			body := &recordingBody{velocity: mgl64.Vec3{30, -3, 0}}
			load := wing.ApplyForces(body)

			Expect(load.AngleOfAttack).To(BeNumerically(">", 0))
			Expect(load.Lift[1]).To(BeNumerically(">", 0))
			Expect(load.Airspeed).To(BeNumerically("~", math.Sqrt(909), 1e-9))
		})

		It("keeps lift orthogonal to drag and to the airflow", func() {
			velocities := []mgl64.Vec3{
				{30, -3, 0}, {20, 4, 2}, {-5, -5, 1}, {10, -1, -8},
			}
			for _, v := range velocities {
				body := &recordingBody{velocity: v}
				load := wing.ApplyForces(body)
				if load.Lift.Len() == 0 {
					continue
				}
				Expect(load.Lift.Dot(load.Drag)).To(BeNumerically("~", 0, 1e-6))
				Expect(load.Lift.Dot(v)).To(BeNumerically("~", 0, 1e-6))
				Expect(load.Lift.Dot(wing.Span())).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("produces no lift for purely spanwise airflow", func() {
			body := &recordingBody{velocity: mgl64.Vec3{0, 0, 12}}
			load := wing.ApplyForces(body)
			Expect(load.Lift).To(Equal(mgl64.Vec3{}))
			Expect(isFinite(load.Drag)).To(BeTrue())
		})

		It("pushes a vertical fin sideways against sideslip", func() {
			fin, err := aero.NewWing(aero.WingParams{
				Name: "rudder", Area: 2, Normal: dynamo.Right, Lift: lift, Drag: drag,
			})
			Expect(err).NotTo(HaveOccurred())

			// body slides left, air arrives from the left
			body := &recordingBody{velocity: mgl64.Vec3{30, 0, -3}}
			load := fin.ApplyForces(body)
			Expect(load.AngleOfAttack).To(BeNumerically(">", 0))
			Expect(load.Lift[2]).To(BeNumerically(">", 0))
			Expect(load.Lift[1]).To(BeNumerically("~", 0, 1e-12))
		})

		DescribeTable("gives a vertical fin no side force in reversed flow without sideslip",
			func(v mgl64.Vec3) {
				nacaLift, nacaDrag, err := aero.Airfoil("naca0015")
				Expect(err).NotTo(HaveOccurred())
				fin, err := aero.NewWing(aero.WingParams{
					Name: "rudder", Area: 2, Normal: dynamo.Right, Lift: nacaLift, Drag: nacaDrag,
				})
				Expect(err).NotTo(HaveOccurred())

				body := &recordingBody{velocity: v}
				load := fin.ApplyForces(body)
				Expect(math.Abs(load.AngleOfAttack)).To(BeNumerically("~", 180, 1e-9))
				Expect(load.Lift.Len()).To(BeNumerically("~", 0, 1e-12))
				Expect(body.total()[2]).To(BeNumerically("~", 0, 1e-12))
				Expect(body.total()[0]).To(BeNumerically(">", 0))
			},
			Entry("positive zero", mgl64.Vec3{-50, 0, 0}),
			Entry("negative zero", mgl64.Vec3{-50, 0, math.Copysign(0, -1)}),
		)

		It("folds trailing-edge-first angles onto the mirrored section", func() {
			Expect(aero.FoldAngle(180)).To(Equal(0.0))
			Expect(aero.FoldAngle(-180)).To(Equal(0.0))
			Expect(aero.FoldAngle(170)).To(BeNumerically("~", -10, 1e-12))
			Expect(aero.FoldAngle(-135)).To(BeNumerically("~", 45, 1e-12))
			Expect(aero.FoldAngle(30)).To(Equal(30.0))
			Expect(wing.LiftCoefficient(170)).To(BeNumerically("~", wing.LiftCoefficient(-10), 1e-12))
			Expect(wing.DragCoefficient(180)).To(BeNumerically("~", wing.DragCoefficient(0), 1e-12))
		})

		It("writes into a rigid body at the wing offset", func() {
			body, err := dynamo.NewRigidBody(dynamo.BodyParams{
				Mass:     100,
				Inertia:  dynamo.CubeInertiaTensor(mgl64.Vec3{1, 1, 1}, 100),
				Velocity: mgl64.Vec3{40, -4, 0},
			})
			Expect(err).NotTo(HaveOccurred())

			load := wing.ApplyForces(body)
			Expect(body.Force().ApproxEqualThreshold(load.Total(), 1e-9)).To(BeTrue())
			Expect(body.Torque().ApproxEqualThreshold(offset.Cross(load.Total()), 1e-9)).To(BeTrue())
			Expect(body.Position).To(Equal(mgl64.Vec3{}))
		})

		It("stays attitude independent on a rotated body", func() {
			body, err := dynamo.NewRigidBody(dynamo.BodyParams{
				Mass:        100,
				Inertia:     dynamo.CubeInertiaTensor(mgl64.Vec3{1, 1, 1}, 100),
				Orientation: mgl64.QuatRotate(math.Pi/3, dynamo.Forward),
			})
			Expect(err).NotTo(HaveOccurred())
			// fly along the body's own forward axis with air from body-below
			body.Velocity = body.TransformDirection(mgl64.Vec3{30, -3, 0})

			load := wing.ApplyForces(body)
			Expect(load.AngleOfAttack).To(BeNumerically("~", math.Atan2(3, 30)*180/math.Pi, 1e-9))
			Expect(load.Lift[1]).To(BeNumerically(">", 0))
			Expect(load.Lift[2]).To(BeNumerically("~", 0, 1e-9))
		})
	})
})
