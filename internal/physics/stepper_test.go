package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/world"
)

var _ = Describe("Boundary steppers", func() {
	bounds := world.Vec2{X: 800, Y: 800}

	Describe("Discrete", func() {
		It("clamps a boundary overshoot and reflects with restitution", func() {
			// Particle at (795,400) moving +x already sits past the legal
			// maximum of 790; one step must land it exactly on the
			// boundary with the dampened, reversed velocity.
			p := world.Particle{Pos: world.Vec2{X: 795, Y: 400}, Vel: world.Vec2{X: 50, Y: 0}, Radius: 10}
			s := physics.NewDiscrete(0, 0.9)

			s.Step(&p, bounds, 1.0)

			Expect(p.Pos.X).To(Equal(790.0))
			Expect(p.Vel.X).To(BeNumerically("~", -45.0, 1e-12))
			Expect(p.Pos.Y).To(Equal(400.0))
			Expect(p.Vel.Y).To(Equal(0.0))
		})

		It("applies gravity to the vertical velocity only", func() {
			p := world.Particle{Pos: world.Vec2{X: 400, Y: 400}, Radius: 10}
			s := physics.NewDiscrete(100, 0.9)

			s.Step(&p, bounds, 0.5)

			Expect(p.Vel.X).To(Equal(0.0))
			Expect(p.Vel.Y).To(Equal(50.0))
			Expect(p.Pos.Y).To(Equal(425.0))
		})

		It("leaves an in-bounds particle untouched by the clamp", func() {
			p := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Vel: world.Vec2{X: 5, Y: -3}, Radius: 10}
			s := physics.NewDiscrete(0, 0.9)

			s.Step(&p, bounds, 1.0)

			Expect(p.Pos).To(Equal(world.Vec2{X: 105, Y: 97}))
			Expect(p.Vel).To(Equal(world.Vec2{X: 5, Y: -3}))
		})
	})

	Describe("Continuous", func() {
		It("bounces at the sub-frame time of impact and spends the rest of the frame reflected", func() {
			// 40 px short of the right boundary at 100 px/s: impact at
			// t=0.4, then 0.6 s back at 90 px/s.
			p := world.Particle{Pos: world.Vec2{X: 750, Y: 400}, Vel: world.Vec2{X: 100, Y: 0}, Radius: 10}
			s := physics.NewContinuous(0, 0.9)

			s.Step(&p, bounds, 1.0)

			Expect(p.Vel.X).To(BeNumerically("~", -90.0, 1e-12))
			Expect(p.Pos.X).To(BeNumerically("~", 790.0-90.0*0.6, 1e-9))
			Expect(p.Pos.Y).To(Equal(400.0))
		})

		It("re-establishes the invariant for a particle starting out of bounds", func() {
			p := world.Particle{Pos: world.Vec2{X: 795, Y: 400}, Vel: world.Vec2{X: 50, Y: 0}, Radius: 10}
			s := physics.NewContinuous(0, 0.9)

			s.Step(&p, bounds, 1.0)

			// Snapped to 790, reflected to -45, then a full second of
			// free flight.
			Expect(p.Vel.X).To(BeNumerically("~", -45.0, 1e-12))
			Expect(p.Pos.X).To(BeNumerically("~", 790.0-45.0, 1e-9))
		})

		It("never produces a boundary hit on a zero-velocity axis", func() {
			p := world.Particle{Pos: world.Vec2{X: 790, Y: 400}, Vel: world.Vec2{X: 0, Y: 20}, Radius: 10}
			s := physics.NewContinuous(0, 0.9)

			s.Step(&p, bounds, 1.0)

			Expect(p.Pos.X).To(Equal(790.0))
			Expect(p.Vel.X).To(Equal(0.0))
			Expect(p.Pos.Y).To(Equal(420.0))
		})

		It("resolves an exact corner hit on both axes", func() {
			// Equidistant from both boundaries with equal speeds: corner
			// hit at t=0.4, x reflecting first on the tie, y at the same
			// instant on the next sub-step.
			p := world.Particle{Pos: world.Vec2{X: 750, Y: 750}, Vel: world.Vec2{X: 100, Y: 100}, Radius: 10}
			s := physics.NewContinuous(0, 1.0)

			s.Step(&p, bounds, 0.5)

			Expect(p.Vel.X).To(Equal(-100.0))
			Expect(p.Vel.Y).To(Equal(-100.0))
			Expect(p.Pos.X).To(BeNumerically("~", 780.0, 1e-9))
			Expect(p.Pos.Y).To(BeNumerically("~", 780.0, 1e-9))
		})

		It("stays bounded on pathological multi-bounce frames", func() {
			// Legal span of 2 px at 1000 px/s wants ~500 bounces in one
			// frame; the iteration cap drops the leftover time instead.
			tiny := world.Vec2{X: 22, Y: 22}
			p := world.Particle{Pos: world.Vec2{X: 11, Y: 11}, Vel: world.Vec2{X: 1000, Y: 0}, Radius: 10}
			s := physics.NewContinuous(0, 1.0)

			s.Step(&p, tiny, 1.0)

			Expect(p.Pos.X).To(BeNumerically(">=", 10.0))
			Expect(p.Pos.X).To(BeNumerically("<=", 12.0))
		})
	})

	DescribeTable("the position invariant holds after stepping",
		func(name string) {
			w, err := world.New(world.SeedConfig{
				Count: 60, Width: 800, Height: 800, Radius: 10, MaxSpeed: 400, Seed: 99,
			})
			Expect(err).NotTo(HaveOccurred())

			s, err := physics.NewStepper(name, 980, 0.9)
			Expect(err).NotTo(HaveOccurred())

			for frame := 0; frame < 500; frame++ {
				for i := range w.Particles {
					s.Step(&w.Particles[i], w.Bounds, 1.0/240)
				}
				Expect(w.InBounds()).To(BeTrue(), "frame %d", frame)
			}
		},
		Entry("discrete", "discrete"),
		Entry("continuous", "continuous"),
	)

	Describe("restitution", func() {
		It("dampens the reflected component, never amplifies it", func() {
			for _, e := range []float64{0.0, 0.5, 0.9, 1.0} {
				p := world.Particle{Pos: world.Vec2{X: 780, Y: 400}, Vel: world.Vec2{X: 200, Y: 0}, Radius: 10}
				s := physics.NewContinuous(0, e)

				s.Step(&p, bounds, 0.1)

				Expect(math.Abs(p.Vel.X)).To(BeNumerically("~", 200*e, 1e-9))
			}
		})
	})

	Describe("NewStepper", func() {
		It("rejects unknown names", func() {
			_, err := physics.NewStepper("rk4", 9.81, 0.9)
			Expect(err).To(HaveOccurred())
		})

		It("builds every advertised stepper", func() {
			for _, name := range physics.StepperNames() {
				s, err := physics.NewStepper(name, 9.81, 0.9)
				Expect(err).NotTo(HaveOccurred())
				Expect(s).NotTo(BeNil())
			}
		})
	})
})
