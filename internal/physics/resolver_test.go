package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlebox/internal/physics"
	"github.com/san-kum/particlebox/internal/world"
)

var _ = Describe("Pairwise resolver", func() {
	var r *physics.Resolver

	BeforeEach(func() {
		r = physics.NewResolver(0.9, 0.2, 0.01)
	})

	It("is a no-op when squared center distance is at least (ra+rb)^2", func() {
		a := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Vel: world.Vec2{X: 30, Y: 0}, Radius: 10}
		b := world.Particle{Pos: world.Vec2{X: 120, Y: 100}, Vel: world.Vec2{X: -30, Y: 0}, Radius: 10}
		a0, b0 := a, b

		r.Resolve(&a, &b)

		Expect(a).To(Equal(a0))
		Expect(b).To(Equal(b0))
	})

	It("applies no impulse to a separating pair", func() {
		a := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Vel: world.Vec2{X: -10, Y: 0}, Radius: 10}
		b := world.Particle{Pos: world.Vec2{X: 115, Y: 100}, Vel: world.Vec2{X: 10, Y: 0}, Radius: 10}

		r.Resolve(&a, &b)

		Expect(a.Vel).To(Equal(world.Vec2{X: -10, Y: 0}))
		Expect(b.Vel).To(Equal(world.Vec2{X: 10, Y: 0}))
	})

	It("dampens a head-on collision by the restitution coefficient", func() {
		a := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Vel: world.Vec2{X: 10, Y: 0}, Radius: 10}
		b := world.Particle{Pos: world.Vec2{X: 115, Y: 100}, Vel: world.Vec2{X: -10, Y: 0}, Radius: 10}

		r.Resolve(&a, &b)

		// Relative normal speed 20 in, 20*0.9 out, split evenly.
		Expect(a.Vel.X).To(BeNumerically("~", -9.0, 1e-12))
		Expect(b.Vel.X).To(BeNumerically("~", 9.0, 1e-12))
		Expect(a.Vel.Y).To(Equal(0.0))
		Expect(b.Vel.Y).To(Equal(0.0))
	})

	It("never amplifies the relative normal speed", func() {
		for _, e := range []float64{0.0, 0.5, 0.9, 1.0} {
			r := physics.NewResolver(e, 0.2, 0.01)
			a := world.Particle{Pos: world.Vec2{X: 0, Y: 0}, Vel: world.Vec2{X: 40, Y: 12}, Radius: 10}
			b := world.Particle{Pos: world.Vec2{X: 14, Y: 8}, Vel: world.Vec2{X: -25, Y: -4}, Radius: 10}

			normal := b.Pos.Sub(a.Pos).Normalize()
			before := b.Vel.Sub(a.Vel).Dot(normal)

			r.Resolve(&a, &b)

			after := b.Vel.Sub(a.Vel).Dot(normal)
			Expect(math.Abs(after)).To(BeNumerically("<=", e*math.Abs(before)+1e-9))
		}
	})

	It("pushes a motionless overlapping pair apart along the x axis only", func() {
		a := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Radius: 10}
		b := world.Particle{Pos: world.Vec2{X: 105, Y: 100}, Radius: 10}

		// Fractional correction: iterate until the penetration is inside
		// the slop, as the frame loop would over successive frames.
		for i := 0; i < 200; i++ {
			r.Resolve(&a, &b)
		}

		Expect(a.Pos.Y).To(Equal(100.0))
		Expect(b.Pos.Y).To(Equal(100.0))
		Expect(a.Vel).To(Equal(world.Vec2{}))
		Expect(b.Vel).To(Equal(world.Vec2{}))

		// Symmetric displacement around the original midpoint.
		Expect(a.Pos.X + b.Pos.X).To(BeNumerically("~", 205.0, 1e-9))
		Expect(b.Pos.X - a.Pos.X).To(BeNumerically(">=", 20.0-0.01-1e-9))
	})

	It("substitutes an arbitrary normal for coincident centers", func() {
		a := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Radius: 10}
		b := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Radius: 10}

		r.Resolve(&a, &b)

		Expect(a.Pos.X).To(BeNumerically("<", 100.0))
		Expect(b.Pos.X).To(BeNumerically(">", 100.0))
		Expect(a.Pos.IsValid()).To(BeTrue())
		Expect(b.Pos.IsValid()).To(BeTrue())
	})

	It("tolerates penetration inside the slop without correcting", func() {
		r := physics.NewResolver(0.9, 0.2, 0.5)
		a := world.Particle{Pos: world.Vec2{X: 100, Y: 100}, Radius: 10}
		b := world.Particle{Pos: world.Vec2{X: 119.6, Y: 100}, Radius: 10}
		a0, b0 := a, b

		r.Resolve(&a, &b)

		Expect(a).To(Equal(a0))
		Expect(b).To(Equal(b0))
	})

	Describe("ResolveAll", func() {
		It("visits every unordered pair once, in index order", func() {
			w := &world.World{
				Particles: []world.Particle{
					{Pos: world.Vec2{X: 100, Y: 100}, Radius: 10},
					{Pos: world.Vec2{X: 112, Y: 100}, Radius: 10},
					{Pos: world.Vec2{X: 124, Y: 100}, Radius: 10},
				},
				Bounds: world.Vec2{X: 800, Y: 800},
			}

			r.ResolveAll(w)

			// Middle particle overlaps both neighbors; the symmetric
			// corrections cancel and the outer two move outward.
			Expect(w.Particles[0].Pos.X).To(BeNumerically("<", 100.0))
			Expect(w.Particles[2].Pos.X).To(BeNumerically(">", 124.0))
		})

		It("is deterministic for identical worlds", func() {
			make3 := func() *world.World {
				w, err := world.New(world.SeedConfig{
					Count: 40, Width: 300, Height: 300, Radius: 12, MaxSpeed: 80, Seed: 5,
				})
				Expect(err).NotTo(HaveOccurred())
				return w
			}

			w1, w2 := make3(), make3()
			s1 := physics.NewContinuous(980, 0.9)
			s2 := physics.NewContinuous(980, 0.9)

			for frame := 0; frame < 300; frame++ {
				for i := range w1.Particles {
					s1.Step(&w1.Particles[i], w1.Bounds, 1.0/120)
					s2.Step(&w2.Particles[i], w2.Bounds, 1.0/120)
				}
				r.ResolveAll(w1)
				r.ResolveAll(w2)
			}

			v1, v2 := w1.StateVector(), w2.StateVector()
			for i := range v1 {
				Expect(v1[i]).To(Equal(v2[i]), "state index %d", i)
			}
		})
	})
})
