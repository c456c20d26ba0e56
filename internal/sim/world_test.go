package sim_test

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/sim"
)

type recorder struct {
	frames [][]ball.Visual
}

func (r *recorder) Render(visuals []ball.Visual) {
	snap := make([]ball.Visual, len(visuals))
	copy(snap, visuals)
	r.frames = append(r.frames, snap)
}

type counter struct {
	observed int
}

func (c *counter) Name() string { return "observed" }
func (c *counter) Observe([]ball.Visual, []ball.Motion, float32) {
	c.observed++
}
func (c *counter) Value() float64 { return float64(c.observed) }
func (c *counter) Reset()         { c.observed = 0 }

func bare() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.ArenaRadius = 0
	cfg.Gravity = mgl32.Vec2{}
	cfg.Capacity = 64
	return cfg
}

func newWorld(cfg sim.Config, opts ...sim.Option) *sim.World {
	w, err := sim.New(cfg, opts...)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func add(w *sim.World, x, y, r float32, b ball.Behavior) int {
	i, err := w.AddBallWithBehavior(mgl32.Vec2{x, y}, mgl32.Vec3{1, 1, 1}, r, b)
	Expect(err).NotTo(HaveOccurred())
	return i
}

func expectPaired(w *sim.World) {
	Expect(w.Visuals()).To(HaveLen(w.BallCount()))
	Expect(w.Motions()).To(HaveLen(w.BallCount()))
	for i, m := range w.Motions() {
		Expect(m.ID).To(Equal(i))
	}
}

var _ = Describe("World", func() {
	Describe("construction", func() {
		It("adds the arena ball by default", func() {
			w := newWorld(sim.DefaultConfig())
			Expect(w.BallCount()).To(Equal(1))
			Expect(w.Capacity()).To(Equal(ball.DefaultCapacity))

			kind, err := w.Type(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(kind).To(Equal(ball.Constraint))

			r, _ := w.Radius(0)
			Expect(r).To(BeNumerically("~", 0.95, 1e-6))
			Expect(w.Phase()).To(Equal(sim.PhaseIdle))
		})

		DescribeTable("rejects invalid config",
			func(mutate func(*sim.Config)) {
				cfg := sim.DefaultConfig()
				mutate(&cfg)
				_, err := sim.New(cfg)
				Expect(err).To(HaveOccurred())
			},
			Entry("zero sub-steps", func(c *sim.Config) { c.SubSteps = 0 }),
			Entry("zero correction", func(c *sim.Config) { c.Correction = 0 }),
			Entry("correction above one", func(c *sim.Config) { c.Correction = 1.5 }),
			Entry("zero capacity", func(c *sim.Config) { c.Capacity = 0 }),
			Entry("negative arena", func(c *sim.Config) { c.ArenaRadius = -1 }),
		)
	})

	Describe("errors", func() {
		It("reports capacity exhaustion", func() {
			cfg := sim.DefaultConfig()
			cfg.Capacity = 2
			w := newWorld(cfg)

			_, err := w.AddBall(mgl32.Vec2{}, mgl32.Vec3{}, 0.1)
			Expect(err).NotTo(HaveOccurred())
			_, err = w.AddBall(mgl32.Vec2{}, mgl32.Vec3{}, 0.1)
			Expect(err).To(MatchError(ball.ErrCapacityExceeded))
			Expect(w.BallCount()).To(Equal(2))
		})

		It("reports out of range slots", func() {
			w := newWorld(sim.DefaultConfig())

			_, err := w.Colour(1)
			Expect(err).To(MatchError(ball.ErrIndexOutOfBounds))
			Expect(w.SetColour(5, mgl32.Vec3{})).To(MatchError(ball.ErrIndexOutOfBounds))
			Expect(w.ApplyAcceleration(-1, mgl32.Vec2{})).To(MatchError(ball.ErrIndexOutOfBounds))
			Expect(w.EraseBall(1)).To(MatchError(ball.ErrIndexOutOfBounds))
			_, err = w.Type(3)
			Expect(err).To(MatchError(ball.ErrIndexOutOfBounds))
		})
	})

	Describe("removal", func() {
		It("erases slot 0 by moving the last slot into it", func() {
			w := newWorld(bare())
			add(w, 0, 0, 0.1, ball.NormalBehavior())
			add(w, 0.5, 0, 0.1, ball.TriggerBehavior(nil, nil))
			add(w, -0.5, 0, 0.1, ball.SelectiveBehavior(nil))

			Expect(w.EraseBall(0)).To(Succeed())

			Expect(w.BallCount()).To(Equal(2))
			kind, _ := w.Type(0)
			Expect(kind).To(Equal(ball.Selective))
			p, _ := w.Position(0)
			Expect(p.X()).To(BeNumerically("~", -0.5, 1e-6))
			expectPaired(w)
		})

		It("never pops the last ball", func() {
			w := newWorld(sim.DefaultConfig())
			w.PopBall()
			Expect(w.BallCount()).To(Equal(1))
			Expect(w.EraseBall(0)).To(Succeed())
			Expect(w.BallCount()).To(Equal(1))
		})

		It("clears down to one ball", func() {
			w := newWorld(sim.DefaultConfig())
			for i := 0; i < 10; i++ {
				_, err := w.AddBall(mgl32.Vec2{float32(i) * 0.05, 0}, mgl32.Vec3{}, 0.02)
				Expect(err).NotTo(HaveOccurred())
			}
			w.Clear()
			Expect(w.BallCount()).To(Equal(1))
			kind, _ := w.Type(0)
			Expect(kind).To(Equal(ball.Constraint))
		})

		It("keeps both stores paired across mixed operations", func() {
			w := newWorld(sim.DefaultConfig())
			rng := rand.New(rand.NewSource(3))
			for n := 0; n < 200; n++ {
				switch rng.Intn(4) {
				case 0, 1:
					_, _ = w.AddBall(mgl32.Vec2{rng.Float32() - 0.5, rng.Float32() - 0.5}, mgl32.Vec3{}, 0.02)
				case 2:
					w.PopBall()
				case 3:
					_ = w.EraseBall(rng.Intn(w.BallCount()))
				}
				if n%10 == 0 {
					w.Update(1.0 / 60)
				}
				expectPaired(w)
			}
		})
	})

	Describe("drawing", func() {
		It("is idempotent and hands over the full buffer", func() {
			rec := &recorder{}
			cfg := sim.DefaultConfig()
			cfg.Capacity = 16
			w := newWorld(cfg, sim.WithRenderer(rec))
			_, _ = w.AddBall(mgl32.Vec2{0.1, 0.2}, mgl32.Vec3{0, 0, 1}, 0.05)
			w.Update(1.0 / 60)

			w.Draw()
			w.Draw()
			w.Draw()

			Expect(rec.frames).To(HaveLen(3))
			Expect(rec.frames[0]).To(HaveLen(16))
			Expect(rec.frames[1]).To(Equal(rec.frames[0]))
			Expect(rec.frames[2]).To(Equal(rec.frames[0]))
			Expect(rec.frames[0][2].Active).To(BeFalse())
		})
	})

	Describe("updating", func() {
		It("applies gravity to Normal balls only", func() {
			w := newWorld(func() sim.Config { c := bare(); c.Gravity = mgl32.Vec2{0, -1}; return c }())
			add(w, 0, 0, 0.01, ball.NormalBehavior())
			add(w, 0.5, 0, 0.01, ball.TriggerBehavior(nil, nil))
			add(w, -0.5, 0, 0.01, ball.SelectiveBehavior(nil))

			w.Update(1.0 / 60)

			for i := 0; i < w.BallCount(); i++ {
				kind, _ := w.Type(i)
				p, _ := w.Position(i)
				if kind == ball.Normal {
					Expect(p.Y()).To(BeNumerically("<", 0))
				} else {
					Expect(p.Y()).To(BeNumerically("==", 0))
				}
			}
		})

		It("reports velocity in units per second", func() {
			w := newWorld(func() sim.Config { c := bare(); c.Gravity = mgl32.Vec2{0, -1}; return c }())
			add(w, 0, 0, 0.01, ball.NormalBehavior())

			v, err := w.Velocity(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(mgl32.Vec2{}))

			// two sub-steps of 1/120: the last displacement is 2*g*sub^2
			w.Update(1.0 / 60)
			v, err = w.Velocity(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.X()).To(BeNumerically("~", 0, 1e-6))
			Expect(v.Y()).To(BeNumerically("~", -1.0/60, 1e-5))
			Expect(w.TopSpeed()).To(BeNumerically("~", 1.0/60, 1e-5))

			_, err = w.Velocity(4)
			Expect(err).To(MatchError(ball.ErrIndexOutOfBounds))
		})

		It("keeps balls inside the arena", func() {
			w := newWorld(sim.DefaultConfig())
			rng := rand.New(rand.NewSource(11))
			for i := 0; i < 30; i++ {
				_, err := w.AddBall(mgl32.Vec2{rng.Float32() - 0.5, rng.Float32() - 0.5}, mgl32.Vec3{}, 0.02)
				Expect(err).NotTo(HaveOccurred())
			}

			for n := 0; n < 300; n++ {
				w.Update(1.0 / 60)
			}

			for i, v := range w.Visuals() {
				if w.Motions()[i].Behavior.Kind() != ball.Normal {
					continue
				}
				Expect(v.Position.Len()).To(BeNumerically("<=", 0.95-v.Scale+0.02))
			}
		})

		It("separates overlapping balls", func() {
			w := newWorld(bare())
			add(w, 0, 0, 0.1, ball.NormalBehavior())
			add(w, 0.15, 0, 0.1, ball.NormalBehavior())
			add(w, 0.3, 0, 0.1, ball.NormalBehavior())

			for n := 0; n < 100; n++ {
				w.Update(1.0 / 60)
			}

			vs := w.Visuals()
			for i := range vs {
				for j := i + 1; j < len(vs); j++ {
					d := vs[i].Position.Sub(vs[j].Position).Len()
					Expect(d).To(BeNumerically(">=", vs[i].Scale+vs[j].Scale-1e-4))
				}
			}
		})

		It("observes metrics and observers once per update", func() {
			w := newWorld(sim.DefaultConfig())
			c := &counter{}
			w.AddMetric(c)

			for n := 0; n < 5; n++ {
				w.Update(1.0 / 60)
			}
			Expect(w.Metrics()).To(HaveKeyWithValue("observed", 5.0))
			Expect(w.Updates()).To(BeEquivalentTo(5))

			w.ResetMetrics()
			Expect(c.Value()).To(BeZero())
		})
	})

	Describe("callbacks", func() {
		var w *sim.World

		BeforeEach(func() {
			w = newWorld(bare())
		})

		It("hands trigger callbacks indices of the colliding slots", func() {
			calls := 0
			add(w, 0.3, 0, 0.02, ball.NormalBehavior())
			add(w, 0, 0, 0.05, ball.NormalBehavior())
			add(w, 0.03, 0, 0.1, ball.TriggerBehavior(func(self, other int) {
				calls++
				Expect(w.Phase()).To(Equal(sim.PhaseSolveCollisions))

				kind, err := w.Type(self)
				Expect(err).NotTo(HaveOccurred())
				Expect(kind).To(Equal(ball.Trigger))

				ps, _ := w.Position(self)
				po, _ := w.Position(other)
				rs, _ := w.Radius(self)
				ro, _ := w.Radius(other)
				Expect(ps.Sub(po).Len()).To(BeNumerically("<", rs+ro))
			}, nil))

			w.Update(1.0 / 60)
			Expect(calls).To(BeNumerically(">", 0))
		})

		It("defers erases requested from a trigger until the pass ends", func() {
			purge := ball.TriggerBehavior(func(_, other int) {
				if kind, _ := w.Type(other); kind == ball.Normal {
					Expect(w.EraseBall(other)).To(Succeed())
				}
				expectPaired(w)
			}, nil)
			add(w, 0, 0, 0.1, purge)
			add(w, 0.05, 0, 0.02, ball.NormalBehavior())
			add(w, -0.05, 0, 0.02, ball.NormalBehavior())
			add(w, 0.8, 0, 0.02, ball.NormalBehavior())

			w.Update(1.0 / 60)

			Expect(w.BallCount()).To(Equal(2))
			kinds := map[ball.Kind]int{}
			for i := 0; i < w.BallCount(); i++ {
				k, _ := w.Type(i)
				kinds[k]++
			}
			Expect(kinds).To(Equal(map[ball.Kind]int{ball.Trigger: 1, ball.Normal: 1}))
			expectPaired(w)
		})

		It("removes a ball erased twice in one pass only once", func() {
			eraser := ball.TriggerBehavior(func(_, other int) {
				if kind, _ := w.Type(other); kind == ball.Normal {
					_ = w.EraseBall(other)
				}
			}, nil)
			add(w, -0.02, 0, 0.05, eraser)
			add(w, 0.02, 0, 0.05, eraser)
			add(w, 0, 0, 0.02, ball.NormalBehavior())
			add(w, 0.9, 0, 0.02, ball.NormalBehavior())

			w.Update(1.0 / 60)

			Expect(w.BallCount()).To(Equal(3))
		})

		It("applies pops and clear requested from a trigger after the pass", func() {
			add(w, 0, 0, 0.1, ball.TriggerBehavior(func(_, _ int) {
				w.Clear()
				Expect(w.BallCount()).To(BeNumerically(">", 1))
			}, nil))
			add(w, 0.05, 0, 0.02, ball.NormalBehavior())
			add(w, 0.9, 0, 0.02, ball.NormalBehavior())

			w.Update(1.0 / 60)
			Expect(w.BallCount()).To(Equal(1))
		})

		It("lets a trigger add balls immediately", func() {
			spawned := false
			add(w, 0, 0, 0.1, ball.TriggerBehavior(func(_, _ int) {
				if spawned {
					return
				}
				spawned = true
				before := w.BallCount()
				_, err := w.AddBall(mgl32.Vec2{0.9, 0.9}, mgl32.Vec3{}, 0.01)
				Expect(err).NotTo(HaveOccurred())
				Expect(w.BallCount()).To(Equal(before + 1))
			}, nil))
			add(w, 0.05, 0, 0.02, ball.NormalBehavior())

			w.Update(1.0 / 60)
			Expect(w.BallCount()).To(Equal(3))
		})

		It("fires on_exit once the pair separates", func() {
			exits := 0
			add(w, 0, 0, 0.1, ball.TriggerBehavior(nil, func(self, other int) {
				exits++
				k, _ := w.Type(self)
				Expect(k).To(Equal(ball.Trigger))
			}))
			mover := add(w, 0.05, 0, 0.02, ball.NormalBehavior())

			w.Update(1.0 / 60)
			Expect(exits).To(BeZero())

			for i := 0; i < w.BallCount(); i++ {
				if k, _ := w.Type(i); k == ball.Normal {
					mover = i
				}
			}
			Expect(w.ApplyAcceleration(mover, mgl32.Vec2{50000, 0})).To(Succeed())
			for n := 0; n < 10; n++ {
				w.Update(1.0 / 60)
			}
			Expect(exits).To(Equal(1))
		})

		It("lets a selective ball push only admitted balls", func() {
			blue := mgl32.Vec3{0, 0, 1}
			add(w, 0, 0, 0.1, ball.SelectiveBehavior(func(other int) bool {
				c, _ := w.Colour(other)
				return c == blue
			}))
			_, _ = w.AddBall(mgl32.Vec2{0.15, 0}, blue, 0.1)
			_, _ = w.AddBall(mgl32.Vec2{-0.15, 0}, mgl32.Vec3{1, 0, 0}, 0.1)

			w.Update(1.0 / 60)

			for i := 0; i < w.BallCount(); i++ {
				k, _ := w.Type(i)
				p, _ := w.Position(i)
				c, _ := w.Colour(i)
				switch {
				case k == ball.Selective:
					Expect(p.X()).To(BeNumerically("==", 0))
				case c == blue:
					Expect(p.X()).To(BeNumerically(">", 0.15))
				default:
					Expect(p.X()).To(BeNumerically("~", -0.15, 1e-6))
				}
			}
		})
	})
})

var _ = Describe("Config", func() {
	It("defaults to two sub-steps and half correction", func() {
		cfg := sim.DefaultConfig()
		Expect(cfg.SubSteps).To(Equal(2))
		Expect(cfg.Correction).To(BeNumerically("~", 0.5, 1e-6))
		Expect(cfg.Gravity.Y()).To(BeNumerically("<", 0))
		Expect(cfg.Validate()).To(Succeed())
	})
})
