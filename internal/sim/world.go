package sim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/integrators"
	"github.com/san-kum/parched/internal/physics"
)

// pending holds structural changes requested from inside a collision pass.
type pending struct {
	erase []int
	pops  int
	clear bool
}

func (p *pending) empty() bool {
	return len(p.erase) == 0 && p.pops == 0 && !p.clear
}

// World owns the ball stores and runs the fixed sub-step loop. It is not safe
// for concurrent use; callbacks run on the calling goroutine and may call back
// into the world.
type World struct {
	cfg        Config
	set        *ball.Set
	integrator Integrator
	resolver   *physics.Resolver
	renderer   Renderer
	metrics    []Metric
	observers  []Observer
	log        *zap.Logger

	phase   Phase
	pending pending
	updates uint64
	lastSub float32
}

type Option func(*World)

func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

func WithRenderer(r Renderer) Option {
	return func(w *World) { w.renderer = r }
}

func WithIntegrator(i Integrator) Option {
	return func(w *World) {
		if i != nil {
			w.integrator = i
		}
	}
}

func New(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		cfg:        cfg,
		set:        ball.NewSet(cfg.Capacity),
		integrator: integrators.NewVerlet(),
		resolver:   physics.NewResolver(cfg.Correction),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if cfg.ArenaRadius > 0 {
		if _, err := w.AddBallWithBehavior(mgl32.Vec2{}, cfg.ArenaColour, cfg.ArenaRadius, ball.ConstraintBehavior()); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) AddMetric(m Metric)     { w.metrics = append(w.metrics, m) }
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

func (w *World) Config() Config  { return w.cfg }
func (w *World) Phase() Phase    { return w.phase }
func (w *World) BallCount() int  { return w.set.Len() }
func (w *World) Capacity() int   { return w.set.Capacity() }
func (w *World) Updates() uint64 { return w.updates }

// AddBall adds a Normal ball at rest.
func (w *World) AddBall(pos mgl32.Vec2, colour mgl32.Vec3, radius float32) (int, error) {
	return w.AddBallWithBehavior(pos, colour, radius, ball.NormalBehavior())
}

// AddBallWithBehavior appends a ball and returns its slot. It is applied
// immediately even during a collision pass, since appending moves no slot.
func (w *World) AddBallWithBehavior(pos mgl32.Vec2, colour mgl32.Vec3, radius float32, b ball.Behavior) (int, error) {
	i, err := w.set.Push(ball.Visual{Position: pos, Colour: colour, Scale: radius}, b)
	if err != nil {
		w.log.Warn("add ball refused", zap.Int("count", w.set.Len()), zap.Error(err))
		return -1, err
	}
	return i, nil
}

// PopBall removes the most recently added slot. The last remaining ball is
// never removed.
func (w *World) PopBall() {
	if w.phase == PhaseSolveCollisions {
		w.pending.pops++
		return
	}
	w.pop()
}

// EraseBall removes slot i by moving the last slot into it.
func (w *World) EraseBall(i int) error {
	if _, err := w.set.Visual(i); err != nil {
		return err
	}
	if w.phase == PhaseSolveCollisions {
		w.pending.erase = append(w.pending.erase, i)
		return nil
	}
	w.erase(i)
	return nil
}

// Clear removes every ball but one.
func (w *World) Clear() {
	if w.phase == PhaseSolveCollisions {
		w.pending.clear = true
		return
	}
	w.clear()
}

func (w *World) pop() {
	if w.set.Len() <= 1 {
		w.log.Debug("pop refused", zap.Int("count", w.set.Len()))
		return
	}
	w.set.Pop()
}

func (w *World) erase(i int) {
	if w.set.Len() <= 1 {
		w.log.Debug("erase refused", zap.Int("index", i), zap.Int("count", w.set.Len()))
		return
	}
	if err := w.set.SwapRemove(i); err != nil {
		w.log.Debug("erase skipped", zap.Int("index", i), zap.Error(err))
	}
}

func (w *World) clear() {
	for w.set.Len() > 1 {
		w.set.Pop()
	}
	w.resolver.Reset()
}

// flush applies deferred removals: erases from the highest slot down so no
// pending index is disturbed, then pops, then clear.
func (w *World) flush() {
	if w.pending.empty() {
		return
	}
	p := w.pending
	w.pending = pending{erase: p.erase[:0]}

	if len(p.erase) > 0 {
		sort.Sort(sort.Reverse(sort.IntSlice(p.erase)))
		last := -1
		for _, i := range p.erase {
			if i == last {
				continue
			}
			last = i
			w.erase(i)
		}
	}
	for ; p.pops > 0; p.pops-- {
		w.pop()
	}
	if p.clear {
		w.clear()
	}
}

// ApplyAcceleration adds a to the acceleration slot i accumulates until the
// next integration.
func (w *World) ApplyAcceleration(i int, a mgl32.Vec2) error {
	m, err := w.set.Motion(i)
	if err != nil {
		return err
	}
	m.Acceleration = m.Acceleration.Add(a)
	return nil
}

func (w *World) Colour(i int) (mgl32.Vec3, error) {
	v, err := w.set.Visual(i)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return v.Colour, nil
}

func (w *World) SetColour(i int, c mgl32.Vec3) error {
	v, err := w.set.Visual(i)
	if err != nil {
		return err
	}
	v.Colour = c
	return nil
}

func (w *World) Type(i int) (ball.Kind, error) {
	m, err := w.set.Motion(i)
	if err != nil {
		return ball.Normal, err
	}
	return m.Behavior.Kind(), nil
}

func (w *World) Position(i int) (mgl32.Vec2, error) {
	v, err := w.set.Visual(i)
	if err != nil {
		return mgl32.Vec2{}, err
	}
	return v.Position, nil
}

// Velocity is the speed of slot i in world units per second over the last
// sub-step. It is zero before the first update.
func (w *World) Velocity(i int) (mgl32.Vec2, error) {
	dx, dy, err := integrators.Velocity(w.set, i)
	if err != nil || w.lastSub == 0 {
		return mgl32.Vec2{}, err
	}
	return mgl32.Vec2{dx, dy}.Mul(1 / w.lastSub), nil
}

// TopSpeed is the largest Normal ball speed after the last update.
func (w *World) TopSpeed() float32 {
	var top float32
	for i, m := range w.set.Motions.Slice() {
		if m.Behavior.Kind() != ball.Normal {
			continue
		}
		if v, err := w.Velocity(i); err == nil && v.Len() > top {
			top = v.Len()
		}
	}
	return top
}

func (w *World) Radius(i int) (float32, error) {
	v, err := w.set.Visual(i)
	if err != nil {
		return 0, err
	}
	return v.Scale, nil
}

// Visuals is a view over the active slots. It is invalidated by any update.
func (w *World) Visuals() []ball.Visual { return w.set.Visuals.Slice() }

// Motions is a view over the active motion records.
func (w *World) Motions() []ball.Motion { return w.set.Motions.Slice() }

// Update advances the world by dt seconds split across the configured sub-steps.
func (w *World) Update(dt float32) {
	sub := dt / float32(w.cfg.SubSteps)
	w.lastSub = sub
	for s := 0; s < w.cfg.SubSteps; s++ {
		w.step(sub)
	}
	w.phase = PhaseIdle
	w.updates++

	visuals, motions := w.set.Visuals.Slice(), w.set.Motions.Slice()
	for _, m := range w.metrics {
		m.Observe(visuals, motions, dt)
	}
	for _, o := range w.observers {
		o.OnUpdate(w, dt)
	}
}

func (w *World) step(dt float32) {
	w.phase = PhaseApplyGravity
	motions := w.set.Motions.Slice()
	for i := range motions {
		if motions[i].Behavior.Kind() == ball.Normal {
			motions[i].Acceleration = motions[i].Acceleration.Add(w.cfg.Gravity)
		}
	}

	w.phase = PhaseSolveConstraints
	physics.SolveConstraints(w.set)

	w.phase = PhaseSolveCollisions
	w.resolver.BeginPass()
	physics.SortByMinX(w.set)
	physics.Sweep(w.set, w.resolve)
	w.resolver.EndPass(w.set)
	w.flush()

	w.phase = PhaseIntegrate
	w.integrator.Step(w.set, dt)
}

func (w *World) resolve(i, j int) {
	w.resolver.Resolve(w.set, i, j)
}

// Draw hands the visual buffer to the renderer. It never mutates the world.
func (w *World) Draw() {
	if w.renderer != nil {
		w.renderer.Render(w.set.Visuals.Buffer())
	}
}

// Metrics returns the current value of every registered metric by name.
func (w *World) Metrics() map[string]float64 {
	out := make(map[string]float64, len(w.metrics))
	for _, m := range w.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// ResetMetrics resets every registered metric.
func (w *World) ResetMetrics() {
	for _, m := range w.metrics {
		m.Reset()
	}
}
