package integrators

import "github.com/san-kum/parched/internal/ball"

// Verlet advances Normal balls with position verlet. Velocity is never stored;
// it is the difference between the current and previous position.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

// Step integrates every Normal slot over dt and consumes the accumulated
// acceleration of every slot, whatever its kind.
func (Verlet) Step(set *ball.Set, dt float32) {
	visuals := set.Visuals.Slice()
	motions := set.Motions.Slice()
	dt2 := dt * dt

	for i := range motions {
		m := &motions[i]
		if m.Behavior.Kind() == ball.Normal {
			pos := visuals[i].Position
			vel := pos.Sub(m.PositionOld)
			m.PositionOld = pos
			visuals[i].Position = pos.Add(vel).Add(m.Acceleration.Mul(dt2))
		}
		m.Acceleration[0], m.Acceleration[1] = 0, 0
	}
}

// Velocity reconstructs the per-step displacement of slot i.
func Velocity(set *ball.Set, i int) (float32, float32, error) {
	v, err := set.Visual(i)
	if err != nil {
		return 0, 0, err
	}
	m, err := set.Motion(i)
	if err != nil {
		return 0, 0, err
	}
	d := v.Position.Sub(m.PositionOld)
	return d[0], d[1], nil
}
