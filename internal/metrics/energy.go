package metrics

import "github.com/san-kum/parched/internal/ball"

// KineticEnergy tracks the mean kinetic energy per Normal ball, treating
// radius² as mass. Velocity is rebuilt from the last verlet step.
type KineticEnergy struct {
	name     string
	subSteps int
	current  float64
	peak     float64
}

func NewKineticEnergy(subSteps int) *KineticEnergy {
	if subSteps <= 0 {
		subSteps = 1
	}
	return &KineticEnergy{name: "kinetic_energy", subSteps: subSteps}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(visuals []ball.Visual, motions []ball.Motion, dt float32) {
	if dt <= 0 {
		return
	}
	step := float64(dt) / float64(e.subSteps)

	total, n := 0.0, 0
	for i := range motions {
		if motions[i].Behavior.Kind() != ball.Normal {
			continue
		}
		d := visuals[i].Position.Sub(motions[i].PositionOld)
		vx, vy := float64(d[0])/step, float64(d[1])/step
		m := float64(visuals[i].Scale) * float64(visuals[i].Scale)
		total += 0.5 * m * (vx*vx + vy*vy)
		n++
	}

	e.current = 0
	if n > 0 {
		e.current = total / float64(n)
	}
	if e.current > e.peak {
		e.peak = e.current
	}
}

func (e *KineticEnergy) Value() float64 { return e.current }

// Peak is the highest value seen since the last reset.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.peak = 0
}
