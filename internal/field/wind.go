// Package field applies position-dependent forces to a world.
package field

import (
	"github.com/go-gl/mathgl/mgl32"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/san-kum/parched/internal/ball"
)

// Target is what a field pushes on.
type Target interface {
	Visuals() []ball.Visual
	Motions() []ball.Motion
	ApplyAcceleration(i int, a mgl32.Vec2) error
}

// Wind is a slowly drifting noise field. Each axis samples its own noise
// source so the flow is not biased along the diagonal.
type Wind struct {
	Strength float64
	Scale    float64 // spatial frequency
	Speed    float64 // how fast the field drifts per second

	nx, ny opensimplex.Noise
	t      float64
}

func NewWind(seed int64, strength, scale, speed float64) *Wind {
	return &Wind{
		Strength: strength,
		Scale:    scale,
		Speed:    speed,
		nx:       opensimplex.New(seed),
		ny:       opensimplex.New(seed + 1),
	}
}

// At samples the field at p for the current time.
func (w *Wind) At(p mgl32.Vec2) mgl32.Vec2 {
	x, y := float64(p[0])*w.Scale, float64(p[1])*w.Scale
	return mgl32.Vec2{
		float32(w.nx.Eval3(x, y, w.t) * w.Strength),
		float32(w.ny.Eval3(x, y, w.t) * w.Strength),
	}
}

// Apply pushes every Normal ball and advances the field by dt.
func (w *Wind) Apply(target Target, dt float64) {
	visuals, motions := target.Visuals(), target.Motions()
	for i := range motions {
		if motions[i].Behavior.Kind() != ball.Normal {
			continue
		}
		_ = target.ApplyAcceleration(i, w.At(visuals[i].Position))
	}
	w.t += dt * w.Speed
}

// Time is the field's current time coordinate.
func (w *Wind) Time() float64 { return w.t }
