package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/sim"
)

// Apply spawns every ball the scene lists.
func Apply(w *sim.World, s *Scene, hooks *Hooks, rng *rand.Rand) error {
	for i := range s.Balls {
		spec := &s.Balls[i]
		kind, err := spec.Kind()
		if err != nil {
			return fmt.Errorf("ball %d: %w", i, err)
		}

		n := spec.Count
		if n == 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			b, err := hooks.Resolve(kind, spec.Hook)
			if err != nil {
				return fmt.Errorf("ball %d: %w", i, err)
			}
			pos := mgl32.Vec2{spec.X, spec.Y}
			if spec.Spread > 0 {
				pos = pos.Add(scatter(rng, spec.Spread))
			}
			colour := mgl32.Vec3{spec.Colour[0], spec.Colour[1], spec.Colour[2]}
			if _, err := w.AddBallWithBehavior(pos, colour, spec.Radius, b); err != nil {
				return fmt.Errorf("ball %d: %w", i, err)
			}
		}
	}
	return nil
}

func scatter(rng *rand.Rand, radius float32) mgl32.Vec2 {
	a := rng.Float64() * 2 * math.Pi
	r := float64(radius) * math.Sqrt(rng.Float64())
	return mgl32.Vec2{float32(r * math.Cos(a)), float32(r * math.Sin(a))}
}

// RandomColour draws each channel from [0, 2), as the interactive spawner does.
// Channels above one render saturated.
func RandomColour(rng *rand.Rand) mgl32.Vec3 {
	return mgl32.Vec3{rng.Float32() * 2, rng.Float32() * 2, rng.Float32() * 2}
}

// Emitter adds a Normal ball every Every frames until Limit balls have been
// added. A zero Limit never stops.
type Emitter struct {
	X      float32     `yaml:"x" toml:"x"`
	Y      float32     `yaml:"y" toml:"y"`
	Radius float32     `yaml:"radius" toml:"radius"`
	Every  int         `yaml:"every" toml:"every"`
	Limit  int         `yaml:"limit" toml:"limit"`
	Jitter float32     `yaml:"jitter" toml:"jitter"`
	Colour *[3]float32 `yaml:"colour,omitempty" toml:"colour,omitempty"`

	spawned int
}

func (e *Emitter) Spawned() int { return e.spawned }

// Tick spawns a ball if frame is due. It reports whether a ball was added.
func (e *Emitter) Tick(w *sim.World, frame int, rng *rand.Rand) (bool, error) {
	if e.Every <= 0 || frame%e.Every != 0 {
		return false, nil
	}
	if e.Limit > 0 && e.spawned >= e.Limit {
		return false, nil
	}

	colour := RandomColour(rng)
	if e.Colour != nil {
		colour = mgl32.Vec3{e.Colour[0], e.Colour[1], e.Colour[2]}
	}
	jitter := e.Jitter
	if jitter == 0 {
		jitter = e.Radius
	}
	pos := mgl32.Vec2{e.X + (rng.Float32()*2-1)*jitter, e.Y}

	if _, err := w.AddBallWithBehavior(pos, colour, e.Radius, ball.NormalBehavior()); err != nil {
		return false, err
	}
	e.spawned++
	return true, nil
}
