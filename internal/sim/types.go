package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/parched/internal/ball"
)

// Integrator advances positions over one sub-step and consumes acceleration.
type Integrator interface {
	Step(set *ball.Set, dt float32)
}

// Renderer receives the whole fixed visual buffer, inactive tail included.
type Renderer interface {
	Render(visuals []ball.Visual)
}

type Metric interface {
	Name() string
	Observe(visuals []ball.Visual, motions []ball.Motion, dt float32)
	Value() float64
	Reset()
}

// Observer is notified once per Update after every sub-step has run.
type Observer interface {
	OnUpdate(w *World, dt float32)
}

// Phase reports which stage of a sub-step the world is executing.
type Phase int

const (
	PhaseIdle             Phase = iota // between updates
	PhaseApplyGravity                  // 1: accumulate gravity
	PhaseSolveConstraints              // 2: keep balls inside constraint balls
	PhaseSolveCollisions               // 3: broad + narrow phase, callbacks run here
	PhaseIntegrate                     // 4: verlet step
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseApplyGravity:
		return "gravity"
	case PhaseSolveConstraints:
		return "constraints"
	case PhaseSolveCollisions:
		return "collisions"
	case PhaseIntegrate:
		return "integrate"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Config struct {
	SubSteps    int
	Gravity     mgl32.Vec2
	Correction  float32
	Capacity    int
	ArenaRadius float32 // zero disables the arena ball
	ArenaColour mgl32.Vec3
}

func DefaultConfig() Config {
	return Config{
		SubSteps:    2,
		Gravity:     mgl32.Vec2{0, -1},
		Correction:  0.5,
		Capacity:    ball.DefaultCapacity,
		ArenaRadius: 0.95,
	}
}

func (c Config) Validate() error {
	if c.SubSteps <= 0 {
		return fmt.Errorf("sub_steps must be positive, got %d", c.SubSteps)
	}
	if c.Correction <= 0 || c.Correction > 1 {
		return fmt.Errorf("correction must be in (0, 1], got %f", c.Correction)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.ArenaRadius < 0 {
		return fmt.Errorf("arena_radius must not be negative, got %f", c.ArenaRadius)
	}
	return nil
}
