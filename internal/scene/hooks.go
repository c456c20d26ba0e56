package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/sim"
)

const luaPrefix = "lua:"

// ScriptSource builds behaviors from loaded scripts.
type ScriptSource interface {
	Behavior(kind ball.Kind, name string) (ball.Behavior, error)
}

// HookFunc builds a behavior bound to w.
type HookFunc func(w *sim.World) ball.Behavior

var builtin = map[string]struct {
	kind ball.Kind
	fn   HookFunc
}{
	"purge":      {ball.Trigger, Purge},
	"paint_blue": {ball.Trigger, PaintBlue},
	"block_blue": {ball.Selective, BlockBlue},
}

// Purge erases every Normal ball it touches.
func Purge(w *sim.World) ball.Behavior {
	return ball.TriggerBehavior(func(_, other int) {
		if k, err := w.Type(other); err == nil && k == ball.Normal {
			_ = w.EraseBall(other)
		}
	}, nil)
}

// PaintBlue turns touching balls blue and kicks them upward.
func PaintBlue(w *sim.World) ball.Behavior {
	return ball.TriggerBehavior(func(_, other int) {
		_ = w.SetColour(other, mgl32.Vec3{0, 0, 1})
		_ = w.ApplyAcceleration(other, mgl32.Vec2{0, 100})
	}, nil)
}

// BlockBlue pushes away Normal balls that are mostly blue.
func BlockBlue(w *sim.World) ball.Behavior {
	return ball.SelectiveBehavior(func(other int) bool {
		c, err := w.Colour(other)
		if err != nil {
			return false
		}
		k, _ := w.Type(other)
		return c[0] < 0.3 && c[1] < 0.3 && c[2] > 0.9 && k == ball.Normal
	})
}

// Hooks resolves hook names to behaviors.
type Hooks struct {
	world   *sim.World
	scripts ScriptSource
}

// NewHooks binds hooks to w. scripts may be nil when no Lua hooks are used.
func NewHooks(w *sim.World, scripts ScriptSource) *Hooks {
	return &Hooks{world: w, scripts: scripts}
}

func (h *Hooks) Resolve(kind ball.Kind, name string) (ball.Behavior, error) {
	switch kind {
	case ball.Normal:
		return ball.NormalBehavior(), nil
	case ball.Constraint:
		return ball.ConstraintBehavior(), nil
	}

	if script, ok := strings.CutPrefix(name, luaPrefix); ok {
		if h.scripts == nil {
			return ball.Behavior{}, fmt.Errorf("hook %s: no scripts loaded", name)
		}
		return h.scripts.Behavior(kind, script)
	}

	b, ok := builtin[name]
	if !ok {
		return ball.Behavior{}, fmt.Errorf("unknown hook %q", name)
	}
	if b.kind != kind {
		return ball.Behavior{}, fmt.Errorf("hook %s builds %s balls, not %s", name, b.kind, kind)
	}
	return b.fn(h.world), nil
}

// Hook names the built-in hooks.
func HookNames() []string {
	return []string{"block_blue", "paint_blue", "purge"}
}
