package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColArena   = rl.NewColor(60, 60, 60, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
)

// Balls at least this large are drawn as outlines.
const outlineRadius = 0.5

// View maps world coordinates onto a square viewport of Size pixels at
// (X, Y). World y points up.
type View struct {
	X, Y, Size float32
}

func (v View) ToScreen(p mgl32.Vec2) rl.Vector2 {
	half := v.Size / 2
	return rl.NewVector2(v.X+half+p.X()*half, v.Y+half-p.Y()*half)
}

func (v View) ToWorld(s rl.Vector2) mgl32.Vec2 {
	half := v.Size / 2
	return mgl32.Vec2{(s.X - v.X - half) / half, -(s.Y - v.Y - half) / half}
}

func (v View) Scale(r float32) float32 { return r * v.Size / 2 }

// Colour converts a ball colour to an opaque raylib colour. Black draws in
// the arena grey so it stays visible on the background.
func Colour(c mgl32.Vec3) rl.Color {
	ch := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
	}
	r, g, b := ch(c[0]), ch(c[1]), ch(c[2])
	if r == 0 && g == 0 && b == 0 {
		return ColArena
	}
	return rl.NewColor(r, g, b, 255)
}

// Renderer draws the visual buffer into the current raylib frame. Render
// must run between BeginDrawing and EndDrawing.
type Renderer struct {
	View View
}

var _ sim.Renderer = (*Renderer)(nil)

func (r *Renderer) Render(visuals []ball.Visual) {
	for _, v := range visuals {
		if !v.Active {
			continue
		}
		pos := r.View.ToScreen(v.Position)
		rad := r.View.Scale(v.Scale)
		if v.Scale >= outlineRadius {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), rad, Colour(v.Colour))
			continue
		}
		rl.DrawCircleV(pos, max(rad, 1), Colour(v.Colour))
	}
}
