package viz

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/parched/internal/ball"
	"github.com/san-kum/parched/internal/sim"
)

// Balls at least this large are drawn as outlines so the arena does not
// cover everything inside it.
const outlineRadius = 0.5

// Renderer rasterises the world's visual buffer onto a braille canvas. The
// world square [-1,1]x[-1,1] is centred in the largest square of dots that
// fits the canvas.
type Renderer struct {
	Canvas *Canvas

	size, offX, offY int
	frames           uint64
}

func NewRenderer(w, h int) *Renderer {
	r := &Renderer{Canvas: NewCanvas(w, h)}
	dw, dh := r.Canvas.Dots()
	r.size = min(dw, dh)
	r.offX = (dw - r.size) / 2
	r.offY = (dh - r.size) / 2
	return r
}

// Render implements sim.Renderer. The buffer covers every slot, inactive
// ones included.
func (r *Renderer) Render(visuals []ball.Visual) {
	r.Canvas.Clear()
	for _, v := range visuals {
		if !v.Active {
			continue
		}
		x, y := r.Project(v.Position)
		rad := r.scale(v.Scale)
		colour := ColourOf(v.Colour)
		if v.Scale >= outlineRadius {
			r.Canvas.Circle(x, y, rad, colour)
		} else {
			r.Canvas.FillCircle(x, y, rad, colour)
		}
	}
	r.frames++
}

// Frames counts Render calls.
func (r *Renderer) Frames() uint64 { return r.frames }

// Project maps a world position to canvas dots.
func (r *Renderer) Project(p mgl32.Vec2) (int, int) {
	half := float32(r.size) / 2
	x := float32(r.offX) + half + p.X()*half
	y := float32(r.offY) + half - p.Y()*half
	return int(x), int(y)
}

func (r *Renderer) scale(radius float32) int {
	return int(radius * float32(r.size) / 2)
}

// Marker draws a small cross at p with an open centre, used for the spawn
// cursor.
func (r *Renderer) Marker(p mgl32.Vec2) {
	x, y := r.Project(p)
	c := CurrentTheme.Accent
	r.Canvas.DrawLine(x-2, y, x+2, y, c)
	r.Canvas.DrawLine(x, y-2, x, y+2, c)
	r.Canvas.Unset(x, y)
}

var _ sim.Renderer = (*Renderer)(nil)
