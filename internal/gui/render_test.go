package gui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

func TestViewRoundTrip(t *testing.T) {
	v := View{X: 280, Y: 0, Size: 720}
	tests := []struct {
		p    mgl32.Vec2
		want rl.Vector2
	}{
		{mgl32.Vec2{0, 0}, rl.NewVector2(640, 360)},
		{mgl32.Vec2{-1, 1}, rl.NewVector2(280, 0)},
		{mgl32.Vec2{1, -1}, rl.NewVector2(1000, 720)},
	}
	for _, tt := range tests {
		got := v.ToScreen(tt.p)
		if got != tt.want {
			t.Errorf("ToScreen(%v) = %v, want %v", tt.p, got, tt.want)
		}
		back := v.ToWorld(got)
		if !back.ApproxEqual(tt.p) {
			t.Errorf("ToWorld(%v) = %v, want %v", got, back, tt.p)
		}
	}
	if s := v.Scale(0.5); s != 180 {
		t.Errorf("expected scale 180, got %f", s)
	}
}

func TestColour(t *testing.T) {
	if Colour(mgl32.Vec3{}) != ColArena {
		t.Error("black should draw in the arena grey")
	}
	if got := Colour(mgl32.Vec3{1, 0, 1.5}); got != rl.NewColor(255, 0, 255, 255) {
		t.Errorf("unexpected colour %v", got)
	}
}
