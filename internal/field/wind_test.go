package field

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/parched/internal/ball"
)

type fakeTarget struct {
	visuals []ball.Visual
	motions []ball.Motion
}

func (f *fakeTarget) Visuals() []ball.Visual { return f.visuals }
func (f *fakeTarget) Motions() []ball.Motion { return f.motions }

func (f *fakeTarget) ApplyAcceleration(i int, a mgl32.Vec2) error {
	f.motions[i].Acceleration = f.motions[i].Acceleration.Add(a)
	return nil
}

func newTarget(kinds ...ball.Behavior) *fakeTarget {
	f := &fakeTarget{}
	for i, b := range kinds {
		f.visuals = append(f.visuals, ball.Visual{Position: mgl32.Vec2{float32(i) * 0.37, 0.21}, Scale: 0.02})
		f.motions = append(f.motions, ball.Motion{ID: i, Behavior: b})
	}
	return f
}

func TestWindBounded(t *testing.T) {
	w := NewWind(1, 2, 3, 1)
	for i := 0; i < 200; i++ {
		p := mgl32.Vec2{float32(i)*0.013 - 1, float32(i)*0.007 - 0.5}
		a := w.At(p)
		if math.Abs(float64(a[0])) > 2.0001 || math.Abs(float64(a[1])) > 2.0001 {
			t.Fatalf("sample %d out of range: %v", i, a)
		}
	}
}

func TestWindDeterministic(t *testing.T) {
	a := NewWind(7, 1, 2, 1)
	b := NewWind(7, 1, 2, 1)
	p := mgl32.Vec2{0.3, -0.4}
	if a.At(p) != b.At(p) {
		t.Error("same seed should give the same field")
	}
}

func TestWindPushesNormalOnly(t *testing.T) {
	target := newTarget(
		ball.NormalBehavior(),
		ball.ConstraintBehavior(),
		ball.TriggerBehavior(nil, nil),
		ball.NormalBehavior(),
	)
	w := NewWind(3, 1, 2, 0.5)
	w.Apply(target, 0.1)

	for i, m := range target.motions {
		moved := m.Acceleration != (mgl32.Vec2{})
		if k := m.Behavior.Kind(); k != ball.Normal && moved {
			t.Errorf("slot %d (%s) was pushed", i, k)
		}
	}
	if math.Abs(w.Time()-0.05) > 1e-9 {
		t.Errorf("expected time 0.05, got %f", w.Time())
	}
}

func TestWindZeroStrength(t *testing.T) {
	target := newTarget(ball.NormalBehavior())
	NewWind(3, 0, 2, 1).Apply(target, 0.1)
	if target.motions[0].Acceleration != (mgl32.Vec2{}) {
		t.Error("zero strength wind should not push")
	}
}
