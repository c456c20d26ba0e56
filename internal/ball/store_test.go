package ball

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func visualAt(x float32) Visual {
	return Visual{Position: mgl32.Vec2{x, 0}, Colour: mgl32.Vec3{x, x, x}, Scale: 0.1}
}

func TestVisualStorePushPop(t *testing.T) {
	s := NewVisualStore(2)

	if s.Capacity() != 2 {
		t.Fatalf("expected capacity 2, got %d", s.Capacity())
	}
	if err := s.Push(visualAt(1)); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := s.Push(visualAt(2)); err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if err := s.Push(visualAt(3)); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if s.Count() != 2 {
		t.Errorf("expected count 2, got %d", s.Count())
	}

	s.Pop()
	if s.Count() != 1 {
		t.Errorf("expected count 1 after pop, got %d", s.Count())
	}
	if s.Buffer()[1].Active {
		t.Error("popped slot should be inactive in the backing buffer")
	}

	s.Pop()
	s.Pop()
	if s.Count() != 0 {
		t.Errorf("pop on empty store should be a no-op, got count %d", s.Count())
	}
}

func TestVisualStoreBufferStable(t *testing.T) {
	s := NewVisualStore(4)
	before := &s.Buffer()[0]
	for i := 0; i < 4; i++ {
		if err := s.Push(visualAt(float32(i))); err != nil {
			t.Fatalf("push %d failed: %v", i, err)
		}
	}
	if &s.Buffer()[0] != before {
		t.Error("backing buffer relocated")
	}
	if len(s.Slice()) != 4 {
		t.Errorf("expected view of 4, got %d", len(s.Slice()))
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	set := NewSet(8)
	if _, err := set.Push(visualAt(0), NormalBehavior()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		fn   func() error
	}{
		{"visual at", func() error { _, err := set.Visual(1); return err }},
		{"motion at", func() error { _, err := set.Motion(-1); return err }},
		{"swap", func() error { return set.Swap(0, 3) }},
		{"swap same", func() error { return set.Swap(2, 2) }},
		{"erase", func() error { return set.SwapRemove(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, ErrIndexOutOfBounds) {
				t.Fatalf("expected ErrIndexOutOfBounds, got %v", err)
			}
			var ie *IndexError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *IndexError, got %T", err)
			}
		})
	}
}

func TestSetSwapKeepsStoresPaired(t *testing.T) {
	set := NewSet(8)
	for i := 0; i < 3; i++ {
		b := NormalBehavior()
		if i == 2 {
			b = ConstraintBehavior()
		}
		if _, err := set.Push(visualAt(float32(i)), b); err != nil {
			t.Fatal(err)
		}
	}
	serial2 := set.Motions.Slice()[2].Serial

	if err := set.Swap(0, 2); err != nil {
		t.Fatal(err)
	}

	v0, _ := set.Visual(0)
	m0, _ := set.Motion(0)
	if v0.Position.X() != 2 {
		t.Errorf("expected visual from slot 2, got x=%f", v0.Position.X())
	}
	if m0.Behavior.Kind() != Constraint || m0.Serial != serial2 {
		t.Errorf("motion record did not travel with its visual")
	}
	for i, m := range set.Motions.Slice() {
		if m.ID != i {
			t.Errorf("slot %d carries id %d", i, m.ID)
		}
	}
}

func TestSetSwapRemove(t *testing.T) {
	set := NewSet(8)
	for i := 0; i < 3; i++ {
		if _, err := set.Push(visualAt(float32(i)), NormalBehavior()); err != nil {
			t.Fatal(err)
		}
	}

	if err := set.SwapRemove(0); err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 || set.Motions.Count() != 2 {
		t.Fatalf("expected 2 slots in both stores, got %d/%d", set.Len(), set.Motions.Count())
	}
	v0, _ := set.Visual(0)
	if v0.Position.X() != 2 {
		t.Errorf("expected last ball moved into slot 0, got x=%f", v0.Position.X())
	}
	m0, _ := set.Motion(0)
	if m0.ID != 0 {
		t.Errorf("expected id reassigned to 0, got %d", m0.ID)
	}

	if err := set.SwapRemove(1); err != nil {
		t.Fatal(err)
	}
	if set.Len() != 1 {
		t.Errorf("expected 1 slot, got %d", set.Len())
	}
}

func TestPushStartsAtRest(t *testing.T) {
	set := NewSet(4)
	i, err := set.Push(visualAt(0.5), NormalBehavior())
	if err != nil {
		t.Fatal(err)
	}
	v, _ := set.Visual(i)
	m, _ := set.Motion(i)
	if m.PositionOld != v.Position {
		t.Error("new ball should have zero implicit velocity")
	}
	if !v.Active {
		t.Error("pushed ball should be active")
	}

	if err := set.Teleport(i, mgl32.Vec2{0.2, 0.2}); err != nil {
		t.Fatal(err)
	}
	if m.PositionOld != v.Position {
		t.Error("teleport should not introduce velocity")
	}
}
