package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/parched/internal/ball"
)

type fakeHost struct {
	kinds   []ball.Kind
	colours []mgl32.Vec3
	accel   []mgl32.Vec2
	erased  []int
}

func newHost(kinds ...ball.Kind) *fakeHost {
	return &fakeHost{
		kinds:   kinds,
		colours: make([]mgl32.Vec3, len(kinds)),
		accel:   make([]mgl32.Vec2, len(kinds)),
	}
}

func (h *fakeHost) check(i int) error {
	if i < 0 || i >= len(h.kinds) {
		return ball.ErrIndexOutOfBounds
	}
	return nil
}

func (h *fakeHost) BallCount() int { return len(h.kinds) }

func (h *fakeHost) Type(i int) (ball.Kind, error) {
	if err := h.check(i); err != nil {
		return ball.Normal, err
	}
	return h.kinds[i], nil
}

func (h *fakeHost) Colour(i int) (mgl32.Vec3, error) {
	if err := h.check(i); err != nil {
		return mgl32.Vec3{}, err
	}
	return h.colours[i], nil
}

func (h *fakeHost) SetColour(i int, c mgl32.Vec3) error {
	if err := h.check(i); err != nil {
		return err
	}
	h.colours[i] = c
	return nil
}

func (h *fakeHost) EraseBall(i int) error {
	if err := h.check(i); err != nil {
		return err
	}
	h.erased = append(h.erased, i)
	return nil
}

func (h *fakeHost) ApplyAcceleration(i int, a mgl32.Vec2) error {
	if err := h.check(i); err != nil {
		return err
	}
	h.accel[i] = h.accel[i].Add(a)
	return nil
}

const paintScript = `
function paint_enter(self, other)
  if world.kind(other) == "normal" then
    world.set_colour(other, 0, 0, 1)
    world.push(other, 0, 100)
  end
end

function paint_exit(self, other)
  world.erase(other)
end

function blue_filter(other)
  local r, g, b = world.colour(other)
  return r < 0.3 and g < 0.3 and b > 0.9
end
`

func TestTriggerFromLua(t *testing.T) {
	host := newHost(ball.Trigger, ball.Normal, ball.Constraint)
	e := NewEngine(host, nil)
	defer e.Close()

	if err := e.LoadString(paintScript); err != nil {
		t.Fatal(err)
	}
	b, err := e.Behavior(ball.Trigger, "paint")
	if err != nil {
		t.Fatal(err)
	}
	if b.Kind() != ball.Trigger {
		t.Fatalf("expected trigger, got %s", b.Kind())
	}

	b.Enter(0, 1)
	b.Enter(0, 2)

	if host.colours[1] != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("expected slot 1 painted blue, got %v", host.colours[1])
	}
	if host.accel[1] != (mgl32.Vec2{0, 100}) {
		t.Errorf("expected kick on slot 1, got %v", host.accel[1])
	}
	if host.colours[2] != (mgl32.Vec3{}) {
		t.Error("constraint ball should not be painted")
	}

	b.Exit(0, 1)
	if len(host.erased) != 1 || host.erased[0] != 1 {
		t.Errorf("expected erase of slot 1, got %v", host.erased)
	}
}

func TestFilterFromLua(t *testing.T) {
	host := newHost(ball.Selective, ball.Normal, ball.Normal)
	host.colours[1] = mgl32.Vec3{0, 0, 1}
	host.colours[2] = mgl32.Vec3{1, 1, 0}

	e := NewEngine(host, nil)
	defer e.Close()
	if err := e.LoadString(paintScript); err != nil {
		t.Fatal(err)
	}

	b, err := e.Behavior(ball.Selective, "blue")
	if err != nil {
		t.Fatal(err)
	}
	if !b.Admits(1) {
		t.Error("blue ball should be admitted")
	}
	if b.Admits(2) {
		t.Error("yellow ball should be refused")
	}
}

func TestMissingHandlers(t *testing.T) {
	e := NewEngine(newHost(), nil)
	defer e.Close()

	tests := []struct {
		name string
		kind ball.Kind
	}{
		{"trigger", ball.Trigger},
		{"selective", ball.Selective},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Behavior(tt.kind, "nothing")
			if !errors.Is(err, ErrNoHandler) {
				t.Errorf("expected ErrNoHandler, got %v", err)
			}
		})
	}

	if _, err := e.Behavior(ball.Normal, "x"); err == nil {
		t.Error("normal balls should not accept scripts")
	}
}

func TestLuaErrorsAreAbsorbed(t *testing.T) {
	host := newHost(ball.Trigger, ball.Normal)
	e := NewEngine(host, nil)
	defer e.Close()

	src := `
function boom_enter(self, other) error("boom") end
function boom_filter(other) error("boom") end
`
	if err := e.LoadString(src); err != nil {
		t.Fatal(err)
	}

	trig, err := e.Behavior(ball.Trigger, "boom")
	if err != nil {
		t.Fatal(err)
	}
	trig.Enter(0, 1)
	trig.Exit(0, 1)

	sel, err := e.Behavior(ball.Selective, "boom")
	if err != nil {
		t.Fatal(err)
	}
	if sel.Admits(1) {
		t.Error("failing filter should refuse")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.lua"), []byte("loaded = world.count()"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(newHost(ball.Normal, ball.Normal), nil)
	defer e.Close()

	if err := e.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if got := e.vm.GetGlobal("loaded"); got.String() != "2" {
		t.Errorf("expected loaded = 2, got %s", got)
	}
	if err := e.LoadDir(filepath.Join(dir, "missing")); err != nil {
		t.Errorf("missing dir should be skipped, got %v", err)
	}
}
