package ball

import "github.com/go-gl/mathgl/mgl32"

// DefaultCapacity is the size of the fixed render buffer.
const DefaultCapacity = 8096

// Visual is the per-ball record a renderer consumes.
type Visual struct {
	Position mgl32.Vec2
	Colour   mgl32.Vec3
	Scale    float32 // radius
	Active   bool
}

// MinX is the left edge of the ball's x-extent.
func (v *Visual) MinX() float32 { return v.Position[0] - v.Scale }

// MaxX is the right edge of the ball's x-extent.
func (v *Visual) MaxX() float32 { return v.Position[0] + v.Scale }

var inactiveVisual = Visual{Colour: mgl32.Vec3{1, 0, 0}, Scale: 1}

// VisualStore is a fixed-capacity array of visual records. The backing buffer is
// allocated once so a renderer may hold on to it for the whole session.
type VisualStore struct {
	buf   []Visual
	count int
}

func NewVisualStore(capacity int) *VisualStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	buf := make([]Visual, capacity)
	for i := range buf {
		buf[i] = inactiveVisual
	}
	return &VisualStore{buf: buf}
}

func (s *VisualStore) Capacity() int { return len(s.buf) }
func (s *VisualStore) Count() int    { return s.count }

// At returns a pointer into the buffer for slot i.
func (s *VisualStore) At(i int) (*Visual, error) {
	if err := checkIndex("visual", i, s.count); err != nil {
		return nil, err
	}
	return &s.buf[i], nil
}

// Push appends v and marks it active.
func (s *VisualStore) Push(v Visual) error {
	if s.count == len(s.buf) {
		return ErrCapacityExceeded
	}
	v.Active = true
	s.buf[s.count] = v
	s.count++
	return nil
}

// Pop shrinks the store by one and deactivates the vacated slot. No-op when empty.
func (s *VisualStore) Pop() {
	if s.count == 0 {
		return
	}
	s.count--
	s.buf[s.count] = inactiveVisual
}

func (s *VisualStore) Swap(i, j int) error {
	if err := checkIndex("visual swap", i, s.count); err != nil {
		return err
	}
	if err := checkIndex("visual swap", j, s.count); err != nil {
		return err
	}
	s.buf[i], s.buf[j] = s.buf[j], s.buf[i]
	return nil
}

// Slice is a read/write view over the active slots.
func (s *VisualStore) Slice() []Visual { return s.buf[:s.count] }

// Buffer is the whole fixed allocation, inactive tail included.
func (s *VisualStore) Buffer() []Visual { return s.buf }
