package ball

import "github.com/go-gl/mathgl/mgl32"

// Set keeps a VisualStore and a MotionStore in lockstep. Every structural
// operation touches both stores so slot i always names the same ball in each.
type Set struct {
	Visuals *VisualStore
	Motions *MotionStore

	nextSerial uint64
}

func NewSet(capacity int) *Set {
	v := NewVisualStore(capacity)
	return &Set{
		Visuals: v,
		Motions: NewMotionStore(v.Capacity()),
	}
}

func (s *Set) Len() int      { return s.Visuals.Count() }
func (s *Set) Capacity() int { return s.Visuals.Capacity() }

// Push adds a ball at rest and returns its slot.
func (s *Set) Push(v Visual, b Behavior) (int, error) {
	if err := s.Visuals.Push(v); err != nil {
		return -1, err
	}
	s.nextSerial++
	s.Motions.Push(Motion{
		Serial:      s.nextSerial,
		PositionOld: v.Position,
		Behavior:    b,
	})
	return s.Len() - 1, nil
}

// Pop removes the last slot from both stores.
func (s *Set) Pop() {
	s.Visuals.Pop()
	s.Motions.Pop()
}

func (s *Set) Swap(i, j int) error {
	if i == j {
		return checkIndex("swap", i, s.Len())
	}
	if err := s.Visuals.Swap(i, j); err != nil {
		return err
	}
	return s.Motions.Swap(i, j)
}

// SwapRemove moves the last slot into i and shrinks both stores.
func (s *Set) SwapRemove(i int) error {
	last := s.Len() - 1
	if err := checkIndex("erase", i, s.Len()); err != nil {
		return err
	}
	if i != last {
		if err := s.Swap(i, last); err != nil {
			return err
		}
	}
	s.Pop()
	return nil
}

// Visual returns slot i of the visual store.
func (s *Set) Visual(i int) (*Visual, error) { return s.Visuals.At(i) }

// Motion returns slot i of the motion store.
func (s *Set) Motion(i int) (*Motion, error) { return s.Motions.At(i) }

// Teleport moves a ball without giving it velocity.
func (s *Set) Teleport(i int, p mgl32.Vec2) error {
	v, err := s.Visuals.At(i)
	if err != nil {
		return err
	}
	m, err := s.Motions.At(i)
	if err != nil {
		return err
	}
	v.Position = p
	m.PositionOld = p
	return nil
}
