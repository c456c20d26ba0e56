package ball

import "github.com/go-gl/mathgl/mgl32"

// Motion is the per-ball dynamics record, parallel to Visual.
type Motion struct {
	ID           int    // always equal to the slot index
	Serial       uint64 // assigned once at push, survives reordering
	PositionOld  mgl32.Vec2
	Acceleration mgl32.Vec2
	Behavior     Behavior
}

type MotionStore struct {
	recs []Motion
}

func NewMotionStore(capacity int) *MotionStore {
	return &MotionStore{recs: make([]Motion, 0, capacity)}
}

func (s *MotionStore) Count() int { return len(s.recs) }

func (s *MotionStore) At(i int) (*Motion, error) {
	if err := checkIndex("motion", i, len(s.recs)); err != nil {
		return nil, err
	}
	return &s.recs[i], nil
}

// Push appends m, tagging it with its slot index.
func (s *MotionStore) Push(m Motion) {
	m.ID = len(s.recs)
	s.recs = append(s.recs, m)
}

func (s *MotionStore) Pop() {
	if len(s.recs) == 0 {
		return
	}
	s.recs[len(s.recs)-1] = Motion{}
	s.recs = s.recs[:len(s.recs)-1]
}

// Swap exchanges two records and reassigns their ID tags to the new slots.
func (s *MotionStore) Swap(i, j int) error {
	if err := checkIndex("motion swap", i, len(s.recs)); err != nil {
		return err
	}
	if err := checkIndex("motion swap", j, len(s.recs)); err != nil {
		return err
	}
	s.recs[i], s.recs[j] = s.recs[j], s.recs[i]
	s.recs[i].ID = i
	s.recs[j].ID = j
	return nil
}

func (s *MotionStore) Slice() []Motion { return s.recs }
