package metrics

import (
	"math"

	"github.com/san-kum/parched/internal/ball"
)

// StabilityLimit is how far from the origin a Normal ball may drift before the
// update counts as blown up. The default arena has radius 0.95.
const StabilityLimit = 4.0

// Stability is the fraction of observed updates in which every Normal ball kept
// a finite position inside the limit radius.
type Stability struct {
	name    string
	limit   float32
	updates int
	blown   int
}

func NewStability(limit float32) *Stability {
	return &Stability{name: "stability", limit: limit}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(visuals []ball.Visual, motions []ball.Motion, _ float32) {
	s.updates++
	for i := range motions {
		if motions[i].Behavior.Kind() != ball.Normal {
			continue
		}
		if !sane(visuals[i].Position, s.limit) {
			s.blown++
			return
		}
	}
}

func sane(p [2]float32, limit float32) bool {
	for _, c := range p {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return p[0]*p[0]+p[1]*p[1] <= limit*limit
}

func (s *Stability) Value() float64 {
	if s.updates == 0 {
		return 1
	}
	return 1 - float64(s.blown)/float64(s.updates)
}

// Blown is the number of updates that failed the check.
func (s *Stability) Blown() int { return s.blown }

func (s *Stability) Reset() {
	s.updates = 0
	s.blown = 0
}
