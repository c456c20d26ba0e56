package metrics

import (
	"sort"

	"github.com/san-kum/parched/internal/ball"
)

// Penetration reports the deepest overlap between two Normal balls after the
// last update. The world is left untouched; a private index is sorted instead.
type Penetration struct {
	name    string
	order   []int
	current float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(visuals []ball.Visual, motions []ball.Motion, _ float32) {
	p.order = p.order[:0]
	for i := range motions {
		if motions[i].Behavior.Kind() == ball.Normal {
			p.order = append(p.order, i)
		}
	}
	sort.Slice(p.order, func(a, b int) bool {
		return visuals[p.order[a]].MinX() < visuals[p.order[b]].MinX()
	})

	worst := float32(0)
	for a, i := range p.order {
		vi := &visuals[i]
		for _, j := range p.order[a+1:] {
			vj := &visuals[j]
			if vj.MinX() > vi.MaxX() {
				break
			}
			depth := vi.Scale + vj.Scale - vi.Position.Sub(vj.Position).Len()
			if depth > worst {
				worst = depth
			}
		}
	}
	p.current = float64(worst)
}

func (p *Penetration) Value() float64 { return p.current }
func (p *Penetration) Reset()         { p.current = 0 }

// Containment reports how far the worst Normal ball sits outside the Constraint
// balls after the last update.
type Containment struct {
	name    string
	current float64
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(visuals []ball.Visual, motions []ball.Motion, _ float32) {
	worst := float32(0)
	for k := range motions {
		if motions[k].Behavior.Kind() != ball.Constraint {
			continue
		}
		for i := range motions {
			if motions[i].Behavior.Kind() != ball.Normal {
				continue
			}
			limit := visuals[k].Scale - visuals[i].Scale
			if limit < 0 {
				limit = 0
			}
			over := visuals[i].Position.Sub(visuals[k].Position).Len() - limit
			if over > worst {
				worst = over
			}
		}
	}
	c.current = float64(worst)
}

func (c *Containment) Value() float64 { return c.current }
func (c *Containment) Reset()         { c.current = 0 }

// Population counts the active balls.
type Population struct {
	name  string
	count int
	peak  int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(visuals []ball.Visual, _ []ball.Motion, _ float32) {
	p.count = len(visuals)
	if p.count > p.peak {
		p.peak = p.count
	}
}

func (p *Population) Value() float64 { return float64(p.count) }
func (p *Population) Peak() int      { return p.peak }

func (p *Population) Reset() {
	p.count = 0
	p.peak = 0
}
