package physics

import (
	"sort"

	"github.com/san-kum/parched/internal/ball"
)

// DefaultCorrection is the share of the overlap removed per pass.
const DefaultCorrection = 0.5

type contactKey struct {
	a, b uint64
}

func keyOf(a, b uint64) contactKey {
	if a > b {
		a, b = b, a
	}
	return contactKey{a: a, b: b}
}

// Resolver resolves candidate pairs and remembers which trigger pairs were
// touching so it can report when they separate.
type Resolver struct {
	Correction float32

	previous map[contactKey]struct{}
	current  map[contactKey]struct{}
	slots    map[uint64]int
}

func NewResolver(correction float32) *Resolver {
	if correction <= 0 {
		correction = DefaultCorrection
	}
	return &Resolver{
		Correction: correction,
		previous:   make(map[contactKey]struct{}),
		current:    make(map[contactKey]struct{}),
		slots:      make(map[uint64]int),
	}
}

// BeginPass starts a new collision pass.
func (r *Resolver) BeginPass() {
	clear(r.current)
}

// Resolve handles one candidate pair. Nothing happens unless the balls overlap.
func (r *Resolver) Resolve(set *ball.Set, i, j int) {
	visuals := set.Visuals.Slice()
	motions := set.Motions.Slice()
	vi, vj := &visuals[i], &visuals[j]
	bi, bj := motions[i].Behavior, motions[j].Behavior

	axis := vi.Position.Sub(vj.Position)
	dist := axis.Len()
	radiusSum := vi.Scale + vj.Scale
	if dist >= radiusSum {
		return
	}

	ki, kj := bi.Kind(), bj.Kind()
	switch {
	case ki == ball.Constraint || kj == ball.Constraint:
		return

	case ki == ball.Trigger || kj == ball.Trigger:
		r.current[keyOf(motions[i].Serial, motions[j].Serial)] = struct{}{}
		bi.Enter(i, j)
		bj.Enter(j, i)
		return
	}

	if dist == 0 {
		return
	}
	delta := axis.Mul(r.Correction * (radiusSum - dist) / dist)

	switch {
	case ki == ball.Selective && kj == ball.Selective:
		if bi.Admits(j) && bj.Admits(i) {
			vi.Position = vi.Position.Add(delta)
			vj.Position = vj.Position.Sub(delta)
		}
	case ki == ball.Selective:
		if bi.Admits(j) {
			vj.Position = vj.Position.Sub(delta)
		}
	case kj == ball.Selective:
		if bj.Admits(i) {
			vi.Position = vi.Position.Add(delta)
		}
	default:
		vi.Position = vi.Position.Add(delta)
		vj.Position = vj.Position.Sub(delta)
	}
}

// EndPass fires on_exit for every trigger pair that touched during the previous
// pass but not during this one. Pairs whose ball is gone are dropped.
func (r *Resolver) EndPass(set *ball.Set) {
	var gone []contactKey
	for k := range r.previous {
		if _, ok := r.current[k]; !ok {
			gone = append(gone, k)
		}
	}

	if len(gone) > 0 {
		sort.Slice(gone, func(x, y int) bool {
			if gone[x].a != gone[y].a {
				return gone[x].a < gone[y].a
			}
			return gone[x].b < gone[y].b
		})

		clear(r.slots)
		for i, m := range set.Motions.Slice() {
			r.slots[m.Serial] = i
		}

		motions := set.Motions.Slice()
		for _, k := range gone {
			i, okA := r.slots[k.a]
			j, okB := r.slots[k.b]
			if !okA || !okB {
				continue
			}
			motions[i].Behavior.Exit(i, j)
			motions[j].Behavior.Exit(j, i)
		}
	}

	r.previous, r.current = r.current, r.previous
}

// Touching reports how many trigger pairs overlapped during the last pass.
func (r *Resolver) Touching() int {
	return len(r.previous)
}

// Reset forgets every tracked contact without firing exits.
func (r *Resolver) Reset() {
	clear(r.previous)
	clear(r.current)
}
