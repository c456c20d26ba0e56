package physics

import "github.com/san-kum/parched/internal/ball"

// Pair names two slots whose x-extents overlap, with I < J in sorted order.
type Pair struct {
	I, J int
}

// SortByMinX reorders the set by the left edge of each ball. Insertion sort is
// used since the order barely changes between passes, which keeps the cost
// close to linear once the set has settled.
func SortByMinX(set *ball.Set) {
	visuals := set.Visuals.Slice()
	for i := 1; i < len(visuals); i++ {
		for j := i; j > 0 && visuals[j-1].MinX() > visuals[j].MinX(); j-- {
			_ = set.Swap(j-1, j)
		}
	}
}

// Sweep visits every pair whose x-extents overlap, assuming the set is sorted
// by [SortByMinX]. The inner scan stops at the first ball starting past the
// right edge of the outer ball. Constraint balls never drive the outer loop;
// they are still visited as the inner ball so resolution can skip them.
//
// visit may move balls but must not reorder or remove slots.
func Sweep(set *ball.Set, visit func(i, j int)) {
	visuals := set.Visuals.Slice()
	motions := set.Motions.Slice()

	for i := range visuals {
		if !visuals[i].Active || motions[i].Behavior.Kind() == ball.Constraint {
			continue
		}
		for j := i + 1; j < len(visuals); j++ {
			if !visuals[j].Active || visuals[j].MinX() > visuals[i].MaxX() {
				break
			}
			visit(i, j)
		}
	}
}

// Candidates sorts the set and collects the pairs Sweep would visit.
func Candidates(set *ball.Set) []Pair {
	SortByMinX(set)
	var pairs []Pair
	Sweep(set, func(i, j int) {
		pairs = append(pairs, Pair{I: i, J: j})
	})
	return pairs
}
