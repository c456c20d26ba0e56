package physics

import "github.com/san-kum/parched/internal/ball"

// SolveConstraints projects every Normal ball that pokes out of a Constraint
// ball back onto the inner rim. Constraint balls never move.
func SolveConstraints(set *ball.Set) {
	visuals := set.Visuals.Slice()
	motions := set.Motions.Slice()

	for c := range motions {
		if motions[c].Behavior.Kind() != ball.Constraint {
			continue
		}
		centre := visuals[c].Position
		rc := visuals[c].Scale

		for i := range motions {
			if motions[i].Behavior.Kind() != ball.Normal {
				continue
			}
			limit := rc - visuals[i].Scale
			if limit < 0 {
				limit = 0
			}
			d := visuals[i].Position.Sub(centre)
			dist := d.Len()
			if dist == 0 || dist <= limit {
				continue
			}
			visuals[i].Position = centre.Add(d.Mul(limit / dist))
		}
	}
}

// Violation reports how far slot i sits outside the tightest Constraint ball
// that contains its centre. Zero means contained.
func Violation(set *ball.Set, i int) float32 {
	visuals := set.Visuals.Slice()
	motions := set.Motions.Slice()
	if i < 0 || i >= len(visuals) || motions[i].Behavior.Kind() != ball.Normal {
		return 0
	}

	worst := float32(0)
	for c := range motions {
		if motions[c].Behavior.Kind() != ball.Constraint {
			continue
		}
		limit := visuals[c].Scale - visuals[i].Scale
		if limit < 0 {
			limit = 0
		}
		if over := visuals[i].Position.Sub(visuals[c].Position).Len() - limit; over > worst {
			worst = over
		}
	}
	return worst
}
