// Package physics resolves contacts between balls stored in a [ball.Set].
//
// One collision pass runs in three stages:
//
//   - [SolveConstraints]: clamp Normal balls inside every Constraint ball
//   - [SortByMinX] and [Sweep]: order slots along x and visit overlapping x-extents
//   - [Resolver]: resolve each candidate pair according to the behaviors involved
//
// Resolution is sequential. A correction applied to one pair is visible to every
// pair visited after it in the same pass, so repeated passes converge instead of
// solving the whole system at once.
//
//	res := physics.NewResolver(0.5)
//	physics.SolveConstraints(set)
//	res.BeginPass()
//	physics.SortByMinX(set)
//	physics.Sweep(set, func(i, j int) { res.Resolve(set, i, j) })
//	res.EndPass(set)
package physics
