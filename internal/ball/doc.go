// Package ball provides the slot storage shared by every stage of the physics core.
//
// A ball lives in a slot that indexes two parallel arrays:
//
//   - [VisualStore]: what a renderer needs (position, colour, radius, active flag)
//   - [MotionStore]: what the solver needs (previous position, acceleration, behavior)
//   - [Set]: pairs both stores so every reorder touches both at once
//   - [Behavior]: the role a ball plays during resolution (Normal, Constraint, Trigger, Selective)
//
// # Slot Identity
//
// A slot index is not a stable handle. Erasing swaps the last slot into the hole and the
// broad phase reorders slots on every collision pass, so an index handed to a callback is only
// meaningful until that pass ends.
//
//	set := ball.NewSet(1024)
//	i, _ := set.Push(ball.Visual{Position: mgl32.Vec2{0, 0.5}, Scale: 0.03}, ball.NormalBehavior())
//	_ = set.Swap(i, 0)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use.
package ball
