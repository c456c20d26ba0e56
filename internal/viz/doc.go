// Package viz draws a running world in the terminal with Bubble Tea.
//
//   - [Renderer]: implements sim.Renderer on a braille [Canvas]
//   - [Model]: live view stepping an experiment at a fixed 17ms frame
//   - [RunInteractive]: scene picker in front of the live view
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	Arrows - Move the spawn cursor
//	A      - Add a ball with a random colour
//	T      - Add a purge trigger
//	1 / 2  - Add a blue blocker / blue painter
//	X      - Remove the last ball
//	C      - Clear the world
//	W      - Toggle wind
//	Tab    - Cycle themes
package viz
