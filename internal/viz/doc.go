// Package viz draws the airplane in the terminal.
//
// A Braille [Canvas] gives 2x4 sub-pixels per cell. [Camera] projects
// world-space [Wireframe] edges with mgl64 view and perspective matrices.
// [Model] is the Bubble Tea live view and [App] puts a scenario picker in
// front of it.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Reset the flight
//	Up/Dn  - Throttle
//	C      - Cycle camera
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	[ ]    - Replay back/forward
//	?      - Help overlay
package viz
