// Package control closes loops around the airplane's controls.
//
// [PID] is a plain discrete controller with output limits and
// conditional integration. [Autothrottle] wraps one to hold airspeed
// with the engine and plugs into a simulator as a [sim.Observer], so it
// acts on the state before every frame.
package control
