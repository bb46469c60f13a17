// Package aero models aerodynamic surfaces.
//
//   - [Curve]: piecewise-linear coefficient table indexed by angle of attack
//   - [Wing]: a lifting surface attached to a body at a fixed offset
//   - [Airfoil]: named lift/drag table pairs (NACA 0015, flat plate, zero)
//
// Angles of attack are in degrees wherever they cross the Wing/Curve
// boundary. Force magnitudes use the simplified dynamic pressure
// k * v² * C * A, with k = [SimplifiedPressureFactor] unless a wing
// overrides it.
package aero
