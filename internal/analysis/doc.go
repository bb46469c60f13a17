// Package analysis extracts oscillation characteristics from recorded
// flight channels.
//
//   - [PowerSpectrum] and [DominantPeriod]: spectral period of a channel
//   - [CrossingPeriod]: period from upward mean crossings
//   - [NewPhasePortrait]: two channels plotted against each other
//
// # Phugoid Detection
//
// A glider trimmed away from its equilibrium trades height for speed in a
// slow oscillation. Its period shows up in the altitude channel once the
// steady sink is removed:
//
//	y, _ := storage.Channel(samples, "y")
//	period, ok := analysis.DominantPeriod(y, dt)
package analysis
