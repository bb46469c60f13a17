package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/flightsim/internal/sim"
	"github.com/san-kum/flightsim/internal/viz"
)

// Plane picks which two world axes a trajectory plot uses.
type Plane int

const (
	// Profile plots altitude against downrange distance (x, y).
	Profile Plane = iota
	// Track plots the ground track seen from above (x, z).
	Track
)

func (p Plane) String() string {
	if p == Track {
		return "track"
	}
	return "profile"
}

// ParsePlane accepts "profile" or "track".
func ParsePlane(s string) (Plane, error) {
	switch s {
	case "profile", "":
		return Profile, nil
	case "track":
		return Track, nil
	}
	return Profile, fmt.Errorf("unknown plane %q (want profile or track)", s)
}

// Project reduces samples to 2D points in the given plane. Track points
// put +Z (right) downward so a right turn curves down the page.
func Project(samples []sim.Sample, plane Plane) (xs, ys []float64) {
	xs = make([]float64, len(samples))
	ys = make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Position[0]
		if plane == Track {
			ys[i] = -s.Position[2]
		} else {
			ys[i] = s.Position[1]
		}
	}
	return xs, ys
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff66">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the flight path as a single polyline with 10%
// padding on every side. Fewer than two samples yield "".
func TrajectoryToSVG(samples []sim.Sample, plane Plane, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}
	xs, ys := Project(samples, plane)

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return lo, hi
}
