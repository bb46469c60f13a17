package analysis

import (
	"strings"
)

type PhasePoint struct{ X, Y float64 }

// PhasePortrait2D pairs two equally sampled channels.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []PhasePoint
}

// NewPhasePortrait zips x and y, truncating to the shorter one.
func NewPhasePortrait(xLabel string, x []float64, yLabel string, y []float64) *PhasePortrait2D {
	n := min(len(x), len(y))
	p := &PhasePortrait2D{XLabel: xLabel, YLabel: yLabel, Points: make([]PhasePoint, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = PhasePoint{X: x[i], Y: y[i]}
	}
	return p
}

// PhasePortraitToASCII rasterizes a portrait onto a width x height grid.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which the detrended channel
// rises through zero.
func Crossings(data []float64, dt float64) []float64 {
	d := Detrend(data)
	out := make([]float64, 0)
	for i := 1; i < len(d); i++ {
		prev, curr := d[i-1], d[i]
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			out = append(out, (float64(i-1)+frac)*dt)
		}
	}
	return out
}

// CrossingPeriod averages the spacing of upward crossings. It needs at
// least two crossings.
func CrossingPeriod(data []float64, dt float64) (period float64, ok bool) {
	c := Crossings(data, dt)
	if len(c) < 2 {
		return 0, false
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1), true
}
