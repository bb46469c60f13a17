package aero

import (
	"fmt"
	"math"
	"sort"
)

// Point is one (x, y) sample of a Curve.
type Point struct {
	X, Y float64
}

// Curve is an immutable piecewise-linear lookup table. It is safe for
// concurrent use.
type Curve struct {
	points []Point
}

// NewCurve copies points into a Curve. The samples must be finite and
// strictly increasing in X.
func NewCurve(points []Point) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%d samples: %w", len(points), ErrTooFewSamples)
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("sample %d (%v, %v) is not finite: %w", i, p.X, p.Y, ErrNotMonotonic)
		}
		if i > 0 && !(points[i-1].X < p.X) {
			return nil, fmt.Errorf("sample %d: x=%v after x=%v: %w", i, p.X, points[i-1].X, ErrNotMonotonic)
		}
	}

	c := &Curve{points: make([]Point, len(points))}
	copy(c.points, points)
	return c, nil
}

// MustCurve is like NewCurve but panics on invalid input. Use it for
// tables fixed at compile time.
func MustCurve(points ...Point) *Curve {
	c, err := NewCurve(points)
	if err != nil {
		panic(err)
	}
	return c
}

// Sample interpolates the table at x. Queries outside the table return the
// nearest edge value.
func (c *Curve) Sample(x float64) float64 {
	first, last := c.points[0], c.points[len(c.points)-1]
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case x <= first.X:
		return first.Y
	case x >= last.X:
		return last.Y
	}

	// first index with X >= x; always in [1, len-1] here
	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].X >= x })
	a, b := c.points[i-1], c.points[i]
	t := (x - a.X) / (b.X - a.X)
	return a.Y + t*(b.Y-a.Y)
}

// Domain returns the smallest and largest sampled x.
func (c *Curve) Domain() (lo, hi float64) {
	return c.points[0].X, c.points[len(c.points)-1].X
}

// Points returns a copy of the samples.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}
