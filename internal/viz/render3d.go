package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/dynamo"
)

type CameraMode int

const (
	ChaseCamera CameraMode = iota
	SideCamera
	TopCamera
)

func (m CameraMode) String() string {
	switch m {
	case SideCamera:
		return "side"
	case TopCamera:
		return "top"
	default:
		return "chase"
	}
}

// Camera follows a target pose and projects world points onto a canvas.
type Camera struct {
	Mode     CameraMode
	Distance float64
	FOV      float64 // radians
	Zoom     float64
	Orbit    float64 // extra yaw around the target, radians
}

func NewCamera() *Camera {
	return &Camera{Mode: ChaseCamera, Distance: 12, FOV: mgl64.DegToRad(60), Zoom: 1}
}

func (c *Camera) ZoomIn()              { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()             { c.Zoom = math.Max(0.1, c.Zoom/1.2) }
func (c *Camera) OrbitBy(a float64)    { c.Orbit += a }
func (c *Camera) NextMode()            { c.Mode = (c.Mode + 1) % 3 }
func (c *Camera) SetMode(m CameraMode) { c.Mode = m }

// View builds the world-to-camera matrix for looking at target.
func (c *Camera) View(target dynamo.Pose) mgl64.Mat4 {
	at := target.Position
	orbit := mgl64.QuatRotate(c.Orbit, dynamo.Up)

	var eye, up mgl64.Vec3
	switch c.Mode {
	case SideCamera:
		eye = at.Add(orbit.Rotate(mgl64.Vec3{0, 0, c.Distance}))
		up = dynamo.Up
	case TopCamera:
		eye = at.Add(mgl64.Vec3{0, c.Distance, 0})
		up = orbit.Rotate(dynamo.Forward)
	default:
		heading, _, _ := target.EulerAngles()
		behind := mgl64.QuatRotate(heading+c.Orbit, dynamo.Up).Rotate(mgl64.Vec3{-c.Distance, c.Distance * 0.35, 0})
		eye = at.Add(behind)
		up = dynamo.Up
	}
	return mgl64.LookAtV(eye, at, up)
}

// Project maps p to sub-pixel coordinates on a w x h raster. ok is false
// when p is behind the camera.
func (c *Camera) Project(p mgl64.Vec3, view mgl64.Mat4, w, h int) (x, y int, depth float64, ok bool) {
	proj := mgl64.Perspective(c.FOV/c.Zoom, float64(w)/float64(h), 0.1, 5000)
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip.W() < 0.1 {
		return 0, 0, 0, false
	}

	ndc := clip.Vec3().Mul(1 / clip.W())
	x = int((ndc.X() + 1) / 2 * float64(w-1))
	y = int((1 - ndc.Y()) / 2 * float64(h-1))
	return x, y, clip.W(), true
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

// Transformed returns a copy with every vertex multiplied by m.
func (w *Wireframe) Transformed(m mgl64.Mat4) *Wireframe {
	out := &Wireframe{Edges: make([]Edge, len(w.Edges))}
	for i, e := range w.Edges {
		out.Edges[i] = Edge{
			Start: m.Mul4x1(e.Start.Vec4(1)).Vec3(),
			End:   m.Mul4x1(e.End.Vec4(1)).Vec3(),
		}
	}
	return out
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe far to near. Edges with an endpoint behind
// the camera or absurdly far off screen are skipped.
func Render3D(c *Canvas, w *Wireframe, cam *Camera, view mgl64.Mat4) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	limit := 8 * max(pw, ph)

	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, ok1 := cam.Project(e.Start, view, pw, ph)
		x2, y2, d2, ok2 := cam.Project(e.End, view, pw, ph)
		if !ok1 || !ok2 {
			continue
		}
		if absInt(x1) > limit || absInt(y1) > limit || absInt(x2) > limit || absInt(y2) > limit {
			continue
		}
		proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
	}

	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// AirplaneWireframe outlines a fuselage plus one rectangle per surface in
// body space. Each rectangle is sized from the surface area with a 4:1
// span to chord ratio.
func AirplaneWireframe(wings []*aero.Wing) *Wireframe {
	w := NewWireframe()
	nose := mgl64.Vec3{2, 0, 0}
	tail := mgl64.Vec3{-1.5, 0, 0}
	w.AddEdge(tail, nose)
	w.AddEdge(nose, mgl64.Vec3{1.6, 0.2, 0})
	w.AddEdge(nose, mgl64.Vec3{1.6, -0.2, 0})

	for _, wing := range wings {
		span := math.Sqrt(wing.Area() * 4)
		chord := wing.Area() / span
		s := wing.Span().Mul(span / 2)
		f := dynamo.Forward.Mul(chord / 2)
		o := wing.Offset()

		a := o.Add(f).Add(s)
		b := o.Add(f).Sub(s)
		c := o.Sub(f).Sub(s)
		d := o.Sub(f).Add(s)
		w.AddEdge(a, b)
		w.AddEdge(b, c)
		w.AddEdge(c, d)
		w.AddEdge(d, a)
	}
	return w
}

// GroundGrid draws square cells of the given spacing on y = 0 around
// center.
func GroundGrid(center mgl64.Vec3, spacing float64, cells int) *Wireframe {
	w := NewWireframe()
	cx := math.Round(center[0]/spacing) * spacing
	cz := math.Round(center[2]/spacing) * spacing
	half := float64(cells) * spacing / 2

	for i := 0; i <= cells; i++ {
		off := -half + float64(i)*spacing
		w.AddEdge(mgl64.Vec3{cx - half, 0, cz + off}, mgl64.Vec3{cx + half, 0, cz + off})
		w.AddEdge(mgl64.Vec3{cx + off, 0, cz - half}, mgl64.Vec3{cx + off, 0, cz + half})
	}
	return w
}
