package measure

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/scene"
)

// capacity is the measurement buffer size; a push beyond it restarts
// the sequence with only the new point.
const capacity = 3

// areaEpsilon suppresses the diameter label for collinear or degenerate
// triangles.
const areaEpsilon = 1e-6

// Point is one picked measurement anchor. The local point plus owner id
// is authoritative: the world point is re-derived every frame from the
// owner's live transform so measurements stay attached to animating
// parts. The captured world point is the fallback when the owner is
// gone.
type Point struct {
	World  mgl32.Vec3
	Local  mgl32.Vec3
	Owner  scene.NodeID
	Normal mgl32.Vec3
}

// Label is a measurement annotation for the external 2D overlay: text
// plus world-space anchor.
type Label struct {
	Text   string
	Anchor mgl32.Vec3
}

// Engine owns the 3-slot measurement point buffer.
type Engine struct {
	points []Point
}

// NewEngine returns an empty measurement engine.
func NewEngine() *Engine {
	return &Engine{points: make([]Point, 0, capacity)}
}

// AddWorld snaps nothing: it records an already-resolved world point on
// the given owner, deriving the local point from the owner's live world
// matrix. Pushing a 4th point resets the buffer to just the new one.
func (e *Engine) AddWorld(g *scene.Graph, owner scene.NodeID, world, normal mgl32.Vec3) {
	local := world
	if g != nil && g.Node(owner) != nil {
		inv := g.World(owner).Inv()
		local = inv.Mul4x1(world.Vec4(1)).Vec3()
	}
	e.Add(Point{World: world, Local: local, Owner: owner, Normal: normal})
}

// Add pushes a point with ring-reset semantics.
func (e *Engine) Add(p Point) {
	if len(e.points) >= capacity {
		e.points = e.points[:0]
	}
	e.points = append(e.points, p)
}

// Clear empties the buffer. Called when measurement mode ends or a
// pointer pick misses all geometry while the mode is active.
func (e *Engine) Clear() {
	e.points = e.points[:0]
}

// Len returns the number of stored points.
func (e *Engine) Len() int {
	return len(e.points)
}

// Points returns a copy of the stored points.
func (e *Engine) Points() []Point {
	out := make([]Point, len(e.points))
	copy(out, e.points)
	return out
}

// Refresh re-derives each point's world position from its stored local
// point and the owner's live world matrix. A missing owner keeps the
// originally captured world point.
func (e *Engine) Refresh(g *scene.Graph) {
	if g == nil {
		return
	}
	for i := range e.points {
		p := &e.points[i]
		if g.Node(p.Owner) == nil {
			continue
		}
		p.World = g.World(p.Owner).Mul4x1(p.Local.Vec4(1)).Vec3()
	}
}

// Labels derives the current annotations: two points give a distance at
// their midpoint; three add the circumcircle diameter at the centroid,
// suppressed when the triangle is degenerate.
func (e *Engine) Labels() []Label {
	if len(e.points) < 2 {
		return nil
	}

	a, b := e.points[0].World, e.points[1].World
	labels := []Label{{
		Text:   fmt.Sprintf("%.2f", a.Sub(b).Len()),
		Anchor: a.Add(b).Mul(0.5),
	}}

	if len(e.points) == 3 {
		c := e.points[2].World
		if d, ok := circumDiameter(a, b, c); ok {
			centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
			labels = append(labels, Label{
				Text:   fmt.Sprintf("%.2f", d),
				Anchor: centroid,
			})
		}
	}
	return labels
}

// circumDiameter computes the diameter of the circle through three
// points: R = abc / 4A with Heron's area. Returns false for collinear
// or coincident points.
func circumDiameter(p1, p2, p3 mgl32.Vec3) (float32, bool) {
	a := p2.Sub(p3).Len()
	b := p1.Sub(p3).Len()
	c := p1.Sub(p2).Len()

	s := (a + b + c) / 2
	under := s * (s - a) * (s - b) * (s - c)
	if under <= 0 {
		return 0, false
	}
	area := math32.Sqrt(under)
	if area <= areaEpsilon {
		return 0, false
	}
	return 2 * (a * b * c) / (4 * area), true
}
