// Package explode animates assembly parts away from the assembly center
// and back, using per-part direction vectors computed once per load.
package explode

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/scene"
	"github.com/Faultbox/partscope/pkg/mathx"
)

const (
	// expansionScale sets the explosion travel as a fraction of the
	// model diagonal.
	expansionScale = 0.5
	// lerpFactor is the per-tick fraction of remaining distance
	// covered; the damped approach terminates on its own.
	lerpFactor = 0.1
)

// fallbackDirection is used for a part whose center coincides with the
// assembly center.
var fallbackDirection = mgl32.Vec3{0, 1, 0}

// Controller holds the per-node explosion vectors and expansion
// distance for the currently loaded asset. A new load replaces the
// controller wholesale; nothing carries across assets.
type Controller struct {
	vectors  map[scene.NodeID]mgl32.Vec3
	distance float32
}

// New returns an empty controller.
func New() *Controller {
	return &Controller{vectors: make(map[scene.NodeID]mgl32.Vec3)}
}

// Recompute derives each mesh node's explosion vector: node world
// bounding-box center minus assembly center, normalized with the +Y
// fallback, rotated into the node's parent-local frame since positions
// are written locally. The expansion distance is half the model
// diagonal.
func (c *Controller) Recompute(g *scene.Graph) {
	c.vectors = make(map[scene.NodeID]mgl32.Vec3, g.Len())

	info := g.BoundingInfo()
	c.distance = info.Diagonal * expansionScale

	g.EachMesh(func(n *scene.Node) {
		box, ok := g.NodeBounds(n.ID)
		if !ok {
			return
		}
		dir := mathx.SafeNormalize(box.Center().Sub(info.Center), fallbackDirection)

		parentRot := mgl32.QuatIdent()
		if n.Parent != scene.InvalidNode {
			parentRot = g.WorldRotation(n.Parent)
		}
		c.vectors[n.ID] = parentRot.Inverse().Rotate(dir)
	})
}

// Vector returns the parent-local explosion direction for a node.
func (c *Controller) Vector(id scene.NodeID) (mgl32.Vec3, bool) {
	v, ok := c.vectors[id]
	return v, ok
}

// Distance returns the expansion travel distance.
func (c *Controller) Distance() float32 {
	return c.distance
}

// Step advances every part 10% of the way toward its target: baseline
// plus vector times distance when exploded, plain baseline otherwise.
// Toggling the flag off replays the same interpolation in reverse.
func (c *Controller) Step(g *scene.Graph, exploded bool) {
	moved := false
	g.EachMesh(func(n *scene.Node) {
		vec, ok := c.vectors[n.ID]
		if !ok {
			return
		}
		target := n.BasePosition
		if exploded {
			target = target.Add(vec.Mul(c.distance))
		}
		delta := target.Sub(n.Position)
		if delta.Len() < 1e-6 {
			n.Position = target
			return
		}
		n.Position = n.Position.Add(delta.Mul(lerpFactor))
		moved = true
	})
	if moved {
		g.MarkDirty()
	}
}
