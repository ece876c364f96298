package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max mgl32.Vec3
}

// emptyAABB is the identity for Join.
func emptyAABB() AABB {
	const big = math32.MaxFloat32
	return AABB{
		Min: mgl32.Vec3{big, big, big},
		Max: mgl32.Vec3{-big, -big, -big},
	}
}

// Valid reports whether the box encloses at least one point.
func (b AABB) Valid() bool {
	return b.Min.X() <= b.Max.X() && b.Min.Y() <= b.Max.Y() && b.Min.Z() <= b.Max.Z()
}

// Center returns the box center.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents per axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxDimension returns the largest extent.
func (b AABB) MaxDimension() float32 {
	s := b.Size()
	return math32.Max(s.X(), math32.Max(s.Y(), s.Z()))
}

// Diagonal returns the length of the box diagonal.
func (b AABB) Diagonal() float32 {
	return b.Size().Len()
}

// Join returns the smallest box enclosing both.
func (b AABB) Join(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(b.Min.X(), o.Min.X()),
			math32.Min(b.Min.Y(), o.Min.Y()),
			math32.Min(b.Min.Z(), o.Min.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(b.Max.X(), o.Max.X()),
			math32.Max(b.Max.Y(), o.Max.Y()),
			math32.Max(b.Max.Z(), o.Max.Z()),
		},
	}
}

// extend grows the box to include p.
func (b AABB) extend(p mgl32.Vec3) AABB {
	return b.Join(AABB{Min: p, Max: p})
}

// NodeBounds computes the node's world-space AABB from its mesh
// vertices and live world matrix. Returns false for nodes without
// geometry.
func (g *Graph) NodeBounds(id NodeID) (AABB, bool) {
	n := g.Node(id)
	if n == nil || n.Mesh == nil || len(n.Mesh.Positions) < 3 {
		return AABB{}, false
	}
	world := g.World(id)
	box := emptyAABB()
	for i := 0; i < n.Mesh.VertexCount(); i++ {
		v := n.Mesh.Vertex(i)
		w := world.Mul4x1(v.Vec4(1)).Vec3()
		box = box.extend(w)
	}
	return box, true
}

// Bounds joins every mesh node's world AABB into the assembly box.
func (g *Graph) Bounds() (AABB, bool) {
	box := emptyAABB()
	any := false
	g.EachMesh(func(n *Node) {
		if nb, ok := g.NodeBounds(n.ID); ok {
			box = box.Join(nb)
			any = true
		}
	})
	return box, any
}

// BoundingInfo is the fitted metric snapshot handed to camera setup and
// external dimension readouts on load.
type BoundingInfo struct {
	Box          AABB
	Center       mgl32.Vec3
	Size         mgl32.Vec3
	MaxDimension float32
	Diagonal     float32
}

// BoundingInfo computes the assembly metrics. A graph with no geometry
// yields a unit box around the origin so camera math stays finite.
func (g *Graph) BoundingInfo() BoundingInfo {
	box, ok := g.Bounds()
	if !ok {
		box = AABB{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}
	}
	return BoundingInfo{
		Box:          box,
		Center:       box.Center(),
		Size:         box.Size(),
		MaxDimension: box.MaxDimension(),
		Diagonal:     box.Diagonal(),
	}
}
