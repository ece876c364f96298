// Package picking provides ray casting against the scene graph: screen
// rays, AABB broad phase and triangle narrow phase for pointer picks.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/scene"
)

// Ray is a ray in world space with a normalized direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Hit describes the closest surface point under a pointer ray. Triangle
// holds the world-space corners of the struck face so feature snapping
// can resolve its vertices and edges.
type Hit struct {
	Point    mgl32.Vec3
	Triangle [3]mgl32.Vec3
	Normal   mgl32.Vec3
	Node     scene.NodeID
	Distance float32
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) mgl32.Vec3 {
	w := inv.Mul4x1(p)
	if w.W() != 0 {
		return mgl32.Vec3{w.X() / w.W(), w.Y() / w.W(), w.Z() / w.W()}
	}
	return w.Vec3()
}

// IntersectAABB runs the slab test against a box. Returns the entry
// distance, or zero when the origin is inside; the result is a lower
// bound on any triangle hit within the box.
func (r Ray) IntersectAABB(box scene.AABB) (float32, bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] != 0 {
			t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
			t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// IntersectTriangle runs Moller-Trumbore against one triangle. Back
// faces count as hits since inspection materials render double-sided.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (float32, bool) {
	const eps = 1e-7

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false // parallel
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < eps {
		return 0, false
	}
	return t, true
}

// Pick casts the ray through the graph and returns the nearest triangle
// hit. Node AABBs gate the per-triangle tests.
func Pick(g *scene.Graph, r Ray) (Hit, bool) {
	best := Hit{Node: scene.InvalidNode, Distance: math32.MaxFloat32}
	found := false

	g.EachMesh(func(n *scene.Node) {
		box, ok := g.NodeBounds(n.ID)
		if !ok {
			return
		}
		if t, ok := r.IntersectAABB(box); !ok || t > best.Distance {
			return
		}

		world := g.World(n.ID)
		for i := 0; i < n.Mesh.TriangleCount(); i++ {
			tri := n.Mesh.Triangle(i)
			a := world.Mul4x1(tri[0].Vec4(1)).Vec3()
			b := world.Mul4x1(tri[1].Vec4(1)).Vec3()
			c := world.Mul4x1(tri[2].Vec4(1)).Vec3()

			t, ok := r.IntersectTriangle(a, b, c)
			if !ok || t >= best.Distance {
				continue
			}
			normal := b.Sub(a).Cross(c.Sub(a))
			if l := normal.Len(); l > 0 {
				normal = normal.Mul(1 / l)
			}
			best = Hit{
				Point:    r.Origin.Add(r.Direction.Mul(t)),
				Triangle: [3]mgl32.Vec3{a, b, c},
				Normal:   normal,
				Node:     n.ID,
				Distance: t,
			}
			found = true
		}
	})

	return best, found
}
