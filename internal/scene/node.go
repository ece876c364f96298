// Package scene holds the mutable scene graph the viewer core operates on:
// a flat node arena with per-node transforms, materials and meshes, plus
// the normalization pass and bounding queries built on top of it.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID identifies a node inside its graph's arena. Derived caches
// (explosion vectors, baseline materials) key on this instead of holding
// pointers into the graph.
type NodeID int32

// InvalidNode marks a missing parent or owner reference.
const InvalidNode NodeID = -1

// Node is a mesh or group in the scene tree. Parent and child references
// are arena indices, never pointers, so a node can be looked up weakly
// after its owner animated or the graph was replaced.
type Node struct {
	ID       NodeID
	Name     string
	Parent   NodeID
	Children []NodeID

	// Live local transform, mutated by the per-frame controllers.
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// Baseline transform captured once at load. Explode interpolation
	// always works relative to this, never to the live transform.
	BasePosition mgl32.Vec3
	BaseRotation mgl32.Quat
	BaseScale    mgl32.Vec3

	// Material is nil for pure group nodes. BaseMaterial is the
	// pre-normalization snapshot used for color restoration.
	Material     *Material
	BaseMaterial *Material

	Mesh *Mesh
}

// IsMesh reports whether the node carries renderable geometry.
func (n *Node) IsMesh() bool {
	return n.Mesh != nil
}

// LocalMatrix composes the node's live TRS transform.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// Graph owns every node of one loaded asset. A new load discards the
// whole graph and builds a fresh one; nothing is reused across assets.
type Graph struct {
	nodes []*Node
	roots []NodeID

	world    []mgl32.Mat4
	worldRot []mgl32.Quat
	worldOK  bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a node under the given parent (InvalidNode for a root)
// and returns its id. Transform fields default to identity.
func (g *Graph) AddNode(name string, parent NodeID) *Node {
	n := &Node{
		ID:           NodeID(len(g.nodes)),
		Name:         name,
		Parent:       parent,
		Rotation:     mgl32.QuatIdent(),
		Scale:        mgl32.Vec3{1, 1, 1},
		BaseRotation: mgl32.QuatIdent(),
		BaseScale:    mgl32.Vec3{1, 1, 1},
	}
	g.nodes = append(g.nodes, n)
	if parent == InvalidNode {
		g.roots = append(g.roots, n.ID)
	} else if p := g.Node(parent); p != nil {
		p.Children = append(p.Children, n.ID)
	}
	g.worldOK = false
	return n
}

// Node returns the node for id, or nil when the id does not resolve.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Roots returns the root node ids.
func (g *Graph) Roots() []NodeID {
	return g.roots
}

// Each calls fn for every node in arena order.
func (g *Graph) Each(fn func(*Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

// EachMesh calls fn for every node carrying geometry.
func (g *Graph) EachMesh(fn func(*Node)) {
	for _, n := range g.nodes {
		if n.IsMesh() {
			fn(n)
		}
	}
}

// MarkDirty invalidates cached world transforms. Controllers that write
// node transforms call this so the next World lookup recomputes.
func (g *Graph) MarkDirty() {
	g.worldOK = false
}

// UpdateTransforms recomputes world matrices and rotations for every
// node. Parents precede children in the arena (loaders append in tree
// order), so one forward pass settles the whole graph.
func (g *Graph) UpdateTransforms() {
	if g.worldOK {
		return
	}
	if cap(g.world) < len(g.nodes) {
		g.world = make([]mgl32.Mat4, len(g.nodes))
		g.worldRot = make([]mgl32.Quat, len(g.nodes))
	}
	g.world = g.world[:len(g.nodes)]
	g.worldRot = g.worldRot[:len(g.nodes)]

	for i, n := range g.nodes {
		local := n.LocalMatrix()
		if n.Parent == InvalidNode {
			g.world[i] = local
			g.worldRot[i] = n.Rotation
		} else {
			g.world[i] = g.world[n.Parent].Mul4(local)
			g.worldRot[i] = g.worldRot[n.Parent].Mul(n.Rotation)
		}
	}
	g.worldOK = true
}

// World returns the node's world matrix, updating caches if needed.
func (g *Graph) World(id NodeID) mgl32.Mat4 {
	g.UpdateTransforms()
	if id < 0 || int(id) >= len(g.world) {
		return mgl32.Ident4()
	}
	return g.world[id]
}

// WorldRotation returns the node's accumulated world rotation.
func (g *Graph) WorldRotation(id NodeID) mgl32.Quat {
	g.UpdateTransforms()
	if id < 0 || int(id) >= len(g.worldRot) {
		return mgl32.QuatIdent()
	}
	return g.worldRot[id]
}

// Orientation returns the model's current orientation: the rotation of
// the first root node. Canonical views resolve against this so "front"
// tracks the model's own declared front under arbitrary re-orientation.
func (g *Graph) Orientation() mgl32.Quat {
	if len(g.roots) == 0 {
		return mgl32.QuatIdent()
	}
	return g.nodes[g.roots[0]].Rotation
}

// Clone produces an independent working copy of the graph. Meshes are
// shared (geometry is immutable after load); transforms and materials
// are deep-copied so normalization and mode toggles never touch the
// source asset.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]*Node, len(g.nodes)),
		roots: append([]NodeID(nil), g.roots...),
	}
	for i, n := range g.nodes {
		cn := *n
		cn.Children = append([]NodeID(nil), n.Children...)
		if n.Material != nil {
			cn.Material = n.Material.Clone()
		}
		if n.BaseMaterial != nil {
			cn.BaseMaterial = n.BaseMaterial.Clone()
		}
		c.nodes[i] = &cn
	}
	return c
}

// CaptureBaselines records every node's current transform as its
// baseline. Loaders call this once after building the tree.
func (g *Graph) CaptureBaselines() {
	for _, n := range g.nodes {
		n.BasePosition = n.Position
		n.BaseRotation = n.Rotation
		n.BaseScale = n.Scale
	}
}
