// Package asset loads GLB containers into the viewer's scene graph.
// Anything upstream of the GLB (CAD conversion, upload, transport) is an
// external collaborator; the only contract here is a loadable file.
package asset

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/partscope/internal/scene"
)

// ErrNoScene is returned when the container holds no scene to display.
var ErrNoScene = errors.New("asset: document contains no scene")

// LoadError wraps any read or parse failure. A load error is terminal
// for that attempt; callers surface it and do not retry automatically.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads a GLB file and builds the source scene graph. The returned
// graph is never mutated by the viewer; a working clone is normalized
// instead, so the source can be reinstated cleanly on reload.
func Load(path string) (*scene.Graph, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	g, err := FromDocument(doc)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return g, nil
}

// FromDocument converts a parsed glTF document into a scene graph.
// Missing normals or indices on a primitive are tolerated; the mesh is
// kept and the dependent steps downstream skip it.
func FromDocument(doc *gltf.Document) (*scene.Graph, error) {
	sceneIdx := uint32(0)
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if int(sceneIdx) >= len(doc.Scenes) {
		return nil, ErrNoScene
	}

	g := scene.NewGraph()
	for _, root := range doc.Scenes[sceneIdx].Nodes {
		if err := addNode(g, doc, root, scene.InvalidNode); err != nil {
			return nil, err
		}
	}
	if g.Len() == 0 {
		return nil, ErrNoScene
	}
	g.CaptureBaselines()
	return g, nil
}

func addNode(g *scene.Graph, doc *gltf.Document, idx uint32, parent scene.NodeID) error {
	if int(idx) >= len(doc.Nodes) {
		return fmt.Errorf("asset: node index %d out of range", idx)
	}
	src := doc.Nodes[idx]

	n := g.AddNode(src.Name, parent)
	applyTransform(n, src)

	if src.Mesh != nil && int(*src.Mesh) < len(doc.Meshes) {
		mesh := doc.Meshes[*src.Mesh]
		for pi, prim := range mesh.Primitives {
			owner := n
			// Extra primitives become sibling mesh nodes under the same
			// parent node so each keeps its own material.
			if pi > 0 {
				owner = g.AddNode(fmt.Sprintf("%s.%d", src.Name, pi), n.ID)
			}
			if err := applyPrimitive(owner, doc, prim); err != nil {
				return err
			}
		}
	}

	for _, child := range src.Children {
		if err := addNode(g, doc, child, n.ID); err != nil {
			return err
		}
	}
	return nil
}

// applyTransform copies the glTF node transform. Matrix-form nodes are
// decomposed into TRS so downstream controllers see every node the
// same way. The OrDefault accessors absorb zeroed fields from
// hand-built documents.
func applyTransform(n *scene.Node, src *gltf.Node) {
	if m := src.MatrixOrDefault(); m != gltf.DefaultMatrix {
		decomposeMatrix(n, mgl32.Mat4(m))
		return
	}

	t := src.TranslationOrDefault()
	n.Position = mgl32.Vec3{t[0], t[1], t[2]}

	r := src.RotationOrDefault()
	n.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()

	s := src.ScaleOrDefault()
	n.Scale = mgl32.Vec3{s[0], s[1], s[2]}
}

// decomposeMatrix splits a column-major affine matrix into translation,
// rotation and scale. A negative determinant folds the mirror into the
// X scale factor.
func decomposeMatrix(n *scene.Node, w mgl32.Mat4) {
	n.Position = w.Col(3).Vec3()

	sx := w.Col(0).Vec3().Len()
	sy := w.Col(1).Vec3().Len()
	sz := w.Col(2).Vec3().Len()
	if w.Det() < 0 {
		sx = -sx
	}
	n.Scale = mgl32.Vec3{sx, sy, sz}

	if sx == 0 || sy == 0 || sz == 0 {
		n.Rotation = mgl32.QuatIdent()
		return
	}
	rot := mgl32.Mat4FromCols(
		w.Col(0).Mul(1/sx),
		w.Col(1).Mul(1/sy),
		w.Col(2).Mul(1/sz),
		mgl32.Vec4{0, 0, 0, 1},
	)
	n.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
}

func applyPrimitive(n *scene.Node, doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		// No positions at all: keep the node as a group.
		return nil
	}
	pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("asset: reading positions: %w", err)
	}

	m := &scene.Mesh{Positions: make([]float32, 0, len(pos)*3)}
	for _, p := range pos {
		m.Positions = append(m.Positions, p[0], p[1], p[2])
	}

	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if norms, err := modeler.ReadNormal(doc, doc.Accessors[normIdx], nil); err == nil {
			m.Normals = make([]float32, 0, len(norms)*3)
			for _, v := range norms {
				m.Normals = append(m.Normals, v[0], v[1], v[2])
			}
		}
	}

	if prim.Indices != nil {
		if idx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err == nil {
			m.Indices = idx
		}
	}

	n.Mesh = m
	n.Material = convertMaterial(doc, prim.Material)
	return nil
}

func convertMaterial(doc *gltf.Document, idx *uint32) *scene.Material {
	m := scene.DefaultMaterial()
	if idx == nil || int(*idx) >= len(doc.Materials) {
		return m
	}
	src := doc.Materials[*idx]
	m.DoubleSided = src.DoubleSided

	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		return m
	}
	if pbr.BaseColorFactor != nil {
		c := *pbr.BaseColorFactor
		m.BaseColor = scene.RGBA{
			R: float32(c[0]), G: float32(c[1]), B: float32(c[2]), A: float32(c[3]),
		}
	} else {
		m.BaseColor = scene.RGBA{R: 1, G: 1, B: 1, A: 1}
	}
	if pbr.MetallicFactor != nil {
		m.Metalness = float32(*pbr.MetallicFactor)
	} else {
		m.Metalness = 1
	}
	if pbr.RoughnessFactor != nil {
		m.Roughness = float32(*pbr.RoughnessFactor)
	} else {
		m.Roughness = 1
	}
	m.Textured = pbr.BaseColorTexture != nil
	return m
}
