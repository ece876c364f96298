package scene

import "github.com/go-gl/mathgl/mgl32"

// Mesh is triangulated geometry in node-local space. Positions are
// packed xyz triples. Normals and indices may be absent; consumers skip
// the dependent step rather than failing (GeometryMissing tolerance).
type Mesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// Vertex returns the i-th vertex position.
func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

// Triangle returns the corner positions of the i-th triangle, following
// indices when present and sequential order otherwise.
func (m *Mesh) Triangle(i int) [3]mgl32.Vec3 {
	var a, b, c int
	if len(m.Indices) > 0 {
		a, b, c = int(m.Indices[i*3]), int(m.Indices[i*3+1]), int(m.Indices[i*3+2])
	} else {
		a, b, c = i*3, i*3+1, i*3+2
	}
	return [3]mgl32.Vec3{m.Vertex(a), m.Vertex(b), m.Vertex(c)}
}

// CubeMesh builds an axis-aligned cube of the given edge length centered
// at the origin. Used as the loading placeholder and in tests.
func CubeMesh(size float32) *Mesh {
	h := size / 2
	// 8 corners, 12 triangles; flat normals are left to the shader.
	p := []float32{
		-h, -h, -h, h, -h, -h, h, h, -h, -h, h, -h, // back face corners
		-h, -h, h, h, -h, h, h, h, h, -h, h, h, // front face corners
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}
	return &Mesh{Positions: p, Indices: idx}
}
