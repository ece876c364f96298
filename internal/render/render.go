// Package render draws the working scene graph with OpenGL. It is the
// thin rasterizer behind the interaction engine: meshes are uploaded
// once per mesh and drawn per node with the node's world transform and
// current material.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/logger"
	"github.com/Faultbox/partscope/internal/scene"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// meshBuffers is the uploaded GPU state for one mesh.
type meshBuffers struct {
	vao     uint32
	vbo     uint32
	nbo     uint32
	ebo     uint32
	indices int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program   uint32
	uMVP      int32
	uModel    int32
	uColor    int32
	uLightDir int32
	uEnvBoost int32

	meshes map[*scene.Mesh]*meshBuffers
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[*scene.Mesh]*meshBuffers),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	// Materials are forced double-sided, so no face culling.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.12, 0.13, 0.15, 1.0)

	var err error
	r.program, err = compileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.uMVP = uniform(r.program, "uMVP")
	r.uModel = uniform(r.program, "uModel")
	r.uColor = uniform(r.program, "uColor")
	r.uLightDir = uniform(r.program, "uLightDir")
	r.uEnvBoost = uniform(r.program, "uEnvBoost")

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, mb := range r.meshes {
		gl.DeleteVertexArrays(1, &mb.vao)
		gl.DeleteBuffers(1, &mb.vbo)
		gl.DeleteBuffers(1, &mb.nbo)
		gl.DeleteBuffers(1, &mb.ebo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Aspect returns the current viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawGraph renders every mesh node with its world transform and
// current material. lightDir is the headlight direction in world space.
func (r *Renderer) DrawGraph(g *scene.Graph, view, proj mgl32.Mat4, lightDir mgl32.Vec3) {
	gl.UseProgram(r.program)
	gl.Uniform3f(r.uLightDir, lightDir.X(), lightDir.Y(), lightDir.Z())

	viewProj := proj.Mul4(view)
	g.EachMesh(func(n *scene.Node) {
		mb := r.upload(n.Mesh)
		if mb == nil {
			return
		}
		model := g.World(n.ID)
		mvp := viewProj.Mul4(model)
		gl.UniformMatrix4fv(r.uMVP, 1, false, &mvp[0])
		gl.UniformMatrix4fv(r.uModel, 1, false, &model[0])

		mat := n.Material
		if mat == nil {
			return
		}
		gl.Uniform4f(r.uColor, mat.BaseColor.R, mat.BaseColor.G, mat.BaseColor.B, mat.Opacity)
		gl.Uniform1f(r.uEnvBoost, mat.EnvIntensity)

		if !mat.DepthWrite {
			gl.DepthMask(false)
		}
		gl.BindVertexArray(mb.vao)
		gl.DrawElements(gl.TRIANGLES, mb.indices, gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
		if !mat.DepthWrite {
			gl.DepthMask(true)
		}
	})
}

// upload lazily pushes a mesh to the GPU. Meshes are shared between
// the source and working graphs, so the cache key is the mesh pointer.
func (r *Renderer) upload(m *scene.Mesh) *meshBuffers {
	if mb, ok := r.meshes[m]; ok {
		return mb
	}
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return nil
	}

	mb := &meshBuffers{indices: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)

	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*4, unsafe.Pointer(&m.Positions[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &mb.nbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.nbo)
	normals := m.Normals
	if len(normals) != len(m.Positions) {
		// Meshes without normals get a flat up-facing fallback.
		normals = make([]float32, len(m.Positions))
		for i := 1; i < len(normals); i += 3 {
			normals[i] = 1
		}
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(normals)*4, unsafe.Pointer(&normals[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &mb.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	r.meshes[m] = mb
	return mb
}

// Prune releases GPU buffers for meshes no longer referenced by g.
// Called after an asset reload swaps the working scene.
func (r *Renderer) Prune(g *scene.Graph) {
	live := make(map[*scene.Mesh]bool, len(r.meshes))
	g.EachMesh(func(n *scene.Node) {
		live[n.Mesh] = true
	})
	for m, mb := range r.meshes {
		if live[m] {
			continue
		}
		gl.DeleteVertexArrays(1, &mb.vao)
		gl.DeleteBuffers(1, &mb.vbo)
		gl.DeleteBuffers(1, &mb.nbo)
		gl.DeleteBuffers(1, &mb.ebo)
		delete(r.meshes, m)
	}
}
