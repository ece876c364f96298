// Package viewer is the per-frame orchestrator. It owns the working
// scene copy, gates asynchronous asset loads onto the tick thread, and
// drives explosion, coloring, measurement and camera updates in a
// fixed order each frame.
package viewer

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/asset"
	"github.com/Faultbox/partscope/internal/camera"
	"github.com/Faultbox/partscope/internal/colorize"
	"github.com/Faultbox/partscope/internal/command"
	"github.com/Faultbox/partscope/internal/explode"
	"github.com/Faultbox/partscope/internal/gizmo"
	"github.com/Faultbox/partscope/internal/logger"
	"github.com/Faultbox/partscope/internal/measure"
	"github.com/Faultbox/partscope/internal/picking"
	"github.com/Faultbox/partscope/internal/scene"
)

// Modes is the toggle state chat directives and UI actions mutate.
// The tick reads it every frame; Apply routes parsed directives in.
type Modes struct {
	Exploded       bool
	Colorize       bool
	RequestedColor *scene.RGBA
	Measure        bool

	viewRequest  camera.View
	resetRequest bool
}

// Apply folds a parsed chat directive into the mode state.
func (m *Modes) Apply(d command.Directive) {
	switch d.Kind {
	case command.KindExplode:
		m.Exploded = true
	case command.KindAssemble:
		m.Exploded = false
	case command.KindColorize:
		m.Colorize = true
		m.RequestedColor = nil
	case command.KindColorNamed:
		c := d.Color
		m.Colorize = true
		m.RequestedColor = &c
	case command.KindMeasure:
		m.Measure = !m.Measure
	case command.KindView:
		m.viewRequest = d.View
	case command.KindReset:
		m.resetRequest = true
	}
}

// RequestView queues a canonical view snap for the next tick.
func (m *Modes) RequestView(v camera.View) {
	m.viewRequest = v
}

func (m *Modes) takeView() camera.View {
	v := m.viewRequest
	m.viewRequest = camera.ViewNone
	return v
}

func (m *Modes) takeReset() bool {
	r := m.resetRequest
	m.resetRequest = false
	return r
}

// PointerEvent is one frame's pointer input in window pixels.
type PointerEvent struct {
	X, Y      float32
	ViewportW float32
	ViewportH float32
	Click     bool
}

// LoadFunc produces a source graph from an asset path. Injected so
// tests can load without files.
type LoadFunc func(path string) (*scene.Graph, error)

type loadResult struct {
	graph *scene.Graph
	path  string
	err   error
}

// Viewer owns the working scene and all interaction controllers. All
// methods except the watcher callback must run on the tick thread.
type Viewer struct {
	loadFn LoadFunc
	path   string

	source  *scene.Graph
	working *scene.Graph
	info    scene.BoundingInfo
	ready   bool

	pending chan loadResult
	loading bool
	loadErr error
	reload  atomic.Bool
	watcher *asset.Watcher

	measuring bool

	cam       *camera.Controller
	exploder  *explode.Controller
	colorizer *colorize.Assigner
	measurer  *measure.Engine
	cube      *gizmo.Cube

	// OnReady fires once per completed load, on the tick thread.
	OnReady func(scene.BoundingInfo)
}

// New returns a viewer showing the loading placeholder. loadFn nil
// means asset.Load.
func New(cam *camera.Controller, loadFn LoadFunc) *Viewer {
	if loadFn == nil {
		loadFn = asset.Load
	}
	v := &Viewer{
		loadFn:    loadFn,
		pending:   make(chan loadResult, 1),
		cam:       cam,
		exploder:  explode.New(),
		colorizer: colorize.New(rand.New(rand.NewSource(rand.Int63()))),
		measurer:  measure.NewEngine(),
		cube:      gizmo.New(),
	}
	v.working = placeholderGraph()
	v.working.Normalize()
	return v
}

// placeholderGraph is the cube shown while the real asset loads.
func placeholderGraph() *scene.Graph {
	g := scene.NewGraph()
	n := g.AddNode("loading", scene.InvalidNode)
	n.Mesh = scene.CubeMesh(1)
	return g
}

// Open starts an asynchronous load of path. The working scene keeps
// rendering until the result lands on a later tick.
func (v *Viewer) Open(path string) {
	if v.loading {
		// A load is in flight; pick the new path up afterwards.
		v.path = path
		v.reload.Store(true)
		return
	}
	v.path = path
	v.loading = true
	v.loadErr = nil
	go func(p string) {
		g, err := v.loadFn(p)
		v.pending <- loadResult{graph: g, path: p, err: err}
	}(path)
}

// WatchAsset arms a file watcher that reloads the current asset when
// it is rewritten on disk.
func (v *Viewer) WatchAsset(settle time.Duration) error {
	if v.path == "" {
		return fmt.Errorf("no asset opened")
	}
	w, err := asset.Watch(v.path, settle, func() { v.reload.Store(true) })
	if err != nil {
		return fmt.Errorf("arming asset watcher: %w", err)
	}
	v.watcher = w
	return nil
}

// Close releases the watcher.
func (v *Viewer) Close() {
	if v.watcher != nil {
		v.watcher.Close()
		v.watcher = nil
	}
}

// Tick advances one frame: land pending loads, apply mode toggles in
// order (explode, color, measure, camera) and mirror the orientation
// cube. ptr may be nil when the pointer is idle.
func (v *Viewer) Tick(m *Modes, ptr *PointerEvent) {
	v.pollLoad()

	if m.takeReset() {
		v.resetAll(m)
	}

	v.exploder.Step(v.working, m.Exploded)
	v.colorizer.Apply(v.working, m.Colorize, m.RequestedColor)

	v.working.UpdateTransforms()
	if v.measuring && !m.Measure {
		// Leaving measure mode discards the captured points.
		v.measurer.Clear()
	}
	v.measuring = m.Measure
	if ptr != nil && ptr.Click && m.Measure {
		v.measureClick(ptr)
	}
	v.measurer.Refresh(v.working)

	if req := v.viewRequest(m); req != camera.ViewNone {
		v.cam.Snap(req, v.working.Orientation(), v.info)
	}
	v.cube.Sync(v.working.Orientation())
}

// viewRequest merges the chat-driven and cube-driven requests; the
// cube click wins when both arrive on the same tick.
func (v *Viewer) viewRequest(m *Modes) camera.View {
	req := m.takeView()
	if cubeReq := v.cube.TakeRequest(); cubeReq != camera.ViewNone {
		req = cubeReq
	}
	return req
}

func (v *Viewer) pollLoad() {
	// loading is checked first: swapping while a load is in flight
	// would consume the rearm flag without ever starting the load.
	if !v.loading && v.reload.CompareAndSwap(true, false) {
		v.Open(v.path)
	}
	select {
	case res := <-v.pending:
		v.loading = false
		if res.path != v.path {
			// Superseded by a later Open; the rearm flag is already
			// set and the next tick starts the fresh load.
			return
		}
		if res.err != nil {
			v.loadErr = res.err
			logger.Error("asset load failed",
				zap.String("path", res.path),
				zap.Error(res.err))
			return
		}
		v.install(res.graph)
	default:
	}
}

// install swaps in a freshly loaded scene. The source graph is kept
// untouched; all interaction state mutates a normalized working clone.
func (v *Viewer) install(src *scene.Graph) {
	v.source = src
	v.working = src.Clone()
	v.working.Normalize()
	v.working.UpdateTransforms()
	v.working.CaptureBaselines()

	v.info = v.working.BoundingInfo()
	v.exploder.Recompute(v.working)
	v.colorizer.Reset()
	v.measurer.Clear()
	v.cam.Frame(v.info)

	logger.Info("asset installed",
		zap.String("path", v.path),
		zap.Int("nodes", v.working.Len()),
		zap.Float32("maxDimension", v.info.MaxDimension))

	if !v.ready {
		v.ready = true
	}
	if v.OnReady != nil {
		v.OnReady(v.info)
	}
}

func (v *Viewer) resetAll(m *Modes) {
	m.Exploded = false
	m.Colorize = false
	m.RequestedColor = nil
	m.Measure = false
	v.measurer.Clear()
	v.cam.Frame(v.info)
}

// measureClick picks the surface under the pointer, snaps the hit to
// the nearest vertex or edge, and records the measurement point.
func (v *Viewer) measureClick(ptr *PointerEvent) {
	if ptr.ViewportW <= 0 || ptr.ViewportH <= 0 {
		return
	}
	aspect := ptr.ViewportW / ptr.ViewportH
	viewProj := v.cam.Projection(aspect).Mul4(v.cam.ViewMatrix())
	ray := picking.ScreenToRay(ptr.X, ptr.Y, ptr.ViewportW, ptr.ViewportH, viewProj.Inv())

	hit, ok := picking.Pick(v.working, ray)
	if !ok {
		// A click past the model clears the in-progress measurement.
		v.measurer.Clear()
		return
	}
	snapped := measure.Snap(hit.Point, hit.Triangle, v.cam.Position)
	v.measurer.AddWorld(v.working, hit.Node, snapped, hit.Normal)
}

// Labels returns the current measurement annotations.
func (v *Viewer) Labels() []measure.Label {
	return v.measurer.Labels()
}

// Points returns the captured measurement points.
func (v *Viewer) Points() []measure.Point {
	return v.measurer.Points()
}

// Graph returns the working scene for rendering and picking.
func (v *Viewer) Graph() *scene.Graph {
	return v.working
}

// Camera returns the orbit camera handle.
func (v *Viewer) Camera() *camera.Controller {
	return v.cam
}

// Gizmo returns the orientation cube.
func (v *Viewer) Gizmo() *gizmo.Cube {
	return v.cube
}

// Bounds returns the last installed asset's bounding metrics.
func (v *Viewer) Bounds() scene.BoundingInfo {
	return v.info
}

// Ready reports whether a real asset has been installed.
func (v *Viewer) Ready() bool {
	return v.ready
}

// LoadErr returns the error from the most recent failed load, or nil.
// Opening another path clears it.
func (v *Viewer) LoadErr() error {
	return v.loadErr
}
