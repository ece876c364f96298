// Package camera implements the orbit camera the viewer core drives:
// bounds-fit framing, canonical view snaps that track model
// orientation, and size-derived zoom limits.
package camera

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/logger"
	"github.com/Faultbox/partscope/internal/scene"
	"github.com/Faultbox/partscope/pkg/mathx"
)

// View is one of the six canonical axis-aligned viewing directions,
// expressed relative to the model's own orientation.
type View int

// Canonical views. ViewNone means no request.
const (
	ViewNone View = iota
	ViewFront
	ViewBack
	ViewLeft
	ViewRight
	ViewTop
	ViewBottom
)

// String returns the view's lowercase name.
func (v View) String() string {
	switch v {
	case ViewFront:
		return "front"
	case ViewBack:
		return "back"
	case ViewLeft:
		return "left"
	case ViewRight:
		return "right"
	case ViewTop:
		return "top"
	case ViewBottom:
		return "bottom"
	}
	return "none"
}

// ParseView resolves a canonical view name.
func ParseView(s string) (View, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return ViewFront, true
	case "back", "rear":
		return ViewBack, true
	case "left":
		return ViewLeft, true
	case "right":
		return ViewRight, true
	case "top":
		return ViewTop, true
	case "bottom":
		return ViewBottom, true
	}
	return ViewNone, false
}

// viewOffset returns the unit offset and up vector for a view in the
// model's local frame. Top and bottom reassign up off +Y so the look
// direction never collapses onto the up axis.
func viewOffset(v View) (offset, up mgl32.Vec3) {
	up = mgl32.Vec3{0, 1, 0}
	switch v {
	case ViewFront:
		offset = mgl32.Vec3{0, 0, 1}
	case ViewBack:
		offset = mgl32.Vec3{0, 0, -1}
	case ViewLeft:
		offset = mgl32.Vec3{-1, 0, 0}
	case ViewRight:
		offset = mgl32.Vec3{1, 0, 0}
	case ViewTop:
		offset = mgl32.Vec3{0, 1, 0}
		up = mgl32.Vec3{0, 0, -1}
	case ViewBottom:
		offset = mgl32.Vec3{0, -1, 0}
		up = mgl32.Vec3{0, 0, 1}
	}
	return offset, up
}

const (
	defaultPadding = 1.5
	// safeDistance substitutes for a non-finite or non-positive fit
	// distance so the camera never collapses onto the target.
	safeDistance = 10
	// polarEps keeps the orbit polar angle off the exact poles.
	polarEps = 0.05
	// zoomFloor is the smallest allowed min-distance.
	zoomFloor = 0.01
)

// Controller is the orbit camera state. External toolbar actions and
// the orientation cube drive it through the same handle the per-frame
// orchestrator uses.
type Controller struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	// FOV is the vertical field of view in radians.
	FOV     float32
	Padding float32

	MinDistance float32
	MaxDistance float32

	// The orbit integration disables damping and auto-rotation while a
	// canonical snap places the camera, so the controller cannot fight
	// the explicit placement.
	Damping    bool
	AutoRotate bool

	size float32 // model max dimension from the last framing
}

// New returns a controller with the given vertical FOV in degrees.
func New(fovDegrees, padding float32) *Controller {
	if padding <= 0 {
		padding = defaultPadding
	}
	return &Controller{
		Position:    mgl32.Vec3{0, 0, safeDistance},
		Up:          mgl32.Vec3{0, 1, 0},
		FOV:         mgl32.DegToRad(fovDegrees),
		Padding:     padding,
		MinDistance: zoomFloor,
		MaxDistance: safeDistance * 100,
		Damping:     true,
	}
}

// FitDistance computes the camera distance at which an object of the
// given maximum dimension fills a consistent viewport fraction:
// (maxDim/2) / tan(fov/2) * padding. Degenerate results fall back to a
// fixed safe distance.
func (c *Controller) FitDistance(maxDim float32) float32 {
	d := (maxDim / 2) / math32.Tan(c.FOV/2) * c.Padding
	if !mathx.IsFinite(d) || d <= 0 {
		logger.Warn("invalid camera fit distance, substituting fallback",
			zap.Float32("computed", d),
			zap.Float32("maxDimension", maxDim))
		return safeDistance
	}
	return d
}

// Frame aims the camera at a freshly loaded model: target at the
// assembly center, a three-quarter offset at fit distance, and zoom
// limits derived from the model size.
func (c *Controller) Frame(info scene.BoundingInfo) {
	c.Target = info.Center
	c.setZoomLimits(info.MaxDimension)

	dir := mgl32.Vec3{1, 0.6, 1}.Normalize()
	c.Position = c.Target.Add(dir.Mul(c.FitDistance(info.MaxDimension)))
	c.Up = mgl32.Vec3{0, 1, 0}
	c.size = info.MaxDimension
}

func (c *Controller) setZoomLimits(size float32) {
	c.MinDistance = math32.Max(size/10000, zoomFloor)
	c.MaxDistance = size * 100
	if c.MaxDistance <= c.MinDistance {
		c.MaxDistance = c.MinDistance + safeDistance
	}
}

// Snap places the camera at a canonical view. The offset and up vector
// are rotated by the model's current orientation so "front" follows the
// model's own front after arbitrary spins. Damping and auto-rotation
// are forced off for the placement.
func (c *Controller) Snap(v View, orientation mgl32.Quat, info scene.BoundingInfo) {
	if v == ViewNone {
		return
	}
	offset, up := viewOffset(v)
	offset = orientation.Rotate(offset)
	up = orientation.Rotate(up)

	dist := c.FitDistance(info.MaxDimension)
	c.Target = info.Center
	c.Position = c.Target.Add(offset.Mul(dist))
	c.Up = up
	c.Damping = false
	c.AutoRotate = false
	c.size = info.MaxDimension

	logger.Debug("canonical view snap",
		zap.String("view", v.String()),
		zap.Float32("distance", dist))
}

// Distance returns the current camera-to-target distance.
func (c *Controller) Distance() float32 {
	return c.Position.Sub(c.Target).Len()
}

// Zoom scales the orbit distance by the given factor, clamped to the
// model-derived limits. Factors below 1 move closer.
func (c *Controller) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	offset := c.Position.Sub(c.Target)
	d := mathx.Clamp(offset.Len()*factor, c.MinDistance, c.MaxDistance)
	c.Position = c.Target.Add(mathx.SafeNormalize(offset, mgl32.Vec3{0, 0, 1}).Mul(d))
}

// zoomStep is the per-press factor for the toolbar zoom actions.
const zoomStep = 0.8

// ZoomIn moves one toolbar step closer to the target.
func (c *Controller) ZoomIn() {
	c.Zoom(zoomStep)
}

// ZoomOut moves one toolbar step away from the target.
func (c *Controller) ZoomOut() {
	c.Zoom(1 / zoomStep)
}

// AdjustSpherical applies yaw/pitch deltas (radians) to the camera's
// offset around the target, with the polar angle clamped away from the
// poles. Used by orbit drags and the orientation cube.
func (c *Controller) AdjustSpherical(dYaw, dPitch float32) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r < 1e-6 {
		return
	}

	theta := math32.Acos(mathx.Clamp(offset.Y()/r, -1, 1)) // polar, from +Y
	phi := math32.Atan2(offset.X(), offset.Z())            // azimuth

	phi += dYaw
	theta = mathx.Clamp(theta+dPitch, polarEps, math32.Pi-polarEps)

	sinT := math32.Sin(theta)
	c.Position = c.Target.Add(mgl32.Vec3{
		r * sinT * math32.Sin(phi),
		r * math32.Cos(theta),
		r * sinT * math32.Cos(phi),
	})
	c.Up = mgl32.Vec3{0, 1, 0}
	c.Damping = true
}

// ViewMatrix returns the current look-at matrix.
func (c *Controller) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns a perspective matrix with planes scaled to the
// zoom range.
func (c *Controller) Projection(aspect float32) mgl32.Mat4 {
	near := math32.Max(c.MinDistance/2, zoomFloor)
	far := c.MaxDistance * 2
	return mgl32.Perspective(c.FOV, aspect, near, far)
}
