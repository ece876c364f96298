// Package gizmo implements the orientation cube that mirrors the
// model's rotation and doubles as an input surface: dragging its faces
// orbits the camera, clicking a face requests the matching canonical
// view.
package gizmo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/camera"
)

// Face identifies one of the cube's six faces. Faces map one-to-one
// onto canonical views.
type Face int

const (
	FaceFront Face = iota
	FaceBack
	FaceLeft
	FaceRight
	FaceTop
	FaceBottom
)

// View returns the canonical view a face click requests.
func (f Face) View() camera.View {
	switch f {
	case FaceFront:
		return camera.ViewFront
	case FaceBack:
		return camera.ViewBack
	case FaceLeft:
		return camera.ViewLeft
	case FaceRight:
		return camera.ViewRight
	case FaceTop:
		return camera.ViewTop
	case FaceBottom:
		return camera.ViewBottom
	}
	return camera.ViewNone
}

// dragSensitivity converts pixels of cube drag into radians of orbit.
const dragSensitivity = 0.01

// Cube is the interactive orientation cube. It holds the rotation to
// render with and at most one pending view request.
type Cube struct {
	orientation mgl32.Quat
	pending     camera.View
}

// New returns a cube at identity orientation with no pending request.
func New() *Cube {
	return &Cube{orientation: mgl32.QuatIdent(), pending: camera.ViewNone}
}

// Sync updates the cube's displayed rotation to mirror the model's
// current orientation. Called once per frame by the orchestrator.
func (c *Cube) Sync(orientation mgl32.Quat) {
	c.orientation = orientation
}

// Orientation returns the rotation the cube should render with.
func (c *Cube) Orientation() mgl32.Quat {
	return c.orientation
}

// HandleDrag forwards a cube drag to the camera as an orbit
// adjustment. dx and dy are pointer deltas in pixels.
func (c *Cube) HandleDrag(cam *camera.Controller, dx, dy float32) {
	cam.AdjustSpherical(dx*dragSensitivity, dy*dragSensitivity)
}

// ClickFace records a canonical view request. A later click before the
// request is consumed replaces it.
func (c *Cube) ClickFace(f Face) {
	c.pending = f.View()
}

// TakeRequest returns the pending view request and clears it, so a
// single click produces exactly one snap.
func (c *Cube) TakeRequest() camera.View {
	v := c.pending
	c.pending = camera.ViewNone
	return v
}
