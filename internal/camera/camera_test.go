package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/scene"
)

func approx(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

func approxVec(a, b mgl32.Vec3, eps float32) bool {
	return approx(a.X(), b.X(), eps) && approx(a.Y(), b.Y(), eps) && approx(a.Z(), b.Z(), eps)
}

func testInfo() scene.BoundingInfo {
	return scene.BoundingInfo{
		Center:       mgl32.Vec3{1, 2, 3},
		Size:         mgl32.Vec3{10, 6, 4},
		MaxDimension: 10,
	}
}

func TestFitDistance(t *testing.T) {
	c := New(50, 1.5)

	// (10/2) / tan(25 deg) * 1.5
	want := float32(5) / math32.Tan(mgl32.DegToRad(25)) * 1.5
	got := c.FitDistance(10)
	if !approx(got, want, 1e-3) {
		t.Errorf("FitDistance(10) = %v, want %v", got, want)
	}
	if !approx(got, 16.08, 0.01) {
		t.Errorf("FitDistance(10) = %v, want ~16.08", got)
	}
}

func TestFitDistanceFallback(t *testing.T) {
	c := New(50, 1.5)

	if got := c.FitDistance(0); got != safeDistance {
		t.Errorf("FitDistance(0) = %v, want safe fallback %v", got, float32(safeDistance))
	}
	if got := c.FitDistance(math32.NaN()); got != safeDistance {
		t.Errorf("FitDistance(NaN) = %v, want safe fallback %v", got, float32(safeDistance))
	}
	if got := c.FitDistance(math32.Inf(1)); got != safeDistance {
		t.Errorf("FitDistance(+Inf) = %v, want safe fallback %v", got, float32(safeDistance))
	}
}

func TestFrame(t *testing.T) {
	c := New(50, 1.5)
	info := testInfo()
	c.Frame(info)

	if c.Target != info.Center {
		t.Errorf("target = %v, want %v", c.Target, info.Center)
	}
	if !approx(c.Distance(), c.FitDistance(10), 1e-3) {
		t.Errorf("distance = %v, want fit distance %v", c.Distance(), c.FitDistance(10))
	}
	if !approx(c.MinDistance, 0.01, 1e-6) {
		t.Errorf("min distance = %v, want floor 0.01", c.MinDistance)
	}
	if !approx(c.MaxDistance, 1000, 1e-3) {
		t.Errorf("max distance = %v, want size*100 = 1000", c.MaxDistance)
	}
}

func TestZoomLimitsLargeModel(t *testing.T) {
	c := New(50, 1.5)
	c.Frame(scene.BoundingInfo{
		Center:       mgl32.Vec3{},
		Size:         mgl32.Vec3{500, 500, 500},
		MaxDimension: 500,
	})

	// 500/10000 = 0.05 beats the floor.
	if !approx(c.MinDistance, 0.05, 1e-6) {
		t.Errorf("min distance = %v, want 0.05", c.MinDistance)
	}
	if !approx(c.MaxDistance, 50000, 1e-2) {
		t.Errorf("max distance = %v, want 50000", c.MaxDistance)
	}
}

func TestSnapFront(t *testing.T) {
	c := New(50, 1.5)
	info := testInfo()
	c.Snap(ViewFront, mgl32.QuatIdent(), info)

	dist := c.FitDistance(10)
	want := info.Center.Add(mgl32.Vec3{0, 0, dist})
	if !approxVec(c.Position, want, 1e-3) {
		t.Errorf("front position = %v, want %v", c.Position, want)
	}
	if !approxVec(c.Up, mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("front up = %v, want +Y", c.Up)
	}
	if c.Damping || c.AutoRotate {
		t.Error("snap must disable damping and auto-rotation")
	}
}

func TestSnapTracksOrientation(t *testing.T) {
	c := New(50, 1.5)
	info := testInfo()

	// Model spun 90 degrees about Y: its front now faces +X.
	q := mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})
	c.Snap(ViewFront, q, info)

	dist := c.FitDistance(10)
	want := info.Center.Add(mgl32.Vec3{dist, 0, 0})
	if !approxVec(c.Position, want, 1e-3) {
		t.Errorf("rotated front position = %v, want %v", c.Position, want)
	}
}

func TestSnapTopReassignsUp(t *testing.T) {
	c := New(50, 1.5)
	info := testInfo()
	c.Snap(ViewTop, mgl32.QuatIdent(), info)

	dist := c.FitDistance(10)
	want := info.Center.Add(mgl32.Vec3{0, dist, 0})
	if !approxVec(c.Position, want, 1e-3) {
		t.Errorf("top position = %v, want %v", c.Position, want)
	}
	if !approxVec(c.Up, mgl32.Vec3{0, 0, -1}, 1e-6) {
		t.Errorf("top up = %v, want -Z", c.Up)
	}

	c.Snap(ViewBottom, mgl32.QuatIdent(), info)
	if !approxVec(c.Up, mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("bottom up = %v, want +Z", c.Up)
	}
}

func TestZoomClamped(t *testing.T) {
	c := New(50, 1.5)
	c.Frame(testInfo())

	c.Zoom(1e6)
	if !approx(c.Distance(), c.MaxDistance, 1e-2) {
		t.Errorf("zoomed-out distance = %v, want max %v", c.Distance(), c.MaxDistance)
	}

	c.Zoom(1e-9)
	if !approx(c.Distance(), c.MinDistance, 1e-4) {
		t.Errorf("zoomed-in distance = %v, want min %v", c.Distance(), c.MinDistance)
	}
}

func TestZoomStepsAreInverse(t *testing.T) {
	c := New(50, 1.5)
	c.Frame(testInfo())

	before := c.Distance()
	c.ZoomIn()
	if c.Distance() >= before {
		t.Errorf("ZoomIn did not move closer: %v -> %v", before, c.Distance())
	}
	c.ZoomOut()
	if !approx(c.Distance(), before, 1e-3) {
		t.Errorf("ZoomOut did not undo ZoomIn: %v -> %v", before, c.Distance())
	}
}

func TestAdjustSphericalYaw(t *testing.T) {
	c := New(50, 1.5)
	c.Target = mgl32.Vec3{}
	c.Position = mgl32.Vec3{0, 0, 8}

	c.AdjustSpherical(math32.Pi/2, 0)
	if !approxVec(c.Position, mgl32.Vec3{8, 0, 0}, 1e-3) {
		t.Errorf("yawed position = %v, want (8,0,0)", c.Position)
	}
	if !approx(c.Distance(), 8, 1e-4) {
		t.Errorf("orbit radius changed: %v", c.Distance())
	}
}

func TestAdjustSphericalPoleClamp(t *testing.T) {
	c := New(50, 1.5)
	c.Target = mgl32.Vec3{}
	c.Position = mgl32.Vec3{0, 0, 8}

	c.AdjustSpherical(0, -10) // far past the top pole
	theta := math32.Acos(c.Position.Y() / c.Distance())
	if !approx(theta, polarEps, 1e-4) {
		t.Errorf("polar angle = %v, want clamped to %v", theta, float32(polarEps))
	}
}

func TestParseView(t *testing.T) {
	cases := []struct {
		in   string
		want View
		ok   bool
	}{
		{"front", ViewFront, true},
		{"  Top ", ViewTop, true},
		{"rear", ViewBack, true},
		{"LEFT", ViewLeft, true},
		{"sideways", ViewNone, false},
		{"", ViewNone, false},
	}
	for _, tc := range cases {
		got, ok := ParseView(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseView(%q) = %v,%v, want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
