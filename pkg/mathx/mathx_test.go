package mathx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp(5,0,1) = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp(-5,0,1) = %v, want 0", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Clamp(0.5,0,1) = %v, want 0.5", got)
	}
}

func TestIsFinite(t *testing.T) {
	if IsFinite(float32(math.NaN())) {
		t.Error("NaN should not be finite")
	}
	if IsFinite(float32(math.Inf(1))) {
		t.Error("+Inf should not be finite")
	}
	if !IsFinite(0) || !IsFinite(-123.5) {
		t.Error("ordinary values should be finite")
	}
}

func TestSafeNormalize(t *testing.T) {
	fallback := mgl32.Vec3{0, 1, 0}

	n := SafeNormalize(mgl32.Vec3{3, 0, 0}, fallback)
	if math.Abs(float64(n.Len()-1)) > 1e-6 {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}
	if n.X() < 0.999 {
		t.Errorf("direction should be +X, got %v", n)
	}

	z := SafeNormalize(mgl32.Vec3{}, fallback)
	if z != fallback {
		t.Errorf("zero vector should yield fallback, got %v", z)
	}
}

func TestClosestOnSegment(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{10, 0, 0}

	tests := []struct {
		name string
		p    mgl32.Vec3
		want mgl32.Vec3
	}{
		{"interior projection", mgl32.Vec3{5, 3, 0}, mgl32.Vec3{5, 0, 0}},
		{"clamped to start", mgl32.Vec3{-4, 1, 0}, a},
		{"clamped to end", mgl32.Vec3{15, -2, 0}, b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestOnSegment(tt.p, a, b)
			if got.Sub(tt.want).Len() > 1e-6 {
				t.Errorf("ClosestOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	// Degenerate segment collapses to its single point.
	got := ClosestOnSegment(mgl32.Vec3{1, 1, 1}, a, a)
	if got != a {
		t.Errorf("degenerate segment should return endpoint, got %v", got)
	}
}
