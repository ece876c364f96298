// Package mathx provides small geometry helpers on top of mathgl.
package mathx

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// SafeNormalize returns v normalized, or fallback when v is too short
// to carry a direction.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-8 || !IsFinite(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// ClosestOnSegment returns the point on segment [a, b] closest to p.
// The projection parameter is clamped to the segment ends.
func ClosestOnSegment(p, a, b mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	len2 := ab.Dot(ab)
	if len2 < 1e-12 {
		return a
	}
	t := Clamp(p.Sub(a).Dot(ab)/len2, 0, 1)
	return a.Add(ab.Mul(t))
}
