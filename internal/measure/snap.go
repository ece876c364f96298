// Package measure implements snap-to-feature picking and the
// measurement point buffer with its distance and diameter labels.
package measure

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/pkg/mathx"
)

const (
	// snapFraction scales the snap radius with camera distance: 2% of
	// the camera-to-point distance, so the pick radius tracks zoom.
	snapFraction = 0.02
	// vertexBias makes a vertex win over an edge unless the edge is
	// meaningfully closer.
	vertexBias = 0.9
)

// Snap resolves a raw surface pick against the struck triangle's
// features. The nearest vertex wins unless an edge point is closer than
// 90% of the vertex distance; outside the zoom-adaptive threshold the
// raw point is returned unchanged. Pure function: no state, identical
// inputs give identical outputs.
func Snap(hit mgl32.Vec3, tri [3]mgl32.Vec3, camPos mgl32.Vec3) mgl32.Vec3 {
	threshold := camPos.Sub(hit).Len() * snapFraction

	bestVertex := tri[0]
	bestVertexDist := hit.Sub(tri[0]).Len()
	for _, v := range tri[1:] {
		if d := hit.Sub(v).Len(); d < bestVertexDist {
			bestVertex, bestVertexDist = v, d
		}
	}

	bestEdge := hit
	bestEdgeDist := float32(-1)
	for i := 0; i < 3; i++ {
		p := mathx.ClosestOnSegment(hit, tri[i], tri[(i+1)%3])
		if d := hit.Sub(p).Len(); bestEdgeDist < 0 || d < bestEdgeDist {
			bestEdge, bestEdgeDist = p, d
		}
	}

	if bestEdgeDist >= 0 && bestEdgeDist < bestVertexDist*vertexBias {
		if bestEdgeDist <= threshold {
			return bestEdge
		}
		return hit
	}
	if bestVertexDist <= threshold {
		return bestVertex
	}
	return hit
}
