// Package colorize tints parts for disambiguation and restores their
// loaded colors. Only the color channel is ever touched; the rest of
// the material stays as normalization left it.
package colorize

import (
	"math/rand"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/partscope/internal/scene"
)

// Generated colors use a random hue with fixed high saturation and
// medium lightness so parts separate visually without washing out.
// Hues are re-rolled each time coloring is enabled; determinism across
// sessions is not a goal.
const (
	genSaturation = 0.85
	genLightness  = 0.55
)

// Assigner toggles mesh colors between tinted and restored.
type Assigner struct {
	rng      *rand.Rand
	active   bool
	assigned map[scene.NodeID]scene.RGBA
	request  *scene.RGBA
}

// New returns an assigner drawing hues from the given source. A nil rng
// falls back to the global source.
func New(rng *rand.Rand) *Assigner {
	return &Assigner{rng: rng}
}

// Apply reconciles the graph with the desired coloring state each tick.
// When enabled, every mesh gets either the explicitly requested color
// or its generated per-part hue; colors persist until the mode turns
// off or the request changes. When disabled, the color channel is
// copied back from the baseline material captured at load.
func (a *Assigner) Apply(g *scene.Graph, enabled bool, requested *scene.RGBA) {
	if !enabled {
		if a.active {
			a.restore(g)
		}
		return
	}
	if a.active && sameRequest(a.request, requested) {
		return
	}
	a.tint(g, requested)
}

func (a *Assigner) tint(g *scene.Graph, requested *scene.RGBA) {
	a.assigned = make(map[scene.NodeID]scene.RGBA, g.Len())
	g.EachMesh(func(n *scene.Node) {
		if n.Material == nil {
			return
		}
		var c scene.RGBA
		if requested != nil {
			c = *requested
		} else {
			c = a.randomColor()
		}
		c.A = n.Material.BaseColor.A
		n.Material.BaseColor = c
		a.assigned[n.ID] = c
	})
	a.active = true
	if requested != nil {
		r := *requested
		a.request = &r
	} else {
		a.request = nil
	}
}

func (a *Assigner) restore(g *scene.Graph) {
	g.EachMesh(func(n *scene.Node) {
		if n.Material == nil || n.BaseMaterial == nil {
			return
		}
		n.Material.BaseColor = n.BaseMaterial.BaseColor
	})
	a.active = false
	a.assigned = nil
	a.request = nil
}

// Reset drops assignment state without touching the graph. Called when
// a new asset replaces the scene.
func (a *Assigner) Reset() {
	a.active = false
	a.assigned = nil
	a.request = nil
}

// Active reports whether tinting is currently applied.
func (a *Assigner) Active() bool {
	return a.active
}

func (a *Assigner) randomColor() scene.RGBA {
	var h float32
	if a.rng != nil {
		h = a.rng.Float32()
	} else {
		h = rand.Float32()
	}
	r, g, b := hslToRGB(h, genSaturation, genLightness)
	return scene.RGBA{R: r, G: g, B: b, A: 1}
}

func sameRequest(a, b *scene.RGBA) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// hslToRGB converts hue [0,1), saturation and lightness to RGB.
func hslToRGB(h, s, l float32) (float32, float32, float32) {
	c := (1 - math32.Abs(2*l-1)) * s
	hp := h * 6
	x := c * (1 - math32.Abs(math32.Mod(hp, 2)-1))
	m := l - c/2

	var r, g, b float32
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// namedColors resolves the color words the chat layer routes through.
var namedColors = map[string]scene.RGBA{
	"red":     {R: 0.85, G: 0.15, B: 0.15, A: 1},
	"green":   {R: 0.15, G: 0.7, B: 0.2, A: 1},
	"blue":    {R: 0.15, G: 0.35, B: 0.85, A: 1},
	"yellow":  {R: 0.9, G: 0.85, B: 0.1, A: 1},
	"orange":  {R: 0.95, G: 0.55, B: 0.1, A: 1},
	"purple":  {R: 0.6, G: 0.2, B: 0.75, A: 1},
	"cyan":    {R: 0.1, G: 0.75, B: 0.8, A: 1},
	"magenta": {R: 0.85, G: 0.2, B: 0.7, A: 1},
	"white":   {R: 1, G: 1, B: 1, A: 1},
	"black":   {R: 0.05, G: 0.05, B: 0.05, A: 1},
	"gray":    {R: 0.5, G: 0.5, B: 0.5, A: 1},
	"grey":    {R: 0.5, G: 0.5, B: 0.5, A: 1},
}

// NamedColor resolves a color name, case-insensitively.
func NamedColor(name string) (scene.RGBA, bool) {
	c, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}
