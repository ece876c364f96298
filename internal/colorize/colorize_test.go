package colorize

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/partscope/internal/scene"
)

func normalizedGraph() *scene.Graph {
	g := scene.NewGraph()
	root := g.AddNode("assembly", scene.InvalidNode)
	for _, name := range []string{"a", "b", "c"} {
		n := g.AddNode(name, root.ID)
		n.Mesh = scene.CubeMesh(1)
		m := scene.DefaultMaterial()
		m.BaseColor = scene.RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}
		n.Material = m
	}
	g.Normalize()
	return g
}

func TestRequestedColorAppliesUniformly(t *testing.T) {
	g := normalizedGraph()
	a := New(rand.New(rand.NewSource(1)))

	req := scene.RGBA{R: 1, G: 0, B: 0, A: 1}
	a.Apply(g, true, &req)

	g.EachMesh(func(n *scene.Node) {
		c := n.Material.BaseColor
		if c.R != 1 || c.G != 0 || c.B != 0 {
			t.Errorf("%s: color = %+v, want requested red", n.Name, c)
		}
	})
}

func TestRestoreReturnsExactBaselineColor(t *testing.T) {
	g := normalizedGraph()
	a := New(rand.New(rand.NewSource(1)))

	a.Apply(g, true, nil)
	a.Apply(g, false, nil)

	g.EachMesh(func(n *scene.Node) {
		if n.Material.BaseColor != n.BaseMaterial.BaseColor {
			t.Errorf("%s: color %+v != baseline %+v",
				n.Name, n.Material.BaseColor, n.BaseMaterial.BaseColor)
		}
	})
}

func TestRestoreTouchesOnlyColorChannel(t *testing.T) {
	g := normalizedGraph()
	a := New(rand.New(rand.NewSource(1)))

	a.Apply(g, true, nil)
	g.EachMesh(func(n *scene.Node) {
		n.Material.Roughness = 0.42 // unrelated channel set after tint
	})
	a.Apply(g, false, nil)

	g.EachMesh(func(n *scene.Node) {
		if n.Material.Roughness != 0.42 {
			t.Errorf("%s: restore must not rewrite non-color channels", n.Name)
		}
		if n.Material.Opacity != 0.9 {
			t.Errorf("%s: opacity changed to %v", n.Name, n.Material.Opacity)
		}
	})
}

func TestGeneratedColorsAreStableWhileActive(t *testing.T) {
	g := normalizedGraph()
	a := New(rand.New(rand.NewSource(7)))

	a.Apply(g, true, nil)
	first := map[scene.NodeID]scene.RGBA{}
	g.EachMesh(func(n *scene.Node) { first[n.ID] = n.Material.BaseColor })

	// Repeated ticks with the mode held on must not re-roll hues.
	a.Apply(g, true, nil)
	a.Apply(g, true, nil)
	g.EachMesh(func(n *scene.Node) {
		if n.Material.BaseColor != first[n.ID] {
			t.Errorf("%s: color re-rolled while mode active", n.Name)
		}
	})
}

func TestRequestChangeRetints(t *testing.T) {
	g := normalizedGraph()
	a := New(rand.New(rand.NewSource(7)))

	red := scene.RGBA{R: 1, G: 0, B: 0, A: 1}
	blue := scene.RGBA{R: 0, G: 0, B: 1, A: 1}
	a.Apply(g, true, &red)
	a.Apply(g, true, &blue)

	g.EachMesh(func(n *scene.Node) {
		if n.Material.BaseColor.B != 1 {
			t.Errorf("%s: expected retint to blue, got %+v", n.Name, n.Material.BaseColor)
		}
	})
}

func TestHSLConversion(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float32
		r, g, b float32
	}{
		{"pure red", 0, 1, 0.5, 1, 0, 0},
		{"pure green", 1.0 / 3.0, 1, 0.5, 0, 1, 0},
		{"pure blue", 2.0 / 3.0, 1, 0.5, 0, 0, 1},
		{"white", 0, 0, 1, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := hslToRGB(tt.h, tt.s, tt.l)
			if !close32(r, tt.r) || !close32(g, tt.g) || !close32(b, tt.b) {
				t.Errorf("hslToRGB(%v,%v,%v) = (%v,%v,%v), want (%v,%v,%v)",
					tt.h, tt.s, tt.l, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestNamedColor(t *testing.T) {
	if _, ok := NamedColor("red"); !ok {
		t.Error("red should resolve")
	}
	if _, ok := NamedColor("  Blue "); !ok {
		t.Error("lookup should trim and lowercase")
	}
	if _, ok := NamedColor("plaid"); ok {
		t.Error("unknown color should not resolve")
	}
}

func close32(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}
