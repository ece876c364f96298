package scene

// Normalization constants for imported CAD materials.
const (
	normalOpacity      = 0.9
	maxMetalness       = 0.6
	minRoughness       = 0.3
	envIntensityBoost  = 1.5
	nearWhiteThreshold = 0.92
	neutralGray        = 0.65
)

// Normalize rewrites every mesh material for inspection rendering:
// shadows off, double-sided, opacity 0.9 with depth write and test,
// metalness clamped to 0.6, roughness raised to 0.3, environment
// intensity boosted, and a near-white untextured base color replaced
// with neutral gray so parts stay visible on a white backdrop.
//
// The pre-normalization material is snapshotted per node so color
// restoration can return to the original channel. Call on a working
// clone; the source graph stays untouched for clean reloads.
func (g *Graph) Normalize() {
	g.EachMesh(func(n *Node) {
		if n.Material == nil {
			n.Material = DefaultMaterial()
		}
		n.BaseMaterial = n.Material.Clone()

		m := n.Material
		m.CastShadow = false
		m.ReceiveShadow = false
		m.DoubleSided = true
		m.Opacity = normalOpacity
		m.DepthWrite = true
		m.DepthTest = true
		if m.Metalness > maxMetalness {
			m.Metalness = maxMetalness
		}
		if m.Roughness < minRoughness {
			m.Roughness = minRoughness
		}
		m.EnvIntensity *= envIntensityBoost

		if !m.Textured && isNearWhite(m.BaseColor) {
			m.BaseColor = RGBA{neutralGray, neutralGray, neutralGray, m.BaseColor.A}
		}
	})
}

func isNearWhite(c RGBA) bool {
	return c.R > nearWhiteThreshold && c.G > nearWhiteThreshold && c.B > nearWhiteThreshold
}
