package scene

// RGBA is a linear color with components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Material is the shading state attached to a mesh node. Imported CAD
// assets frequently arrive with defaults that render badly (fully
// metallic, zero roughness, pure white); the normalization pass rewrites
// these in place after snapshotting the original.
type Material struct {
	BaseColor RGBA
	Metalness float32
	Roughness float32
	Opacity   float32

	DoubleSided bool
	DepthWrite  bool
	DepthTest   bool

	EnvIntensity  float32
	CastShadow    bool
	ReceiveShadow bool

	// Textured marks materials whose color comes from a texture map;
	// the near-white replacement only applies to untextured ones.
	Textured bool
}

// DefaultMaterial returns the material used when the asset declares none.
func DefaultMaterial() *Material {
	return &Material{
		BaseColor:     RGBA{0.8, 0.8, 0.8, 1},
		Metalness:     0,
		Roughness:     0.8,
		Opacity:       1,
		DepthWrite:    true,
		DepthTest:     true,
		EnvIntensity:  1,
		CastShadow:    true,
		ReceiveShadow: true,
	}
}

// Clone returns an independent copy.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}
