package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Material holds the scattering parameters of a surface. It is owned by the
// scene and never mutated while rendering.
type Material struct {
	Color        core.Vec3 // Base color
	Shininess    float64   // Blinn-Phong exponent of the specular lobe
	Fresnel      float64   // Reflectance at normal incidence (R0)
	Metalness    float64   // Weight of the metal branch in [0, 1]
	IOR          float64   // Index of refraction, refraction mode only
	Transparency float64   // Weight of the glass branch in [0, 1], refraction mode only
	Emission     core.Vec3 // Emitted radiance
}

// NewDiffuseMaterial creates a rough, non-metallic surface
func NewDiffuseMaterial(color core.Vec3) *Material {
	return &Material{
		Color:     color,
		Shininess: 0,
		Fresnel:   0.04,
		IOR:       1.5,
	}
}

// NewPlasticMaterial creates a diffuse base under a glossy coat
func NewPlasticMaterial(color core.Vec3, shininess, r0 float64) *Material {
	return &Material{
		Color:     color,
		Shininess: shininess,
		Fresnel:   r0,
		IOR:       1.5,
	}
}

// NewMetalMaterial creates a fully metallic surface
func NewMetalMaterial(color core.Vec3, shininess, r0 float64) *Material {
	return &Material{
		Color:     color,
		Shininess: shininess,
		Fresnel:   r0,
		Metalness: 1,
		IOR:       1.5,
	}
}

// NewGlassMaterial creates a clear refractive surface
func NewGlassMaterial(ior float64) *Material {
	r0 := (ior - 1) / (ior + 1)
	return &Material{
		Color:        core.NewVec3(1, 1, 1),
		Shininess:    1000,
		Fresnel:      r0 * r0,
		IOR:          ior,
		Transparency: 1,
	}
}

// NewEmissiveMaterial creates a black surface that only emits
func NewEmissiveMaterial(emission core.Vec3) *Material {
	return &Material{
		Fresnel:  0.04,
		IOR:      1.5,
		Emission: emission,
	}
}

// Tree builds the BSDF of one surface hit. It owns every node by value, so
// a single Tree can be reused for each vertex along a path without
// allocating per hit. A Tree must not be shared between goroutines.
type Tree struct {
	diffuse    Diffuse
	microfacet Microfacet
	dielectric Dielectric
	metal      Metal
	glass      Glass
	blend      LinearBlend
}

// Build rebuilds the tree for m and returns its root. In opaque mode the
// root blends metal and dielectric by metalness; in refraction mode it
// blends glass and diffuse by transparency. The previously returned root is
// invalidated.
func (t *Tree) Build(m *Material, refraction bool) BSDF {
	t.diffuse = Diffuse{Color: m.Color}

	if refraction {
		t.glass = Glass{IOR: m.IOR}
		t.blend = LinearBlend{W: clamp01(m.Transparency), Bsdf0: &t.glass, Bsdf1: &t.diffuse}
		return &t.blend
	}

	t.microfacet = Microfacet{Shininess: max(0, m.Shininess)}
	t.dielectric = Dielectric{Reflective: &t.microfacet, Transmissive: &t.diffuse, R0: m.Fresnel}
	t.metal = Metal{Reflective: &t.microfacet, Color: m.Color, R0: m.Fresnel}
	t.blend = LinearBlend{W: clamp01(m.Metalness), Bsdf0: &t.metal, Bsdf1: &t.dielectric}
	return &t.blend
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
