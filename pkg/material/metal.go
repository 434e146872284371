package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Metal is Fresnel-modulated specular reflection tinted by the base color
type Metal struct {
	Reflective BSDF
	Color      core.Vec3 // Metal tint
	R0         float64   // Reflectance at normal incidence
}

// NewMetal creates a new metal node around a reflective child
func NewMetal(reflective BSDF, color core.Vec3, r0 float64) *Metal {
	return &Metal{Reflective: reflective, Color: color, R0: r0}
}

// F returns F·reflective·color
func (m *Metal) F(wi, wo, n core.Vec3) core.Vec3 {
	f := Fresnel(m.R0, wi, wo)
	return m.Reflective.F(wi, wo, n).Multiply(f).MultiplyVec(m.Color)
}

// SampleWi samples the reflective child and applies the same Fresnel tint
func (m *Metal) SampleWi(wo, n core.Vec3, sampler core.Sampler) WiSample {
	r := m.Reflective.SampleWi(wo, n, sampler)
	r.F = r.F.Multiply(Fresnel(m.R0, r.Wi, wo)).MultiplyVec(m.Color)
	return r
}
