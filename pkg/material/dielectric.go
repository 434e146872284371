package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Fresnel evaluates Schlick's approximation for the half vector of wi and wo
// given the reflectance at normal incidence r0
func Fresnel(r0 float64, wi, wo core.Vec3) float64 {
	wh := wi.Add(wo).Normalize()
	whDotWi := max(1e-5, wh.Dot(wi))
	return r0 + (1.0-r0)*math.Pow(1.0-whDotWi, 5)
}

// Dielectric mixes a reflective and a transmissive child by the Fresnel term
type Dielectric struct {
	Reflective   BSDF
	Transmissive BSDF
	R0           float64 // Reflectance at normal incidence
}

// NewDielectric creates a Fresnel-weighted blend of two nodes
func NewDielectric(reflective, transmissive BSDF, r0 float64) *Dielectric {
	return &Dielectric{
		Reflective:   reflective,
		Transmissive: transmissive,
		R0:           r0,
	}
}

// F returns F·reflective + (1-F)·transmissive
func (d *Dielectric) F(wi, wo, n core.Vec3) core.Vec3 {
	f := Fresnel(d.R0, wi, wo)

	brdf := d.Reflective.F(wi, wo, n)
	btdf := d.Transmissive.F(wi, wo, n)
	return brdf.Multiply(f).Add(btdf.Multiply(1.0 - f))
}

// SampleWi picks either child with probability ½. The chosen child's PDF is
// halved and its weight scaled by F or 1-F, so the estimator stays unbiased
// without a closed-form mixture density.
func (d *Dielectric) SampleWi(wo, n core.Vec3, sampler core.Sampler) WiSample {
	if sampler.Get1D() < 0.5 {
		r := d.Reflective.SampleWi(wo, n, sampler)
		r.PDF *= 0.5
		r.F = r.F.Multiply(Fresnel(d.R0, r.Wi, wo))
		return r
	}

	r := d.Transmissive.SampleWi(wo, n, sampler)
	r.PDF *= 0.5
	r.F = r.F.Multiply(1.0 - Fresnel(d.R0, r.Wi, wo))
	return r
}
