package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Diffuse represents a perfectly diffuse (Lambertian) reflector
type Diffuse struct {
	Color core.Vec3 // Albedo
}

// NewDiffuse creates a new diffuse node
func NewDiffuse(color core.Vec3) *Diffuse {
	return &Diffuse{Color: color}
}

// F returns color/π when both directions are above the surface
func (d *Diffuse) F(wi, wo, n core.Vec3) core.Vec3 {
	if wi.Dot(n) <= 0 {
		return core.Vec3{}
	}
	if !core.SameHemisphere(wi, wo, n) {
		return core.Vec3{}
	}
	return d.Color.Multiply(1.0 / math.Pi)
}

// SampleWi draws a cosine-weighted direction around n with pdf cos(θ)/π
func (d *Diffuse) SampleWi(wo, n core.Vec3, sampler core.Sampler) WiSample {
	wi := core.SampleCosineHemisphere(n, sampler.Get2D())

	var pdf float64
	if cosTheta := wi.Dot(n); cosTheta > 0 {
		pdf = cosTheta / math.Pi
	}

	return WiSample{
		Wi:  wi,
		PDF: pdf,
		F:   d.F(wi, wo, n),
	}
}
