package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// minCosine floors dot products in the microfacet denominators
const minCosine = 1e-4

// Microfacet is a single-lobe specular reflector with a Blinn-Phong normal
// distribution. It returns a white (grey-scale) weight; tinting is done by
// the nodes that wrap it.
type Microfacet struct {
	Shininess float64 // Blinn-Phong exponent α
}

// NewMicrofacet creates a new microfacet reflection node
func NewMicrofacet(shininess float64) *Microfacet {
	return &Microfacet{Shininess: max(0, shininess)}
}

// F evaluates D·G / (4 (n·o)(n·i))
func (m *Microfacet) F(wi, wo, n core.Vec3) core.Vec3 {
	if n.Dot(wi) < 0 || n.Dot(wo) < 0 {
		return core.Vec3{}
	}

	wh := wi.Add(wo).Normalize()
	nDotWh := max(minCosine, n.Dot(wh))
	nDotWo := max(minCosine, n.Dot(wo))
	nDotWi := max(minCosine, n.Dot(wi))
	woDotWh := max(minCosine, wo.Dot(wh))

	d := (m.Shininess + 2.0) / (2.0 * math.Pi) * math.Pow(nDotWh, m.Shininess)
	g := min(1.0, 2.0*nDotWh*nDotWo/woDotWh, 2.0*nDotWh*nDotWi/woDotWh)

	denominator := 4.0 * min(1.0, max(minCosine, nDotWo*nDotWi))
	brdf := d * g / denominator
	return core.NewVec3(brdf, brdf, brdf)
}

// SampleWi samples a half vector from the normal distribution and reflects
// wo about it. The half-vector density is converted to solid angle around wi.
func (m *Microfacet) SampleWi(wo, n core.Vec3, sampler core.Sampler) WiSample {
	wh := core.SampleBlinnHalfVector(n, m.Shininess, sampler.Get2D())

	nDotWh := math.Abs(n.Dot(wh))
	woDotWh := math.Abs(wo.Dot(wh))

	var pdf float64
	if woDotWh > 0 {
		pdfWh := (m.Shininess + 1.0) * math.Pow(nDotWh, m.Shininess) / (2.0 * math.Pi)
		pdf = pdfWh / (4.0 * woDotWh)
	}

	wi := core.Reflect(wo, wh).Normalize()
	return WiSample{
		Wi:  wi,
		PDF: pdf,
		F:   m.F(wi, wo, n),
	}
}
