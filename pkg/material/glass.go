package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Glass is perfect specular refraction. The normal passed in must be the
// surface's outward normal so the side of wo tells entering from exiting.
type Glass struct {
	IOR float64 // Index of refraction of the interior
}

// NewGlass creates a new refractive node
func NewGlass(ior float64) *Glass {
	return &Glass{IOR: ior}
}

// F is zero for every explicit direction pair: a delta distribution can only
// be reached through SampleWi
func (g *Glass) F(wi, wo, n core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// SampleWi refracts wo through the surface, falling back to mirror
// reflection on total internal reflection. F is 1 and PDF is |wi·n| so
// that the integrator's cosine/PDF factor cancels to one.
func (g *Glass) SampleWi(wo, n core.Vec3, sampler core.Sampler) WiSample {
	// Incident and exitant indices swap depending on the side of wo
	normal := n
	eta := 1.0 / g.IOR
	if wo.Dot(n) <= 0 {
		normal = n.Negate()
		eta = g.IOR
	}

	var wi core.Vec3
	if refracted, ok := Refract(wo, normal, eta); ok {
		wi = refracted
	} else {
		wi = core.Reflect(wo, n)
	}

	return WiSample{
		Wi:  wi,
		PDF: math.Abs(wi.Dot(n)),
		F:   core.NewVec3(1, 1, 1),
	}
}

// Refract bends wo (pointing away from the surface, on the side of normal)
// through the interface with relative index eta = η_outside/η_inside.
// It reports false on total internal reflection.
func Refract(wo, normal core.Vec3, eta float64) (core.Vec3, bool) {
	w := wo.Dot(normal) * eta
	k := 1.0 + (w-eta)*(w+eta)
	if k < 0 {
		return core.Vec3{}, false
	}
	return wo.Multiply(-eta).Add(normal.Multiply(w - math.Sqrt(k))).Normalize(), true
}
