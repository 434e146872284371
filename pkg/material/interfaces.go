package material

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Epsilon is the smallest PDF treated as a usable sample. Samples below it
// carry no further contribution.
const Epsilon = 1e-4

// BSDF is a node of a material tree. All directions are world-space unit
// vectors pointing away from the surface; n is the shading normal.
type BSDF interface {
	// F evaluates the scattering function for a known pair of directions
	F(wi, wo, n core.Vec3) core.Vec3

	// SampleWi importance-samples an incident direction for wo
	SampleWi(wo, n core.Vec3, sampler core.Sampler) WiSample
}

// WiSample is a sampled incident direction with its density and BSDF value.
// Whenever PDF >= Epsilon, F equals the BSDF evaluated at (Wi, wo, n).
// Callers must check PDF before dividing by it.
type WiSample struct {
	Wi  core.Vec3 // Sampled incident direction
	PDF float64   // Solid-angle density of Wi (0 for an invalid sample)
	F   core.Vec3 // Scattering weight at Wi
}

// Valid reports whether the sample may be used to extend a path
func (s WiSample) Valid() bool {
	return s.PDF >= Epsilon
}
