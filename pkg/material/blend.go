package material

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// LinearBlend combines two nodes with a fixed weight W in [0, 1].
//
// Evaluation is the exact mixture W·f0 + (1-W)·f1, but SampleWi picks one
// branch and returns its sample untouched: the returned PDF and F belong to
// that branch alone. The strategy matches the mixture only in expectation,
// which costs variance, not bias. Changing it requires deriving the combined
// density for both branches.
type LinearBlend struct {
	W     float64 // Weight of Bsdf0
	Bsdf0 BSDF
	Bsdf1 BSDF
}

// NewLinearBlend creates a new linear blend, clamping w to [0, 1]
func NewLinearBlend(w float64, bsdf0, bsdf1 BSDF) *LinearBlend {
	return &LinearBlend{
		W:     math.Max(0.0, math.Min(w, 1.0)),
		Bsdf0: bsdf0,
		Bsdf1: bsdf1,
	}
}

// F returns W·f0 + (1-W)·f1
func (b *LinearBlend) F(wi, wo, n core.Vec3) core.Vec3 {
	f0 := b.Bsdf0.F(wi, wo, n)
	f1 := b.Bsdf1.F(wi, wo, n)
	return f0.Multiply(b.W).Add(f1.Multiply(1.0 - b.W))
}

// SampleWi selects Bsdf0 with probability W, otherwise Bsdf1
func (b *LinearBlend) SampleWi(wo, n core.Vec3, sampler core.Sampler) WiSample {
	if sampler.Get1D() < b.W {
		return b.Bsdf0.SampleWi(wo, n, sampler)
	}
	return b.Bsdf1.SampleWi(wo, n, sampler)
}
