package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// sequenceSampler replays fixed values, cycling when exhausted
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

// uniformEstimate integrates F(wi, wo, n)·cosθ over the hemisphere of n with
// uniformly distributed directions (pdf 1/2π)
func uniformEstimate(bsdf BSDF, wo, n core.Vec3, samples int, seed int64) core.Vec3 {
	random := rand.New(rand.NewSource(seed))
	frame := core.NewTangentFrame(n)

	sum := core.Vec3{}
	for i := 0; i < samples; i++ {
		z := random.Float64()
		r := math.Sqrt(math.Max(0, 1-z*z))
		phi := 2 * math.Pi * random.Float64()
		wi := frame.ToWorld(core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z))

		sum = sum.Add(bsdf.F(wi, wo, n).Multiply(z * 2 * math.Pi))
	}
	return sum.Multiply(1.0 / float64(samples))
}

// importanceEstimate integrates the same quantity using the node's own sampler
func importanceEstimate(bsdf BSDF, wo, n core.Vec3, samples int, seed int64) core.Vec3 {
	sampler := core.NewSeededSampler(seed)

	sum := core.Vec3{}
	for i := 0; i < samples; i++ {
		s := bsdf.SampleWi(wo, n, sampler)
		if !s.Valid() {
			continue
		}
		cosTheta := math.Abs(s.Wi.Dot(n))
		sum = sum.Add(s.F.Multiply(cosTheta / s.PDF))
	}
	return sum.Multiply(1.0 / float64(samples))
}

func assertVecNear(t *testing.T, name string, got, want core.Vec3, tolerance float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tolerance ||
		math.Abs(got.Y-want.Y) > tolerance ||
		math.Abs(got.Z-want.Z) > tolerance {
		t.Errorf("%s: got %v, want %v (tolerance %g)", name, got, want, tolerance)
	}
}

// oppositeHemispherePairs returns direction pairs split across the plane of +Y
func oppositeHemispherePairs() [][2]core.Vec3 {
	return [][2]core.Vec3{
		{core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)},
		{core.NewVec3(0.3, 0.9, 0).Normalize(), core.NewVec3(0.1, -0.2, 0.9).Normalize()},
		{core.NewVec3(-0.5, -0.5, 0.7).Normalize(), core.NewVec3(0.6, 0.7, -0.2).Normalize()},
		{core.NewVec3(0.9, -0.1, 0).Normalize(), core.NewVec3(-0.9, 0.1, 0).Normalize()},
	}
}
