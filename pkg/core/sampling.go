package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler backed by its own seeded generator
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// TangentFrame is an orthonormal basis whose third axis is a surface normal
type TangentFrame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// NewTangentFrame builds an orthonormal basis around the unit vector n
func NewTangentFrame(n Vec3) TangentFrame {
	// Find a vector that is not parallel to the normal
	var nt Vec3
	if math.Abs(n.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}

	tangent := nt.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return TangentFrame{Tangent: tangent, Bitangent: bitangent, Normal: n}
}

// ToWorld maps a direction expressed in (tangent, bitangent, normal) coordinates to world space
func (f TangentFrame) ToWorld(local Vec3) Vec3 {
	return f.Tangent.Multiply(local.X).Add(f.Bitangent.Multiply(local.Y)).Add(f.Normal.Multiply(local.Z))
}

// CosineHemisphereLocal returns a cosine-weighted direction around +Z
func CosineHemisphereLocal(sample Vec2) Vec3 {
	// Uniform point on the unit disk, projected up onto the hemisphere
	a := 2.0 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	z := math.Sqrt(math.Max(0, 1.0-sample.Y))
	return NewVec3(x, y, z)
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	return NewTangentFrame(normal).ToWorld(CosineHemisphereLocal(sample))
}

// SampleBlinnHalfVector draws a half vector around normal distributed as
// (n·h)^shininess, i.e. cosθ = u^(1/(shininess+1)) with uniform azimuth
func SampleBlinnHalfVector(normal Vec3, shininess float64, sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	cosTheta := math.Pow(sample.Y, 1.0/(shininess+1.0))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	local := NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	return NewTangentFrame(normal).ToWorld(local).Normalize()
}

// SameHemisphere reports whether a and b lie on the same side of the plane with normal n
func SameHemisphere(a, b, n Vec3) bool {
	return a.Dot(n)*b.Dot(n) > 0
}
