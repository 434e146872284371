package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestTangentFrameOrthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-0.3, 0.05, 0.9).Normalize(),
	}

	for _, n := range normals {
		f := NewTangentFrame(n)
		const tolerance = 1e-9

		if math.Abs(f.Tangent.Length()-1) > tolerance || math.Abs(f.Bitangent.Length()-1) > tolerance {
			t.Errorf("normal %v: basis vectors not unit length: %v %v", n, f.Tangent, f.Bitangent)
		}
		if math.Abs(f.Tangent.Dot(n)) > tolerance || math.Abs(f.Bitangent.Dot(n)) > tolerance ||
			math.Abs(f.Tangent.Dot(f.Bitangent)) > tolerance {
			t.Errorf("normal %v: basis not orthogonal", n)
		}

		// The local +Z axis maps onto the normal
		if !f.ToWorld(NewVec3(0, 0, 1)).Equals(n) {
			t.Errorf("normal %v: ToWorld(+Z) = %v", n, f.ToWorld(NewVec3(0, 0, 1)))
		}
	}
}

func TestSampleCosineHemisphere_InHemisphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))
	normal := NewVec3(0.2, -0.7, 0.4).Normalize()

	for i := 0; i < 10000; i++ {
		dir := SampleCosineHemisphere(normal, sampler.Get2D())
		if dir.Dot(normal) < 0 {
			t.Fatalf("sample %d below hemisphere: %v", i, dir)
		}
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("sample %d not normalized: length %f", i, dir.Length())
		}
	}
}

// TestSampleCosineHemisphere_ChiSquare bins sampled directions over cos²θ and φ.
// For a cosine-weighted density cos²θ is uniform on [0,1] and φ is uniform,
// so each cell of the grid carries equal probability.
func TestSampleCosineHemisphere_ChiSquare(t *testing.T) {
	const (
		thetaBins = 5
		phiBins   = 8
		samples   = 200000
	)

	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	normal := NewVec3(0, 1, 0)
	frame := NewTangentFrame(normal)

	var counts [thetaBins][phiBins]int
	for i := 0; i < samples; i++ {
		dir := SampleCosineHemisphere(normal, sampler.Get2D())

		cosTheta := dir.Dot(normal)
		phi := math.Atan2(dir.Dot(frame.Bitangent), dir.Dot(frame.Tangent))
		if phi < 0 {
			phi += 2 * math.Pi
		}

		ti := min(int(cosTheta*cosTheta*thetaBins), thetaBins-1)
		pi := min(int(phi/(2*math.Pi)*phiBins), phiBins-1)
		counts[ti][pi]++
	}

	expected := float64(samples) / float64(thetaBins*phiBins)
	chiSquare := 0.0
	for ti := range counts {
		for pi := range counts[ti] {
			d := float64(counts[ti][pi]) - expected
			chiSquare += d * d / expected
		}
	}

	// 39 degrees of freedom, critical value at p = 0.001
	const critical = 72.05
	if chiSquare > critical {
		t.Errorf("chi-square %.2f exceeds %.2f: distribution is not cosine weighted", chiSquare, critical)
	}
}

func TestSampleBlinnHalfVector(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(3)))
	normal := NewVec3(0, 0, 1)

	tests := []struct {
		name      string
		shininess float64
		minMean   float64
	}{
		{"rough", 1, 0.5},
		{"glossy", 50, 0.95},
		{"sharp", 1000, 0.998},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := 0.0
			const n = 5000
			for i := 0; i < n; i++ {
				h := SampleBlinnHalfVector(normal, tt.shininess, sampler.Get2D())
				if h.Dot(normal) < 0 {
					t.Fatalf("half vector below surface: %v", h)
				}
				sum += h.Dot(normal)
			}
			// E[cosθ] = (α+1)/(α+2) for this density
			mean := sum / n
			if mean < tt.minMean {
				t.Errorf("mean cosθ %f, expected at least %f", mean, tt.minMean)
			}
		})
	}
}

func TestSameHemisphere(t *testing.T) {
	n := NewVec3(0, 1, 0)
	if !SameHemisphere(NewVec3(1, 1, 0), NewVec3(-1, 0.5, 0), n) {
		t.Error("expected directions above the surface to share a hemisphere")
	}
	if SameHemisphere(NewVec3(1, 1, 0), NewVec3(0, -1, 0), n) {
		t.Error("expected opposite hemispheres")
	}
	if SameHemisphere(NewVec3(1, 0, 0), NewVec3(0, 1, 0), n) {
		t.Error("grazing direction should not count as inside a hemisphere")
	}
}
