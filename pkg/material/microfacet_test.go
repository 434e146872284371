package material

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestMicrofacet_ZeroAcrossHemispheres(t *testing.T) {
	microfacet := NewMicrofacet(20)
	n := core.NewVec3(0, 1, 0)

	for i, pair := range oppositeHemispherePairs() {
		if f := microfacet.F(pair[0], pair[1], n); !f.IsZero() {
			t.Errorf("pair %d: expected zero, got %v", i, f)
		}
		if f := microfacet.F(pair[1], pair[0], n); !f.IsZero() {
			t.Errorf("pair %d (swapped): expected zero, got %v", i, f)
		}
	}
}

func TestMicrofacet_MirrorConfiguration(t *testing.T) {
	// wi = wo = n gives h = n, so D = (α+2)/2π and G = 1
	shininess := 10.0
	microfacet := NewMicrofacet(shininess)
	n := core.NewVec3(0, 0, 1)

	f := microfacet.F(n, n, n)
	expected := (shininess + 2) / (2 * math.Pi) / 4
	assertVecNear(t, "F(n, n)", f, core.NewVec3(expected, expected, expected), 1e-12)
}

func TestMicrofacet_PeaksAtMirrorDirection(t *testing.T) {
	microfacet := NewMicrofacet(100)
	n := core.NewVec3(0, 1, 0)
	wo := core.NewVec3(1, 1, 0).Normalize()
	mirror := core.Reflect(wo, n)
	offMirror := core.NewVec3(-1, 2, 0.3).Normalize()

	if microfacet.F(mirror, wo, n).X <= microfacet.F(offMirror, wo, n).X {
		t.Error("expected the mirror direction to dominate for a sharp lobe")
	}
}

func TestMicrofacet_SampleConsistency(t *testing.T) {
	microfacet := NewMicrofacet(30)
	sampler := core.NewSeededSampler(11)
	n := core.NewVec3(0, 1, 0)
	wo := core.NewVec3(0.4, 1, -0.2).Normalize()

	for i := 0; i < 1000; i++ {
		s := microfacet.SampleWi(wo, n, sampler)
		if s.PDF < 0 || math.IsNaN(s.PDF) || math.IsInf(s.PDF, 0) {
			t.Fatalf("sample %d: invalid PDF %g", i, s.PDF)
		}
		if math.Abs(s.Wi.Length()-1) > 1e-9 {
			t.Fatalf("sample %d: wi not normalized", i)
		}
		assertVecNear(t, "sample F", s.F, microfacet.F(s.Wi, wo, n), 1e-12)
	}
}

// The half-vector density converted to solid angle must make importance
// sampling agree with a brute-force uniform estimate of ∫ f cosθ dω
func TestMicrofacet_ImportanceSamplingUnbiased(t *testing.T) {
	tests := []struct {
		name      string
		shininess float64
		wo        core.Vec3
	}{
		{"rough normal view", 5, core.NewVec3(0, 1, 0)},
		{"glossy oblique", 20, core.NewVec3(0.5, 0.8, 0).Normalize()},
	}

	n := core.NewVec3(0, 1, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			microfacet := NewMicrofacet(tt.shininess)
			uniform := uniformEstimate(microfacet, tt.wo, n, 400000, 5)
			importance := importanceEstimate(microfacet, tt.wo, n, 200000, 6)

			relative := math.Abs(uniform.X-importance.X) / uniform.X
			if relative > 0.03 {
				t.Errorf("estimates disagree: uniform %f, importance %f", uniform.X, importance.X)
			}
		})
	}
}
