package material

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestFresnel(t *testing.T) {
	n := core.NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		r0       float64
		wi, wo   core.Vec3
		expected float64
	}{
		{"normal incidence returns r0", 0.04, n, n, 0.04},
		{"opaque mirror", 1.0, n, n, 1.0},
		{
			name:     "45 degree half angle",
			r0:       0.04,
			wi:       core.NewVec3(1, 0, 0),
			wo:       core.NewVec3(0, 1, 0),
			expected: 0.04 + 0.96*math.Pow(1-math.Sqrt(0.5), 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fresnel(tt.r0, tt.wi, tt.wo)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Fresnel = %f, expected %f", got, tt.expected)
			}
		})
	}
}

func TestFresnel_GrazingApproachesOne(t *testing.T) {
	wi := core.NewVec3(1, 0.001, 0).Normalize()
	wo := core.NewVec3(-1, 0.001, 0).Normalize()

	if f := Fresnel(0.04, wi, wo); f < 0.99 {
		t.Errorf("expected reflectance near 1 at grazing, got %f", f)
	}
}

func TestDielectric_F(t *testing.T) {
	microfacet := NewMicrofacet(10)
	diffuse := NewDiffuse(core.NewVec3(0.2, 0.4, 0.6))
	dielectric := NewDielectric(microfacet, diffuse, 0.04)

	n := core.NewVec3(0, 1, 0)
	wi := core.NewVec3(0.3, 1, 0.1).Normalize()
	wo := core.NewVec3(-0.4, 1, 0).Normalize()

	f := Fresnel(0.04, wi, wo)
	expected := microfacet.F(wi, wo, n).Multiply(f).Add(diffuse.F(wi, wo, n).Multiply(1 - f))
	assertVecNear(t, "mixture", dielectric.F(wi, wo, n), expected, 1e-12)
}

func TestDielectric_SampleWi_Branches(t *testing.T) {
	microfacet := NewMicrofacet(10)
	diffuse := NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	dielectric := NewDielectric(microfacet, diffuse, 0.04)

	n := core.NewVec3(0, 1, 0)
	wo := core.NewVec3(0.2, 1, 0).Normalize()

	t.Run("reflective", func(t *testing.T) {
		got := dielectric.SampleWi(wo, n, &sequenceSampler{values: []float64{0.1, 0.3, 0.6}})
		child := microfacet.SampleWi(wo, n, &sequenceSampler{values: []float64{0.3, 0.6}})

		assertVecNear(t, "wi", got.Wi, child.Wi, 1e-12)
		if math.Abs(got.PDF-0.5*child.PDF) > 1e-12 {
			t.Errorf("PDF = %g, expected half of %g", got.PDF, child.PDF)
		}
		assertVecNear(t, "F", got.F, child.F.Multiply(Fresnel(0.04, child.Wi, wo)), 1e-12)
	})

	t.Run("transmissive", func(t *testing.T) {
		got := dielectric.SampleWi(wo, n, &sequenceSampler{values: []float64{0.7, 0.3, 0.6}})
		child := diffuse.SampleWi(wo, n, &sequenceSampler{values: []float64{0.3, 0.6}})

		assertVecNear(t, "wi", got.Wi, child.Wi, 1e-12)
		if math.Abs(got.PDF-0.5*child.PDF) > 1e-12 {
			t.Errorf("PDF = %g, expected half of %g", got.PDF, child.PDF)
		}
		assertVecNear(t, "F", got.F, child.F.Multiply(1-Fresnel(0.04, child.Wi, wo)), 1e-12)
	})
}

func TestDielectric_ImportanceSamplingUnbiased(t *testing.T) {
	dielectric := NewDielectric(NewMicrofacet(8), NewDiffuse(core.NewVec3(0.8, 0.8, 0.8)), 0.04)
	n := core.NewVec3(0, 1, 0)
	wo := core.NewVec3(0.3, 1, 0.2).Normalize()

	uniform := uniformEstimate(dielectric, wo, n, 400000, 21)
	importance := importanceEstimate(dielectric, wo, n, 200000, 22)

	relative := math.Abs(uniform.X-importance.X) / uniform.X
	if relative > 0.03 {
		t.Errorf("estimates disagree: uniform %f, importance %f", uniform.X, importance.X)
	}
}
