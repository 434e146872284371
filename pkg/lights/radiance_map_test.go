package lights

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestNewRadianceMap_Validation(t *testing.T) {
	if _, err := NewRadianceMap(0, 2, nil); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewRadianceMap(2, 2, make([]core.Vec3, 3)); err == nil {
		t.Error("expected error for wrong pixel count")
	}
	if _, err := NewRadianceMap(2, 2, make([]core.Vec3, 4)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRadianceMap_Sample(t *testing.T) {
	// 2x2 map: top row red, green; bottom row blue, white
	red := core.NewVec3(1, 0, 0)
	green := core.NewVec3(0, 1, 0)
	blue := core.NewVec3(0, 0, 1)
	white := core.NewVec3(1, 1, 1)
	m, err := NewRadianceMap(2, 2, []core.Vec3{red, green, blue, white})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		{"top-left texel center", 0.25, 0.75, red},
		{"top-right texel center", 0.75, 0.75, green},
		{"bottom-left texel center", 0.25, 0.25, blue},
		{"bottom-right texel center", 0.75, 0.25, white},
		{"midway along the top row", 0.5, 0.75, red.Add(green).Multiply(0.5)},
		{"center of the map", 0.5, 0.5, red.Add(green).Add(blue).Add(white).Multiply(0.25)},
		{"u wraps across the seam", 0.0, 0.75, green.Add(red).Multiply(0.5)},
		{"v clamps at the pole", 0.25, 1.0, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Sample(tt.u, tt.v)
			if got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Sample(%g, %g) = %v, expected %v", tt.u, tt.v, got, tt.expected)
			}
		})
	}
}

func TestRadianceMap_SampleIsContinuousAcrossSeam(t *testing.T) {
	m, err := NewRadianceMap(4, 1, []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(2, 2, 2), core.NewVec3(3, 3, 3),
	})
	if err != nil {
		t.Fatal(err)
	}

	before := m.Sample(0.9999999, 0.5)
	after := m.Sample(0.0000001, 0.5)
	if math.Abs(before.X-after.X) > 1e-5 {
		t.Errorf("discontinuity at u=0: %f vs %f", before.X, after.X)
	}
}

func TestPointLight_Incident(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 4, 0), core.NewVec3(1, 0.5, 0.25), 32)

	wi, distance, radiance := light.Incident(core.NewVec3(0, 0, 0))
	if !wi.Equals(core.NewVec3(0, 1, 0)) {
		t.Errorf("wi = %v, expected +Y", wi)
	}
	if distance != 4 {
		t.Errorf("distance = %f, expected 4", distance)
	}
	if !radiance.Equals(core.NewVec3(2, 1, 0.5)) {
		t.Errorf("radiance = %v, expected inverse-square falloff (2, 1, 0.5)", radiance)
	}

	_, distance, radiance = light.Incident(light.Position)
	if distance != 0 || !radiance.IsZero() {
		t.Error("expected no contribution at the light position")
	}
}
