package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestCylinder_Hit(t *testing.T) {
	// Unit radius, two tall, standing on the origin
	base := core.NewVec3(0, 0, 0)
	top := core.NewVec3(0, 2, 0)

	tests := []struct {
		name           string
		capped         bool
		ray            core.Ray
		shouldHit      bool
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "side from the front",
			ray:            core.NewRay(core.NewVec3(0, 1, 5), core.NewVec3(0, 0, -1)),
			shouldHit:      true,
			expectedT:      4,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "side from inside",
			ray:            core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)),
			shouldHit:      true,
			expectedT:      1,
			expectedFront:  false,
			expectedNormal: core.NewVec3(1, 0, 0),
		},
		{
			name: "passes above the top",
			ray:  core.NewRay(core.NewVec3(0, 3, 5), core.NewVec3(0, 0, -1)),
		},
		{
			name: "open tube along the axis",
			ray:  core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
		},
		{
			name:           "capped along the axis",
			capped:         true,
			ray:            core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			shouldHit:      true,
			expectedT:      3,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
		{
			name:           "capped from below",
			capped:         true,
			ray:            core.NewRay(core.NewVec3(0.5, -1, 0), core.NewVec3(0, 1, 0)),
			shouldHit:      true,
			expectedT:      1,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, -1, 0),
		},
		{
			name:           "open top sees the inner wall",
			ray:            core.NewRay(core.NewVec3(0, 4, 0), core.NewVec3(0.4, -1, 0)),
			shouldHit:      true,
			expectedT:      2.5,
			expectedFront:  false,
			expectedNormal: core.NewVec3(1, 0, 0),
		},
		{
			name:           "cap in front of the inner wall",
			capped:         true,
			ray:            core.NewRay(core.NewVec3(0, 4, 0), core.NewVec3(0.4, -1, 0)),
			shouldHit:      true,
			expectedT:      2,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cylinder := NewCylinder(base, top, 1, tt.capped, nil)
			hit, ok := cylinder.Hit(tt.ray, 0.001, 1000)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v (t=%f)", tt.shouldHit, ok, hit.T)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if !nearlyEqual(hit.GeometryNormal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.GeometryNormal)
			}
		})
	}
}

func TestCylinder_Tilted(t *testing.T) {
	// Axis along X, so a vertical ray crosses the side at the top of the tube
	cylinder := NewCylinder(core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0), 0.5, false, nil)

	hit, ok := cylinder.Hit(core.NewRay(core.NewVec3(0.3, 2, 0), core.NewVec3(0, -1, 0)), 0.001, 100)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected t=1.5, got %f", hit.T)
	}
	if !nearlyEqual(hit.GeometryNormal, core.NewVec3(0, 1, 0), 1e-9) {
		t.Errorf("Expected +Y normal, got %v", hit.GeometryNormal)
	}

	if _, ok := cylinder.Hit(core.NewRay(core.NewVec3(1.2, 2, 0), core.NewVec3(0, -1, 0)), 0.001, 100); ok {
		t.Error("Expected miss past the end of the tube")
	}
}

func TestCylinder_BoundingBox(t *testing.T) {
	tests := []struct {
		name        string
		base, top   core.Vec3
		expectedMin core.Vec3
		expectedMax core.Vec3
	}{
		{"Y axis", core.NewVec3(0, 0, 0), core.NewVec3(0, 2, 0), core.NewVec3(-1, 0, -1), core.NewVec3(1, 2, 1)},
		{"X axis", core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)},
		{"diagonal in XY", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0),
			core.NewVec3(-math.Sqrt(0.5), -math.Sqrt(0.5), -1), core.NewVec3(1+math.Sqrt(0.5), 1+math.Sqrt(0.5), 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bbox := NewCylinder(tt.base, tt.top, 1, true, nil).BoundingBox()
			if !nearlyEqual(bbox.Min, tt.expectedMin, 1e-3) || !nearlyEqual(bbox.Max, tt.expectedMax, 1e-3) {
				t.Errorf("Expected bounds %v..%v, got %v..%v", tt.expectedMin, tt.expectedMax, bbox.Min, bbox.Max)
			}
		})
	}
}
