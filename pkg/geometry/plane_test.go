package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestPlane_Hit(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 3, 0), nil)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
		frontFace bool
	}{
		{"far from the origin", core.NewRay(core.NewVec3(500, 3, -700), core.NewVec3(0, -1, 0)), true, 3, true},
		{"from below", core.NewRay(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0)), true, 2, false},
		{"oblique", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0)), true, 1, true},
		{"parallel", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)), false, 0, false},
		{"pointing away", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := plane.Hit(tt.ray, 0.001, 1000)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.frontFace {
				t.Errorf("Expected FrontFace=%v, got %v", tt.frontFace, hit.FrontFace)
			}
			if math.Abs(hit.Position.Y) > 1e-9 {
				t.Errorf("Expected hit on y=0, got %v", hit.Position)
			}
		})
	}
}

func TestPlane_BoundingBox(t *testing.T) {
	ground := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), nil).BoundingBox()
	if size := ground.Size(); size.Y > 0.01 || size.X < 1e5 || size.Z < 1e5 {
		t.Errorf("Expected a thin wide slab for an axis-aligned plane, got size %v", size)
	}
	if ground.Center().Y != -1 {
		t.Errorf("Expected the slab centered on y=-1, got %v", ground.Center())
	}

	tilted := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0), nil).BoundingBox()
	if size := tilted.Size(); size.X < 1e5 || size.Y < 1e5 || size.Z < 1e5 {
		t.Errorf("Expected a large cube for a tilted plane, got size %v", size)
	}
}
