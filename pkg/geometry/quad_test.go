package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestQuad_Hit(t *testing.T) {
	// Unit square in the XZ plane facing +Y
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), nil)

	if !quad.Normal.Equals(core.NewVec3(0, 1, 0)) {
		t.Fatalf("Expected +Y normal, got %v", quad.Normal)
	}

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
		frontFace bool
	}{
		{"center from above", core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0)), true, 1, true},
		{"center from below", core.NewRay(core.NewVec3(0.5, -2, 0.5), core.NewVec3(0, 1, 0)), true, 2, false},
		{"outside the edge", core.NewRay(core.NewVec3(1.5, 1, 0.5), core.NewVec3(0, -1, 0)), false, 0, false},
		{"parallel", core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(1, 0, 0)), false, 0, false},
		{"behind origin", core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, 1, 0)), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := quad.Hit(tt.ray, 0.001, 1000)
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
			if !hit.GeometryNormal.Equals(quad.Normal) {
				t.Errorf("Expected outward normal %v, got %v", quad.Normal, hit.GeometryNormal)
			}
		})
	}
}

func TestQuad_NonUnitEdges(t *testing.T) {
	quad := NewQuad(core.NewVec3(-2, -1, 0), core.NewVec3(4, 0, 0), core.NewVec3(0, 2, 0), nil)

	inside := core.NewRay(core.NewVec3(1.9, 0.9, 1), core.NewVec3(0, 0, -1))
	if _, ok := quad.Hit(inside, 0.001, 10); !ok {
		t.Error("Expected hit near the far corner")
	}

	outside := core.NewRay(core.NewVec3(2.1, 0, 1), core.NewVec3(0, 0, -1))
	if _, ok := quad.Hit(outside, 0.001, 10); ok {
		t.Error("Expected miss just past the edge")
	}
}

func TestQuad_BoundingBoxHasThickness(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), nil)
	size := quad.BoundingBox().Size()
	if size.Y <= 0 {
		t.Errorf("Expected non-zero thickness, got %v", size)
	}
}
