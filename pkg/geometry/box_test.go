package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

func TestBox_OutwardNormals(t *testing.T) {
	box := NewAxisAlignedBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), nil)

	axes := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	}

	for _, axis := range axes {
		ray := core.NewRay(axis.Multiply(5), axis.Negate())
		hit, ok := box.Hit(ray, 0.001, 100)
		if !ok {
			t.Fatalf("Expected hit along %v", axis)
		}
		if math.Abs(hit.T-4) > 1e-9 {
			t.Errorf("Axis %v: expected t=4, got %f", axis, hit.T)
		}
		if !hit.GeometryNormal.Equals(axis) {
			t.Errorf("Axis %v: expected outward normal, got %v", axis, hit.GeometryNormal)
		}
		if !hit.FrontFace {
			t.Errorf("Axis %v: expected front face", axis)
		}
	}
}

func TestBox_RotatedBoundingBox(t *testing.T) {
	box := NewBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), core.NewVec3(0, math.Pi/4, 0), nil)
	bbox := box.BoundingBox()

	if math.Abs(bbox.Max.X-math.Sqrt2) > 1e-9 {
		t.Errorf("Expected X extent sqrt(2) after 45° yaw, got %f", bbox.Max.X)
	}
	if math.Abs(bbox.Max.Y-1) > 1e-9 {
		t.Errorf("Yaw should not change Y extent, got %f", bbox.Max.Y)
	}
}
