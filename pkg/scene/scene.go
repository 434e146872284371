package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering. It is read-only
// once Preprocess has run.
type Scene struct {
	Name        string
	Camera      renderer.Camera
	Shapes      []geometry.Shape    // Objects in the scene
	PointLight  *lights.PointLight  // Optional; nil disables direct lighting
	Environment *lights.Environment // Optional; nil is black
	BVH         *geometry.BVH       // Acceleration structure, built by Preprocess
}

// NewGroundQuad creates a large horizontal quad centered at the given point,
// facing up
func NewGroundQuad(center core.Vec3, size float64, mat *material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// (0,0,size) × (size,0,0) points along +Y
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}

// Preprocess builds the BVH. It must be called after the last shape is added
// and before rendering.
func (s *Scene) Preprocess() error {
	for i, shape := range s.Shapes {
		if shape == nil {
			return fmt.Errorf("scene %q: shape %d is nil", s.Name, i)
		}
	}
	s.BVH = geometry.NewBVH(s.Shapes)
	return nil
}

// Intersect returns the nearest hit along the ray
func (s *Scene) Intersect(ray core.Ray) (geometry.Intersection, bool) {
	if s.BVH == nil {
		return geometry.Intersection{}, false
	}
	return s.BVH.Hit(ray, 0, math.Inf(1))
}

// Occluded reports whether anything blocks the ray before maxDistance
func (s *Scene) Occluded(ray core.Ray, maxDistance float64) bool {
	if s.BVH == nil {
		return false
	}
	return s.BVH.Occluded(ray, 0, maxDistance)
}

// GetPointLight returns the scene's point light, or nil
func (s *Scene) GetPointLight() *lights.PointLight {
	return s.PointLight
}

// GetEnvironment returns the scene's environment, or nil
func (s *Scene) GetEnvironment() *lights.Environment {
	return s.Environment
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		if mesh, ok := shape.(*geometry.TriangleMesh); ok {
			count += mesh.TriangleCount()
		} else {
			count++
		}
	}
	return count
}
