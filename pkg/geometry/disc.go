package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Disc is a flat circle. Its outward normal is Normal.
type Disc struct {
	Center   core.Vec3
	Normal   core.Vec3 // Unit normal
	Radius   float64
	Material *material.Material
}

// NewDisc creates a new disc facing normal
func NewDisc(center, normal core.Vec3, radius float64, mat *material.Material) *Disc {
	return &Disc{
		Center:   center,
		Normal:   normal.Normalize(),
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the disc
func (d *Disc) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	t, ok := intersectDisc(ray, d.Center, d.Normal, d.Radius, tMin, tMax)
	if !ok {
		return Intersection{}, false
	}
	return newIntersection(ray, t, d.Normal, d.Normal, d.Material), true
}

// BoundingBox returns the tight bounds of the circle
func (d *Disc) BoundingBox() AABB {
	return discBounds(d.Center, d.Normal, d.Radius).Expand(1e-4)
}

// intersectDisc returns the ray parameter where the ray crosses the plane of
// the circle (center, unit normal, radius) inside the circle
func intersectDisc(ray core.Ray, center, normal core.Vec3, radius, tMin, tMax float64) (float64, bool) {
	denominator := ray.Direction.Dot(normal)
	if math.Abs(denominator) < 1e-8 {
		return 0, false
	}

	t := center.Subtract(ray.Origin).Dot(normal) / denominator
	if t < tMin || t > tMax {
		return 0, false
	}
	if ray.At(t).Subtract(center).LengthSquared() > radius*radius {
		return 0, false
	}
	return t, true
}

// discBounds bounds a circle. Along each axis the circle extends
// radius·sqrt(1 - n²) where n is that component of the unit normal.
func discBounds(center, normal core.Vec3, radius float64) AABB {
	extent := core.NewVec3(
		radius*math.Sqrt(math.Max(0, 1-normal.X*normal.X)),
		radius*math.Sqrt(math.Max(0, 1-normal.Y*normal.Y)),
		radius*math.Sqrt(math.Max(0, 1-normal.Z*normal.Z)),
	)
	return NewAABB(center.Subtract(extent), center.Add(extent))
}
