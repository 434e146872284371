package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// planeExtent bounds an infinite plane for the BVH
const planeExtent = 1e6

// Plane is an infinite plane through Point with outward normal Normal
type Plane struct {
	Point    core.Vec3
	Normal   core.Vec3 // Unit normal
	Material *material.Material
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat *material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: mat,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < 1e-8 {
		return Intersection{}, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return Intersection{}, false
	}
	return newIntersection(ray, t, p.Normal, p.Normal, p.Material), true
}

// BoundingBox returns a thin slab for axis-aligned planes and a large cube
// otherwise
func (p *Plane) BoundingBox() AABB {
	const thickness = 1e-3
	min := core.NewVec3(-planeExtent, -planeExtent, -planeExtent)
	max := core.NewVec3(planeExtent, planeExtent, planeExtent)

	switch {
	case math.Abs(p.Normal.X) > 0.9999:
		min.X, max.X = p.Point.X-thickness, p.Point.X+thickness
	case math.Abs(p.Normal.Y) > 0.9999:
		min.Y, max.Y = p.Point.Y-thickness, p.Point.Y+thickness
	case math.Abs(p.Normal.Z) > 0.9999:
		min.Z, max.Z = p.Point.Z-thickness, p.Point.Z+thickness
	}
	return NewAABB(min, max)
}
