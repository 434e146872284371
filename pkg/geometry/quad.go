package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner and two edge vectors.
// Its outward normal is U × V.
type Quad struct {
	Corner   core.Vec3
	U        core.Vec3
	V        core.Vec3
	Normal   core.Vec3
	Material *material.Material
	D        float64   // Plane constant: normal · p = D
	W        core.Vec3 // n / (n · (U × V)), for planar coordinates
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat *material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: mat,
		D:        normal.Dot(corner),
		W:        cross.Multiply(1.0 / cross.Dot(cross)),
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-8 {
		return Intersection{}, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return Intersection{}, false
	}

	// Planar coordinates of the hit relative to the corner
	hitVector := ray.At(t).Subtract(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return Intersection{}, false
	}

	return newIntersection(ray, t, q.Normal, q.Normal, q.Material), true
}

// BoundingBox returns the bounding box of the four corners
func (q *Quad) BoundingBox() AABB {
	return NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	).Expand(1e-4)
}
