package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Triangle is a single triangle with optional per-vertex normals. Without
// vertex normals it shades flat with its face normal.
type Triangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3 // Vertex normals, used when smooth is set
	Material   *material.Material
	normal     core.Vec3 // Face normal, (V1-V0) × (V2-V0)
	smooth     bool
	bbox       AABB
}

// NewTriangle creates a flat-shaded triangle. Counter-clockwise winding seen
// from the outside gives the outward normal.
func NewTriangle(v0, v1, v2 core.Vec3, mat *material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
	}
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = NewAABBFromPoints(v0, v1, v2).Expand(1e-4)
	return t
}

// NewSmoothTriangle creates a triangle whose shading normal interpolates the
// given vertex normals
func NewSmoothTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, mat *material.Material) *Triangle {
	t := NewTriangle(v0, v1, v2, mat)
	t.N0 = n0.Normalize()
	t.N1 = n1.Normalize()
	t.N2 = n2.Normalize()
	t.smooth = true
	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return Intersection{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return Intersection{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return Intersection{}, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return Intersection{}, false
	}

	return newIntersection(ray, tHit, t.normal, t.shadingNormal(u, v), t.Material), true
}

// shadingNormal interpolates the vertex normals at barycentric (u, v)
func (t *Triangle) shadingNormal(u, v float64) core.Vec3 {
	if !t.smooth {
		return t.normal
	}
	n := t.N0.Multiply(1 - u - v).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
	if n.IsZero() {
		return t.normal
	}
	return n
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() AABB {
	return t.bbox
}

// Normal returns the triangle's face normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
