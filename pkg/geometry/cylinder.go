package geometry

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Cylinder is a finite circular cylinder between two end centers. An
// uncapped cylinder is an open tube.
type Cylinder struct {
	BaseCenter core.Vec3
	TopCenter  core.Vec3
	Radius     float64
	Capped     bool
	Material   *material.Material

	axis   core.Vec3 // Unit vector from base to top
	height float64
}

// NewCylinder creates a new cylinder
func NewCylinder(baseCenter, topCenter core.Vec3, radius float64, capped bool, mat *material.Material) *Cylinder {
	axis := topCenter.Subtract(baseCenter)
	return &Cylinder{
		BaseCenter: baseCenter,
		TopCenter:  topCenter,
		Radius:     radius,
		Capped:     capped,
		Material:   mat,
		axis:       axis.Normalize(),
		height:     axis.Length(),
	}
}

// Hit tests if a ray intersects with the side or, when capped, the ends
func (c *Cylinder) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	hit, found := c.hitSide(ray, tMin, tMax)
	if !c.Capped {
		return hit, found
	}

	closest := tMax
	if found {
		closest = hit.T
	}
	ends := [2]struct {
		center, normal core.Vec3
	}{
		{c.BaseCenter, c.axis.Negate()},
		{c.TopCenter, c.axis},
	}
	for _, end := range ends {
		if t, ok := intersectDisc(ray, end.center, end.normal, c.Radius, tMin, closest); ok {
			hit = newIntersection(ray, t, end.normal, end.normal, c.Material)
			closest, found = t, true
		}
	}
	return hit, found
}

// hitSide intersects the curved surface. With delta = origin - base and
// the components of D and delta perpendicular to the axis, the hit solves
// |D⊥·t + delta⊥|² = r².
func (c *Cylinder) hitSide(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	delta := ray.Origin.Subtract(c.BaseCenter)
	dAxis := ray.Direction.Dot(c.axis)
	deltaAxis := delta.Dot(c.axis)

	a := ray.Direction.LengthSquared() - dAxis*dAxis
	if math.Abs(a) < 1e-8 {
		return Intersection{}, false
	}
	halfB := delta.Dot(ray.Direction) - deltaAxis*dAxis
	cc := delta.LengthSquared() - deltaAxis*deltaAxis - c.Radius*c.Radius

	discriminant := halfB*halfB - a*cc
	if discriminant < 0 {
		return Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	for _, t := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		if t < tMin || t > tMax {
			continue
		}
		point := ray.At(t)
		h := point.Subtract(c.BaseCenter).Dot(c.axis)
		if h < 0 || h > c.height {
			continue
		}
		normal := point.Subtract(c.BaseCenter.Add(c.axis.Multiply(h))).Normalize()
		return newIntersection(ray, t, normal, normal, c.Material), true
	}
	return Intersection{}, false
}

// BoundingBox returns the union of the bounds of both end circles
func (c *Cylinder) BoundingBox() AABB {
	return discBounds(c.BaseCenter, c.axis, c.Radius).
		Union(discBounds(c.TopCenter, c.axis, c.Radius)).
		Expand(1e-4)
}
