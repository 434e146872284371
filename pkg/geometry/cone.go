package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Cone is a finite cone narrowing from BaseRadius at BaseCenter to TopRadius
// at TopCenter. A zero TopRadius gives a pointed cone, a positive one a
// frustum.
type Cone struct {
	BaseCenter core.Vec3
	BaseRadius float64
	TopCenter  core.Vec3
	TopRadius  float64
	Capped     bool
	Material   *material.Material

	axis     core.Vec3 // Unit vector from base to top
	height   float64
	tanAngle float64   // Radius lost per unit of height
	apex     core.Vec3 // Tip of the infinite cone through both ends
}

// NewCone creates a new cone or frustum
func NewCone(baseCenter core.Vec3, baseRadius float64, topCenter core.Vec3, topRadius float64, capped bool, mat *material.Material) (*Cone, error) {
	if baseRadius <= 0 {
		return nil, fmt.Errorf("base radius must be positive, got %g", baseRadius)
	}
	if topRadius < 0 {
		return nil, fmt.Errorf("top radius must be non-negative, got %g", topRadius)
	}
	if topRadius >= baseRadius {
		return nil, fmt.Errorf("top radius %g must be smaller than base radius %g; use a cylinder for equal radii", topRadius, baseRadius)
	}

	axisVector := topCenter.Subtract(baseCenter)
	height := axisVector.Length()
	if height <= 0 {
		return nil, fmt.Errorf("base and top centers coincide")
	}
	axis := axisVector.Normalize()
	tanAngle := (baseRadius - topRadius) / height

	return &Cone{
		BaseCenter: baseCenter,
		BaseRadius: baseRadius,
		TopCenter:  topCenter,
		TopRadius:  topRadius,
		Capped:     capped,
		Material:   mat,
		axis:       axis,
		height:     height,
		tanAngle:   tanAngle,
		apex:       baseCenter.Add(axis.Multiply(baseRadius / tanAngle)),
	}, nil
}

// Hit tests if a ray intersects with the side or, when capped, the ends
func (c *Cone) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	hit, found := c.hitSide(ray, tMin, tMax)
	if !c.Capped {
		return hit, found
	}

	closest := tMax
	if found {
		closest = hit.T
	}
	baseNormal := c.axis.Negate()
	if t, ok := intersectDisc(ray, c.BaseCenter, baseNormal, c.BaseRadius, tMin, closest); ok {
		hit = newIntersection(ray, t, baseNormal, baseNormal, c.Material)
		closest, found = t, true
	}
	if c.TopRadius > 0 {
		if t, ok := intersectDisc(ray, c.TopCenter, c.axis, c.TopRadius, tMin, closest); ok {
			hit = newIntersection(ray, t, c.axis, c.axis, c.Material)
			found = true
		}
	}
	return hit, found
}

// hitSide intersects the slanted surface. Relative to the apex, a point w on
// the infinite double cone satisfies |w|² = (1 + tan²)(w·axis)²; the height
// range keeps only the nappe between the two ends.
func (c *Cone) hitSide(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	co := ray.Origin.Subtract(c.apex)
	k := 1 + c.tanAngle*c.tanAngle
	dAxis := ray.Direction.Dot(c.axis)
	coAxis := co.Dot(c.axis)

	a := ray.Direction.LengthSquared() - k*dAxis*dAxis
	if math.Abs(a) < 1e-8 {
		return Intersection{}, false
	}
	halfB := ray.Direction.Dot(co) - k*dAxis*coAxis
	cc := co.LengthSquared() - k*coAxis*coAxis

	discriminant := halfB*halfB - a*cc
	if discriminant < 0 {
		return Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	roots := [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a}
	if roots[0] > roots[1] {
		roots[0], roots[1] = roots[1], roots[0]
	}
	for _, t := range roots {
		if t < tMin || t > tMax {
			continue
		}
		point := ray.At(t)
		h := point.Subtract(c.BaseCenter).Dot(c.axis)
		if h < 0 || h > c.height {
			continue
		}
		normal := c.sideNormal(point, h)
		return newIntersection(ray, t, normal, normal, c.Material), true
	}
	return Intersection{}, false
}

// sideNormal tilts the radial direction toward the axis by the slope
func (c *Cone) sideNormal(point core.Vec3, h float64) core.Vec3 {
	radial := point.Subtract(c.BaseCenter.Add(c.axis.Multiply(h)))
	if radial.LengthSquared() < 1e-16 {
		return c.axis
	}
	return radial.Normalize().Add(c.axis.Multiply(c.tanAngle)).Normalize()
}

// BoundingBox returns the union of the bounds of both end circles
func (c *Cone) BoundingBox() AABB {
	return discBounds(c.BaseCenter, c.axis, c.BaseRadius).
		Union(discBounds(c.TopCenter, c.axis, c.TopRadius)).
		Expand(1e-4)
}
