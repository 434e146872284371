package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Intersection describes the nearest surface hit along a ray.
//
// Both normals are the surface's outward normals regardless of the side the
// ray arrived from; FrontFace reports that side. ShadingNormal differs from
// GeometryNormal only for interpolated (smooth) surfaces.
type Intersection struct {
	Position       core.Vec3          // Hit point
	ShadingNormal  core.Vec3          // Interpolated outward normal
	GeometryNormal core.Vec3          // True outward surface normal
	Wo             core.Vec3          // Unit direction back toward the ray origin
	Material       *material.Material // Surface material
	T              float64            // Ray parameter of the hit
	FrontFace      bool               // Whether the ray hit the outward side
}

// Shape is anything a ray can hit
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool)
	BoundingBox() AABB
}

// newIntersection fills an intersection for a hit at t
func newIntersection(ray core.Ray, t float64, geometryNormal, shadingNormal core.Vec3, mat *material.Material) Intersection {
	return Intersection{
		Position:       ray.At(t),
		ShadingNormal:  shadingNormal,
		GeometryNormal: geometryNormal,
		Wo:             ray.Direction.Negate().Normalize(),
		Material:       mat,
		T:              t,
		FrontFace:      ray.Direction.Dot(geometryNormal) < 0,
	}
}
