package integrator

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
)

// Scene is what an integrator needs from the world. Every method must be
// safe to call from many goroutines at once.
type Scene interface {
	// Intersect returns the nearest hit along the ray
	Intersect(ray core.Ray) (geometry.Intersection, bool)

	// Occluded reports whether anything blocks the ray before maxDistance
	Occluded(ray core.Ray, maxDistance float64) bool

	// GetPointLight returns the scene's point light, or nil if there is none
	GetPointLight() *lights.PointLight

	// GetEnvironment returns the distant lighting, or nil for black
	GetEnvironment() *lights.Environment
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along the ray
	RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Vec3
}
