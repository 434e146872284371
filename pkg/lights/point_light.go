package lights

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// PointLight is an isotropic point emitter whose intensity falls off with
// the inverse square of distance
type PointLight struct {
	Position   core.Vec3
	Multiplier float64
	Color      core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3, multiplier float64) *PointLight {
	return &PointLight{
		Position:   position,
		Multiplier: multiplier,
		Color:      color,
	}
}

// Incident returns the unit direction from point toward the light, the
// distance to it, and the radiance arriving at point (ignoring occlusion)
func (l *PointLight) Incident(point core.Vec3) (wi core.Vec3, distance float64, radiance core.Vec3) {
	toLight := l.Position.Subtract(point)
	distanceSquared := toLight.LengthSquared()
	if distanceSquared == 0 {
		return core.Vec3{}, 0, core.Vec3{}
	}

	distance = toLight.Length()
	wi = toLight.Multiply(1.0 / distance)
	radiance = l.Color.Multiply(l.Multiplier / distanceSquared)
	return wi, distance, radiance
}
