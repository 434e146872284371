package lights

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Environment is distant lighting from an equirectangular radiance map,
// seen by every ray that escapes the scene
type Environment struct {
	Map        *RadianceMap
	Multiplier float64
}

// NewEnvironment creates an environment from a radiance map
func NewEnvironment(radianceMap *RadianceMap, multiplier float64) *Environment {
	return &Environment{Map: radianceMap, Multiplier: multiplier}
}

// NewUniformEnvironment creates an environment of constant radiance
func NewUniformEnvironment(color core.Vec3) *Environment {
	return NewEnvironment(NewConstantRadianceMap(color), 1.0)
}

// NewGradientEnvironment creates a sky fading from top to bottom
func NewGradientEnvironment(top, bottom core.Vec3) *Environment {
	return NewEnvironment(NewGradientRadianceMap(64, top, bottom), 1.0)
}

// Lookup returns the radiance arriving from direction wi. A nil environment
// or one without a map is black.
func (e *Environment) Lookup(wi core.Vec3) core.Vec3 {
	if e == nil || e.Map == nil {
		return core.Vec3{}
	}
	u, v := DirectionToUV(wi)
	return e.Map.Sample(u, v).Multiply(e.Multiplier)
}

// DirectionToUV maps a direction of any length to equirectangular
// coordinates: u follows the azimuth atan2(z, x) around +Y and v = 1 is
// straight up
func DirectionToUV(wi core.Vec3) (u, v float64) {
	wi = wi.Normalize()
	theta := math.Acos(math.Max(-1.0, math.Min(1.0, wi.Y)))
	phi := math.Atan2(wi.Z, wi.X)
	if phi < 0 {
		phi += 2.0 * math.Pi
	}
	return phi / (2.0 * math.Pi), 1.0 - theta/math.Pi
}

// UVToDirection is the inverse of DirectionToUV
func UVToDirection(u, v float64) core.Vec3 {
	theta := (1.0 - v) * math.Pi
	phi := u * 2.0 * math.Pi
	sinTheta := math.Sin(theta)
	return core.NewVec3(sinTheta*math.Cos(phi), math.Cos(theta), sinTheta*math.Sin(phi))
}
