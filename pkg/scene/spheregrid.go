package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 6

// hueToRGB converts a hue in degrees to a saturated color, mixed toward white
// by (1 - saturation)
func hueToRGB(hue, saturation float64) core.Vec3 {
	channel := func(offset float64) float64 {
		k := math.Mod(hue/60+offset, 6)
		return 1 - math.Max(0, math.Min(1, math.Min(k, 4-k)))
	}
	pure := core.NewVec3(channel(5), channel(3), channel(1))
	white := core.NewVec3(1, 1, 1)
	return white.Multiply(1 - saturation).Add(pure.Multiply(saturation))
}

// NewSphereGridScene creates a grid of spheres sweeping metalness along X and
// shininess along Z, so every branch of the material tree is visible at once
func NewSphereGridScene() *Scene {
	s := &Scene{
		Name: "sphere-grid",
		Camera: renderer.NewCamera(
			core.NewVec3(2.5, 4.5, 9),
			core.NewVec3(2.5, 0.3, 2.5),
			core.NewVec3(0, 1, 0),
			40,
		),
		PointLight:  lights.NewPointLight(core.NewVec3(6, 8, 6), core.NewVec3(1.0, 0.96, 0.9), 80),
		Environment: lights.NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0)),
	}

	s.Shapes = append(s.Shapes, NewGroundQuad(
		core.NewVec3(2.5, 0, 2.5), 100,
		material.NewDiffuseMaterial(core.NewVec3(0.5, 0.5, 0.5)),
	))

	spacing := 1.0
	radius := 0.35
	last := float64(sphereGridSize - 1)

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			color := hueToRGB(float64(i*sphereGridSize+j)*360/(last+1)/(last+1), 0.7)
			mat := &material.Material{
				Color:     color,
				Shininess: math.Pow(10, 1+2*float64(j)/last), // 10 to 1000
				Fresnel:   0.04 + 0.86*float64(i)/last,
				Metalness: float64(i) / last,
				IOR:       1.5,
			}

			center := core.NewVec3(float64(i)*spacing, radius, float64(j)*spacing)
			s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, mat))
		}
	}

	return s
}
