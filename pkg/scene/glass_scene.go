package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// NewGlassScene creates transparent spheres over a striped floor. It is
// meant for refraction mode, where Transparency selects the glass branch.
func NewGlassScene() *Scene {
	s := &Scene{
		Name: "glass",
		Camera: renderer.NewCamera(
			core.NewVec3(0, 1.2, 3.5),
			core.NewVec3(0, 0.5, 0),
			core.NewVec3(0, 1, 0),
			40,
		),
		PointLight:  lights.NewPointLight(core.NewVec3(-2, 5, 2), core.NewVec3(1, 1, 1), 30),
		Environment: lights.NewGradientEnvironment(core.NewVec3(0.6, 0.75, 1.0), core.NewVec3(0.9, 0.9, 0.9)),
	}

	light := material.NewDiffuseMaterial(core.NewVec3(0.8, 0.8, 0.8))
	dark := material.NewDiffuseMaterial(core.NewVec3(0.2, 0.2, 0.25))

	// Stripes make refraction visible through the spheres
	stripeWidth := 0.5
	for i := -10; i < 10; i++ {
		mat := light
		if i%2 != 0 {
			mat = dark
		}
		corner := core.NewVec3(float64(i)*stripeWidth, 0, -20)
		s.Shapes = append(s.Shapes, geometry.NewQuad(corner, core.NewVec3(0, 0, 40), core.NewVec3(stripeWidth, 0, 0), mat))
	}

	tinted := material.NewGlassMaterial(1.33)
	tinted.Color = core.NewVec3(0.7, 0.9, 0.8)
	tinted.Transparency = 0.6

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, 0.5, 0), 0.5, material.NewGlassMaterial(1.5)),
		geometry.NewSphere(core.NewVec3(-1.1, 0.35, -0.4), 0.35, tinted),
		geometry.NewSphere(core.NewVec3(1.1, 0.35, -0.4), 0.35, material.NewDiffuseMaterial(core.NewVec3(0.8, 0.3, 0.1))),
	)

	return s
}

// NewEmissiveQuadScene creates a single quad with unit emission filling the
// view under a black environment. Every pixel converges to (1, 1, 1).
func NewEmissiveQuadScene() *Scene {
	s := &Scene{
		Name: "emissive-quad",
		Camera: renderer.NewCamera(
			core.NewVec3(0, 0, 1),
			core.NewVec3(0, 0, 0),
			core.NewVec3(0, 1, 0),
			60,
		),
		Environment: lights.NewUniformEnvironment(core.Vec3{}),
	}

	// Facing +Z, toward the camera
	s.Shapes = append(s.Shapes, geometry.NewQuad(
		core.NewVec3(-10, -10, 0),
		core.NewVec3(20, 0, 0),
		core.NewVec3(0, 20, 0),
		material.NewEmissiveMaterial(core.NewVec3(1, 1, 1)),
	))

	return s
}
