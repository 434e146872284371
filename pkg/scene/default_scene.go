package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// NewDefaultScene creates metal, plastic and glass spheres on a ground quad
// under a sky gradient, lit by a point light
func NewDefaultScene() *Scene {
	s := &Scene{
		Name: "default",
		Camera: renderer.NewCamera(
			core.NewVec3(0, 0.75, 2.5),
			core.NewVec3(0, 0.5, -1),
			core.NewVec3(0, 1, 0),
			40,
		),
		PointLight:  lights.NewPointLight(core.NewVec3(2, 4, 2), core.NewVec3(1.0, 0.95, 0.9), 20),
		Environment: lights.NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0)),
	}

	ground := material.NewDiffuseMaterial(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	plasticRed := material.NewPlasticMaterial(core.NewVec3(0.65, 0.25, 0.2), 60, 0.04)
	silver := material.NewMetalMaterial(core.NewVec3(0.8, 0.8, 0.8), 800, 0.9)
	gold := material.NewMetalMaterial(core.NewVec3(0.8, 0.6, 0.2), 80, 0.7)
	blue := material.NewDiffuseMaterial(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewGlassMaterial(1.5)

	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.NewVec3(0, 0, 0), 100, ground),
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, plasticRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, silver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, gold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.3), 0.25, glass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.2, -0.3), 0.2, blue),
	)

	return s
}
