package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// NewCylinderScene creates capped and open cylinders in several
// orientations, with an emissive disc overhead
func NewCylinderScene() *Scene {
	s := &Scene{
		Name: "cylinder",
		Camera: renderer.NewCamera(
			core.NewVec3(0, 1.5, 4),
			core.NewVec3(0, 1, 0),
			core.NewVec3(0, 1, 0),
			50,
		),
		PointLight:  lights.NewPointLight(core.NewVec3(3, 5, 3), core.NewVec3(1, 1, 1), 40),
		Environment: lights.NewGradientEnvironment(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0)),
	}

	gray := material.NewDiffuseMaterial(core.NewVec3(0.5, 0.5, 0.5))
	red := material.NewDiffuseMaterial(core.NewVec3(0.8, 0.2, 0.2))
	blue := material.NewDiffuseMaterial(core.NewVec3(0.2, 0.2, 0.8))
	gold := material.NewMetalMaterial(core.NewVec3(0.8, 0.6, 0.2), 200, 0.8)
	lamp := material.NewEmissiveMaterial(core.NewVec3(4, 4, 4))

	s.Shapes = append(s.Shapes,
		NewGroundQuad(core.NewVec3(0, 0, 0), 100, gray),
		// Open gold tube angled toward the camera so its inside shows
		geometry.NewCylinder(core.NewVec3(-0.3, 1.0, -1.5), core.NewVec3(0, 1.2, 2.0), 0.35, false, gold),
		geometry.NewCylinder(core.NewVec3(1.8, 0, 0), core.NewVec3(1.8, 2, 0), 0.5, true, red),
		geometry.NewCylinder(core.NewVec3(-2.5, 0.3, 0), core.NewVec3(-1.5, 0.3, 0), 0.3, true, blue),
		geometry.NewCylinder(core.NewVec3(0.5, 0, 1), core.NewVec3(0.5, 0.6, 1), 0.2, true, material.NewGlassMaterial(1.5)),
		geometry.NewDisc(core.NewVec3(0, 3.5, 0), core.NewVec3(0, -1, 0), 0.75, lamp),
	)

	return s
}
