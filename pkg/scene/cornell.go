package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// cornellBoxSize is the edge length of the standard Cornell box
const cornellBoxSize = 555.0

// NewCornellScene creates a Cornell box with inward-facing quad walls, an
// emissive ceiling panel, and a point light just below it
func NewCornellScene() *Scene {
	L := cornellBoxSize

	s := &Scene{
		Name: "cornell",
		Camera: renderer.NewCamera(
			core.NewVec3(278, 278, -800), // Outside the open front of the box
			core.NewVec3(278, 278, 0),
			core.NewVec3(0, 1, 0),
			40,
		),
		PointLight:  lights.NewPointLight(core.NewVec3(278, 540, 278), core.NewVec3(1, 0.9, 0.8), 2.5e5),
		Environment: lights.NewUniformEnvironment(core.Vec3{}),
	}
	s.Camera.Far = 5000

	white := material.NewDiffuseMaterial(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuseMaterial(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuseMaterial(core.NewVec3(0.12, 0.45, 0.15))
	panel := material.NewEmissiveMaterial(core.NewVec3(4, 4, 4))

	s.Shapes = append(s.Shapes,
		// Floor, +Y
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, L), core.NewVec3(L, 0, 0), white),
		// Ceiling, -Y
		geometry.NewQuad(core.NewVec3(0, L, 0), core.NewVec3(L, 0, 0), core.NewVec3(0, 0, L), white),
		// Back wall, -Z
		geometry.NewQuad(core.NewVec3(0, 0, L), core.NewVec3(0, L, 0), core.NewVec3(L, 0, 0), white),
		// Left wall, +X
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, L, 0), core.NewVec3(0, 0, L), red),
		// Right wall, -X
		geometry.NewQuad(core.NewVec3(L, 0, 0), core.NewVec3(0, 0, L), core.NewVec3(0, L, 0), green),
	)

	lightSize := 130.0
	lightOffset := (L - lightSize) / 2.0
	s.Shapes = append(s.Shapes, geometry.NewQuad(
		core.NewVec3(lightOffset, L-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		panel,
	))

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5,
			material.NewMetalMaterial(core.NewVec3(0.8, 0.8, 0.9), 1000, 0.9)),
		geometry.NewSphere(core.NewVec3(370, 90, 351), 90, material.NewGlassMaterial(1.5)),
		geometry.NewBox(
			core.NewVec3(400, 82.5, 120),
			core.NewVec3(82.5, 82.5, 82.5),
			core.NewVec3(0, -0.3, 0),
			white,
		),
	)

	return s
}
