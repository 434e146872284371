package scene

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// NewConeScene creates pointed cones and frustums standing on an infinite
// plane
func NewConeScene() (*Scene, error) {
	s := &Scene{
		Name: "cone",
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
	green := material.NewPlasticMaterial(core.NewVec3(0.2, 0.8, 0.2), 60, 0.04)
	gold := material.NewMetalMaterial(core.NewVec3(0.8, 0.6, 0.2), 200, 0.8)

	cones := []struct {
		base, top             core.Vec3
		baseRadius, topRadius float64
		capped                bool
		mat                   *material.Material
	}{
		{core.NewVec3(0, 0, 0), core.NewVec3(0, 2, 0), 0.5, 0, true, red},
		// Tilted back so the base cap faces the camera
		{core.NewVec3(-2, 0.8, -0.8), core.NewVec3(-2, 0.2, 0.5), 0.5, 0.2, true, gold},
		// Open frustum lying on its side
		{core.NewVec3(1.4, 0.4, 0), core.NewVec3(2.6, 0.4, 0), 0.4, 0.15, false, green},
		{core.NewVec3(0.7, 0, 1.2), core.NewVec3(0.7, 0.7, 1.2), 0.25, 0, true, material.NewGlassMaterial(1.5)},
	}

	s.Shapes = append(s.Shapes, geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), gray))
	for _, c := range cones {
		cone, err := geometry.NewCone(c.base, c.baseRadius, c.top, c.topRadius, c.capped, c.mat)
		if err != nil {
			return nil, err
		}
		s.Shapes = append(s.Shapes, cone)
	}

	return s, nil
}
