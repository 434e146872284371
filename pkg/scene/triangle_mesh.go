package scene

import (
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/lights"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
)

// NewTriangleMeshScene creates a rotated box, a flat-shaded pyramid and a
// smooth-shaded icosahedron on a ground quad
func NewTriangleMeshScene() (*Scene, error) {
	s := &Scene{
		Name: "triangle-mesh",
		Camera: renderer.NewCamera(
			core.NewVec3(0, 3, 6),
			core.NewVec3(0, 0.8, 0),
			core.NewVec3(0, 1, 0),
			45,
		),
		PointLight:  lights.NewPointLight(core.NewVec3(2, 6, 3), core.NewVec3(1.0, 0.92, 0.85), 40),
		Environment: lights.NewGradientEnvironment(core.NewVec3(0.4, 0.5, 0.7), core.NewVec3(0.8, 0.8, 0.8)),
	}

	s.Shapes = append(s.Shapes, NewGroundQuad(
		core.NewVec3(0, 0, 0), 100,
		material.NewDiffuseMaterial(core.NewVec3(0.7, 0.7, 0.7)),
	))

	redMetal := material.NewMetalMaterial(core.NewVec3(0.8, 0.2, 0.2), 200, 0.8)
	bluePlastic := material.NewPlasticMaterial(core.NewVec3(0.2, 0.3, 0.8), 40, 0.04)
	gold := material.NewMetalMaterial(core.NewVec3(0.8, 0.6, 0.2), 400, 0.7)

	s.Shapes = append(s.Shapes, geometry.NewBox(
		core.NewVec3(-2, 0.5, 0),
		core.NewVec3(0.5, 0.5, 0.5),
		core.NewVec3(0, math.Pi/6, 0),
		redMetal,
	))

	pyramid, err := NewPyramidMesh(core.NewVec3(0, 1, 0), 1.5, 2.0, math.Pi/4, bluePlastic)
	if err != nil {
		return nil, err
	}
	icosahedron, err := NewIcosahedronMesh(core.NewVec3(2, 0.8, 0), 0.8, gold)
	if err != nil {
		return nil, err
	}
	s.Shapes = append(s.Shapes, pyramid, icosahedron)

	return s, nil
}

// NewPyramidMesh creates a square-based pyramid centered at center, rotated
// by yaw radians around the vertical axis
func NewPyramidMesh(center core.Vec3, baseSize, height, yaw float64, mat *material.Material) (*geometry.TriangleMesh, error) {
	h := baseSize * 0.5
	y0 := center.Y - height*0.5
	vertices := []core.Vec3{
		core.NewVec3(center.X-h, y0, center.Z-h),
		core.NewVec3(center.X+h, y0, center.Z-h),
		core.NewVec3(center.X+h, y0, center.Z+h),
		core.NewVec3(center.X-h, y0, center.Z+h),
		core.NewVec3(center.X, y0+height, center.Z), // Apex
	}
	// Counter-clockwise seen from outside
	faces := []int{
		0, 1, 2, 0, 2, 3, // Base, facing down
		0, 4, 1,
		1, 4, 2,
		2, 4, 3,
		3, 4, 0,
	}

	rotation := core.NewVec3(0, yaw, 0)
	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
}

// NewIcosahedronMesh creates an icosahedron with averaged vertex normals, so
// its shading normals differ from the flat face normals
func NewIcosahedronMesh(center core.Vec3, radius float64, mat *material.Material) (*geometry.TriangleMesh, error) {
	phi := (1 + math.Sqrt(5)) / 2
	raw := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0), core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi), core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1), core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}

	vertices := make([]core.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = center.Add(v.Normalize().Multiply(radius))
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{Smooth: true})
}
