package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// TriangleMesh is a collection of triangles behind its own BVH
type TriangleMesh struct {
	triangles []Shape
	bvh       *BVH
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals  []core.Vec3 // Per-vertex normals; overrides Smooth
	Smooth   bool        // Derive per-vertex normals by averaging face normals
	Rotation *core.Vec3  // Rotation in radians around X, Y, Z (applied in that order)
	Center   *core.Vec3  // Pivot for Rotation
}

// NewTriangleMesh creates a mesh from vertices and face indices, where each
// group of three indices forms one triangle. options may be nil.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat *material.Material, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}
	for _, index := range faces {
		if index < 0 || index >= len(vertices) {
			return nil, fmt.Errorf("face index %d out of range for %d vertices", index, len(vertices))
		}
	}
	if options == nil {
		options = &TriangleMeshOptions{}
	}
	if options.Normals != nil && len(options.Normals) != len(vertices) {
		return nil, fmt.Errorf("got %d normals for %d vertices", len(options.Normals), len(vertices))
	}

	positions := vertices
	if options.Rotation != nil {
		pivot := core.Vec3{}
		if options.Center != nil {
			pivot = *options.Center
		}
		positions = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			positions[i] = rotateVertex(vertex.Subtract(pivot), *options.Rotation).Add(pivot)
		}
	}

	normals := options.Normals
	if normals != nil && options.Rotation != nil {
		rotated := make([]core.Vec3, len(normals))
		for i, n := range normals {
			rotated[i] = rotateVertex(n, *options.Rotation)
		}
		normals = rotated
	}
	if normals == nil && options.Smooth {
		normals = vertexNormals(positions, faces)
	}

	triangles := make([]Shape, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		if normals != nil {
			triangles = append(triangles, NewSmoothTriangle(
				positions[i0], positions[i1], positions[i2],
				normals[i0], normals[i1], normals[i2], mat))
		} else {
			triangles = append(triangles, NewTriangle(positions[i0], positions[i1], positions[i2], mat))
		}
	}

	return &TriangleMesh{
		triangles: triangles,
		bvh:       NewBVH(triangles),
	}, nil
}

// Hit returns the nearest triangle hit
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	return tm.bvh.Hit(ray, tMin, tMax)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() AABB {
	return tm.bvh.BoundingBox()
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// vertexNormals averages the area-weighted face normals around each vertex
func vertexNormals(positions []core.Vec3, faces []int) []core.Vec3 {
	normals := make([]core.Vec3, len(positions))
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		// Unnormalized cross product is weighted by twice the area
		faceNormal := positions[i1].Subtract(positions[i0]).Cross(positions[i2].Subtract(positions[i0]))
		normals[i0] = normals[i0].Add(faceNormal)
		normals[i1] = normals[i1].Add(faceNormal)
		normals[i2] = normals[i2].Add(faceNormal)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = core.NewVec3(vertex.X, vertex.Y*cos-vertex.Z*sin, vertex.Y*sin+vertex.Z*cos)
	}
	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = core.NewVec3(vertex.X*cos+vertex.Z*sin, vertex.Y, -vertex.X*sin+vertex.Z*cos)
	}
	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = core.NewVec3(vertex.X*cos-vertex.Y*sin, vertex.X*sin+vertex.Y*cos, vertex.Z)
	}
	return vertex
}
