package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
)

// Box is a rectangular box made up of 6 outward-facing quads
type Box struct {
	Center   core.Vec3 // Center point of the box
	Size     core.Vec3 // Half-extents along each axis
	Rotation core.Vec3 // Rotation in radians around X, Y, Z
	Material *material.Material
	faces    [6]*Quad
	bbox     AABB
}

// NewBox creates a box. Size holds half-extents, so (1,1,1) is a 2x2x2 box.
func NewBox(center, size, rotation core.Vec3, mat *material.Material) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
		Material: mat,
	}
	box.generateFaces()
	return box
}

// NewAxisAlignedBox creates a box without rotation
func NewAxisAlignedBox(center, size core.Vec3, mat *material.Material) *Box {
	return NewBox(center, size, core.Vec3{}, mat)
}

func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		corners[i] = rotateVertex(corners[i].MultiplyVec(b.Size), b.Rotation).Add(b.Center)
	}

	// Corner plus two edges, wound so U × V points out of the box
	faces := [6][3]int{
		{4, 5, 7}, // front (+Z)
		{1, 0, 2}, // back (-Z)
		{5, 1, 6}, // right (+X)
		{0, 4, 3}, // left (-X)
		{3, 7, 2}, // top (+Y)
		{4, 0, 5}, // bottom (-Y)
	}
	for i, f := range faces {
		b.faces[i] = NewQuad(
			corners[f[0]],
			corners[f[1]].Subtract(corners[f[0]]),
			corners[f[2]].Subtract(corners[f[0]]),
			b.Material,
		)
	}

	b.bbox = NewAABBFromPoints(corners[:]...)
}

// Hit returns the nearest face hit
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	var closest Intersection
	hitAnything := false
	closestT := tMax

	for _, face := range b.faces {
		if hit, ok := face.Hit(ray, tMin, closestT); ok {
			closest = hit
			closestT = hit.T
			hitAnything = true
		}
	}

	return closest, hitAnything
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() AABB {
	return b.bbox
}
