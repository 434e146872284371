package geometry

import (
	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// leafThreshold is the largest shape count stored in a single leaf
const leafThreshold = 8

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Non-nil only for leaves
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root   *BVHNode
	Center core.Vec3 // Center of the root bounds
	Radius float64   // Radius of the sphere around Center that encloses the scene
}

// NewBVH constructs a BVH from a slice of shapes. The input slice is copied
// and not modified.
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	root := buildBVH(shapesCopy)
	center := root.BoundingBox.Center()
	return &BVH{
		Root:   root,
		Center: center,
		Radius: root.BoundingBox.Max.Subtract(center).Length(),
	}
}

// buildBVH recursively splits at the midpoint of the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		boundingBox = boundingBox.Union(shape.BoundingBox())
	}

	leaf := &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	if len(shapes) <= leafThreshold {
		return leaf
	}

	axis := boundingBox.LongestAxis()
	minVal := axisValue(boundingBox.Min, axis)
	maxVal := axisValue(boundingBox.Max, axis)
	if maxVal <= minVal {
		return leaf
	}

	leftShapes, rightShapes := partitionShapes(shapes, axis, (minVal+maxVal)*0.5)
	if len(leftShapes) == 0 || len(rightShapes) == 0 {
		return leaf
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(leftShapes),
		Right:       buildBVH(rightShapes),
	}
}

// partitionShapes splits shapes by the position of their bounds center
func partitionShapes(shapes []Shape, axis int, splitPos float64) ([]Shape, []Shape) {
	var leftShapes, rightShapes []Shape
	for _, shape := range shapes {
		if axisValue(shape.BoundingBox().Center(), axis) < splitPos {
			leftShapes = append(leftShapes, shape)
		} else {
			rightShapes = append(rightShapes, shape)
		}
	}
	return leftShapes, rightShapes
}

// Hit returns the nearest intersection in [tMin, tMax]
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	if bvh.Root == nil {
		return Intersection{}, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return Intersection{}, false
	}

	var closest Intersection
	hitAnything := false
	closestSoFar := tMax

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				closest = hit
				closestSoFar = hit.T
				hitAnything = true
			}
		}
		return closest, hitAnything
	}

	for _, child := range [2]*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, ok := bvh.hitNode(child, ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
			hitAnything = true
		}
	}
	return closest, hitAnything
}

// Occluded reports whether anything is hit in [tMin, tMax]. It stops at the
// first hit found instead of searching for the nearest.
func (bvh *BVH) Occluded(ray core.Ray, tMin, tMax float64) bool {
	if bvh.Root == nil {
		return false
	}
	return bvh.anyHit(bvh.Root, ray, tMin, tMax)
}

func (bvh *BVH) anyHit(node *BVHNode, ray core.Ray, tMin, tMax float64) bool {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return false
	}

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if _, ok := shape.Hit(ray, tMin, tMax); ok {
				return true
			}
		}
		return false
	}

	return (node.Left != nil && bvh.anyHit(node.Left, ray, tMin, tMax)) ||
		(node.Right != nil && bvh.anyHit(node.Right, ray, tMin, tMax))
}

// BoundingBox returns the bounds of everything in the BVH
func (bvh *BVH) BoundingBox() AABB {
	if bvh.Root == nil {
		return AABB{}
	}
	return bvh.Root.BoundingBox
}

// Stats summarizes the tree structure
type Stats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	TotalShapes int
}

// Stats walks the tree and returns its structure summary
func (bvh *BVH) Stats() Stats {
	var stats Stats
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *Stats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.Shapes != nil {
		stats.LeafNodes++
		stats.TotalShapes += len(node.Shapes)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, stats)
	}
}
