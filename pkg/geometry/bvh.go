package geometry

import (
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes for leaf nodes (nil for internal nodes)
}

// BVH is a Bounding Volume Hierarchy over bounded shapes. It answers Hit
// exactly like a HitableList over the same shapes, only faster for large scenes.
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	// Partitioning reorders the slice; never touch the caller's
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH recursively splits shapes at the midpoint of the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	bounds := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		bounds = bounds.Union(shape.BoundingBox())
	}

	leaf := &BVHNode{BoundingBox: bounds, Shapes: shapes}
	if len(shapes) <= leafThreshold {
		return leaf
	}

	axis := bounds.LongestAxis()
	lo, hi := core.AxisValue(bounds.Min, axis), core.AxisValue(bounds.Max, axis)
	if hi <= lo {
		return leaf
	}
	split := (lo + hi) * 0.5

	var left, right []Shape
	for _, shape := range shapes {
		if core.AxisValue(shape.BoundingBox().Center(), axis) < split {
			left = append(left, shape)
		} else {
			right = append(right, shape)
		}
	}

	// Ensure we don't create empty partitions
	if len(left) == 0 || len(right) == 0 {
		return leaf
	}

	return &BVHNode{
		BoundingBox: bounds,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

// Hit tests if a ray intersects any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray, limits core.Range) (material.HitRecord, bool) {
	if bvh.Root == nil {
		return material.HitRecord{}, false
	}
	return hitNode(bvh.Root, ray, limits)
}

// hitNode recursively tests ray intersection with BVH nodes
func hitNode(node *BVHNode, ray core.Ray, limits core.Range) (material.HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, limits) {
		return material.HitRecord{}, false
	}

	var closest material.HitRecord
	hitAnything := false

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, limits); ok {
				hitAnything = true
				closest = hit
				limits = limits.WithMax(hit.T)
			}
		}
		return closest, hitAnything
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, ok := hitNode(child, ray, limits); ok {
			hitAnything = true
			closest = hit
			limits = limits.WithMax(hit.T)
		}
	}

	return closest, hitAnything
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}
