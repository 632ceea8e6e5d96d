// Package bvh provides a generic, append-only bounding volume hierarchy,
// generalized from the teacher's TLASBuilder (voxelrt/rt/bvh/builder.go) —
// a fixed AABB-only GPU TLAS builder — into a reusable BVH[T] usable for
// entity culling, chunk occlusion, and any other spatial-query need.
package bvh

import "github.com/go-gl/mathgl/mgl32"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max mgl32.Vec3
}

func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min32(a.Min.X(), b.Min.X()), min32(a.Min.Y(), b.Min.Y()), min32(a.Min.Z(), b.Min.Z())},
		Max: mgl32.Vec3{max32(a.Max.X(), b.Max.X()), max32(a.Max.Y(), b.Max.Y()), max32(a.Max.Z(), b.Max.Z())},
	}
}

func (a AABB) Centroid() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Classification is the result of testing an AABB against a frustum.
type Classification int

const (
	Outside Classification = iota
	Inside
	Intersect
)

// item is an entry pending insertion or already indexed in the tree.
type item[T any] struct {
	bounds AABB
	data   T
}

type node[T any] struct {
	bounds      AABB
	left, right int // -1 if leaf
	itemIndex   int // valid only for leaves
}

// BVH is an append-only bounding volume hierarchy over arbitrary payloads.
// Mutations (insert/remove) only mark the tree dirty; query/build do the
// actual (re)partitioning. Not safe for concurrent use — callers serialize
// access the way every other subsystem in this repo does (spec.md §5:
// nothing in the core spawns threads).
type BVH[T any] struct {
	items []item[T]
	nodes []node[T]
	dirty bool
}

func New[T any]() *BVH[T] {
	return &BVH[T]{dirty: true}
}

// Insert appends an item and marks the tree dirty; the next query/build call
// performs the rebuild.
func (b *BVH[T]) Insert(bounds AABB, data T) {
	b.items = append(b.items, item[T]{bounds: bounds, data: data})
	b.dirty = true
}

// Remove deletes the first item whose data compares equal under eq, linear
// in item count (spec.md §4.15).
func (b *BVH[T]) Remove(data T, eq func(T, T) bool) bool {
	for i, it := range b.items {
		if eq(it.data, data) {
			b.items = append(b.items[:i], b.items[i+1:]...)
			b.dirty = true
			return true
		}
	}
	return false
}

func (b *BVH[T]) Len() int { return len(b.items) }

// Build clears the node list and recursively partitions items by
// longest-axis centroid median, one item per leaf.
func (b *BVH[T]) Build() {
	b.nodes = b.nodes[:0]
	if len(b.items) == 0 {
		b.dirty = false
		return
	}
	indices := make([]int, len(b.items))
	for i := range indices {
		indices[i] = i
	}
	b.buildRange(indices)
	b.dirty = false
}

func (b *BVH[T]) buildRange(indices []int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node[T]{left: -1, right: -1, itemIndex: -1})

	bounds := b.items[indices[0]].bounds
	for _, i := range indices[1:] {
		bounds = bounds.Union(b.items[i].bounds)
	}
	b.nodes[idx].bounds = bounds

	if len(indices) == 1 {
		b.nodes[idx].itemIndex = indices[0]
		return idx
	}

	extent := bounds.Max.Sub(bounds.Min)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if extent.Z() > extent[axis] {
		axis = 2
	}

	sorted := append([]int(nil), indices...)
	sortByCentroid(sorted, b.items, axis)

	mid := len(sorted) / 2
	left := b.buildRange(sorted[:mid])
	right := b.buildRange(sorted[mid:])
	b.nodes[idx].left = left
	b.nodes[idx].right = right
	return idx
}

func sortByCentroid[T any](indices []int, items []item[T], axis int) {
	// insertion sort: leaf counts in typical scenes are small, and this
	// avoids a closure-allocating sort.Slice per recursion level.
	for i := 1; i < len(indices); i++ {
		v := indices[i]
		vc := items[v].bounds.Centroid()[axis]
		j := i - 1
		for j >= 0 && items[indices[j]].bounds.Centroid()[axis] > vc {
			indices[j+1] = indices[j]
			j--
		}
		indices[j+1] = v
	}
}

// Query auto-builds if dirty, then returns every item whose AABB intersects
// region.
func (b *BVH[T]) Query(region AABB) []T {
	if b.dirty {
		b.Build()
	}
	if len(b.nodes) == 0 {
		return nil
	}
	var out []T
	b.queryNode(0, region, &out)
	return out
}

func (b *BVH[T]) queryNode(idx int, region AABB, out *[]T) {
	n := &b.nodes[idx]
	if !n.bounds.Intersects(region) {
		return
	}
	if n.itemIndex >= 0 {
		*out = append(*out, b.items[n.itemIndex].data)
		return
	}
	b.queryNode(n.left, region, out)
	b.queryNode(n.right, region, out)
}

// Frustum is six inward-facing planes (a, b, c, d) in ax+by+cz+d>=0 form,
// extracted by Gribb-Hartmann sum/difference of a view-projection matrix's
// rows (scene.FrustumCuller in this repo).
type Frustum struct {
	Planes [6]mgl32.Vec4
}

func testAABB(p mgl32.Vec4, box AABB) float32 {
	px := box.Min.X()
	if p.X() >= 0 {
		px = box.Max.X()
	}
	py := box.Min.Y()
	if p.Y() >= 0 {
		py = box.Max.Y()
	}
	pz := box.Min.Z()
	if p.Z() >= 0 {
		pz = box.Max.Z()
	}
	return p.X()*px + p.Y()*py + p.Z()*pz + p.W()
}

func testAABBNegative(p mgl32.Vec4, box AABB) float32 {
	nx := box.Max.X()
	if p.X() >= 0 {
		nx = box.Min.X()
	}
	ny := box.Max.Y()
	if p.Y() >= 0 {
		ny = box.Min.Y()
	}
	nz := box.Max.Z()
	if p.Z() >= 0 {
		nz = box.Min.Z()
	}
	return p.X()*nx + p.Y()*ny + p.Z()*nz + p.W()
}

// ClassifyAABB tests box against the frustum, returning Inside, Outside, or
// Intersect (spec.md §4.7).
func ClassifyAABB(f Frustum, box AABB) Classification {
	intersecting := false
	for _, p := range f.Planes {
		if testAABB(p, box) < 0 {
			return Outside
		}
		if testAABBNegative(p, box) < 0 {
			intersecting = true
		}
	}
	if intersecting {
		return Intersect
	}
	return Inside
}

// QueryFrustum auto-builds if dirty and returns everything not classified
// Outside (spec.md §4.15).
func (b *BVH[T]) QueryFrustum(f Frustum) []T {
	if b.dirty {
		b.Build()
	}
	if len(b.nodes) == 0 {
		return nil
	}
	var out []T
	b.queryFrustumNode(0, f, &out)
	return out
}

func (b *BVH[T]) queryFrustumNode(idx int, f Frustum, out *[]T) {
	n := &b.nodes[idx]
	if ClassifyAABB(f, n.bounds) == Outside {
		return
	}
	if n.itemIndex >= 0 {
		*out = append(*out, b.items[n.itemIndex].data)
		return
	}
	b.queryFrustumNode(n.left, f, out)
	b.queryFrustumNode(n.right, f, out)
}
