package bvh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleItemBuildsOneLeaf(t *testing.T) {
	tree := New[int]()
	tree.Insert(AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, 1)

	tree.Build()
	require.Len(t, tree.nodes, 1)
	assert.Equal(t, -1, tree.nodes[0].left)
	assert.Equal(t, -1, tree.nodes[0].right)
}

func TestTwoFarApartItemsSplit(t *testing.T) {
	tree := New[string]()
	tree.Insert(AABB{Min: mgl32.Vec3{-100, -1, -1}, Max: mgl32.Vec3{-98, 1, 1}}, "left")
	tree.Insert(AABB{Min: mgl32.Vec3{100, -1, -1}, Max: mgl32.Vec3{102, 1, 1}}, "right")

	tree.Build()
	require.Len(t, tree.nodes, 3)

	root := tree.nodes[0]
	assert.InDelta(t, -100, root.bounds.Min.X(), 0.001)
	assert.InDelta(t, 102, root.bounds.Max.X(), 0.001)
	assert.NotEqual(t, -1, root.left)
	assert.NotEqual(t, -1, root.right)
}

func TestQueryReturnsIntersectingItems(t *testing.T) {
	tree := New[string]()
	tree.Insert(AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, "a")
	tree.Insert(AABB{Min: mgl32.Vec3{10, 10, 10}, Max: mgl32.Vec3{11, 11, 11}}, "b")

	hits := tree.Query(AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{2, 2, 2}})
	assert.ElementsMatch(t, []string{"a"}, hits)
}

func TestQueryAutoBuildsWhenDirty(t *testing.T) {
	tree := New[int]()
	tree.Insert(AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, 1)

	assert.True(t, tree.dirty)
	tree.Query(AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}})
	assert.False(t, tree.dirty)
}

func TestRemoveIsLinearAndMarksDirty(t *testing.T) {
	tree := New[int]()
	tree.Insert(AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}, 1)
	tree.Insert(AABB{Min: mgl32.Vec3{5, 5, 5}, Max: mgl32.Vec3{6, 6, 6}}, 2)
	tree.Build()

	removed := tree.Remove(1, func(a, b int) bool { return a == b })
	assert.True(t, removed)
	assert.True(t, tree.dirty)
	assert.Equal(t, 1, tree.Len())
}

func TestClassifyAABBInsideOutsideIntersect(t *testing.T) {
	// A frustum that is simply the unit cube [0,1]^3 expressed as six
	// inward-facing half-space planes (ax+by+cz+d>=0).
	f := Frustum{Planes: [6]mgl32.Vec4{
		{1, 0, 0, 0},  // x >= 0
		{-1, 0, 0, 1}, // x <= 1
		{0, 1, 0, 0},  // y >= 0
		{0, -1, 0, 1}, // y <= 1
		{0, 0, 1, 0},  // z >= 0
		{0, 0, -1, 1}, // z <= 1
	}}

	inside := AABB{Min: mgl32.Vec3{0.25, 0.25, 0.25}, Max: mgl32.Vec3{0.75, 0.75, 0.75}}
	assert.Equal(t, Inside, ClassifyAABB(f, inside))

	outside := AABB{Min: mgl32.Vec3{10, 10, 10}, Max: mgl32.Vec3{11, 11, 11}}
	assert.Equal(t, Outside, ClassifyAABB(f, outside))

	intersecting := AABB{Min: mgl32.Vec3{0.5, 0.5, 0.5}, Max: mgl32.Vec3{2, 2, 2}}
	assert.Equal(t, Intersect, ClassifyAABB(f, intersecting))
}

func TestQueryFrustumExcludesOutside(t *testing.T) {
	tree := New[string]()
	tree.Insert(AABB{Min: mgl32.Vec3{0.25, 0.25, 0.25}, Max: mgl32.Vec3{0.75, 0.75, 0.75}}, "in")
	tree.Insert(AABB{Min: mgl32.Vec3{10, 10, 10}, Max: mgl32.Vec3{11, 11, 11}}, "out")

	f := Frustum{Planes: [6]mgl32.Vec4{
		{1, 0, 0, 0}, {-1, 0, 0, 1},
		{0, 1, 0, 0}, {0, -1, 0, 1},
		{0, 0, 1, 0}, {0, 0, -1, 1},
	}}

	hits := tree.QueryFrustum(f)
	assert.ElementsMatch(t, []string{"in"}, hits)
}
