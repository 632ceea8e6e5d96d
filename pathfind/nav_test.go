package pathfind

import (
	"testing"

	"github.com/fabricengine/fabric/voxel"
	"github.com/stretchr/testify/assert"
)

func straightCorridor() voxel.DensityField {
	grid := voxel.NewDensityField()
	for x := 0; x <= 10; x++ {
		grid.Set(x, 0, 0, 0)
	}
	return grid
}

func TestFindPathCachedReturnsSameResultWithoutRecomputing(t *testing.T) {
	grid := straightCorridor()
	ns := NewNavigationSystem(4)

	first := ns.FindPathCached(grid, Cell{0, 0, 0}, Cell{10, 0, 0}, 0.5, 1000)
	assert.True(t, first.Found)

	second := ns.FindPathCached(grid, Cell{0, 0, 0}, Cell{10, 0, 0}, 0.5, 1000)
	assert.Equal(t, first.Waypoints, second.Waypoints)
}

func TestMarkDirtyAreaForcesRecomputeOfPathThroughRegion(t *testing.T) {
	grid := straightCorridor()
	ns := NewNavigationSystem(4)

	first := ns.FindPathCached(grid, Cell{0, 0, 0}, Cell{10, 0, 0}, 0.5, 1000)
	assert.True(t, first.Found)
	assert.Equal(t, 0, ns.DirtyRegionCount())

	// Block a cell in the middle of the corridor, then mark the region it
	// falls in dirty, the way a voxel edit would.
	grid.Set(5, 0, 0, 1.0)
	ns.MarkDirtyArea(Cell{5, 0, 0}, Cell{5, 0, 0})
	assert.Greater(t, ns.DirtyRegionCount(), 0)

	// The recomputed path detours around the now-solid cell through the
	// open space beside the corridor instead of returning the cached one.
	second := ns.FindPathCached(grid, Cell{0, 0, 0}, Cell{10, 0, 0}, 0.5, 1000)
	assert.True(t, second.Found)
	assert.NotContains(t, second.Waypoints, Cell{5, 0, 0})
}

func TestMarkDirtyAreaOutsidePathRegionLeavesCacheIntact(t *testing.T) {
	grid := straightCorridor()
	ns := NewNavigationSystem(4)

	first := ns.FindPathCached(grid, Cell{0, 0, 0}, Cell{10, 0, 0}, 0.5, 1000)
	assert.True(t, first.Found)

	// Far away from the corridor's regions (region size 4, corridor spans
	// regions 0..2 on X at Y=Z=0): this AABB sits in an unrelated region.
	ns.MarkDirtyArea(Cell{0, 100, 100}, Cell{0, 100, 100})

	second := ns.FindPathCached(grid, Cell{0, 0, 0}, Cell{10, 0, 0}, 0.5, 1000)
	assert.Equal(t, first.Waypoints, second.Waypoints)
}
