package pathfind

import (
	"github.com/fabricengine/fabric/voxel"
)

// NavigationSystem caches FindPath results keyed by (start, goal) and
// invalidates them by region instead of by individual cell, generalized from
// the teacher's NavigationSystem (nav.go), which tracked PendingDirtySectors
// and DirtyRegions per NavGrid instead of recomputing every changed cell's
// path in full.
type NavigationSystem struct {
	RegionSize int

	cache  map[pathKey]cachedPath
	dirty  map[voxel.RegionCoord]struct{}
}

type pathKey struct {
	start, goal Cell
}

type cachedPath struct {
	result  Result
	regions []voxel.RegionCoord
}

func NewNavigationSystem(regionSize int) *NavigationSystem {
	return &NavigationSystem{
		RegionSize: regionSize,
		cache:      make(map[pathKey]cachedPath),
		dirty:      make(map[voxel.RegionCoord]struct{}),
	}
}

// regionOf maps a cell to its containing region under RegionSize.
func (ns *NavigationSystem) regionOf(c Cell) voxel.RegionCoord {
	return voxel.RegionOf(voxel.ChunkCoord{X: c.X, Y: c.Y, Z: c.Z}, ns.RegionSize)
}

// MarkDirtyArea flags every region touched by the inclusive cell-space AABB
// [min, max] as dirty, forcing FindPathCached to recompute any cached path
// that passed through one of them. Grounded on the teacher's
// NavigationSystem.MarkDirtyArea, which converted an edited world AABB into
// affected region/sector keys; here the AABB is already in cell space since
// pathfind has no separate world-unit scale.
func (ns *NavigationSystem) MarkDirtyArea(min, max Cell) {
	minR := ns.regionOf(min)
	maxR := ns.regionOf(max)
	if minR.X > maxR.X {
		minR.X, maxR.X = maxR.X, minR.X
	}
	if minR.Y > maxR.Y {
		minR.Y, maxR.Y = maxR.Y, minR.Y
	}
	if minR.Z > maxR.Z {
		minR.Z, maxR.Z = maxR.Z, minR.Z
	}
	for z := minR.Z; z <= maxR.Z; z++ {
		for y := minR.Y; y <= maxR.Y; y++ {
			for x := minR.X; x <= maxR.X; x++ {
				ns.dirty[voxel.RegionCoord{X: x, Y: y, Z: z}] = struct{}{}
			}
		}
	}
}

// FindPathCached returns the cached result for (start, goal) unless no entry
// exists yet or MarkDirtyArea has flagged a region the cached path passes
// through, in which case it recomputes via FindPath, caches the fresh result
// against the regions its waypoints span, and clears their dirty flags.
func (ns *NavigationSystem) FindPathCached(grid voxel.DensityField, start, goal Cell, threshold float32, maxNodes int) Result {
	key := pathKey{start, goal}
	if cached, ok := ns.cache[key]; ok && !ns.anyDirty(cached.regions) {
		return cached.result
	}

	result := FindPath(grid, start, goal, threshold, maxNodes)
	regions := ns.regionsOfPath(result, start, goal)
	ns.cache[key] = cachedPath{result: result, regions: regions}
	for _, r := range regions {
		delete(ns.dirty, r)
	}
	return result
}

func (ns *NavigationSystem) anyDirty(regions []voxel.RegionCoord) bool {
	for _, r := range regions {
		if _, ok := ns.dirty[r]; ok {
			return true
		}
	}
	return false
}

func (ns *NavigationSystem) regionsOfPath(result Result, start, goal Cell) []voxel.RegionCoord {
	set := make(map[voxel.RegionCoord]struct{})
	set[ns.regionOf(start)] = struct{}{}
	set[ns.regionOf(goal)] = struct{}{}
	for _, c := range result.Waypoints {
		set[ns.regionOf(c)] = struct{}{}
	}
	out := make([]voxel.RegionCoord, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	return out
}

// DirtyRegionCount reports how many regions are currently flagged dirty,
// mainly for tests and diagnostics.
func (ns *NavigationSystem) DirtyRegionCount() int { return len(ns.dirty) }
