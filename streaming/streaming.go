// Package streaming implements radius-based chunk load/unload tracking,
// generalized from the teacher's region-based world streaming (the deleted
// world.go's goroutine-per-region loader) into the single-threaded,
// budget-bounded ChunkStreamingManager spec.md §4.3 calls for — nothing in
// the core spawns threads (spec.md §5).
package streaming

import (
	"sort"

	"github.com/fabricengine/fabric/voxel"
)

// Update is the result of one streaming tick: chunks to load sorted
// nearest-first, and chunks to unload sorted farthest-first.
type Update struct {
	ToLoad   []voxel.ChunkCoord
	ToUnload []voxel.ChunkCoord
}

// Manager tracks the set of currently-streamed-in chunks and computes
// load/unload deltas against a moving viewer.
type Manager struct {
	BaseRadius      int
	MaxRadius       int
	SpeedScale      float32
	MaxLoadsPerTick int
	MaxUnloadsPerTick int

	// RegionSize groups RegionSize^3 chunks into one coarse region (0 disables
	// grouping). RegionRadius sets how many regions RegionsNear() reports
	// around the viewer's region, regardless of the chunks actually tracked
	// (Regions() does not use it), so a consumer like pathfind.NavigationSystem can pre-warm or
	// retain nav data for regions about to be streamed in. Grounded on the
	// teacher's NavGrid region/sector split (nav.go).
	RegionSize   int
	RegionRadius int

	tracked map[voxel.ChunkCoord]struct{}
}

func NewManager(baseRadius, maxRadius int, speedScale float32, maxLoadsPerTick, maxUnloadsPerTick int) *Manager {
	return &Manager{
		BaseRadius:        baseRadius,
		MaxRadius:         maxRadius,
		SpeedScale:        speedScale,
		MaxLoadsPerTick:   maxLoadsPerTick,
		MaxUnloadsPerTick: maxUnloadsPerTick,
		tracked:           make(map[voxel.ChunkCoord]struct{}),
	}
}

func (m *Manager) Tracked() map[voxel.ChunkCoord]struct{} { return m.tracked }

// Regions groups every currently-tracked chunk by voxel.RegionOf(RegionSize),
// returning the distinct set of regions presently streamed in. A RegionSize
// of 0 reports a single region spanning the whole tracked set.
func (m *Manager) Regions() []voxel.RegionCoord {
	set := make(map[voxel.RegionCoord]struct{})
	for c := range m.tracked {
		set[voxel.RegionOf(c, m.RegionSize)] = struct{}{}
	}
	out := make([]voxel.RegionCoord, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	return out
}

// RegionsNear returns the regions within RegionRadius region-widths of the
// viewer's region, regardless of whether their chunks are presently tracked.
// Consumers use this to anticipate regions about to stream in.
func (m *Manager) RegionsNear(viewX, viewY, viewZ float32) []voxel.RegionCoord {
	viewChunk, _ := voxel.SplitCoord(int(viewX), int(viewY), int(viewZ))
	center := voxel.RegionOf(viewChunk, m.RegionSize)

	var out []voxel.RegionCoord
	for dz := -m.RegionRadius; dz <= m.RegionRadius; dz++ {
		for dy := -m.RegionRadius; dy <= m.RegionRadius; dy++ {
			for dx := -m.RegionRadius; dx <= m.RegionRadius; dx++ {
				out = append(out, voxel.RegionCoord{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz})
			}
		}
	}
	return out
}

// Update computes the effective radius r = min(baseRadius + speed*speedScale,
// maxRadius), forms the desired chunk set within the cube of that radius
// around the viewer's chunk, and returns the load/unload deltas against the
// tracked set, truncated to the per-tick budgets and applied to tracked
// before returning (spec.md §4.3).
func (m *Manager) Update(viewX, viewY, viewZ float32, speed float32) Update {
	radius := m.BaseRadius + int(speed*m.SpeedScale)
	if radius > m.MaxRadius {
		radius = m.MaxRadius
	}
	if radius < 0 {
		radius = 0
	}

	viewChunk, _ := voxel.SplitCoord(int(viewX), int(viewY), int(viewZ))

	desired := make(map[voxel.ChunkCoord]struct{})
	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				desired[voxel.ChunkCoord{X: viewChunk.X + dx, Y: viewChunk.Y + dy, Z: viewChunk.Z + dz}] = struct{}{}
			}
		}
	}

	var toLoad []voxel.ChunkCoord
	for c := range desired {
		if _, ok := m.tracked[c]; !ok {
			toLoad = append(toLoad, c)
		}
	}
	var toUnload []voxel.ChunkCoord
	for c := range m.tracked {
		if _, ok := desired[c]; !ok {
			toUnload = append(toUnload, c)
		}
	}

	sort.Slice(toLoad, func(i, j int) bool {
		return sqDist(toLoad[i], viewChunk) < sqDist(toLoad[j], viewChunk)
	})
	sort.Slice(toUnload, func(i, j int) bool {
		return sqDist(toUnload[i], viewChunk) > sqDist(toUnload[j], viewChunk)
	})

	if len(toLoad) > m.MaxLoadsPerTick {
		toLoad = toLoad[:m.MaxLoadsPerTick]
	}
	if len(toUnload) > m.MaxUnloadsPerTick {
		toUnload = toUnload[:m.MaxUnloadsPerTick]
	}

	for _, c := range toLoad {
		m.tracked[c] = struct{}{}
	}
	for _, c := range toUnload {
		delete(m.tracked, c)
	}

	return Update{ToLoad: toLoad, ToUnload: toUnload}
}

func sqDist(a, b voxel.ChunkCoord) int {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
