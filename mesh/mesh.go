// Package mesh rebuilds dirty voxel chunks into renderable geometry,
// generalized from the teacher's atlas-bound TLAS/brick pipeline into the
// dirty-set + per-tick-budget ChunkMeshManager of spec.md §4.4, decoupled
// from any GPU buffer type.
package mesh

import (
	"sort"

	"github.com/fabricengine/fabric/primitives"
	"github.com/fabricengine/fabric/voxel"
)

// Vertex carries position, normal, and the palette index the fragment
// stage resolves to a color.
type Vertex struct {
	Position     [3]float32
	Normal       [3]float32
	PaletteIndex uint16
}

// ChunkMeshData is one chunk's built geometry plus its local palette.
type ChunkMeshData struct {
	Vertices []Vertex
	Indices  []uint32
	Palette  []voxelColor
}

type voxelColor = [4]float32

// VoxelChangedEvent and VoxelChangedData are re-exported from voxel so this
// package and raycast.VoxelInteraction agree on the event payload's
// dynamic type.
const VoxelChangedEvent = voxel.VoxelChangedEvent

type VoxelChangedData = voxel.VoxelChangedData

// Manager holds the dirty set, the last-built mesh per chunk, and optional
// pool-slot handles keyed by the same coordinate.
type Manager struct {
	Density voxel.DensityField
	Essence voxel.EssenceField
	Palette *voxel.EssencePalette
	Threshold float32

	dirty     map[voxel.ChunkCoord]struct{}
	meshes    map[voxel.ChunkCoord]ChunkMeshData
	poolSlots map[voxel.ChunkCoord]*primitives.BufferSlot
	pool      *primitives.BufferPool

	listenerID uint64
	dispatcher *primitives.EventDispatcher
}

func NewManager(density voxel.DensityField, essence voxel.EssenceField, threshold float32) *Manager {
	return &Manager{
		Density:   density,
		Essence:   essence,
		Palette:   voxel.NewEssencePalette(),
		Threshold: threshold,
		dirty:     make(map[voxel.ChunkCoord]struct{}),
		meshes:    make(map[voxel.ChunkCoord]ChunkMeshData),
		poolSlots: make(map[voxel.ChunkCoord]*primitives.BufferSlot),
	}
}

// UsePool attaches a BufferPool whose slots are allocated/freed as chunks
// are meshed/removed.
func (m *Manager) UsePool(pool *primitives.BufferPool) { m.pool = pool }

// Subscribe registers this manager's markDirty as a "voxel_changed"
// listener on dispatcher.
func (m *Manager) Subscribe(dispatcher *primitives.EventDispatcher) {
	m.dispatcher = dispatcher
	m.listenerID = dispatcher.AddListener(VoxelChangedEvent, func(e *primitives.Event) {
		data, ok := e.Data.(VoxelChangedData)
		if !ok {
			return
		}
		m.MarkDirty(voxel.ChunkCoord{X: data.CX, Y: data.CY, Z: data.CZ})
	}, 0)
}

// MarkDirty adds coord to the dirty set; idempotent.
func (m *Manager) MarkDirty(coord voxel.ChunkCoord) {
	m.dirty[coord] = struct{}{}
}

// EmitVoxelChanged is a convenience that fires "voxel_changed" for coord.
func (m *Manager) EmitVoxelChanged(dispatcher *primitives.EventDispatcher, coord voxel.ChunkCoord) {
	dispatcher.Dispatch(&primitives.Event{
		Type: VoxelChangedEvent,
		Data: VoxelChangedData{CX: coord.X, CY: coord.Y, CZ: coord.Z},
	})
}

// Mesh returns the last-built mesh for coord, if any.
func (m *Manager) Mesh(coord voxel.ChunkCoord) (ChunkMeshData, bool) {
	mesh, ok := m.meshes[coord]
	return mesh, ok
}

// RemoveChunk erases coord from the dirty set, mesh map, and pool-slot map.
func (m *Manager) RemoveChunk(coord voxel.ChunkCoord) {
	delete(m.dirty, coord)
	delete(m.meshes, coord)
	if slot, ok := m.poolSlots[coord]; ok {
		slot.Release()
		delete(m.poolSlots, coord)
	}
}

// Update processes up to maxRemeshPerTick dirty chunks: for each, rebuilds
// its mesh with the greedy mesher over a one-voxel apron into neighbor
// chunks, replaces the stored mesh, frees/reallocates its pool slot if a
// pool is attached, and removes it from the dirty set. Returns the count
// processed.
func (m *Manager) Update(maxRemeshPerTick int) int {
	coords := make([]voxel.ChunkCoord, 0, len(m.dirty))
	for c := range m.dirty {
		coords = append(coords, c)
	}
	// Deterministic processing order; "unspecified order" in the spec, but
	// stable output makes this package's own tests reproducible.
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].Z < coords[j].Z
	})

	processed := 0
	for _, coord := range coords {
		if processed >= maxRemeshPerTick {
			break
		}
		m.meshes[coord] = greedyMesh(m.Density, m.Essence, m.Palette, coord, m.Threshold)
		if m.pool != nil {
			if slot, ok := m.poolSlots[coord]; ok {
				slot.Release()
			}
			m.poolSlots[coord] = m.pool.TryBorrow()
		}
		delete(m.dirty, coord)
		processed++
	}
	return processed
}
