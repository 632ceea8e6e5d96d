package raycast

import (
	"github.com/fabricengine/fabric/primitives"
	"github.com/fabricengine/fabric/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// VoxelChangedEvent and VoxelChangedData are re-exported from voxel so
// callers that only touch raycast don't need a second import; the mesh
// package listens on the same voxel-owned type.
const VoxelChangedEvent = voxel.VoxelChangedEvent

type VoxelChangedData = voxel.VoxelChangedData

// VoxelInteraction applies create/destroy edits against a density/essence
// field pair and notifies a dispatcher so the mesh manager can remesh,
// grounded on the teacher's XBrickMap.SetVoxel dirty-chunk bookkeeping
// (voxelrt/rt/volume/xbrickmap.go) but decoupled from any GPU atlas state.
type VoxelInteraction struct {
	Density    voxel.DensityField
	Essence    voxel.EssenceField
	Dispatcher *primitives.EventDispatcher
}

// CreateMatter writes density and essenceColor at the cell just outside the
// hit face (hit.x+nx, hit.y+ny, hit.z+nz) and emits voxel_changed for the
// target's owning chunk.
func (vi *VoxelInteraction) CreateMatter(hit Hit, density float32, essenceColor mgl32.Vec4) {
	tx, ty, tz := hit.X+hit.NX, hit.Y+hit.NY, hit.Z+hit.NZ
	vi.Density.Set(tx, ty, tz, density)
	vi.Essence.Set(tx, ty, tz, essenceColor)
	vi.emitChanged(tx, ty, tz)
}

// DestroyMatter writes zero density at the hit cell and emits voxel_changed
// for its owning chunk.
func (vi *VoxelInteraction) DestroyMatter(hit Hit) {
	vi.Density.Set(hit.X, hit.Y, hit.Z, 0)
	vi.emitChanged(hit.X, hit.Y, hit.Z)
}

func (vi *VoxelInteraction) emitChanged(x, y, z int) {
	if vi.Dispatcher == nil {
		return
	}
	cc, _ := voxel.SplitCoord(x, y, z)
	vi.Dispatcher.Dispatch(&primitives.Event{
		Type: VoxelChangedEvent,
		Data: VoxelChangedData{CX: cc.X, CY: cc.Y, CZ: cc.Z},
	})
}
