package voxel

// VoxelChangedEvent is the event type name fired whenever a cell's density
// or essence changes (spec.md §6). Both the producer (raycast.VoxelInteraction)
// and every consumer (mesh.Manager) dispatch/listen on this single shared
// type so a chunk coordinate round-trips through primitives.Event.Data
// without a cross-package type assertion failing.
const VoxelChangedEvent = "voxel_changed"

// VoxelChangedData carries the chunk coordinate affected by an edit.
type VoxelChangedData struct {
	CX, CY, CZ int
}
