package voxel

import "github.com/go-gl/mathgl/mgl32"

// FieldLayer is a thin typed façade over ChunkedGrid (spec.md §3).
type FieldLayer[T any] struct {
	grid *ChunkedGrid[T]
}

func NewFieldLayer[T any]() FieldLayer[T] {
	return FieldLayer[T]{grid: NewChunkedGrid[T]()}
}

func (f FieldLayer[T]) Get(x, y, z int) T                   { return f.grid.Get(x, y, z) }
func (f FieldLayer[T]) Set(x, y, z int, v T)                { f.grid.Set(x, y, z, v) }
func (f FieldLayer[T]) RemoveChunk(coord ChunkCoord)         { f.grid.RemoveChunk(coord) }
func (f FieldLayer[T]) ActiveChunks() []ChunkCoord           { return f.grid.ActiveChunks() }
func (f FieldLayer[T]) IsActive(coord ChunkCoord) bool       { return f.grid.IsActive(coord) }
func (f FieldLayer[T]) Neighbors6(x, y, z int) [6]T          { return f.grid.Neighbors6(x, y, z) }
func (f FieldLayer[T]) ForEachCellInChunk(coord ChunkCoord, fn func(x, y, z int, v T)) {
	f.grid.ForEachCellInChunk(coord, fn)
}

// DensityField holds a scalar occupancy value per cell.
type DensityField = FieldLayer[float32]

func NewDensityField() DensityField { return NewFieldLayer[float32]() }

// EssenceField holds an RGBA color per cell.
type EssenceField = FieldLayer[mgl32.Vec4]

func NewEssenceField() EssenceField { return NewFieldLayer[mgl32.Vec4]() }
