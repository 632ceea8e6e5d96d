package voxel

import (
	"testing"

	"github.com/fabricengine/fabric/primitives"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestGetOnUnloadedChunkReturnsZeroWithoutAllocating(t *testing.T) {
	g := NewChunkedGrid[float32]()
	assert.Equal(t, float32(0), g.Get(5, 5, 5))
	assert.Empty(t, g.ActiveChunks())
}

func TestSetAllocatesExactlyOneChunkAndActivates(t *testing.T) {
	g := NewChunkedGrid[float32]()
	g.Set(1, 2, 3, 9)
	assert.Equal(t, float32(9), g.Get(1, 2, 3))

	active := g.ActiveChunks()
	assert.Len(t, active, 1)
	assert.Equal(t, ChunkCoord{0, 0, 0}, active[0])
}

func TestNegativeCoordinatesSplitCorrectly(t *testing.T) {
	cc, local := SplitCoord(-1, -33, 31)
	assert.Equal(t, ChunkCoord{-1, -2, 0}, cc)
	assert.Equal(t, [3]int{31, 31, 31}, local)
}

func TestRemoveChunkDropsStorageAndActiveEntry(t *testing.T) {
	g := NewChunkedGrid[float32]()
	g.Set(0, 0, 0, 1)
	g.RemoveChunk(ChunkCoord{0, 0, 0})
	assert.Equal(t, float32(0), g.Get(0, 0, 0))
	assert.False(t, g.IsActive(ChunkCoord{0, 0, 0}))
}

func TestNeighbors6CrossesChunkBoundaryWithDefaults(t *testing.T) {
	g := NewChunkedGrid[float32]()
	g.Set(ChunkSize-1, 0, 0, 7)
	n := g.Neighbors6(ChunkSize, 0, 0)
	assert.Equal(t, float32(7), n[0]) // -X neighbor crosses back into the written chunk
	assert.Equal(t, float32(0), n[1]) // +X neighbor is unloaded
}

func TestEssencePaletteDedupsWithinEpsilon(t *testing.T) {
	p := NewEssencePalette()
	idx1 := p.Insert(mgl32.Vec4{1, 0, 0, 1})
	idx2 := p.Insert(mgl32.Vec4{1, 0, 0, 1})
	assert.Equal(t, idx1, idx2)
	assert.Equal(t, 1, p.Len())
}

func TestEssencePaletteOverflowReturnsSentinel(t *testing.T) {
	p := NewEssencePalette()
	for i := 0; i < MaxPaletteSize; i++ {
		p.Insert(mgl32.Vec4{float32(i), 0, 0, 1})
	}
	idx := p.Insert(mgl32.Vec4{99999, 0, 0, 1})
	assert.Equal(t, uint16(MaxPaletteSize), idx)
}

func TestEssencePaletteLookupOutOfRangeIsInternal(t *testing.T) {
	p := NewEssencePalette()
	_, code := p.Lookup(0)
	assert.Equal(t, primitives.Internal, code)
}
