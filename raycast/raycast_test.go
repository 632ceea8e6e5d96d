package raycast

import (
	"testing"

	"github.com/fabricengine/fabric/primitives"
	"github.com/fabricengine/fabric/voxel"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastHitsFirstDenseVoxelAndReturnsFaceNormal(t *testing.T) {
	density := voxel.NewDensityField()
	density.Set(5, 0, 0, 1.0)

	hit, ok := Cast(density, mgl32.Vec3{0, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 100, 0.5)
	require.True(t, ok)
	assert.Equal(t, 5, hit.X)
	assert.Equal(t, -1, hit.NX)
	assert.Equal(t, 0, hit.NY)
	assert.Equal(t, 0, hit.NZ)
}

func TestCastMissesBeyondMaxDistance(t *testing.T) {
	density := voxel.NewDensityField()
	density.Set(500, 0, 0, 1.0)

	_, ok := Cast(density, mgl32.Vec3{0, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 10, 0.5)
	assert.False(t, ok)
}

func TestCreateMatterWritesAdjacentCellAndEmitsEvent(t *testing.T) {
	density := voxel.NewDensityField()
	density.Set(5, 0, 0, 1.0)
	essence := voxel.NewEssenceField()
	dispatcher := primitives.NewEventDispatcher()

	var captured VoxelChangedData
	dispatcher.AddListener(VoxelChangedEvent, func(e *primitives.Event) {
		captured = e.Data.(VoxelChangedData)
	}, 0)

	vi := &VoxelInteraction{Density: density, Essence: essence, Dispatcher: dispatcher}
	hit, ok := Cast(density, mgl32.Vec3{0, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 100, 0.5)
	require.True(t, ok)

	vi.CreateMatter(hit, 0.8, mgl32.Vec4{1, 0, 0, 1})

	assert.Equal(t, float32(0.8), density.Get(4, 0, 0))
	cc, _ := voxel.SplitCoord(4, 0, 0)
	assert.Equal(t, cc.X, captured.CX)
}

func TestDestroyMatterZeroesDensity(t *testing.T) {
	density := voxel.NewDensityField()
	density.Set(5, 0, 0, 1.0)
	vi := &VoxelInteraction{Density: density, Essence: voxel.NewEssenceField(), Dispatcher: primitives.NewEventDispatcher()}

	vi.DestroyMatter(Hit{X: 5, Y: 0, Z: 0})
	assert.Equal(t, float32(0), density.Get(5, 0, 0))
}
