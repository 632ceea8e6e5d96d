package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fabricengine/fabric"
	"github.com/fabricengine/fabric/temporal"
	"github.com/fabricengine/fabric/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorld() (*fabric.App, *fabric.Commands) {
	app := fabric.NewApp()
	return app, app.Commands()
}

func TestSaveRoundTripReproducesEntityWithinTolerance(t *testing.T) {
	app, cmd := newWorld()
	cmd.AddEntity(
		fabric.SceneEntity{},
		fabric.Name{Value: "roundtrip_test"},
		fabric.Position{X: 5.5, Y: 10.5, Z: -3.5},
		fabric.Rotation{X: 0, Y: 0.707, Z: 0, W: 0.707},
		fabric.Scale{X: 0.5, Y: 2.0, Z: 1.5},
	)
	app.FlushCommands()

	density := voxel.NewDensityField()
	essence := voxel.NewEssenceField()
	timeline := temporal.NewTimeline()

	serializer := SceneSerializer{}
	scene := serializer.Serialize(cmd, density, essence, timeline, nil, nil)

	dir := t.TempDir()
	manager, err := NewSaveManager(dir, timeline)
	require.NoError(t, err)
	require.NoError(t, manager.Save("roundtrip", scene))

	envelope, err := manager.Load("roundtrip")
	require.NoError(t, err)
	assert.Equal(t, SaveVersion, envelope.SaveVersion)

	freshApp, freshCmd := newWorld()
	idMap := serializer.Deserialize(freshCmd, envelope.Scene, density, essence)
	freshApp.FlushCommands()
	require.Len(t, idMap, 1)

	require.Len(t, envelope.Scene.Entities, 1)
	rec := envelope.Scene.Entities[0]
	assert.Equal(t, "roundtrip_test", rec.Name)
	require.NotNil(t, rec.Components.Position)
	assert.InDelta(t, 5.5, rec.Components.Position.X, 1e-3)
	assert.InDelta(t, 10.5, rec.Components.Position.Y, 1e-3)
	assert.InDelta(t, -3.5, rec.Components.Position.Z, 1e-3)
	require.NotNil(t, rec.Components.Rotation)
	assert.InDelta(t, 0.707, rec.Components.Rotation.Y, 1e-3)
	assert.InDelta(t, 0.707, rec.Components.Rotation.W, 1e-3)
	require.NotNil(t, rec.Components.Scale)
	assert.InDelta(t, 0.5, rec.Components.Scale.X, 1e-3)
	assert.InDelta(t, 2.0, rec.Components.Scale.Y, 1e-3)
	assert.InDelta(t, 1.5, rec.Components.Scale.Z, 1e-3)
}

func TestLoadRejectsMismatchedSaveVersion(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewSaveManager(dir, nil)
	require.NoError(t, err)

	badEnvelope := `{"save_version":"0.9","slot":"x","timestamp":"now","scene":{"version":"1.0"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.json"), []byte(badEnvelope), 0o644))

	_, err = manager.Load("x")

	require.Error(t, err)
	assert.IsType(t, ErrVersionMismatch{}, err)
}

func TestTickAutosaveRotatesSlotsAndFiresOnInterval(t *testing.T) {
	dir := t.TempDir()
	timeline := temporal.NewTimeline()
	manager, err := NewSaveManager(dir, timeline)
	require.NoError(t, err)
	manager.EnableAutosave(1.0)

	saveCount := 0
	sceneFn := func() SceneRecord {
		saveCount++
		return SceneRecord{Version: "1.0"}
	}

	require.NoError(t, manager.TickAutosave(0.5, sceneFn))
	assert.Equal(t, 0, saveCount)

	require.NoError(t, manager.TickAutosave(0.6, sceneFn))
	assert.Equal(t, 1, saveCount)
	_, err = manager.Load("autosave_0")
	require.NoError(t, err)

	require.NoError(t, manager.TickAutosave(1.0, sceneFn))
	assert.Equal(t, 2, saveCount)
	_, err = manager.Load("autosave_1")
	require.NoError(t, err)
}

func TestListSlotsReturnsEnvelopeMetadata(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewSaveManager(dir, nil)
	require.NoError(t, err)

	require.NoError(t, manager.Save("alpha", SceneRecord{Version: "1.0"}))
	require.NoError(t, manager.Save("beta", SceneRecord{Version: "1.0"}))

	slots, err := manager.ListSlots()

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "alpha", slots[0].Name)
	assert.Equal(t, "beta", slots[1].Name)
	assert.Equal(t, SaveVersion, slots[0].Version)
}

func TestSaveResumesOnlyIfPreviouslyUnpaused(t *testing.T) {
	dir := t.TempDir()
	timeline := temporal.NewTimeline()
	manager, err := NewSaveManager(dir, timeline)
	require.NoError(t, err)

	timeline.SetPaused(true)
	require.NoError(t, manager.Save("paused", SceneRecord{Version: "1.0"}))
	assert.True(t, timeline.IsPaused())

	timeline.SetPaused(false)
	require.NoError(t, manager.Save("unpaused", SceneRecord{Version: "1.0"}))
	assert.False(t, timeline.IsPaused())
}
