// Command fabricd is a thin runnable composing Fabric's subsystems into one
// frame loop: input -> streaming -> interaction -> simulation -> ECS
// progress (movement, AI, perception, animation) -> mesh manager -> scene
// view(s) -> timeline -> autosave (spec.md §5).
//
// The GPU backend, windowing, input capture, physics, and audio are all
// external collaborators per spec.md §1 and are represented here only by
// the interfaces this runtime consumes (scene.Renderer) or stubbed with a
// no-op so the loop is runnable standalone.
package main

import (
	"log"

	"github.com/fabricengine/fabric"
	"github.com/fabricengine/fabric/ai"
	"github.com/fabricengine/fabric/anim"
	"github.com/fabricengine/fabric/mesh"
	"github.com/fabricengine/fabric/persist"
	"github.com/fabricengine/fabric/primitives"
	"github.com/fabricengine/fabric/raycast"
	"github.com/fabricengine/fabric/scene"
	"github.com/fabricengine/fabric/sim"
	"github.com/fabricengine/fabric/streaming"
	"github.com/fabricengine/fabric/temporal"
	"github.com/fabricengine/fabric/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// noopRenderer discards submitted draw calls; a real binary wires a GPU
// backend here instead.
type noopRenderer struct{}

func (noopRenderer) ClearColor(viewID int, r, g, b, a float32) {}
func (noopRenderer) Submit(list scene.RenderList)               {}

func main() {
	density := voxel.NewDensityField()
	essence := voxel.NewEssenceField()

	streamingMgr := streaming.NewManager(2, 4, 0.5, 10000, 10000)
	meshMgr := mesh.NewManager(density, essence, 0.5)
	harness := sim.NewHarness(density, essence)
	dispatcher := primitives.NewEventDispatcher()
	meshMgr.Subscribe(dispatcher)
	pool := primitives.NewBufferPool(64, 4096)
	meshMgr.UsePool(pool)

	timeline := temporal.NewTimeline()
	timeline.EnableAutomaticSnapshots(30)

	saveDir := "./saves"
	saveManager, err := persist.NewSaveManager(saveDir, timeline)
	if err != nil {
		log.Fatalf("fabricd: cannot open save directory %q: %v", saveDir, err)
	}
	saveManager.EnableAutosave(120)

	serializer := persist.SceneSerializer{}

	app := fabric.NewApp().UseModules(
		fabric.TimeModule{},
		temporal.Module{Timeline: timeline},
	)
	cmd := app.Commands()

	renderer := noopRenderer{}
	camera := &scene.Camera{ViewProj: mgl32.Ident4()}

	app.UseSystem(
		fabric.System(func(time *fabric.Time) {
			// Streaming only decides which chunks should be resident; actual
			// chunk content comes from an asset-generation collaborator
			// (L-system/WFC, out of scope per spec.md §1) that would load
			// into density/essence here.
			streamingMgr.Update(0, 0, 0, 1.0)

			// Voxel interaction: cast from the (stubbed) viewer crosshair each
			// tick; a real binary feeds origin/direction from input capture.
			if hit, ok := raycast.Cast(density, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, 64, 0.5); ok {
				interaction := raycast.VoxelInteraction{Density: density, Essence: essence, Dispatcher: dispatcher}
				interaction.DestroyMatter(hit)
			}

			harness.Tick(float32(time.Dt))

			ai.TickBehaviorTrees(cmd, float32(time.Dt))
			anim.RunAnimationSystem(cmd, float32(time.Dt))

			meshMgr.Update(16)

			view := scene.NewSceneView(0, camera, cmd)
			view.Render(renderer)

			if err := saveManager.TickAutosave(time.Dt, func() persist.SceneRecord {
				return serializer.Serialize(cmd, density, essence, timeline, nil, nil)
			}); err != nil {
				log.Printf("fabricd: autosave failed: %v", err)
			}
		}).InStage(fabric.Update).RunAlways(),
	)

	app.Run()
}
