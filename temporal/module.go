package temporal

import "github.com/fabricengine/fabric"

// Module installs a Timeline as an app resource and advances it every frame
// from the ambient Time resource, mirroring the teacher's own TimeModule
// wiring pattern.
type Module struct {
	Timeline *Timeline
}

func (m Module) Install(app *fabric.App, cmd *fabric.Commands) {
	tl := m.Timeline
	if tl == nil {
		tl = NewTimeline()
	}

	app.UseSystem(
		fabric.System(func(time *fabric.Time) {
			tl.Update(time.Dt, nil)
		}).InStage(fabric.PreUpdate).RunAlways(),
	)

	cmd.AddResources(tl)
}
