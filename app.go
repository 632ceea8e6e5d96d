package fabric

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// App is the root scheduler: an archetype ECS plus a stage/module pipeline,
// generalized from the teacher's Bevy-style App/Commands split so every
// voxel-world subsystem in this repo (streaming, mesh manager, simulation,
// AI, scene view...) can be installed as a Module and driven by one frame
// loop (spec.md §5's input->mode->streaming->...->autosave ordering).
type App struct {
	built bool

	stateful            bool
	stateMachineStarted bool
	stateTransitioning  bool
	initialState        State
	finalState          State
	nextState           State
	state               State

	stages           []Stage
	systems          map[string]map[State]map[statePhase][]systemFn
	systemsStateless map[string][]systemFn

	modules   []Module
	resources map[reflect.Type]any
	ecs       *Ecs

	pendingAdditions    []pendingAdd
	pendingCompAdds     []pendingCompAdd
	pendingCompRemovals []pendingCompRemoval
	pendingRemovals     []EntityId

	Logger Logger
}

const STATELESS_STATE State = 0

type Module interface {
	Install(app *App, commands *Commands)
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompAdd struct {
	eid        EntityId
	components []any
}

type pendingCompRemoval struct {
	eid        EntityId
	components []any
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// FlushCommands applies every buffered AddEntity/AddComponents/RemoveComponents/
// RemoveEntity call since the last flush. Systems never mutate the ECS directly;
// they enqueue through Commands so in-flight query iteration is never invalidated
// mid-tick, then the scheduler flushes between stages.
func (app *App) FlushCommands() {
	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, add := range app.pendingCompAdds {
		app.ecs.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]

	for _, rem := range app.pendingCompRemovals {
		app.ecs.removeComponents(rem.eid, rem.components...)
	}
	app.pendingCompRemovals = app.pendingCompRemovals[:0]

	for _, eid := range app.pendingRemovals {
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]
}

func (app *App) ensureBuilt() {
	if app.built {
		return
	}
	app.build()
	app.built = true
}

func (app *App) Run() {
	app.ensureBuilt()
	if app.stateful {
		app.runStateful()
	} else {
		app.runStateless()
	}
}

// Tick runs exactly one frame of every stage in order, flushing buffered ECS
// commands after each stage. Embedding applications that own their own loop
// (tests, cmd/fabricd) call this instead of the blocking Run().
func (app *App) Tick() {
	app.ensureBuilt()
	if app.stateful {
		if !app.stateMachineStarted {
			app.executeChangeState(app.initialState)
		}
		app.callSystems(app.state, execute)
		app.FlushCommands()
		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}
	} else {
		app.callSystems(STATELESS_STATE, execute)
		app.FlushCommands()
	}
}

func (app *App) runStateful() {
	app.log().Infof("running in stateful mode")

	app.executeChangeState(app.initialState)

	for {
		app.callSystems(app.state, execute)
		app.FlushCommands()

		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}

		if app.state == app.finalState {
			break
		}
	}

	app.callSystems(app.state, exit)
	app.FlushCommands()
}

func (app *App) runStateless() {
	app.log().Infof("running in stateless mode")

	for {
		app.callSystems(STATELESS_STATE, execute)
		app.FlushCommands()
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if !app.stateMachineStarted {
		app.stateMachineStarted = true

		app.state = newState
		app.callSystems(app.state, enter)
	} else {
		app.callSystems(app.state, exit)
		app.state = newState
		app.callSystems(app.state, enter)
	}
	app.FlushCommands()
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// callSystems runs every stage's systems, in stage order, for the given
// FSM phase. Stateless (RunAlways) systems for a stage run before that
// stage's state-scoped systems.
func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		for _, system := range app.systemsStateless[stage.Name] {
			app.callSystem(system)
		}
		if app.stateful {
			if byPhase, ok := app.systems[stage.Name][state]; ok {
				for _, system := range byPhase[phase] {
					app.callSystem(system)
				}
			}
		}
	}
}

func (app *App) log() Logger {
	if app.Logger == nil {
		app.Logger = NewDefaultLogger("fabric", false)
	}
	return app.Logger
}

func (app *App) callSystem(system systemFn) {
	defer func() {
		if r := recover(); r != nil {
			app.log().Errorf("system %s panicked: %v", systemName(system), r)
		}
	}()
	app.callSystemInternal(system)
}

func systemName(system systemFn) string {
	return runtime.FuncForPC(reflect.ValueOf(system).Pointer()).Name()
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystemInternal(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			resourceVal := reflect.ValueOf(resource)
			typedResourceVal := reflect.NewAt(underlyingType, resourceVal.UnsafePointer())

			args[i] = typedResourceVal
		} else {
			msg := fmt.Sprintf("unable to resolve system dependency\nsystem: %s\nsystem type: %s\ndependency: %s",
				systemName(system),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}
	systemValue.Call(args)
}
