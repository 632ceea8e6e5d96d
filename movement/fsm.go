// Package movement implements the closed MovementFSM transition table, dash
// controller, and flight transition probing of spec.md §4.9, generalized
// from the teacher's primitives.StateMachine[S] (the same generic state
// machine the teacher uses for game-mode transitions).
package movement

import "github.com/fabricengine/fabric/primitives"

// State is one of the closed set of character movement modes.
type State int

const (
	Grounded State = iota
	Falling
	Jumping
	Flying
	Dashing
	Boosting
)

// allowedTransitions is the closed transition table of spec.md §4.9. Any
// pair not listed here is disallowed; self-transitions are handled
// separately as no-ops by the underlying StateMachine.
var allowedTransitions = map[State][]State{
	Grounded: {Jumping, Falling, Flying, Dashing},
	Jumping:  {Falling, Flying},
	Falling:  {Grounded, Flying},
	Flying:   {Falling, Grounded, Boosting},
	Dashing:  {Grounded, Falling},
	Boosting: {Flying, Falling},
}

// MovementFSM wraps a generic StateMachine[State] pre-registered with the
// closed transition table above.
type MovementFSM struct {
	sm *primitives.StateMachine[State]
}

func NewMovementFSM(initial State) *MovementFSM {
	sm := primitives.NewStateMachine(initial)
	for from, tos := range allowedTransitions {
		for _, to := range tos {
			sm.AllowTransition(from, to)
		}
	}
	return &MovementFSM{sm: sm}
}

// Current returns the FSM's current state.
func (f *MovementFSM) Current() State { return f.sm.Current() }

// TryTransition attempts a move to target, returning whether it succeeded.
// Disallowed transitions fail without mutating state (spec.md §8 invariant 6).
func (f *MovementFSM) TryTransition(target State) bool {
	return f.sm.SetState(target)
}

// OnEnter registers a hook invoked after a transition lands on state.
func (f *MovementFSM) OnEnter(state State, hook func(State)) {
	f.sm.OnEnter(state, hook)
}
