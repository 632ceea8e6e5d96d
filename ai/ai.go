// Package ai implements the behavior-tree host bridge, perception queries,
// and observer of spec.md §4.11. Grounded on the teacher's ECS-module
// pattern (mod_spatialgrid.go's plain-struct spatial query helpers) and the
// spec's own design note (§9 "Polymorphism") that the BT node hierarchy is
// naturally a sum-type plus a tick()->Status vtable — no third-party BT
// engine is wired because none of the retrieved examples depends on one;
// see DESIGN.md.
package ai

import (
	"math"
	"strings"

	"github.com/fabricengine/fabric"
	"github.com/go-gl/mathgl/mgl32"
)

// AIState is the five-variant state a behavior tree root drives.
type AIState int

const (
	Idle AIState = iota
	Patrol
	Chase
	Attack
	Flee
)

// Status is a BT node's tick outcome.
type Status int

const (
	Running Status = iota
	Success
	Failure
)

// Blackboard is a named-typed key/value bag read and written by BT nodes.
type Blackboard struct {
	values map[string]any
}

func NewBlackboard() *Blackboard {
	return &Blackboard{values: make(map[string]any)}
}

func (b *Blackboard) Set(key string, v any) { b.values[key] = v }

func (b *Blackboard) Float(key string) float64 {
	if v, ok := b.values[key].(float64); ok {
		return v
	}
	return 0
}

func (b *Blackboard) Bool(key string) bool {
	v, _ := b.values[key].(bool)
	return v
}

func (b *Blackboard) AIState() AIState {
	if v, ok := b.values["ai_state"].(AIState); ok {
		return v
	}
	return Idle
}

// Node is the BT sum-type vtable: actions and conditions both implement Tick.
type Node interface {
	Tick(bb *Blackboard) Status
}

// NodeFactory registers named node-type constructors, the host contract of
// spec.md §4.11.
type NodeFactory struct {
	ctors map[string]func() Node
}

func NewNodeFactory() *NodeFactory {
	f := &NodeFactory{ctors: make(map[string]func() Node)}
	f.Register("PatrolAction", func() Node { return actionNode{state: Patrol} })
	f.Register("ChaseAction", func() Node { return actionNode{state: Chase} })
	f.Register("AttackAction", func() Node { return actionNode{state: Attack} })
	f.Register("FleeAction", func() Node { return actionNode{state: Flee} })
	f.Register("IsPlayerNearby", func() Node { return conditionNode{check: isPlayerNearby} })
	f.Register("IsHealthLow", func() Node { return conditionNode{check: isHealthLow} })
	f.Register("HasTarget", func() Node { return conditionNode{check: hasTarget} })
	f.Register("CanSeeTarget", func() Node { return conditionNode{check: canSeeTarget} })
	f.Register("CanHearTarget", func() Node { return conditionNode{check: canHearTarget} })
	return f
}

func (f *NodeFactory) Register(name string, ctor func() Node) { f.ctors[name] = ctor }

func (f *NodeFactory) Create(name string) (Node, bool) {
	ctor, ok := f.ctors[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// actionNode writes ai_state unconditionally and succeeds.
type actionNode struct {
	state AIState
}

func (a actionNode) Tick(bb *Blackboard) Status {
	bb.Set("ai_state", a.state)
	return Success
}

type conditionNode struct {
	check func(bb *Blackboard) bool
}

func (c conditionNode) Tick(bb *Blackboard) Status {
	if c.check(bb) {
		return Success
	}
	return Failure
}

func isPlayerNearby(bb *Blackboard) bool { return bb.Float("player_distance") <= bb.Float("perception_range") }
func isHealthLow(bb *Blackboard) bool    { return bb.Float("health") < bb.Float("low_health_threshold") }
func hasTarget(bb *Blackboard) bool      { return bb.Bool("has_target") }
func canSeeTarget(bb *Blackboard) bool   { return bb.Bool("has_los") }
func canHearTarget(bb *Blackboard) bool  { return bb.Float("player_distance") <= bb.Float("hearing_range") }

// Fallback ticks children in order and succeeds (and stops) on the first
// child success, grounding the §8 behavior-tree priority scenario.
type Fallback struct {
	Children []Node
}

func (f Fallback) Tick(bb *Blackboard) Status {
	for _, c := range f.Children {
		if c.Tick(bb) == Success {
			return Success
		}
	}
	return Failure
}

// Sequence ticks every child in order, a condition-then-action pair; it
// succeeds only when all children succeed.
type Sequence struct {
	Children []Node
}

func (s Sequence) Tick(bb *Blackboard) Status {
	for _, c := range s.Children {
		status := c.Tick(bb)
		if status != Success {
			return status
		}
	}
	return Success
}

// AIStateComponent is the ECS component the tree's output is copied into.
type AIStateComponent struct {
	Value AIState
}

// BehaviorTree is the ECS component holding a tree root plus its blackboard.
type BehaviorTree struct {
	Root       Node
	Blackboard *Blackboard
}

// AnimationMapping names five clips, one per AIState, resolved by ClipFor.
type AnimationMapping struct {
	IdleClip, PatrolClip, ChaseClip, AttackClip, FleeClip string
}

func (m AnimationMapping) ClipFor(state AIState) string {
	switch state {
	case Patrol:
		return m.PatrolClip
	case Chase:
		return m.ChaseClip
	case Attack:
		return m.AttackClip
	case Flee:
		return m.FleeClip
	default:
		return m.IdleClip
	}
}

// AnimationBlendState tracks the blend-on-state-change timer of spec.md §4.11.
type AnimationBlendState struct {
	Blending     bool
	BlendTimer   float32
	BlendDuration float32
}

// TickBehaviorTrees ticks every (BehaviorTree, AIStateComponent) entity once
// from its root (nodes keep no running state between ticks, so there is no
// separate halt step) and copies the root blackboard's ai_state into the
// component. Entities additionally carrying an AnimationBlendState have it
// updated every tick: reset to blending when AIState changed, otherwise the
// timer advances by dt and blending clears once it reaches BlendDuration.
// Whether the entity carries an AnimationMapping is not checked.
func TickBehaviorTrees(cmd *fabric.Commands, dt float32) {
	q := fabric.MakeQuery3[BehaviorTree, AIStateComponent, AnimationBlendState](cmd)
	q.Map(func(id fabric.EntityId, bt *BehaviorTree, state *AIStateComponent, blend *AnimationBlendState) bool {
		bt.Root.Tick(bt.Blackboard)
		newState := bt.Blackboard.AIState()
		changed := newState != state.Value
		state.Value = newState

		if blend != nil {
			updateBlend(blend, changed, dt)
		}
		return true
	}, AnimationBlendState{})
}

func updateBlend(blend *AnimationBlendState, changed bool, dt float32) {
	if changed {
		blend.Blending = true
		blend.BlendTimer = 0
		return
	}
	blend.BlendTimer += dt
	if blend.BlendTimer >= blend.BlendDuration {
		blend.Blending = false
	}
}

// EntitiesInRange queries ECS by Position and returns those within radius
// of origin (spec.md §4.11 perception).
func EntitiesInRange(cmd *fabric.Commands, origin mgl32.Vec3, radius float32) []fabric.EntityId {
	q := fabric.MakeQuery1[fabric.Position](cmd)
	var out []fabric.EntityId
	r2 := radius * radius
	q.Map(func(id fabric.EntityId, pos *fabric.Position) bool {
		d := pos.Vec3().Sub(origin)
		if d.Dot(d) <= r2 {
			out = append(out, id)
		}
		return true
	})
	return out
}

// HasLineOfSight rasterizes the segment from->to with a DDA-style walk over
// integer voxels and returns false on the first cell whose density crosses
// threshold. A coincident from/to returns true.
func HasLineOfSight(grid func(x, y, z int) float32, threshold float32, from, to mgl32.Vec3) bool {
	if from == to {
		return true
	}
	dir := to.Sub(from)
	dist := dir.Len()
	steps := int(dist*4) + 1
	step := dir.Mul(1 / float32(steps))
	cursor := from
	for i := 0; i <= steps; i++ {
		x, y, z := int(cursor.X()), int(cursor.Y()), int(cursor.Z())
		if grid(x, y, z) >= threshold {
			return false
		}
		cursor = cursor.Add(step)
	}
	return true
}

// CanSeeTarget combines range, cone angle, and line-of-sight.
func CanSeeTarget(origin, forward, target mgl32.Vec3, sightRange, sightAngleDeg float32, hasLOS bool) bool {
	toTarget := target.Sub(origin)
	dist := toTarget.Len()
	if dist > sightRange {
		return false
	}
	if dist == 0 {
		return hasLOS
	}
	cos := forward.Normalize().Dot(toTarget.Normalize())
	angle := mgl32.RadToDeg(acos32(cos))
	return angle <= sightAngleDeg/2 && hasLOS
}

func acos32(x float32) float32 {
	if x > 1 {
		x = 1
	}
	if x < -1 {
		x = -1
	}
	return float32(math.Acos(float64(x)))
}

// Observer exposes per-entity status snapshots and uid->path mappings for a
// debug panel (spec.md §4.11).
type Observer struct {
	status map[uint64]AIState
	paths  map[uint64]string
}

func NewObserver() *Observer {
	return &Observer{status: make(map[uint64]AIState), paths: make(map[uint64]string)}
}

func (o *Observer) Record(uid uint64, path string, status AIState) {
	o.status[uid] = status
	o.paths[uid] = path
}

func (o *Observer) Statistics() map[uint64]AIState { return o.status }

func (o *Observer) UIDToPath() map[uint64]string { return o.paths }

// FlatListing produces a depth-annotated listing by counting '/' in each
// uid's path.
type FlatEntry struct {
	UID   uint64
	Path  string
	Depth int
}

func (o *Observer) FlatListing() []FlatEntry {
	out := make([]FlatEntry, 0, len(o.paths))
	for uid, path := range o.paths {
		out = append(out, FlatEntry{UID: uid, Path: path, Depth: strings.Count(path, "/")})
	}
	return out
}
