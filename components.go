package fabric

import "github.com/go-gl/mathgl/mgl32"

// Core ECS components shared across every subsystem that reads or writes
// scene-graph state, generalized from the teacher's TransformComponent /
// LocalTransformComponent / Parent split (mod_hierarchy.go) into the
// Position/Rotation/Scale triad the data model calls for.

type Position struct {
	X, Y, Z float32
}

func (p Position) Vec3() mgl32.Vec3 { return mgl32.Vec3{p.X, p.Y, p.Z} }

func PositionFromVec3(v mgl32.Vec3) Position {
	return Position{v.X(), v.Y(), v.Z()}
}

type Rotation struct {
	X, Y, Z, W float32
}

func (r Rotation) Quat() mgl32.Quat {
	return mgl32.Quat{W: r.W, V: mgl32.Vec3{r.X, r.Y, r.Z}}
}

func RotationFromQuat(q mgl32.Quat) Rotation {
	return Rotation{q.V.X(), q.V.Y(), q.V.Z(), q.W}
}

func IdentityRotation() Rotation { return RotationFromQuat(mgl32.QuatIdent()) }

type Scale struct {
	X, Y, Z float32
}

func (s Scale) Vec3() mgl32.Vec3 { return mgl32.Vec3{s.X, s.Y, s.Z} }

func UniformScale(s float32) Scale { return Scale{s, s, s} }

// BoundingBox is a local-space AABB. Entities without one are always kept
// by the frustum culler (spec.md §4.7).
type BoundingBox struct {
	Min, Max mgl32.Vec3
}

// SceneEntity tags an entity as part of the persisted, serialized scene graph.
type SceneEntity struct{}

// Renderable carries the sort key the scene view uses for opaque ordering.
type Renderable struct {
	SortKey uint64
}

// TransparentTag marks an entity for the transparent render pass.
type TransparentTag struct{}

// Parent establishes the ChildOf relation enforced by construction: a child
// is only ever created under a parent, never reparented to an ancestor
// (spec.md §9 "Scene graph -> flat ECS").
type Parent struct {
	Entity EntityId
}

// Name is an optional human-readable label, serialized by SceneSerializer.
type Name struct {
	Value string
}

// TransformComponent is the resolved world-space transform a renderer,
// culler, or serializer reads. For root entities it is authoritative; for
// children it is recomputed each tick by TransformHierarchySystem from the
// entity's LocalTransformComponent and its Parent chain.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent holds a child entity's transform relative to its
// Parent. Root entities (no Parent) don't need one.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// PhysicsBodyConfig is the serialized description of a rigid-body's
// simulation parameters; the physics engine itself is an external
// collaborator (spec.md §1 Non-goals).
type PhysicsBodyConfig struct {
	Mass           float32
	Friction       float32
	Restitution    float32
	IsKinematic    bool
	CollisionShape string
}

// AIBehaviorConfig names the behavior tree and initial blackboard an entity
// spawns with; consumed by the ai package when wiring a BehaviorTree
// component onto the entity.
type AIBehaviorConfig struct {
	TreeName     string
	SightRange   float32
	SightAngle   float32
	HearingRange float32
}

// AudioSourceConfig is the serialized description of a positional audio
// emitter; the audio engine itself is an external collaborator (spec.md §1
// Non-goals).
type AudioSourceConfig struct {
	ClipPath string
	Volume   float32
	Loop     bool
}

func (t TransformComponent) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
