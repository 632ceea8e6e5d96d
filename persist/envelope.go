// Package persist implements the scene serializer and save manager: the
// JSON save-file envelope, ECS entity/chunk/timeline encoding, and rotating
// autosave slots (spec.md §4.14, §6).
package persist

import "github.com/fabricengine/fabric"

// SaveVersion is the only version this loader accepts; a mismatch is
// rejected outright.
const SaveVersion = "1.0"

// Envelope is the on-disk save-file root (spec.md §6).
type Envelope struct {
	SaveVersion string      `json:"save_version"`
	Slot        string      `json:"slot"`
	Timestamp   string      `json:"timestamp"`
	Scene       SceneRecord `json:"scene"`
}

// SceneRecord is the serialized world: entities, active chunks, and
// timeline scalar state.
type SceneRecord struct {
	Version  string         `json:"version"`
	Entities []EntityRecord `json:"entities"`
	Chunks   []ChunkRecord  `json:"chunks"`
	Timeline TimelineRecord `json:"timeline"`
	Player   *PlayerRecord  `json:"player,omitempty"`
}

// EntityRecord is one SceneEntity-tagged entity: identity, optional parent
// link, and its encoded components.
type EntityRecord struct {
	Id         uint64       `json:"id"`
	Name       string       `json:"name,omitempty"`
	ParentId   *uint64      `json:"parentId,omitempty"`
	Components ComponentSet `json:"components"`
}

// ComponentSet holds one optional slot per component type the serializer
// knows how to encode (spec.md §4.14).
type ComponentSet struct {
	Position          *fabric.Position          `json:"position,omitempty"`
	Rotation          *fabric.Rotation          `json:"rotation,omitempty"`
	Scale             *fabric.Scale             `json:"scale,omitempty"`
	BoundingBox       *fabric.BoundingBox       `json:"boundingBox,omitempty"`
	LocalToWorld      *fabric.TransformComponent `json:"localToWorld,omitempty"`
	SceneEntity       bool                      `json:"sceneEntity,omitempty"`
	Renderable        *fabric.Renderable        `json:"renderable,omitempty"`
	PhysicsBodyConfig *fabric.PhysicsBodyConfig `json:"physicsBodyConfig,omitempty"`
	AIBehaviorConfig  *fabric.AIBehaviorConfig  `json:"aiBehaviorConfig,omitempty"`
	AudioSourceConfig *fabric.AudioSourceConfig `json:"audioSourceConfig,omitempty"`
}

// ChunkRecord is one active chunk's flattened density and essence arrays.
type ChunkRecord struct {
	X       int       `json:"x"`
	Y       int       `json:"y"`
	Z       int       `json:"z"`
	Density []float32 `json:"density"`
	Essence []float32 `json:"essence"`
}

type TimelineHistoryEntry struct {
	Timestamp float64 `json:"timestamp"`
}

type TimelineRecord struct {
	CurrentTime     float64                `json:"currentTime"`
	GlobalTimeScale float64                `json:"globalTimeScale"`
	IsPaused        bool                   `json:"isPaused"`
	History         []TimelineHistoryEntry `json:"history"`
}

type Vec3DTO struct {
	X, Y, Z float32
}

type PlayerRecord struct {
	Position *Vec3DTO `json:"position,omitempty"`
	Velocity *Vec3DTO `json:"velocity,omitempty"`
}
