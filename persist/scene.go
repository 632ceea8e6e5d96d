package persist

import (
	"github.com/fabricengine/fabric"
	"github.com/fabricengine/fabric/temporal"
	"github.com/fabricengine/fabric/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneSerializer traverses SceneEntity-tagged entities and active voxel
// chunks into a SceneRecord, and restores a SceneRecord back into a world.
type SceneSerializer struct{}

// Serialize traverses every SceneEntity and emits its id, name, parent link,
// and encoded components, plus every active density/essence chunk and the
// timeline's scalar state (spec.md §4.14).
func (SceneSerializer) Serialize(
	cmd *fabric.Commands,
	density voxel.DensityField,
	essence voxel.EssenceField,
	timeline *temporal.Timeline,
	playerPos, playerVel *mgl32.Vec3,
) SceneRecord {
	record := SceneRecord{Version: "1.0"}

	q := fabric.MakeQuery1[fabric.SceneEntity](cmd)
	q.Map(func(id fabric.EntityId, _ *fabric.SceneEntity) bool {
		record.Entities = append(record.Entities, encodeEntity(cmd, id))
		return true
	})

	record.Chunks = serializeChunks(density, essence)
	record.Timeline = serializeTimeline(timeline)

	if playerPos != nil || playerVel != nil {
		record.Player = &PlayerRecord{}
		if playerPos != nil {
			record.Player.Position = &Vec3DTO{playerPos.X(), playerPos.Y(), playerPos.Z()}
		}
		if playerVel != nil {
			record.Player.Velocity = &Vec3DTO{playerVel.X(), playerVel.Y(), playerVel.Z()}
		}
	}

	return record
}

func encodeEntity(cmd *fabric.Commands, id fabric.EntityId) EntityRecord {
	rec := EntityRecord{Id: uint64(id)}
	for _, c := range cmd.GetAllComponents(id) {
		switch v := c.(type) {
		case fabric.Position:
			rec.Components.Position = &v
		case fabric.Rotation:
			rec.Components.Rotation = &v
		case fabric.Scale:
			rec.Components.Scale = &v
		case fabric.BoundingBox:
			rec.Components.BoundingBox = &v
		case fabric.TransformComponent:
			rec.Components.LocalToWorld = &v
		case fabric.SceneEntity:
			rec.Components.SceneEntity = true
		case fabric.Renderable:
			rec.Components.Renderable = &v
		case fabric.PhysicsBodyConfig:
			rec.Components.PhysicsBodyConfig = &v
		case fabric.AIBehaviorConfig:
			rec.Components.AIBehaviorConfig = &v
		case fabric.AudioSourceConfig:
			rec.Components.AudioSourceConfig = &v
		case fabric.Name:
			rec.Name = v.Value
		case fabric.Parent:
			parentId := uint64(v.Entity)
			rec.ParentId = &parentId
		}
	}
	return rec
}

func serializeChunks(density voxel.DensityField, essence voxel.EssenceField) []ChunkRecord {
	seen := make(map[voxel.ChunkCoord]bool)
	var coords []voxel.ChunkCoord
	for _, c := range density.ActiveChunks() {
		if !seen[c] {
			seen[c] = true
			coords = append(coords, c)
		}
	}
	for _, c := range essence.ActiveChunks() {
		if !seen[c] {
			seen[c] = true
			coords = append(coords, c)
		}
	}

	chunks := make([]ChunkRecord, 0, len(coords))
	const s = voxel.ChunkSize
	for _, c := range coords {
		rec := ChunkRecord{
			X:       c.X,
			Y:       c.Y,
			Z:       c.Z,
			Density: make([]float32, 0, s*s*s),
			Essence: make([]float32, 0, s*s*s*4),
		}
		baseX, baseY, baseZ := c.X*s, c.Y*s, c.Z*s
		for lz := 0; lz < s; lz++ {
			for ly := 0; ly < s; ly++ {
				for lx := 0; lx < s; lx++ {
					x, y, z := baseX+lx, baseY+ly, baseZ+lz
					rec.Density = append(rec.Density, density.Get(x, y, z))
					e := essence.Get(x, y, z)
					rec.Essence = append(rec.Essence, e.X(), e.Y(), e.Z(), e.W())
				}
			}
		}
		chunks = append(chunks, rec)
	}
	return chunks
}

func serializeTimeline(timeline *temporal.Timeline) TimelineRecord {
	if timeline == nil {
		return TimelineRecord{}
	}
	history := timeline.History()
	rec := TimelineRecord{
		CurrentTime:     timeline.CurrentTime(),
		GlobalTimeScale: timeline.GlobalTimeScale(),
		IsPaused:        timeline.IsPaused(),
		History:         make([]TimelineHistoryEntry, len(history)),
	}
	for i, h := range history {
		rec.History[i] = TimelineHistoryEntry{Timestamp: h.Timestamp}
	}
	return rec
}

// Deserialize applies a SceneRecord to a fresh world: every entity is
// recreated (ids are not preserved), components are defaulted permissively
// when absent, and parent links are rewired in a second pass over the
// original-id-to-new-id map (spec.md §4.14).
func (SceneSerializer) Deserialize(
	cmd *fabric.Commands,
	record SceneRecord,
	density voxel.DensityField,
	essence voxel.EssenceField,
) map[uint64]fabric.EntityId {
	idMap := make(map[uint64]fabric.EntityId, len(record.Entities))

	for _, er := range record.Entities {
		var components []any
		cs := er.Components
		if cs.Position != nil {
			components = append(components, *cs.Position)
		}
		if cs.Rotation != nil {
			components = append(components, *cs.Rotation)
		} else {
			components = append(components, fabric.IdentityRotation())
		}
		if cs.Scale != nil {
			components = append(components, *cs.Scale)
		}
		if cs.BoundingBox != nil {
			components = append(components, *cs.BoundingBox)
		}
		if cs.LocalToWorld != nil {
			components = append(components, *cs.LocalToWorld)
		}
		if cs.SceneEntity {
			components = append(components, fabric.SceneEntity{})
		}
		if cs.Renderable != nil {
			components = append(components, *cs.Renderable)
		}
		if cs.PhysicsBodyConfig != nil {
			components = append(components, *cs.PhysicsBodyConfig)
		}
		if cs.AIBehaviorConfig != nil {
			components = append(components, *cs.AIBehaviorConfig)
		}
		if cs.AudioSourceConfig != nil {
			components = append(components, *cs.AudioSourceConfig)
		}
		if er.Name != "" {
			components = append(components, fabric.Name{Value: er.Name})
		}

		newId := cmd.AddEntity(components...)
		idMap[er.Id] = newId
	}

	for _, er := range record.Entities {
		if er.ParentId == nil {
			continue
		}
		parent, ok := idMap[*er.ParentId]
		if !ok {
			continue
		}
		cmd.AddComponents(idMap[er.Id], fabric.Parent{Entity: parent})
	}

	const s = voxel.ChunkSize
	for _, ch := range record.Chunks {
		baseX, baseY, baseZ := ch.X*s, ch.Y*s, ch.Z*s
		i := 0
		for lz := 0; lz < s; lz++ {
			for ly := 0; ly < s; ly++ {
				for lx := 0; lx < s; lx++ {
					x, y, z := baseX+lx, baseY+ly, baseZ+lz
					if i < len(ch.Density) {
						density.Set(x, y, z, ch.Density[i])
					}
					ei := i * 4
					if ei+3 < len(ch.Essence) {
						essence.Set(x, y, z, mgl32.Vec4{ch.Essence[ei], ch.Essence[ei+1], ch.Essence[ei+2], ch.Essence[ei+3]})
					}
					i++
				}
			}
		}
	}

	return idMap
}

// ApplyTimeline restores a Timeline's scalar state from a TimelineRecord:
// current time, global scale, paused flag, and the snapshot history
// timestamps (blob-free; save files don't round-trip snapshot payloads,
// only their timestamps).
func ApplyTimeline(timeline *temporal.Timeline, rec TimelineRecord) {
	timeline.SetGlobalTimeScale(rec.GlobalTimeScale)
	timeline.RestoreCurrentTime(rec.CurrentTime)
	timeline.SetPaused(rec.IsPaused)
	for _, h := range rec.History {
		timeline.RestoreCurrentTime(h.Timestamp)
		timeline.Snapshot(nil)
	}
	timeline.RestoreCurrentTime(rec.CurrentTime)
}
