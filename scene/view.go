package scene

import (
	"sort"

	"github.com/fabricengine/fabric"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawCall is one entity's resolved global transform, ready for submission
// to an external renderer.
type DrawCall struct {
	Entity fabric.EntityId
	World  mgl32.Mat4
}

// RenderList is the ordered set of draw calls submitted to one view/pass id.
type RenderList struct {
	ViewID int
	Calls  []DrawCall
}

// Renderer is the external submission trait; SceneView only builds
// RenderLists and a clear-color call, delegating actual draw submission.
type Renderer interface {
	ClearColor(viewID int, r, g, b, a float32)
	Submit(list RenderList)
}

// Camera supplies the view-projection matrix and eye position SceneView
// needs each frame.
type Camera struct {
	ViewProj mgl32.Mat4
	Position mgl32.Vec3
}

// SceneView owns a view id and references to a camera and world, and each
// frame culls, partitions opaque/transparent, sorts transparents
// back-to-front, and emits two render passes (spec.md §4.7).
type SceneView struct {
	ViewID int
	Camera *Camera
	Cmd    *fabric.Commands
	Culler FrustumCuller

	ClearR, ClearG, ClearB, ClearA float32
}

func NewSceneView(viewID int, camera *Camera, cmd *fabric.Commands) *SceneView {
	return &SceneView{ViewID: viewID, Camera: camera, Cmd: cmd}
}

// Render performs the per-frame sequence: compute frustum, cull, partition,
// sort, emit opaque pass at ViewID+1 and transparent pass at ViewID+2.
func (v *SceneView) Render(r Renderer) {
	r.ClearColor(v.ViewID, v.ClearR, v.ClearG, v.ClearB, v.ClearA)

	frustum := ExtractFrustum(v.Camera.ViewProj)
	visible := v.Culler.Cull(v.Cmd, frustum)

	var opaque, transparent []fabric.EntityId
	for _, vis := range visible {
		if v.hasTransparentTag(vis.Entity) {
			transparent = append(transparent, vis.Entity)
		} else {
			opaque = append(opaque, vis.Entity)
		}
	}

	sort.Slice(transparent, func(i, j int) bool {
		return v.sqDistFromCamera(transparent[i]) > v.sqDistFromCamera(transparent[j])
	})

	r.Submit(RenderList{ViewID: v.ViewID + 1, Calls: v.toDrawCalls(opaque)})
	r.Submit(RenderList{ViewID: v.ViewID + 2, Calls: v.toDrawCalls(transparent)})
}

func (v *SceneView) hasTransparentTag(id fabric.EntityId) bool {
	for _, c := range v.Cmd.GetAllComponents(id) {
		if _, ok := c.(fabric.TransparentTag); ok {
			return true
		}
	}
	return false
}

func (v *SceneView) worldTransform(id fabric.EntityId) mgl32.Mat4 {
	for _, c := range v.Cmd.GetAllComponents(id) {
		if t, ok := c.(fabric.TransformComponent); ok {
			return t.Matrix()
		}
	}
	for _, c := range v.Cmd.GetAllComponents(id) {
		if p, ok := c.(fabric.Position); ok {
			return mgl32.Translate3D(p.X, p.Y, p.Z)
		}
	}
	return mgl32.Ident4()
}

func (v *SceneView) sqDistFromCamera(id fabric.EntityId) float32 {
	m := v.worldTransform(id)
	pos := mgl32.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
	d := pos.Sub(v.Camera.Position)
	return d.Dot(d)
}

func (v *SceneView) toDrawCalls(ids []fabric.EntityId) []DrawCall {
	calls := make([]DrawCall, 0, len(ids))
	for _, id := range ids {
		calls = append(calls, DrawCall{Entity: id, World: v.worldTransform(id)})
	}
	return calls
}
