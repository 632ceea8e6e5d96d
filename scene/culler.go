// Package scene implements the ECS-external frustum culler and per-frame
// scene view of spec.md §4.7, generalized from the teacher's
// voxelrt/rt/core.CameraState.ExtractFrustum / Scene.Commit into a
// renderer-agnostic pass over fabric entities.
package scene

import (
	"github.com/fabricengine/fabric"
	"github.com/fabricengine/fabric/bvh"
	"github.com/go-gl/mathgl/mgl32"
)

// ExtractFrustum extracts six inward-facing planes from a column-major
// view-projection matrix by the Gribb-Hartmann sum/difference of rows,
// grounded on the teacher's CameraState.ExtractFrustum (voxelrt/rt/core/camera.go).
func ExtractFrustum(vp mgl32.Mat4) bvh.Frustum {
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(i, 0), vp.At(i, 1), vp.At(i, 2), vp.At(i, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes := [6]mgl32.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}
	for i, p := range planes {
		n := mgl32.Vec3{p.X(), p.Y(), p.Z()}.Len()
		if n > 0 {
			planes[i] = p.Mul(1 / n)
		}
	}
	return bvh.Frustum{Planes: planes}
}

// FrustumCuller iterates entities carrying Position and tests each
// BoundingBox-bearing entity against the extracted frustum planes.
// Entities lacking a BoundingBox are always kept (spec.md §4.7).
type FrustumCuller struct{}

// Visible holds one culled entity and its classification.
type Visible struct {
	Entity         fabric.EntityId
	Classification bvh.Classification
}

// Cull runs the culler over world (via cmd) for the given frustum, returning
// every entity that has a Position and is not classified Outside.
func (FrustumCuller) Cull(cmd *fabric.Commands, f bvh.Frustum) []Visible {
	q := fabric.MakeQuery2[fabric.Position, fabric.BoundingBox](cmd)
	var out []Visible

	q.Map(func(id fabric.EntityId, pos *fabric.Position, box *fabric.BoundingBox) bool {
		if box == nil {
			out = append(out, Visible{Entity: id, Classification: bvh.Inside})
			return true
		}
		aabb := bvh.AABB{Min: box.Min, Max: box.Max}
		class := bvh.ClassifyAABB(f, aabb)
		if class != bvh.Outside {
			out = append(out, Visible{Entity: id, Classification: class})
		}
		return true
	}, fabric.BoundingBox{})

	return out
}
