package scene

import (
	"github.com/fabricengine/fabric"
	"github.com/go-gl/mathgl/mgl32"
)

// InterpolateTransform blends prev and current transforms by alpha in
// [0,1]: position and scale component-wise lerp, rotation slerp of unit
// quaternions. Used by the renderer to smooth fixed-tick state onto the
// variable display frame (spec.md §4.8), grounded on the teacher's
// Transform composition (voxelrt/rt/core/transform.go).
func InterpolateTransform(prev, current fabric.TransformComponent, alpha float32) fabric.TransformComponent {
	return fabric.TransformComponent{
		Position: lerpVec3(prev.Position, current.Position, alpha),
		Rotation: mgl32.QuatSlerp(prev.Rotation, current.Rotation, alpha),
		Scale:    lerpVec3(prev.Scale, current.Scale, alpha),
	}
}

func lerpVec3(a, b mgl32.Vec3, alpha float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}
