// Package anim implements the skinned animation pipeline of spec.md §4.12:
// sampler, blend, hierarchy composition, skinning matrices, the ECS
// animation system, and wrap-around animation events. No third-party
// skeletal-animation sampler is wired here — none of the retrieved example
// repos depends on one (mgl32 supplies every matrix/quaternion primitive
// needed); see DESIGN.md.
package anim

import "github.com/go-gl/mathgl/mgl32"

// Joint is one bone in a skeleton: its parent index (-1 for root) and its
// rest-pose local transform.
type Joint struct {
	Parent    int
	RestLocal mgl32.Mat4
}

// Skeleton is an ordered joint hierarchy; parents always precede children.
type Skeleton struct {
	Joints []Joint
}

// NumSoaJoints is the SoA lane count for this skeleton: four joints share
// one vector lane (spec.md glossary "SoA").
func (s Skeleton) NumSoaJoints() int {
	return (len(s.Joints) + 3) / 4
}

// RestLocals returns every joint's rest-pose local transform, the sampler's
// identity fallback for underweighted blends.
func (s Skeleton) RestLocals() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(s.Joints))
	for i, j := range s.Joints {
		out[i] = j.RestLocal
	}
	return out
}

// RestModels composes the skeleton's rest pose to model space.
func (s Skeleton) RestModels() []mgl32.Mat4 {
	return LocalToModel(s, s.RestLocals())
}
