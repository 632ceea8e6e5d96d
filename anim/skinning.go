package anim

import "github.com/go-gl/mathgl/mgl32"

// LocalToModel composes a skeleton's local pose into model-space matrices;
// parents always precede children in the joint list.
func LocalToModel(skeleton Skeleton, locals []mgl32.Mat4) []mgl32.Mat4 {
	models := make([]mgl32.Mat4, len(locals))
	for i, joint := range skeleton.Joints {
		if joint.Parent < 0 {
			models[i] = locals[i]
		} else {
			models[i] = models[joint.Parent].Mul4(locals[i])
		}
	}
	return models
}

// PoseToLocals converts a Pose's per-joint TRS into local matrices.
func PoseToLocals(pose Pose) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(pose))
	for i, t := range pose {
		out[i] = t.Matrix()
	}
	return out
}

// ComputeSkinningMatrices returns models[i]*inverse(restModels[i]) for every
// joint; at rest pose this is identity for every joint (spec.md §8
// idempotence property).
func ComputeSkinningMatrices(skeleton Skeleton, models []mgl32.Mat4) []mgl32.Mat4 {
	restModels := skeleton.RestModels()
	out := make([]mgl32.Mat4, len(models))
	for i := range models {
		out[i] = models[i].Mul4(restModels[i].Inv())
	}
	return out
}
