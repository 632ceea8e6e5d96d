package anim

import "github.com/go-gl/mathgl/mgl32"

// blendFallbackThreshold is the weight below which a pose falls back to the
// skeleton's rest pose for a given joint (spec.md §4.12).
const blendFallbackThreshold = 0.1

// Blend performs a normalized linear blend of poses a and b with weights
// (1-w, w), falling back to the skeleton's rest pose when a pose's weight
// for this blend drops below blendFallbackThreshold.
func Blend(skeleton Skeleton, a, b Pose, w float32, out Pose) {
	rest := skeleton.RestLocals()
	wa, wb := 1-w, w

	for i := range out {
		ta, tb := a[i], b[i]
		if wa < blendFallbackThreshold {
			ta = decompose(rest[i])
		}
		if wb < blendFallbackThreshold {
			tb = decompose(rest[i])
		}
		out[i] = Transform{
			Translation: ta.Translation.Mul(wa).Add(tb.Translation.Mul(wb)),
			Rotation:    mgl32.QuatSlerp(ta.Rotation, tb.Rotation, wb),
			Scale:       ta.Scale.Mul(wa).Add(tb.Scale.Mul(wb)),
		}
	}
}
