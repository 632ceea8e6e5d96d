package anim

import (
	"math"

	"github.com/fabricengine/fabric"
	"github.com/go-gl/mathgl/mgl32"
)

// AnimationState is the per-entity playback cursor.
type AnimationState struct {
	Clip    Clip
	Time    float32
	Speed   float32
	Loop    bool
	Playing bool
}

// SkinningData holds the computed joint matrices a renderer uploads.
type SkinningData struct {
	JointMatrices []mgl32.Mat4
}

// SkeletonComponent wraps a Skeleton as an ECS component.
type SkeletonComponent struct {
	Skeleton Skeleton
}

// RunAnimationSystem advances every (SkeletonComponent, AnimationState,
// SkinningData) entity whose state is playing: advances time by dt*speed,
// wraps or clamps depending on Loop, samples the pose, composes to model
// space, computes skinning matrices, and writes them to SkinningData
// (spec.md §4.12).
func RunAnimationSystem(cmd *fabric.Commands, dt float32) {
	q := fabric.MakeQuery3[SkeletonComponent, AnimationState, SkinningData](cmd)
	sampler := AnimationSampler{}

	q.Map(func(id fabric.EntityId, skel *SkeletonComponent, state *AnimationState, skin *SkinningData) bool {
		if !state.Playing {
			return true
		}
		state.Time += dt * state.Speed
		duration := state.Clip.Duration
		if state.Loop {
			if duration > 0 {
				state.Time = wrapTime(state.Time, duration)
			}
		} else if state.Time >= duration {
			state.Time = duration
			state.Playing = false
		}

		ratio := float32(0)
		if duration > 0 {
			ratio = state.Time / duration
		}
		pose := sampler.Sample(state.Clip, skel.Skeleton, ratio)
		locals := PoseToLocals(pose)
		models := LocalToModel(skel.Skeleton, locals)
		skin.JointMatrices = ComputeSkinningMatrices(skel.Skeleton, models)
		return true
	})
}

// wrapTime folds t into [0,duration) for looped playback.
func wrapTime(t, duration float32) float32 {
	t = mod32(t, duration)
	if t < 0 {
		t += duration
	}
	return t
}

func mod32(a, b float32) float32 {
	return float32(math.Mod(float64(a), float64(b)))
}
