package anim

import "github.com/go-gl/mathgl/mgl32"

// Transform is one joint's local TRS pose.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Pose is a per-joint array of local transforms, the Go realization of the
// SoA locals buffer spec.md §4.12 describes (NumSoaJoints governs its
// packed lane count for a GPU-facing buffer; here it's addressed by joint
// index directly).
type Pose []Transform

// Keyframe is one sample of a single joint's track.
type Keyframe struct {
	Time        float32
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// JointTrack is one joint's keyframe list, sorted ascending by time.
type JointTrack struct {
	Keyframes []Keyframe
}

// Clip is a named animation: one track per joint plus its duration.
type Clip struct {
	Name     string
	Duration float32
	Tracks   []JointTrack
}

// AnimationSampler wraps sampling a clip's tracks into a Pose at a given
// time ratio.
type AnimationSampler struct{}

// Sample fills a Pose of size len(skeleton.Joints) by evaluating each
// joint's track at time r*clip.Duration, falling back to the skeleton's
// rest-local transform for joints the clip doesn't animate.
func (AnimationSampler) Sample(clip Clip, skeleton Skeleton, r float32) Pose {
	t := r * clip.Duration
	out := make(Pose, len(skeleton.Joints))
	for i, joint := range skeleton.Joints {
		if i >= len(clip.Tracks) || len(clip.Tracks[i].Keyframes) == 0 {
			out[i] = decompose(joint.RestLocal)
			continue
		}
		out[i] = sampleTrack(clip.Tracks[i], t)
	}
	return out
}

func sampleTrack(track JointTrack, t float32) Transform {
	kfs := track.Keyframes
	if t <= kfs[0].Time {
		return kfs[0].asTransform()
	}
	last := kfs[len(kfs)-1]
	if t >= last.Time {
		return last.asTransform()
	}
	for i := 0; i < len(kfs)-1; i++ {
		a, b := kfs[i], kfs[i+1]
		if t >= a.Time && t <= b.Time {
			span := b.Time - a.Time
			w := float32(0)
			if span > 0 {
				w = (t - a.Time) / span
			}
			return Transform{
				Translation: a.Translation.Add(b.Translation.Sub(a.Translation).Mul(w)),
				Rotation:    mgl32.QuatSlerp(a.Rotation, b.Rotation, w),
				Scale:       a.Scale.Add(b.Scale.Sub(a.Scale).Mul(w)),
			}
		}
	}
	return last.asTransform()
}

func (k Keyframe) asTransform() Transform {
	return Transform{Translation: k.Translation, Rotation: k.Rotation, Scale: k.Scale}
}

func decompose(m mgl32.Mat4) Transform {
	translation := mgl32.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
	sx := mgl32.Vec3{m.At(0, 0), m.At(1, 0), m.At(2, 0)}.Len()
	sy := mgl32.Vec3{m.At(0, 1), m.At(1, 1), m.At(2, 1)}.Len()
	sz := mgl32.Vec3{m.At(0, 2), m.At(1, 2), m.At(2, 2)}.Len()
	rot := mgl32.Mat4ToQuat(m)
	return Transform{Translation: translation, Rotation: rot, Scale: mgl32.Vec3{sx, sy, sz}}
}
