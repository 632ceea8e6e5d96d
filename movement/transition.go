package movement

import (
	"math"

	"github.com/fabricengine/fabric/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// TransitionController computes the velocity/state pair for entering and
// exiting flight (spec.md §4.9).
type TransitionController struct{}

// EnterFlight scales horizontal velocity, sets vertical velocity to impulse,
// and reports the Flying state.
func (TransitionController) EnterFlight(v mgl32.Vec3, impulse, scale float32) (mgl32.Vec3, State) {
	return mgl32.Vec3{v.X() * scale, impulse, v.Z() * scale}, Flying
}

// ExitFlight scans downward in integer steps from floor(pos.y)-1 down to
// floor(pos.y-range); if any scanned voxel's density is >= threshold it
// zeroes vertical velocity and reports Grounded, otherwise it leaves
// velocity untouched and reports Falling.
func (TransitionController) ExitFlight(v mgl32.Vec3, pos mgl32.Vec3, grid voxel.DensityField, rng, threshold float32) (mgl32.Vec3, State) {
	top := int(math.Floor(float64(pos.Y()))) - 1
	bottom := int(math.Floor(float64(pos.Y() - rng)))
	x := int(math.Floor(float64(pos.X())))
	z := int(math.Floor(float64(pos.Z())))

	for y := top; y >= bottom; y-- {
		if grid.Get(x, y, z) >= threshold {
			return mgl32.Vec3{v.X(), 0, v.Z()}, Grounded
		}
	}
	return v, Falling
}
