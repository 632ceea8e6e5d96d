package pathfind

import "github.com/go-gl/mathgl/mgl32"

// Seek returns normalize(target-cur)*maxSpeed, or zero if coincident.
func Seek(cur, target mgl32.Vec3, maxSpeed float32) mgl32.Vec3 {
	dir := target.Sub(cur)
	if dir.Len() == 0 {
		return mgl32.Vec3{}
	}
	return dir.Normalize().Mul(maxSpeed)
}

// Arrive returns Seek scaled by min(1, dist/slowRadius).
func Arrive(cur, target mgl32.Vec3, maxSpeed, slowRadius float32) mgl32.Vec3 {
	dir := target.Sub(cur)
	dist := dir.Len()
	if dist == 0 {
		return mgl32.Vec3{}
	}
	scale := float32(1)
	if slowRadius > 0 && dist/slowRadius < 1 {
		scale = dist / slowRadius
	}
	return dir.Normalize().Mul(maxSpeed * scale)
}

// PathFollower tracks progress through a waypoint list.
type PathFollower struct {
	Waypoints        []mgl32.Vec3
	CurrentWaypoint  int
	ArrivalThreshold float32
	Complete         bool
}

// AdvancePathFollower advances currentWaypoint while the current waypoint
// is within arrivalThreshold of cur; sets complete=true when past the last
// waypoint. An empty waypoint list sets complete=true immediately and makes
// no further progress (spec.md §8 boundary behavior).
func AdvancePathFollower(f *PathFollower, cur mgl32.Vec3) {
	if len(f.Waypoints) == 0 {
		f.Complete = true
		return
	}
	for f.CurrentWaypoint < len(f.Waypoints) {
		d := f.Waypoints[f.CurrentWaypoint].Sub(cur)
		if d.Len() > f.ArrivalThreshold {
			break
		}
		f.CurrentWaypoint++
	}
	if f.CurrentWaypoint >= len(f.Waypoints) {
		f.Complete = true
	}
}
