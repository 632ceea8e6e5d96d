// Package raycast implements 3D DDA voxel raycasting and the edit
// operations built on top of it, generalized from the teacher's
// XBrickMap.RayMarch/stepToNext (voxelrt/rt/volume/xbrickmap.go) — a
// brick/sector-aware marcher tuned to that storage layout — into a
// DensityField-only DDA walker per spec.md §4.6.
package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/fabricengine/fabric/voxel"
)

// Hit describes a successful raycast against a density field.
type Hit struct {
	X, Y, Z    int
	NX, NY, NZ int
	Distance   float32
}

// Cast walks from origin along dir (must be normalized) stepping voxel by
// voxel, always advancing the axis with the smallest tMax, per the 3D DDA
// algorithm. It stops at the first cell whose density is >= threshold, or
// once travel reaches maxDistance.
func Cast(density voxel.DensityField, origin, dir mgl32.Vec3, maxDistance, threshold float32) (Hit, bool) {
	x, y, z := int(math.Floor(float64(origin.X()))), int(math.Floor(float64(origin.Y()))), int(math.Floor(float64(origin.Z())))

	stepX, tMaxX, tDeltaX := ddaAxis(origin.X(), dir.X())
	stepY, tMaxY, tDeltaY := ddaAxis(origin.Y(), dir.Y())
	stepZ, tMaxZ, tDeltaZ := ddaAxis(origin.Z(), dir.Z())

	var lastAxis int // 0=x,1=y,2=z, sign carried by step*
	var lastStep int

	if density.Get(x, y, z) >= threshold {
		return Hit{X: x, Y: y, Z: z}, true
	}

	for {
		var t float32
		if tMaxX < tMaxY && tMaxX < tMaxZ {
			t = tMaxX
			x += stepX
			tMaxX += tDeltaX
			lastAxis, lastStep = 0, stepX
		} else if tMaxY < tMaxZ {
			t = tMaxY
			y += stepY
			tMaxY += tDeltaY
			lastAxis, lastStep = 1, stepY
		} else {
			t = tMaxZ
			z += stepZ
			tMaxZ += tDeltaZ
			lastAxis, lastStep = 2, stepZ
		}

		if t > maxDistance {
			return Hit{}, false
		}

		if density.Get(x, y, z) >= threshold {
			hit := Hit{X: x, Y: y, Z: z, Distance: t}
			switch lastAxis {
			case 0:
				hit.NX = -lastStep
			case 1:
				hit.NY = -lastStep
			case 2:
				hit.NZ = -lastStep
			}
			return hit, true
		}
	}
}

// ddaAxis computes the initial step direction, tMax, and tDelta for one axis
// of the DDA walk, per Amanatides & Woo.
func ddaAxis(origin, dir float32) (step int, tMax, tDelta float32) {
	if dir > 0 {
		step = 1
		next := float32(math.Floor(float64(origin))) + 1
		tMax = (next - origin) / dir
		tDelta = 1 / dir
	} else if dir < 0 {
		step = -1
		next := float32(math.Floor(float64(origin)))
		tMax = (next - origin) / dir
		tDelta = -1 / dir
	} else {
		step = 0
		tMax = float32(math.Inf(1))
		tDelta = float32(math.Inf(1))
	}
	return
}
