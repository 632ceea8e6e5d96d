// Package sim runs ordered, named rules over every active voxel cell each
// tick, generalized from the teacher's cellular-automaton grid stepping
// (the deleted ca_ecs.go's diffusion/buoyancy passes) into the generic
// SimulationHarness of spec.md §4.5.
package sim

import (
	"sort"

	"github.com/fabricengine/fabric/voxel"
)

// RuleFunc mutates one cell of the density/essence fields in place.
type RuleFunc func(density voxel.DensityField, essence voxel.EssenceField, x, y, z int, dt float32)

type namedRule struct {
	name string
	fn   RuleFunc
}

// Harness holds an ordered sequence of named rules applied to every cell of
// every active chunk each tick. Registering/removing rules between ticks is
// permitted; doing so during a tick is not (spec.md §4.5).
type Harness struct {
	Density voxel.DensityField
	Essence voxel.EssenceField

	rules    []namedRule
	inTick   bool
}

func NewHarness(density voxel.DensityField, essence voxel.EssenceField) *Harness {
	return &Harness{Density: density, Essence: essence}
}

// AddRule appends a named rule to the registration order.
func (h *Harness) AddRule(name string, fn RuleFunc) {
	if h.inTick {
		panic("sim: cannot register a rule during tick")
	}
	h.rules = append(h.rules, namedRule{name: name, fn: fn})
}

// RemoveRule removes the first rule with the given name, reporting whether
// one was found.
func (h *Harness) RemoveRule(name string) bool {
	if h.inTick {
		panic("sim: cannot remove a rule during tick")
	}
	for i, r := range h.rules {
		if r.name == name {
			h.rules = append(h.rules[:i], h.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Tick enumerates the union of active chunks of density and essence, then
// for each cell of each active chunk applies every rule in registration
// order. Cell iteration order within a chunk is stable; across chunks is
// deterministic given the same active set (sorted by coordinate here).
func (h *Harness) Tick(dt float32) {
	h.inTick = true
	defer func() { h.inTick = false }()

	active := unionActiveChunks(h.Density, h.Essence)
	for _, coord := range active {
		h.Density.ForEachCellInChunk(coord, func(x, y, z int, _ float32) {
			for _, r := range h.rules {
				r.fn(h.Density, h.Essence, x, y, z, dt)
			}
		})
	}
}

func unionActiveChunks(density voxel.DensityField, essence voxel.EssenceField) []voxel.ChunkCoord {
	set := make(map[voxel.ChunkCoord]struct{})
	for _, c := range density.ActiveChunks() {
		set[c] = struct{}{}
	}
	for _, c := range essence.ActiveChunks() {
		set[c] = struct{}{}
	}
	out := make([]voxel.ChunkCoord, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].Z < out[j].Z
	})
	return out
}

// DiffusionRule is a built-in preset averaging each cell's density with its
// six face neighbors at a fixed rate, grounded on the teacher's
// cellular-automaton diffusion step.
func DiffusionRule(rate float32) RuleFunc {
	return func(density voxel.DensityField, essence voxel.EssenceField, x, y, z int, dt float32) {
		n := density.Neighbors6(x, y, z)
		var sum float32
		for _, v := range n {
			sum += v
		}
		avg := sum / 6
		current := density.Get(x, y, z)
		density.Set(x, y, z, current+(avg-current)*rate*dt)
	}
}

// BuoyancyRule is a built-in preset that moves essence color upward
// (toward +Y) proportionally to density, grounded on the teacher's
// cellular-automaton buoyancy step.
func BuoyancyRule(strength float32) RuleFunc {
	return func(density voxel.DensityField, essence voxel.EssenceField, x, y, z int, dt float32) {
		d := density.Get(x, y, z)
		if d <= 0 {
			return
		}
		above := essence.Get(x, y+1, z)
		here := essence.Get(x, y, z)
		blend := strength * d * dt
		essence.Set(x, y+1, z, above.Add(here.Sub(above).Mul(blend)))
	}
}

// SandSettleRule is a built-in preset that transfers density downward
// (toward -Y) out of a cell once it sits above settleThreshold and the
// cell below it is nearly empty, approximating sand-like gravity settle.
// Grounded on the teacher's CellularSand preset (ca_ecs.go), left an
// unimplemented TODO there ("basic sand settle (not implemented in MVP)").
func SandSettleRule(settleThreshold, rate float32) RuleFunc {
	return func(density voxel.DensityField, essence voxel.EssenceField, x, y, z int, dt float32) {
		here := density.Get(x, y, z)
		if here < settleThreshold {
			return
		}
		below := density.Get(x, y-1, z)
		if below >= settleThreshold {
			return
		}
		fall := (here - below) * 0.5 * rate * dt
		if fall <= 0 {
			return
		}
		density.Set(x, y, z, here-fall)
		density.Set(x, y-1, z, below+fall)
		essence.Set(x, y-1, z, essence.Get(x, y, z))
	}
}

// ErosionRule is a built-in preset that wears down solid cells exposed on
// more than exposureThreshold of their six faces, decaying density at rate.
// Grounded on the CellularSand/CellularWater preset slots the teacher left
// as TODOs; simple-erosion is SimulationHarness's own addition, not a
// direct port of any teacher stepping function.
func ErosionRule(exposureThreshold float32, rate float32) RuleFunc {
	return func(density voxel.DensityField, essence voxel.EssenceField, x, y, z int, dt float32) {
		here := density.Get(x, y, z)
		if here <= 0 {
			return
		}
		n := density.Neighbors6(x, y, z)
		empty := 0
		for _, v := range n {
			if v <= 0 {
				empty++
			}
		}
		exposure := float32(empty) / 6
		if exposure <= exposureThreshold {
			return
		}
		density.Set(x, y, z, here-here*rate*dt)
	}
}
