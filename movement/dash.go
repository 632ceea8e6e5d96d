package movement

import "github.com/go-gl/mathgl/mgl32"

// DashConfig tunes dash/boost speed, duration, and cooldowns.
type DashConfig struct {
	DashDuration  float32
	DashSpeed     float32
	DashCooldown  float32
	BoostSpeed    float32
	BoostCooldown float32
}

// DashState is the mutable per-entity dash progress.
type DashState struct {
	Active            bool
	DurationRemaining float32
	CooldownRemaining float32
}

// DashController drives DashState transitions; it holds no state itself.
type DashController struct{}

// StartDash fails when cooldownRemaining > 0 (spec.md §8 boundary
// behavior); otherwise activates the dash and sets the cooldown variant
// appropriate to whether the character is airborne.
func (DashController) StartDash(state *DashState, cfg DashConfig, isAirborne bool) bool {
	if state.CooldownRemaining > 0 {
		return false
	}
	state.Active = true
	state.DurationRemaining = cfg.DashDuration
	if isAirborne {
		state.CooldownRemaining = cfg.BoostCooldown
	} else {
		state.CooldownRemaining = cfg.DashCooldown
	}
	return true
}

// Update advances an active dash by dt, returning the frame's displacement
// and whether the dash just finished this step.
func (DashController) Update(state *DashState, cfg DashConfig, dir mgl32.Vec3, dt float32, isAirborne bool) (displacement mgl32.Vec3, justFinished bool) {
	if !state.Active {
		return mgl32.Vec3{}, false
	}
	speed := cfg.DashSpeed
	if isAirborne {
		speed = cfg.BoostSpeed
	}
	displacement = dir.Mul(speed * dt)

	state.DurationRemaining -= dt
	if state.DurationRemaining <= 0 {
		state.DurationRemaining = 0
		state.Active = false
		justFinished = true
	}
	return displacement, justFinished
}

// UpdateCooldown monotonically reduces and clamps cooldown to zero.
func (DashController) UpdateCooldown(state *DashState, dt float32) {
	state.CooldownRemaining -= dt
	if state.CooldownRemaining < 0 {
		state.CooldownRemaining = 0
	}
}
