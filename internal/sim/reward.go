package sim

import (
	"math"

	"dronearena/internal/mathx"
)

// Reward shaping constants, grounded on
// original_source/src/settings.h's reward block. The reference source's
// kill reward is not part of spec.md §4.6's reward term list — a kill is
// already covered by the eventual WIN_REWARD and the victim's
// deathPunishment — so no kill-reward constant is defined here.
const (
	winReward              = 2.0
	deathPunishment        = -1.5
	weaponPickupReward     = 0.5
	shotHitRewardCoef      = 0.000013333
	explosionHitRewardCoef = 5.0

	maxSpeed = 500.0 // original_source/src/settings.h MAX_SPEED, scales the hit-reward speed delta
)

// scaleUnit maps x/max into [0,1], matching spec.md §4.7's scale(x, max,
// clamp_unit=true) used for both observation encoding and the shot-hit
// reward term.
func scaleUnit(x, max float64) float64 {
	v := x / max
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scaleSigned maps a value in [-max, max] into [0,1], matching spec.md
// §4.7's scale(x, max, clamp_unit=false) = (x+max)/(2*max), clamped.
func scaleSigned(x, max float64) float64 {
	return scaleUnit(x+max, 2*max)
}

// computeRewards fills rewards[i] for the frame just resolved from each
// drone's per-step flags (spec.md §4.6's reward terms) and accumulates the
// per-drone episode total used for the log entry at round end. winner is
// the sole survivor's drone index, or -1 if the round has not ended (or
// ended without a sole survivor).
func (env *Env) computeRewards(winner int) {
	for i, d := range env.Drones {
		var r float64

		if d.DiedThisStep {
			r += deathPunishment
		}
		if d.StepInfo.PickedUpWeapon {
			r += weaponPickupReward
		}

		for j, hit := range d.StepInfo.ShotHit {
			if !hit {
				continue
			}
			victim := env.Drones[j]
			deltaSpeed := math.Abs(mathx.Norm(victim.Body.Velocity()) - mathx.Norm(victim.LastVelocity))
			r += shotHitRewardCoef * scaleUnit(deltaSpeed, maxSpeed)
		}
		for j, hit := range d.StepInfo.ExplosionHit {
			if !hit {
				continue
			}
			victim := env.Drones[j]
			deltaSpeed := math.Abs(mathx.Norm(victim.Body.Velocity()) - mathx.Norm(victim.LastVelocity))
			r += explosionHitRewardCoef * scaleUnit(deltaSpeed, maxSpeed)
		}

		if i == winner {
			r += winReward
		}

		env.Rewards[i] += r
		env.episodeReward[i] += r
	}
}
