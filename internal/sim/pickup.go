package sim

import (
	"dronearena/internal/mathx"
	"dronearena/internal/physics"
)

// Pickup respawn delays, matching original_source/src/settings.h's
// PICKUP_RESPAWN_WAIT and SUDDEN_DEATH_PICKUP_RESPAWN_WAIT. Pickups respawn
// faster once sudden death begins so the shrinking arena doesn't starve
// drones of weapons.
const (
	pickupRespawnWait            = 3.0
	suddenDeathPickupRespawnWait = 2.0
)

// Pickup is a weapon-pickup entity: a sensor body a drone can walk through
// to swap its current weapon, grounded on
// original_source/src/types.h's weaponPickupEntity.
type Pickup struct {
	Body                  *physics.Body
	Weapon                WeaponKind
	CellIdx               int
	RespawnWait           float64 // seconds until this pickup becomes collectable again, 0 = active
	FloatingWallsTouching int     // a pickup under a floating wall is inert until uncovered
}

// NewPickup spawns a sensor body for kind at pos.
func NewPickup(w *physics.World, kind WeaponKind, pos mathx.Vec2, cellIdx int) *Pickup {
	body := w.CreateCircleBody(pos, 0.5, 0, false, physics.DefaultPickupFilter(), true, physics.EntityWeaponPickup, cellIdx)
	return &Pickup{Body: body, Weapon: kind, CellIdx: cellIdx}
}

// Active reports whether a drone can currently collect this pickup.
func (p *Pickup) Active() bool {
	return p.RespawnWait == 0 && p.FloatingWallsTouching == 0
}

// Collect marks the pickup consumed and starts its respawn timer. The wait
// is shorter while sudden death is active (spec.md §4.2).
func (p *Pickup) Collect(suddenDeathActive bool) {
	if suddenDeathActive {
		p.RespawnWait = suddenDeathPickupRespawnWait
		return
	}
	p.RespawnWait = pickupRespawnWait
}

// UpdateTimer decays the respawn timer.
func (p *Pickup) UpdateTimer(dt float64) {
	if p.RespawnWait > 0 {
		p.RespawnWait -= dt
		if p.RespawnWait < 0 {
			p.RespawnWait = 0
		}
	}
}

func weightedPick(rng *mathx.RNG, kinds []WeaponKind, weights []float64, total float64) WeaponKind {
	if len(kinds) == 0 {
		return WeaponStandard
	}
	roll := rng.Float64() * total
	acc := 0.0
	for i, wgt := range weights {
		acc += wgt
		if roll <= acc {
			return kinds[i]
		}
	}
	return kinds[len(kinds)-1]
}
</content>
