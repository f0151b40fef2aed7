package sim

import (
	"dronearena/internal/mathx"
	"dronearena/internal/physics"
)

// Movement/energy/burst constants, grounded on
// original_source/src/settings.h.
const (
	droneRadius        = 1.0
	droneDensity       = 1.25
	droneLinearDamping = 1.0
	droneMoveMagnitude = 35.0

	droneEnergyMax = 1.0

	droneBrakeDrainRate = 0.5

	energyRefillWait      = 1.0  // seconds of not braking/bursting before energy starts refilling
	energyRefillEmptyWait = 3.0  // seconds from fully empty before refill starts
	energyRefillRate      = 0.03 // energy fraction refilled per second once refill is active

	droneBurstChargeRate = 0.6
	droneBurstRadiusBase = 4.0
	droneBurstRadiusMin  = 3.0
	droneBurstImpactBase = 125.0
	droneBurstImpactMin  = 25.0
	droneBurstCooldown   = 0.5

	weaponDiscardCost = 0.2

	// actionNoopMagnitude matches original_source/src/settings.h's
	// ACTION_NOOP_MAGNITUDE: continuous move/aim inputs below this length
	// are treated as no input at all (spec.md §4.3).
	actionNoopMagnitude = 0.1
)

// dtStep is the fixed per-physics-substep timestep every per-tick decay in
// this package integrates against. It is a package constant rather than a
// parameter threaded through every call because spec.md §2 fixes Δt for
// the whole engine; Env.StepEnv passes physicsDt, which has the same value,
// to World.Step.
const dtStep = 1.0 / 60.0

// Stats mirrors original_source/src/types.h's droneStats: per-weapon
// counters accumulated across an episode, surfaced through a LogEntry at
// episode end.
type Stats struct {
	DistanceTraveled float64
	ShotsFired       [numWeaponKinds]float64
	ShotsHit         [numWeaponKinds]float64
	ShotsTaken       [numWeaponKinds]float64
	OwnShotsTaken    [numWeaponKinds]float64
	WeaponsPickedUp  [numWeaponKinds]float64
	// ShotDistances is indexed by weapon kind, not by drone index, unlike
	// original_source's shotDistances[droneIdx][droneIdx] double-indexing.
	ShotDistances [numWeaponKinds]float64
}

// StepInfo records per-frame flags cleared at the start of every step,
// mirroring spec.md §3's droneStepInfo.
type StepInfo struct {
	PickedUpWeapon bool
	PrevWeapon     WeaponKind
	FiredShot      bool
	ShotHit        []bool
	ShotTaken      []bool
	OwnShotTaken   bool
	ExplosionHit   []bool
	ExplosionTaken []bool
}

// Drone is one agent's controllable entity.
type Drone struct {
	Idx  int
	Body *physics.Body

	Weapon         WeaponKind
	Ammo           int // -1 = infinite
	WeaponCooldown float64
	Heat           float64
	ChargingWeapon bool
	WeaponCharge   float64

	EnergyLeft          float64 // 0..1
	Braking             bool
	ChargingBurst       bool
	BurstCharge         float64 // 0..1
	BurstCooldown       float64
	EnergyFullyDepleted bool
	EnergyRefillWait    float64

	ShotThisStep bool
	DiedThisStep bool

	InitialPos   mathx.Vec2
	LastMove     mathx.Vec2
	LastAim      mathx.Vec2 // unit vector, starts pointing "up" per spec.md §3
	LastVelocity mathx.Vec2

	StepInfo StepInfo
	Dead     bool

	Stats Stats

	// defaultWeapon is the map's default weapon, stamped at creation so
	// ammo exhaustion / discard can revert to it without a back-reference
	// to the owning Env.
	defaultWeapon WeaponKind
}

// NewDrone creates a drone body at pos with the map's default weapon.
func NewDrone(w *physics.World, idx int, pos mathx.Vec2, weapon WeaponKind) *Drone {
	body := w.CreateCircleBody(pos, droneRadius, droneDensity, true, physics.DefaultDroneFilter(), false, physics.EntityDrone, idx)
	return &Drone{
		Idx:           idx,
		Body:          body,
		Weapon:        weapon,
		Ammo:          ammoFor(weapon),
		InitialPos:    pos,
		LastAim:       mathx.Vec2{X: 0, Y: -1},
		EnergyLeft:    droneEnergyMax,
		defaultWeapon: weapon,
	}
}

func ammoFor(weapon WeaponKind) int {
	if weapon == WeaponStandard {
		return -1
	}
	return 1
}

// SetDefaultWeapon updates the weapon ammo-exhaustion/discard reverts to
// (used when a map's default differs from what a drone spawned with).
func (d *Drone) SetDefaultWeapon(w WeaponKind) { d.defaultWeapon = w }

// BeginStep clears the per-step hit/pickup bookkeeping. Called once per
// drone at the start of every simulation step, before actions are applied.
func (d *Drone) BeginStep(numDrones int) {
	d.ShotThisStep = false
	d.DiedThisStep = false
	d.LastVelocity = d.Body.Velocity()
	d.StepInfo = StepInfo{
		PrevWeapon:     d.Weapon,
		ShotHit:        growBoolSlice(d.StepInfo.ShotHit, numDrones),
		ShotTaken:      growBoolSlice(d.StepInfo.ShotTaken, numDrones),
		ExplosionHit:   growBoolSlice(d.StepInfo.ExplosionHit, numDrones),
		ExplosionTaken: growBoolSlice(d.StepInfo.ExplosionTaken, numDrones),
	}
}

func growBoolSlice(s []bool, n int) []bool {
	if cap(s) < n {
		return make([]bool, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = false
	}
	return s
}

// ApplyMove applies a movement force in the move direction, scaled down if
// the drone is depleted and mid-refill-wait (spec.md §4.3 Move).
func (d *Drone) ApplyMove(move mathx.Vec2) {
	if d.Dead {
		return
	}
	if mathx.Norm(move) < actionNoopMagnitude {
		move = mathx.Vec2{}
	}
	d.LastMove = move
	if move == (mathx.Vec2{}) {
		return
	}
	mag := droneMoveMagnitude
	if d.EnergyFullyDepleted && d.EnergyRefillWait > 0 {
		mag *= 0.5
	}
	d.Body.ApplyImpulse(mathx.Scale(mag, move))
}

// ApplyAim updates the drone's aim heading. A near-zero aim vector leaves
// LastAim unchanged, preserving the previous heading during a no-op
// (spec.md §4.6 step 2).
func (d *Drone) ApplyAim(aim mathx.Vec2) {
	if mathx.Norm(aim) < actionNoopMagnitude {
		return
	}
	d.LastAim = mathx.Normalize(aim)
}

// CanFire reports whether the drone's weapon is off cooldown, unless it
// has already used up its ammo.
func (d *Drone) CanFire() bool {
	return !d.Dead && d.WeaponCooldown <= 0 && d.Ammo != 0
}

// Shoot implements spec.md §4.3's shoot policy. It always marks
// ShotThisStep and always increments Heat — per spec.md §9's Open
// Question, heat increments on every call even when no shot fires, and
// this behavior is treated as canonical. It returns the number of
// projectiles to spawn this call (0 if no shot actually fired).
func (d *Drone) Shoot(holdingTrigger bool) int {
	d.ShotThisStep = true
	d.Heat++

	if d.Dead || d.WeaponCooldown > 0 {
		return 0
	}

	info := Info(d.Weapon)
	if info.Charge > 0 {
		if holdingTrigger {
			d.ChargingWeapon = true
			d.WeaponCharge += dtStep
			if d.WeaponCharge > info.Charge {
				d.WeaponCharge = info.Charge
			}
		} else {
			d.ChargingWeapon = false
			d.WeaponCharge -= dtStep
			if d.WeaponCharge < 0 {
				d.WeaponCharge = 0
			}
		}
	}

	if !holdingTrigger || d.WeaponCharge < info.Charge {
		return 0
	}

	if d.Ammo > 0 {
		d.Ammo -= info.NumProjectiles
		if d.Ammo < 0 {
			d.Ammo = 0
		}
	}
	d.WeaponCooldown = info.CoolDown
	d.WeaponCharge = 0
	d.ChargingWeapon = false
	d.StepInfo.FiredShot = true
	d.Stats.ShotsFired[d.Weapon]++

	recoil := mathx.Scale(-info.RecoilMagnitude, d.LastAim)
	d.Body.ApplyImpulse(recoil)

	if d.Ammo == 0 {
		d.revertToDefaultWeapon()
	}

	return info.NumProjectiles
}

func (d *Drone) revertToDefaultWeapon() {
	d.Weapon = d.defaultWeapon
	d.Ammo = ammoFor(d.Weapon)
	d.WeaponCharge = 0
	d.ChargingWeapon = false
}

// PickUpWeapon swaps in a newly collected weapon.
func (d *Drone) PickUpWeapon(w WeaponKind) {
	d.StepInfo.PickedUpWeapon = true
	d.Weapon = w
	d.Ammo = ammoFor(w)
	d.WeaponCooldown = 0
	d.WeaponCharge = 0
	d.ChargingWeapon = false
	d.Stats.WeaponsPickedUp[w]++
}

// Brake drains energy while held, and schedules an energy-refill wait once
// released (spec.md §4.3 Brake); releasing after full depletion keeps the
// longer empty-refill wait. It does not change the body's damping. It
// silently no-ops (releases) when the drone has no energy left to spend.
func (d *Drone) Brake(held bool) {
	if held && d.EnergyLeft > 0 && !d.EnergyFullyDepleted {
		d.Braking = true
		d.EnergyLeft -= droneBrakeDrainRate * dtStep
		if d.EnergyLeft <= 0 {
			d.EnergyLeft = 0
			d.EnergyFullyDepleted = true
			d.EnergyRefillWait = energyRefillEmptyWait
		}
		return
	}
	if d.Braking {
		d.Braking = false
		if !d.ChargingBurst && !d.EnergyFullyDepleted {
			d.EnergyRefillWait = energyRefillWait
		}
	}
}

// Burst charges while held and, on release with any accumulated charge,
// returns the explosion parameters spec.md §4.3 Burst describes (falloff
// is always radius/2, per spec.md's "falloff = radius/2"). ok is false
// when no burst is released this call.
func (d *Drone) Burst(held bool) (radius, falloff, impulsePerLength float64, ok bool) {
	if held {
		d.ChargingBurst = true
		transfer := droneBurstChargeRate * dtStep
		if transfer > d.EnergyLeft {
			transfer = d.EnergyLeft
		}
		d.EnergyLeft -= transfer
		d.BurstCharge += transfer
		if d.BurstCharge > 1 {
			d.BurstCharge = 1
		}
		if d.EnergyLeft <= 0 {
			d.EnergyFullyDepleted = true
			d.EnergyRefillWait = energyRefillEmptyWait
		}
		return 0, 0, 0, false
	}

	if !d.ChargingBurst || d.BurstCharge <= 0 {
		d.ChargingBurst = false
		return 0, 0, 0, false
	}

	radius = droneBurstRadiusMin + droneBurstRadiusBase*d.BurstCharge
	falloff = radius / 2
	impulsePerLength = droneBurstImpactMin + droneBurstImpactBase*d.BurstCharge
	d.ChargingBurst = false
	d.BurstCharge = 0
	d.BurstCooldown = droneBurstCooldown
	return radius, falloff, impulsePerLength, true
}

// CanBurst reports whether the burst cooldown has elapsed.
func (d *Drone) CanBurst() bool { return d.BurstCooldown <= 0 && !d.Dead }

// DiscardWeapon reverts to the default weapon at an energy cost, silently
// ignored while depleted (unless mid-burst-charge) or already on the
// default weapon (spec.md §4.3 Discard weapon).
func (d *Drone) DiscardWeapon() {
	if d.Weapon == d.defaultWeapon {
		return
	}
	if d.EnergyFullyDepleted && !d.ChargingBurst {
		return
	}
	d.EnergyLeft -= weaponDiscardCost
	if d.EnergyLeft < 0 {
		d.EnergyLeft = 0
		d.EnergyFullyDepleted = true
		d.EnergyRefillWait = energyRefillEmptyWait
	}
	d.revertToDefaultWeapon()
}

// UpdateTimers decays per-tick cooldown/charge/heat/energy-refill state,
// matching spec.md §4.3's per-step decay list.
func (d *Drone) UpdateTimers(dt float64) {
	decay(&d.WeaponCooldown, dt)
	decay(&d.Heat, dt)
	if !d.ChargingWeapon {
		decay(&d.WeaponCharge, dt)
	}
	decay(&d.BurstCooldown, dt)

	if d.EnergyRefillWait > 0 {
		d.EnergyRefillWait -= dt
		if d.EnergyRefillWait < 0 {
			d.EnergyRefillWait = 0
		}
		return
	}
	if d.ChargingBurst || d.Braking {
		return
	}
	if d.EnergyLeft < droneEnergyMax {
		d.EnergyLeft += energyRefillRate * dt
		if d.EnergyLeft >= droneEnergyMax {
			d.EnergyLeft = droneEnergyMax
			d.EnergyFullyDepleted = false
		}
	}
}

func decay(v *float64, dt float64) {
	if *v > 0 {
		*v -= dt
		if *v < 0 {
			*v = 0
		}
	}
}

// TakeHit applies a hit from weapon fired by attackerIdx, updating stats.
// A hit never kills the drone; env.go calls Kill only when a sudden-death
// ring closes over it. TakeHit only records bookkeeping.
func (d *Drone) TakeHit(weapon WeaponKind, attackerIdx int) {
	d.Stats.ShotsTaken[weapon]++
	if attackerIdx == d.Idx {
		d.Stats.OwnShotsTaken[weapon]++
		d.StepInfo.OwnShotTaken = true
	} else if attackerIdx >= 0 && attackerIdx < len(d.StepInfo.ShotTaken) {
		d.StepInfo.ShotTaken[attackerIdx] = true
	}
}

// Kill marks the drone dead. disableBody is false exactly when numDrones
// == 2. When it is true the body's velocity is zeroed; in both cases the
// body stays in the physics world and is not disabled.
func (d *Drone) Kill(disableBody bool) {
	if d.Dead {
		return
	}
	d.Dead = true
	d.DiedThisStep = true
	d.Braking = false
	d.ChargingBurst = false
	d.ChargingWeapon = false
	if disableBody {
		d.Body.SetVelocity(mathx.Vec2{})
	}
}

// Respawn resets a dead drone's transient state and teleports it to pos.
func (d *Drone) Respawn(pos mathx.Vec2, weapon WeaponKind) {
	d.Dead = false
	d.Weapon = weapon
	d.Ammo = ammoFor(weapon)
	d.WeaponCooldown = 0
	d.Heat = 0
	d.WeaponCharge = 0
	d.ChargingWeapon = false
	d.EnergyLeft = droneEnergyMax
	d.EnergyFullyDepleted = false
	d.EnergyRefillWait = 0
	d.Braking = false
	d.ChargingBurst = false
	d.BurstCharge = 0
	d.BurstCooldown = 0
	d.Body.Teleport(pos, 0)
	d.Body.SetVelocity(mathx.Vec2{})
}
