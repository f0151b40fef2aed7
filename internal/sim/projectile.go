package sim

import (
	"dronearena/internal/mathx"
	"dronearena/internal/physics"
)

// acceleratorBounceSpeedCoef and acceleratorMaxSpeed match
// original_source/src/settings.h's ACCELERATOR_BOUNCE_SPEED_COEF and
// ACCELERATOR_MAX_SPEED: an Accelerator round gains speed on every bounce
// up to a cap, instead of the normal bounce behavior of simply preserving
// pre-impact speed.
const (
	acceleratorBounceSpeedCoef = 1.05
	acceleratorMaxSpeed        = 500.0
)

// Projectile is a single fired shot. Generalized from the teacher's
// projectile.go (travel distance, expiry, contact, snapshot encode) with
// the bounce-count and weapon-pointer fields original_source/src/types.h's
// projectileEntity carries.
type Projectile struct {
	DroneIdx int
	Weapon   WeaponKind
	Body     *physics.Body

	lastPos   mathx.Vec2
	Distance  float64
	Bounces   int
	Speed     float64 // speed at last bounce resolution, carried across PreSolve-less bounces
	SetMine   bool    // true once welded to a wall (mine-launcher proximity behavior)
	alive     bool
	exploding bool // queued for an explosion chain this step, to be destroyed exactly once
}

// NewProjectile spawns one projectile body traveling in dir from pos, with
// an initial velocity proportional to the weapon's fire magnitude.
func NewProjectile(w *physics.World, droneIdx int, weapon WeaponKind, pos, dir mathx.Vec2, ref int) *Projectile {
	info := Info(weapon)
	body := w.CreateCircleBody(pos, info.Radius, info.Density, true, physics.DefaultProjectileFilter(), false, physics.EntityProjectile, ref)
	vel := mathx.Scale(info.FireMagnitude*info.InvMass, dir)
	body.SetVelocity(vel)
	return &Projectile{
		DroneIdx: droneIdx,
		Weapon:   weapon,
		Body:     body,
		lastPos:  pos,
		Speed:    mathx.Norm(vel),
		alive:    true,
	}
}

// Update accumulates travel distance and returns false once the projectile
// has reached its weapon's max travel distance (or is already dead), true
// while it stays in play. The bounce allowance is checked by RegisterBounce.
func (p *Projectile) Update() bool {
	if !p.alive {
		return false
	}
	pos := p.Body.Position()
	p.Distance += mathx.Distance(pos, p.lastPos)
	p.lastPos = pos

	info := Info(p.Weapon)
	if info.MaxDistance < unlimitedRange && p.Distance >= info.MaxDistance {
		p.alive = false
		return false
	}
	return true
}

// RegisterBounce increments the bounce counter, returning false once the
// weapon's bounce allowance is exhausted (the caller should then destroy
// the projectile instead of letting it keep bouncing).
func (p *Projectile) RegisterBounce() bool {
	p.Bounces++
	return p.Bounces <= Info(p.Weapon).MaxBounces
}

// ResolveBounceSpeed restores post-bounce speed so collisions don't bleed
// energy out of the projectile (spec.md §4.4 "Contact end"). Accelerator
// rounds instead gain speed on every bounce up to a cap; every other
// weapon simply keeps the speed it had going into the bounce.
func (p *Projectile) ResolveBounceSpeed() {
	speed := p.Speed
	if p.Weapon == WeaponAccelerator {
		speed = speed * acceleratorBounceSpeedCoef
		if speed > acceleratorMaxSpeed {
			speed = acceleratorMaxSpeed
		}
	}
	p.Speed = speed
	dir := mathx.Normalize(p.Body.Velocity())
	if dir == (mathx.Vec2{}) {
		return
	}
	p.Body.SetVelocity(mathx.Scale(speed, dir))
}

// Kill marks the projectile dead without requiring the caller to know the
// internal alive flag's name.
func (p *Projectile) Kill() { p.alive = false }

// Alive reports whether the projectile is still in play.
func (p *Projectile) Alive() bool { return p.alive }

// QueueExplosion marks the projectile as part of an explosion chain this
// step, to be destroyed once after the chain finishes resolving (spec.md
// §4.4 "Caught projectiles are queued ... and destroyed exactly once").
func (p *Projectile) QueueExplosion() { p.exploding = true }

// Exploding reports whether this projectile is queued for chained
// destruction.
func (p *Projectile) Exploding() bool { return p.exploding }
