package sim

import (
	"testing"

	"dronearena/internal/mathx"
	"dronearena/internal/physics"
)

func TestNewProjectileVelocity(t *testing.T) {
	w := physics.NewWorld()
	p := NewProjectile(w, 0, WeaponStandard, mathx.Vec2{}, mathx.Vec2{X: 1, Y: 0}, 0)

	if !p.Alive() {
		t.Fatal("expected a freshly spawned projectile to be alive")
	}
	if p.Speed <= 0 {
		t.Errorf("expected positive initial speed, got %v", p.Speed)
	}
}

func TestUpdateExpiresAtMaxDistance(t *testing.T) {
	w := physics.NewWorld()
	p := NewProjectile(w, 0, WeaponStandard, mathx.Vec2{}, mathx.Vec2{X: 1, Y: 0}, 0)
	p.Distance = Info(WeaponStandard).MaxDistance

	if p.Update() {
		t.Fatal("expected Update to report expiry once MaxDistance is reached")
	}
	if p.Alive() {
		t.Error("expected projectile marked dead after exceeding MaxDistance")
	}
}

func TestRegisterBounceExhaustsAllowance(t *testing.T) {
	w := physics.NewWorld()
	p := NewProjectile(w, 0, WeaponStandard, mathx.Vec2{}, mathx.Vec2{X: 1, Y: 0}, 0)
	maxBounces := Info(WeaponStandard).MaxBounces

	for i := 0; i < maxBounces; i++ {
		if !p.RegisterBounce() {
			t.Fatalf("bounce %d should still be within allowance", i)
		}
	}
	if p.RegisterBounce() {
		t.Fatal("expected bounce allowance exhausted")
	}
}

func TestResolveBounceSpeedAcceleratorRampsUp(t *testing.T) {
	w := physics.NewWorld()
	p := NewProjectile(w, 0, WeaponAccelerator, mathx.Vec2{}, mathx.Vec2{X: 1, Y: 0}, 0)
	p.Body.SetVelocity(mathx.Vec2{X: p.Speed, Y: 0})

	before := p.Speed
	p.ResolveBounceSpeed()
	if p.Speed <= before {
		t.Errorf("expected accelerator bounce to raise speed, got %v -> %v", before, p.Speed)
	}
}

func TestResolveBounceSpeedAcceleratorCapsAtMax(t *testing.T) {
	w := physics.NewWorld()
	p := NewProjectile(w, 0, WeaponAccelerator, mathx.Vec2{}, mathx.Vec2{X: 1, Y: 0}, 0)
	p.Speed = acceleratorMaxSpeed
	p.Body.SetVelocity(mathx.Vec2{X: p.Speed, Y: 0})

	p.ResolveBounceSpeed()
	if p.Speed > acceleratorMaxSpeed {
		t.Errorf("expected speed capped at %v, got %v", acceleratorMaxSpeed, p.Speed)
	}
}

func TestQueueExplosionMarksExploding(t *testing.T) {
	w := physics.NewWorld()
	p := NewProjectile(w, 0, WeaponImploder, mathx.Vec2{}, mathx.Vec2{X: 1, Y: 0}, 0)

	if p.Exploding() {
		t.Fatal("should not start queued for an explosion chain")
	}
	p.QueueExplosion()
	if !p.Exploding() {
		t.Error("expected Exploding true once queued")
	}
}
