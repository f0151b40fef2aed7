package sim

import (
	"testing"

	"dronearena/internal/mathx"
	"dronearena/internal/physics"
)

func newTestDrone(t *testing.T, weapon WeaponKind) (*physics.World, *Drone) {
	t.Helper()
	w := physics.NewWorld()
	d := NewDrone(w, 0, mathx.Vec2{X: 0, Y: 0}, weapon)
	return w, d
}

func TestNewDroneDefaults(t *testing.T) {
	_, d := newTestDrone(t, WeaponStandard)

	if d.Ammo != -1 {
		t.Errorf("standard weapon should have unlimited ammo, got %d", d.Ammo)
	}
	if d.EnergyLeft != droneEnergyMax {
		t.Errorf("expected full energy at spawn, got %v", d.EnergyLeft)
	}
	if d.LastAim != (mathx.Vec2{X: 0, Y: -1}) {
		t.Errorf("expected default aim pointing up, got %+v", d.LastAim)
	}
}

func TestShootIncrementsHeatEvenWithoutAmmo(t *testing.T) {
	_, d := newTestDrone(t, WeaponSniper)
	d.Ammo = 0

	n := d.Shoot(true)
	if n != 0 {
		t.Fatalf("expected no projectiles with 0 ammo, got %d", n)
	}
	if d.Heat != 1 {
		t.Errorf("expected heat to increment on every Shoot call, got %v", d.Heat)
	}
}

func TestShootConsumesAmmoAndRevertsToDefault(t *testing.T) {
	_, d := newTestDrone(t, WeaponSniper)
	d.SetDefaultWeapon(WeaponStandard)
	d.Ammo = 1
	d.WeaponCharge = Info(WeaponSniper).Charge

	n := d.Shoot(true)
	if n != Info(WeaponSniper).NumProjectiles {
		t.Fatalf("expected %d projectiles, got %d", Info(WeaponSniper).NumProjectiles, n)
	}
	if d.Weapon != d.defaultWeapon {
		t.Errorf("expected revert to default weapon after ammo exhausted, got %v", d.Weapon)
	}
}

func TestBrakeDrainsAndSchedulesRefill(t *testing.T) {
	_, d := newTestDrone(t, WeaponStandard)
	d.EnergyLeft = droneBrakeDrainRate * dtStep

	d.Brake(true)
	if d.EnergyLeft != 0 {
		t.Fatalf("expected energy to hit 0, got %v", d.EnergyLeft)
	}
	if !d.EnergyFullyDepleted {
		t.Error("expected EnergyFullyDepleted once energy hits 0")
	}

	d.Brake(false)
	if d.EnergyRefillWait != energyRefillEmptyWait {
		t.Errorf("releasing brake after full depletion should not reset to the short refill wait, got %v", d.EnergyRefillWait)
	}
}

func TestBurstChargeAndRelease(t *testing.T) {
	_, d := newTestDrone(t, WeaponStandard)

	if _, _, _, ok := d.Burst(true); ok {
		t.Fatal("holding burst should never release this call")
	}
	if d.BurstCharge <= 0 {
		t.Fatal("expected charge to accumulate while held")
	}

	radius, _, impulse, ok := d.Burst(false)
	if !ok {
		t.Fatal("expected a release after charging")
	}
	if radius <= droneBurstRadiusMin || impulse <= droneBurstImpactMin {
		t.Errorf("expected radius/impulse scaled above their floors, got radius=%v impulse=%v", radius, impulse)
	}
	if d.BurstCooldown != droneBurstCooldown {
		t.Errorf("expected burst cooldown armed after release, got %v", d.BurstCooldown)
	}
}

func TestCanBurstRespectsCooldown(t *testing.T) {
	_, d := newTestDrone(t, WeaponStandard)
	d.BurstCooldown = 0.1
	if d.CanBurst() {
		t.Error("expected CanBurst false while cooldown active")
	}
	d.BurstCooldown = 0
	if !d.CanBurst() {
		t.Error("expected CanBurst true once cooldown elapses")
	}
}

func TestKillAndRespawn(t *testing.T) {
	_, d := newTestDrone(t, WeaponStandard)
	d.Kill(true)
	if !d.Dead || !d.DiedThisStep {
		t.Fatal("expected drone marked dead after Kill")
	}

	d.Respawn(mathx.Vec2{X: 5, Y: 5}, WeaponMachineGun)
	if d.Dead {
		t.Error("expected drone alive after Respawn")
	}
	if d.Weapon != WeaponMachineGun {
		t.Errorf("expected respawn weapon applied, got %v", d.Weapon)
	}
	if d.EnergyLeft != droneEnergyMax {
		t.Errorf("expected energy restored on respawn, got %v", d.EnergyLeft)
	}
}

func TestDiscardWeaponNoopOnDefault(t *testing.T) {
	_, d := newTestDrone(t, WeaponStandard)
	before := d.EnergyLeft
	d.DiscardWeapon()
	if d.EnergyLeft != before {
		t.Error("discarding the default weapon should not cost energy")
	}
}
