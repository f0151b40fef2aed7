// Package sim implements the drone arena step simulation: map occupancy,
// weapon pickups, drones, projectiles, sudden death, and the per-tick step
// loop that ties them together.
package sim

// WeaponKind enumerates every weapon a drone can hold.
type WeaponKind uint8

const (
	WeaponStandard WeaponKind = iota
	WeaponMachineGun
	WeaponSniper
	WeaponShotgun
	WeaponImploder
	WeaponAccelerator
	WeaponFlakCannon
	WeaponMineLauncher
	// WeaponBlackHole is reserved: named in the drone arena's weapon set but
	// never parameterized in the reference implementation this catalog is
	// grounded on. It is kept as a disabled slot (SpawnWeight 0, excluded
	// from default-weapon selection) rather than invented wholesale.
	WeaponBlackHole

	numWeaponKinds
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponStandard:
		return "standard"
	case WeaponMachineGun:
		return "machine_gun"
	case WeaponSniper:
		return "sniper"
	case WeaponShotgun:
		return "shotgun"
	case WeaponImploder:
		return "imploder"
	case WeaponAccelerator:
		return "accelerator"
	case WeaponFlakCannon:
		return "flak_cannon"
	case WeaponMineLauncher:
		return "mine_launcher"
	case WeaponBlackHole:
		return "black_hole"
	default:
		return "unknown"
	}
}

// WeaponKindByName resolves a map layout's default_weapon string to a kind,
// falling back to WeaponStandard for an unrecognized or empty name.
func WeaponKindByName(name string) WeaponKind {
	for k := WeaponKind(0); k < numWeaponKinds; k++ {
		if k.String() == name {
			return k
		}
	}
	return WeaponStandard
}

// WeaponInfo is the static, per-kind parameter block spec.md §3 describes.
// Numeric values are grounded on the reference implementation's weapon
// constants (see DESIGN.md); WeaponBlackHole is the one reserved exception.
type WeaponInfo struct {
	Kind WeaponKind

	IsPhysicsBullet bool // reference continuous-collision bullet flag; NewProjectile does not read it (every projectile body is dynamic)
	CanSleep        bool
	NumProjectiles  int
	FireMagnitude   float64
	RecoilMagnitude float64
	Damping         float64
	Charge          float64 // seconds held to reach full charge, 0 = instant fire
	CoolDown        float64 // seconds between shots
	MaxDistance     float64 // unlimitedRange (1e18) for unlimited range
	Radius          float64
	Density         float64
	InvMass         float64
	MaxBounces      int

	Explosive           bool
	DestroyedOnDroneHit bool
	ExplodesOnDroneHit  bool
	ProximityDetonates  bool
	ProximityRadius     float64
	ExplosionRadius     float64 // full-magnitude radius; only set when Explosive
	ExplosionFalloff    float64 // additional distance over which the impulse decays linearly to zero
	ImpulsePerLength    float64 // signed: negative pulls inward (imploder), positive pushes outward

	EnergyRefill float64 // energy added to the firing drone when its projectile hits an enemy drone
	SpawnWeight  float64 // relative likelihood of appearing as a pickup; 0 = never spawns
}

func invMass(density, radius float64) float64 {
	// original_source's INV_MASS(density, radius) macro: inverse of a disc's
	// mass (area * density), used to convert an impulse magnitude directly
	// into a velocity change without the physics engine's own mass lookup.
	area := 3.14159265358979 * radius * radius
	mass := area * density
	if mass <= 0 {
		return 0
	}
	return 1 / mass
}

const projectileEnergyRefillCoef = 0.001

var weaponInfos = buildWeaponInfos()

func buildWeaponInfos() [numWeaponKinds]WeaponInfo {
	var infos [numWeaponKinds]WeaponInfo

	standardDensity, standardRadius := 3.25, 0.2
	infos[WeaponStandard] = WeaponInfo{
		Kind: WeaponStandard, IsPhysicsBullet: true, NumProjectiles: 1,
		FireMagnitude: 17.0, RecoilMagnitude: 20.0, Damping: 0.0, Charge: 0.0,
		CoolDown: 0.37, MaxDistance: 80.0, Radius: standardRadius, Density: standardDensity,
		InvMass: invMass(standardDensity, standardRadius), MaxBounces: 2 + 1,
		EnergyRefill: 17.0 * invMass(standardDensity, standardRadius) * projectileEnergyRefillCoef,
		SpawnWeight:  0,
	}

	mgDensity, mgRadius := 3.0, 0.15
	infos[WeaponMachineGun] = WeaponInfo{
		Kind: WeaponMachineGun, IsPhysicsBullet: true, NumProjectiles: 1,
		FireMagnitude: 25.0, RecoilMagnitude: 12.8, Damping: 0.1, Charge: 0.0,
		CoolDown: 0.07, MaxDistance: 225.0, Radius: mgRadius, Density: mgDensity,
		InvMass: invMass(mgDensity, mgRadius), MaxBounces: 1 + 1,
		EnergyRefill: (25.0 * invMass(mgDensity, mgRadius) * projectileEnergyRefillCoef) * 0.2,
		SpawnWeight:  3.0,
	}

	snDensity, snRadius := 2.0, 0.5
	infos[WeaponSniper] = WeaponInfo{
		Kind: WeaponSniper, IsPhysicsBullet: true, NumProjectiles: 1,
		FireMagnitude: 300.0, RecoilMagnitude: 96.0, Damping: 0.05, Charge: 1.0,
		CoolDown: 1.5, MaxDistance: inf(1), Radius: snRadius, Density: snDensity,
		InvMass: invMass(snDensity, snRadius), MaxBounces: 0 + 1,
		DestroyedOnDroneHit: true,
		EnergyRefill:        (300.0 * invMass(snDensity, snRadius) * projectileEnergyRefillCoef) * 1.2,
		SpawnWeight:         3.0,
	}

	sgDensity, sgRadius := 2.5, 0.15
	infos[WeaponShotgun] = WeaponInfo{
		Kind: WeaponShotgun, IsPhysicsBullet: true, NumProjectiles: 8,
		FireMagnitude: 22.5, RecoilMagnitude: 100.0, Damping: 0.3, Charge: 0.0,
		CoolDown: 1.0, MaxDistance: 100.0, Radius: sgRadius, Density: sgDensity,
		InvMass: invMass(sgDensity, sgRadius), MaxBounces: 1 + 1,
		EnergyRefill: (22.5 * invMass(sgDensity, sgRadius) * projectileEnergyRefillCoef) * 0.5,
		SpawnWeight:  3.0,
	}

	imDensity, imRadius := 1.0, 0.8
	infos[WeaponImploder] = WeaponInfo{
		Kind: WeaponImploder, IsPhysicsBullet: false, NumProjectiles: 1,
		FireMagnitude: 60.0, RecoilMagnitude: 65.0, Damping: 0.0, Charge: 2.0,
		CoolDown: 0.0, MaxDistance: inf(1), Radius: imRadius, Density: imDensity,
		InvMass: invMass(imDensity, imRadius), MaxBounces: 0 + 1,
		Explosive: true, DestroyedOnDroneHit: true, ExplodesOnDroneHit: true,
		ExplosionRadius: 10.0, ExplosionFalloff: 5.0, ImpulsePerLength: -150.0,
		EnergyRefill: 60.0 * invMass(imDensity, imRadius) * projectileEnergyRefillCoef,
		SpawnWeight:  1.0,
	}

	acDensity, acRadius := 2.0, 0.5
	infos[WeaponAccelerator] = WeaponInfo{
		Kind: WeaponAccelerator, IsPhysicsBullet: true, NumProjectiles: 1,
		FireMagnitude: 35.0, RecoilMagnitude: 100.0, Damping: 0.0, Charge: 0.0,
		CoolDown: 0.0, MaxDistance: inf(1), Radius: acRadius, Density: acDensity,
		InvMass: invMass(acDensity, acRadius), MaxBounces: 100 + 1,
		DestroyedOnDroneHit: true,
		EnergyRefill:        (35.0 * invMass(acDensity, acRadius) * projectileEnergyRefillCoef) * 1.05,
		SpawnWeight:         1.0,
	}

	fcDensity, fcRadius := 1.0, 0.3
	infos[WeaponFlakCannon] = WeaponInfo{
		Kind: WeaponFlakCannon, IsPhysicsBullet: false, NumProjectiles: 1,
		FireMagnitude: 14.0, RecoilMagnitude: 30.0, Damping: 0.15, Charge: 0.0,
		CoolDown: 0.4, MaxDistance: 100.0, Radius: fcRadius, Density: fcDensity,
		InvMass: invMass(fcDensity, fcRadius), MaxBounces: 1e9,
		Explosive: true, ProximityDetonates: true, ProximityRadius: 2.0,
		ExplosionRadius: 5.0, ExplosionFalloff: 2.5, ImpulsePerLength: 45.0,
		EnergyRefill: 14.0 * invMass(fcDensity, fcRadius) * projectileEnergyRefillCoef,
		SpawnWeight:  2.0,
	}

	mlDensity, mlRadius := 0.5, 0.5
	infos[WeaponMineLauncher] = WeaponInfo{
		Kind: WeaponMineLauncher, IsPhysicsBullet: false, CanSleep: true, NumProjectiles: 1,
		FireMagnitude: 25.0, RecoilMagnitude: 20.0, Damping: 0.25, Charge: 0.0,
		CoolDown: 0.6, MaxDistance: inf(1), Radius: mlRadius, Density: mlDensity,
		InvMass: invMass(mlDensity, mlRadius), MaxBounces: 1e9,
		Explosive: true, DestroyedOnDroneHit: true, ProximityDetonates: true, ProximityRadius: 7.5,
		ExplosionRadius: 12.5, ExplosionFalloff: 2.5, ImpulsePerLength: 100.0,
		EnergyRefill: 25.0 * invMass(mlDensity, mlRadius) * projectileEnergyRefillCoef,
		SpawnWeight:  2.0,
	}

	infos[WeaponBlackHole] = WeaponInfo{Kind: WeaponBlackHole, SpawnWeight: 0}

	return infos
}

// unlimitedRange stands in for "no max distance" (original_source's
// INFINITE sentinel for sniper/imploder/accelerator/mine-launcher range).
const unlimitedRange = 1e18

func inf(float64) float64 { return unlimitedRange }

// Info returns the static parameter block for kind.
func Info(kind WeaponKind) WeaponInfo { return weaponInfos[kind] }

// AllInfos returns every weapon's static parameters, in kind order.
func AllInfos() []WeaponInfo { return weaponInfos[:] }

// SpawnableKinds returns every weapon kind with a nonzero pickup spawn
// weight, paired with that weight, for weighted pickup-kind sampling.
func SpawnableKinds() ([]WeaponKind, []float64) {
	var kinds []WeaponKind
	var weights []float64
	for k := WeaponKind(0); k < numWeaponKinds; k++ {
		w := weaponInfos[k].SpawnWeight
		if w <= 0 {
			continue
		}
		kinds = append(kinds, k)
		weights = append(weights, w)
	}
	return kinds, weights
}
</content>
