package physics

// Category bit values match original_source/src/types.h's shapeCategory enum
// so fixtures built by this package collide exactly the way the reference
// simulation's do: static walls never collide with each other, drones
// collide with everything. No filter sets a group index, so a projectile
// can collide with the drone that fired it.
const (
	CategoryWall         uint16 = 1
	CategoryFloatingWall uint16 = 2
	CategoryProjectile   uint16 = 4
	CategoryWeaponPickup uint16 = 8
	CategoryDrone        uint16 = 16
)

// Filter is the category/mask pair applied to a fixture at creation time.
type Filter struct {
	Category uint16
	Mask     uint16
	Group    int16
}

// DefaultWallFilter collides with floating walls, drones and projectiles,
// not pickups or other static walls.
func DefaultWallFilter() Filter {
	return Filter{Category: CategoryWall, Mask: CategoryDrone | CategoryProjectile | CategoryFloatingWall}
}

// DefaultFloatingWallFilter collides with everything except other floating
// walls (they may overlap each other when spawned).
func DefaultFloatingWallFilter() Filter {
	return Filter{
		Category: CategoryFloatingWall,
		Mask:     CategoryDrone | CategoryProjectile | CategoryWall | CategoryWeaponPickup,
	}
}

// DefaultProjectileFilter collides with walls, floating walls, and drones.
func DefaultProjectileFilter() Filter {
	return Filter{
		Category: CategoryProjectile,
		Mask:     CategoryWall | CategoryFloatingWall | CategoryDrone,
	}
}

// DefaultDroneFilter collides with everything.
func DefaultDroneFilter() Filter {
	return Filter{
		Category: CategoryDrone,
		Mask:     CategoryWall | CategoryFloatingWall | CategoryProjectile | CategoryDrone | CategoryWeaponPickup,
	}
}

// DefaultPickupFilter is a sensor: it reports overlap but never resolves a
// physical collision (drones should walk through a pickup, not bounce off
// it).
func DefaultPickupFilter() Filter {
	return Filter{Category: CategoryWeaponPickup, Mask: CategoryDrone | CategoryFloatingWall}
}
</content>
