package sim

import "dronearena/internal/arenamap"

// Observation layout constants, matching spec.md §4.7's literal byte
// layout: a row-major block per map cell (wall-type code, pickup-weapon
// code, reserved bytes some of which are overwritten by the
// projectile/floating-wall/drone overlays), followed by a fixed self block
// of scaled uint8 fields and a weapon one-hot. Grounded on
// original_source/src/types.h's observationInfo section offsets
// (mapCellObsOffset/scalarObsOffset and friends); mapCellObsSize=6 is sized
// so the projectile/floating-wall/drone overlay offsets spec.md §4.7 names
// by position-from-end ("MAP_CELL_OBS_SIZE - 4" for the projectile byte)
// land on three of the "remaining MAP_CELL_OBS_SIZE - 2 bytes reserved"
// slots, one byte short of the end.
const (
	mapCellObsSize = 6

	wallTypeByteOffset     = 0
	pickupWeaponByteOffset = 1
	projectileByteOffset   = mapCellObsSize - 4
	floatingWallByteOffset = mapCellObsSize - 3
	droneByteOffset        = mapCellObsSize - 2

	// selfScalarCount is the width of the self block's scaled-byte section,
	// before the weapon one-hot: steps_left, pos.x, pos.y, vel.x, vel.y,
	// last_aim.x, last_aim.y, ammo, weapon_cooldown, weapon_charge.
	selfScalarCount = 10
)

// ObsSize returns the per-agent observation buffer width in bytes for
// env's current map: one mapCellObsSize block per grid cell, plus the
// fixed self block (selfScalarCount scaled bytes + a weapon one-hot).
// It varies with the map's cell count, unlike a fixed package constant,
// since spec.md §4.7's map-cell section is sized to the grid itself.
func (env *Env) ObsSize() int {
	return len(env.Grid.Cells)*mapCellObsSize + selfScalarCount + int(numWeaponKinds)
}

// scaleByte converts a value already normalized into [0,1] (by scaleUnit
// or scaleSigned) into the uint8 spec.md §4.7 describes ("scaled u8 values
// (each scale(x, max, clamp) · 255)").
func scaleByte(unit float64) byte {
	if unit < 0 {
		unit = 0
	}
	if unit > 1 {
		unit = 1
	}
	return byte(unit*255 + 0.5)
}

// EncodeObs writes env's observation for drone idx into out, which must be
// exactly env.ObsSize() bytes long. EncodeObs never allocates; callers
// reuse the same backing buffer across steps, exactly as spec.md §6
// describes the host-owned obs buffer.
func (env *Env) EncodeObs(idx int, out []byte) {
	for i := range out {
		out[i] = 0
	}

	numCells := len(env.Grid.Cells)

	// 1. Map cells, row-major: wall-type code (the CellKind value itself —
	// CellOpen is already 0, so this doubles as "0 if empty or non-wall")
	// and pickup-weapon code (0 or weapon+1).
	for i, cell := range env.Grid.Cells {
		out[i*mapCellObsSize+wallTypeByteOffset] = byte(cell.Kind)
	}
	for _, pk := range env.Pickups {
		if !pk.Active() || pk.CellIdx < 0 || pk.CellIdx >= numCells {
			continue
		}
		out[pk.CellIdx*mapCellObsSize+pickupWeaponByteOffset] = byte(pk.Weapon) + 1
	}

	// 2-4. Projectile / floating-wall / drone overlays: each overwrites its
	// reserved byte at the occupying cell, unless that cell holds a static
	// wall (spec.md §4.7 steps 2-4).
	for _, p := range env.Projectiles {
		if !p.Alive() {
			continue
		}
		if cellIdx := env.cellIndexForPos(p.lastPos); cellIdx >= 0 && cellIdx < numCells {
			if env.Grid.CellAtIndex(cellIdx).Kind == arenamap.CellOpen {
				out[cellIdx*mapCellObsSize+projectileByteOffset] = byte(p.Weapon) + 1
			}
		}
	}
	for _, w := range env.FloatingWalls {
		if cellIdx := env.cellIndexForPos(w.Body.Position()); cellIdx >= 0 && cellIdx < numCells {
			if env.Grid.CellAtIndex(cellIdx).Kind == arenamap.CellOpen {
				out[cellIdx*mapCellObsSize+floatingWallByteOffset] = byte(w.Kind)
			}
		}
	}
	for _, d := range env.Drones {
		if d.Dead {
			continue
		}
		if cellIdx := env.cellIndexForPos(d.Body.Position()); cellIdx >= 0 && cellIdx < numCells {
			if env.Grid.CellAtIndex(cellIdx).Kind == arenamap.CellOpen {
				out[cellIdx*mapCellObsSize+droneByteOffset] = byte(d.Weapon) + 1
			}
		}
	}

	// 5. Self block: scaled scalar fields, then a weapon one-hot.
	self := env.Drones[idx]
	pos := self.Body.Position()
	vel := self.Body.Velocity()
	_, maxBound := env.Grid.Bounds()
	info := Info(self.Weapon)

	base := numCells * mapCellObsSize
	out[base+0] = scaleByte(scaleUnit(float64(env.StepsLeft), float64(env.RoundSteps)))
	out[base+1] = scaleByte(scaleSigned(pos.X, maxBound.X))
	out[base+2] = scaleByte(scaleSigned(pos.Y, maxBound.Y))
	out[base+3] = scaleByte(scaleSigned(vel.X, maxSpeed))
	out[base+4] = scaleByte(scaleSigned(vel.Y, maxSpeed))
	out[base+5] = scaleByte(scaleSigned(self.LastAim.X, 1))
	out[base+6] = scaleByte(scaleSigned(self.LastAim.Y, 1))
	if self.Ammo >= 0 {
		out[base+7] = scaleByte(scaleUnit(float64(self.Ammo), 1)) // ammoFor never hands out more than 1 for a limited-ammo weapon
	}
	if info.CoolDown > 0 {
		out[base+8] = scaleByte(scaleUnit(self.WeaponCooldown, info.CoolDown))
	}
	if info.Charge > 0 {
		out[base+9] = scaleByte(scaleUnit(self.WeaponCharge, info.Charge))
	}
	out[base+selfScalarCount+int(self.Weapon)] = 1
}
