package sim

import (
	"fmt"
	"math"
	"time"

	"dronearena/internal/arenamap"
	"dronearena/internal/mathx"
	"dronearena/internal/physics"
	"dronearena/internal/simlog"
	"dronearena/internal/simmetrics"
)

// Fixed-timestep and round-length constants. physicsDt/defaultFrameSkip are
// grounded on original_source/src/settings.h's TRAINING_BOX2D_SUBSTEPS /
// TRAINING_ACTIONS_PER_SECOND pairing (a 60Hz physics tick, ten
// agent-visible decisions per second): one step_env call therefore runs
// defaultFrameSkip physics steps. defaultRoundSteps reconciles settings.h's
// ROUND_STEPS=30 (a round length in seconds, per env.h's stepsLeft
// decrementing once per physics tick) against that same 60Hz tick rate.
// Neither macro's literal definition survived into the retrieved
// original_source tree, so these are a documented reconstruction rather
// than a direct copy.
const (
	physicsDt         = 1.0 / 60.0
	defaultFrameSkip  = 6
	defaultRoundSteps = 30 * 60 // 1800 physics ticks

	velocityIterations = 8
	positionIterations = 3

	droneMoveAimDivisor = 10.0 // original_source DRONE_MOVE_AIM_DIVISOR

	minSpawnDistance                = 6.0
	pickupSpawnDistanceSquared      = 100.0
	droneDroneSpawnDistanceSquared  = 100.0
	mineLauncherProximityRadius     = 7.5
	machineGunSwayBase              = 0.11
	machineGunSwayLogBase           = 180.0
	shotgunSpreadHalfWidth          = 0.1
	shotgunFireMagnitudeJitter      = 3.0
)

// Quad is one of the four rectangular spawn sub-regions spec.md §4.1
// describes.
type Quad struct {
	Min, Max mathx.Vec2
}

func (q Quad) sample(rng *mathx.RNG) mathx.Vec2 {
	return mathx.Vec2{
		X: rng.UniformRange(q.Min.X, q.Max.X),
		Y: rng.UniformRange(q.Min.Y, q.Max.Y),
	}
}

// Env is one simulation instance: a physics world, its deterministic RNG,
// the parsed map, and every live entity collection, matching spec.md §3's
// World/env model.
type Env struct {
	World *physics.World
	RNG   *mathx.RNG

	MapIndex      int
	Grid          *arenamap.Grid
	DefaultWeapon WeaponKind
	SpawnQuads    [4]Quad
	lastSpawnQuad int

	Walls         []*arenamap.Wall
	FloatingWalls []*arenamap.Wall
	Drones        []*Drone
	Pickups       []*Pickup
	Projectiles   []*Projectile

	spawnedWeaponPickups [numWeaponKinds]int

	StepsLeft   int
	RoundSteps  int
	FrameSkip   int
	SuddenDeath *SuddenDeath

	NumDrones int
	NumAgents int
	Discrete  bool
	Seed      int64

	EpisodeLength int
	NeedsReset    bool
	freshlyReset  bool // true once ResetEnv has run with no StepEnv call since

	Rewards       []float64
	Terminals     []bool
	episodeReward []float64

	// Obs is the host-owned flat observation buffer (spec.md §6's obs_ptr):
	// one uint8 per field, ObsSize() bytes per agent (ObsSize depends on the
	// current map's cell count, so it is recomputed whenever the map is
	// (re)built), refreshed at the end of every StepEnv call.
	Obs []byte

	Logs *simlog.Buffer

	dronesByBody      map[*physics.Body]*Drone
	pickupsByBody     map[*physics.Body]*Pickup
	projectilesByBody map[*physics.Body]*Projectile
	wallsByBody       map[*physics.Body]*arenamap.Wall
}

// ContinuousAction is one agent's 7-float action vector (spec.md §4.3):
// move x/y, aim x/y, shoot, brake, burst.
type ContinuousAction [7]float64

// DiscreteAction is one agent's 3-int action vector: move direction index
// (0..8), aim direction index (0..8), and a button bitmask (1=shoot,
// 2=brake, 4=burst).
type DiscreteAction [3]int

// EnvParams is the explicit parameter set init_env takes (spec.md §6):
// everything a host harness resolves from its own configuration before
// handing the core a plain value set.
type EnvParams struct {
	NumDrones   int
	NumAgents   int
	Seed        int64
	MapIndex    int
	Discrete    bool
	RoundSteps  int // 0 => defaultRoundSteps
	FrameSkip   int // 0 => defaultFrameSkip
	LogCapacity int
}

// NewEnv constructs an environment and builds its first episode.
func NewEnv(p EnvParams) *Env {
	roundSteps := p.RoundSteps
	if roundSteps <= 0 {
		roundSteps = defaultRoundSteps
	}
	frameSkip := p.FrameSkip
	if frameSkip <= 0 {
		frameSkip = defaultFrameSkip
	}
	logCapacity := p.LogCapacity
	if logCapacity <= 0 {
		logCapacity = 64
	}

	env := &Env{
		NumDrones:  p.NumDrones,
		NumAgents:  p.NumAgents,
		Discrete:   p.Discrete,
		Seed:       p.Seed,
		MapIndex:   p.MapIndex,
		RoundSteps: roundSteps,
		FrameSkip:  frameSkip,
		Logs:       simlog.NewBuffer(logCapacity),
	}
	env.RNG = mathx.NewRNG(p.Seed)
	env.SetupEnv()
	return env
}

// encodeObservations refreshes env.Obs for every agent, the step loop's
// final phase (spec.md §4.6 step 8 / §2 "Observation encoding").
func (env *Env) encodeObservations() {
	size := env.ObsSize()
	for i := 0; i < env.NumAgents && i < env.NumDrones; i++ {
		env.EncodeObs(i, env.Obs[i*size:(i+1)*size])
	}
}

// SetupEnv builds a fresh world for a new episode: map, walls, drones, and
// pickups. It is also what ResetEnv calls after tearing down.
func (env *Env) SetupEnv() {
	entries := arenamap.Entries()
	idx := env.MapIndex
	if idx < 0 || idx >= len(entries) {
		idx = 0
	}
	entry := entries[idx]

	env.World = physics.NewWorld()
	env.Grid = entry.Grid
	env.DefaultWeapon = WeaponKindByName(entry.DefaultWeapon)

	// The map-cell section of the observation layout scales with this map's
	// cell count, so the buffer is (re)allocated whenever the grid changes
	// size (a reset may draw a map with different dimensions).
	if size := env.ObsSize() * env.NumAgents; len(env.Obs) != size {
		env.Obs = make([]byte, size)
	}

	env.dronesByBody = make(map[*physics.Body]*Drone)
	env.pickupsByBody = make(map[*physics.Body]*Pickup)
	env.projectilesByBody = make(map[*physics.Body]*Projectile)
	env.wallsByBody = make(map[*physics.Body]*arenamap.Wall)

	env.Walls = nil
	env.FloatingWalls = nil
	env.Drones = nil
	env.Pickups = nil
	env.Projectiles = nil
	env.spawnedWeaponPickups = [numWeaponKinds]int{}
	env.lastSpawnQuad = -1

	for _, w := range arenamap.BuildFixedWalls(env.World, env.Grid) {
		wp := w
		env.Walls = append(env.Walls, &wp)
		env.wallsByBody[wp.Body] = &wp
	}

	min, max := env.Grid.Bounds()
	midX, midY := (min.X+max.X)/2, (min.Y+max.Y)/2
	env.SpawnQuads = [4]Quad{
		{Min: mathx.Vec2{X: min.X, Y: min.Y}, Max: mathx.Vec2{X: midX, Y: midY}},
		{Min: mathx.Vec2{X: midX, Y: min.Y}, Max: mathx.Vec2{X: max.X, Y: midY}},
		{Min: mathx.Vec2{X: min.X, Y: midY}, Max: mathx.Vec2{X: midX, Y: max.Y}},
		{Min: mathx.Vec2{X: midX, Y: midY}, Max: mathx.Vec2{X: max.X, Y: max.Y}},
	}

	for _, w := range arenamap.PlaceFloatingWalls(env.World, env.Grid, arenamap.CellStandardWall, arenamap.EligibleFloatingStandard, entry.FloatingStandardWalls, env.RNG) {
		env.addFloatingWall(w)
	}
	for _, w := range arenamap.PlaceFloatingWalls(env.World, env.Grid, arenamap.CellBouncyWall, arenamap.EligibleFloatingStandard, entry.FloatingBouncyWalls, env.RNG) {
		env.addFloatingWall(w)
	}
	for _, w := range arenamap.PlaceFloatingWalls(env.World, env.Grid, arenamap.CellDeathWall, arenamap.EligibleFloatingDeath, entry.FloatingDeathWalls, env.RNG) {
		env.addFloatingWall(w)
	}

	for i := 0; i < env.NumDrones; i++ {
		quad := env.droneSpawnQuad(i)
		pos, ok := env.findOpenPos(physics.EntityDrone, quad)
		if !ok {
			panic(fmt.Sprintf("sim: no open spawn position for drone %d", i))
		}
		d := NewDrone(env.World, i, pos, env.DefaultWeapon)
		env.Drones = append(env.Drones, d)
		env.dronesByBody[d.Body] = d
	}

	for i := 0; i < entry.WeaponPickups; i++ {
		env.createWeaponPickup()
	}

	env.StepsLeft = env.RoundSteps
	env.SuddenDeath = NewSuddenDeath(env.RoundSteps)
	env.Rewards = make([]float64, env.NumDrones)
	env.Terminals = make([]bool, env.NumDrones)
	env.episodeReward = make([]float64, env.NumDrones)
	env.EpisodeLength = 0
	env.NeedsReset = false
}

func (env *Env) addFloatingWall(w arenamap.Wall) {
	wp := w
	env.FloatingWalls = append(env.FloatingWalls, &wp)
	env.wallsByBody[wp.Body] = &wp
}

// droneSpawnQuad assigns drones 0 and 1 diagonally opposite quads; any
// further drone gets a random quad (spec.md §4.3).
func (env *Env) droneSpawnQuad(idx int) int {
	switch idx {
	case 0:
		return 0
	case 1:
		return 3
	default:
		return env.RNG.Intn(4)
	}
}

// ResetEnv tears down the current world and builds a new episode. A new
// map is drawn each reset for training variety; spec.md leaves map
// selection on reset unspecified beyond "rebuild the world".
//
// Calling ResetEnv several times back to back with no intervening StepEnv
// call is a no-op after the first: spec.md §8's "Reset idempotence" law
// requires that reset_env followed by an action sequence trace identically
// regardless of how many consecutive reset_env calls preceded it. Consuming
// fresh RNG state (and re-rolling the map) on every redundant call would
// break that law, so freshlyReset gates the rebuild and is cleared the next
// time StepEnv actually advances the world.
func (env *Env) ResetEnv() {
	if env.freshlyReset {
		return
	}
	env.RNG.Advance()
	entries := arenamap.Entries()
	if len(entries) > 0 {
		env.MapIndex = env.RNG.Intn(len(entries))
	}
	env.SetupEnv()
	env.freshlyReset = true
}

// DestroyEnv releases the environment's world. The box2d Go port has no
// world-level teardown call; dropping the reference is sufficient for the
// garbage collector, unlike the manual body/shape frees spec.md §5
// describes for the source's arena allocator.
func (env *Env) DestroyEnv() {
	env.World = nil
}

// EnvTerminated reports whether any drone is currently dead, matching
// spec.md §6's env_terminated (used by a benchmark loop to decide whether
// to keep stepping without resetting).
func (env *Env) EnvTerminated() bool {
	for _, d := range env.Drones {
		if d.Dead {
			return true
		}
	}
	return false
}

// AgentRewards returns the host-visible reward slice (one entry per
// agent, a prefix of the per-drone reward slice).
func (env *Env) AgentRewards() []float64 { return env.Rewards[:env.NumAgents] }

// AgentTerminals returns the host-visible terminal slice.
func (env *Env) AgentTerminals() []bool { return env.Terminals[:env.NumAgents] }

// StepEnv advances one action-frame: frameSkip physics steps, matching
// spec.md §4.6. cont or disc is consulted depending on env.Discrete; the
// unused slice may be nil.
func (env *Env) StepEnv(cont []ContinuousAction, disc []DiscreteAction) {
	start := time.Now()
	defer func() { simmetrics.RecordStep(time.Since(start)) }()

	if env.NeedsReset {
		env.ResetEnv()
	}
	env.freshlyReset = false

	for i := range env.Rewards {
		env.Rewards[i] = 0
	}
	for i := range env.Terminals {
		env.Terminals[i] = false
	}

	type cmd struct {
		move, aim          mathx.Vec2
		shoot, brake, burst bool
	}
	cmds := make([]cmd, env.NumDrones)
	for i := 0; i < env.NumAgents && i < env.NumDrones; i++ {
		var move, aim mathx.Vec2
		var shoot, brake, burst bool
		if env.Discrete {
			move, aim, shoot, brake, burst = decodeDiscrete(disc[i])
		} else {
			move, aim, shoot, brake, burst = decodeContinuous(cont[i])
		}
		cmds[i] = cmd{move, aim, shoot, brake, burst}
		d := env.Drones[i]
		d.LastMove = move
		if aim != (mathx.Vec2{}) {
			d.LastAim = aim
		}
	}

	roundEnded := false
	winner := -1

	for f := 0; f < env.FrameSkip && !roundEnded; f++ {
		env.EpisodeLength++

		prevPos := make([]mathx.Vec2, len(env.Drones))
		for i, d := range env.Drones {
			prevPos[i] = d.Body.Position()
			d.BeginStep(len(env.Drones))
			if i < len(cmds) && i < env.NumAgents {
				c := cmds[i]
				d.ApplyAim(c.aim)
				d.ApplyMove(c.move)
				d.Brake(c.brake)
				if radius, falloff, impulsePerLength, ok := d.Burst(c.burst && d.CanBurst()); ok {
					env.applyBurst(d, radius, falloff, impulsePerLength)
				}
				env.fireWeapon(d, c.shoot)
			} else {
				d.Shoot(false)
			}
		}

		env.World.Step(physicsDt, velocityIterations, positionIterations)

		for i, d := range env.Drones {
			d.Stats.DistanceTraveled += mathx.Distance(prevPos[i], d.Body.Position())
		}

		env.StepsLeft--
		if env.StepsLeft < 0 {
			env.StepsLeft = 0
		}

		env.stepProjectiles()

		env.processEvents(env.World.Events())

		for _, d := range env.Drones {
			d.UpdateTimers(physicsDt)
		}
		env.stepPickups()

		if newWalls := env.SuddenDeath.Tick(env.World, env.Grid); len(newWalls) > 0 {
			env.applySuddenDeathRing(newWalls)
			simmetrics.RecordRingPlaced()
		}
		simmetrics.UpdateSuddenDeathActive(env.SuddenDeath.Active())

		numAlive, aliveIdx := 0, -1
		for i, d := range env.Drones {
			if !d.Dead {
				numAlive++
				aliveIdx = i
			}
			if d.DiedThisStep {
				env.Terminals[i] = true
			}
		}
		simmetrics.UpdateDronesAlive(numAlive)
		if numAlive <= 1 || env.StepsLeft == 0 {
			roundEnded = true
			if numAlive == 1 {
				winner = aliveIdx
			}
		}

		winnerForReward := -1
		if winner >= 0 && winner < env.NumAgents {
			winnerForReward = winner
		}
		env.computeRewards(winnerForReward)

		if roundEnded {
			for i := range env.Terminals {
				env.Terminals[i] = true
			}
			env.logEpisode(winner)
			simmetrics.RecordEpisodeEnd()
			env.NeedsReset = true
			break
		}
	}

	env.encodeObservations()
}

func decodeContinuous(a ContinuousAction) (move, aim mathx.Vec2, shoot, brake, burst bool) {
	move = clampUnit(mathx.Vec2{X: math.Tanh(a[0]), Y: math.Tanh(a[1])})
	if mathx.Norm(move) < actionNoopMagnitude {
		move = mathx.Vec2{}
	}
	aimRaw := mathx.Vec2{X: math.Tanh(a[2]), Y: math.Tanh(a[3])}
	if mathx.Norm(aimRaw) < actionNoopMagnitude {
		aim = mathx.Vec2{}
	} else {
		aim = mathx.Normalize(aimRaw)
	}
	shoot = a[4] > 0
	brake = a[5] > 0
	burst = a[6] > 0
	return
}

func clampUnit(v mathx.Vec2) mathx.Vec2 {
	n := mathx.Norm(v)
	if n > 1 {
		return mathx.Scale(1/n, v)
	}
	return v
}

func eightDir(k int) mathx.Vec2 {
	if k < 0 || k >= 8 {
		return mathx.Vec2{}
	}
	return mathx.FromAngle(float64(k) * math.Pi / 4)
}

func decodeDiscrete(a DiscreteAction) (move, aim mathx.Vec2, shoot, brake, burst bool) {
	move = eightDir(a[0])
	aim = eightDir(a[1])
	buttons := a[2]
	shoot = buttons&1 != 0
	brake = buttons&2 != 0
	burst = buttons&4 != 0
	return
}

// fireWeapon calls Shoot unconditionally (spec.md §4.3/§9: shot_this_step
// and heat always advance), spawning projectiles only when it reports a
// shot actually fired.
func (env *Env) fireWeapon(d *Drone, holdingTrigger bool) {
	weapon := d.Weapon
	n := d.Shoot(holdingTrigger)
	if n == 0 {
		return
	}
	simmetrics.RecordShotFired(weapon.String())
	env.spawnProjectiles(d, weapon, n)
}

func dot(a, b mathx.Vec2) float64 { return a.X*b.X + a.Y*b.Y }

func (env *Env) spawnProjectiles(d *Drone, weapon WeaponKind, n int) {
	info := Info(weapon)
	vel := d.Body.Velocity()
	for i := 0; i < n; i++ {
		aim := env.jitterAim(weapon, d.LastAim, d.Heat)
		pos := mathx.Add(d.Body.Position(), mathx.Scale(1+1.5*info.Radius, aim))
		proj := NewProjectile(env.World, d.Idx, weapon, pos, aim, len(env.Projectiles))
		env.Projectiles = append(env.Projectiles, proj)
		env.projectilesByBody[proj.Body] = proj

		forward := mathx.Scale(dot(vel, aim), aim)
		lateral := mathx.Sub(vel, forward)
		mag := env.jitterFireMagnitude(weapon, info.FireMagnitude)
		impulse := mathx.Add(mathx.Scale(info.Density/droneMoveAimDivisor, lateral), mathx.Scale(mag, aim))
		proj.Body.ApplyImpulse(impulse)
	}
}

func (env *Env) jitterAim(weapon WeaponKind, aim mathx.Vec2, heat float64) mathx.Vec2 {
	switch weapon {
	case WeaponMachineGun:
		sigma := machineGunSwayBase * math.Log(heat/5+1) / math.Log(machineGunSwayLogBase)
		angle := mathx.GaussianJitter(env.RNG, mathx.Angle(aim), sigma)
		return mathx.FromAngle(angle)
	case WeaponShotgun:
		j := mathx.Vec2{
			X: aim.X + env.RNG.UniformRange(-shotgunSpreadHalfWidth, shotgunSpreadHalfWidth),
			Y: aim.Y + env.RNG.UniformRange(-shotgunSpreadHalfWidth, shotgunSpreadHalfWidth),
		}
		return mathx.Normalize(j)
	default:
		return aim
	}
}

func (env *Env) jitterFireMagnitude(weapon WeaponKind, base float64) float64 {
	if weapon == WeaponShotgun {
		return base + env.RNG.UniformRange(-shotgunFireMagnitudeJitter, shotgunFireMagnitudeJitter)
	}
	return base
}

// applyBurst pushes every nearby body away from d except d itself (spec.md
// §4.3's burst excludes the parent drone from its own blast entirely,
// unlike a weapon explosion which the firing drone can still be caught
// in).
func (env *Env) applyBurst(d *Drone, radius, falloff, impulsePerLength float64) {
	env.World.ApplyExplosion(d.Body.Position(), radius, falloff, impulsePerLength, func(b *physics.Body) bool {
		if other, ok := env.dronesByBody[b]; ok && other == d {
			return false
		}
		return filterExplosionTarget(b)
	})
}

func filterExplosionTarget(b *physics.Body) bool {
	switch b.Kind {
	case physics.EntityWall, physics.EntityFloatingWall, physics.EntityProjectile, physics.EntityDrone:
		return true
	default:
		return false
	}
}

func (env *Env) stepProjectiles() {
	kept := env.Projectiles[:0]
	for _, p := range env.Projectiles {
		if p.Exploding() || !p.Alive() {
			continue
		}
		if !p.Update() {
			info := Info(p.Weapon)
			if info.Explosive {
				env.explode(p)
			}
			env.destroyProjectile(p)
			continue
		}
		kept = append(kept, p)
	}
	env.Projectiles = kept
}

func (env *Env) destroyProjectile(p *Projectile) {
	if _, ok := env.projectilesByBody[p.Body]; !ok {
		return
	}
	delete(env.projectilesByBody, p.Body)
	env.World.Destroy(p.Body)
	p.Kill()
}

// explode applies an explosion centered on p's position, matching spec.md
// §4.4's accounting: every drone in range records a hit/taken pair, and
// any mine-launcher projectile caught in the blast chains into its own
// explosion exactly once.
func (env *Env) explode(p *Projectile) {
	if p.Exploding() && !p.Alive() {
		return // already exploded in this chain
	}
	p.QueueExplosion()
	p.Kill()
	info := Info(p.Weapon)
	center := p.Body.Position()

	hits := env.World.ApplyExplosion(center, info.ExplosionRadius, info.ExplosionFalloff, info.ImpulsePerLength, filterExplosionTarget)
	for _, b := range hits {
		if victim, ok := env.dronesByBody[b]; ok {
			env.registerExplosionHit(p.DroneIdx, victim)
			continue
		}
		if other, ok := env.projectilesByBody[b]; ok && other != p && !other.Exploding() {
			if other.Weapon == WeaponMineLauncher {
				other.QueueExplosion()
			}
		}
	}

	for _, other := range env.Projectiles {
		if other.Exploding() && other.Alive() {
			env.explode(other)
			env.destroyProjectile(other)
		}
	}
}

func (env *Env) registerExplosionHit(shooterIdx int, victim *Drone) {
	if shooterIdx >= 0 && shooterIdx < len(victim.StepInfo.ExplosionTaken) {
		victim.StepInfo.ExplosionTaken[shooterIdx] = true
	}
	if shooterIdx == victim.Idx {
		return
	}
	if shooterIdx >= 0 && shooterIdx < len(env.Drones) {
		shooter := env.Drones[shooterIdx]
		if victim.Idx < len(shooter.StepInfo.ExplosionHit) {
			shooter.StepInfo.ExplosionHit[victim.Idx] = true
		}
	}
}

func (env *Env) processEvents(events []physics.ContactEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case physics.ContactBegin:
			env.handleContactBegin(ev.A, ev.B)
		case physics.ContactEnd:
			env.handleContactEnd(ev.A, ev.B)
		case physics.SensorBegin:
			env.handleSensorBegin(ev.A, ev.B)
		case physics.SensorEnd:
			env.handleSensorEnd(ev.A, ev.B)
		}
	}
}

func (env *Env) handleContactBegin(a, b *physics.Body) {
	pa, pokA := env.projectilesByBody[a]
	pb, pokB := env.projectilesByBody[b]

	switch {
	case pokA && pokB:
		env.handleProjectileProjectile(pa, pb)
	case pokA:
		env.handleProjectileContact(pa, b)
	case pokB:
		env.handleProjectileContact(pb, a)
	}
}

func (env *Env) handleProjectileProjectile(a, b *Projectile) {
	if a.Weapon == WeaponMineLauncher || b.Weapon == WeaponMineLauncher {
		for _, p := range []*Projectile{a, b} {
			if Info(p.Weapon).Explosive {
				env.explode(p)
				env.destroyProjectile(p)
			}
		}
		return
	}
	a.RegisterBounce()
	b.RegisterBounce()
}

func (env *Env) handleProjectileContact(p *Projectile, other *physics.Body) {
	wall, isWall := env.wallsByBody[other]
	drone, isDrone := env.dronesByBody[other]

	switch {
	case isWall:
		env.handleProjectileWall(p, wall)
	case isDrone:
		env.handleProjectileDrone(p, drone)
	}
}

func (env *Env) handleProjectileWall(p *Projectile, wall *arenamap.Wall) {
	if wall.Kind != arenamap.CellBouncyWall {
		if !p.RegisterBounce() {
			info := Info(p.Weapon)
			if info.Explosive {
				env.explode(p)
			}
			env.destroyProjectile(p)
			return
		}
	}

	if p.Weapon != WeaponMineLauncher {
		return
	}
	for _, d := range env.Drones {
		if mathx.Distance(p.Body.Position(), d.Body.Position()) <= mineLauncherProximityRadius {
			env.explode(p)
			env.destroyProjectile(p)
			return
		}
	}
	p.SetMine = true
	p.Body.SetVelocity(mathx.Vec2{})
}

func (env *Env) handleProjectileDrone(p *Projectile, d *Drone) {
	info := Info(p.Weapon)

	if d.Idx == p.DroneIdx {
		d.StepInfo.OwnShotTaken = true
	} else {
		d.TakeHit(p.Weapon, p.DroneIdx)
		simmetrics.RecordShotHit(p.Weapon.String())
		if p.DroneIdx >= 0 && p.DroneIdx < len(env.Drones) {
			shooter := env.Drones[p.DroneIdx]
			if d.Idx < len(shooter.StepInfo.ShotHit) {
				shooter.StepInfo.ShotHit[d.Idx] = true
			}
			shooter.Stats.ShotsHit[p.Weapon]++
			shooter.EnergyLeft += info.EnergyRefill
			if shooter.EnergyLeft > droneEnergyMax {
				shooter.EnergyLeft = droneEnergyMax
			}
		}
	}

	if !p.RegisterBounce() || info.DestroyedOnDroneHit {
		if info.Explosive && info.ExplodesOnDroneHit {
			env.explode(p)
		}
		env.destroyProjectile(p)
	}
}

func (env *Env) handleContactEnd(a, b *physics.Body) {
	if p, ok := env.projectilesByBody[a]; ok {
		p.ResolveBounceSpeed()
	}
	if p, ok := env.projectilesByBody[b]; ok {
		p.ResolveBounceSpeed()
	}
}

func (env *Env) handleSensorBegin(a, b *physics.Body) {
	pickup, pok := env.pickupsByBody[a]
	drone, dok := env.dronesByBody[b]
	if !pok || !dok {
		pickup, pok = env.pickupsByBody[b]
		drone, dok = env.dronesByBody[a]
	}
	if pok && dok {
		env.collectPickup(pickup, drone)
		return
	}

	pickup, pok = env.pickupsByBody[a]
	_, wok := env.wallsByBody[b]
	if !pok || !wok {
		pickup, pok = env.pickupsByBody[b]
		_, wok = env.wallsByBody[a]
	}
	if pok && wok {
		pickup.FloatingWallsTouching++
	}
}

func (env *Env) handleSensorEnd(a, b *physics.Body) {
	pickup, pok := env.pickupsByBody[a]
	_, wok := env.wallsByBody[b]
	if !pok || !wok {
		pickup, pok = env.pickupsByBody[b]
		_, wok = env.wallsByBody[a]
	}
	if pok && wok && pickup.FloatingWallsTouching > 0 {
		pickup.FloatingWallsTouching--
	}
}

func (env *Env) collectPickup(p *Pickup, d *Drone) {
	if !p.Active() {
		return
	}
	d.PickUpWeapon(p.Weapon)
	simmetrics.RecordWeaponPickup()
	env.spawnedWeaponPickups[p.Weapon]--
	delete(env.pickupsByBody, p.Body)
	env.World.Destroy(p.Body)
	p.Body = nil
	p.Collect(env.SuddenDeath.Active())
}

func (env *Env) stepPickups() {
	for _, p := range env.Pickups {
		wasWaiting := p.RespawnWait > 0
		p.UpdateTimer(physicsDt)
		if wasWaiting && p.RespawnWait <= 0 && p.Body == nil {
			env.respawnPickup(p)
		}
	}
}

func (env *Env) respawnPickup(p *Pickup) {
	pos, ok := env.findOpenPos(physics.EntityWeaponPickup, -1)
	if !ok {
		p.RespawnWait = -1 // retired: never becomes active again
		return
	}
	kinds, weights := weightedSpawnableKinds(env.DefaultWeapon, env.spawnedWeaponPickups)
	total := 0.0
	for _, w := range weights {
		total += w
	}
	p.Weapon = weightedPick(env.RNG, kinds, weights, total)
	p.CellIdx = env.cellIndexForPos(pos)
	body := env.World.CreateCircleBody(pos, 0.5, 0, false, physics.DefaultPickupFilter(), true, physics.EntityWeaponPickup, p.CellIdx)
	p.Body = body
	env.pickupsByBody[body] = p
	env.spawnedWeaponPickups[p.Weapon]++
}

// createWeaponPickup places one new pickup, cycling through spawn quads,
// matching spec.md §4.2.
func (env *Env) createWeaponPickup() {
	env.lastSpawnQuad = (env.lastSpawnQuad + 1) % 4
	pos, ok := env.findOpenPos(physics.EntityWeaponPickup, env.lastSpawnQuad)
	if !ok {
		return
	}
	kinds, weights := weightedSpawnableKinds(env.DefaultWeapon, env.spawnedWeaponPickups)
	total := 0.0
	for _, w := range weights {
		total += w
	}
	kind := weightedPick(env.RNG, kinds, weights, total)
	idx := env.cellIndexForPos(pos)
	p := NewPickup(env.World, kind, pos, idx)
	env.Pickups = append(env.Pickups, p)
	env.pickupsByBody[p.Body] = p
	env.spawnedWeaponPickups[kind]++
}

// weightedSpawnableKinds implements spec.md §4.2's per-weapon weight:
// spawn_weight(w) / (2 · (spawned_weapon_pickups[w] + 1)) for every
// non-default weapon, so weapons already saturating the arena become less
// likely to spawn again.
func weightedSpawnableKinds(defaultWeapon WeaponKind, spawned [numWeaponKinds]int) ([]WeaponKind, []float64) {
	allKinds, allWeights := SpawnableKinds()
	var kinds []WeaponKind
	var weights []float64
	for i, k := range allKinds {
		if k == defaultWeapon {
			continue
		}
		kinds = append(kinds, k)
		weights = append(weights, allWeights[i]/(2*float64(spawned[k]+1)))
	}
	return kinds, weights
}

func (env *Env) cellIndexForPos(pos mathx.Vec2) int {
	col := int(math.Floor(pos.X / arenamap.WallThickness))
	row := int(math.Floor(pos.Y / arenamap.WallThickness))
	if col < 0 || col >= env.Grid.Columns || row < 0 || row >= env.Grid.Rows {
		return -1
	}
	return env.Grid.Index(col, row)
}

// findOpenPos implements spec.md §4.1's rejection-sampling spawn search:
// up to one trial per cell, rejecting occupied cells and, depending on
// category, cells too close to existing pickups/drones/floating walls.
func (env *Env) findOpenPos(category physics.EntityKind, quad int) (mathx.Vec2, bool) {
	tried := make(map[int]bool)
	open := env.Grid.OpenCells()
	if len(open) == 0 {
		return mathx.Vec2{}, false
	}

	for trial := 0; trial < len(env.Grid.Cells); trial++ {
		var idx int
		if quad < 0 {
			idx = open[env.RNG.Intn(len(open))]
		} else {
			pos := env.SpawnQuads[quad].sample(env.RNG)
			idx = env.cellIndexForPos(pos)
			if idx < 0 {
				continue
			}
		}
		if tried[idx] {
			continue
		}
		tried[idx] = true

		cell := env.Grid.CellAtIndex(idx)
		if cell.Kind != arenamap.CellOpen {
			continue
		}
		if env.cellOccupiedByDynamic(idx) {
			continue
		}

		pos := cell.Pos
		if category == physics.EntityWeaponPickup && env.tooCloseToPickups(pos) {
			continue
		}
		if category == physics.EntityDrone && env.tooCloseToDrones(pos) {
			continue
		}
		if env.tooCloseToFloatingOrDrone(pos) {
			continue
		}
		return pos, true
	}
	return mathx.Vec2{}, false
}

func (env *Env) cellOccupiedByDynamic(idx int) bool {
	for _, p := range env.Pickups {
		if p.CellIdx == idx && p.Body != nil {
			return true
		}
	}
	return false
}

func (env *Env) tooCloseToPickups(pos mathx.Vec2) bool {
	for _, p := range env.Pickups {
		if p.Body == nil {
			continue
		}
		d := mathx.Distance(pos, p.Body.Position())
		if d*d < pickupSpawnDistanceSquared {
			return true
		}
	}
	return false
}

func (env *Env) tooCloseToDrones(pos mathx.Vec2) bool {
	for _, d := range env.Drones {
		dist := mathx.Distance(pos, d.Body.Position())
		if dist*dist < droneDroneSpawnDistanceSquared {
			return true
		}
	}
	return false
}

func (env *Env) tooCloseToFloatingOrDrone(pos mathx.Vec2) bool {
	for _, w := range env.FloatingWalls {
		if mathx.Distance(pos, w.Body.Position()) < minSpawnDistance {
			return true
		}
	}
	for _, d := range env.Drones {
		if mathx.Distance(pos, d.Body.Position()) < minSpawnDistance {
			return true
		}
	}
	return false
}

// applySuddenDeathRing implements spec.md §4.5 steps 4-6: kill drones
// overlapping a freshly placed ring, drop floating walls and projectiles
// caught inside it, and disable any pickup on a ring cell.
func (env *Env) applySuddenDeathRing(newWalls []arenamap.Wall) {
	ringCells := make(map[int]bool, len(newWalls))
	for _, w := range newWalls {
		wp := w
		env.Walls = append(env.Walls, &wp)
		env.wallsByBody[wp.Body] = &wp
		ringCells[wp.Body.Ref] = true
	}

	for _, d := range env.Drones {
		if d.Dead {
			continue
		}
		idx := env.cellIndexForPos(d.Body.Position())
		if ringCells[idx] {
			d.Kill(env.NumDrones != 2)
		}
	}

	keptFloating := env.FloatingWalls[:0]
	for _, w := range env.FloatingWalls {
		idx := env.cellIndexForPos(w.Body.Position())
		if ringCells[idx] {
			delete(env.wallsByBody, w.Body)
			env.World.Destroy(w.Body)
			continue
		}
		keptFloating = append(keptFloating, w)
	}
	env.FloatingWalls = keptFloating

	keptProjectiles := env.Projectiles[:0]
	for _, p := range env.Projectiles {
		idx := env.cellIndexForPos(p.Body.Position())
		if ringCells[idx] {
			env.destroyProjectile(p)
			continue
		}
		keptProjectiles = append(keptProjectiles, p)
	}
	env.Projectiles = keptProjectiles

	for _, p := range env.Pickups {
		if p.Body == nil {
			continue
		}
		if ringCells[p.CellIdx] {
			delete(env.pickupsByBody, p.Body)
			env.World.Destroy(p.Body)
			env.spawnedWeaponPickups[p.Weapon]--
			p.Body = nil
			p.Collect(true)
		}
	}
}

func (env *Env) logEpisode(winner int) {
	stats := make([]simlog.DroneStats, len(env.Drones))
	for i, d := range env.Drones {
		var fired, hit, taken, own, picked float64
		for k := 0; k < int(numWeaponKinds); k++ {
			fired += d.Stats.ShotsFired[k]
			hit += d.Stats.ShotsHit[k]
			taken += d.Stats.ShotsTaken[k]
			own += d.Stats.OwnShotsTaken[k]
			picked += d.Stats.WeaponsPickedUp[k]
		}
		stats[i] = simlog.DroneStats{
			DistanceTraveled: d.Stats.DistanceTraveled,
			ShotsFired:       fired,
			ShotsHit:         hit,
			ShotsTaken:       taken,
			OwnShotsTaken:    own,
			WeaponsPickedUp:  picked,
		}
	}
	reward := make([]float64, len(env.episodeReward))
	copy(reward, env.episodeReward)

	win := -1
	if winner >= 0 {
		win = winner
	}
	env.Logs.Append(simlog.Entry{
		Reward: reward,
		Length: env.EpisodeLength,
		Winner: win,
		Stats:  stats,
	})
}
