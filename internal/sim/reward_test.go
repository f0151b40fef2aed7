package sim

import (
	"testing"

	"dronearena/internal/mathx"
	"dronearena/internal/physics"
)

func newRewardTestEnv(t *testing.T, n int) *Env {
	t.Helper()
	w := physics.NewWorld()
	env := &Env{
		World:         w,
		Rewards:       make([]float64, n),
		episodeReward: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d := NewDrone(w, i, mathx.Vec2{X: float64(i), Y: 0}, WeaponStandard)
		d.BeginStep(n)
		env.Drones = append(env.Drones, d)
	}
	return env
}

func TestScaleUnitClamps(t *testing.T) {
	if v := scaleUnit(-5, 10); v != 0 {
		t.Errorf("expected clamp to 0 below range, got %v", v)
	}
	if v := scaleUnit(20, 10); v != 1 {
		t.Errorf("expected clamp to 1 above range, got %v", v)
	}
	if v := scaleUnit(5, 10); v != 0.5 {
		t.Errorf("expected 0.5 at midpoint, got %v", v)
	}
}

func TestComputeRewardsDeathAndWin(t *testing.T) {
	env := newRewardTestEnv(t, 2)
	env.Drones[0].DiedThisStep = true

	env.computeRewards(1)

	if env.Rewards[0] != deathPunishment {
		t.Errorf("expected deathPunishment for drone 0, got %v", env.Rewards[0])
	}
	if env.Rewards[1] != winReward {
		t.Errorf("expected winReward for drone 1, got %v", env.Rewards[1])
	}
	if env.episodeReward[0] != env.Rewards[0] {
		t.Error("expected episode total to accumulate the same as the per-step reward on the first call")
	}
}

func TestComputeRewardsWeaponPickup(t *testing.T) {
	env := newRewardTestEnv(t, 1)
	env.Drones[0].StepInfo.PickedUpWeapon = true

	env.computeRewards(-1)

	if env.Rewards[0] != weaponPickupReward {
		t.Errorf("expected weaponPickupReward, got %v", env.Rewards[0])
	}
}

func TestComputeRewardsShotHitScalesBySpeedDelta(t *testing.T) {
	env := newRewardTestEnv(t, 2)
	shooter, victim := env.Drones[0], env.Drones[1]
	shooter.StepInfo.ShotHit[1] = true
	victim.LastVelocity = mathx.Vec2{X: 0, Y: 0}
	victim.Body.SetVelocity(mathx.Vec2{X: maxSpeed, Y: 0})

	env.computeRewards(-1)

	want := shotHitRewardCoef * 1.0
	if env.Rewards[0] != want {
		t.Errorf("expected %v, got %v", want, env.Rewards[0])
	}
}

func TestComputeRewardsAccumulatesAcrossCalls(t *testing.T) {
	env := newRewardTestEnv(t, 1)
	env.Drones[0].StepInfo.PickedUpWeapon = true
	env.computeRewards(-1)
	env.Drones[0].BeginStep(1)
	env.Drones[0].StepInfo.PickedUpWeapon = true
	env.computeRewards(-1)

	want := 2 * weaponPickupReward
	if env.episodeReward[0] != want {
		t.Errorf("expected accumulated episode reward %v, got %v", want, env.episodeReward[0])
	}
}
