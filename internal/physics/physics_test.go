package physics

import (
	"testing"

	"dronearena/internal/mathx"
)

func TestCreateAndDestroyBody(t *testing.T) {
	w := NewWorld()
	body := w.CreateCircleBody(mathx.Vec2{X: 1, Y: 2}, 1.0, 1.25, true, DefaultDroneFilter(), false, EntityDrone, 0)
	if len(w.bodies) != 1 {
		t.Fatalf("expected 1 tracked body, got %d", len(w.bodies))
	}
	pos := body.Position()
	if pos.X != 1 || pos.Y != 2 {
		t.Fatalf("unexpected spawn position: %+v", pos)
	}
	w.Destroy(body)
	if len(w.bodies) != 0 {
		t.Fatalf("expected body removed after Destroy, got %d remaining", len(w.bodies))
	}
}

func TestOverlapCircle(t *testing.T) {
	w := NewWorld()
	a := w.CreateCircleBody(mathx.Vec2{X: 0, Y: 0}, 1.0, 1.0, true, DefaultDroneFilter(), false, EntityDrone, 0)
	w.CreateCircleBody(mathx.Vec2{X: 50, Y: 50}, 1.0, 1.0, true, DefaultDroneFilter(), false, EntityDrone, 1)

	hits := w.OverlapCircle(mathx.Vec2{X: 0, Y: 0}, 3.0, nil)
	if len(hits) != 1 || hits[0] != a {
		t.Fatalf("expected only the nearby body to overlap, got %d hits", len(hits))
	}
}

func TestApplyExplosionOnlyAffectsInRange(t *testing.T) {
	w := NewWorld()
	near := w.CreateCircleBody(mathx.Vec2{X: 2, Y: 0}, 1.0, 1.0, true, DefaultDroneFilter(), false, EntityDrone, 0)
	w.CreateCircleBody(mathx.Vec2{X: 100, Y: 0}, 1.0, 1.0, true, DefaultDroneFilter(), false, EntityDrone, 1)

	affected := w.ApplyExplosion(mathx.Vec2{X: 0, Y: 0}, 5.0, 0.0, 20.0, nil)
	if len(affected) != 1 || affected[0] != near {
		t.Fatalf("expected only the near body to be affected, got %d", len(affected))
	}
}

func TestApplyExplosionFalloffBandDecaysToZero(t *testing.T) {
	w := NewWorld()
	edge := w.CreateCircleBody(mathx.Vec2{X: 9, Y: 0}, 1.0, 1.0, true, DefaultDroneFilter(), false, EntityDrone, 0)
	beyond := w.CreateCircleBody(mathx.Vec2{X: 11, Y: 0}, 1.0, 1.0, true, DefaultDroneFilter(), false, EntityDrone, 1)

	affected := w.ApplyExplosion(mathx.Vec2{X: 0, Y: 0}, 5.0, 5.0, 20.0, nil)
	if len(affected) != 1 || affected[0] != edge {
		t.Fatalf("expected only the body within radius+falloff to be affected, got %d", len(affected))
	}
	if beyond.Velocity() != (mathx.Vec2{}) {
		t.Fatalf("expected body beyond radius+falloff to be unaffected, got velocity %+v", beyond.Velocity())
	}
}

func TestApplyExplosionNegativeImpulsePullsInward(t *testing.T) {
	w := NewWorld()
	body := w.CreateCircleBody(mathx.Vec2{X: 3, Y: 0}, 1.0, 1.0, true, DefaultDroneFilter(), false, EntityDrone, 0)

	w.ApplyExplosion(mathx.Vec2{X: 0, Y: 0}, 10.0, 5.0, -150.0, nil)
	if v := body.Velocity(); v.X >= 0 {
		t.Fatalf("expected a negative impulsePerLength to pull the body toward center, got velocity %+v", v)
	}
}
</content>
