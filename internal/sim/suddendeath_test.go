package sim

import (
	"testing"

	"dronearena/internal/arenamap"
	"dronearena/internal/physics"
)

func testGrid() *arenamap.Grid {
	return arenamap.ParseLayout(
		"DDDDDDD\n" +
			"DOOOOOD\n" +
			"DOOOOOD\n" +
			"DOOOOOD\n" +
			"DOOOOOD\n" +
			"DOOOOOD\n" +
			"DDDDDDD\n",
	)
}

func TestSuddenDeathTickCountsDownBeforePlacingRings(t *testing.T) {
	sd := NewSuddenDeath(3)
	w := physics.NewWorld()
	g := testGrid()

	for i := 0; i < 3; i++ {
		if walls := sd.Tick(w, g); walls != nil {
			t.Fatalf("expected no rings before sudden death starts, got %v at tick %d", walls, i)
		}
	}
	if !sd.Active() {
		t.Fatal("expected sudden death to be active once StepsLeft reaches 0")
	}
}

func TestSuddenDeathFirstRingIsInsetFromTheAlreadySolidBorder(t *testing.T) {
	sd := NewSuddenDeath(0)
	w := physics.NewWorld()
	g := testGrid()

	for i := 0; i < suddenDeathSteps-1; i++ {
		if walls := sd.Tick(w, g); walls != nil {
			t.Fatalf("expected no ring before suddenDeathSteps elapse, got %v at tick %d", walls, i)
		}
	}
	walls := sd.Tick(w, g)
	if len(walls) == 0 {
		t.Fatal("expected the first ring to place at least one wall on an interior ring")
	}
	for _, wall := range walls {
		pos := wall.Body.Position()
		// depth 1 ring sits one cell thickness inside the grid's already-solid
		// border (depth 0), not on the border itself.
		if pos.X <= arenamap.WallThickness*0.5 || pos.Y <= arenamap.WallThickness*0.5 {
			t.Errorf("expected first ring wall inset from the border, got position %+v", pos)
		}
	}
	if sd.WallsPlaced != 1 {
		t.Errorf("expected WallsPlaced=1 after the first ring, got %d", sd.WallsPlaced)
	}
}

func TestSuddenDeathClearRadiusShrinksWithWallsPlaced(t *testing.T) {
	sd := NewSuddenDeath(0)
	g := testGrid()

	before := sd.ClearRadius(g)
	sd.WallsPlaced = 1
	after := sd.ClearRadius(g)
	if after != before-1 {
		t.Errorf("expected ClearRadius to shrink by exactly 1 per wall ring, got %d -> %d", before, after)
	}
}
