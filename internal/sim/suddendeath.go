package sim

import (
	"dronearena/internal/arenamap"
	"dronearena/internal/physics"
)

// suddenDeathSteps matches original_source/src/settings.h's
// SUDDEN_DEATH_STEPS: the number of steps between each successive ring of
// walls once sudden death begins.
const suddenDeathSteps = 5

// SuddenDeath tracks the countdown to, and progression of, the
// ring-wall-contraction endgame mechanic (spec.md §4.5).
type SuddenDeath struct {
	StepsLeft        int // steps remaining before sudden death begins
	NextRingSteps    int // steps remaining until the next ring is placed
	WallsPlaced      int
	ringRadiusShrink float64
}

// NewSuddenDeath starts the countdown at stepsUntilStart steps.
func NewSuddenDeath(stepsUntilStart int) *SuddenDeath {
	return &SuddenDeath{StepsLeft: stepsUntilStart, NextRingSteps: suddenDeathSteps}
}

// Active reports whether sudden death has begun.
func (s *SuddenDeath) Active() bool { return s.StepsLeft <= 0 }

// Tick advances the countdown by one step. When sudden death is active and
// due for its next ring, it places a new wall ring shrinking inward from
// the arena border by one cell-thickness per ring and returns the newly
// created wall bodies.
func (s *SuddenDeath) Tick(w *physics.World, g *arenamap.Grid) []arenamap.Wall {
	if s.StepsLeft > 0 {
		s.StepsLeft--
		return nil
	}

	s.NextRingSteps--
	if s.NextRingSteps > 0 {
		return nil
	}
	s.NextRingSteps = suddenDeathSteps

	s.WallsPlaced++
	ring := s.nextRing(g)
	if len(ring) == 0 {
		return nil
	}

	var walls []arenamap.Wall
	half := arenamap.WallThickness / 2
	for _, cellIdx := range ring {
		pos := g.CellAtIndex(cellIdx).Pos
		body := w.CreateBoxBody(pos, half, half, false, physics.DefaultWallFilter(), physics.EntityWall, cellIdx)
		walls = append(walls, arenamap.Wall{Body: body, Kind: arenamap.CellDeathWall})
	}
	return walls
}

// nextRing returns the open-cell indices forming the ring WallsPlaced
// cells deep from the edge (WallsPlaced has already been incremented by
// Tick for the ring being placed now, so the first ring after sudden
// death begins is inset by one cell from the arena's already-solid
// border, not the border itself).
func (s *SuddenDeath) nextRing(g *arenamap.Grid) []int {
	depth := s.WallsPlaced
	var ring []int
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Columns; col++ {
			if !onRing(col, row, g.Columns, g.Rows, depth) {
				continue
			}
			cell := g.At(col, row)
			if cell.Kind == arenamap.CellOpen {
				ring = append(ring, g.Index(col, row))
			}
		}
	}
	return ring
}

func onRing(col, row, cols, rows, depth int) bool {
	if col < depth || col > cols-1-depth || row < depth || row > rows-1-depth {
		return false
	}
	return col == depth || row == depth || col == cols-1-depth || row == rows-1-depth
}

// ClearRadius reports the zone (in map cells, measured from center) that
// remains safe given the current wall count, without walking the whole
// grid.
func (s *SuddenDeath) ClearRadius(g *arenamap.Grid) int {
	minDim := g.Columns
	if g.Rows < minDim {
		minDim = g.Rows
	}
	remaining := minDim/2 - s.WallsPlaced
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
</content>
