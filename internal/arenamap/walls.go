package arenamap

import (
	"dronearena/internal/mathx"
	"dronearena/internal/physics"
)

// Wall is a fixed or floating wall entity placed in the world.
type Wall struct {
	Body       *physics.Body
	Kind       CellKind
	IsFloating bool
}

// BuildFixedWalls creates one static body per non-open cell in the grid,
// merging nothing — each cell becomes its own box body, matching
// original_source's per-cell wall entities (wallEntity) rather than a
// single merged collision mesh, since sudden-death wall placement needs to
// add/remove individual cells over the episode.
func BuildFixedWalls(w *physics.World, g *Grid) []Wall {
	half := WallThickness / 2
	var walls []Wall
	for idx, cell := range g.Cells {
		if cell.Kind == CellOpen {
			continue
		}
		body := w.CreateBoxBody(cell.Pos, half, half, false, physics.DefaultWallFilter(), physics.EntityWall, idx)
		walls = append(walls, Wall{Body: body, Kind: cell.Kind})
	}
	return walls
}

// PlaceFloatingWalls spawns count dynamic floating walls of kind on cells
// carrying the matching eligibility bit, sampled without replacement via
// rng. Returns fewer than count if there aren't enough eligible cells.
func PlaceFloatingWalls(w *physics.World, g *Grid, kind CellKind, elig Eligibility, count int, rng *mathx.RNG) []Wall {
	candidates := g.EligibleCells(elig)
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	half := FloatingWallThickness / 2
	var walls []Wall
	for i := 0; i < count && i < len(candidates); i++ {
		idx := candidates[i]
		pos := g.CellAtIndex(idx).Pos
		body := w.CreateBoxBody(pos, half, half, true, physics.DefaultFloatingWallFilter(), physics.EntityFloatingWall, idx)
		walls = append(walls, Wall{Body: body, Kind: kind, IsFloating: true})
	}
	return walls
}

// FloatingWallThickness matches original_source/src/settings.h
// FLOATING_WALL_THICKNESS (floating walls are slightly thinner than the
// fixed grid walls so they visibly read as distinct obstacles).
const FloatingWallThickness = 3.0
</content>
