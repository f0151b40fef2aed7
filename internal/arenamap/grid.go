// Package arenamap holds the dense character-grid map model: cell
// addressing, wall-type grammar, and the scalar layout metadata that rides
// alongside each embedded grid.
package arenamap

import "dronearena/internal/mathx"

// CellKind is the permanent terrain a map cell holds. Fixed walls are part
// of the grid itself; floating walls and weapon pickups are separate
// dynamic entities spawned on top of eligible open cells (see Eligibility).
type CellKind uint8

const (
	CellOpen CellKind = iota
	CellStandardWall
	CellBouncyWall
	CellDeathWall
)

// Eligibility marks which kinds of floating wall may be spawned on an
// otherwise-open cell, taken from the lowercase markers in the original
// map grammar ('w' = floating standard-wall candidate, 'd' = floating
// death-wall candidate). A cell with no eligibility bits set is open but
// never chosen for floating-wall placement.
type Eligibility uint8

const (
	EligibleFloatingStandard Eligibility = 1 << iota
	EligibleFloatingDeath
)

// WALL_THICKNESS pitch in original_source/src/settings.h: fixed walls are
// this many units thick/wide along the grid axis they occupy.
const WallThickness = 4.0

// Cell is one entry in the dense row-major grid.
type Cell struct {
	Kind        CellKind
	Eligibility Eligibility
	Pos         mathx.Vec2 // world-space center of this cell
}

// Grid is the parsed, addressable form of an embedded map layout.
type Grid struct {
	Columns, Rows int
	Cells         []Cell // row-major: index = col + row*Columns
}

// Index returns the row-major index for (col, row), matching spec.md §3's
// Map cell model (cell_index = col + row*columns).
func (g *Grid) Index(col, row int) int { return col + row*g.Columns }

// At returns the cell at (col, row).
func (g *Grid) At(col, row int) Cell { return g.Cells[g.Index(col, row)] }

// CellAtIndex returns the cell at a flat row-major index.
func (g *Grid) CellAtIndex(idx int) Cell { return g.Cells[idx] }

// OpenCells returns the flat indices of every open cell, used by spawn
// placement (drones, pickups) to sample valid positions.
func (g *Grid) OpenCells() []int {
	var out []int
	for i, c := range g.Cells {
		if c.Kind == CellOpen {
			out = append(out, i)
		}
	}
	return out
}

// EligibleCells returns the flat indices of open cells carrying the given
// eligibility bit.
func (g *Grid) EligibleCells(e Eligibility) []int {
	var out []int
	for i, c := range g.Cells {
		if c.Kind == CellOpen && c.Eligibility&e != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Bounds returns the world-space extent of the grid, origin at (0,0),
// each cell WallThickness units wide/tall.
func (g *Grid) Bounds() (min, max mathx.Vec2) {
	return mathx.Vec2{X: 0, Y: 0}, mathx.Vec2{
		X: float64(g.Columns) * WallThickness,
		Y: float64(g.Rows) * WallThickness,
	}
}

// ParseLayout turns a raw character grid (one row per newline-separated
// line, alphabet D/O/W/w/d/B per original_source/src/map.h) into a Grid.
// Unknown characters are treated as open cells; this keeps a hand-authored
// layout forgiving of whitespace padding.
func ParseLayout(raw string) *Grid {
	lines := splitNonEmptyLines(raw)
	rows := len(lines)
	cols := 0
	for _, l := range lines {
		if len(l) > cols {
			cols = len(l)
		}
	}

	g := &Grid{Columns: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	for row, line := range lines {
		for col := 0; col < cols; col++ {
			ch := byte('O')
			if col < len(line) {
				ch = line[col]
			}
			idx := g.Index(col, row)
			g.Cells[idx] = Cell{
				Kind:        kindFor(ch),
				Eligibility: eligibilityFor(ch),
				Pos: mathx.Vec2{
					X: (float64(col) + 0.5) * WallThickness,
					Y: (float64(row) + 0.5) * WallThickness,
				},
			}
		}
	}
	return g
}

func kindFor(ch byte) CellKind {
	switch ch {
	case 'W':
		return CellStandardWall
	case 'B':
		return CellBouncyWall
	case 'D':
		return CellDeathWall
	default:
		// 'O', 'w', 'd' are all open terrain; 'w'/'d' additionally carry
		// floating-wall spawn eligibility (see eligibilityFor).
		return CellOpen
	}
}

func eligibilityFor(ch byte) Eligibility {
	switch ch {
	case 'w':
		return EligibleFloatingStandard
	case 'd':
		return EligibleFloatingDeath
	default:
		return 0
	}
}

func splitNonEmptyLines(raw string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == '\n' {
			line := raw[start:i]
			if len(line) > 0 {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	return lines
}
</content>
