package tspace

import (
	"fmt"
	"math"

	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

// MaxGridLevels bounds grid depth; a grid holds 4^levels cells.
const MaxGridLevels = tetracoord.MaxEnumerateLevels

// Cells returns every cell whose address has exactly levels digits at power
// 0, in ascending address order.
func (s *Space) Cells(levels int) []Cell {
	addrs := tetracoord.Enumerate(levels, tetracoord.WithOrder(s.order))
	cells := make([]Cell, len(addrs))
	for i, t := range addrs {
		cells[i] = newCell(t, s)
	}
	return cells
}

// Grid is an indexed set of all cells of a space at a fixed depth.
type Grid struct {
	space  *Space
	levels int
	cells  []Cell
	index  map[string]int
}

// NewGrid enumerates the cells of s with levels digits.
func NewGrid(s *Space, levels int) (*Grid, error) {
	if levels < 1 || levels > MaxGridLevels {
		return nil, fmt.Errorf("%w: grid levels must be in 1..%d, got %d", ErrInvalidSpace, MaxGridLevels, levels)
	}
	g := &Grid{
		space:  s,
		levels: levels,
		cells:  s.Cells(levels),
	}
	g.index = make(map[string]int, len(g.cells))
	for i, c := range g.cells {
		g.index[key(c.tcoord)] = i
	}
	return g, nil
}

// key is independent of storage order.
func key(t tetracoord.Tetracoordinate) string {
	return t.Reorder(tetracoord.HighFirst).DigitString()
}

// Levels returns the number of digits of every grid address.
func (g *Grid) Levels() int { return g.levels }

// Len returns the number of cells, 4^levels.
func (g *Grid) Len() int { return len(g.cells) }

// Space returns the space the grid was built from.
func (g *Grid) Space() *Space { return g.space }

// Cells returns the grid cells in ascending address order. The slice is
// shared and must not be modified.
func (g *Grid) Cells() []Cell { return g.cells }

// Cell returns the grid cell for t. Addresses of another depth or power are
// not in the grid.
func (g *Grid) Cell(t tetracoord.Tetracoordinate) (Cell, bool) {
	if t.Power() != 0 || t.NumLevels() != g.levels {
		return Cell{}, false
	}
	i, ok := g.index[key(t)]
	if !ok {
		return Cell{}, false
	}
	return g.cells[i], true
}

// Nearest returns the grid cell whose centroid lies closest to a display
// point.
func (g *Grid) Nearest(display vector2d.Vector2D) Cell {
	local := g.space.Untransform(display)
	best, bestDist := 0, math.Inf(1)
	for i, c := range g.cells {
		if d := c.Centroid().Sub(local).Magnitude(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return g.cells[best]
}
