package tspace

import (
	"fmt"
	"math"

	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

const (
	cosPiOver6 = 0.8660254037844386
	sinPiOver6 = 0.5

	// anchorRatio is the distance from the bounding box center of a unit
	// triangle to its centroid.
	anchorRatio = 0.25
)

// upTriangle holds the vertices of an upward pointing triangle of
// circumradius 1 around its centroid. A downward triangle is its negation.
var upTriangle = [3]vector2d.Vector2D{
	{X: 0, Y: 1},
	{X: -cosPiOver6, Y: -sinPiOver6},
	{X: cosPiOver6, Y: -sinPiOver6},
}

// CellFlip reports whether the cell of t points down. It starts true and
// toggles once for every nonzero digit.
func CellFlip(t tetracoord.Tetracoordinate) bool {
	flip := true
	for _, d := range t.Digits() {
		if d != 0 {
			flip = !flip
		}
	}
	return flip
}

func anchor(flip bool, size float64) vector2d.Vector2D {
	if flip {
		return vector2d.Vector2D{Y: anchorRatio * size}
	}
	return vector2d.Vector2D{Y: -anchorRatio * size}
}

// Cell is the triangle addressed by one tetracoordinate within a space.
// Local geometry is in the reference (Up) frame, unscaled.
type Cell struct {
	tcoord tetracoord.Tetracoordinate
	space  *Space
	ccoord vector2d.Vector2D
	flip   bool
	size   float64
}

func newCell(t tetracoord.Tetracoordinate, s *Space) Cell {
	return Cell{
		tcoord: t,
		space:  s,
		ccoord: t.ToCartesian(),
		flip:   CellFlip(t),
		size:   math.Ldexp(1, t.Power()),
	}
}

// Tcoord returns the address of the cell.
func (c Cell) Tcoord() tetracoord.Tetracoordinate { return c.tcoord }

// Space returns the space the cell is bound to.
func (c Cell) Space() *Space { return c.space }

// Ccoord returns the nominal cartesian position of the address.
func (c Cell) Ccoord() vector2d.Vector2D { return c.ccoord }

// Flip reports whether the cell points down.
func (c Cell) Flip() bool { return c.flip }

// Size returns the circumradius of the triangle, 2^power.
func (c Cell) Size() float64 { return c.size }

// Anchor returns the offset from the bounding box center to the centroid.
func (c Cell) Anchor() vector2d.Vector2D { return anchor(c.flip, c.size) }

// Centroid returns the local centroid.
func (c Cell) Centroid() vector2d.Vector2D { return c.ccoord.Add(c.Anchor()) }

// BoundsCenter returns the local bounding box center, which is the raw
// ccoord.
func (c Cell) BoundsCenter() vector2d.Vector2D { return c.ccoord }

// Points returns the three local vertices.
func (c Cell) Points() [3]vector2d.Vector2D {
	centroid := c.Centroid()
	var pts [3]vector2d.Vector2D
	for i, v := range c.template() {
		pts[i] = centroid.Add(v.Mul(c.size))
	}
	return pts
}

// ScaledPoints returns the vertices relative to the bounding box center,
// scaled by the space scale and, if oriented is set, rotated into the space
// orientation. They are not translated.
func (c Cell) ScaledPoints(oriented bool) [3]vector2d.Vector2D {
	a := c.Anchor()
	var pts [3]vector2d.Vector2D
	for i, v := range c.template() {
		p := a.Add(v.Mul(c.size)).Mul(c.space.scale)
		if oriented {
			p = c.space.OrientPoint(p)
		}
		pts[i] = p
	}
	return pts
}

// PointsTransformed returns the vertices in display coordinates.
func (c Cell) PointsTransformed() [3]vector2d.Vector2D {
	pts := c.Points()
	for i := range pts {
		pts[i] = c.space.Transform(pts[i])
	}
	return pts
}

// CentroidTransformed returns the centroid in display coordinates.
func (c Cell) CentroidTransformed() vector2d.Vector2D {
	return c.space.Transform(c.Centroid())
}

// BoundsCenterTransformed returns the bounding box center in display
// coordinates.
func (c Cell) BoundsCenterTransformed() vector2d.Vector2D {
	return c.space.Transform(c.ccoord)
}

func (c Cell) template() [3]vector2d.Vector2D {
	if !c.flip {
		return upTriangle
	}
	var down [3]vector2d.Vector2D
	for i, v := range upTriangle {
		down[i] = v.Neg()
	}
	return down
}

func (c Cell) String() string {
	return fmt.Sprintf("tcell(tcoord=%s flip=%t ccoord=%s)", c.tcoord.Text(), c.flip, c.ccoord)
}
