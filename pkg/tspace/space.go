// Package tspace maps tetracoordinate addresses onto a display surface.
//
// A Space is immutable once built and may be shared by any number of cells
// and goroutines. Local coordinates are the reference (Up) frame in address
// units; display coordinates are what a renderer draws with.
package tspace

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/gravitas-games/tetracoords/pkg/tetracoord"
	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

// ErrInvalidSpace is returned by New for an unusable configuration.
var ErrInvalidSpace = errors.New("invalid tetracoord space")

// Config describes a space.
type Config struct {
	Orientation tetracoord.Orientation
	// Scale is the length of one address unit in display units.
	Scale float64
	// Origin is the display point of tetracoordinate zero.
	Origin vector2d.Vector2D
	// RotationDirection is +1 when local +Y maps to display +Y, -1 when it
	// maps to display -Y (screen coordinates).
	RotationDirection int
	// Precision is the finest level CcoordToCell resolves.
	Precision int
	// Order is the digit order of located addresses.
	Order tetracoord.DigitOrder
}

// DefaultConfig returns an Up space of scale 30 at origin (200, 200).
func DefaultConfig() Config {
	return Config{
		Orientation:       tetracoord.DefaultOrientation,
		Scale:             30,
		Origin:            vector2d.New(200, 200),
		RotationDirection: 1,
		Order:             tetracoord.DefaultOrder,
	}
}

// Space is a scale, origin, orientation and rotation direction transform
// context.
type Space struct {
	orientation tetracoord.Orientation
	scale       float64
	origin      vector2d.Vector2D
	rotDir      float64
	precision   int
	order       tetracoord.DigitOrder
	matrix      f64.Aff3
}

// New validates cfg and builds a space.
func New(cfg Config) (*Space, error) {
	if !cfg.Orientation.Valid() {
		return nil, fmt.Errorf("%w: unknown orientation %d", ErrInvalidSpace, int(cfg.Orientation))
	}
	if !(cfg.Scale > 0) || math.IsInf(cfg.Scale, 0) {
		return nil, fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidSpace, cfg.Scale)
	}
	if cfg.RotationDirection != 1 && cfg.RotationDirection != -1 {
		return nil, fmt.Errorf("%w: rotation direction must be 1 or -1, got %d", ErrInvalidSpace, cfg.RotationDirection)
	}
	if cfg.Order != tetracoord.HighFirst && cfg.Order != tetracoord.LowFirst {
		return nil, fmt.Errorf("%w: unknown digit order %d", ErrInvalidSpace, int(cfg.Order))
	}

	s := &Space{
		orientation: cfg.Orientation,
		scale:       cfg.Scale,
		origin:      cfg.Origin,
		rotDir:      float64(cfg.RotationDirection),
		precision:   cfg.Precision,
		order:       cfg.Order,
	}
	s.matrix = s.buildMatrix()
	return s, nil
}

// buildMatrix composes orient, then scale with the rotation direction
// applied to Y, then translate by origin.
func (s *Space) buildMatrix() f64.Aff3 {
	// columns of the orientation rotation: images of the X and Y unit vectors
	ex := s.orientation.Orient(vector2d.New(1, 0))
	ey := s.orientation.Orient(vector2d.New(0, 1))
	sx, sy := s.scale, s.scale*s.rotDir
	return f64.Aff3{
		sx * ex.X, sx * ey.X, s.origin.X,
		sy * ex.Y, sy * ey.Y, s.origin.Y,
	}
}

// Orientation returns the rotation of the addressing scheme.
func (s *Space) Orientation() tetracoord.Orientation { return s.orientation }

// Scale returns the display length of one address unit.
func (s *Space) Scale() float64 { return s.scale }

// Origin returns the display position of address 0.
func (s *Space) Origin() vector2d.Vector2D { return s.origin }

// RotationDirection returns 1, or -1 when display Y is flipped.
func (s *Space) RotationDirection() int { return int(s.rotDir) }

// Precision returns the lowest power CcoordToCell resolves to.
func (s *Space) Precision() int { return s.precision }

// Order returns the digit order of addresses produced by the space.
func (s *Space) Order() tetracoord.DigitOrder { return s.order }

// Config returns the configuration the space was built from.
func (s *Space) Config() Config {
	return Config{
		Orientation:       s.orientation,
		Scale:             s.scale,
		Origin:            s.origin,
		RotationDirection: s.RotationDirection(),
		Precision:         s.precision,
		Order:             s.order,
	}
}

// Matrix returns the local to display affine transform.
func (s *Space) Matrix() f64.Aff3 { return s.matrix }

// OrientPoint rotates a reference frame vector into the space orientation.
func (s *Space) OrientPoint(v vector2d.Vector2D) vector2d.Vector2D {
	return s.orientation.Orient(v)
}

// DeorientPoint is the inverse of OrientPoint.
func (s *Space) DeorientPoint(v vector2d.Vector2D) vector2d.Vector2D {
	return s.orientation.Deorient(v)
}

// Transform maps a local point to display coordinates.
func (s *Space) Transform(local vector2d.Vector2D) vector2d.Vector2D {
	m := &s.matrix
	return vector2d.Vector2D{
		X: m[0]*local.X + m[1]*local.Y + m[2],
		Y: m[3]*local.X + m[4]*local.Y + m[5],
	}
}

// Untransform maps a display point back to local coordinates. It undoes
// each step of Transform in turn instead of inverting the matrix, so
// display points on the lattice come back exactly.
func (s *Space) Untransform(display vector2d.Vector2D) vector2d.Vector2D {
	v := display.Sub(s.origin).Div(s.scale)
	v.Y *= s.rotDir
	return s.orientation.Deorient(v)
}

// TcoordToCell wraps t into a cell bound to s.
func (s *Space) TcoordToCell(t tetracoord.Tetracoordinate) Cell {
	return newCell(t, s)
}

// TcoordToCentroid returns the display position of the centroid of t's
// cell without building the cell.
func (s *Space) TcoordToCentroid(t tetracoord.Tetracoordinate) vector2d.Vector2D {
	size := math.Ldexp(1, t.Power())
	local := t.ToCartesian().Add(anchor(CellFlip(t), size))
	return s.Transform(local)
}

// CcoordToCell locates the cell under a display point, resolved to the
// space precision.
func (s *Space) CcoordToCell(display vector2d.Vector2D) Cell {
	local := s.Untransform(display)
	t := tetracoord.FromCartesian(local,
		tetracoord.WithPrecision(s.precision),
		tetracoord.WithOrder(s.order),
	)
	return newCell(t, s)
}

func (s *Space) String() string {
	return fmt.Sprintf("tspace(orientation=%s scale=%g origin=%s rotation=%d precision=%d order=%s)",
		s.orientation, s.scale, s.origin, s.RotationDirection(), s.precision, s.order)
}
