// Package vector2d provides the 2D vector value type used by tetracoordinate geometry.
package vector2d

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Vector2D is a point or displacement in cartesian (x, y) space.
// All methods take and return values; chained calls never alias the receiver.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// New returns the vector (x, y).
func New(x, y float64) Vector2D { return Vector2D{X: x, Y: y} }

// FromVec2 converts an f64.Vec2 into a Vector2D.
func FromVec2(v f64.Vec2) Vector2D { return Vector2D{X: v[0], Y: v[1]} }

// Vec2 converts v into an f64.Vec2.
func (v Vector2D) Vec2() f64.Vec2 { return f64.Vec2{v.X, v.Y} }

// Add returns v+w.
func (v Vector2D) Add(w Vector2D) Vector2D { return Vector2D{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vector2D) Sub(w Vector2D) Vector2D { return Vector2D{v.X - w.X, v.Y - w.Y} }

// Mul returns v scaled by s.
func (v Vector2D) Mul(s float64) Vector2D { return Vector2D{v.X * s, v.Y * s} }

// Div returns v divided by s.
func (v Vector2D) Div(s float64) Vector2D { return Vector2D{v.X / s, v.Y / s} }

// Neg returns -v.
func (v Vector2D) Neg() Vector2D { return Vector2D{-v.X, -v.Y} }

// Magnitude returns the euclidean length of v.
func (v Vector2D) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vector2D) Rotate(angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// HorizontalAngle returns the heading of v in (-π, π], measured from +X.
// The zero vector has heading 0.
func (v Vector2D) HorizontalAngle() float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.Y, v.X)
}

// ApproxEqual reports whether v and w differ by at most eps on each axis.
func (v Vector2D) ApproxEqual(w Vector2D, eps float64) bool {
	return math.Abs(v.X-w.X) <= eps && math.Abs(v.Y-w.Y) <= eps
}

func (v Vector2D) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// AngleBetween returns the smallest absolute angle in [0, π] between the
// headings of a and b.
func AngleBetween(a, b Vector2D) float64 {
	da := math.Abs(a.HorizontalAngle() - b.HorizontalAngle())
	if da > math.Pi {
		da = 2*math.Pi - da
	}
	return da
}
