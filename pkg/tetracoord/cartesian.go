package tetracoord

import (
	"math"
	"slices"

	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

const (
	cosPiOver6 = 0.8660254037844386 // √3/2
	sinPiOver6 = 0.5
)

// UnitVector returns the level 0 cartesian offset of a digit in the Up
// orientation: 0 at the origin, 1 toward +Y, 2 and 3 toward the lower left
// and lower right. Digits above 3 map to the origin.
func UnitVector(d uint8) vector2d.Vector2D {
	switch d {
	case 1:
		return vector2d.Vector2D{X: 0, Y: 1}
	case 2:
		return vector2d.Vector2D{X: -cosPiOver6, Y: -sinPiOver6}
	case 3:
		return vector2d.Vector2D{X: cosPiOver6, Y: -sinPiOver6}
	default:
		return vector2d.Vector2D{}
	}
}

// odd reports whether level is odd, including negative levels.
func odd(level int) bool { return level&1 == 1 }

// ToCartesian returns the nominal cartesian position of t, rotated by
// WithOrientation (default Up).
//
// Each digit contributes its unit vector scaled by 2^level, where the most
// significant digit sits at level NumLevels-1+Power. The unit vector is
// negated while the working parity is odd; parity starts as the parity of the
// top level and toggles after every nonzero digit only.
func (t Tetracoordinate) ToCartesian(opts ...Option) vector2d.Vector2D {
	o := buildOptions(opts)

	digits := t.HighFirstDigits()
	level := len(digits) - 1 + t.power
	flipped := odd(level)

	var sum vector2d.Vector2D
	for _, d := range digits {
		v := UnitVector(d)
		if flipped {
			v = v.Neg()
		}
		sum = sum.Add(v.Mul(math.Ldexp(1, level)))

		level--
		if d != 0 {
			flipped = !flipped
		}
	}

	return o.orientation.Orient(sum)
}

// FromCartesian locates the tetracoordinate nearest to p by greedy search.
//
// Options: WithPrecision sets the finest level searched (default 0),
// WithOrder the digit order of the result, WithOrientation the orientation p
// is expressed in.
//
// The search starts at level ceil(log2(|p|)). At every level it steps toward
// whichever nonzero unit direction (sign flipped on odd parity) makes the
// smallest angle with the remaining offset. A step that does not strictly
// reduce the distance to p is rejected: the level gets digit 0 and the parity
// flips. Remaining levels down to the precision are filled with zeros.
func FromCartesian(p vector2d.Vector2D, opts ...Option) Tetracoordinate {
	o := buildOptions(opts)
	target := o.orientation.Deorient(p)

	dist := target.Magnitude()
	if dist == 0 {
		return build([]uint8{0}, 0, o.order, false)
	}

	precision := o.precision
	minDist := math.Ldexp(1, precision) / 2

	scale := int(math.Ceil(math.Log2(dist)))
	power := scale
	sign := 1.0
	if odd(power) {
		sign = -1
	}

	var loc vector2d.Vector2D
	delta := target
	digits := make([]uint8, 0, max(scale+1-precision, 1))

	for dist > minDist && power >= precision {
		quad := uint8(1)
		best := math.Inf(1)
		for d := uint8(1); d <= 3; d++ {
			angle := vector2d.AngleBetween(delta, UnitVector(d).Mul(sign))
			if angle < best {
				best = angle
				quad = d
			}
		}

		step := UnitVector(quad).Mul(math.Ldexp(1, power) * sign)
		next := loc.Add(step)
		nextDelta := target.Sub(next)
		nextDist := nextDelta.Magnitude()

		if nextDist >= dist {
			digits = append(digits, 0)
			sign = -sign
		} else {
			digits = append(digits, quad)
			loc, delta, dist = next, nextDelta, nextDist
		}
		power--
	}

	for len(digits) < scale+1-precision {
		digits = append(digits, 0)
	}
	if len(digits) == 0 {
		// p is closer to the origin than the precision resolves.
		return build([]uint8{0}, 0, o.order, false)
	}

	resultPower := scale + 1 - len(digits)
	if o.order == LowFirst {
		slices.Reverse(digits)
	}
	return build(digits, resultPower, o.order, false)
}
