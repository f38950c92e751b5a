package tetracoord

import (
	"fmt"
	"math"
	"strings"

	"github.com/gravitas-games/tetracoords/pkg/vector2d"
)

// Orientation rotates the addressing scheme relative to the cartesian axes.
// Up is the reference orientation: digit 1 points toward +Y at level 0.
type Orientation int

const (
	Up Orientation = iota
	Down
	Left
	Right
)

// DefaultOrientation is used when no orientation is given.
const DefaultOrientation = Up

func (o Orientation) String() string {
	switch o {
	case Up:
		return "up"
	case Down:
		return "dn"
	case Left:
		return "lf"
	case Right:
		return "rt"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Valid reports whether o is one of the four named orientations.
func (o Orientation) Valid() bool {
	return o >= Up && o <= Right
}

// ParseOrientation accepts the short names (up, dn, lf, rt) and the long
// names (up, down, left, right). The empty string yields DefaultOrientation.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultOrientation, nil
	case "up":
		return Up, nil
	case "dn", "down":
		return Down, nil
	case "lf", "left":
		return Left, nil
	case "rt", "right":
		return Right, nil
	}
	return DefaultOrientation, fmt.Errorf("unknown orientation %q", s)
}

// Angle returns the counter-clockwise rotation applied by o.
func (o Orientation) Angle() float64 {
	switch o {
	case Down:
		return math.Pi
	case Left:
		return math.Pi / 2
	case Right:
		return -math.Pi / 2
	default:
		return 0
	}
}

// Orient rotates v from the reference (Up) frame into o. Rotations are
// quarter turns done by swapping components, so Deorient is exact. An
// invalid o leaves v unchanged, like Up.
func (o Orientation) Orient(v vector2d.Vector2D) vector2d.Vector2D {
	switch o {
	case Down:
		return vector2d.Vector2D{X: -v.X, Y: -v.Y}
	case Left:
		return vector2d.Vector2D{X: -v.Y, Y: v.X}
	case Right:
		return vector2d.Vector2D{X: v.Y, Y: -v.X}
	default:
		return v
	}
}

// Deorient is the inverse of Orient.
func (o Orientation) Deorient(v vector2d.Vector2D) vector2d.Vector2D {
	switch o {
	case Down:
		return vector2d.Vector2D{X: -v.X, Y: -v.Y}
	case Left:
		return vector2d.Vector2D{X: v.Y, Y: -v.X}
	case Right:
		return vector2d.Vector2D{X: -v.Y, Y: v.X}
	default:
		return v
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("unknown orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
