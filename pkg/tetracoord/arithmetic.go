package tetracoord

import "fmt"

// Negate is not implemented natively and always returns
// ErrUnsupportedOperation. See NegateFromCartesian.
func (t Tetracoordinate) Negate() (Tetracoordinate, error) {
	return t, fmt.Errorf("%w: native negate", ErrUnsupportedOperation)
}

// Add is not implemented natively and always returns
// ErrUnsupportedOperation. See AddFromCartesian.
func (t Tetracoordinate) Add(other Tetracoordinate) (Tetracoordinate, error) {
	return t, fmt.Errorf("%w: native add", ErrUnsupportedOperation)
}

// NegateFromCartesian replaces t with the tetracoordinate nearest to the
// negation of its cartesian position, resolved to t's power, and returns it.
// The result is re-quantized, so it is only as exact as FromCartesian.
func (t *Tetracoordinate) NegateFromCartesian() Tetracoordinate {
	negative := FromCartesian(
		t.ToCartesian().Neg(),
		WithPrecision(t.power),
		WithOrder(t.order),
	)
	t.Set(negative)
	return negative
}

// AddFromCartesian replaces t with the tetracoordinate nearest to the sum of
// both cartesian positions, resolved to the finer of the two powers, and
// returns it.
func (t *Tetracoordinate) AddFromCartesian(other Tetracoordinate) Tetracoordinate {
	sum := FromCartesian(
		t.ToCartesian().Add(other.ToCartesian()),
		WithPrecision(min(t.power, other.power)),
		WithOrder(t.order),
	)
	t.Set(sum)
	return sum
}
