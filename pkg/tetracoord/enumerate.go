package tetracoord

import "slices"

// MaxEnumerateLevels bounds Enumerate; it lists 4^levels addresses.
const MaxEnumerateLevels = 8

// Enumerate returns every tetracoordinate with exactly levels digits, in
// ascending numeric order. WithPower, WithOrder and WithIrrational apply to
// each result. levels outside 1..MaxEnumerateLevels yields nil.
func Enumerate(levels int, opts ...Option) []Tetracoordinate {
	if levels < 1 || levels > MaxEnumerateLevels {
		return nil
	}
	o := buildOptions(opts)

	n := 1 << (2 * uint(levels))
	res := make([]Tetracoordinate, 0, n)
	digits := make([]uint8, levels)
	for v := 0; v < n; v++ {
		// most significant digit first
		for i := 0; i < levels; i++ {
			digits[levels-1-i] = uint8(v>>(2*uint(i))) & digitMask
		}
		listed := slices.Clone(digits)
		if o.order == LowFirst {
			slices.Reverse(listed)
		}
		res = append(res, build(listed, o.power, o.order, o.irrational))
	}
	return res
}
