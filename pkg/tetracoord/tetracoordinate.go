// Package tetracoord implements tetracoordinates: base-4 fixed-point numerals
// addressing cells of a recursive subdivision of the plane into triangles,
// where every triangle splits into a centered cell (digit 0) and three corner
// cells (digits 1, 2, 3).
package tetracoord

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const (
	// LevelsPerByte is the number of quaternary digits packed into one byte.
	LevelsPerByte = 4
	bitsPerLevel  = 2
	digitMask     = 0x3

	// PointChar marks the power position in a digit string.
	PointChar = '.'
)

// Tetracoordinate is an arbitrary length base-4 fixed-point number. Its
// nominal value is the digit sequence read as a base-4 integer times 4^power.
//
// Digits are packed two bits each, four to a byte, zero padded on the side
// opposite the significant digits. A Tetracoordinate is a value: methods never
// modify the packed buffer in place, so copies may share it. The zero value
// is equal to Zero.
type Tetracoordinate struct {
	bytes      []byte
	numLevels  int
	power      int
	order      DigitOrder
	irrational bool
}

// Unit tetracoordinates, one digit at power 0.
var (
	Zero  = unit(0)
	One   = unit(1)
	Two   = unit(2)
	Three = unit(3)
)

func unit(d uint8) Tetracoordinate {
	return Tetracoordinate{bytes: pack([]uint8{d}, DefaultOrder), numLevels: 1}
}

// New returns a single zero digit, honoring WithPower, WithOrder and
// WithIrrational.
func New(opts ...Option) Tetracoordinate {
	o := buildOptions(opts)
	return build([]uint8{0}, o.power, o.order, o.irrational)
}

// FromDigitString parses a quaternary digit string such as "0123" or "1.23".
// The point character, if present, shifts the power: with HighFirst order
// power decreases by the number of characters after the point, with LowFirst
// order by the index of the point. WithPower adds to that shift.
func FromDigitString(s string, opts ...Option) (Tetracoordinate, error) {
	o := buildOptions(opts)
	if s == "" {
		return Tetracoordinate{}, fmt.Errorf("%w: empty numeral", ErrInvalidFormat)
	}

	power := o.power
	digits := make([]uint8, 0, len(s))
	seenPoint := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == PointChar:
			if seenPoint {
				return Tetracoordinate{}, fmt.Errorf("%w: more than one point in %q", ErrInvalidFormat, s)
			}
			seenPoint = true
			if o.order == LowFirst {
				power -= i
			} else {
				power -= len(s) - 1 - i
			}
		case c >= '0' && c <= '3':
			digits = append(digits, c-'0')
		case c >= '4' && c <= '9':
			return Tetracoordinate{}, fmt.Errorf("%w: %q at position %d of %q", ErrInvalidDigit, c, i, s)
		default:
			return Tetracoordinate{}, fmt.Errorf("%w: unexpected character %q at position %d of %q", ErrInvalidFormat, c, i, s)
		}
	}
	if len(digits) == 0 {
		return Tetracoordinate{}, fmt.Errorf("%w: no digits in %q", ErrInvalidFormat, s)
	}

	return build(digits, power, o.order, o.irrational), nil
}

// MustParse is like FromDigitString but panics on error.
func MustParse(s string, opts ...Option) Tetracoordinate {
	t, err := FromDigitString(s, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromDigits builds a tetracoordinate from digits listed in the configured
// order (WithOrder, default HighFirst).
func FromDigits(digits []uint8, opts ...Option) (Tetracoordinate, error) {
	o := buildOptions(opts)
	if len(digits) == 0 {
		return Tetracoordinate{}, fmt.Errorf("%w: no digits", ErrInvalidFormat)
	}
	for i, d := range digits {
		if d > digitMask {
			return Tetracoordinate{}, fmt.Errorf("%w: %d at position %d", ErrInvalidDigit, d, i)
		}
	}
	return build(slices.Clone(digits), o.power, o.order, o.irrational), nil
}

// FromBytes builds a tetracoordinate from a packed buffer. numLevels is the
// count of significant digits; zero or less means every digit in the buffer.
// Bytes beyond what numLevels needs are dropped from the padding side.
func FromBytes(b []byte, numLevels int, opts ...Option) (Tetracoordinate, error) {
	o := buildOptions(opts)
	if len(b) == 0 {
		return Tetracoordinate{}, fmt.Errorf("%w: empty buffer", ErrInvalidFormat)
	}
	capacity := len(b) * LevelsPerByte
	if numLevels <= 0 {
		numLevels = capacity
	}
	if numLevels > capacity {
		return Tetracoordinate{}, fmt.Errorf("%w: %d levels do not fit in %d bytes", ErrInvalidFormat, numLevels, len(b))
	}
	digits := trim(unpack(b), numLevels, o.order)
	return build(digits, o.power, o.order, o.irrational), nil
}

func build(digits []uint8, power int, order DigitOrder, irrational bool) Tetracoordinate {
	return Tetracoordinate{
		bytes:      pack(digits, order),
		numLevels:  len(digits),
		power:      power,
		order:      order,
		irrational: irrational,
	}
}

// pack zero pads digits to whole bytes, leading for HighFirst and trailing
// for LowFirst, and stores them two bits each, first digit in the high bits.
func pack(digits []uint8, order DigitOrder) []byte {
	pad := (LevelsPerByte - len(digits)%LevelsPerByte) % LevelsPerByte
	padded := make([]uint8, 0, len(digits)+pad)
	if order == LowFirst {
		padded = append(padded, digits...)
		padded = append(padded, make([]uint8, pad)...)
	} else {
		padded = append(padded, make([]uint8, pad)...)
		padded = append(padded, digits...)
	}

	out := make([]byte, len(padded)/LevelsPerByte)
	for i, d := range padded {
		shift := uint(LevelsPerByte-1-i%LevelsPerByte) * bitsPerLevel
		out[i/LevelsPerByte] |= (d & digitMask) << shift
	}
	return out
}

func unpack(b []byte) []uint8 {
	out := make([]uint8, 0, len(b)*LevelsPerByte)
	for _, v := range b {
		for q := LevelsPerByte - 1; q >= 0; q-- {
			out = append(out, (v>>(uint(q)*bitsPerLevel))&digitMask)
		}
	}
	return out
}

// trim drops padding so that exactly n digits remain.
func trim(digits []uint8, n int, order DigitOrder) []uint8 {
	if len(digits) <= n {
		return digits
	}
	if order == LowFirst {
		return digits[:n]
	}
	return digits[len(digits)-n:]
}

// NumLevels returns the count of significant digits.
func (t Tetracoordinate) NumLevels() int {
	if t.numLevels == 0 {
		return 1
	}
	return t.numLevels
}

// Power returns the exponent applied to the digit sequence.
func (t Tetracoordinate) Power() int { return t.power }

// Order returns the digit order.
func (t Tetracoordinate) Order() DigitOrder { return t.order }

// Irrational reports whether the least significant digit repeats forever.
func (t Tetracoordinate) Irrational() bool { return t.irrational }

// Bytes returns a copy of the packed buffer.
func (t Tetracoordinate) Bytes() []byte {
	if len(t.bytes) == 0 {
		return []byte{0}
	}
	return slices.Clone(t.bytes)
}

// Digits returns the significant digits in storage order.
func (t Tetracoordinate) Digits() []uint8 {
	if t.numLevels == 0 || len(t.bytes) == 0 {
		return []uint8{0}
	}
	return trim(unpack(t.bytes), t.numLevels, t.order)
}

// HighFirstDigits returns the significant digits, most significant first,
// regardless of storage order.
func (t Tetracoordinate) HighFirstDigits() []uint8 {
	digits := t.Digits()
	if t.order == LowFirst {
		slices.Reverse(digits)
	}
	return digits
}

// DigitString returns the digits in storage order, without a point.
func (t Tetracoordinate) DigitString() string {
	digits := t.Digits()
	var sb strings.Builder
	sb.Grow(len(digits))
	for _, d := range digits {
		sb.WriteByte('0' + d)
	}
	return sb.String()
}

// ByteStrings returns each packed byte as four base-4 characters.
func (t Tetracoordinate) ByteStrings() []string {
	b := t.Bytes()
	out := make([]string, len(b))
	for i, v := range b {
		s := strconv.FormatUint(uint64(v), 4)
		out[i] = strings.Repeat("0", LevelsPerByte-len(s)) + s
	}
	return out
}

// Text renders the digits with the point character placed according to the
// power, zero padding where the point falls outside the digits.
// FromDigitString(t.Text(), WithOrder(t.Order())) equals t whenever
// -t.NumLevels() <= t.Power() <= 0.
func (t Tetracoordinate) Text() string {
	digits := t.DigitString()
	lowFirst := t.order == LowFirst

	if t.power > 0 {
		zeros := strings.Repeat("0", t.power)
		if lowFirst {
			return zeros + digits
		}
		return digits + zeros
	}

	frac := -t.power
	if frac == 0 {
		return digits
	}
	if frac > len(digits) {
		zeros := strings.Repeat("0", frac-len(digits))
		if lowFirst {
			digits += zeros
		} else {
			digits = zeros + digits
		}
	}
	if lowFirst {
		return digits[:frac] + string(PointChar) + digits[frac:]
	}
	split := len(digits) - frac
	return digits[:split] + string(PointChar) + digits[split:]
}

// Reorder returns the same value stored in the given digit order.
func (t Tetracoordinate) Reorder(order DigitOrder) Tetracoordinate {
	if order == t.order {
		return t
	}
	digits := t.Digits()
	slices.Reverse(digits)
	return build(digits, t.power, order, t.irrational)
}

// Clone returns an independent copy. WithPower, WithIrrational and WithOrder
// override the copied fields; a different order reorders the digits.
func (t Tetracoordinate) Clone(opts ...Option) Tetracoordinate {
	o := buildOptions(opts)
	c := t
	c.bytes = t.Bytes()
	c.numLevels = t.NumLevels()
	if o.powerSet {
		c.power = o.power
	}
	if o.irrSet {
		c.irrational = o.irrational
	}
	if o.orderSet {
		c = c.Reorder(o.order)
	}
	return c
}

// Set replaces every field of t with a copy of other's.
func (t *Tetracoordinate) Set(other Tetracoordinate) {
	*t = other.Clone()
}

// Equal reports whether t and other have the same digits, compared most
// significant first so that storage order does not matter, and the same power.
// The irrational flag is not compared.
func (t Tetracoordinate) Equal(other Tetracoordinate) bool {
	return t.power == other.power && slices.Equal(t.HighFirstDigits(), other.HighFirstDigits())
}

func (t Tetracoordinate) String() string {
	return fmt.Sprintf(
		"tcoord(bytes=%sq power=%d order=%s levels=%d irrational=%t)",
		strings.Join(t.ByteStrings(), "-"), t.power, t.order, t.NumLevels(), t.irrational,
	)
}
