package tetracoord

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnits(t *testing.T) {
	for i, u := range []Tetracoordinate{Zero, One, Two, Three} {
		assert.Equal(t, 1, u.NumLevels())
		assert.Equal(t, 0, u.Power())
		assert.Equal(t, HighFirst, u.Order())
		assert.Equal(t, []uint8{uint8(i)}, u.Digits())
	}
	assert.True(t, Tetracoordinate{}.Equal(Zero))
	assert.True(t, New().Equal(Zero))
	assert.Equal(t, "0", Tetracoordinate{}.DigitString())
}

func TestFromDigitString(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		order     DigitOrder
		digits    string
		power     int
		byteStrs  []string
		numLevels int
	}{
		{"single", "1", HighFirst, "1", 0, []string{"0001"}, 1},
		{"high first padding", "123", HighFirst, "123", 0, []string{"0123"}, 3},
		{"low first padding", "123", LowFirst, "123", 0, []string{"1230"}, 3},
		{"two bytes", "12301", HighFirst, "12301", 0, []string{"0001", "2301"}, 5},
		{"two bytes low first", "12301", LowFirst, "12301", 0, []string{"1230", "1000"}, 5},
		{"point high first", "1.23", HighFirst, "123", -2, []string{"0123"}, 3},
		{"point low first", "12.3", LowFirst, "123", -2, []string{"1230"}, 3},
		{"leading point", ".123", HighFirst, "123", -3, []string{"0123"}, 3},
		{"trailing point", "123.", HighFirst, "123", 0, []string{"0123"}, 3},
		{"leading zeros kept", "0001", HighFirst, "0001", 0, []string{"0001"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, err := FromDigitString(tt.in, WithOrder(tt.order))
			require.NoError(t, err)
			assert.Equal(t, tt.digits, tc.DigitString())
			assert.Equal(t, tt.power, tc.Power())
			assert.Equal(t, tt.byteStrs, tc.ByteStrings())
			assert.Equal(t, tt.numLevels, tc.NumLevels())
			assert.Len(t, tc.Bytes(), (tt.numLevels+LevelsPerByte-1)/LevelsPerByte)
		})
	}
}

func TestFromDigitStringPowerOption(t *testing.T) {
	tc, err := FromDigitString("1.2", WithPower(3))
	require.NoError(t, err)
	assert.Equal(t, 2, tc.Power())
}

func TestFromDigitStringErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrInvalidFormat},
		{".", ErrInvalidFormat},
		{"1.2.3", ErrInvalidFormat},
		{"12a", ErrInvalidFormat},
		{"-1", ErrInvalidFormat},
		{"14", ErrInvalidDigit},
		{"9", ErrInvalidDigit},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := FromDigitString(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("4") })
	assert.NotPanics(t, func() { MustParse("3") })
}

func TestFromDigits(t *testing.T) {
	tc, err := FromDigits([]uint8{3, 0, 2}, WithPower(-1), WithOrder(LowFirst), WithIrrational(true))
	require.NoError(t, err)
	assert.Equal(t, "302", tc.DigitString())
	assert.Equal(t, []uint8{2, 0, 3}, tc.HighFirstDigits())
	assert.Equal(t, -1, tc.Power())
	assert.True(t, tc.Irrational())

	_, err = FromDigits([]uint8{1, 4})
	assert.ErrorIs(t, err, ErrInvalidDigit)
	_, err = FromDigits(nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFromDigitsCopiesInput(t *testing.T) {
	in := []uint8{1, 2, 3}
	tc, err := FromDigits(in)
	require.NoError(t, err)
	in[0] = 0
	assert.Equal(t, "123", tc.DigitString())
}

func TestFromBytes(t *testing.T) {
	// 0b00011011 = "0123" in base 4
	tc, err := FromBytes([]byte{0x1b}, 3)
	require.NoError(t, err)
	assert.Equal(t, "123", tc.DigitString())

	low, err := FromBytes([]byte{0x6c}, 3, WithOrder(LowFirst))
	require.NoError(t, err)
	assert.Equal(t, "123", low.DigitString())
	assert.False(t, tc.Equal(low))

	full, err := FromBytes([]byte{0x1b, 0xff}, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, full.NumLevels())
	assert.Equal(t, "01233333", full.DigitString())

	// surplus bytes on the padding side are dropped
	trimmed, err := FromBytes([]byte{0x00, 0x1b}, 3)
	require.NoError(t, err)
	assert.Equal(t, "123", trimmed.DigitString())
	assert.Len(t, trimmed.Bytes(), 1)

	_, err = FromBytes([]byte{0x1b}, 5)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = FromBytes(nil, 1)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPackingRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, order := range []DigitOrder{HighFirst, LowFirst} {
		for n := 1; n <= 16; n++ {
			var sb strings.Builder
			for i := 0; i < n; i++ {
				sb.WriteByte(byte('0' + rng.Intn(4)))
			}
			want := sb.String()

			tc, err := FromDigitString(want, WithOrder(order))
			require.NoError(t, err)
			assert.Equal(t, want, tc.DigitString(), "order=%s n=%d", order, n)
			assert.Equal(t, n, tc.NumLevels())

			fromBytes, err := FromBytes(tc.Bytes(), tc.NumLevels(), WithOrder(order))
			require.NoError(t, err)
			assert.Equal(t, want, fromBytes.DigitString())
		}
	}
}

func TestEqualIgnoresDigitOrder(t *testing.T) {
	high := MustParse("0123")
	low := MustParse("3210", WithOrder(LowFirst))
	assert.True(t, high.Equal(low))
	assert.True(t, low.Equal(high))

	assert.False(t, high.Equal(MustParse("0123", WithOrder(LowFirst))))
	assert.False(t, high.Equal(MustParse("01.23")))
	assert.True(t, high.Equal(MustParse("0123", WithIrrational(true))))
}

func TestReorder(t *testing.T) {
	tc := MustParse("1.02")
	low := tc.Reorder(LowFirst)
	assert.Equal(t, LowFirst, low.Order())
	assert.Equal(t, "201", low.DigitString())
	assert.Equal(t, tc.Power(), low.Power())
	assert.True(t, tc.Equal(low))
	assert.Equal(t, "1.02", tc.Text())
	assert.Equal(t, "20.1", low.Text())
}

func TestCloneAndSet(t *testing.T) {
	tc := MustParse("123")
	c := tc.Clone(WithPower(-1))
	assert.Equal(t, -1, c.Power())
	assert.Equal(t, 0, tc.Power())
	assert.Equal(t, "123", c.DigitString())

	reordered := tc.Clone(WithOrder(LowFirst))
	assert.Equal(t, "321", reordered.DigitString())

	var dst Tetracoordinate
	dst.Set(c)
	assert.True(t, dst.Equal(c))
	assert.Equal(t, c.String(), dst.String())
}

func TestText(t *testing.T) {
	tests := []struct {
		digits string
		power  int
		order  DigitOrder
		want   string
	}{
		{"123", 0, HighFirst, "123"},
		{"123", -1, HighFirst, "12.3"},
		{"123", -3, HighFirst, ".123"},
		{"123", -5, HighFirst, ".00123"},
		{"123", 2, HighFirst, "12300"},
		{"123", -1, LowFirst, "1.23"},
		{"123", -5, LowFirst, "12300."},
		{"123", 2, LowFirst, "00123"},
	}
	for _, tt := range tests {
		tc := MustParse(tt.digits, WithPower(tt.power), WithOrder(tt.order))
		assert.Equal(t, tt.want, tc.Text(), "%s power=%d order=%s", tt.digits, tt.power, tt.order)
	}

	for _, s := range []string{"0", "3.1", ".2", "21.", "0.0"} {
		for _, order := range []DigitOrder{HighFirst, LowFirst} {
			tc := MustParse(s, WithOrder(order))
			back, err := FromDigitString(tc.Text(), WithOrder(order))
			require.NoError(t, err)
			assert.True(t, tc.Equal(back), "%q order=%s", s, order)
		}
	}
}

func TestString(t *testing.T) {
	tc := MustParse("12301", WithPower(-2))
	assert.Equal(t, "tcoord(bytes=0001-2301q power=-2 order=h levels=5 irrational=false)", tc.String())
}

func TestJSON(t *testing.T) {
	tc := MustParse("2.01", WithOrder(LowFirst), WithIrrational(true))
	data, err := json.Marshal(tc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"digits":"201","power":-1,"order":"l","irrational":true}`, string(data))

	var back Tetracoordinate
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, tc.Equal(back))
	assert.Equal(t, LowFirst, back.Order())
	assert.True(t, back.Irrational())

	err = json.Unmarshal([]byte(`{"digits":"15","power":0}`), &back)
	assert.ErrorIs(t, err, ErrInvalidDigit)
	err = json.Unmarshal([]byte(`{"digits":"1.5"}`), &back)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	err = json.Unmarshal([]byte(`{"digits":"1","order":"x"}`), &back)
	assert.Error(t, err)
}

func TestEnumerate(t *testing.T) {
	assert.Nil(t, Enumerate(0))
	assert.Nil(t, Enumerate(MaxEnumerateLevels+1))
	assert.Nil(t, Enumerate(32))
	assert.Len(t, Enumerate(MaxEnumerateLevels), 1<<(2*MaxEnumerateLevels))

	all := Enumerate(2)
	require.Len(t, all, 16)
	assert.Equal(t, "00", all[0].DigitString())
	assert.Equal(t, "13", all[7].DigitString())
	assert.Equal(t, "33", all[15].DigitString())

	low := Enumerate(2, WithOrder(LowFirst), WithPower(-1))
	require.Len(t, low, 16)
	assert.Equal(t, "31", low[7].DigitString())
	assert.Equal(t, -1, low[7].Power())
	assert.True(t, low[7].Equal(all[7].Clone(WithPower(-1))))
}

func TestOrderAndOrientationText(t *testing.T) {
	for _, s := range []string{"h", "high", "HIGH_FIRST"} {
		o, err := ParseDigitOrder(s)
		require.NoError(t, err)
		assert.Equal(t, HighFirst, o)
	}
	o, err := ParseDigitOrder("l")
	require.NoError(t, err)
	assert.Equal(t, LowFirst, o)
	_, err = ParseDigitOrder("sideways")
	assert.Error(t, err)

	for want, names := range map[Orientation][]string{
		Up:    {"up", ""},
		Down:  {"dn", "down"},
		Left:  {"lf", "Left"},
		Right: {"rt", "right"},
	} {
		for _, n := range names {
			got, err := ParseOrientation(n)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
	_, err = ParseOrientation("diagonal")
	assert.Error(t, err)
	assert.False(t, Orientation(9).Valid())
}
